package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/logger"
	"github.com/rs/zerolog"
)

// DetectionServiceConfig holds configuration for the detection service
type DetectionServiceConfig struct {
	// DefaultSettings apply to users who have not saved their own
	DefaultSettings domain.ComparisonSettings
	Logger          zerolog.Logger
}

// DetectionService runs duplicate detection over list snapshots.
// It holds no per-run state and is safe for concurrent use.
type DetectionService struct {
	lists           domain.ListRepository
	settings        domain.SettingsRepository
	defaultSettings domain.ComparisonSettings
	log             zerolog.Logger
	now             func() time.Time
}

// Option customizes a DetectionService
type Option func(*DetectionService)

// WithClock replaces the wall clock used for list ages and custom windows
func WithClock(now func() time.Time) Option {
	return func(s *DetectionService) {
		s.now = now
	}
}

// DetectionResult bundles the duplicates of one run with their statistics
type DetectionResult struct {
	CurrentListID string                    `json:"currentListId"`
	Settings      domain.ComparisonSettings `json:"settings"`
	Duplicates    []domain.DuplicateMatch   `json:"duplicates"`
	Stats         domain.DuplicateStats     `json:"stats"`
}

// NewDetectionService creates a detection service. Repositories may be nil
// when only the snapshot-based entry points are used.
func NewDetectionService(
	lists domain.ListRepository,
	settings domain.SettingsRepository,
	config DetectionServiceConfig,
	opts ...Option,
) *DetectionService {
	defaults := config.DefaultSettings
	if defaults.Option == "" {
		defaults = domain.DefaultComparisonSettings()
	}

	s := &DetectionService{
		lists:           lists,
		settings:        settings,
		defaultSettings: defaults,
		log:             config.Logger,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultSettings returns the settings used when a user has none stored
func (s *DetectionService) DefaultSettings() domain.ComparisonSettings {
	return s.defaultSettings
}

// SelectWindow validates settings and returns the lists of one comparison pass
func (s *DetectionService) SelectWindow(
	lists []domain.ListRecord,
	currentListID string,
	settings domain.ComparisonSettings,
) ([]domain.ListRecord, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return SelectWindow(lists, currentListID, settings, s.now()), nil
}

// DetectDuplicates finds likely duplicates of the current products across the
// selected window of lists. Inputs are validated first; the snapshots are never
// modified.
func (s *DetectionService) DetectDuplicates(
	ctx context.Context,
	current []domain.ProductRecord,
	allLists []domain.ListSnapshot,
	currentListID string,
	settings domain.ComparisonSettings,
) ([]domain.DuplicateMatch, error) {
	if err := validateRun(current, allLists, currentListID, settings); err != nil {
		return nil, err
	}

	now := s.now()
	selected := SelectWindow(domain.Lists(allLists), currentListID, settings, now)
	window := make([]domain.ListSnapshot, 0, len(selected))
	for _, l := range selected {
		if snap, ok := domain.FindSnapshot(allLists, l.ID); ok {
			window = append(window, snap)
		}
	}

	groups, err := findMatches(ctx, current, window, currentListID, settings, now)
	if err != nil {
		return nil, err
	}

	dups := ClassifyAll(groups, currentListID)

	logger.C(ctx, s.log).Debug().
		Str("list_id", currentListID).
		Str("option", string(settings.Option)).
		Int("window_lists", len(window)).
		Int("products", len(current)).
		Int("duplicates", len(dups)).
		Msg("duplicate detection finished")

	return dups, nil
}

// GetStats summarizes a set of duplicates
func (s *DetectionService) GetStats(dups []domain.DuplicateMatch) domain.DuplicateStats {
	return Aggregate(dups)
}

// CheckSameListDifferentStore looks for a product already on the list that
// resembles productName but is planned at a different store. It is meant to
// run before an item is added, so the new item has no record yet.
func (s *DetectionService) CheckSameListDifferentStore(
	productName string,
	selectedStore string,
	currentListProducts []domain.ProductRecord,
	threshold float64,
) domain.StoreCheckResult {
	canonical := Normalize(productName)
	if canonical == "" {
		return domain.StoreCheckResult{}
	}
	for _, p := range currentListProducts {
		if !storesDiffer(selectedStore, p.SelectedStore) {
			continue
		}
		if Similarity(canonical, Normalize(p.Name)) >= threshold {
			existing := p
			return domain.StoreCheckResult{Found: true, ExistingProduct: &existing}
		}
	}
	return domain.StoreCheckResult{}
}

// SettingsFor returns the user's saved settings, or the defaults when none exist
func (s *DetectionService) SettingsFor(ctx context.Context, userID string) (domain.ComparisonSettings, error) {
	if s.settings == nil {
		return s.defaultSettings, nil
	}
	settings, err := s.settings.GetSettings(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return s.defaultSettings, nil
	}
	if err != nil {
		return domain.ComparisonSettings{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return settings, nil
}

// SaveSettings validates and stores the user's settings
func (s *DetectionService) SaveSettings(ctx context.Context, userID string, settings domain.ComparisonSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if s.settings == nil {
		return domain.ErrStoreUnavailable
	}
	if err := s.settings.SaveSettings(ctx, userID, settings); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// SaveList validates and stores a list snapshot for the user
func (s *DetectionService) SaveList(ctx context.Context, userID string, list domain.ListSnapshot) error {
	if err := validateList(list); err != nil {
		return err
	}
	if s.lists == nil {
		return domain.ErrStoreUnavailable
	}
	if err := s.lists.SaveList(ctx, userID, list); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// DeleteList removes a stored list of the user
func (s *DetectionService) DeleteList(ctx context.Context, userID, listID string) error {
	if userID == "" || listID == "" {
		return domain.ErrInvalidRequest
	}
	if s.lists == nil {
		return domain.ErrStoreUnavailable
	}
	err := s.lists.DeleteList(ctx, userID, listID)
	if err == nil || errors.Is(err, domain.ErrListNotFound) || errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

// DetectForUser snapshots the user's lists and settings and runs detection for listID
func (s *DetectionService) DetectForUser(ctx context.Context, userID, listID string) (*DetectionResult, error) {
	if userID == "" || listID == "" {
		return nil, domain.ErrInvalidRequest
	}
	if s.lists == nil {
		return nil, domain.ErrStoreUnavailable
	}

	snapshots, err := s.lists.GetLists(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrListNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	current, ok := domain.FindSnapshot(snapshots, listID)
	if !ok {
		return nil, domain.ErrListNotFound
	}

	settings, err := s.SettingsFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	dups, err := s.DetectDuplicates(ctx, current.Products, snapshots, listID, settings)
	if err != nil {
		return nil, err
	}

	return &DetectionResult{
		CurrentListID: listID,
		Settings:      settings,
		Duplicates:    dups,
		Stats:         Aggregate(dups),
	}, nil
}

// validateRun rejects malformed input before the engine sees it
func validateRun(
	current []domain.ProductRecord,
	allLists []domain.ListSnapshot,
	currentListID string,
	settings domain.ComparisonSettings,
) error {
	if currentListID == "" {
		return fmt.Errorf("%w: current list id is required", domain.ErrInvalidRequest)
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	for _, p := range current {
		if err := validateProduct(p); err != nil {
			return err
		}
	}
	seen := make(map[string]bool, len(allLists))
	for _, l := range allLists {
		if err := validateList(l); err != nil {
			return err
		}
		if seen[l.ID] {
			return fmt.Errorf("%w: list id %q appears more than once", domain.ErrInvalidRequest, l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}

// validateList is ListSnapshot.Validate plus the canonical name check on every product
func validateList(l domain.ListSnapshot) error {
	if err := l.Validate(); err != nil {
		return err
	}
	for _, p := range l.Products {
		if err := validateProduct(p); err != nil {
			return fmt.Errorf("list %q: %w", l.ID, err)
		}
	}
	return nil
}

// validateProduct also rejects names such as "Box" or "!!!" that normalize to nothing
func validateProduct(p domain.ProductRecord) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if Normalize(p.Name) == "" {
		return fmt.Errorf("%w: name %q has nothing left to compare once normalized", domain.ErrInvalidProduct, p.Name)
	}
	return nil
}
