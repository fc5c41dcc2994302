package usecase

import (
	"context"
	"time"

	"github.com/cartwise/backend/internal/domain"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func daysBefore(n int) time.Time {
	return testNow.Add(-time.Duration(n) * day)
}

func fixedClock() time.Time {
	return testNow
}

// item builds an unplaced product; snapshot fills in list id and creation time
func item(id, name string, qty float64) domain.ProductRecord {
	return domain.ProductRecord{ProductID: id, Name: name, Quantity: qty}
}

func snapshot(id string, age int, products ...domain.ProductRecord) domain.ListSnapshot {
	created := daysBefore(age)
	l := domain.ListSnapshot{
		ListRecord: domain.ListRecord{ID: id, Name: "List " + id, CreatedAt: created},
	}
	for _, p := range products {
		p.ListID = id
		if p.CreatedAt.IsZero() {
			p.CreatedAt = created
		}
		l.Products = append(l.Products, p)
	}
	return l
}

func purchased(p domain.ProductRecord) domain.ProductRecord {
	p.IsPurchased = true
	return p
}

func atStore(p domain.ProductRecord, store string) domain.ProductRecord {
	p.SelectedStore = store
	return p
}

func settingsWith(option domain.CompareOption) domain.ComparisonSettings {
	s := domain.DefaultComparisonSettings()
	s.Option = option
	return s
}

// MockListRepository is a hand-rolled domain.ListRepository
type MockListRepository struct {
	lists     map[string][]domain.ListSnapshot
	getError  error
	saveError error
	saved     []domain.ListSnapshot
}

func NewMockListRepository() *MockListRepository {
	return &MockListRepository{lists: make(map[string][]domain.ListSnapshot)}
}

func (m *MockListRepository) SaveList(ctx context.Context, userID string, list domain.ListSnapshot) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.saved = append(m.saved, list)
	m.lists[userID] = append(m.lists[userID], list)
	return nil
}

func (m *MockListRepository) GetLists(ctx context.Context, userID string) ([]domain.ListSnapshot, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	lists, ok := m.lists[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return lists, nil
}

func (m *MockListRepository) DeleteList(ctx context.Context, userID, listID string) error {
	lists, ok := m.lists[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for i, l := range lists {
		if l.ID == listID {
			m.lists[userID] = append(lists[:i], lists[i+1:]...)
			return nil
		}
	}
	return domain.ErrListNotFound
}

// MockSettingsRepository is a hand-rolled domain.SettingsRepository
type MockSettingsRepository struct {
	settings map[string]domain.ComparisonSettings
	getError error
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{settings: make(map[string]domain.ComparisonSettings)}
}

func (m *MockSettingsRepository) GetSettings(ctx context.Context, userID string) (domain.ComparisonSettings, error) {
	if m.getError != nil {
		return domain.ComparisonSettings{}, m.getError
	}
	s, ok := m.settings[userID]
	if !ok {
		return domain.ComparisonSettings{}, domain.ErrUserNotFound
	}
	return s, nil
}

func (m *MockSettingsRepository) SaveSettings(ctx context.Context, userID string, settings domain.ComparisonSettings) error {
	m.settings[userID] = settings
	return nil
}
