package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/cartwise/backend/internal/domain"
)

// userData holds everything stored for one user
type userData struct {
	lists    map[string]domain.ListSnapshot
	settings *domain.ComparisonSettings
}

// Store is a thread-safe in-memory list and settings repository.
// Values are copied on the way in and out so callers never share slices.
type Store struct {
	users map[string]*userData
	mutex sync.RWMutex
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		users: make(map[string]*userData),
	}
}

// SaveList stores or replaces a list snapshot for the user
func (s *Store) SaveList(ctx context.Context, userID string, list domain.ListSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	u := s.user(userID)
	u.lists[list.ID] = copySnapshot(list)
	return nil
}

// GetLists returns every list snapshot of the user, oldest first
func (s *Store) GetLists(ctx context.Context, userID string) ([]domain.ListSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	u, exists := s.users[userID]
	if !exists || len(u.lists) == 0 {
		return nil, domain.ErrUserNotFound
	}

	out := make([]domain.ListSnapshot, 0, len(u.lists))
	for _, l := range u.lists {
		out = append(out, copySnapshot(l))
	}
	slices.SortFunc(out, func(a, b domain.ListSnapshot) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// DeleteList removes one list of the user
func (s *Store) DeleteList(ctx context.Context, userID, listID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	u, exists := s.users[userID]
	if !exists {
		return domain.ErrUserNotFound
	}
	if _, ok := u.lists[listID]; !ok {
		return domain.ErrListNotFound
	}
	delete(u.lists, listID)
	return nil
}

// GetSettings returns the user's saved comparison settings
func (s *Store) GetSettings(ctx context.Context, userID string) (domain.ComparisonSettings, error) {
	if err := ctx.Err(); err != nil {
		return domain.ComparisonSettings{}, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	u, exists := s.users[userID]
	if !exists || u.settings == nil {
		return domain.ComparisonSettings{}, domain.ErrUserNotFound
	}
	return copySettings(*u.settings), nil
}

// SaveSettings stores the user's comparison settings
func (s *Store) SaveSettings(ctx context.Context, userID string, settings domain.ComparisonSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	stored := copySettings(settings)
	s.user(userID).settings = &stored
	return nil
}

// Size returns the number of users with stored data (for debugging/monitoring)
func (s *Store) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.users)
}

// Clear removes all stored data
func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.users = make(map[string]*userData)
}

// user returns the user's bucket, creating it. Callers hold the write lock.
func (s *Store) user(userID string) *userData {
	u, exists := s.users[userID]
	if !exists {
		u = &userData{lists: make(map[string]domain.ListSnapshot)}
		s.users[userID] = u
	}
	return u
}

func copySnapshot(l domain.ListSnapshot) domain.ListSnapshot {
	l.Products = slices.Clone(l.Products)
	return l
}

func copySettings(c domain.ComparisonSettings) domain.ComparisonSettings {
	if c.CustomDays != nil {
		c.CustomDays = domain.Days(*c.CustomDays)
	}
	return c
}
