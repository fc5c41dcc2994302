package domain

import "context"

// ListRepository provides snapshots of a user's shopping lists.
// GetLists returns ErrUserNotFound when the user has no lists.
type ListRepository interface {
	SaveList(ctx context.Context, userID string, list ListSnapshot) error
	GetLists(ctx context.Context, userID string) ([]ListSnapshot, error)
	DeleteList(ctx context.Context, userID, listID string) error
}

// SettingsRepository persists comparison settings per user.
// GetSettings returns ErrUserNotFound when the user has never saved settings.
type SettingsRepository interface {
	GetSettings(ctx context.Context, userID string) (ComparisonSettings, error)
	SaveSettings(ctx context.Context, userID string, settings ComparisonSettings) error
}
