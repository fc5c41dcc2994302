package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidSettings is returned when comparison settings fail validation
	ErrInvalidSettings = errors.New("invalid comparison settings")

	// ErrInvalidProduct is returned when a product record fails validation
	ErrInvalidProduct = errors.New("invalid product record")

	// ErrListNotFound is returned when a shopping list does not exist for the user
	ErrListNotFound = errors.New("shopping list not found")

	// ErrUserNotFound is returned when nothing is stored for the user
	ErrUserNotFound = errors.New("user not found")

	// ErrStoreUnavailable is returned when the backing store fails
	ErrStoreUnavailable = errors.New("store unavailable")
)
