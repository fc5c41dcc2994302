package domain

import (
	"fmt"
	"math"
	"strings"
)

// Validate rejects records the engine cannot compare meaningfully
func (p ProductRecord) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if math.IsNaN(p.Quantity) || math.IsInf(p.Quantity, 0) || p.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be a non-negative number (got %v for %q)",
			ErrInvalidProduct, p.Quantity, p.Name)
	}
	if p.CreatedAt.IsZero() {
		return fmt.Errorf("%w: createdAt is required (product %q)", ErrInvalidProduct, p.Name)
	}
	return nil
}

// Validate checks the list identity and every product it holds
func (l ListSnapshot) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("%w: list id is required", ErrInvalidRequest)
	}
	if l.CreatedAt.IsZero() {
		return fmt.Errorf("%w: list %q has no createdAt", ErrInvalidRequest, l.ID)
	}
	for _, p := range l.Products {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("list %q: %w", l.ID, err)
		}
	}
	return nil
}
