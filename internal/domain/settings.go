package domain

import (
	"fmt"
	"math"
)

// CompareOption selects which historical lists take part in a detection run
type CompareOption string

const (
	CompareLast1  CompareOption = "last-1"
	CompareLast3  CompareOption = "last-3"
	CompareLast5  CompareOption = "last-5"
	CompareAll    CompareOption = "all"
	CompareCustom CompareOption = "custom"
)

// Valid reports whether o is one of the known options
func (o CompareOption) Valid() bool {
	switch o {
	case CompareLast1, CompareLast3, CompareLast5, CompareAll, CompareCustom:
		return true
	}
	return false
}

// WindowSize returns the nominal number of lists for the last-N options, 0 otherwise
func (o CompareOption) WindowSize() int {
	switch o {
	case CompareLast1:
		return 2
	case CompareLast3:
		return 3
	case CompareLast5:
		return 5
	}
	return 0
}

// ComparisonSettings controls a single detection run
type ComparisonSettings struct {
	Option CompareOption `json:"option" yaml:"option" binding:"required,compareoption"`

	// CustomDays is only read when Option is custom; nil means no day limit
	CustomDays *int `json:"customDays,omitempty" yaml:"customDays,omitempty"`

	IncludeCompleted     bool    `json:"includeCompleted" yaml:"includeCompleted"`
	SimilarityThreshold  float64 `json:"similarityThreshold" yaml:"similarityThreshold" binding:"gte=0,lte=1"`
	CheckDifferentStores bool    `json:"checkDifferentStores" yaml:"checkDifferentStores"`
}

// DefaultComparisonSettings returns the settings used for users who never saved their own
func DefaultComparisonSettings() ComparisonSettings {
	return ComparisonSettings{
		Option:               CompareLast3,
		IncludeCompleted:     false,
		SimilarityThreshold:  0.8,
		CheckDifferentStores: true,
	}
}

// Validate checks the settings before they reach the detection engine
func (s ComparisonSettings) Validate() error {
	if !s.Option.Valid() {
		return fmt.Errorf("%w: option must be one of last-1, last-3, last-5, all, custom (got %q)",
			ErrInvalidSettings, s.Option)
	}
	if math.IsNaN(s.SimilarityThreshold) || s.SimilarityThreshold < 0 || s.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity_threshold must be between 0 and 1 (got %.2f)",
			ErrInvalidSettings, s.SimilarityThreshold)
	}
	if s.Option == CompareCustom && s.CustomDays != nil && *s.CustomDays <= 0 {
		return fmt.Errorf("%w: custom_days must be positive (got %d)", ErrInvalidSettings, *s.CustomDays)
	}
	return nil
}

// Days returns a pointer to n, for building settings literals
func Days(n int) *int {
	return &n
}
