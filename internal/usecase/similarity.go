package usecase

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity returns (maxLen - editDistance) / maxLen for two canonical names.
// Two empty strings are identical. Callers normalize first.
func Similarity(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}
