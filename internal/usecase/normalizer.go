package usecase

import (
	"regexp"
	"strings"
)

var (
	nonCanonicalRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	unitWordRegex     = regexp.MustCompile(`\b(?:kg|g|ml|l|pcs|pack|bottle|can|box)\b`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)
)

// Normalize turns a raw product name into its canonical form for comparison.
// Lowercases, drops everything outside [a-z0-9] and whitespace, removes
// standalone unit words and collapses whitespace. Normalize is idempotent.
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	s := strings.ToLower(name)
	s = nonCanonicalRegex.ReplaceAllString(s, "")
	s = unitWordRegex.ReplaceAllString(s, "")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
