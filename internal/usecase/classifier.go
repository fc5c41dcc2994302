package usecase

import (
	"cmp"
	"slices"

	"github.com/cartwise/backend/internal/domain"
)

// recentMatchDays is the age, in days, up to which a match counts as recent
const recentMatchDays = 7

// manyMatchesThreshold is the match count above which an old item is worth reducing
const manyMatchesThreshold = 2

// Classification is the verdict for one product's matches
type Classification struct {
	Confidence      domain.Confidence
	SuggestedAction domain.Action
}

// Classify turns the matches of one product into a confidence and an action.
// Rules are evaluated in order and the first one that applies wins.
func Classify(matches []domain.MatchEntry, currentListID string, isDifferentStore bool) Classification {
	if isDifferentStore {
		return Classification{domain.ConfidenceHigh, domain.ActionDifferentStore}
	}

	for _, m := range matches {
		if m.ListID == currentListID {
			return Classification{domain.ConfidenceHigh, domain.ActionSkip}
		}
	}

	hasRecent := false
	recentUnpurchased := false
	for _, m := range matches {
		if m.DaysAgo <= recentMatchDays {
			hasRecent = true
			if !m.IsPurchased {
				recentUnpurchased = true
			}
		}
	}
	if hasRecent {
		if recentUnpurchased {
			return Classification{domain.ConfidenceHigh, domain.ActionSkip}
		}
		return Classification{domain.ConfidenceHigh, domain.ActionReduce}
	}

	if len(matches) > manyMatchesThreshold {
		return Classification{domain.ConfidenceMedium, domain.ActionReduce}
	}

	return Classification{domain.ConfidenceLow, domain.ActionWarning}
}

// ClassifyAll builds the final duplicate list from matcher output, most confident first
func ClassifyAll(groups []ProductMatches, currentListID string) []domain.DuplicateMatch {
	out := make([]domain.DuplicateMatch, 0, len(groups))
	for _, g := range groups {
		c := Classify(g.Matches, currentListID, g.IsDifferentStore)
		out = append(out, domain.DuplicateMatch{
			ProductName:      g.Product.Name,
			Quantity:         g.Product.Quantity,
			Units:            g.Product.Units,
			SelectedStore:    g.Product.SelectedStore,
			Matches:          slices.Clone(g.Matches),
			SuggestedAction:  c.SuggestedAction,
			Confidence:       c.Confidence,
			IsDifferentStore: g.IsDifferentStore,
		})
	}
	SortDuplicates(out)
	return out
}

// SortDuplicates orders by confidence, then by match count, both descending
func SortDuplicates(dups []domain.DuplicateMatch) {
	slices.SortStableFunc(dups, func(a, b domain.DuplicateMatch) int {
		if c := cmp.Compare(b.Confidence.Rank(), a.Confidence.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(len(b.Matches), len(a.Matches))
	})
}
