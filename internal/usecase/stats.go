package usecase

import "github.com/cartwise/backend/internal/domain"

// Aggregate counts a batch of duplicates for reporting
func Aggregate(dups []domain.DuplicateMatch) domain.DuplicateStats {
	stats := domain.DuplicateStats{TotalDuplicates: len(dups)}
	for _, d := range dups {
		if d.Confidence == domain.ConfidenceHigh {
			stats.HighConfidence++
		}
		switch d.SuggestedAction {
		case domain.ActionSkip:
			stats.SuggestedSkips++
		case domain.ActionReduce:
			stats.SuggestedReduces++
		}
		if d.IsDifferentStore {
			stats.DifferentStores++
		}
	}
	return stats
}
