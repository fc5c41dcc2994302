package usecase

import (
	"slices"
	"time"

	"github.com/cartwise/backend/internal/domain"
)

const day = 24 * time.Hour

// SelectWindow picks the lists that take part in one comparison pass.
// The result is ordered most recent first and always contains the current
// list when it is present in lists, since a list is compared against itself
// for same-list and different-store detection.
//
// For last-3 and last-5 the window holds exactly N lists: when the current
// list is older than the N most recent ones it replaces the oldest of them.
func SelectWindow(
	lists []domain.ListRecord,
	currentListID string,
	settings domain.ComparisonSettings,
	now time.Time,
) []domain.ListRecord {
	sorted := slices.Clone(lists)
	slices.SortStableFunc(sorted, func(a, b domain.ListRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	currentIdx := slices.IndexFunc(sorted, func(l domain.ListRecord) bool {
		return l.ID == currentListID
	})

	switch settings.Option {
	case domain.CompareLast1:
		return selectCurrentAndLatestOther(sorted, currentIdx)

	case domain.CompareLast3, domain.CompareLast5:
		return selectLastN(sorted, currentIdx, settings.Option.WindowSize())

	case domain.CompareCustom:
		if settings.CustomDays == nil {
			return sorted
		}
		cutoff := now.Add(-time.Duration(*settings.CustomDays) * day)
		window := make([]domain.ListRecord, 0, len(sorted))
		for i, l := range sorted {
			if i == currentIdx || !l.CreatedAt.Before(cutoff) {
				window = append(window, l)
			}
		}
		return window

	default:
		return sorted
	}
}

// selectCurrentAndLatestOther keeps the current list and the most recent other list
func selectCurrentAndLatestOther(sorted []domain.ListRecord, currentIdx int) []domain.ListRecord {
	window := make([]domain.ListRecord, 0, 2)
	otherTaken := false
	for i, l := range sorted {
		switch {
		case i == currentIdx:
			window = append(window, l)
		case !otherTaken:
			window = append(window, l)
			otherTaken = true
		}
		if otherTaken && (currentIdx < 0 || i >= currentIdx) {
			break
		}
	}
	return window
}

// selectLastN keeps the n most recent lists, forcing the current list in by evicting the oldest
func selectLastN(sorted []domain.ListRecord, currentIdx, n int) []domain.ListRecord {
	if len(sorted) <= n {
		return sorted
	}
	window := slices.Clone(sorted[:n])
	if currentIdx >= n {
		window[n-1] = sorted[currentIdx]
	}
	return window
}
