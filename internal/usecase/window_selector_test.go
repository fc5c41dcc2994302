package usecase

import (
	"slices"
	"strings"
	"testing"

	"github.com/cartwise/backend/internal/domain"
)

func records(ages map[string]int) []domain.ListRecord {
	var out []domain.ListRecord
	for id, age := range ages {
		out = append(out, domain.ListRecord{ID: id, Name: id, CreatedAt: daysBefore(age)})
	}
	// map order is random
	slices.SortFunc(out, func(a, b domain.ListRecord) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func ids(lists []domain.ListRecord) []string {
	out := make([]string, 0, len(lists))
	for _, l := range lists {
		out = append(out, l.ID)
	}
	return out
}

func TestSelectWindow(t *testing.T) {
	standard := records(map[string]int{"current": 0, "d1": 1, "d5": 5, "d10": 10})
	currentOldest := records(map[string]int{"a": 0, "b": 1, "c": 5, "current": 10})

	tests := []struct {
		name     string
		lists    []domain.ListRecord
		settings domain.ComparisonSettings
		want     []string
	}{
		{
			name:     "last-1 keeps current and latest other",
			lists:    standard,
			settings: settingsWith(domain.CompareLast1),
			want:     []string{"current", "d1"},
		},
		{
			name:     "last-1 with current list older than others",
			lists:    currentOldest,
			settings: settingsWith(domain.CompareLast1),
			want:     []string{"a", "current"},
		},
		{
			name:     "last-3 takes three most recent",
			lists:    standard,
			settings: settingsWith(domain.CompareLast3),
			want:     []string{"current", "d1", "d5"},
		},
		{
			name:     "last-3 forces current in by evicting the oldest",
			lists:    currentOldest,
			settings: settingsWith(domain.CompareLast3),
			want:     []string{"a", "b", "current"},
		},
		{
			name:     "last-5 with fewer lists returns all",
			lists:    standard,
			settings: settingsWith(domain.CompareLast5),
			want:     []string{"current", "d1", "d5", "d10"},
		},
		{
			name:     "all returns every list newest first",
			lists:    standard,
			settings: settingsWith(domain.CompareAll),
			want:     []string{"current", "d1", "d5", "d10"},
		},
		{
			name:  "custom without days behaves like all",
			lists: standard,
			settings: domain.ComparisonSettings{
				Option:              domain.CompareCustom,
				SimilarityThreshold: 0.8,
			},
			want: []string{"current", "d1", "d5", "d10"},
		},
		{
			name:  "custom with days keeps the current list past the cutoff",
			lists: currentOldest,
			settings: domain.ComparisonSettings{
				Option:              domain.CompareCustom,
				CustomDays:          domain.Days(3),
				SimilarityThreshold: 0.8,
			},
			want: []string{"a", "b", "current"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(SelectWindow(tt.lists, "current", tt.settings, testNow))
			if !slices.Equal(got, tt.want) {
				t.Errorf("SelectWindow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectWindowCustomDays(t *testing.T) {
	lists := records(map[string]int{"current": 0, "d3": 3, "d10": 10})
	settings := domain.ComparisonSettings{
		Option:              domain.CompareCustom,
		CustomDays:          domain.Days(7),
		SimilarityThreshold: 0.8,
	}

	got := ids(SelectWindow(lists, "current", settings, testNow))
	want := []string{"current", "d3"}
	if !slices.Equal(got, want) {
		t.Errorf("SelectWindow() = %v, want %v", got, want)
	}
}

func TestSelectWindowLastNSize(t *testing.T) {
	lists := records(map[string]int{"a": 0, "b": 1, "c": 2, "d": 3, "e": 4, "f": 5, "current": 30})

	for _, option := range []domain.CompareOption{domain.CompareLast3, domain.CompareLast5} {
		t.Run(string(option), func(t *testing.T) {
			got := SelectWindow(lists, "current", settingsWith(option), testNow)
			if len(got) != option.WindowSize() {
				t.Errorf("len(window) = %d, want %d", len(got), option.WindowSize())
			}
			if !slices.Contains(ids(got), "current") {
				t.Errorf("window %v does not contain current list", ids(got))
			}
		})
	}
}

func TestSelectWindowDoesNotModifyInput(t *testing.T) {
	lists := records(map[string]int{"a": 5, "b": 1, "current": 0})
	before := slices.Clone(lists)

	_ = SelectWindow(lists, "current", settingsWith(domain.CompareLast1), testNow)

	if !slices.Equal(ids(lists), ids(before)) {
		t.Errorf("input reordered: %v, was %v", ids(lists), ids(before))
	}
}

func TestSelectWindowUnknownCurrentList(t *testing.T) {
	lists := records(map[string]int{"a": 0, "b": 1, "c": 2})

	got := ids(SelectWindow(lists, "missing", settingsWith(domain.CompareLast1), testNow))
	if !slices.Equal(got, []string{"a"}) {
		t.Errorf("SelectWindow() = %v, want [a]", got)
	}
}
