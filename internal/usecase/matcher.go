package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cartwise/backend/internal/domain"
)

// ProductMatches groups every match found for one current-list product name
type ProductMatches struct {
	Product          domain.ProductRecord
	Matches          []domain.MatchEntry
	IsDifferentStore bool
}

// windowProduct is a window product with its canonical name computed once per run
type windowProduct struct {
	product   domain.ProductRecord
	list      domain.ListRecord
	canonical string
	daysAgo   int
}

// FindMatches scans the window for products similar to each current product.
// Names that normalize to nothing never match. Groups are keyed by product name: the first current product with a given
// name is evaluated, later ones with the same name are skipped. Only products
// with at least one surviving match are returned, in input order.
func FindMatches(
	current []domain.ProductRecord,
	window []domain.ListSnapshot,
	currentListID string,
	settings domain.ComparisonSettings,
	now time.Time,
) []ProductMatches {
	groups, _ := findMatches(context.Background(), current, window, currentListID, settings, now)
	return groups
}

// findMatches is FindMatches with cancellation checked between current products
func findMatches(
	ctx context.Context,
	current []domain.ProductRecord,
	window []domain.ListSnapshot,
	currentListID string,
	settings domain.ComparisonSettings,
	now time.Time,
) ([]ProductMatches, error) {
	candidates := flattenWindow(window, now)

	var groups []ProductMatches
	seen := make(map[string]bool, len(current))

	for _, p := range current {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true

		if group, ok := matchProduct(p, candidates, currentListID, settings); ok {
			groups = append(groups, group)
		}
	}

	return groups, nil
}

// matchProduct collects the matches of a single current product
func matchProduct(
	p domain.ProductRecord,
	candidates []windowProduct,
	currentListID string,
	settings domain.ComparisonSettings,
) (ProductMatches, bool) {
	canonical := Normalize(p.Name)
	if canonical == "" {
		return ProductMatches{}, false
	}
	ownListID := p.ListID
	if ownListID == "" {
		ownListID = currentListID
	}

	group := ProductMatches{Product: p}
	for _, c := range candidates {
		q := c.product

		if isSameInstance(p, ownListID, q, c.list.ID) {
			continue
		}
		if !settings.IncludeCompleted && q.IsPurchased {
			continue
		}

		score := Similarity(canonical, c.canonical)
		if score < settings.SimilarityThreshold {
			continue
		}

		if c.list.ID == ownListID && settings.CheckDifferentStores && storesDiffer(p.SelectedStore, q.SelectedStore) {
			group.IsDifferentStore = true
		}

		group.Matches = append(group.Matches, domain.MatchEntry{
			ProductID:     q.ProductID,
			ProductName:   q.Name,
			ListID:        c.list.ID,
			ListName:      listName(c.list, q),
			Quantity:      q.Quantity,
			Units:         q.Units,
			IsPurchased:   q.IsPurchased,
			SelectedStore: q.SelectedStore,
			DaysAgo:       c.daysAgo,
			Similarity:    score,
		})
	}

	return group, len(group.Matches) > 0
}

// flattenWindow precomputes canonical names and ages for every window product
func flattenWindow(window []domain.ListSnapshot, now time.Time) []windowProduct {
	var out []windowProduct
	for _, l := range window {
		age := daysAgo(l.CreatedAt, now)
		for _, q := range l.Products {
			canonical := Normalize(q.Name)
			if canonical == "" {
				continue
			}
			out = append(out, windowProduct{
				product:   q,
				list:      l.ListRecord,
				canonical: canonical,
				daysAgo:   age,
			})
		}
	}
	return out
}

// isSameInstance reports whether q is the very product p being evaluated.
// Product ids decide when both records carry one; otherwise the list, creation
// time, name and quantity must all agree.
func isSameInstance(p domain.ProductRecord, pListID string, q domain.ProductRecord, qListID string) bool {
	if p.ProductID != "" && q.ProductID != "" {
		return p.ProductID == q.ProductID
	}
	return pListID == qListID &&
		p.CreatedAt.Equal(q.CreatedAt) &&
		p.Name == q.Name &&
		p.Quantity == q.Quantity
}

// storesDiffer is true when both stores are set and name different shops
func storesDiffer(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return !strings.EqualFold(a, b)
}

// daysAgo is the number of whole days between createdAt and now, never negative
func daysAgo(createdAt, now time.Time) int {
	d := now.Sub(createdAt)
	if d < 0 {
		return 0
	}
	return int(d / day)
}

func listName(l domain.ListRecord, q domain.ProductRecord) string {
	if l.Name != "" {
		return l.Name
	}
	return q.ListName
}
