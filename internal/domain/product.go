package domain

import "time"

// ProductRecord is one item on a shopping list, already extracted from the data store
type ProductRecord struct {
	ProductID     string    `json:"productId,omitempty" yaml:"productId,omitempty"`
	Name          string    `json:"name" yaml:"name" binding:"required"`
	Quantity      float64   `json:"quantity" yaml:"quantity" binding:"gte=0"`
	Units         string    `json:"units,omitempty" yaml:"units,omitempty"`
	ListID        string    `json:"listId" yaml:"listId"`
	ListName      string    `json:"listName,omitempty" yaml:"listName,omitempty"`
	IsPurchased   bool      `json:"isPurchased" yaml:"isPurchased"`
	CreatedAt     time.Time `json:"createdAt" yaml:"createdAt"`
	SelectedStore string    `json:"selectedStore,omitempty" yaml:"selectedStore,omitempty"`
}

// ListRecord identifies one shopping list owned by a user
type ListRecord struct {
	ID        string    `json:"id" yaml:"id" binding:"required"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// ListSnapshot is a list together with its products, captured before a detection run
type ListSnapshot struct {
	ListRecord `yaml:",inline"`
	Products   []ProductRecord `json:"products" yaml:"products" binding:"dive"`
}

// AdoptProducts stamps the list id on every product and fills in a missing list name
func (l *ListSnapshot) AdoptProducts() {
	for i := range l.Products {
		l.Products[i].ListID = l.ID
		if l.Products[i].ListName == "" {
			l.Products[i].ListName = l.Name
		}
	}
}

// Lists returns the list records of the given snapshots, in order
func Lists(snapshots []ListSnapshot) []ListRecord {
	out := make([]ListRecord, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, s.ListRecord)
	}
	return out
}

// FindSnapshot returns the snapshot with the given list id
func FindSnapshot(snapshots []ListSnapshot, listID string) (ListSnapshot, bool) {
	for _, s := range snapshots {
		if s.ID == listID {
			return s, true
		}
	}
	return ListSnapshot{}, false
}

// StoreCheckResult reports whether the same product already sits on the list for another store
type StoreCheckResult struct {
	Found           bool           `json:"found"`
	ExistingProduct *ProductRecord `json:"existingProduct,omitempty"`
}
