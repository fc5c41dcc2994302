package domain

// Action is the remediation suggested for a duplicate
type Action string

const (
	ActionSkip           Action = "skip"
	ActionReduce         Action = "reduce"
	ActionWarning        Action = "warning"
	ActionMerge          Action = "merge"
	ActionDifferentStore Action = "different-store"
)

// Confidence is how sure the engine is that an item is a real duplicate
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidences, high first. Unknown values rank below low.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	}
	return 0
}

// MatchEntry is one historical (or same-list) product that matched a current product
type MatchEntry struct {
	ProductID     string  `json:"productId,omitempty"`
	ProductName   string  `json:"productName"`
	ListID        string  `json:"listId"`
	ListName      string  `json:"listName"`
	Quantity      float64 `json:"quantity"`
	Units         string  `json:"units,omitempty"`
	IsPurchased   bool    `json:"isPurchased"`
	SelectedStore string  `json:"selectedStore,omitempty"`
	DaysAgo       int     `json:"daysAgo"`
	Similarity    float64 `json:"similarity"`
}

// DuplicateMatch is the verdict for one current-list product with at least one match
type DuplicateMatch struct {
	ProductName      string       `json:"productName"`
	Quantity         float64      `json:"quantity"`
	Units            string       `json:"units,omitempty"`
	SelectedStore    string       `json:"selectedStore,omitempty"`
	Matches          []MatchEntry `json:"matches"`
	SuggestedAction  Action       `json:"suggestedAction"`
	Confidence       Confidence   `json:"confidence"`
	IsDifferentStore bool         `json:"isDifferentStore"`
}

// DuplicateStats summarizes a batch of duplicates for reporting
type DuplicateStats struct {
	TotalDuplicates  int `json:"totalDuplicates"`
	HighConfidence   int `json:"highConfidence"`
	SuggestedSkips   int `json:"suggestedSkips"`
	SuggestedReduces int `json:"suggestedReduces"`
	DifferentStores  int `json:"differentStores"`
}
