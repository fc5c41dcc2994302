package http

import (
	"time"

	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/usecase"
)

// DetectRequest carries a full snapshot of a user's lists for one detection run
type DetectRequest struct {
	CurrentListID string                     `json:"currentListId" binding:"required"`
	Settings      *domain.ComparisonSettings `json:"settings,omitempty"`
	Lists         []domain.ListSnapshot      `json:"lists" binding:"required,dive"`
}

// StoreCheckRequest asks whether an item about to be added already sits on the list for another store
type StoreCheckRequest struct {
	ProductName   string                 `json:"productName" binding:"required"`
	SelectedStore string                 `json:"selectedStore" binding:"required"`
	Threshold     *float64               `json:"threshold,omitempty" binding:"omitempty,gte=0,lte=1"`
	Products      []domain.ProductRecord `json:"products" binding:"dive"`
}

// SaveListRequest is the body of a list upload; the list id comes from the path
type SaveListRequest struct {
	Name      string                 `json:"name"`
	CreatedAt time.Time              `json:"createdAt"`
	Products  []domain.ProductRecord `json:"products" binding:"dive"`
}

// DetectResponse is returned by both detection endpoints
type DetectResponse = usecase.DetectionResult
