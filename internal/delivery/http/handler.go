package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/logger"
	"github.com/cartwise/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	detection *usecase.DetectionService
	log       zerolog.Logger
}

// NewHandler creates a new HTTP handler. A nil service makes the API
// endpoints answer 503 while /health keeps working.
func NewHandler(detection *usecase.DetectionService, log zerolog.Logger) *Handler {
	return &Handler{
		detection: detection,
		log:       log,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cartwise-backend",
		"version": Version,
	})
}

// DetectDuplicates runs detection over a snapshot sent in the request body
func (h *Handler) DetectDuplicates(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	settings := h.detection.DefaultSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}

	current, ok := domain.FindSnapshot(req.Lists, req.CurrentListID)
	if !ok {
		h.writeError(c, fmt.Errorf("%w: currentListId %q is not among the submitted lists",
			domain.ErrInvalidRequest, req.CurrentListID))
		return
	}

	dups, err := h.detection.DetectDuplicates(c.Request.Context(), current.Products, req.Lists, req.CurrentListID, settings)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, DetectResponse{
		CurrentListID: req.CurrentListID,
		Settings:      settings,
		Duplicates:    dups,
		Stats:         h.detection.GetStats(dups),
	})
}

// CheckStore reports whether an item about to be added is already planned at another store
func (h *Handler) CheckStore(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req StoreCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	threshold := h.detection.DefaultSettings().SimilarityThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	c.JSON(http.StatusOK, h.detection.CheckSameListDifferentStore(req.ProductName, req.SelectedStore, req.Products, threshold))
}

// SaveList stores a list snapshot for the user
func (h *Handler) SaveList(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req SaveListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	list := domain.ListSnapshot{
		ListRecord: domain.ListRecord{
			ID:        c.Param("listId"),
			Name:      req.Name,
			CreatedAt: req.CreatedAt,
		},
		Products: req.Products,
	}
	list.AdoptProducts()

	if err := h.detection.SaveList(c.Request.Context(), c.Param("userId"), list); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// DeleteList removes a stored list
func (h *Handler) DeleteList(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	if err := h.detection.DeleteList(c.Request.Context(), c.Param("userId"), c.Param("listId")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UserDuplicates runs detection for a stored list using the user's saved settings
func (h *Handler) UserDuplicates(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	result, err := h.detection.DetectForUser(c.Request.Context(), c.Param("userId"), c.Param("listId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSettings returns the user's comparison settings, or the defaults
func (h *Handler) GetSettings(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	settings, err := h.detection.SettingsFor(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SaveSettings stores the user's comparison settings
func (h *Handler) SaveSettings(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var settings domain.ComparisonSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	if err := h.detection.SaveSettings(c.Request.Context(), c.Param("userId"), settings); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// ready answers 503 when no detection service is wired
func (h *Handler) ready(c *gin.Context) bool {
	if h.detection == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Duplicate detection not configured",
		})
		return false
	}
	return true
}

// writeError maps domain errors to HTTP responses
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidSettings),
		errors.Is(err, domain.ErrInvalidProduct):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrListNotFound), errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrStoreUnavailable):
		logger.C(c.Request.Context(), h.log).Error().Err(err).Msg("store failure")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "List store temporarily unavailable"})

	default:
		logger.C(c.Request.Context(), h.log).Error().Err(err).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
