package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cartcompare/backend/config"
	"github.com/cartcompare/backend/internal/domain"
	"github.com/cartcompare/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	aggregator *usecase.AggregationService
	settings   *usecase.SettingsService
	storefront config.StorefrontConfig
}

// NewHandler creates a new HTTP handler
func NewHandler(aggregator *usecase.AggregationService, settings *usecase.SettingsService, storefront config.StorefrontConfig) *Handler {
	return &Handler{
		aggregator: aggregator,
		settings:   settings,
		storefront: storefront,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cartcompare-backend",
		"version": "1.0.0",
	})
}

// CompareRequest is the session state the extension posts: the full shop
// directory scraped off the page, the zone parameters, and optionally an
// explicit retailer selection overriding the saved one.
type CompareRequest struct {
	Shops      []domain.Shop `json:"shops" binding:"required"`
	Retailers  []string      `json:"retailers"`
	PostalCode string        `json:"postalCode"`
	ZoneID     string        `json:"zoneId"`
	PageViewID string        `json:"pageViewId"`
}

// Compare runs one aggregation cycle over the posted shop directory and
// returns the cross-shop comparison view.
func (h *Handler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	ctx := c.Request.Context()

	// Remember the directory so the options page can list retailers later.
	// Settings are a convenience; the run proceeds even if this fails.
	_ = h.settings.RecordDirectory(ctx, req.Shops)

	wanted := req.Retailers
	if len(wanted) == 0 {
		saved, err := h.settings.SelectedRetailers(ctx)
		if err != nil || len(saved) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no retailers requested and no saved selection"})
			return
		}
		wanted = saved
	}

	shops := domain.FilterShops(req.Shops, wanted, domain.ServiceTypeDelivery)
	if len(shops) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no delivery storefronts match the requested retailers"})
		return
	}

	run := usecase.RunRequest{
		Shops:      shops,
		Geo:        h.geoParams(req),
		PageViewID: h.pageViewID(req),
	}

	view, err := h.aggregator.Run(ctx, run, usecase.LogSink{})
	if err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetRetailers returns the saved selection and the last-seen directory.
func (h *Handler) GetRetailers(c *gin.Context) {
	ctx := c.Request.Context()

	selected, err := h.settings.SelectedRetailers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	directory, err := h.settings.RetailerDirectory(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"selected":  selected,
		"available": directory,
	})
}

// RetailerSelection is the body of a selection update.
type RetailerSelection struct {
	Selected []string `json:"selected" binding:"required"`
}

// PutRetailers replaces the saved retailer selection.
func (h *Handler) PutRetailers(c *gin.Context) {
	var req RetailerSelection
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if err := h.settings.SaveSelectedRetailers(c.Request.Context(), req.Selected); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": req.Selected})
}

// geoParams prefers the request's zone parameters, falling back to the
// configured defaults.
func (h *Handler) geoParams(req CompareRequest) domain.GeoParams {
	geo := domain.GeoParams{
		PostalCode: req.PostalCode,
		ZoneID:     req.ZoneID,
	}
	if geo.PostalCode == "" {
		geo.PostalCode = h.storefront.PostalCode
	}
	if geo.ZoneID == "" {
		geo.ZoneID = h.storefront.ZoneID
	}
	return geo
}

// pageViewID prefers the request's session page view id, then the configured
// one, then a fresh random id.
func (h *Handler) pageViewID(req CompareRequest) string {
	if req.PageViewID != "" {
		return req.PageViewID
	}
	if h.storefront.PageViewID != "" {
		return h.storefront.PageViewID
	}
	return uuid.NewString()
}
