package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartcompare/backend/config"
	"github.com/cartcompare/backend/internal/domain"
	"github.com/cartcompare/backend/internal/infrastructure/cache"
	"github.com/cartcompare/backend/internal/usecase"
)

// fakeStorefront serves a fixed per-shop catalog.
type fakeStorefront struct {
	listings map[string]*domain.CategoryListing
	errs     map[string]error
}

func (f *fakeStorefront) CategoryListing(ctx context.Context, shop domain.Shop, geo domain.GeoParams, pageViewID string) (*domain.CategoryListing, error) {
	if err := f.errs[shop.ID]; err != nil {
		return nil, err
	}
	if listing, ok := f.listings[shop.ID]; ok {
		return listing, nil
	}
	return &domain.CategoryListing{}, nil
}

func (f *fakeStorefront) ItemDetails(ctx context.Context, shopID string, geo domain.GeoParams, itemIDs []string) ([]domain.ItemRecord, error) {
	return nil, nil
}

func item(category, name, productID, price string) domain.ItemRecord {
	return domain.ItemRecord{
		Category:    category,
		Name:        name,
		ProductID:   productID,
		PriceString: price,
		ItemID:      "items-" + productID,
	}
}

func newTestRouter(t *testing.T, client domain.StorefrontClient) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{
			Environment:    "test",
			AllowedOrigins: []string{"chrome-extension://*"},
		},
		Storefront: config.StorefrontConfig{
			BaseURL:    "https://backend.example",
			PostalCode: "77077",
			ZoneID:     "982",
		},
	}

	store := cache.NewMemoryStore()
	policy := usecase.ThrottlePolicy{ChunkSize: 50}
	fetcher := usecase.NewFetchService(store, client, policy, nil, nil)
	aggregator := usecase.NewAggregationService(client, fetcher, cache.NewSweeper(store, nil), policy, nil)
	settings := usecase.NewSettingsService(store)

	handler := NewHandler(aggregator, settings, cfg.Storefront)
	return SetupRouter(cfg, handler, nil)
}

func performJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func compareBody(retailers ...string) map[string]any {
	return map[string]any{
		"shops": []map[string]any{
			{"id": "s1", "retailer": "Kroger", "serviceType": "delivery", "retailerInventorySessionToken": "t1"},
			{"id": "s2", "retailer": "ALDI", "serviceType": "delivery", "retailerInventorySessionToken": "t2"},
			{"id": "s3", "retailer": "Kroger", "serviceType": "pickup", "retailerInventorySessionToken": "t3"},
		},
		"retailers":  retailers,
		"postalCode": "77077",
		"zoneId":     "982",
		"pageViewId": "pv-1",
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, &fakeStorefront{})

	recorder := performJSON(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "healthy")
}

func TestCompare_Success(t *testing.T) {
	client := &fakeStorefront{
		listings: map[string]*domain.CategoryListing{
			"s1": {Items: []domain.ItemRecord{item("Dairy", "Milk", "p1", "$3.00")}, ItemIDs: []string{"items-p1"}},
			"s2": {Items: []domain.ItemRecord{item("Dairy", "Milk", "p1", "$2.50")}, ItemIDs: []string{"items-p1"}},
		},
	}
	router := newTestRouter(t, client)

	recorder := performJSON(router, http.MethodPost, "/api/v1/compare", compareBody("Kroger", "ALDI"))

	require.Equal(t, http.StatusOK, recorder.Code)

	var view domain.Comparison
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	assert.Equal(t, []string{"ALDI", "Kroger"}, view.Retailers)
	require.Len(t, view.Categories, 1)
	require.Len(t, view.Categories[0].Items, 1)
	assert.InDelta(t, 0.50, view.Categories[0].Items[0].PriceDifference, 1e-9)
	assert.Len(t, view.ShopResults, 2, "pickup storefront filtered out")
}

func TestCompare_ShopFailureReportedInView(t *testing.T) {
	client := &fakeStorefront{
		listings: map[string]*domain.CategoryListing{
			"s2": {Items: []domain.ItemRecord{item("Dairy", "Milk", "p1", "$2.50")}, ItemIDs: []string{"items-p1"}},
		},
		errs: map[string]error{"s1": domain.ErrBackendRejected},
	}
	router := newTestRouter(t, client)

	recorder := performJSON(router, http.MethodPost, "/api/v1/compare", compareBody("Kroger", "ALDI"))

	require.Equal(t, http.StatusOK, recorder.Code)

	var view domain.Comparison
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	require.Len(t, view.ShopResults, 2)
	assert.NotEmpty(t, view.ShopResults[0].Error)
	assert.Empty(t, view.ShopResults[0].Items)
}

func TestCompare_InvalidBody(t *testing.T) {
	router := newTestRouter(t, &fakeStorefront{})

	recorder := performJSON(router, http.MethodPost, "/api/v1/compare", map[string]any{"retailers": []string{"Kroger"}})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCompare_NoRetailersAndNoSavedSelection(t *testing.T) {
	router := newTestRouter(t, &fakeStorefront{})

	recorder := performJSON(router, http.MethodPost, "/api/v1/compare", compareBody())

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "no retailers")
}

func TestCompare_FallsBackToSavedSelection(t *testing.T) {
	client := &fakeStorefront{
		listings: map[string]*domain.CategoryListing{
			"s2": {Items: []domain.ItemRecord{item("Dairy", "Milk", "p1", "$2.50")}, ItemIDs: []string{"items-p1"}},
		},
	}
	router := newTestRouter(t, client)

	put := performJSON(router, http.MethodPut, "/api/v1/retailers", map[string]any{"selected": []string{"ALDI"}})
	require.Equal(t, http.StatusOK, put.Code)

	recorder := performJSON(router, http.MethodPost, "/api/v1/compare", compareBody())

	require.Equal(t, http.StatusOK, recorder.Code)

	var view domain.Comparison
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	require.Len(t, view.ShopResults, 1)
	assert.Equal(t, "ALDI", view.ShopResults[0].Retailer)
}

func TestCompare_NoMatchingDeliveryShops(t *testing.T) {
	router := newTestRouter(t, &fakeStorefront{})

	recorder := performJSON(router, http.MethodPost, "/api/v1/compare", compareBody("Costco"))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "no delivery storefronts")
}

func TestRetailers_RoundTrip(t *testing.T) {
	router := newTestRouter(t, &fakeStorefront{})

	put := performJSON(router, http.MethodPut, "/api/v1/retailers", map[string]any{"selected": []string{"H-E-B", "Kroger"}})
	require.Equal(t, http.StatusOK, put.Code)

	get := performJSON(router, http.MethodGet, "/api/v1/retailers", nil)
	require.Equal(t, http.StatusOK, get.Code)

	var resp struct {
		Selected  []string `json:"selected"`
		Available []string `json:"available"`
	}
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &resp))
	assert.Equal(t, []string{"H-E-B", "Kroger"}, resp.Selected)
}

func TestRetailers_DirectoryRecordedByCompare(t *testing.T) {
	router := newTestRouter(t, &fakeStorefront{})

	// Even a rejected compare records the posted directory.
	performJSON(router, http.MethodPost, "/api/v1/compare", compareBody("Costco"))

	get := performJSON(router, http.MethodGet, "/api/v1/retailers", nil)
	require.Equal(t, http.StatusOK, get.Code)

	var resp struct {
		Available []string `json:"available"`
	}
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &resp))
	assert.Equal(t, []string{"ALDI", "Kroger"}, resp.Available)
}

func TestPutRetailers_InvalidBody(t *testing.T) {
	router := newTestRouter(t, &fakeStorefront{})

	recorder := performJSON(router, http.MethodPut, "/api/v1/retailers", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
