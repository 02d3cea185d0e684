package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/cartcompare/backend/internal/domain"
)

// Persisted-query hashes for the two read-only operations the backend
// exposes. The backend identifies queries by hash; there is no query text to
// send.
const (
	categoryQueryHash = "829a2e7c0b0d8156926b64dc69afd11f0b3d4097f90679fa84a539059c131eb7"
	itemsQueryHash    = "6474c319c75c5357b0a4f646e1d3a01dd805c5fd917d7a90906ecb84a1bad8b1"
)

// categoryPageSize is the largest first-page size the category query honors.
const categoryPageSize = 20

// Client issues persisted GraphQL queries against the shared storefront
// backend. A token-bucket limiter keeps the request rate polite on top of
// the pipeline's own inter-call delays.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewClient creates a storefront client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 2),
	}
}

// envelope is the outer response shape: either a data payload or a list of
// error descriptions.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type categoryPayload struct {
	YourItemsCategory struct {
		Items   []rawItem `json:"items"`
		ItemIDs []string  `json:"itemIds"`
	} `json:"yourItemsCategory"`
}

type itemsPayload struct {
	Items []rawItem `json:"items"`
}

// CategoryListing fetches the "buy it again" category page for one shop: an
// initial page of full records plus the complete item identifier set.
func (c *Client) CategoryListing(ctx context.Context, shop domain.Shop, geo domain.GeoParams, pageViewID string) (*domain.CategoryListing, error) {
	variables := map[string]any{
		"retailerInventorySessionToken": shop.InventorySessionToken,
		"pageViewId":                    pageViewID,
		"orderBy":                       "MOST_RELEVANT",
		"first":                         categoryPageSize,
		"pageSource":                    "your_items",
		"categoryId":                    "all",
		"shopId":                        shop.ID,
		"postalCode":                    geo.PostalCode,
		"zoneId":                        geo.ZoneID,
	}

	body, err := c.query(ctx, "Category", variables, categoryQueryHash)
	if err != nil {
		return nil, err
	}

	var payload categoryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: category payload: %v", domain.ErrMalformedResponse, err)
	}

	items, err := mapItems(payload.YourItemsCategory.Items)
	if err != nil {
		return nil, err
	}
	return &domain.CategoryListing{
		Items:   items,
		ItemIDs: payload.YourItemsCategory.ItemIDs,
	}, nil
}

// ItemDetails fetches full records for one batch of item identifiers.
func (c *Client) ItemDetails(ctx context.Context, shopID string, geo domain.GeoParams, itemIDs []string) ([]domain.ItemRecord, error) {
	variables := map[string]any{
		"ids":        itemIDs,
		"shopId":     shopID,
		"zoneId":     geo.ZoneID,
		"postalCode": geo.PostalCode,
	}

	body, err := c.query(ctx, "Items", variables, itemsQueryHash)
	if err != nil {
		return nil, err
	}

	var payload itemsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: items payload: %v", domain.ErrMalformedResponse, err)
	}
	return mapItems(payload.Items)
}

// query executes one persisted GraphQL GET and returns the data payload.
func (c *Client) query(ctx context.Context, operation string, variables any, hash string) (json.RawMessage, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL, err := c.buildURL(operation, variables, hash)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "cartcompare/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("[storefront] %s query failed - status: %d, body: %s", operation, resp.StatusCode, truncate(body, 200))
		return nil, fmt.Errorf("%w: status %d", domain.ErrTransport, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if len(env.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrBackendRejected, env.Errors[0].Message)
	}
	return env.Data, nil
}

// buildURL encodes the operation name, variables, and persisted-query
// extensions as GET parameters on the /graphql endpoint.
func (c *Client) buildURL(operation string, variables any, hash string) (string, error) {
	variablesJSON, err := json.Marshal(variables)
	if err != nil {
		return "", fmt.Errorf("failed to encode variables: %w", err)
	}
	extensionsJSON, err := json.Marshal(map[string]any{
		"persistedQuery": map[string]any{
			"version":    1,
			"sha256Hash": hash,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode extensions: %w", err)
	}

	params := url.Values{}
	params.Set("operationName", operation)
	params.Set("variables", string(variablesJSON))
	params.Set("extensions", string(extensionsJSON))

	return fmt.Sprintf("%s/graphql?%s", c.baseURL, params.Encode()), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
