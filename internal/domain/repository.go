package domain

import (
	"context"
	"encoding/json"
)

// CacheStore defines the day-scoped key-value persistence boundary. Values
// are opaque JSON documents; operations are atomic per key with no cross-key
// transaction guarantee.
type CacheStore interface {
	// Get returns the value for key, or ok=false when absent.
	Get(ctx context.Context, key string) (value json.RawMessage, ok bool, err error)
	// SetMany writes every entry; partial success is acceptable.
	SetMany(ctx context.Context, entries map[string]json.RawMessage) error
	// RemoveMany deletes the given keys, ignoring ones that do not exist.
	RemoveMany(ctx context.Context, keys []string) error
	// Enumerate returns a snapshot of every stored key and value.
	Enumerate(ctx context.Context) (map[string]json.RawMessage, error)
}

// StorefrontClient defines the read-only query boundary to the shared
// storefront backend.
type StorefrontClient interface {
	// CategoryListing fetches the category page for one shop: an initial
	// page of full item records plus the complete item identifier set.
	CategoryListing(ctx context.Context, shop Shop, geo GeoParams, pageViewID string) (*CategoryListing, error)
	// ItemDetails fetches full records for one batch of item identifiers.
	ItemDetails(ctx context.Context, shopID string, geo GeoParams, itemIDs []string) ([]ItemRecord, error)
}

// ProgressSink receives lifecycle events from an aggregation run. Sinks must
// not block; the pipeline calls them inline.
type ProgressSink interface {
	RunStarted(shops []string)
	ShopCompleted(shop string, itemCount int)
	RunCompleted(view *Comparison)
}
