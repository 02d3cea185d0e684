package usecase

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/cartcompare/backend/internal/infrastructure/cache"
)

// FetchService resolves item records for one storefront, deduplicating
// network work through the day-scoped cache. Chunks are fetched strictly
// sequentially with a fixed delay between them, and a failed chunk only
// leaves its identifiers unresolved for this run.
type FetchService struct {
	store   domain.CacheStore
	client  domain.StorefrontClient
	policy  ThrottlePolicy
	metrics *Metrics
	now     func() time.Time
}

// NewFetchService creates a fetch service. metrics and now may be nil.
func NewFetchService(
	store domain.CacheStore,
	client domain.StorefrontClient,
	policy ThrottlePolicy,
	metrics *Metrics,
	now func() time.Time,
) *FetchService {
	if now == nil {
		now = time.Now
	}
	return &FetchService{
		store:   store,
		client:  client,
		policy:  policy,
		metrics: metrics,
		now:     now,
	}
}

// FetchItemDetails resolves the given item identifiers for one shop,
// serving from today's cache entry where possible. initial carries records
// already obtained as a side effect of a prior call; they seed both the
// result and the cache. The returned map is keyed by product id and omits
// identifiers that could not be resolved this run.
func (s *FetchService) FetchItemDetails(
	ctx context.Context,
	shopID string,
	geo domain.GeoParams,
	itemIDs []string,
	initial []domain.ItemRecord,
) map[string]domain.ItemRecord {
	cacheKey := cache.ShopItemsKey(shopID, s.now()).String()

	cached := s.loadCacheEntry(ctx, cacheKey)
	cacheChanged := false

	resolved := make(map[string]domain.ItemRecord)

	// Seed the cache with the free initial records. First writer wins: a
	// product already cached today is never overwritten.
	for _, item := range initial {
		if _, ok := cached[item.ProductID]; !ok {
			cached[item.ProductID] = item
			cacheChanged = true
		}
	}

	// Partition the requested identifiers into cache hits and misses.
	var toFetch []string
	for _, itemID := range itemIDs {
		productID := domain.ProductIDFromItemID(itemID)
		if item, ok := cached[productID]; ok {
			if _, dup := resolved[productID]; !dup {
				resolved[productID] = item
			}
		} else {
			toFetch = append(toFetch, itemID)
		}
	}
	s.metrics.AddCacheHits(len(resolved))
	s.metrics.AddCacheMisses(len(toFetch))

	if len(toFetch) > 0 {
		log.Printf("[fetch] shop %s: %d items in cache, fetching remaining %d", shopID, len(resolved), len(toFetch))
		s.fetchChunks(ctx, shopID, geo, toFetch, resolved, cached, &cacheChanged)
	} else if len(itemIDs) > 0 {
		log.Printf("[fetch] shop %s: all %d items found in cache", shopID, len(itemIDs))
	}

	if cacheChanged {
		s.storeCacheEntry(ctx, cacheKey, cached)
	}
	return resolved
}

// fetchChunks walks the identifier list in fixed-size chunks, merging every
// successful chunk into both the resolved set and the cache entry.
func (s *FetchService) fetchChunks(
	ctx context.Context,
	shopID string,
	geo domain.GeoParams,
	itemIDs []string,
	resolved map[string]domain.ItemRecord,
	cached map[string]domain.ItemRecord,
	cacheChanged *bool,
) {
	chunkSize := s.policy.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultThrottlePolicy().ChunkSize
	}

	for start := 0; start < len(itemIDs); start += chunkSize {
		if start > 0 {
			pause(ctx, s.policy.ChunkDelay)
		}

		end := min(start+chunkSize, len(itemIDs))
		chunk := itemIDs[start:end]

		items, err := s.client.ItemDetails(ctx, shopID, geo, chunk)
		if err != nil {
			// The chunk's identifiers stay unresolved for this run; a later
			// run will try them again.
			log.Printf("[fetch] shop %s: chunk of %d failed: %v", shopID, len(chunk), err)
			s.metrics.IncChunk("error")
			continue
		}
		s.metrics.IncChunk("ok")

		for _, item := range items {
			if _, ok := resolved[item.ProductID]; !ok {
				resolved[item.ProductID] = item
			}
			if _, ok := cached[item.ProductID]; !ok {
				cached[item.ProductID] = item
				*cacheChanged = true
			}
		}
	}
}

// loadCacheEntry reads today's cache entry for the shop. Any cache failure
// is logged and treated as an empty entry; the cache is an optimization,
// not a correctness requirement.
func (s *FetchService) loadCacheEntry(ctx context.Context, key string) map[string]domain.ItemRecord {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("[fetch] reading cache entry %s: %v", key, err)
		return make(map[string]domain.ItemRecord)
	}
	if !ok {
		return make(map[string]domain.ItemRecord)
	}

	var entry map[string]domain.ItemRecord
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Printf("[fetch] decoding cache entry %s: %v", key, err)
		return make(map[string]domain.ItemRecord)
	}
	return entry
}

// storeCacheEntry persists the merged entry as a single write. Write
// failures are logged and dropped.
func (s *FetchService) storeCacheEntry(ctx context.Context, key string, entry map[string]domain.ItemRecord) {
	raw, err := json.Marshal(entry)
	if err != nil {
		log.Printf("[fetch] encoding cache entry %s: %v", key, err)
		return
	}
	if err := s.store.SetMany(ctx, map[string]json.RawMessage{key: raw}); err != nil {
		log.Printf("[fetch] writing cache entry %s: %v", key, err)
		return
	}
	log.Printf("[fetch] updated cache entry %s with %d total items", key, len(entry))
}
