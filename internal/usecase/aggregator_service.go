package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/cartcompare/backend/internal/infrastructure/cache"
)

// RunRequest carries everything one comparison run needs: the storefronts to
// process (already filtered), the zone parameters, and the session page view
// id the category query requires.
type RunRequest struct {
	Shops      []domain.Shop
	Geo        domain.GeoParams
	PageViewID string
}

// AggregationService drives one query-and-resolve cycle per storefront,
// strictly sequentially, and merges the outcomes into the comparison view.
// Only one run may be in flight at a time; the cache has no cross-run
// locking, so a concurrent run on the same day entry would race.
type AggregationService struct {
	client  domain.StorefrontClient
	fetcher *FetchService
	sweeper *cache.Sweeper
	policy  ThrottlePolicy
	metrics *Metrics

	runMu sync.Mutex
}

// NewAggregationService creates the aggregation orchestrator. sweeper and
// metrics may be nil.
func NewAggregationService(
	client domain.StorefrontClient,
	fetcher *FetchService,
	sweeper *cache.Sweeper,
	policy ThrottlePolicy,
	metrics *Metrics,
) *AggregationService {
	return &AggregationService{
		client:  client,
		fetcher: fetcher,
		sweeper: sweeper,
		policy:  policy,
		metrics: metrics,
	}
}

// Run processes every storefront in order and returns the comparison view.
// A storefront failure degrades that storefront to zero items plus a
// recorded error; it never aborts the run. Returns ErrRunInProgress when
// another run is still in flight.
func (s *AggregationService) Run(ctx context.Context, req RunRequest, sink domain.ProgressSink) (*domain.Comparison, error) {
	if len(req.Shops) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	if !s.runMu.TryLock() {
		return nil, domain.ErrRunInProgress
	}
	defer s.runMu.Unlock()

	if sink == nil {
		sink = NopSink{}
	}
	started := time.Now()

	if s.sweeper != nil {
		s.sweeper.SweepOld(ctx)
	}

	names := make([]string, len(req.Shops))
	for i, shop := range req.Shops {
		names[i] = shop.Retailer
	}
	sink.RunStarted(names)

	results := make([]domain.AggregationResult, 0, len(req.Shops))
	for i, shop := range req.Shops {
		if i > 0 {
			pause(ctx, s.policy.ShopDelay)
		}
		result := s.processShop(ctx, shop, req)
		results = append(results, result)
		sink.ShopCompleted(shop.Retailer, len(result.Items))
	}

	view := BuildComparison(results)
	sink.RunCompleted(view)
	s.metrics.ObserveRun(time.Since(started))

	return view, nil
}

// processShop runs the category query and the cached detail fetch for one
// storefront.
func (s *AggregationService) processShop(ctx context.Context, shop domain.Shop, req RunRequest) domain.AggregationResult {
	result := domain.AggregationResult{
		ShopID:   shop.ID,
		Retailer: shop.Retailer,
		Items:    []domain.ItemRecord{},
	}

	listing, err := s.client.CategoryListing(ctx, shop, req.Geo, req.PageViewID)
	if err != nil {
		log.Printf("[aggregate] shop %s (%s) failed: %v", shop.ID, shop.Retailer, err)
		s.metrics.IncShopError()
		result.Error = err.Error()
		return result
	}

	resolved := s.fetcher.FetchItemDetails(ctx, shop.ID, req.Geo, listing.ItemIDs, listing.Items)
	for _, item := range resolved {
		result.Items = append(result.Items, item)
	}
	s.metrics.AddItems(len(result.Items))

	log.Printf("[aggregate] found %d items for %s", len(result.Items), shop.Retailer)
	return result
}
