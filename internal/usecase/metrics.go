package usecase

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the aggregation pipeline.
type Metrics struct {
	Registry        *prometheus.Registry
	ChunksTotal     *prometheus.CounterVec
	CacheHitsTotal  prometheus.Counter
	CacheMissTotal  prometheus.Counter
	ItemsTotal      prometheus.Counter
	ShopErrorsTotal prometheus.Counter
	RunDuration     prometheus.Histogram
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	chunks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartcompare_chunks_total",
			Help: "Item-detail chunk queries issued, by outcome.",
		},
		[]string{"outcome"},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cartcompare_cache_hits_total",
			Help: "Item identifiers resolved from the day cache.",
		},
	)
	cacheMisses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cartcompare_cache_misses_total",
			Help: "Item identifiers that required a network fetch.",
		},
	)
	items := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cartcompare_items_resolved_total",
			Help: "Item records resolved across all storefronts.",
		},
	)
	shopErrors := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cartcompare_shop_errors_total",
			Help: "Storefronts that failed their category query.",
		},
	)
	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cartcompare_run_duration_seconds",
			Help:    "Wall-clock duration of full comparison runs.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	registry.MustRegister(chunks, cacheHits, cacheMisses, items, shopErrors, runDuration)

	return &Metrics{
		Registry:        registry,
		ChunksTotal:     chunks,
		CacheHitsTotal:  cacheHits,
		CacheMissTotal:  cacheMisses,
		ItemsTotal:      items,
		ShopErrorsTotal: shopErrors,
		RunDuration:     runDuration,
	}
}

// IncChunk increments the chunk counter for the given outcome.
func (m *Metrics) IncChunk(outcome string) {
	if m == nil {
		return
	}
	m.ChunksTotal.WithLabelValues(outcome).Inc()
}

// AddCacheHits records identifiers served from the day cache.
func (m *Metrics) AddCacheHits(n int) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Add(float64(n))
}

// AddCacheMisses records identifiers that had to be fetched.
func (m *Metrics) AddCacheMisses(n int) {
	if m == nil {
		return
	}
	m.CacheMissTotal.Add(float64(n))
}

// AddItems records resolved item records.
func (m *Metrics) AddItems(n int) {
	if m == nil {
		return
	}
	m.ItemsTotal.Add(float64(n))
}

// IncShopError records a failed storefront.
func (m *Metrics) IncShopError() {
	if m == nil {
		return
	}
	m.ShopErrorsTotal.Inc()
}

// ObserveRun records a completed run's duration.
func (m *Metrics) ObserveRun(d time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(d.Seconds())
}
