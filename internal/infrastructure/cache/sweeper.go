package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/cartcompare/backend/internal/domain"
)

// Sweeper prunes day-scoped cache entries left over from previous days. The
// sweep is best-effort: every store error is logged and swallowed, because
// cache cleanup must never block the aggregation pipeline.
type Sweeper struct {
	store domain.CacheStore
	now   func() time.Time
}

// NewSweeper creates a sweeper over the given store. now may be nil, in
// which case time.Now is used.
func NewSweeper(store domain.CacheStore, now func() time.Time) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{store: store, now: now}
}

// SweepOld removes every recognized day-scoped key whose date token is not
// today. A sentinel key records the last cleanup day, so repeated calls
// within the same calendar day do no removal work.
func (s *Sweeper) SweepOld(ctx context.Context) {
	today := s.now().Format(DayFormat)

	if raw, ok, err := s.store.Get(ctx, sentinelKey); err != nil {
		log.Printf("[cache] sweep: reading cleanup sentinel: %v", err)
		return
	} else if ok {
		var last string
		if err := json.Unmarshal(raw, &last); err == nil && last == today {
			// Already cleaned up today.
			return
		}
	}

	log.Printf("[cache] running daily cache cleanup")

	all, err := s.store.Enumerate(ctx)
	if err != nil {
		log.Printf("[cache] sweep: enumerating keys: %v", err)
		return
	}

	var stale []string
	for key := range all {
		parsed, ok := ParseKey(key)
		if !ok {
			continue
		}
		if parsed.Day != today {
			stale = append(stale, key)
		}
	}

	if len(stale) > 0 {
		if err := s.store.RemoveMany(ctx, stale); err != nil {
			log.Printf("[cache] sweep: removing %d stale entries: %v", len(stale), err)
			return
		}
		log.Printf("[cache] cleared %d old cache entries", len(stale))
	}

	sentinel, _ := json.Marshal(today)
	if err := s.store.SetMany(ctx, map[string]json.RawMessage{sentinelKey: sentinel}); err != nil {
		log.Printf("[cache] sweep: writing cleanup sentinel: %v", err)
	}
}
