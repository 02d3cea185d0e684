package usecase

import (
	"context"
	"time"
)

// ThrottlePolicy bounds the pipeline's request throughput. The delays are a
// self-imposed courtesy toward the shared backend, not a backend
// requirement; chunks and shops are always processed sequentially
// regardless.
type ThrottlePolicy struct {
	// ChunkSize is the number of item identifiers per detail query.
	ChunkSize int
	// ChunkDelay is the pause between consecutive detail queries.
	ChunkDelay time.Duration
	// ShopDelay is the pause between consecutive storefronts.
	ShopDelay time.Duration
}

// DefaultThrottlePolicy matches the backend-courtesy values the extension
// always used.
func DefaultThrottlePolicy() ThrottlePolicy {
	return ThrottlePolicy{
		ChunkSize:  50,
		ChunkDelay: 500 * time.Millisecond,
		ShopDelay:  500 * time.Millisecond,
	}
}

// pause sleeps for d unless the context ends first.
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
