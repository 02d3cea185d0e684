package usecase

import (
	"log"

	"github.com/cartcompare/backend/internal/domain"
)

// LogSink reports run lifecycle events to the process log.
type LogSink struct{}

func (LogSink) RunStarted(shops []string) {
	log.Printf("[aggregate] run started for %d storefronts: %v", len(shops), shops)
}

func (LogSink) ShopCompleted(shop string, itemCount int) {
	log.Printf("[aggregate] %s completed with %d items", shop, itemCount)
}

func (LogSink) RunCompleted(view *domain.Comparison) {
	log.Printf("[aggregate] run completed: %d retailers, %d categories", len(view.Retailers), len(view.Categories))
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RunStarted([]string)             {}
func (NopSink) ShopCompleted(string, int)       {}
func (NopSink) RunCompleted(*domain.Comparison) {}
