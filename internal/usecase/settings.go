package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/cartcompare/backend/internal/infrastructure/cache"
)

// Settings keys. These carry no date token and survive the daily sweep.
const (
	selectedRetailersSetting = "selected-retailers"
	retailerDirectorySetting = "all-retailers"
)

// SettingsService persists the user's retailer selection and the last-seen
// retailer directory in the cache store, replacing what the extension kept
// in browser sync storage.
type SettingsService struct {
	store domain.CacheStore
}

// NewSettingsService creates a settings service over the given store.
func NewSettingsService(store domain.CacheStore) *SettingsService {
	return &SettingsService{store: store}
}

// SelectedRetailers returns the saved retailer selection, or nil when none
// has been saved yet.
func (s *SettingsService) SelectedRetailers(ctx context.Context) ([]string, error) {
	return s.getNames(ctx, selectedRetailersSetting)
}

// SaveSelectedRetailers replaces the saved retailer selection.
func (s *SettingsService) SaveSelectedRetailers(ctx context.Context, names []string) error {
	return s.setNames(ctx, selectedRetailersSetting, names)
}

// RetailerDirectory returns the last-seen full retailer name list, sorted.
func (s *SettingsService) RetailerDirectory(ctx context.Context) ([]string, error) {
	return s.getNames(ctx, retailerDirectorySetting)
}

// RecordDirectory remembers the distinct retailer names present in a posted
// shop directory, so the options page can offer them next time.
func (s *SettingsService) RecordDirectory(ctx context.Context, directory []domain.Shop) error {
	seen := make(map[string]struct{})
	var names []string
	for _, shop := range directory {
		if _, ok := seen[shop.Retailer]; ok {
			continue
		}
		seen[shop.Retailer] = struct{}{}
		names = append(names, shop.Retailer)
	}
	sort.Strings(names)
	return s.setNames(ctx, retailerDirectorySetting, names)
}

func (s *SettingsService) getNames(ctx context.Context, setting string) ([]string, error) {
	raw, ok, err := s.store.Get(ctx, cache.SettingsKey(setting))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("%w: settings %s: %v", domain.ErrCacheUnavailable, setting, err)
	}
	return names, nil
}

func (s *SettingsService) setNames(ctx context.Context, setting string, names []string) error {
	raw, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return s.store.SetMany(ctx, map[string]json.RawMessage{cache.SettingsKey(setting): raw})
}
