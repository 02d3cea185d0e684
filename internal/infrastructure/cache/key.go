package cache

import (
	"fmt"
	"strings"
	"time"
)

// Cache key prefixes. Day-scoped entries serialize as
// "<prefix>-<scope>-<YYYY-MM-DD>"; settings entries have no date token and
// are never swept.
const (
	PrefixShopItems = "shop-items"
	PrefixSettings  = "settings"

	// sentinelKey records the calendar day of the last completed sweep.
	sentinelKey = "settings-last-cleanup-date"
)

// DayFormat is the date layout embedded in day-scoped keys.
const DayFormat = "2006-01-02"

// sweepPrefixes are the key families the daily sweep is allowed to touch.
var sweepPrefixes = []string{PrefixShopItems}

// Key is a structured cache key: a recognized prefix, a scope identifier
// (shop id or settings name), and the calendar day it is valid for.
type Key struct {
	Prefix string
	Scope  string
	Day    string // YYYY-MM-DD
}

// String serializes the key deterministically.
func (k Key) String() string {
	return fmt.Sprintf("%s-%s-%s", k.Prefix, k.Scope, k.Day)
}

// ShopItemsKey builds the item-cache key for one shop on one calendar day.
func ShopItemsKey(shopID string, day time.Time) Key {
	return Key{Prefix: PrefixShopItems, Scope: shopID, Day: day.Format(DayFormat)}
}

// SettingsKey builds a non-dated settings key.
func SettingsKey(name string) string {
	return PrefixSettings + "-" + name
}

// ParseKey decomposes a serialized key. It only succeeds for keys that carry
// a recognized sweep prefix and a valid trailing date token; everything else
// reports ok=false and is left alone by the sweep.
func ParseKey(s string) (Key, bool) {
	for _, prefix := range sweepPrefixes {
		rest, found := strings.CutPrefix(s, prefix+"-")
		if !found {
			continue
		}
		// The date token is the fixed-width tail; the scope itself may
		// contain hyphens.
		if len(rest) < len(DayFormat)+2 || rest[len(rest)-len(DayFormat)-1] != '-' {
			return Key{}, false
		}
		scope, day := rest[:len(rest)-len(DayFormat)-1], rest[len(rest)-len(DayFormat):]
		if _, err := time.Parse(DayFormat, day); err != nil {
			return Key{}, false
		}
		return Key{Prefix: prefix, Scope: scope, Day: day}, true
	}
	return Key{}, false
}
