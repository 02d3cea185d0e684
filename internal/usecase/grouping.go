package usecase

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cartcompare/backend/internal/domain"
)

// BuildComparison merges all storefronts' item sets into the cross-shop
// view: items grouped by category and product id with a per-retailer price
// map, comparison figures per item, and a winner summary per category. It is
// a pure function of its input.
func BuildComparison(results []domain.AggregationResult) *domain.Comparison {
	// Distinct retailers with a non-empty item list, sorted for stable
	// column order.
	retailerSet := make(map[string]struct{})
	for _, result := range results {
		if len(result.Items) > 0 {
			retailerSet[result.Retailer] = struct{}{}
		}
	}
	retailers := make([]string, 0, len(retailerSet))
	for name := range retailerSet {
		retailers = append(retailers, name)
	}
	sort.Strings(retailers)

	// Group every item by (category, product id). First insertion fixes the
	// display name; the image is backfilled from a later encounter when the
	// stored entry has none. Per retailer the last price seen wins.
	groups := make(map[string]map[string]*domain.ComparisonItem)
	for _, result := range results {
		for _, item := range result.Items {
			if item.Category == "" || item.Name == "" {
				continue
			}

			category := groups[item.Category]
			if category == nil {
				category = make(map[string]*domain.ComparisonItem)
				groups[item.Category] = category
			}

			entry := category[item.ProductID]
			if entry == nil {
				entry = &domain.ComparisonItem{
					ProductID: item.ProductID,
					Name:      item.Name,
					Image:     item.Image,
					Prices:    make(map[string]domain.PriceInfo),
				}
				category[item.ProductID] = entry
			} else if entry.Image == nil && item.Image != nil {
				entry.Image = item.Image
			}

			entry.Prices[result.Retailer] = domain.PriceInfo{
				PriceString:       item.PriceString,
				PricingUnitString: item.PricingUnitString,
			}
		}
	}

	categories := make([]domain.ComparisonCategory, 0, len(groups))
	for name, items := range groups {
		categories = append(categories, buildCategory(name, items))
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	return &domain.Comparison{
		Retailers:   retailers,
		Categories:  categories,
		ShopResults: results,
	}
}

// buildCategory computes comparison figures for every item, orders them for
// display, and derives the category winner.
func buildCategory(name string, group map[string]*domain.ComparisonItem) domain.ComparisonCategory {
	items := make([]domain.ComparisonItem, 0, len(group))
	winCounts := make(map[string]int)

	for _, entry := range group {
		comparePrices(entry)

		// A retailer is credited only when it is the unique cheapest for
		// the item.
		if entry.PriceDifference > 0 && len(entry.Cheapest) == 1 {
			winCounts[entry.Cheapest[0]]++
		}
		items = append(items, *entry)
	}

	// Largest price spread first; name as tiebreak.
	sort.Slice(items, func(i, j int) bool {
		if items[i].PriceDifference != items[j].PriceDifference {
			return items[i].PriceDifference > items[j].PriceDifference
		}
		return items[i].Name < items[j].Name
	})

	category := domain.ComparisonCategory{
		Name:   name,
		Items:  items,
		Winner: categoryWinner(winCounts),
	}
	if len(winCounts) > 0 {
		category.WinCounts = winCounts
	}
	return category
}

// comparePrices parses every retailer's price string and fills in the
// derived fields. With fewer than two parseable prices there is nothing to
// compare: the difference is zero and the lowest price is the single value,
// or absent entirely.
func comparePrices(entry *domain.ComparisonItem) {
	type parsed struct {
		retailer string
		price    decimal.Decimal
	}
	var prices []parsed
	for retailer, info := range entry.Prices {
		if price, ok := parsePrice(info.PriceString); ok {
			prices = append(prices, parsed{retailer: retailer, price: price})
		}
	}

	if len(prices) == 0 {
		entry.PriceDifference = 0
		entry.LowestPrice = nil
		entry.Cheapest = nil
		return
	}

	minPrice, maxPrice := prices[0].price, prices[0].price
	for _, p := range prices[1:] {
		if p.price.LessThan(minPrice) {
			minPrice = p.price
		}
		if p.price.GreaterThan(maxPrice) {
			maxPrice = p.price
		}
	}

	var cheapest []string
	for _, p := range prices {
		if p.price.Equal(minPrice) {
			cheapest = append(cheapest, p.retailer)
		}
	}
	sort.Strings(cheapest)

	lowest := minPrice.InexactFloat64()
	entry.LowestPrice = &lowest
	entry.Cheapest = cheapest
	if len(prices) > 1 {
		entry.PriceDifference = maxPrice.Sub(minPrice).InexactFloat64()
	} else {
		entry.PriceDifference = 0
	}
}

// categoryWinner picks the retailer with the most unique-cheapest items. A
// tie at the top yields no winner; ambiguous attribution is suppressed
// rather than broken arbitrarily.
func categoryWinner(winCounts map[string]int) string {
	winner := ""
	best := 0
	tied := false
	for retailer, count := range winCounts {
		switch {
		case count > best:
			winner, best, tied = retailer, count, false
		case count == best:
			tied = true
		}
	}
	if tied || best == 0 {
		return ""
	}
	return winner
}

// parsePrice converts a currency-formatted price string such as "$3.99"
// into a decimal. Thousands separators are tolerated; anything else that
// does not parse is excluded from comparison.
func parsePrice(priceString string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(priceString)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return price, true
}
