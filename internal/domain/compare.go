package domain

// PriceInfo is one retailer's quoted price for a product, kept as the
// currency-formatted strings the storefront returned.
type PriceInfo struct {
	PriceString       string `json:"priceString"`
	PricingUnitString string `json:"pricingUnitString,omitempty"`
}

// ComparisonItem is one product merged across storefronts: the per-retailer
// price map plus the derived comparison figures. LowestPrice is nil when no
// price string parsed to a number, so no comparison is possible.
type ComparisonItem struct {
	ProductID string               `json:"productId"`
	Name      string               `json:"itemName"`
	Image     *ItemImage           `json:"itemImage,omitempty"`
	Prices    map[string]PriceInfo `json:"prices"`

	PriceDifference float64  `json:"priceDifference"`
	LowestPrice     *float64 `json:"lowestPrice,omitempty"`
	// Cheapest lists the retailers whose parsed price equals LowestPrice.
	Cheapest []string `json:"cheapest,omitempty"`
}

// ComparisonCategory is one category's merged item set, ordered by descending
// price difference (name as tiebreak) for display.
type ComparisonCategory struct {
	Name  string           `json:"name"`
	Items []ComparisonItem `json:"items"`

	// WinCounts counts, per retailer, the items in this category where that
	// retailer was the unique cheapest. Winner is the retailer with the top
	// count, or empty when the top count is shared — ambiguous attribution
	// is suppressed rather than broken arbitrarily.
	WinCounts map[string]int `json:"winCounts,omitempty"`
	Winner    string         `json:"winner,omitempty"`
}

// Comparison is the full cross-shop view produced by one run. Retailers holds
// the sorted names of every storefront that contributed at least one item;
// Categories is sorted by name for stable navigation. ShopResults carries the
// raw per-storefront outcomes for inspection, in processing order.
type Comparison struct {
	Retailers   []string             `json:"retailers"`
	Categories  []ComparisonCategory `json:"categories"`
	ShopResults []AggregationResult  `json:"shopResults"`
}
