package domain

import "strings"

// ServiceTypeDelivery is the only service type that participates in a
// comparison run; pickup storefronts duplicate the same retailer catalog.
const ServiceTypeDelivery = "delivery"

// Shop is one retailer storefront reachable through the shared backend.
// Shops come out of the session state the extension scrapes off the page and
// are immutable for the duration of a run.
type Shop struct {
	ID                    string `json:"id"`
	Retailer              string `json:"retailer"`
	ServiceType           string `json:"serviceType"`
	InventorySessionToken string `json:"retailerInventorySessionToken"`
}

// ItemImage is an optional image reference attached to an item listing.
type ItemImage struct {
	URL string `json:"url"`
}

// ItemRecord is the normalized representation of one product's listing at one
// storefront. ProductID is the cross-storefront dedup key; ItemID is the
// storefront-scoped identifier the batch detail query accepts.
type ItemRecord struct {
	Category          string     `json:"category"`
	Name              string     `json:"itemName"`
	ProductID         string     `json:"productId"`
	PriceString       string     `json:"priceString"`
	PricingUnitString string     `json:"pricingUnitString,omitempty"`
	ItemID            string     `json:"itemId"`
	Image             *ItemImage `json:"itemImage,omitempty"`
}

// ProductIDFromItemID derives the canonical product identifier from a
// queryable item identifier of the form "items-<productID>[-...]". An
// identifier without the expected shape is returned as-is.
func ProductIDFromItemID(itemID string) string {
	parts := strings.SplitN(itemID, "-", 3)
	if len(parts) < 2 || parts[1] == "" {
		return itemID
	}
	return parts[1]
}

// GeoParams carries the zone parameters the backend requires on every query.
type GeoParams struct {
	PostalCode string `json:"postalCode"`
	ZoneID     string `json:"zoneId"`
}

// CategoryListing is the result of one category query for a shop: the first
// page of full records plus the complete identifier set for the category.
type CategoryListing struct {
	Items   []ItemRecord
	ItemIDs []string
}

// AggregationResult is the outcome of processing one storefront. A failed
// storefront still contributes an entry with zero items and the error text
// recorded; it never aborts the run.
type AggregationResult struct {
	ShopID   string       `json:"shopId"`
	Retailer string       `json:"retailer"`
	Items    []ItemRecord `json:"items"`
	Error    string       `json:"error,omitempty"`
}

// FilterShops selects the storefronts a run should process: those whose
// retailer name is in the wanted set and whose service type matches.
// Directory order is preserved.
func FilterShops(directory []Shop, wanted []string, serviceType string) []Shop {
	names := make(map[string]struct{}, len(wanted))
	for _, n := range wanted {
		names[n] = struct{}{}
	}

	var selected []Shop
	for _, shop := range directory {
		if shop.ServiceType != serviceType {
			continue
		}
		if _, ok := names[shop.Retailer]; !ok {
			continue
		}
		selected = append(selected, shop)
	}
	return selected
}
