package storefront

import (
	"fmt"

	"github.com/cartcompare/backend/internal/domain"
)

// rawItem is the loosely-typed item shape the backend returns. Every level
// can be absent; mapItem is the single place that deals with that.
type rawItem struct {
	ViewSection *struct {
		TrackingProperties *struct {
			ProductCategoryName string `json:"product_category_name"`
			ItemName            string `json:"item_name"`
			ProductID           string `json:"product_id"`
			ItemID              string `json:"item_id"`
		} `json:"trackingProperties"`
		ItemImage *domain.ItemImage `json:"itemImage"`
	} `json:"viewSection"`
	Price *struct {
		ViewSection *struct {
			ItemDetails *struct {
				PriceString       string `json:"priceString"`
				PricingUnitString string `json:"pricingUnitString"`
			} `json:"itemDetails"`
		} `json:"viewSection"`
	} `json:"price"`
}

// mapItem normalizes one raw payload item into an ItemRecord. The tracking
// properties block and a product identifier are required; price and image
// are optional.
func mapItem(raw rawItem) (domain.ItemRecord, error) {
	if raw.ViewSection == nil || raw.ViewSection.TrackingProperties == nil {
		return domain.ItemRecord{}, fmt.Errorf("%w: item missing tracking properties", domain.ErrMalformedResponse)
	}
	tracking := raw.ViewSection.TrackingProperties

	productID := tracking.ProductID
	if productID == "" && tracking.ItemID != "" {
		productID = domain.ProductIDFromItemID(tracking.ItemID)
	}
	if productID == "" {
		return domain.ItemRecord{}, fmt.Errorf("%w: item missing product id", domain.ErrMalformedResponse)
	}

	record := domain.ItemRecord{
		Category:  tracking.ProductCategoryName,
		Name:      tracking.ItemName,
		ProductID: productID,
		ItemID:    tracking.ItemID,
		Image:     raw.ViewSection.ItemImage,
	}
	if raw.Price != nil && raw.Price.ViewSection != nil && raw.Price.ViewSection.ItemDetails != nil {
		record.PriceString = raw.Price.ViewSection.ItemDetails.PriceString
		record.PricingUnitString = raw.Price.ViewSection.ItemDetails.PricingUnitString
	}
	return record, nil
}

// mapItems normalizes a batch, failing the whole batch on the first
// malformed item.
func mapItems(raw []rawItem) ([]domain.ItemRecord, error) {
	records := make([]domain.ItemRecord, 0, len(raw))
	for _, item := range raw {
		record, err := mapItem(item)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
