package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductIDFromItemID(t *testing.T) {
	tests := []struct {
		name   string
		itemID string
		want   string
	}{
		{"simple", "items-12345", "12345"},
		{"trailing segments", "items-12345-v2-large", "12345"},
		{"no separator", "12345", "12345"},
		{"empty middle", "items-", "items-"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProductIDFromItemID(tt.itemID))
		})
	}
}

func TestFilterShops(t *testing.T) {
	directory := []Shop{
		{ID: "s1", Retailer: "Kroger", ServiceType: ServiceTypeDelivery},
		{ID: "s2", Retailer: "Kroger", ServiceType: "pickup"},
		{ID: "s3", Retailer: "ALDI", ServiceType: ServiceTypeDelivery},
		{ID: "s4", Retailer: "Costco", ServiceType: ServiceTypeDelivery},
	}

	selected := FilterShops(directory, []string{"Kroger", "ALDI"}, ServiceTypeDelivery)

	assert.Len(t, selected, 2)
	assert.Equal(t, "s1", selected[0].ID, "directory order preserved")
	assert.Equal(t, "s3", selected[1].ID)
}

func TestFilterShops_NoMatches(t *testing.T) {
	directory := []Shop{
		{ID: "s1", Retailer: "Kroger", ServiceType: "pickup"},
	}

	assert.Empty(t, FilterShops(directory, []string{"Kroger"}, ServiceTypeDelivery))
	assert.Empty(t, FilterShops(nil, []string{"Kroger"}, ServiceTypeDelivery))
}
