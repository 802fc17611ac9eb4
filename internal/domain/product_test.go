package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopularityScore(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		want    int
	}{
		{"views only", Product{ViewCount: 40}, 40},
		{"purchases weigh triple", Product{PurchaseCount: 10, ViewCount: 5}, 35},
		{"featured adds flat 100", Product{PurchaseCount: 10, ViewCount: 5, IsFeatured: true}, 135},
		{"zero product", Product{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.product.PopularityScore())
		})
	}
}

func TestPriceBand(t *testing.T) {
	p := Product{Price: 10000}

	low, high := p.PriceBand(0.3)
	assert.Equal(t, int64(7000), low)
	assert.Equal(t, int64(13000), high)

	low, high = p.PriceBand(0)
	assert.Equal(t, int64(10000), low)
	assert.Equal(t, int64(10000), high)
}

func TestIsValidCategoryType(t *testing.T) {
	for _, valid := range ValidCategoryTypes() {
		assert.True(t, IsValidCategoryType(valid), valid)
	}
	assert.False(t, IsValidCategoryType("electronics"))
	assert.False(t, IsValidCategoryType(""))
}
