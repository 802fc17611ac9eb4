package domain

import (
	"time"
)

// Product represents a grocery catalog item. Search and recommendation treat
// products as read-only data except for the explicit view-count increment.
type Product struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"short_description"`
	CategoryID       *string   `json:"category_id,omitempty"`
	CategorySlug     string    `json:"category_slug,omitempty"`
	Price            int64     `json:"price"`
	OldPrice         *int64    `json:"old_price,omitempty"`
	Currency         string    `json:"currency"`
	ImageURL         string    `json:"image_url,omitempty"`
	Unit             string    `json:"unit,omitempty"`
	IsAvailable      bool      `json:"is_available"`
	IsFeatured       bool      `json:"is_featured"`
	IsNew            bool      `json:"is_new"`
	IsPromotional    bool      `json:"is_promotional"`
	ViewCount        int       `json:"view_count"`
	PurchaseCount    int       `json:"purchase_count"`
	SortOrder        int       `json:"sort_order"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PopularityScore is the composite ranking used for the popular-products
// listing: purchases weigh triple, views weigh single, featured adds a flat 100.
func (p *Product) PopularityScore() int {
	score := p.PurchaseCount*3 + p.ViewCount
	if p.IsFeatured {
		score += 100
	}
	return score
}

// PriceBand returns the inclusive lower and upper price bounds within the
// given fraction of the product's price, e.g. 0.3 for ±30%.
func (p *Product) PriceBand(fraction float64) (low, high int64) {
	delta := int64(float64(p.Price) * fraction)
	return p.Price - delta, p.Price + delta
}
