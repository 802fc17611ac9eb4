package domain

// Category type constants.
const (
	CategoryTypeProducts   = "products"
	CategoryTypeDishes     = "dishes"
	CategoryTypePromotions = "promotions"
)

// Category represents a product grouping in the catalog.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Type         string `json:"type"`
	ImageURL     string `json:"image_url,omitempty"`
	IsActive     bool   `json:"is_active"`
	ShowOnHome   bool   `json:"show_on_home"`
	SortOrder    int    `json:"sort_order"`
	ProductCount int    `json:"product_count,omitempty"`
}

// ValidCategoryTypes returns the set of valid category type tags.
func ValidCategoryTypes() []string {
	return []string{CategoryTypeProducts, CategoryTypeDishes, CategoryTypePromotions}
}

// IsValidCategoryType checks whether the given type tag is valid.
func IsValidCategoryType(t string) bool {
	for _, v := range ValidCategoryTypes() {
		if v == t {
			return true
		}
	}
	return false
}
