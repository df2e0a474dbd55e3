package domain

// ItemCategory groups store items on the store screen.
type ItemCategory string

const (
	CategoryPowerups ItemCategory = "powerups"
	CategoryThemes   ItemCategory = "themes"
	CategoryFeatures ItemCategory = "features"
	CategoryBundles  ItemCategory = "bundles"
)

// ItemCategories lists categories in display order.
var ItemCategories = []ItemCategory{CategoryPowerups, CategoryThemes, CategoryFeatures, CategoryBundles}

// StoreItem is a static catalog entry.
type StoreItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       int          `json:"price"`
	Category    ItemCategory `json:"category"`
	Discount    int          `json:"discount,omitempty"`
	Popular     bool         `json:"popular,omitempty"`
}

// EffectivePrice applies the discount percentage and rounds half up.
// Integer arithmetic keeps e.g. 450 at 25% exactly at 337.5 before rounding to 338.
func (i StoreItem) EffectivePrice() int {
	if i.Discount <= 0 {
		return i.Price
	}
	return (i.Price*(100-i.Discount) + 50) / 100
}
