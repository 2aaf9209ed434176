package models

import "strings"

// Category is the business type a showcase is filed under.
type Category string

const (
	CategoryRestaurant Category = "restaurant"
	CategoryRetail     Category = "retail"
	CategoryFashion    Category = "fashion"
	CategoryBeauty     Category = "beauty"
	CategoryFitness    Category = "fitness"
	CategoryMedical    Category = "medical"
	CategoryHotel      Category = "hotel"
	CategoryOther      Category = "other"
)

type CategoryOption struct {
	Value Category `json:"value"`
	Label string   `json:"label"`
}

var categoryOptions = []CategoryOption{
	{CategoryRestaurant, "Restaurant & Food Service"},
	{CategoryRetail, "Retail Store"},
	{CategoryFashion, "Fashion Boutique"},
	{CategoryBeauty, "Beauty Salon & Spa"},
	{CategoryFitness, "Fitness Center"},
	{CategoryMedical, "Medical Office"},
	{CategoryHotel, "Hotel & Hospitality"},
	{CategoryOther, "Other Business"},
}

// Categories returns the closed set of categories in display order.
func Categories() []CategoryOption {
	out := make([]CategoryOption, len(categoryOptions))
	copy(out, categoryOptions)
	return out
}

// ParseCategory matches value against the closed set, ignoring case and
// surrounding whitespace.
func ParseCategory(value string) (Category, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, opt := range categoryOptions {
		if string(opt.Value) == value {
			return opt.Value, true
		}
	}
	return "", false
}

func (c Category) Label() string {
	for _, opt := range categoryOptions {
		if opt.Value == c {
			return opt.Label
		}
	}
	return string(c)
}
