package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryNonVeg  Category = "non-veg"
	CategoryVeg     Category = "veg"
	CategoryExtras  Category = "extras"
	CategoryPackage Category = "package"
	CategoryOther   Category = "other"
)

// Categories lists every category in menu display order.
var Categories = []Category{CategoryNonVeg, CategoryVeg, CategoryExtras, CategoryPackage, CategoryOther}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	LocalName   string          `json:"localName,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Category    Category        `json:"category"`
	Cuisine     string          `json:"cuisine,omitempty"`
}

// IsSpecial reports whether the item is promoted as a special dish of the week.
func (m MenuItem) IsSpecial() bool {
	return strings.Contains(strings.ToLower(m.Description), "special")
}

// IsFeatured reports whether the item belongs in the featured carousel:
// a special dish that also has a picture.
func (m MenuItem) IsFeatured() bool {
	return m.IsSpecial() && m.ImageURL != ""
}

// Catalog is the sequence of menu items currently offered for ordering.
type Catalog []MenuItem

func (c Catalog) Lookup(id string) (MenuItem, bool) {
	for _, item := range c {
		if item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}

func (c Catalog) Featured() Catalog {
	var out Catalog
	for _, item := range c {
		if item.IsFeatured() {
			out = append(out, item)
		}
	}
	return out
}

// ByCuisine keeps items tagged with cuisine. An empty cuisine keeps everything.
func (c Catalog) ByCuisine(cuisine string) Catalog {
	if cuisine == "" {
		return c
	}
	out := Catalog{}
	for _, item := range c {
		if strings.EqualFold(item.Cuisine, cuisine) {
			out = append(out, item)
		}
	}
	return out
}

func (c Catalog) InCategory(category Category) Catalog {
	out := Catalog{}
	for _, item := range c {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}
