package menu

import (
	"encoding/json"
	"strconv"

	"github.com/cafesang/storefront/internal/enum"
	"github.com/shopspring/decimal"
)

// Category is a menu category as served by the menu API. Read-only here.
type Category struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Product is a menu API product. Only active products are shown.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image"`
	Status      string          `json:"status"`
	CategoryID  int             `json:"categoryId"`
	Category    Category        `json:"category"`
}

// MenuItem is the display projection of a Product.
//
// Rating, ReviewCount, Views and Clicks are not provided by the menu API and
// carry fixed defaults. Orders is filled from the order request store.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"reviewCount"`
	Views       int             `json:"views"`
	Clicks      int             `json:"clicks"`
	Orders      int             `json:"orders"`
}

// MarshalJSON writes Price as a JSON number rather than decimal's default
// quoted string.
func (m MenuItem) MarshalJSON() ([]byte, error) {
	type item MenuItem
	return json.Marshal(struct {
		item
		Price json.Number `json:"price"`
	}{item: item(m), Price: json.Number(m.Price.String())})
}

const defaultRating = 4.5

// FilterActive returns the products whose status is active, preserving order.
func FilterActive(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Status == enum.ProductStatusActive {
			out = append(out, p)
		}
	}
	return out
}

// ToMenuItem maps a Product to its display form. imageURL turns the
// product's (possibly relative or missing) image into an absolute URL.
func ToMenuItem(p Product, imageURL func(string) string) MenuItem {
	item := MenuItem{
		ID:       strconv.Itoa(p.ID),
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category.Name,
		Rating:   defaultRating,
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	image := ""
	if p.Image != nil {
		image = *p.Image
	}
	item.Image = imageURL(image)
	return item
}
