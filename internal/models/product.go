package models

import "time"

// Product is one promotional item (rollback/clearance/deal) returned by the
// walmart.ca product-search API for a given store. The upstream schema is
// undocumented and unstable, so fields are filled on a best-effort basis.
type Product struct {
	ID              int64     `json:"-" db:"id"`
	StoreID         string    `json:"store_id" db:"store_id"`
	StoreSlug       string    `json:"store_slug" db:"store_slug"`
	Province        string    `json:"province" db:"province"`
	ProductID       string    `json:"product_id" db:"product_id"`
	SKU             string    `json:"sku" db:"sku"`
	Name            string    `json:"name" db:"name"`
	ProductURL      string    `json:"product_url" db:"product_url"`
	CurrentPrice    float64   `json:"current_price" db:"current_price"`
	OriginalPrice   float64   `json:"original_price" db:"original_price"`
	DiscountPercent float64   `json:"discount_percent" db:"discount_percent"`
	PromoType       string    `json:"promo_type" db:"promo_type"`
	StoreQuantity   int       `json:"store_quantity" db:"store_quantity"`
	ScrapedAt       time.Time `json:"-" db:"scraped_at"`
}

// SearchItem is a single result from a walmart.com search page.
type SearchItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Rating       float64 `json:"rating"`
	Reviews      int     `json:"reviews_count"`
	Availability string  `json:"availability"`
	Image        string  `json:"image"`
	ProductURL   string  `json:"product_url"`
}

// ProductFilters holds all possible query parameters for filtering products.
type ProductFilters struct {
	Province  string
	PromoType string
	MinPrice  float64
	MaxPrice  float64
	// For Pagination
	Limit  int
	Offset int
}
