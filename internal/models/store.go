package models

import "time"

// Store holds everything scraped from a single Walmart Canada store page,
// including the promotional products pulled from the product-search API.
type Store struct {
	ID           int64     `json:"-" db:"id"`
	URL          string    `json:"url" db:"url"`
	StoreID      string    `json:"store_id" db:"store_id"`
	StoreSlug    string    `json:"store_slug" db:"store_slug"`
	Province     string    `json:"province" db:"province"`
	Name         string    `json:"store_name" db:"name"`
	Address      string    `json:"address" db:"address"`
	Phone        string    `json:"phone" db:"phone"`
	Hours        string    `json:"hours" db:"hours"`
	Status       string    `json:"-" db:"status"`
	ProductCount int       `json:"product_count" db:"product_count"`
	Products     []Product `json:"products" db:"-"`
	ScrapedAt    time.Time `json:"timestamp" db:"scraped_at"`
}
