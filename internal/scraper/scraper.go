package scraper

import "WalmartScraper/internal/models"

// StoreScraper defines the basic behavior for all store-based scrapers.
// It ensures that any new scraper we add (e.g., for another retail chain)
// will follow a standard structure.
type StoreScraper interface {
	// ScrapeStore fetches a single store page and returns a store record
	// with only the page-level info (name, address, metadata).
	ScrapeStore(storeURL string) (*models.Store, error)

	// ScrapeStoreProducts takes a store with metadata and fills in its
	// promotional product list via the product-search API.
	ScrapeStoreProducts(store *models.Store) error
}
