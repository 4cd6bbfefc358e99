package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"WalmartScraper/internal/models"
)

// WriteStoresCSV writes the store results in the flat CSV layout downstream
// consumers expect. The products column carries the full product list as a
// JSON string.
func WriteStoresCSV(stores []models.Store, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"url", "timestamp", "store_name", "address", "phone", "hours", "product_count", "products"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, store := range stores {
		productsJSON, err := json.Marshal(store.Products)
		if err != nil {
			productsJSON = []byte("[]")
		}
		record := []string{
			store.URL,
			store.ScrapedAt.Format(time.RFC3339),
			store.Name,
			store.Address,
			store.Phone,
			store.Hours,
			strconv.Itoa(store.ProductCount),
			string(productsJSON),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteStoresJSON writes the store results as an indented JSON array.
func WriteStoresJSON(stores []models.Store, path string) error {
	return WriteJSON(stores, path)
}

// WriteSearchCSV writes walmart.com search results as CSV.
func WriteSearchCSV(items []models.SearchItem, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"id", "name", "price", "rating", "reviews_count", "availability", "image", "product_url"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, item := range items {
		record := []string{
			item.ID,
			item.Name,
			strconv.FormatFloat(item.Price, 'f', -1, 64),
			strconv.FormatFloat(item.Rating, 'f', -1, 64),
			strconv.Itoa(item.Reviews),
			item.Availability,
			item.Image,
			item.ProductURL,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteJSON marshals v with indentation and writes it to path.
func WriteJSON(v any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal JSON: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
