package walmartcom

import (
	"context"
	"fmt"
	"log"
	"time"

	"WalmartScraper/utils"

	"github.com/go-resty/resty/v2"
)

// ProductScraper fetches walmart.com product detail pages with a bounded
// worker pool.
type ProductScraper struct {
	Client      *resty.Client
	Concurrency int
}

// NewProductScraper builds a product scraper limited to the given number of
// concurrent requests.
func NewProductScraper(concurrency int) *ProductScraper {
	if concurrency < 1 {
		concurrency = 1
	}
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	return &ProductScraper{Client: client, Concurrency: concurrency}
}

// ScrapeProducts fetches the detail payload for every URL. Failures are
// logged and skipped so one bad page does not sink the batch.
func (s *ProductScraper) ScrapeProducts(ctx context.Context, urls []string) []map[string]any {
	urls = utils.UniqueStrings(urls)
	if len(urls) == 0 {
		return nil
	}

	jobs := make(chan string, len(urls))
	results := make(chan map[string]any, len(urls))

	workers := s.Concurrency
	if workers > len(urls) {
		workers = len(urls)
	}

	for w := 1; w <= workers; w++ {
		go func(workerID int) {
			for pageURL := range jobs {
				detail, err := s.fetchProduct(ctx, pageURL)
				if err != nil {
					log.Printf("[Worker %d] %v", workerID, err)
					results <- nil
					continue
				}
				results <- detail
			}
		}(w)
	}

	for _, pageURL := range urls {
		jobs <- pageURL
	}
	close(jobs)

	var details []map[string]any
	for range urls {
		if detail := <-results; detail != nil {
			details = append(details, detail)
		}
	}

	log.Printf("Fetched %d product detail pages", len(details))
	return details
}

func (s *ProductScraper) fetchProduct(ctx context.Context, pageURL string) (map[string]any, error) {
	pageHTML, err := FetchHTML(ctx, s.Client, pageURL, 3)
	if err != nil {
		return nil, err
	}

	nextData, err := ExtractNextData(pageHTML)
	if err != nil {
		return nil, fmt.Errorf("could not parse __NEXT_DATA__ for %s: %w", pageURL, err)
	}

	product, ok := utils.DigMap(nextData, "props", "pageProps", "initialData", "data", "product").(map[string]any)
	if !ok {
		return nil, fmt.Errorf("no product data found for %s", pageURL)
	}
	if reviews := utils.DigMap(nextData, "props", "pageProps", "initialData", "data", "reviews"); reviews != nil {
		product["reviews"] = reviews
	}
	return product, nil
}
