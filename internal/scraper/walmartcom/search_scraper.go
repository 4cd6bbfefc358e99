package walmartcom

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"WalmartScraper/internal/models"
	"WalmartScraper/utils"

	"github.com/go-resty/resty/v2"
)

// Walmart serves at most 25 search result pages per query.
const maxSearchPages = 25

// SearchScraper scrapes walmart.com search result pages over plain HTTP.
type SearchScraper struct {
	Client  *resty.Client
	BaseURL string
}

// NewSearchScraper builds a search scraper for the given base URL
// (normally https://www.walmart.com).
func NewSearchScraper(baseURL string) *SearchScraper {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	return &SearchScraper{
		Client:  client,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ScrapeSearch collects results for a query across up to `pages` search
// pages, stopping early when a page comes back empty.
func (s *SearchScraper) ScrapeSearch(ctx context.Context, query string, pages int) ([]models.SearchItem, error) {
	if pages < 1 {
		pages = 1
	}
	if pages > maxSearchPages {
		pages = maxSearchPages
	}

	var results []models.SearchItem
	for page := 1; page <= pages; page++ {
		log.Printf("Scraping search page %d/%d for query %q", page, pages, query)
		items, err := s.fetchSearchPage(ctx, query, page)
		if err != nil {
			return results, fmt.Errorf("search page %d failed: %w", page, err)
		}
		if len(items) == 0 {
			log.Printf("No items found on page %d, stopping pagination", page)
			break
		}
		results = append(results, items...)
		time.Sleep(500 * time.Millisecond)
	}

	log.Printf("Collected %d search results", len(results))
	return results, nil
}

func (s *SearchScraper) fetchSearchPage(ctx context.Context, query string, page int) ([]models.SearchItem, error) {
	pageURL := fmt.Sprintf("%s/search?q=%s&page=%d", s.BaseURL, url.QueryEscape(query), page)

	pageHTML, err := FetchHTML(ctx, s.Client, pageURL, 3)
	if err != nil {
		return nil, err
	}

	nextData, err := ExtractNextData(pageHTML)
	if err != nil {
		return nil, err
	}

	stacks, ok := utils.DigMap(nextData, "props", "pageProps", "initialData", "searchResult", "itemStacks").([]any)
	if !ok || len(stacks) == 0 {
		log.Printf("No itemStacks found for page %d", page)
		return nil, nil
	}
	firstStack, ok := stacks[0].(map[string]any)
	if !ok {
		return nil, nil
	}
	rawItems, _ := firstStack["items"].([]any)

	var items []models.SearchItem
	for _, entry := range rawItems {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if item, ok := ParseSearchItem(m, s.BaseURL); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// ParseSearchItem maps one raw search item onto a SearchItem, guessing field
// names the same way the product normalizer does.
func ParseSearchItem(item map[string]any, baseURL string) (models.SearchItem, bool) {
	rating, _ := utils.AsFloat(firstPresent(item["averageRating"], item["rating"]))
	reviews, _ := utils.AsFloat(firstPresent(item["numberOfReviews"], item["reviews"]))

	result := models.SearchItem{
		ID:           utils.AsString(firstPresent(item["usItemId"], item["id"])),
		Name:         utils.AsString(firstPresent(item["title"], item["name"])),
		Price:        NormalizePrice(firstPresent(item["priceInfo"], item["price"])),
		Rating:       rating,
		Reviews:      int(reviews),
		Availability: utils.AsString(firstPresent(item["availabilityStatus"], item["availability"])),
		Image:        utils.AsString(firstPresent(utils.DigMap(item, "imageInfo", "thumbnailUrl"), item["image"])),
		ProductURL:   utils.EnsureAbsoluteURL(baseURL, utils.AsString(firstPresent(item["canonicalUrl"], item["productPageUrl"]))),
	}

	if result.Name == "" && result.ProductURL == "" {
		return models.SearchItem{}, false
	}
	return result, true
}

// NormalizePrice reduces the priceInfo shapes walmart.com uses to a float.
func NormalizePrice(priceInfo any) float64 {
	switch v := priceInfo.(type) {
	case nil:
		return 0
	case map[string]any:
		for _, key := range []string{"price", "minPrice", "maxPrice", "priceDisplay"} {
			if f, ok := utils.AsFloat(v[key]); ok && f != 0 {
				return f
			}
		}
		if current, ok := firstPresent(v["currentPrice"], v["current"]).(map[string]any); ok {
			if f, ok := utils.AsFloat(firstPresent(current["price"], current["amount"])); ok {
				return f
			}
		}
	default:
		if f, ok := utils.AsFloat(v); ok {
			return f
		}
	}
	return 0
}
