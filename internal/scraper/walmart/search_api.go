package walmart

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"WalmartScraper/internal/metrics"
	"WalmartScraper/internal/models"
	"WalmartScraper/utils"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/go-rod/rod"
)

const searchAPIPath = "/api/product-search/search"

// Walmart does not list products on the store page itself; targeted queries
// against the product-search API return a sample of promotional products per
// store. The hint classifies items whose payload carries no promo marker.
var searchQueries = []struct {
	Query     string
	PromoHint string
}{
	{"rollback", "rollback"},
	{"clearance", "clearance"},
	{"deal", "deal"},
}

// FetchPromoProducts queries the product-search API for rollback, clearance
// and deal items scoped to the given store. The rod page supplies cookies and
// the user agent so the API sees the same client that passed the bot wall.
func (s *WalmartScraper) FetchPromoProducts(page *rod.Page, storeID, storeSlug, province, storeURL string) ([]models.Product, error) {
	if storeID == "" {
		log.Printf("No store id available for %s, skipping product extraction", storeURL)
		return nil, nil
	}

	log.Printf("Searching promotional products (rollback/clearance/deal) for storeId=%s...", storeID)
	client := s.newAPIClient(page, storeURL)

	seenKeys := make(map[string]bool)
	var allProducts []models.Product
	totalAPIItems := 0

	for _, q := range searchQueries {
		for pageNum := 1; pageNum <= s.WalmartConf.MaxSearchPages; pageNum++ {
			body, status, err := s.searchPage(client, page, storeID, q.Query, pageNum)
			s.maybeDumpResponse(storeID, q.Query, pageNum, status, body)
			if err != nil {
				log.Printf("Product search failed (status %d) for store %s / query %q: %v", status, storeID, q.Query, err)
				break
			}

			items := extractItems(body)
			totalAPIItems += len(items)
			if len(items) == 0 {
				log.Printf("No products returned for query %q (page %d)", q.Query, pageNum)
				break
			}

			for _, raw := range items {
				promoType := DetectPromoType(raw, q.PromoHint)
				product, ok := NormalizeProduct(raw, storeID, storeSlug, province, promoType, s.WalmartConf.CanadaBaseURL)
				if !ok {
					continue
				}
				key := product.ProductID + "|" + product.ProductURL
				if !seenKeys[key] {
					seenKeys[key] = true
					allProducts = append(allProducts, product)
				}
			}

			if len(items) < s.WalmartConf.ItemsPerPage {
				break
			}
		}
	}

	log.Printf("Store %s - total API items: %d, promotional products kept: %d", storeID, totalAPIItems, len(allProducts))
	return allProducts, nil
}

// newAPIClient builds a resty client that mirrors the browser session:
// same cookies, same user agent, same proxy, plus the XHR headers the site's
// own frontend sends.
func (s *WalmartScraper) newAPIClient(page *rod.Page, storeURL string) *resty.Client {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	userAgent := utils.RandomUserAgent()
	if res, err := page.Eval(`() => navigator.userAgent`); err == nil {
		if ua := res.Value.Str(); ua != "" {
			userAgent = ua
		}
	}

	client.SetHeaders(map[string]string{
		"User-Agent":       userAgent,
		"Accept":           "application/json, text/plain, */*",
		"Accept-Language":  "en-CA,en;q=0.9,fr-CA,fr;q=0.8",
		"Referer":          storeURL,
		"X-Requested-With": "XMLHttpRequest",
	})

	if cookies, err := page.Cookies(nil); err == nil {
		for _, c := range cookies {
			client.SetCookie(&http.Cookie{Name: c.Name, Value: c.Value, Domain: c.Domain, Path: c.Path})
		}
	}

	if s.Proxy != "" {
		client.SetProxy(s.Proxy)
	}

	return client
}

// searchPage performs one API request with the status-code branching the
// anti-bot wall requires: 412/456 back off and retry, remaining 4xx fall back
// to fetching through the browser itself.
func (s *WalmartScraper) searchPage(client *resty.Client, page *rod.Page, storeID, query string, pageNum int) ([]byte, int, error) {
	params := map[string]string{
		"page":         strconv.Itoa(pageNum),
		"query":        query,
		"storeId":      storeID,
		"itemsPerPage": strconv.Itoa(s.WalmartConf.ItemsPerPage),
		"lang":         s.WalmartConf.Lang,
	}
	apiURL := s.WalmartConf.CanadaBaseURL + searchAPIPath

	var body []byte
	var status int

	attempt := func() error {
		resp, err := client.R().SetQueryParams(params).Get(apiURL)
		if err != nil {
			return err
		}
		status = resp.StatusCode()
		body = resp.Body()
		metrics.APIRequests.WithLabelValues(strconv.Itoa(status)).Inc()

		// PerimeterX answers 412/456 when it throttles a session; waiting
		// usually clears it.
		if status == http.StatusPreconditionFailed || status == 456 {
			metrics.BlockedResponses.Inc()
			log.Printf("Blocked by anti-bot wall (status %d), backing off...", status)
			return fmt.Errorf("blocked with status %d", status)
		}
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)
	if err := backoff.Retry(attempt, policy); err != nil {
		return nil, status, err
	}

	if status == http.StatusOK {
		return body, status, nil
	}

	if status >= 400 && status < 500 {
		// The direct call was rejected but the browser session is trusted:
		// repeat the request with the page's own fetch.
		log.Printf("API status %d for store %s query %q, falling back to in-browser fetch", status, storeID, query)
		browserBody, err := fetchViaBrowser(page, apiURL, params)
		if err != nil {
			return nil, status, fmt.Errorf("in-browser fetch failed: %w", err)
		}
		return browserBody, http.StatusOK, nil
	}

	return body, status, fmt.Errorf("product search returned status %d", status)
}

// fetchViaBrowser runs the API call inside the page context so it carries the
// browser's cookies and TLS fingerprint.
func fetchViaBrowser(page *rod.Page, apiURL string, params map[string]string) ([]byte, error) {
	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	fullURL := apiURL + "?" + values.Encode()

	res, err := page.Timeout(30 * time.Second).Eval(`async (u) => {
		const resp = await fetch(u, {
			headers: { "Accept": "application/json" },
			credentials: "include",
		});
		if (!resp.ok) { throw new Error("fetch status " + resp.status); }
		return await resp.text();
	}`, fullURL)
	if err != nil {
		return nil, err
	}
	return []byte(res.Value.Str()), nil
}

// maybeDumpResponse saves raw API responses for the first few stores (and any
// non-200) so schema drift can be diagnosed offline.
func (s *WalmartScraper) maybeDumpResponse(storeID, query string, pageNum, status int, body []byte) {
	if storeID == "" || len(body) == 0 || s.dumpedStores[storeID] {
		return
	}
	if status == http.StatusOK && len(s.dumpedStores) >= s.ScraperConf.DebugDumpLimit {
		return
	}

	dir := filepath.Join("debug_walmart", s.runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("Could not create debug directory: %v", err)
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("store-%s-q%s-p%d.json", storeID, query, pageNum))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		log.Printf("Could not write debug dump: %v", err)
		return
	}
	s.dumpedStores[storeID] = true
	log.Printf("Raw API response saved for debugging: %s", path)
}

// extractItems digs the product list out of the payload; the API has moved it
// between several envelopes over time.
func extractItems(body []byte) []map[string]any {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("Could not decode product search payload: %v", err)
		return nil
	}

	candidates := []any{
		payload["items"],
		payload["results"],
		utils.DigMap(payload, "data", "items"),
		utils.DigMap(payload, "data", "products"),
	}
	for _, candidate := range candidates {
		list, ok := candidate.([]any)
		if !ok || len(list) == 0 {
			continue
		}
		var items []map[string]any
		for _, entry := range list {
			if m, ok := entry.(map[string]any); ok {
				items = append(items, m)
			}
		}
		if len(items) > 0 {
			return items
		}
	}
	return nil
}
