package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	StorePagesScraped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "walmart_store_pages_scraped_total",
			Help: "Store pages scraped successfully",
		},
	)
	CaptchaEncounters = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "walmart_captcha_encounters_total",
			Help: "CAPTCHA challenges encountered during scraping",
		},
	)
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walmart_search_api_requests_total",
			Help: "Product-search API requests by HTTP status",
		},
		[]string{"status"},
	)
	BlockedResponses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "walmart_blocked_responses_total",
			Help: "Responses identified as anti-bot blocks",
		},
	)
	PageFetches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "walmart_page_fetches_total",
			Help: "Plain HTTP page fetches against walmart.com",
		},
	)
)

// Register installs the scraper counters on the default registry. Call it
// once, from the process that exposes /metrics.
func Register() {
	prometheus.MustRegister(StorePagesScraped, CaptchaEncounters, APIRequests, BlockedResponses, PageFetches)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
