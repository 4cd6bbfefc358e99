package walmartcom

import (
	"context"
	"fmt"
	"log"
	"strings"

	"WalmartScraper/internal/metrics"
	"WalmartScraper/utils"

	"github.com/go-resty/resty/v2"
)

// blockMarkers are strings the walmart.com bot wall serves instead of the
// page; matching is case-insensitive.
var blockMarkers = []string{
	"robot or human",
	"captcha",
	"blocked",
	"/blocked?",
	"request blocked",
}

// blockStatuses are the HTTP statuses the wall answers with.
var blockStatuses = map[int]bool{
	403: true,
	429: true,
	456: true,
	503: true,
}

// IsBlocked reports whether a response came from the anti-bot wall rather
// than the site.
func IsBlocked(status int, body string) bool {
	if blockStatuses[status] {
		return true
	}
	lower := strings.ToLower(body)
	for _, marker := range blockMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// FetchHTML retrieves a walmart.com page, rotating mobile user agents and
// sleeping between attempts when the wall answers. A response only counts if
// it carries the __NEXT_DATA__ payload the parsers need.
func FetchHTML(ctx context.Context, client *resty.Client, pageURL string, maxAttempts int) (string, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		userAgent := utils.RandomMobileUserAgent()

		resp, err := client.R().
			SetContext(ctx).
			SetHeader("User-Agent", userAgent).
			Get(pageURL)
		if err != nil {
			log.Printf("Fetch %s failed on attempt %d: %v", pageURL, attempt, err)
			utils.HumanDelay(1.5, 4.5)
			continue
		}
		metrics.PageFetches.Inc()

		status := resp.StatusCode()
		body := resp.String()

		if IsBlocked(status, body) {
			metrics.BlockedResponses.Inc()
			log.Printf("Blocked or invalid response for %s on attempt %d (status %d)", pageURL, attempt, status)
			utils.HumanDelay(1.5, 4.5)
			continue
		}

		if !strings.Contains(body, "__NEXT_DATA__") {
			log.Printf("No __NEXT_DATA__ in response from %s on attempt %d (status %d)", pageURL, attempt, status)
			utils.HumanDelay(1.5, 4.5)
			continue
		}

		return body, nil
	}

	return "", fmt.Errorf("failed to fetch valid content from %s after %d attempts", pageURL, maxAttempts)
}
