package walmart

import (
	"fmt"
	"sort"

	"WalmartScraper/internal/captcha"
	"WalmartScraper/pkg/config"
	"WalmartScraper/utils"

	"github.com/go-rod/rod"
	"github.com/google/uuid"
)

// ProvinceStoreCounts lists the 402 Walmart Canada stores by province.
var ProvinceStoreCounts = map[string]int{
	"Ontario":                   147,
	"Quebec":                    72,
	"Alberta":                   59,
	"British Columbia":          48,
	"Nova Scotia":               18,
	"Manitoba":                  16,
	"Saskatchewan":              14,
	"New Brunswick":             13,
	"Newfoundland and Labrador": 11,
	"Prince Edward Island":      2,
}

// Provinces returns the province names in a stable order, largest first.
func Provinces() []string {
	names := make([]string, 0, len(ProvinceStoreCounts))
	for name := range ProvinceStoreCounts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if ProvinceStoreCounts[names[i]] != ProvinceStoreCounts[names[j]] {
			return ProvinceStoreCounts[names[i]] > ProvinceStoreCounts[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// StoreURL builds the walmart.ca store page URL for a province/number pair.
func StoreURL(baseURL, province string, storeNum int) string {
	return fmt.Sprintf("%s/en/stores/%s/store-%d", baseURL, utils.ProvinceSlug(province), storeNum)
}

// WalmartScraper scrapes walmart.ca store pages and their promotional
// products through a single rod browser instance.
type WalmartScraper struct {
	Browser     *rod.Browser
	ScraperConf config.ScraperConfig
	WalmartConf config.WalmartConfig
	Solver      *captcha.Solver

	// Proxy is the proxy the browser was launched with; direct API calls
	// go through the same one so the exit IP matches.
	Proxy string

	runID        string
	dumpedStores map[string]bool
}

// New wires a scraper around an already-connected browser.
func New(browser *rod.Browser, scraperConf config.ScraperConfig, walmartConf config.WalmartConfig, solver *captcha.Solver) *WalmartScraper {
	return &WalmartScraper{
		Browser:      browser,
		ScraperConf:  scraperConf,
		WalmartConf:  walmartConf,
		Solver:       solver,
		runID:        uuid.NewString(),
		dumpedStores: make(map[string]bool),
	}
}
