package walmart

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"WalmartScraper/internal/metrics"
	"WalmartScraper/internal/models"
	"WalmartScraper/utils"

	"github.com/go-rod/rod"
	"github.com/go-rod/stealth"
)

// captchaSelector matches the containers PerimeterX and reCAPTCHA inject.
const captchaSelector = `[id*="captcha"], [id*="recaptcha"], [class*="captcha"]`

var siteKeyRegex = regexp.MustCompile(`data-sitekey="([^"]+)"`)

// ScrapeStore fetches a single store page with retries and returns the store
// record with page-level metadata filled in. Products are fetched separately
// by ScrapeStoreProducts.
func (s *WalmartScraper) ScrapeStore(storeURL string) (*models.Store, error) {
	var lastErr error
	for attempt := 1; attempt <= s.ScraperConf.MaxRetries; attempt++ {
		log.Printf("[Attempt %d/%d] Scraping store page: %s", attempt, s.ScraperConf.MaxRetries, storeURL)
		store, err := s.scrapeStoreOnce(storeURL)
		if err == nil {
			metrics.StorePagesScraped.Inc()
			log.Printf("Store page scraped: %s (%s)", store.Name, store.StoreID)
			return store, nil
		}
		lastErr = err
		log.Printf("Attempt %d failed for %s: %v", attempt, storeURL, err)
		if attempt < s.ScraperConf.MaxRetries {
			utils.HumanDelay(5, 10)
		}
	}
	return nil, fmt.Errorf("store page %s failed after %d attempts: %w", storeURL, s.ScraperConf.MaxRetries, lastErr)
}

func (s *WalmartScraper) scrapeStoreOnce(storeURL string) (*models.Store, error) {
	page, err := s.openStorePage(storeURL)
	if err != nil {
		return nil, err
	}
	defer page.MustClose()

	pageHTML, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("could not read page source for %s: %w", storeURL, err)
	}

	storeID, province, storeSlug := ExtractStoreMetadata(storeURL, pageHTML)
	if storeID != "" {
		log.Printf("Store ID detected: %s", storeID)
	} else {
		log.Printf("Store ID not found in page for %s, keeping slug only", storeURL)
	}

	store := &models.Store{
		URL:       storeURL,
		StoreID:   storeID,
		StoreSlug: storeSlug,
		Province:  province,
		ScrapedAt: time.Now(),
	}

	if el, err := page.Timeout(10 * time.Second).Element("h1"); err == nil {
		if name, err := el.Text(); err == nil {
			store.Name = strings.TrimSpace(name)
		}
	}
	if store.Name == "" {
		store.Name = "N/A"
	}

	store.Address, store.Phone = ExtractContactInfo(pageHTML)
	store.Hours = ExtractHours(pageHTML)

	return store, nil
}

// ScrapeStoreProducts opens the store page (to pick up cookies and pass the
// anti-bot wall) and then pulls the promotional products through the
// product-search API.
func (s *WalmartScraper) ScrapeStoreProducts(store *models.Store) error {
	if store.StoreID == "" && store.StoreSlug == "" {
		return fmt.Errorf("store %s has no id or slug, cannot query products", store.URL)
	}

	page, err := s.openStorePage(store.URL)
	if err != nil {
		return err
	}
	defer page.MustClose()

	products, err := s.FetchPromoProducts(page, store.StoreID, store.StoreSlug, store.Province, store.URL)
	if err != nil {
		return fmt.Errorf("product extraction failed for store %s: %w", store.URL, err)
	}

	store.Products = products
	store.ProductCount = len(products)
	return nil
}

// openStorePage navigates a stealth page to the store URL and deals with any
// CAPTCHA wall before handing the page back.
func (s *WalmartScraper) openStorePage(storeURL string) (*rod.Page, error) {
	page, err := stealth.Page(s.Browser)
	if err != nil {
		return nil, fmt.Errorf("could not open stealth page: %w", err)
	}

	if err := page.Timeout(60 * time.Second).Navigate(storeURL); err != nil {
		page.MustClose()
		return nil, fmt.Errorf("navigation to %s failed: %w", storeURL, err)
	}
	if err := page.Timeout(60 * time.Second).WaitLoad(); err != nil {
		page.MustClose()
		return nil, fmt.Errorf("page load timed out for %s: %w", storeURL, err)
	}

	utils.HumanDelay(3, 6)

	if has, _, err := page.Timeout(5 * time.Second).Has(captchaSelector); err == nil && has {
		log.Println("CAPTCHA detected!")
		metrics.CaptchaEncounters.Inc()
		if err := s.handleCaptcha(page, storeURL); err != nil {
			page.MustClose()
			return nil, err
		}
	}

	return page, nil
}

// handleCaptcha tries, in order: waiting out the PerimeterX automatic bypass,
// solving via 2Captcha when a key is configured, and finally a fixed wait.
func (s *WalmartScraper) handleCaptcha(page *rod.Page, pageURL string) error {
	if has, _, err := page.Timeout(5 * time.Second).Has("#px_captcha"); err == nil && has {
		log.Println("PerimeterX challenge detected, waiting for automatic bypass... (max 15s)")
		for i := 0; i < 15; i++ {
			time.Sleep(time.Second)
			if has, _, err := page.Has("#px_captcha"); err == nil && !has {
				log.Println("Challenge cleared automatically")
				return nil
			}
		}
	}

	if s.Solver.Enabled() {
		log.Println("Attempting to solve CAPTCHA via 2Captcha...")
		err := s.solveWithAPI(page, pageURL)
		if err == nil {
			return nil
		}
		log.Printf("2Captcha solve failed: %v", err)
	}

	log.Println("CAPTCHA unresolved - waiting 30 seconds before continuing...")
	time.Sleep(30 * time.Second)
	return nil
}

func (s *WalmartScraper) solveWithAPI(page *rod.Page, pageURL string) error {
	pageHTML, err := page.HTML()
	if err != nil {
		return fmt.Errorf("could not read page source: %w", err)
	}
	match := siteKeyRegex.FindStringSubmatch(pageHTML)
	if match == nil {
		return fmt.Errorf("no reCAPTCHA sitekey found in page")
	}

	token, err := s.Solver.SolveRecaptcha(context.Background(), match[1], pageURL)
	if err != nil {
		return err
	}

	// Inject the token and let the page's own callback submit it.
	_, err = page.Eval(`(token) => {
		const field = document.getElementById("g-recaptcha-response");
		if (field) { field.innerHTML = token; }
		if (window.___grecaptcha_cfg) {
			for (const client of Object.values(window.___grecaptcha_cfg.clients || {})) {
				for (const value of Object.values(client)) {
					if (value && typeof value.callback === "function") { value.callback(token); }
				}
			}
		}
	}`, token)
	if err != nil {
		return fmt.Errorf("token injection failed: %w", err)
	}

	log.Println("CAPTCHA token injected")
	time.Sleep(3 * time.Second)
	return nil
}
