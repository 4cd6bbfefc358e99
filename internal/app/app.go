package app

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"time"

	"WalmartScraper/internal/captcha"
	"WalmartScraper/internal/database"
	"WalmartScraper/internal/export"
	"WalmartScraper/internal/models"
	"WalmartScraper/internal/scraper/walmart"
	"WalmartScraper/internal/scraper/walmartcom"
	"WalmartScraper/pkg/config"
	"WalmartScraper/utils"
)

// The browser is relaunched with a fresh proxy after this many stores.
const storesPerProxy = 10

// App is the main application structure holding all dependencies.
type App struct {
	Config *config.Config
	Repo   *database.DBRepository
}

// New creates a new application instance with all initial settings.
func New() *App {
	cfg := config.LoadConfig("config.yml")
	repo := database.InitDB("walmart.db")
	return &App{
		Config: cfg,
		Repo:   repo,
	}
}

// RunStoreScraper walks the walmart.ca store pages province by province and
// saves each store with status 'needs_products'. Product extraction is a
// separate task so a crashed run can resume where it stopped.
func (a *App) RunStoreScraper() {
	log.Println("--- Starting Store Page Scraping Task ---")

	rotator := utils.NewProxyRotator(a.Config.Proxies)
	solver := captcha.NewSolver(a.Config.CaptchaAPIKey)

	proxy := rotator.Next()
	browser := walmart.NewBrowser(a.Config.Scraper.Headless, proxy)
	scraper := walmart.New(browser, a.Config.Scraper, a.Config.Walmart, solver)
	scraper.Proxy = proxy

	defer func() { browser.MustClose() }()

	var scraped, saved, sinceRotate int
	for _, province := range walmart.Provinces() {
		storeCount := walmart.ProvinceStoreCounts[province]
		if a.Config.Scraper.StoresPerProvince > 0 && a.Config.Scraper.StoresPerProvince < storeCount {
			storeCount = a.Config.Scraper.StoresPerProvince
		}
		log.Printf("Scraping %d store(s) in %s", storeCount, province)

		for storeNum := 1; storeNum <= storeCount; storeNum++ {
			// Rotating the exit IP periodically keeps the bot wall from
			// building up a profile on one address.
			if sinceRotate >= storesPerProxy && rotator.Len() > 1 {
				log.Println("Rotating proxy and relaunching browser...")
				browser.MustClose()
				proxy = rotator.Next()
				browser = walmart.NewBrowser(a.Config.Scraper.Headless, proxy)
				scraper = walmart.New(browser, a.Config.Scraper, a.Config.Walmart, solver)
				scraper.Proxy = proxy
				sinceRotate = 0
			}

			storeURL := walmart.StoreURL(a.Config.Walmart.CanadaBaseURL, province, storeNum)
			scraped++
			sinceRotate++

			store, err := scraper.ScrapeStore(storeURL)
			if err != nil {
				log.Printf("Giving up on %s: %v", storeURL, err)
				continue
			}
			// The URL only carries the province slug; store the canonical name.
			store.Province = province
			if err := a.Repo.SaveStore(*store); err == nil {
				saved++
			}

			utils.HumanDelay(4, 8)
		}
	}

	log.Printf("Task finished. Visited %d store pages, saved %d stores.", scraped, saved)
}

// RunProductScraper pulls promotional products for every store saved with
// status 'needs_products', using a browser per worker.
func (a *App) RunProductScraper() {
	log.Println("--- Starting Promo Product Scraping Task ---")

	storesToScrape, err := a.Repo.GetStoresForProducts()
	if err != nil {
		log.Fatalf("Failed to get stores for product scraping: %v", err)
	}
	if len(storesToScrape) == 0 {
		log.Println("No stores are awaiting product scraping. Task finished.")
		return
	}
	log.Printf("Found %d stores to scrape for products.", len(storesToScrape))

	rotator := utils.NewProxyRotator(a.Config.Proxies)
	solver := captcha.NewSolver(a.Config.CaptchaAPIKey)

	numWorkers := utils.GetOptimalWorkerCount(a.Config.Scraper.Workers)
	if numWorkers > len(storesToScrape) {
		numWorkers = len(storesToScrape)
	}
	jobs := make(chan models.Store, len(storesToScrape))
	results := make(chan models.Store, len(storesToScrape))
	maxRetries := a.Config.Scraper.MaxRetries

	// Start workers
	for w := 1; w <= numWorkers; w++ {
		go func(workerID int) {
			proxy := rotator.Next()
			workerBrowser := walmart.NewBrowser(a.Config.Scraper.Headless, proxy)
			defer workerBrowser.MustClose()

			scraper := walmart.New(workerBrowser, a.Config.Scraper, a.Config.Walmart, solver)
			scraper.Proxy = proxy

			for store := range jobs {
				log.Printf("[Worker %d] Scraping products for: %s", workerID, store.URL)
				var err error
				for attempt := 1; attempt <= maxRetries; attempt++ {
					err = scraper.ScrapeStoreProducts(&store)
					if err == nil {
						break
					}
					log.Printf("[Worker %d] Attempt %d failed for %s: %v", workerID, attempt, store.URL, err)
					if attempt < maxRetries {
						utils.HumanDelay(5, 10)
					}
				}
				if err != nil {
					store.Status = "failed"
				} else {
					store.Status = "completed"
				}
				results <- store // Send regardless of success to unblock the main loop.
			}
		}(w)
	}

	// Send jobs
	for _, s := range storesToScrape {
		jobs <- s
	}
	close(jobs)

	// Collect results and update DB
	var totalProducts int
	for i := 0; i < len(storesToScrape); i++ {
		store := <-results
		for _, product := range store.Products {
			if err := a.Repo.SaveProduct(product); err == nil {
				totalProducts++
			}
		}
		if err := a.Repo.UpdateStoreProducts(store.ID, store.ProductCount, store.Status); err != nil {
			log.Printf("DB update failed for store %s: %v", store.URL, err)
		}
	}

	log.Printf("--- Promo Product Scraping Task Finished. Saved %d products. ---", totalProducts)
}

// RunSearchScraper runs a walmart.com search over plain HTTP and writes the
// results plus the product detail payloads to the output directory.
func (a *App) RunSearchScraper(query string, pages, concurrency int) {
	log.Printf("--- Starting walmart.com Search Task for %q ---", query)
	ctx := context.Background()

	searchScraper := walmartcom.NewSearchScraper(a.Config.Walmart.USBaseURL)
	items, err := searchScraper.ScrapeSearch(ctx, query, pages)
	if err != nil {
		log.Printf("Search ended early: %v", err)
	}
	if len(items) == 0 {
		log.Println("No search results collected. Task finished.")
		return
	}

	outDir := a.Config.Output.Dir
	if err := export.WriteJSON(items, filepath.Join(outDir, "walmart_search.json")); err != nil {
		log.Printf("Failed to write search JSON: %v", err)
	}
	if err := export.WriteSearchCSV(items, filepath.Join(outDir, "walmart_products.csv")); err != nil {
		log.Printf("Failed to write search CSV: %v", err)
	}

	var urls []string
	for _, item := range items {
		if item.ProductURL != "" {
			urls = append(urls, item.ProductURL)
		}
	}

	productScraper := walmartcom.NewProductScraper(concurrency)
	details := productScraper.ScrapeProducts(ctx, urls)
	if len(details) > 0 {
		if err := export.WriteJSON(details, filepath.Join(outDir, "walmart_products.json")); err != nil {
			log.Printf("Failed to write product details JSON: %v", err)
		}
	}

	log.Printf("--- Search Task Finished. %d results, %d detail pages. ---", len(items), len(details))
}

// RunExporter dumps all stores and their products to CSV and JSON.
func (a *App) RunExporter() {
	log.Println("--- Starting Export Task ---")

	stores, err := a.Repo.GetAllStores()
	if err != nil {
		log.Fatalf("Failed to load stores for export: %v", err)
	}
	if len(stores) == 0 {
		log.Println("Nothing to export. Task finished.")
		return
	}

	csvPath := filepath.Join(a.Config.Output.Dir, a.Config.Output.CSVFile)
	jsonPath := strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".json"

	if err := export.WriteStoresCSV(stores, csvPath); err != nil {
		log.Fatalf("CSV export failed: %v", err)
	}
	if err := export.WriteStoresJSON(stores, jsonPath); err != nil {
		log.Fatalf("JSON export failed: %v", err)
	}

	log.Printf("--- Export Task Finished. Wrote %d stores to %s and %s ---", len(stores), csvPath, jsonPath)
}

// RunAutomaticWorkflow executes the entire scraping pipeline in sequence.
func (a *App) RunAutomaticWorkflow() {
	log.Println("====== STARTING AUTOMATIC WORKFLOW ======")

	log.Println("--- STEP 1 of 3: Scraping Store Pages ---")
	a.RunStoreScraper()
	log.Println("--- STEP 1 of 3: COMPLETED ---")

	// A short pause between stages can be helpful
	time.Sleep(2 * time.Second)

	log.Println("--- STEP 2 of 3: Scraping Promo Products ---")
	a.RunProductScraper()
	log.Println("--- STEP 2 of 3: COMPLETED ---")

	time.Sleep(2 * time.Second)

	log.Println("--- STEP 3 of 3: Exporting Results ---")
	a.RunExporter()
	log.Println("--- STEP 3 of 3: COMPLETED ---")

	log.Println("====== AUTOMATIC WORKFLOW FINISHED SUCCESSFULLY ======")
}
