package main

import (
	"flag"
	"log"

	"WalmartScraper/internal/app"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	task := flag.String("task", "automatic", "Task to run: scrape-stores, scrape-products, search, export, schedule, or automatic")
	query := flag.String("query", "", "Search query for the 'search' task")
	pages := flag.Int("pages", 1, "Number of search result pages to scrape")
	concurrency := flag.Int("concurrency", 10, "Concurrent product detail requests for the 'search' task")
	flag.Parse()

	application := app.New()
	defer application.Repo.Close()

	log.Printf("Running task: %s", *task)

	switch *task {
	case "scrape-stores":
		// Phase 1: Collects store pages province by province.
		application.RunStoreScraper()

	case "scrape-products":
		// Phase 2: Pulls promo products for stores collected in Phase 1.
		application.RunProductScraper()

	case "search":
		if *query == "" {
			log.Fatal("The 'search' task requires -query.")
		}
		application.RunSearchScraper(*query, *pages, *concurrency)

	case "export":
		application.RunExporter()

	case "schedule":
		application.RunScheduler()

	case "automatic":
		application.RunAutomaticWorkflow()

	default:
		log.Fatalf("Unknown task: %s.", *task)
	}
}
