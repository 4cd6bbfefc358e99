package main

import (
	"log"

	"WalmartScraper/internal/database"
	"WalmartScraper/internal/metrics"
	"WalmartScraper/internal/server"
	"WalmartScraper/pkg/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// The server loads its own config
	cfg := config.LoadConfig("config.yml")

	// The server reads from the same database the scraper writes
	repo := database.InitDB("walmart.db")
	defer repo.Close()

	metrics.Register()

	log.Println("Starting products API server...")
	server.Start(repo, cfg)
}
