package server

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"

	"WalmartScraper/internal/database"
	"WalmartScraper/internal/metrics"
	"WalmartScraper/internal/models"
	"WalmartScraper/pkg/config"
)

// Start serves the scraped products over HTTP.
func Start(repo *database.DBRepository, cfg *config.Config) {
	http.HandleFunc("/products", productsHandler(repo))
	http.HandleFunc("/healthz", healthHandler)
	http.Handle("/metrics", metrics.Handler())

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting API server on port %s", port)
	log.Printf("Endpoint available at http://localhost:%s/products", port)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func productsHandler(repo *database.DBRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// 1. Parse Pagination and Filter Parameters
		queryParams := r.URL.Query()
		page, _ := strconv.Atoi(queryParams.Get("page"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(queryParams.Get("limit"))
		if limit < 1 {
			limit = 20 // Default limit
		}
		offset := (page - 1) * limit

		minPrice, _ := strconv.ParseFloat(queryParams.Get("min_price"), 64)
		maxPrice, _ := strconv.ParseFloat(queryParams.Get("max_price"), 64)

		filters := models.ProductFilters{
			Province:  queryParams.Get("province"),
			PromoType: queryParams.Get("promo_type"),
			MinPrice:  minPrice,
			MaxPrice:  maxPrice,
			Limit:     limit,
			Offset:    offset,
		}

		// 2. Get Total Count for Pagination
		totalProducts, err := repo.CountProducts(filters)
		if err != nil {
			http.Error(w, "Failed to count products", http.StatusInternalServerError)
			return
		}
		totalPages := int(math.Ceil(float64(totalProducts) / float64(limit)))

		// 3. Get Paginated Products
		products, err := repo.GetFilteredProducts(filters)
		if err != nil {
			http.Error(w, "Failed to get products", http.StatusInternalServerError)
			return
		}
		if products == nil {
			products = []models.Product{}
		}

		// 4. Build Final Response
		response := models.ProductsResponse{
			Data: products,
			Pagination: models.Pagination{
				TotalItems:  totalProducts,
				TotalPages:  totalPages,
				CurrentPage: page,
			},
		}

		// 5. Send JSON Response with UTF-8 Header
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}
