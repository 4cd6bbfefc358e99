package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"WalmartScraper/internal/models"

	_ "modernc.org/sqlite" // pure Go driver, no cgo needed
)

// DBRepository wraps the scrape-state database connection.
type DBRepository struct {
	DB *sql.DB
}

// InitDB opens (or creates) the database and ensures the schema exists.
func InitDB(filepath string) *DBRepository {
	db, err := sql.Open("sqlite", filepath)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	if err = db.Ping(); err != nil {
		log.Fatalf("Error pinging database: %v", err)
	}

	createStoresTableSQL := `
	CREATE TABLE IF NOT EXISTS stores (
		"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"url" TEXT UNIQUE,
		"store_id" TEXT,
		"store_slug" TEXT,
		"province" TEXT,
		"name" TEXT,
		"address" TEXT,
		"phone" TEXT,
		"hours" TEXT,
		"status" TEXT DEFAULT 'new',
		"product_count" INTEGER DEFAULT 0,
		"scraped_at" DATETIME
	);`
	if _, err = db.Exec(createStoresTableSQL); err != nil {
		log.Fatalf("Error creating stores table: %v", err)
	}

	createProductsTableSQL := `
	CREATE TABLE IF NOT EXISTS products (
		"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"store_id" TEXT,
		"store_slug" TEXT,
		"province" TEXT,
		"product_id" TEXT,
		"sku" TEXT,
		"name" TEXT,
		"product_url" TEXT,
		"current_price" REAL,
		"original_price" REAL,
		"discount_percent" REAL,
		"promo_type" TEXT,
		"store_quantity" INTEGER,
		"scraped_at" DATETIME,
		UNIQUE(store_id, product_url)
	);`
	if _, err = db.Exec(createProductsTableSQL); err != nil {
		log.Fatalf("Error creating products table: %v", err)
	}

	log.Println("Database and tables initialized successfully.")
	return &DBRepository{DB: db}
}

// Close closes the database connection.
func (repo *DBRepository) Close() {
	repo.DB.Close()
}

// SaveStore inserts or refreshes a store record. The status is only set on
// the initial insert so later phases are not rewound.
func (repo *DBRepository) SaveStore(store models.Store) error {
	query := `
	INSERT INTO stores (
		url, store_id, store_slug, province, name, address, phone, hours,
		status, product_count, scraped_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		store_id=excluded.store_id,
		name=excluded.name,
		address=excluded.address,
		phone=excluded.phone,
		hours=excluded.hours,
		scraped_at=excluded.scraped_at;
	`
	stmt, err := repo.DB.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		store.URL, store.StoreID, store.StoreSlug, store.Province,
		store.Name, store.Address, store.Phone, store.Hours,
		"needs_products", store.ProductCount, time.Now(),
	)
	if err != nil {
		log.Printf("Failed to save store %s: %v", store.URL, err)
		return err
	}

	log.Printf("Successfully saved store: %s", store.Name)
	return nil
}

// GetStoresForProducts retrieves stores with the status 'needs_products'.
func (repo *DBRepository) GetStoresForProducts() ([]models.Store, error) {
	rows, err := repo.DB.Query(`
		SELECT id, url, store_id, store_slug, province, name
		FROM stores WHERE status = 'needs_products'
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		var s models.Store
		if err := rows.Scan(&s.ID, &s.URL, &s.StoreID, &s.StoreSlug, &s.Province, &s.Name); err != nil {
			log.Printf("Error scanning store row: %v", err)
			continue
		}
		stores = append(stores, s)
	}
	return stores, nil
}

// UpdateStoreProducts records the product count for a store and moves it to
// the given status ('completed' or 'failed').
func (repo *DBRepository) UpdateStoreProducts(id int64, productCount int, status string) error {
	_, err := repo.DB.Exec(
		"UPDATE stores SET product_count = ?, status = ?, scraped_at = ? WHERE id = ?",
		productCount, status, time.Now(), id,
	)
	return err
}

// UpdateStoreStatus changes the status of a store by its ID.
func (repo *DBRepository) UpdateStoreStatus(id int64, newStatus string) error {
	_, err := repo.DB.Exec("UPDATE stores SET status = ? WHERE id = ?", newStatus, id)
	return err
}

// GetAllStores returns every store with its products attached, for export.
func (repo *DBRepository) GetAllStores() ([]models.Store, error) {
	rows, err := repo.DB.Query(`
		SELECT id, url, store_id, store_slug, province, name, address, phone,
		       hours, product_count, scraped_at
		FROM stores ORDER BY province, url
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		var s models.Store
		if err := rows.Scan(
			&s.ID, &s.URL, &s.StoreID, &s.StoreSlug, &s.Province, &s.Name,
			&s.Address, &s.Phone, &s.Hours, &s.ProductCount, &s.ScrapedAt,
		); err != nil {
			log.Printf("Error scanning store row: %v", err)
			continue
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range stores {
		products, err := repo.GetProductsForStore(stores[i].StoreID, stores[i].StoreSlug)
		if err != nil {
			log.Printf("Error loading products for store %s: %v", stores[i].URL, err)
			continue
		}
		stores[i].Products = products
	}
	return stores, nil
}

// SaveProduct inserts or refreshes one promotional product.
func (repo *DBRepository) SaveProduct(product models.Product) error {
	query := `
	INSERT INTO products (
		store_id, store_slug, province, product_id, sku, name, product_url,
		current_price, original_price, discount_percent, promo_type,
		store_quantity, scraped_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(store_id, product_url) DO UPDATE SET
		current_price=excluded.current_price,
		original_price=excluded.original_price,
		discount_percent=excluded.discount_percent,
		promo_type=excluded.promo_type,
		store_quantity=excluded.store_quantity,
		scraped_at=excluded.scraped_at;
	`
	stmt, err := repo.DB.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		product.StoreID, product.StoreSlug, product.Province, product.ProductID,
		product.SKU, product.Name, product.ProductURL, product.CurrentPrice,
		product.OriginalPrice, product.DiscountPercent, product.PromoType,
		product.StoreQuantity, time.Now(),
	)
	if err != nil {
		log.Printf("Failed to save product %s: %v", product.ProductURL, err)
	}
	return err
}

// GetProductsForStore returns the products recorded for one store.
func (repo *DBRepository) GetProductsForStore(storeID, storeSlug string) ([]models.Product, error) {
	rows, err := repo.DB.Query(`
		SELECT store_id, store_slug, province, product_id, sku, name,
		       product_url, current_price, original_price, discount_percent,
		       promo_type, store_quantity
		FROM products WHERE store_id = ? OR store_id = ?
	`, storeID, storeSlug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.StoreID, &p.StoreSlug, &p.Province, &p.ProductID, &p.SKU, &p.Name,
			&p.ProductURL, &p.CurrentPrice, &p.OriginalPrice, &p.DiscountPercent,
			&p.PromoType, &p.StoreQuantity,
		); err != nil {
			log.Printf("Error scanning product row: %v", err)
			continue
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func buildProductWhere(filters models.ProductFilters) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filters.Province != "" {
		conditions = append(conditions, "province = ?")
		args = append(args, filters.Province)
	}
	if filters.PromoType != "" {
		conditions = append(conditions, "promo_type = ?")
		args = append(args, filters.PromoType)
	}
	if filters.MinPrice > 0 {
		conditions = append(conditions, "current_price >= ?")
		args = append(args, filters.MinPrice)
	}
	if filters.MaxPrice > 0 {
		conditions = append(conditions, "current_price <= ?")
		args = append(args, filters.MaxPrice)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}
	return where, args
}

// CountProducts returns how many products match the filters.
func (repo *DBRepository) CountProducts(filters models.ProductFilters) (int, error) {
	where, args := buildProductWhere(filters)
	var count int
	err := repo.DB.QueryRow("SELECT COUNT(*) FROM products"+where, args...).Scan(&count)
	return count, err
}

// GetFilteredProducts retrieves products matching the filters, newest first.
func (repo *DBRepository) GetFilteredProducts(filters models.ProductFilters) ([]models.Product, error) {
	where, args := buildProductWhere(filters)

	query := `SELECT store_id, store_slug, province, product_id, sku, name,
	                 product_url, current_price, original_price,
	                 discount_percent, promo_type, store_quantity
	          FROM products` + where + " ORDER BY scraped_at DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
		if filters.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filters.Offset)
		}
	}

	rows, err := repo.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute filtered query: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.StoreID, &p.StoreSlug, &p.Province, &p.ProductID, &p.SKU, &p.Name,
			&p.ProductURL, &p.CurrentPrice, &p.OriginalPrice, &p.DiscountPercent,
			&p.PromoType, &p.StoreQuantity,
		); err != nil {
			log.Printf("Error scanning filtered product row: %v", err)
			continue
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
