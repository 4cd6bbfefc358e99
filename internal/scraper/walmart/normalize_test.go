package walmart

import "testing"

func TestDetectPromoType(t *testing.T) {
	testCases := []struct {
		name     string
		raw      map[string]any
		hint     string
		expected string
	}{
		{
			"Rollback From Badge List",
			map[string]any{"badges": []any{"Rollback", "Best seller"}},
			"deal",
			"rollback",
		},
		{
			"Clearance From Badge Map",
			map[string]any{"badges": map[string]any{"flag": "CLEARANCE"}},
			"",
			"clearance",
		},
		{
			"Deal From Offer Type",
			map[string]any{"offerType": "SPECIAL_BUY"},
			"",
			"deal",
		},
		{
			"Promo Tag Counts As Deal",
			map[string]any{"promoTag": "Promo price"},
			"",
			"deal",
		},
		{
			"Falls Back To Hint",
			map[string]any{"name": "Plain item"},
			"clearance",
			"clearance",
		},
		{
			"No Match No Hint",
			map[string]any{"name": "Plain item"},
			"",
			"",
		},
		{
			"Rollback Beats Clearance",
			map[string]any{"badges": []any{"rollback"}, "priceType": "clearance"},
			"",
			"rollback",
		},
		{
			"Empty Badges Fall Through To Tags",
			map[string]any{"badges": []any{}, "tags": []any{"Rollback"}},
			"",
			"rollback",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if result := DetectPromoType(tc.raw, tc.hint); result != tc.expected {
				t.Errorf("DetectPromoType() = %q; want %q", result, tc.expected)
			}
		})
	}
}

func TestNormalizeProduct(t *testing.T) {
	baseURL := "https://www.walmart.ca"

	t.Run("Full Item", func(t *testing.T) {
		raw := map[string]any{
			"usItemId":       "123456",
			"name":           "Great Value Peanut Butter",
			"productPageUrl": "/ip/great-value-peanut-butter/123456",
			"priceInfo": map[string]any{
				"currentPrice": map[string]any{"price": 3.97},
				"wasPrice":     7.94,
			},
			"availableQuantity": 12.0,
		}

		product, ok := NormalizeProduct(raw, "3175", "store-3175", "Ontario", "rollback", baseURL)
		if !ok {
			t.Fatal("expected product to be kept")
		}
		if product.ProductID != "123456" {
			t.Errorf("ProductID = %q; want 123456", product.ProductID)
		}
		if product.SKU != "123456" {
			t.Errorf("SKU should fall back to product id, got %q", product.SKU)
		}
		if product.ProductURL != "https://www.walmart.ca/ip/great-value-peanut-butter/123456" {
			t.Errorf("ProductURL = %q", product.ProductURL)
		}
		if product.CurrentPrice != 3.97 || product.OriginalPrice != 7.94 {
			t.Errorf("prices = %f / %f; want 3.97 / 7.94", product.CurrentPrice, product.OriginalPrice)
		}
		if product.DiscountPercent != 50.0 {
			t.Errorf("DiscountPercent = %f; want 50.0", product.DiscountPercent)
		}
		if product.StoreQuantity != 12 {
			t.Errorf("StoreQuantity = %d; want 12", product.StoreQuantity)
		}
	})

	t.Run("Alternate Key Names", func(t *testing.T) {
		raw := map[string]any{
			"productId":    "789",
			"title":        "Clearance Toaster",
			"canonicalUrl": "https://www.walmart.ca/ip/toaster/789",
			"price":        "$24.97",
		}

		product, ok := NormalizeProduct(raw, "", "store-1061", "Quebec", "clearance", baseURL)
		if !ok {
			t.Fatal("expected product to be kept")
		}
		if product.Name != "Clearance Toaster" {
			t.Errorf("Name = %q", product.Name)
		}
		if product.CurrentPrice != 24.97 {
			t.Errorf("CurrentPrice = %f; want 24.97", product.CurrentPrice)
		}
		if product.StoreID != "store-1061" {
			t.Errorf("StoreID should fall back to slug, got %q", product.StoreID)
		}
		if product.DiscountPercent != 0 {
			t.Errorf("DiscountPercent = %f; want 0 without an original price", product.DiscountPercent)
		}
	})

	t.Run("Empty Name Falls Through To Title", func(t *testing.T) {
		raw := map[string]any{
			"id":             "42",
			"name":           "",
			"title":          "Hidden Gem",
			"productPageUrl": "/ip/hidden-gem/42",
		}

		product, ok := NormalizeProduct(raw, "3175", "store-12", "Ontario", "deal", baseURL)
		if !ok {
			t.Fatal("empty name must not mask the title fallback")
		}
		if product.Name != "Hidden Gem" {
			t.Errorf("Name = %q; want Hidden Gem", product.Name)
		}
	})

	t.Run("String Quantity", func(t *testing.T) {
		raw := map[string]any{
			"id":       "7",
			"name":     "Counted Item",
			"quantity": "12",
		}

		product, ok := NormalizeProduct(raw, "3175", "store-12", "Ontario", "deal", baseURL)
		if !ok {
			t.Fatal("expected product to be kept")
		}
		if product.StoreQuantity != 12 {
			t.Errorf("StoreQuantity = %d; want 12 from string quantity", product.StoreQuantity)
		}
	})

	t.Run("Dropped Without Promo Type", func(t *testing.T) {
		raw := map[string]any{"name": "Plain item", "id": "1"}
		if _, ok := NormalizeProduct(raw, "1", "s", "Ontario", "", baseURL); ok {
			t.Error("item without promo type should be dropped")
		}
	})

	t.Run("Dropped Without Name And URL", func(t *testing.T) {
		raw := map[string]any{"id": "1", "price": 9.99}
		if _, ok := NormalizeProduct(raw, "1", "s", "Ontario", "deal", baseURL); ok {
			t.Error("item without name and URL should be dropped")
		}
	})
}

func TestExtractPrices(t *testing.T) {
	testCases := []struct {
		name         string
		raw          map[string]any
		wantCurrent  float64
		wantOriginal float64
	}{
		{
			"PriceInfo Envelope",
			map[string]any{"priceInfo": map[string]any{
				"currentPrice": map[string]any{"price": 5.0},
				"wasPrice":     10.0,
			}},
			5.0, 10.0,
		},
		{
			"Primary Offer",
			map[string]any{"primaryOffer": map[string]any{
				"currentPrice": 19.88,
				"listPrice":    29.88,
			}},
			19.88, 29.88,
		},
		{
			"Bare Number",
			map[string]any{"price": 7.5},
			7.5, 0,
		},
		{
			"Price String",
			map[string]any{"price": "$1,299.00"},
			1299.0, 0,
		},
		{
			"Zero Price Falls Through",
			map[string]any{"price": map[string]any{
				"price":        0.0,
				"currentPrice": 9.99,
				"wasPrice":     19.99,
			}},
			9.99, 19.99,
		},
		{
			"Empty PriceInfo Falls Through",
			map[string]any{
				"priceInfo": map[string]any{},
				"price":     7.5,
			},
			7.5, 0,
		},
		{
			"Nothing",
			map[string]any{"name": "x"},
			0, 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			current, original := extractPrices(tc.raw)
			if current != tc.wantCurrent || original != tc.wantOriginal {
				t.Errorf("extractPrices() = %f / %f; want %f / %f", current, original, tc.wantCurrent, tc.wantOriginal)
			}
		})
	}
}
