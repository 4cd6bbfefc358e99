package walmartcom

import "testing"

func TestIsBlocked(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected bool
	}{
		{"OK Page", 200, "<html>__NEXT_DATA__</html>", false},
		{"403 Forbidden", 403, "", true},
		{"429 Rate Limited", 429, "", true},
		{"456 Wall", 456, "", true},
		{"503 Unavailable", 503, "", true},
		{"Robot Check Body", 200, "<title>Robot or human?</title>", true},
		{"Captcha Body", 200, "please solve this CAPTCHA", true},
		{"Blocked Redirect", 200, `window.location="/blocked?url=..."`, true},
		{"Plain 404", 404, "not found", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if result := IsBlocked(tc.status, tc.body); result != tc.expected {
				t.Errorf("IsBlocked(%d, %q) = %v; want %v", tc.status, tc.body, result, tc.expected)
			}
		})
	}
}

func TestExtractNextData(t *testing.T) {
	pageHTML := `<html><head>
		<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"initialData":{"searchResult":{"itemStacks":[{"items":[]}]}}}}}</script>
	</head><body></body></html>`

	data, err := ExtractNextData(pageHTML)
	if err != nil {
		t.Fatalf("ExtractNextData() returned error: %v", err)
	}
	if _, ok := data["props"]; !ok {
		t.Error("decoded payload missing props key")
	}
}

func TestExtractNextDataMissing(t *testing.T) {
	if _, err := ExtractNextData("<html><body>no script</body></html>"); err == nil {
		t.Error("expected error when __NEXT_DATA__ is absent")
	}
}

func TestExtractNextDataInvalidJSON(t *testing.T) {
	pageHTML := `<script id="__NEXT_DATA__">{not json}</script>`
	if _, err := ExtractNextData(pageHTML); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseSearchItem(t *testing.T) {
	baseURL := "https://www.walmart.com"

	t.Run("Full Item", func(t *testing.T) {
		raw := map[string]any{
			"usItemId":           "987654321",
			"title":              "Apple AirPods Pro",
			"priceInfo":          map[string]any{"price": 189.0},
			"averageRating":      4.7,
			"numberOfReviews":    1532.0,
			"availabilityStatus": "IN_STOCK",
			"imageInfo":          map[string]any{"thumbnailUrl": "https://i5.walmartimages.com/x.jpg"},
			"canonicalUrl":       "/ip/airpods-pro/987654321",
		}

		item, ok := ParseSearchItem(raw, baseURL)
		if !ok {
			t.Fatal("expected item to be kept")
		}
		if item.ID != "987654321" {
			t.Errorf("ID = %q", item.ID)
		}
		if item.Price != 189.0 {
			t.Errorf("Price = %f; want 189.0", item.Price)
		}
		if item.Rating != 4.7 || item.Reviews != 1532 {
			t.Errorf("rating/reviews = %f/%d", item.Rating, item.Reviews)
		}
		if item.ProductURL != "https://www.walmart.com/ip/airpods-pro/987654321" {
			t.Errorf("ProductURL = %q", item.ProductURL)
		}
	})

	t.Run("Alternate Keys", func(t *testing.T) {
		raw := map[string]any{
			"id":             "11",
			"name":           "Generic Widget",
			"price":          9.99,
			"rating":         3.5,
			"reviews":        7.0,
			"productPageUrl": "https://www.walmart.com/ip/widget/11",
		}

		item, ok := ParseSearchItem(raw, baseURL)
		if !ok {
			t.Fatal("expected item to be kept")
		}
		if item.Name != "Generic Widget" || item.Price != 9.99 || item.Reviews != 7 {
			t.Errorf("unexpected item: %+v", item)
		}
	})

	t.Run("Empty Title Falls Through To Name", func(t *testing.T) {
		raw := map[string]any{
			"title":        "",
			"name":         "Fallback Name",
			"canonicalUrl": "/ip/fallback/1",
		}

		item, ok := ParseSearchItem(raw, baseURL)
		if !ok {
			t.Fatal("empty title must not mask the name fallback")
		}
		if item.Name != "Fallback Name" {
			t.Errorf("Name = %q; want Fallback Name", item.Name)
		}
	})

	t.Run("Dropped Without Name And URL", func(t *testing.T) {
		if _, ok := ParseSearchItem(map[string]any{"price": 1.0}, baseURL); ok {
			t.Error("item without name and URL should be dropped")
		}
	})
}

func TestNormalizePrice(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected float64
	}{
		{"Flat Price Key", map[string]any{"price": 12.97}, 12.97},
		{"Min Price", map[string]any{"minPrice": 5.0}, 5.0},
		{"Nested Current Price", map[string]any{"currentPrice": map[string]any{"price": 44.0}}, 44.0},
		{"Zero Price Falls Through", map[string]any{"price": 0.0, "minPrice": 5.0}, 5.0},
		{"Bare Number", 3.5, 3.5},
		{"Nil", nil, 0},
		{"Unusable Map", map[string]any{"note": "see store"}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if result := NormalizePrice(tc.input); result != tc.expected {
				t.Errorf("NormalizePrice(%v) = %f; want %f", tc.input, result, tc.expected)
			}
		})
	}
}
