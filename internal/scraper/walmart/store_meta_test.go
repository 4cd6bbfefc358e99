package walmart

import "testing"

func TestStoreURL(t *testing.T) {
	got := StoreURL("https://www.walmart.ca", "British Columbia", 3)
	want := "https://www.walmart.ca/en/stores/british-columbia/store-3"
	if got != want {
		t.Errorf("StoreURL() = %q; want %q", got, want)
	}
}

func TestExtractStoreMetadata(t *testing.T) {
	storeURL := "https://www.walmart.ca/en/stores/ontario/store-12"

	testCases := []struct {
		name       string
		pageSource string
		wantID     string
	}{
		{"JSON storeId", `{"storeId":"3175","lang":"en"}`, "3175"},
		{"Unquoted storeId", `{"storeId": 3175}`, "3175"},
		{"Data Attribute", `<div data-store-number="1061"></div>`, "1061"},
		{"storeNumber Key", `{"storeNumber": "2280"}`, "2280"},
		{"Slug Fallback", `<html><body>nothing here</body></html>`, "12"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			storeID, province, storeSlug := ExtractStoreMetadata(storeURL, tc.pageSource)
			if storeID != tc.wantID {
				t.Errorf("storeID = %q; want %q", storeID, tc.wantID)
			}
			if province != "ontario" {
				t.Errorf("province = %q; want ontario", province)
			}
			if storeSlug != "store-12" {
				t.Errorf("storeSlug = %q; want store-12", storeSlug)
			}
		})
	}
}

func TestExtractContactInfo(t *testing.T) {
	pageHTML := `
	<html><body>
		<div data-automation-id="store-address">
			100 City Centre Dr,
			Mississauga, ON L5B 2C9
		</div>
		<a href="tel:+19055551234">(905) 555-1234</a>
	</body></html>`

	address, phone := ExtractContactInfo(pageHTML)
	if address != "100 City Centre Dr, Mississauga, ON L5B 2C9" {
		t.Errorf("address = %q", address)
	}
	if phone != "(905) 555-1234" {
		t.Errorf("phone = %q", phone)
	}
}

func TestExtractContactInfoFallbackSelectors(t *testing.T) {
	pageHTML := `<html><body><address>1 Main St</address><span class="store-phone">555-0000</span></body></html>`
	address, phone := ExtractContactInfo(pageHTML)
	if address != "1 Main St" {
		t.Errorf("address = %q; want fallback selector match", address)
	}
	if phone != "555-0000" {
		t.Errorf("phone = %q; want fallback selector match", phone)
	}
}

func TestExtractHours(t *testing.T) {
	pageHTML := `
	<html><body>
		<div class="store-hours-block">
			<span>Mon-Fri</span>
			<span>7am - 10pm</span>
			<span>Sat-Sun</span>
			<span>8am - 9pm</span>
		</div>
	</body></html>`

	hours := ExtractHours(pageHTML)
	want := "Mon-Fri | 7am - 10pm | Sat-Sun | 8am - 9pm"
	if hours != want {
		t.Errorf("ExtractHours() = %q; want %q", hours, want)
	}
}

func TestExtractHoursMissing(t *testing.T) {
	if hours := ExtractHours(`<html><body><p>no schedule</p></body></html>`); hours != "" {
		t.Errorf("ExtractHours() = %q; want empty", hours)
	}
}

func TestProvinces(t *testing.T) {
	provinces := Provinces()
	if len(provinces) != len(ProvinceStoreCounts) {
		t.Fatalf("Provinces() returned %d entries; want %d", len(provinces), len(ProvinceStoreCounts))
	}
	if provinces[0] != "Ontario" {
		t.Errorf("largest province should come first, got %q", provinces[0])
	}
	for i := 1; i < len(provinces); i++ {
		if ProvinceStoreCounts[provinces[i-1]] < ProvinceStoreCounts[provinces[i]] {
			t.Errorf("provinces not sorted by store count at index %d", i)
		}
	}
}
