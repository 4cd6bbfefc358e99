package walmart

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"WalmartScraper/pkg/config"

	"github.com/go-resty/resty/v2"
)

func apiTestScraper(baseURL string) *WalmartScraper {
	return &WalmartScraper{
		WalmartConf: config.WalmartConfig{
			CanadaBaseURL:  baseURL,
			ItemsPerPage:   48,
			MaxSearchPages: 1,
			Lang:           "en",
		},
	}
}

func TestSearchPageBacksOffOnBlockStatuses(t *testing.T) {
	const payload = `{"items":[{"id":"1","name":"Item"}]}`

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != searchAPIPath {
			t.Errorf("unexpected path %q; want %q", r.URL.Path, searchAPIPath)
		}
		if got := r.URL.Query().Get("storeId"); got != "3175" {
			t.Errorf("storeId = %q; want 3175", got)
		}
		if got := r.URL.Query().Get("itemsPerPage"); got != "48" {
			t.Errorf("itemsPerPage = %q; want 48", got)
		}

		// First a PerimeterX throttle, then its alternate status, then success.
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusPreconditionFailed)
		case 2:
			w.WriteHeader(456)
		default:
			w.Write([]byte(payload))
		}
	}))
	defer server.Close()

	s := apiTestScraper(server.URL)
	body, status, err := s.searchPage(resty.New(), nil, "3175", "rollback", 1)
	if err != nil {
		t.Fatalf("searchPage() failed: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("status = %d; want 200", status)
	}
	if string(body) != payload {
		t.Errorf("body = %q; want %q", body, payload)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests; want 3 (two blocked, one retried through)", got)
	}
}

func TestSearchPagePersistentBlock(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusPreconditionFailed)
	}))
	defer server.Close()

	s := apiTestScraper(server.URL)
	_, status, err := s.searchPage(resty.New(), nil, "3175", "rollback", 1)
	if err == nil {
		t.Fatal("expected error when every attempt is blocked")
	}
	if status != http.StatusPreconditionFailed {
		t.Errorf("status = %d; want 412", status)
	}
	// Initial attempt plus three retries.
	if got := calls.Load(); got != 4 {
		t.Errorf("server saw %d requests; want 4", got)
	}
}
