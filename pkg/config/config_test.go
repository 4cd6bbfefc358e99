package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
scraper:
  workers: "4"
  headless: true
  max_retries: 5
  stores_per_province: 3
walmart:
  canada_base_url: "https://www.walmart.ca"
  items_per_page: 24
proxies:
  - "http://proxy1:8080"
output:
  dir: "results"
server:
  port: "9090"
`)

	t.Setenv("TWOCAPTCHA_API_KEY", "test-key")
	t.Setenv("PROXY_LIST", "http://proxy2:8080, http://proxy3:8080")

	cfg := LoadConfig(path)

	if cfg.Scraper.Workers != "4" || cfg.Scraper.MaxRetries != 5 {
		t.Errorf("scraper section not loaded: %+v", cfg.Scraper)
	}
	if cfg.Walmart.ItemsPerPage != 24 {
		t.Errorf("ItemsPerPage = %d; want 24", cfg.Walmart.ItemsPerPage)
	}
	if cfg.CaptchaAPIKey != "test-key" {
		t.Errorf("CaptchaAPIKey = %q; want env value", cfg.CaptchaAPIKey)
	}
	if len(cfg.Proxies) != 3 {
		t.Fatalf("expected 3 proxies (1 yaml + 2 env), got %d: %v", len(cfg.Proxies), cfg.Proxies)
	}
	if cfg.Proxies[2] != "http://proxy3:8080" {
		t.Errorf("env proxy not trimmed: %q", cfg.Proxies[2])
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q; want 9090", cfg.Server.Port)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "scraper:\n  headless: true\n")

	t.Setenv("TWOCAPTCHA_API_KEY", "")
	t.Setenv("PROXY_LIST", "")

	cfg := LoadConfig(path)

	if cfg.Scraper.Workers != "auto" {
		t.Errorf("Workers default = %q; want auto", cfg.Scraper.Workers)
	}
	if cfg.Scraper.MaxRetries != 3 {
		t.Errorf("MaxRetries default = %d; want 3", cfg.Scraper.MaxRetries)
	}
	if cfg.Walmart.CanadaBaseURL != "https://www.walmart.ca" {
		t.Errorf("CanadaBaseURL default = %q", cfg.Walmart.CanadaBaseURL)
	}
	if cfg.Walmart.ItemsPerPage != 48 {
		t.Errorf("ItemsPerPage default = %d; want 48", cfg.Walmart.ItemsPerPage)
	}
	if cfg.Output.Dir != "output" || cfg.Output.CSVFile != "walmart_canada_results.csv" {
		t.Errorf("output defaults wrong: %+v", cfg.Output)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port default = %q; want 8080", cfg.Server.Port)
	}
}
