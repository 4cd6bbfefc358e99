package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ScraperConfig holds general scraper settings.
type ScraperConfig struct {
	Workers           string `yaml:"workers"`
	Headless          bool   `yaml:"headless"`
	MaxRetries        int    `yaml:"max_retries"`
	StoresPerProvince int    `yaml:"stores_per_province"`
	DebugDumpLimit    int    `yaml:"debug_dump_limit"`
}

// WalmartConfig holds settings specific to the Walmart sites.
type WalmartConfig struct {
	CanadaBaseURL  string `yaml:"canada_base_url"`
	USBaseURL      string `yaml:"us_base_url"`
	ItemsPerPage   int    `yaml:"items_per_page"`
	MaxSearchPages int    `yaml:"max_search_pages"`
	Lang           string `yaml:"lang"`
}

// OutputConfig controls where CSV/JSON exports are written.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	CSVFile string `yaml:"csv_file"`
}

// Config is the complete structure for the config.yml file.
type Config struct {
	Scraper  ScraperConfig `yaml:"scraper"`
	Walmart  WalmartConfig `yaml:"walmart"`
	Proxies  []string      `yaml:"proxies"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Output OutputConfig `yaml:"output"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	// Secrets come from the environment (a .env file is loaded if present),
	// never from config.yml.
	CaptchaAPIKey string `yaml:"-"`
}

// LoadConfig reads config.yml, applies environment overrides, and fills in
// defaults for anything left unset.
func LoadConfig(filepath string) *Config {
	// Best effort: a missing .env just means secrets come from the real env.
	_ = godotenv.Load()

	data, err := os.ReadFile(filepath)
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Error unmarshalling config YAML: %v", err)
	}

	cfg.CaptchaAPIKey = os.Getenv("TWOCAPTCHA_API_KEY")
	if raw := os.Getenv("PROXY_LIST"); raw != "" {
		for _, proxy := range strings.Split(raw, ",") {
			if proxy = strings.TrimSpace(proxy); proxy != "" {
				cfg.Proxies = append(cfg.Proxies, proxy)
			}
		}
	}

	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Scraper.Workers == "" {
		c.Scraper.Workers = "auto"
	}
	if c.Scraper.MaxRetries <= 0 {
		c.Scraper.MaxRetries = 3
	}
	if c.Scraper.DebugDumpLimit <= 0 {
		c.Scraper.DebugDumpLimit = 5
	}
	if c.Walmart.CanadaBaseURL == "" {
		c.Walmart.CanadaBaseURL = "https://www.walmart.ca"
	}
	if c.Walmart.USBaseURL == "" {
		c.Walmart.USBaseURL = "https://www.walmart.com"
	}
	if c.Walmart.ItemsPerPage <= 0 {
		c.Walmart.ItemsPerPage = 48
	}
	if c.Walmart.MaxSearchPages <= 0 {
		c.Walmart.MaxSearchPages = 2
	}
	if c.Walmart.Lang == "" {
		c.Walmart.Lang = "en"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "output"
	}
	if c.Output.CSVFile == "" {
		c.Output.CSVFile = "walmart_canada_results.csv"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
}
