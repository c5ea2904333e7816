package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Ingest   IngestConfig
	Store    StoreConfig
	Fetch    FetchConfig
	Textract TextractConfig
	Source   SourceConfig
}

// IngestConfig holds result-ingestion configuration
type IngestConfig struct {
	ResultsDir    string
	WatchDebounce time.Duration
	WatchQueue    int // watcher event channel capacity
}

// StoreConfig holds registry/ledger persistence configuration
type StoreConfig struct {
	WorkbookPath string
	DSN          string // optional SQL backend; empty means workbook only
}

// FetchConfig holds waiver-page scraping configuration
type FetchConfig struct {
	PageURL  string
	SiteBase string
	PDFDir   string
}

// TextractConfig holds text-detection runner configuration
type TextractConfig struct {
	PollInterval time.Duration
	RawPrefix    string
	ResultPrefix string
}

// SourceConfig controls the source_key -> source_url derivation
type SourceConfig struct {
	JSONPrefix string
	PDFBaseURL string
}

// LoadConfig loads configuration from environment variables. A .env file is
// honored when present (production sets variables directly).
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Ingest: IngestConfig{
			ResultsDir:    getEnv("RESULTS_DIR", "./waivers-json"),
			WatchDebounce: getEnvAsDuration("WATCH_DEBOUNCE", 500*time.Millisecond),
			WatchQueue:    getEnvAsInt("WATCH_QUEUE_SIZE", 256),
		},
		Store: StoreConfig{
			WorkbookPath: getEnv("WORKBOOK_PATH", "./waivers_info.xlsx"),
			DSN:          getEnv("DB_URL", ""),
		},
		Fetch: FetchConfig{
			PageURL:  getEnv("WAIVER_PAGE_URL", "https://www.faa.gov/uas/commercial_operators/part_107_waivers/waivers_issued"),
			SiteBase: getEnv("WAIVER_SITE_BASE", "https://www.faa.gov"),
			PDFDir:   getEnv("PDF_DIR", "./waivers-raw-pdf"),
		},
		Textract: TextractConfig{
			PollInterval: getEnvAsDuration("TEXTRACT_POLL_INTERVAL", 5*time.Second),
			RawPrefix:    getEnv("RAW_PREFIX", "waivers-raw-pdf/"),
			ResultPrefix: getEnv("RESULT_PREFIX", "waivers-json/"),
		},
		Source: SourceConfig{
			JSONPrefix: getEnv("SOURCE_JSON_PREFIX", "waivers-json/"),
			PDFBaseURL: getEnv("SOURCE_PDF_BASE", "https://www.faa.gov/uas/commercial_operators/part_107_waivers/media"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Ingest.ResultsDir == "" {
		return NewAppError("CONFIG_ERROR", "RESULTS_DIR is required", ErrInvalidInput)
	}
	if c.Store.WorkbookPath == "" && c.Store.DSN == "" {
		return NewAppError("CONFIG_ERROR", "WORKBOOK_PATH or DB_URL is required", ErrInvalidInput)
	}
	if c.Source.JSONPrefix == "" {
		return NewAppError("CONFIG_ERROR", "SOURCE_JSON_PREFIX is required", ErrInvalidInput)
	}
	return nil
}
