package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatabaseURL          string
	PricesURL            string
	PricesRetryMax       int
	PricesRetryBaseDelay time.Duration
	PricesCacheTTL       time.Duration
	PriceWorkerInterval  time.Duration
	GitHubAPIURL         string
	IconsRepo            string
	IconsBranch          string
	IconsPath            string
	IconsOutputDir       string
	IconsDelay           time.Duration
	HTTPPort             string
	AdminAPIKey          string
	LogLevel             string
	LogFile              string
	SheetsSpreadsheetID  string
	GoogleCredentials    string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		DatabaseURL:          envOrDefaultWarn("DATABASE_URL", ""),
		PricesURL:            envOrDefault("PRICES_URL", "https://interview.switcheo.com/prices.json"),
		PricesRetryMax:       envOrDefaultInt("PRICES_RETRY_MAX", 5),
		PricesRetryBaseDelay: envOrDefaultDuration("PRICES_RETRY_BASE_DELAY", 2*time.Second),
		PricesCacheTTL:       envOrDefaultInterval("PRICES_CACHE_TTL", 30*time.Second),
		PriceWorkerInterval:  envOrDefaultInterval("PRICE_WORKER_INTERVAL", 5*time.Minute),
		GitHubAPIURL:         envOrDefault("GITHUB_API_URL", "https://api.github.com"),
		IconsRepo:            envOrDefault("ICONS_REPO", "Switcheo/token-icons"),
		IconsBranch:          envOrDefault("ICONS_BRANCH", "main"),
		IconsPath:            envOrDefault("ICONS_PATH", "tokens"),
		IconsOutputDir:       envOrDefault("ICONS_OUTPUT_DIR", "assets/tokens"),
		IconsDelay:           envOrDefaultDuration("ICONS_DELAY", 100*time.Millisecond),
		HTTPPort:             envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:          os.Getenv("ADMIN_API_KEY"),
		LogLevel:             envOrDefault("LOG_LEVEL", "info"),
		LogFile:              os.Getenv("LOG_FILE"),
		SheetsSpreadsheetID:  os.Getenv("SHEETS_SPREADSHEET_ID"),
		GoogleCredentials:    os.Getenv("GOOGLE_CREDENTIALS_JSON"),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

// envOrDefaultInterval is envOrDefaultDuration for periods that must be positive
// (tickers and cache TTLs).
func envOrDefaultInterval(key string, defaultVal time.Duration) time.Duration {
	d := envOrDefaultDuration(key, defaultVal)
	if d <= 0 {
		slog.Warn("non-positive interval env var, using default", "key", key, "value", d, "default", defaultVal)
		return defaultVal
	}
	return d
}
