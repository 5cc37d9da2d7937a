package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	CORS      CORSConfig
	Providers ProviderConfig
	Refresh   RefreshConfig
	AI        AIConfig
	Kafka     KafkaConfig
	Scheduler SchedulerConfig
	SectorMap map[string]string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port  string
	Host  string
	Addr  string // Combined host:port for convenience
	Debug bool
}

// StorageConfig holds the locations of the holdings file and the snapshot database
type StorageConfig struct {
	HoldingsPath string
	DBPath       string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// ProviderConfig holds market-data provider settings.
// An empty AlphaVantageKey disables the primary provider entirely.
type ProviderConfig struct {
	AlphaVantageKey             string
	AlphaVantageBaseURL         string
	YahooBaseURL                string
	Timeout                     time.Duration
	CurrentPriceTTL             time.Duration
	HistoricalPriceTTL          time.Duration
	CacheMaxEntries             int
	AlphaVantageHistoricalDelay time.Duration
	YahooHistoricalDelay        time.Duration
	LiveQuoteConcurrency        int
}

// RefreshConfig holds the bulk price refresh settings
type RefreshConfig struct {
	Delay             time.Duration
	SyntheticFallback bool
}

// AIConfig holds the LLM settings used for portfolio insights
type AIConfig struct {
	GeminiAPIKey string
	Model        string
}

// KafkaConfig holds Kafka configuration. No brokers means events are not published.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// SchedulerConfig holds the cron schedule for recurring jobs
type SchedulerConfig struct {
	SnapshotSchedule string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	p := &parser{}

	config := &Config{
		Server: ServerConfig{
			Port:  getEnv("SERVER_PORT", "5000"),
			Host:  getEnv("SERVER_HOST", "0.0.0.0"),
			Debug: p.bool("DEBUG", false),
		},
		Storage: StorageConfig{
			HoldingsPath: getEnv("HOLDINGS_CSV_PATH", "./data/portfolio_holdings.csv"),
			DBPath:       getEnv("DB_PATH", "./data/portfolio_snapshots.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Providers: ProviderConfig{
			AlphaVantageKey:             strings.TrimSpace(os.Getenv("ALPHA_VANTAGE_API_KEY")),
			AlphaVantageBaseURL:         getEnv("ALPHA_VANTAGE_BASE_URL", "https://www.alphavantage.co"),
			YahooBaseURL:                getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			Timeout:                     p.duration("PROVIDER_TIMEOUT", 10*time.Second),
			CurrentPriceTTL:             p.duration("CURRENT_PRICE_TTL", 60*time.Second),
			HistoricalPriceTTL:          p.duration("HISTORICAL_PRICE_TTL", time.Hour),
			CacheMaxEntries:             p.int("PRICE_CACHE_MAX_ENTRIES", 0),
			AlphaVantageHistoricalDelay: p.duration("ALPHA_VANTAGE_HISTORICAL_DELAY", time.Second),
			YahooHistoricalDelay:        p.duration("YAHOO_HISTORICAL_DELAY", 0),
			LiveQuoteConcurrency:        p.int("LIVE_QUOTE_CONCURRENCY", 2),
		},
		Refresh: RefreshConfig{
			Delay:             p.duration("REFRESH_DELAY", 500*time.Millisecond),
			SyntheticFallback: p.bool("REFRESH_SYNTHETIC_FALLBACK", true),
		},
		AI: AIConfig{
			GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "portfolio-events"),
		},
		Scheduler: SchedulerConfig{
			SnapshotSchedule: getEnv("SNAPSHOT_SCHEDULE", "0 22 * * 1-5"),
		},
		SectorMap: DefaultSectorMap(),
	}

	if p.err != nil {
		return nil, p.err
	}

	if config.Providers.LiveQuoteConcurrency < 1 {
		return nil, fmt.Errorf("LIVE_QUOTE_CONCURRENCY must be at least 1, got %d", config.Providers.LiveQuoteConcurrency)
	}
	if config.Providers.CacheMaxEntries < 0 {
		return nil, fmt.Errorf("PRICE_CACHE_MAX_ENTRIES cannot be negative, got %d", config.Providers.CacheMaxEntries)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// DefaultSectorMap returns the sector assigned to well-known tickers when a holding is added.
// Tickers not in the map fall back to the sector supplied with the request, or "Other".
func DefaultSectorMap() map[string]string {
	return map[string]string{
		"AAPL":  "Technology",
		"GOOGL": "Technology",
		"MSFT":  "Technology",
		"NVDA":  "Technology",
		"TSLA":  "Consumer Cyclical",
		"AMZN":  "Consumer Cyclical",
		"META":  "Technology",
		"JPM":   "Financial",
		"JNJ":   "Healthcare",
		"V":     "Financial",
		"WMT":   "Consumer Defensive",
		"DIS":   "Communication Services",
		"NFLX":  "Communication Services",
		"AMD":   "Technology",
		"CRM":   "Technology",
		"ORCL":  "Technology",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma-separated environment variable, dropping empty items
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// parser converts typed environment variables and keeps the first conversion error
type parser struct {
	err error
}

func (p *parser) duration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return d
}

func (p *parser) int(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return n
}

func (p *parser) bool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		p.fail(key, value, err)
		return defaultValue
	}
	return b
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
}
