package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Kafka
	KafkaBrokers       string
	KafkaEventsTopic   string
	KafkaRequestsTopic string
	KafkaGroupID       string

	// API Configuration
	APIPort string
	APIHost string

	// Shopify
	ShopifyShopDomain        string
	ShopifyAccessToken       string
	ShopifyAPIVersion        string
	ShopifyPageSize          int
	ShopifyUseProductListing bool
	ShopifyRequestsPerSecond float64

	// Sync
	AssetsDir   string
	SyncLockTTL time.Duration

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	cfg := &Config{
		DatabaseURL:              getEnv("DATABASE_URL", "sqlite://shopsync.db"),
		KafkaBrokers:             getEnv("KAFKA_BROKERS", ""),
		KafkaEventsTopic:         getEnv("KAFKA_EVENTS_TOPIC", "catalog-events"),
		KafkaRequestsTopic:       getEnv("KAFKA_REQUESTS_TOPIC", "catalog-sync-requests"),
		KafkaGroupID:             getEnv("KAFKA_GROUP_ID", "shopsync-worker"),
		APIPort:                  getEnv("API_PORT", "8080"),
		APIHost:                  getEnv("API_HOST", "0.0.0.0"),
		ShopifyShopDomain:        getEnv("SHOPIFY_SHOP_DOMAIN", ""),
		ShopifyAccessToken:       getEnv("SHOPIFY_ACCESS_TOKEN", ""),
		ShopifyAPIVersion:        getEnv("SHOPIFY_API_VERSION", "2023-10"),
		ShopifyPageSize:          getEnvAsInt("SHOPIFY_PAGE_SIZE", 250),
		ShopifyUseProductListing: getEnvAsBool("SHOPIFY_USE_PRODUCT_LISTINGS", true),
		ShopifyRequestsPerSecond: getEnvAsFloat("SHOPIFY_REQUESTS_PER_SECOND", 2),
		AssetsDir:                getEnv("ASSETS_DIR", "assets"),
		SyncLockTTL:              getEnvAsDuration("SYNC_LOCK_TTL", 6*time.Hour),
		Env:                      getEnv("ENV", "development"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
	}

	if cfg.ShopifyPageSize < 1 || cfg.ShopifyPageSize > 250 {
		return nil, fmt.Errorf("SHOPIFY_PAGE_SIZE must be between 1 and 250, got %d", cfg.ShopifyPageSize)
	}
	if cfg.ShopifyRequestsPerSecond <= 0 {
		return nil, fmt.Errorf("SHOPIFY_REQUESTS_PER_SECOND must be positive")
	}

	return cfg, nil
}

// ValidateSync reports settings a sync pass cannot run without.
func (c *Config) ValidateSync() error {
	var missing []string
	if c.ShopifyShopDomain == "" {
		missing = append(missing, "SHOPIFY_SHOP_DOMAIN")
	}
	if c.ShopifyAccessToken == "" {
		missing = append(missing, "SHOPIFY_ACCESS_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Brokers splits the comma separated broker list. Empty means Kafka is disabled.
func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
