package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHOPIFY_PAGE_SIZE", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.ShopifyPageSize)
	assert.Equal(t, "2023-10", cfg.ShopifyAPIVersion)
	assert.True(t, cfg.ShopifyUseProductListing)
	assert.Equal(t, 6*time.Hour, cfg.SyncLockTTL)
	assert.Empty(t, cfg.Brokers())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SHOPIFY_PAGE_SIZE", "50")
	t.Setenv("SHOPIFY_USE_PRODUCT_LISTINGS", "false")
	t.Setenv("SYNC_LOCK_TTL", "15m")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.ShopifyPageSize)
	assert.False(t, cfg.ShopifyUseProductListing)
	assert.Equal(t, 15*time.Minute, cfg.SyncLockTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers())
}

func TestLoadRejectsPageSize(t *testing.T) {
	t.Setenv("SHOPIFY_PAGE_SIZE", "500")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateSync(t *testing.T) {
	cfg := &Config{}
	err := cfg.ValidateSync()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHOPIFY_SHOP_DOMAIN")
	assert.Contains(t, err.Error(), "SHOPIFY_ACCESS_TOKEN")

	cfg.ShopifyShopDomain = "demo"
	cfg.ShopifyAccessToken = "token"
	assert.NoError(t, cfg.ValidateSync())
}
