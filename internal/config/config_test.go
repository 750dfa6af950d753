package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_ENV", "HTTP_PORT", "DATABASE_URL", "POSTGRESQL_HOST", "POSTGRESQL_PORT", "POSTGRESQL_USER",
	"POSTGRESQL_PASSWORD", "POSTGRESQL_DBNAME", "JWT_SECRET", "ACCESS_TOKEN_TTL", "MEDIA_STORAGE_PATH",
	"MAX_UPLOAD_MB", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_LIMIT", "RATE_LIMIT_PERIOD", "REDIS_ADDR",
	"REDIS_PASSWORD", "REDIS_DB", "PRICE_ORACLE_URL", "PRICE_ORACLE_TIMEOUT", "PRICE_CACHE_TTL", "LOG_LEVEL",
	"LISTING_EXPIRY_INTERVAL",
}

// clearEnv сбрасывает переменные на время теста; t.Setenv восстановит их после.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_DevelopmentDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction())
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.NotEmpty(t, cfg.AllowedOrigins)
	assert.Equal(t, int64(10), cfg.MaxUploadSizeMB)
	assert.Equal(t, 30*time.Minute, cfg.PriceCacheTTL)
	assert.Equal(t, 3*time.Second, cfg.PriceOracleTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Empty(t, cfg.PriceOracleURL)
	assert.Equal(t, time.Minute, cfg.ListingExpiryInterval)
}

func TestLoad_ProductionRequiresSecretAndOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", strings.Repeat("x", 32))
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS_ALLOWED_ORIGINS")
}

func TestLoad_ParsesExplicitValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 40))
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("MAX_UPLOAD_MB", "5")
	t.Setenv("RATE_LIMIT_LIMIT", "20")
	t.Setenv("RATE_LIMIT_PERIOD", "30s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("PRICE_ORACLE_URL", "http://oracle:9000/")
	t.Setenv("PRICE_ORACLE_TIMEOUT", "2s")
	t.Setenv("PRICE_CACHE_TTL", "10m")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LISTING_EXPIRY_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(5), cfg.MaxUploadSizeMB)
	assert.Equal(t, int64(20), cfg.RateLimitLimit)
	assert.Equal(t, 30*time.Second, cfg.RateLimitPeriod)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "http://oracle:9000", cfg.PriceOracleURL)
	assert.Equal(t, 10*time.Minute, cfg.PriceCacheTTL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.ListingExpiryInterval)
}

func TestLoad_RejectsMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("MAX_UPLOAD_MB", "ten")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_UPLOAD_MB")
}

func TestLoad_RejectsNonPositiveExpiryInterval(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("LISTING_EXPIRY_INTERVAL", "0s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LISTING_EXPIRY_INTERVAL")
}

func TestGetDatabaseURL_FromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRESQL_HOST", "db")
	t.Setenv("POSTGRESQL_PORT", "5433")
	t.Setenv("POSTGRESQL_USER", "market")
	t.Setenv("POSTGRESQL_PASSWORD", "p@ss")
	t.Setenv("POSTGRESQL_DBNAME", "crops")

	assert.Equal(t, "postgres://market:p%40ss@db:5433/crops?sslmode=disable", getDatabaseURL())
}
