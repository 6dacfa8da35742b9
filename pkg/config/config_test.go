package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadReportDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	var cfg Report
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "shop", cfg.MongoDatabase)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.Seed)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8083", cfg.Addr("8083"))
}

func TestLoadPortOverride(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CATALOG_SEED", "true")

	var cfg Catalog
	require.NoError(t, Load(&cfg))

	assert.Equal(t, ":9000", cfg.Addr("8082"))
	assert.True(t, cfg.Seed)
}

func TestLoadAuthRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	var cfg Auth
	require.Error(t, Load(&cfg))
}

func TestLoadAuthRejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	var cfg Auth
	err := Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32")
}

func TestLoadGateway(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("REPORT_URL", "http://localhost:8083")

	var cfg Gateway
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "http://localhost:8083", cfg.ReportURL)
	assert.Equal(t, "http://catalog:8082", cfg.CatalogURL)
}
