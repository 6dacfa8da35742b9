// Package config loads per-service settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Service holds the settings every binary shares.
type Service struct {
	Port           string `envconfig:"PORT"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	MetricsToken   string `envconfig:"METRICS_TOKEN"`
}

// Addr returns the listen address, falling back to def when PORT is unset.
func (s Service) Addr(def string) string {
	if s.Port == "" {
		return ":" + def
	}
	return ":" + s.Port
}

type Catalog struct {
	Service
	Seed bool `envconfig:"CATALOG_SEED" default:"false"`
}

type Report struct {
	Service
	MongoURI      string        `envconfig:"MONGO_URI"`
	MongoDatabase string        `envconfig:"MONGO_DATABASE" default:"shop"`
	RedisURL      string        `envconfig:"REDIS_URL"`
	CacheTTL      time.Duration `envconfig:"REPORT_CACHE_TTL" default:"30s"`
	Seed          bool          `envconfig:"REPORT_SEED" default:"true"`
}

type Auth struct {
	Service
	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"15m"`
	AdminEmail    string        `envconfig:"ADMIN_EMAIL" default:"admin@minishop.local"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD"`
}

type Gateway struct {
	Service
	JWTSecret  string `envconfig:"JWT_SECRET" required:"true"`
	AuthURL    string `envconfig:"AUTH_URL" default:"http://auth:8081"`
	CatalogURL string `envconfig:"CATALOG_URL" default:"http://catalog:8082"`
	ReportURL  string `envconfig:"REPORT_URL" default:"http://report:8083"`
}

const minSecretLen = 32

// Load reads an optional .env file and decodes the environment into spec,
// which must be a pointer to one of the config structs above.
func Load(spec any) error {
	_ = godotenv.Load()

	if err := envconfig.Process("", spec); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	switch c := spec.(type) {
	case *Auth:
		return checkSecret(c.JWTSecret)
	case *Gateway:
		return checkSecret(c.JWTSecret)
	}
	return nil
}

func checkSecret(s string) error {
	if len(s) < minSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d chars", minSecretLen)
	}
	return nil
}
