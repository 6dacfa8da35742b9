package main

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniShop/internal/auth"
	"MiniShop/pkg/config"
	"MiniShop/pkg/kit"
)

func main() {
	service := "auth"

	var cfg config.Auth
	if err := config.Load(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	store := auth.NewMemStore()
	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD not set, no operator can log in")
	} else if _, err := store.Add(cfg.AdminEmail, cfg.AdminPassword, auth.RoleAdmin); err != nil {
		logger.Fatal("seed operator failed", zap.Error(err))
	}

	s := &auth.Server{
		Log:   logger,
		Store: store,
		JWT:   auth.NewTokenMaker(cfg.JWTSecret, cfg.TokenTTL),
	}

	reg := prometheus.NewRegistry()
	h := auth.NewHandler(s, auth.HTTPDeps{
		Log:            logger,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(cfg.Addr("8081"), h, logger); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}
