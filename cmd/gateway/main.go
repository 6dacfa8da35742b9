package main

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniShop/internal/gateway"
	"MiniShop/pkg/config"
	"MiniShop/pkg/kit"
)

func main() {
	service := "gateway"

	var cfg config.Gateway
	if err := config.Load(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	deps := gateway.Deps{
		JWTSecret:  cfg.JWTSecret,
		AuthURL:    cfg.AuthURL,
		CatalogURL: cfg.CatalogURL,
		ReportURL:  cfg.ReportURL,
	}

	reg := prometheus.NewRegistry()
	h, err := gateway.NewHandler(deps, gateway.HTTPDeps{
		Log:            logger,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})
	if err != nil {
		logger.Fatal("init gateway handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(cfg.Addr("8080"), h, logger); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}
