package main

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniShop/internal/catalog"
	"MiniShop/pkg/config"
	"MiniShop/pkg/kit"
)

func main() {
	service := "catalog"

	var cfg config.Catalog
	if err := config.Load(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()

	store := catalog.NewMemStore()
	if cfg.Seed {
		catalog.SeedDemo(store)
		logger.Info("seeded demo catalog", zap.Int("products", len(store.ListAll())))
	}

	s := &catalog.Server{
		Manager: catalog.NewManager(store, reg),
		Log:     logger,
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            logger,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(cfg.Addr("8082"), h, logger); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}
