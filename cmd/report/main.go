package main

import (
	"context"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniShop/internal/report"
	"MiniShop/pkg/config"
	"MiniShop/pkg/kit"
)

func main() {
	service := "report"

	var cfg config.Report
	if err := config.Load(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	reg := prometheus.NewRegistry()

	var (
		store   report.Store
		closers []kit.Closer
	)

	if cfg.MongoURI != "" {
		client, err := report.Connect(ctx, cfg.MongoURI)
		if err != nil {
			logger.Fatal("mongo connect failed", zap.Error(err))
		}
		closers = append(closers, client.Disconnect)
		store = report.NewMongoStore(client.Database(cfg.MongoDatabase))
		logger.Info("using mongo store", zap.String("database", cfg.MongoDatabase))
	} else {
		store = report.NewMemStore()
		logger.Info("using memory store")
	}

	if cfg.Seed {
		if err := report.SeedDemo(ctx, store); err != nil {
			logger.Fatal("seed failed", zap.Error(err))
		}
		logger.Info("seeded demo customers and orders")
	}

	if cfg.RedisURL != "" {
		cache, err := report.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis connect failed", zap.Error(err))
		}
		closers = append(closers, cache.Close)
		cached := report.NewCachedStore(store, cache, cfg.CacheTTL, logger, reg)
		// Entries written before this process started may describe data the
		// backend no longer holds.
		cached.Invalidate(ctx)
		store = cached
		logger.Info("report cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	}

	s := &report.Server{
		Store: store,
		Log:   logger,
	}

	h := report.NewHandler(s, report.HTTPDeps{
		Log:            logger,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(cfg.Addr("8083"), h, logger, closers...); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}
