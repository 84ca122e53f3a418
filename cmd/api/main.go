package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shipment-tracker/internal/core/cache"
	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/core/httpclient"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/core/metrics"
	"shipment-tracker/internal/core/server"
	orderadapter "shipment-tracker/internal/features/orders/adapters"
	orderhandler "shipment-tracker/internal/features/orders/handler"
	orderservice "shipment-tracker/internal/features/orders/service"
	trackingadapter "shipment-tracker/internal/features/tracking/adapters"
	trackinghandler "shipment-tracker/internal/features/tracking/handler"
	"shipment-tracker/internal/features/tracking/scheduler"
	trackingservice "shipment-tracker/internal/features/tracking/service"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// @title Shipment Tracker API
// @version 1.0
// @description Shipment tracking and order action service backed by the Shiprocket courier API.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	clk := clock.New()
	m := metrics.New()
	httpClient := httpclient.NewClient(time.Duration(cfg.Tracking.HTTPTimeoutSeconds) * time.Second)

	// Snapshot cache backend
	var snapshotCache cache.Cache
	switch cfg.Cache.Backend {
	case "redis":
		redisCache, err := cache.NewRedisAdapter(cfg.Cache.RedisURL)
		if err != nil {
			l.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		if err := redisCache.Ping(context.Background()); err != nil {
			l.Fatal("Redis ping failed", zap.Error(err))
		}
		snapshotCache = redisCache
		l.Info("Redis snapshot cache connected", zap.String("url", cfg.Cache.RedisURL))
	default:
		snapshotCache = cache.NewMemoryAdapter(clk)
		l.Info("In-memory snapshot cache enabled")
	}
	defer snapshotCache.Close()

	// Tracking wiring
	snapshotRepo := trackingadapter.NewCacheSnapshotRepository(
		snapshotCache,
		time.Duration(cfg.Cache.SnapshotTTLSeconds)*time.Second,
	)
	shiprocket := trackingadapter.NewShiprocketAdapter(cfg.Shiprocket, httpClient, clk, m)
	pollScheduler := scheduler.New(clk)

	orchestrator := trackingservice.NewTrackingOrchestrator(
		shiprocket,
		snapshotRepo,
		pollScheduler,
		clk,
		m,
		time.Duration(cfg.Tracking.FreshnessSeconds)*time.Second,
	)
	defer orchestrator.Teardown()

	trackingHdl := trackinghandler.NewTrackingHandler(
		orchestrator,
		time.Duration(cfg.Tracking.PollIntervalSeconds)*time.Second,
	)

	// Orders wiring
	storefront := orderadapter.NewStorefrontAdapter(cfg.Storefront, httpClient)
	if err := storefront.HealthCheck(context.Background()); err != nil {
		l.Fatal("Storefront health check failed", zap.Error(err))
	}
	l.Info("Storefront connection verified")

	orderService := orderservice.NewOrderService(storefront, orchestrator)
	orderHandler := orderhandler.NewOrderHandler(orderService)

	srv := server.New(cfg, m)

	// Register Routes
	srv.App.Get("/orders/:id", orderHandler.GetOrder)
	srv.App.Get("/tracking/:awb", trackingHdl.GetTracking)
	srv.App.Post("/tracking/:awb/watch", trackingHdl.StartWatch)
	srv.App.Delete("/tracking/:awb/watch", trackingHdl.StopWatch)

	// Graceful shutdown: stop polling first so no tick races the exit.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit

		l.Info("Shutting down", zap.String("signal", sig.String()))
		orchestrator.Teardown()
		if err := srv.App.Shutdown(); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}

	l.Info("Server stopped")
}
