package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitalixplus/storefront/internal/cron"
	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/config"
	"github.com/vitalixplus/storefront/pkg/env"
	"github.com/vitalixplus/storefront/pkg/logger"
	"github.com/vitalixplus/storefront/pkg/metrics"
	"github.com/vitalixplus/storefront/pkg/redis"
	"github.com/vitalixplus/storefront/pkg/storage"
)

const lockKeyFormat = "order-watcher:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "order-watcher"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = "order-watcher"

	logg = logger.New(logger.Options{
		ServiceName: "order-watcher",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	opened, err := storage.Open(context.Background(), cfg, redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := opened.Close(); err != nil {
			logg.Error(context.Background(), "error closing storage", err)
		}
	}()

	reg := prometheus.DefaultRegisterer
	backendClient := backend.New(cfg.Backend, backend.WithMetrics(metrics.NewBackendMetrics(reg)))

	statusJob, err := cron.NewOrderStatusJob(cron.OrderStatusJobParams{
		Logger:    logg,
		Orders:    backendClient,
		Store:     opened.Store,
		Publisher: redisClient,
		Channel:   cfg.Watcher.Channel,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order status job", err)
		os.Exit(1)
	}
	registry := cron.NewRegistry(statusJob)
	if opened.SQL != nil {
		purgeJob, err := cron.NewKVPurgeJob(logg, opened.SQL, 0)
		if err != nil {
			logg.Error(context.Background(), "failed to create kv purge job", err)
			os.Exit(1)
		}
		if err := registry.Register(purgeJob); err != nil {
			logg.Error(context.Background(), "failed to register kv purge job", err)
			os.Exit(1)
		}
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(fmt.Sprintf(lockKeyFormat, envOrLocal(cfg.App.Env))), cfg.Watcher.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create watcher lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(reg),
		Interval: cfg.Watcher.PollInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create watcher service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"channel":     cfg.Watcher.Channel,
		"instance":    env.Instance(),
	})

	metricsServer := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics listener stopped", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logg.Info(ctx, "starting order watcher")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "order watcher stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "order watcher shutting down gracefully")
}

func envOrLocal(env string) string {
	if env == "" {
		return "local"
	}
	return env
}
