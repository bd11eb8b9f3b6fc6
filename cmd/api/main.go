package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vitalixplus/storefront/api/routes"
	"github.com/vitalixplus/storefront/internal/admin"
	"github.com/vitalixplus/storefront/internal/cart"
	"github.com/vitalixplus/storefront/internal/catalog"
	"github.com/vitalixplus/storefront/internal/checkout"
	"github.com/vitalixplus/storefront/internal/orders"
	"github.com/vitalixplus/storefront/internal/session"
	"github.com/vitalixplus/storefront/pkg/backend"
	"github.com/vitalixplus/storefront/pkg/config"
	"github.com/vitalixplus/storefront/pkg/env"
	"github.com/vitalixplus/storefront/pkg/logger"
	"github.com/vitalixplus/storefront/pkg/metrics"
	"github.com/vitalixplus/storefront/pkg/redis"
	"github.com/vitalixplus/storefront/pkg/storage"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = "api"

	logg = logger.New(logger.Options{
		ServiceName: "api",
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
	commerce := metrics.NewCommerceMetrics(reg)
	backendClient := backend.New(cfg.Backend, backend.WithMetrics(metrics.NewBackendMetrics(reg)))

	sessions, err := session.NewManager(opened.Store, cfg.Storage.SessionTTL)
	requireService(logg, "session manager", err)
	sessionService, err := session.NewService(session.ServiceParams{
		Users:          backendClient,
		Sessions:       sessions,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	requireService(logg, "session service", err)

	catalogService, err := catalog.NewService(backendClient, redisClient, cfg.Catalog, logg)
	requireService(logg, "catalog service", err)

	cartService, err := cart.NewService(cart.NewRepository(opened.Store), catalogService, commerce, logg)
	requireService(logg, "cart service", err)

	checkoutService, err := checkout.NewService(cartService, backendClient, cfg.Checkout, commerce, logg)
	requireService(logg, "checkout service", err)

	ordersService, err := orders.NewService(backendClient, catalogService, cfg.Checkout, logg)
	requireService(logg, "orders service", err)

	adminService, err := admin.NewService(backendClient, logg)
	requireService(logg, "admin service", err)

	router := routes.NewRouter(routes.Params{
		Config:   cfg,
		Logger:   logg,
		Redis:    redisClient,
		Storage:  opened.Store,
		Backend:  backendClient,
		Metrics:  metrics.NewHTTPMetrics(reg),
		Gatherer: prometheus.DefaultGatherer,
		Sessions: sessionService,
		Catalog:  catalogService,
		Cart:     cartService,
		Checkout: checkoutService,
		Orders:   ordersService,
		Admin:    adminService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"storage":  cfg.Storage.Driver,
		"instance": env.Instance(),
	})
	logg.Info(ctx, "starting api server")

	// The order event stream clears its own write deadline.
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "api server shutdown failed", err)
	}
	logg.Info(ctx, "api server shut down gracefully")
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name, err)
	os.Exit(1)
}
