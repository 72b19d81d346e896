package main

import (
	"context"
	"net/http"
	"os"

	"github.com/anandbhagyawant/messconnect-backend/api/controllers"
	"github.com/anandbhagyawant/messconnect-backend/api/routes"
	authsvc "github.com/anandbhagyawant/messconnect-backend/internal/auth"
	"github.com/anandbhagyawant/messconnect-backend/internal/bootstrap"
	"github.com/anandbhagyawant/messconnect-backend/internal/directory"
	"github.com/anandbhagyawant/messconnect-backend/internal/ledger"
	paymentsvc "github.com/anandbhagyawant/messconnect-backend/internal/payments"
	"github.com/anandbhagyawant/messconnect-backend/internal/portal"
	"github.com/anandbhagyawant/messconnect-backend/internal/records"
	settingsvc "github.com/anandbhagyawant/messconnect-backend/internal/settings"
	"github.com/anandbhagyawant/messconnect-backend/internal/store"
	"github.com/anandbhagyawant/messconnect-backend/pkg/config"
	"github.com/anandbhagyawant/messconnect-backend/pkg/db"
	"github.com/anandbhagyawant/messconnect-backend/pkg/gateway"
	"github.com/anandbhagyawant/messconnect-backend/pkg/logger"
	"github.com/anandbhagyawant/messconnect-backend/pkg/metrics"
	"github.com/anandbhagyawant/messconnect-backend/pkg/migrate"
	redispkg "github.com/anandbhagyawant/messconnect-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

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

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redispkg.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	catalog := records.NewCatalog(store.New(dbClient.DB()))

	bootstrapService := bootstrap.NewService(catalog, cfg.Bootstrap, cfg.Password, logg)
	if err := bootstrapService.Seed(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to seed operator accounts", err)
		os.Exit(1)
	}

	gatewayClient := gateway.NewClient(context.Background(), cfg.Gateway, logg)

	settingsService := settingsvc.NewService(catalog, logg)
	directoryService := directory.NewService(catalog, logg)
	ledgerService := ledger.NewService(catalog, settingsService, logg, nil)
	paymentsService := paymentsvc.NewService(gatewayClient, ledgerService, logg)
	portalService := portal.NewService(catalog, logg, nil)
	authService := authsvc.NewService(catalog, cfg.JWT, cfg.Password, logg, nil)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	probes := map[string]controllers.ReadinessProbe{
		"postgres": dbClient,
		"redis":    redisClient,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			probes,
			redisClient,
			httpMetrics,
			metricsHandler,
			authService,
			directoryService,
			settingsService,
			ledgerService,
			paymentsService,
			portalService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
