package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tanakritw/officestock-backend/api/routes"
	"github.com/tanakritw/officestock-backend/internal/alerts"
	"github.com/tanakritw/officestock-backend/internal/borrows"
	"github.com/tanakritw/officestock-backend/internal/inventory"
	"github.com/tanakritw/officestock-backend/internal/reports"
	"github.com/tanakritw/officestock-backend/internal/rooms"
	"github.com/tanakritw/officestock-backend/internal/storages"
	"github.com/tanakritw/officestock-backend/internal/users"
	"github.com/tanakritw/officestock-backend/pkg/config"
	"github.com/tanakritw/officestock-backend/pkg/db"
	"github.com/tanakritw/officestock-backend/pkg/line"
	"github.com/tanakritw/officestock-backend/pkg/logger"
	"github.com/tanakritw/officestock-backend/pkg/metrics"
	"github.com/tanakritw/officestock-backend/pkg/migrate"
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

	registry := prometheus.NewRegistry()
	ledgerMetrics := metrics.NewLedgerMetrics(registry)

	lineClient := line.NewClient(context.Background(), cfg.Line, logg)

	itemRepo := inventory.NewRepository(dbClient.DB())
	borrowRepo := borrows.NewRepository(dbClient.DB())
	roomRepo := rooms.NewRepository(dbClient.DB())
	userRepo := users.NewRepository(dbClient.DB())
	storageRepo := storages.NewRepository(dbClient.DB())
	reportRepo := reports.NewRepository(dbClient.DB())

	alertService := alerts.NewService(lineClient, userRepo, logg)

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		Tx:                dbClient,
		Repo:              itemRepo,
		Alerts:            alertService,
		LowStockThreshold: cfg.Alerts.LowStockThreshold,
		Metrics:           ledgerMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	borrowService, err := borrows.NewService(dbClient, borrowRepo, itemRepo, ledgerMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create borrow service", err)
		os.Exit(1)
	}

	roomService, err := rooms.NewService(dbClient, roomRepo, ledgerMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create room service", err)
		os.Exit(1)
	}

	svcs := routes.Services{
		Inventory: inventoryService,
		Borrows:   borrowService,
		Rooms:     roomService,
		Users:     users.NewService(dbClient, userRepo, ledgerMetrics),
		Storages:  storages.NewService(dbClient, storageRepo, ledgerMetrics),
		Reports:   reports.NewService(reportRepo),
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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, registry, svcs),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
