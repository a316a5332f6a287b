// Package main is the entry point for the booking API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dtapi/internal/config"
	"dtapi/internal/controller"
	"dtapi/internal/controller/handlers"
	"dtapi/internal/logger"
	"dtapi/internal/observability"
	"dtapi/internal/store/postgres"

	"go.opentelemetry.io/otel"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	if err := run(*configPath, *migrateFlag); err != nil {
		slog.Error("booking api failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, migrate bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := postgres.New(ctx, cfg.DatabaseURL,
		postgres.WithRoles(cfg.CustomerRoleID, cfg.TranslatorRoleID),
	)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	if migrate {
		log.Info("running database migrations")
		if err := postgres.Migrate(store.DB()); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations completed")
	}

	shutdownTracer, err := observability.InitTracer(ctx, "dtapi", cfg.OTELEndpoint)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Warn("failed to shutdown tracer", "error", err)
		}
	}()

	metricsHandler, shutdownMetrics, err := observability.InitMetrics()
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			log.Warn("failed to shutdown metrics", "error", err)
		}
	}()

	meter := otel.Meter(observability.MeterName)
	bookingMetrics, err := observability.NewBookingMetrics(meter)
	if err != nil {
		return err
	}
	// The gauge queries the outbox only when scraped.
	if err := observability.RegisterOutboxDepth(meter, store.Count); err != nil {
		log.Warn("failed to register outbox depth metric", "error", err)
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := controller.New(addr, store, cfg, metricsHandler,
		handlers.WithLogger(log),
		handlers.WithMetrics(bookingMetrics),
	)

	if cfg.AdminRoleID == "" && cfg.SuperAdminRoleID == "" {
		log.Warn("ADMIN_ROLE_ID and SUPERADMIN_ROLE_ID are unset; nobody can list all jobs")
	}

	log.Info("booking api starting", "addr", addr)
	if err := srv.Run(ctx); err != nil {
		return err
	}
	log.Info("server exited properly")
	return nil
}

