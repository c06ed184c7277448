package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/auth"
	"github.com/project-shkedia/media-db-service/pkg/crud"
	"github.com/project-shkedia/media-db-service/pkg/database"
	"github.com/project-shkedia/media-db-service/pkg/handlers"
	"github.com/project-shkedia/media-db-service/pkg/middleware"
	"github.com/project-shkedia/media-db-service/pkg/repositories"
	"github.com/project-shkedia/media-db-service/pkg/services"
)

const shutdownTimeout = 15 * time.Second

func serveCmd(configPath *string) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalogue HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before serving")
	return cmd
}

func runServe(ctx context.Context, configPath string, migrate bool) error {
	cfg, logger, err := loadRuntime(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("driver", cfg.Database.Driver),
		zap.String("database", cfg.Database.Database),
		zap.Int("retry_number", cfg.Retry.RetryNumber),
		zap.Bool("auth_required", cfg.AuthRequired))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if migrate {
		if err := migrateStore(cfg, logger); err != nil {
			return err
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := database.NewMetrics(registry)

	db, err := openStore(ctx, cfg, metrics, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	engine := crud.NewEngine(db, logger)
	users := services.NewUserService(engine, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, db, registry, logger).RegisterRoutes(mux)
	handlers.NewDeviceHandler(users, services.NewDeviceService(engine, users, logger), logger).RegisterRoutes(mux)
	handlers.NewMediaHandler(services.NewMediaService(engine, logger), logger).RegisterRoutes(mux)
	handlers.NewInsightHandler(services.NewInsightService(engine, logger), logger).RegisterRoutes(mux)
	handlers.NewJobHandler(services.NewJobService(engine, logger), logger).RegisterRoutes(mux)
	handlers.NewCollectionHandler(
		services.NewCollectionService(engine, repositories.NewCollectionRepository(db), logger),
		logger,
	).RegisterRoutes(mux)

	var handler http.Handler = mux
	handler = auth.Middleware(cfg.AuthRequired, logger)(handler)
	handler = middleware.RequestLogger(logger)(handler)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting media-db-service",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
