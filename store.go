package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/config"
	"github.com/project-shkedia/media-db-service/pkg/database"
	"github.com/project-shkedia/media-db-service/pkg/logging"
)

// loadRuntime reads the configuration and builds the process logger.
func loadRuntime(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath, Version)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newConnector picks the session implementation named by the configuration.
func newConnector(cfg *config.Config) (database.Connector, string) {
	if cfg.Database.Driver == "sqlite" {
		c := database.NewSQLiteConnector(cfg.Database.SQLitePath)
		return c, c.DSN()
	}
	url := cfg.Database.ConnectionString()
	return database.NewPostgresConnector(database.PostgresConfig{
		URL:            url,
		MaxConnections: cfg.Database.MaxConnections,
	}), url
}

// managerOptions translates the retry settings. A configured retry_number of
// 0 disables retries, which the manager spells as a negative budget.
func managerOptions(cfg *config.Config, metrics *database.Metrics) database.Options {
	budget := cfg.Retry.RetryNumber
	if budget == 0 {
		budget = -1
	}
	return database.Options{
		RetryBudget:    budget,
		ReconnectWait:  cfg.Retry.ReconnectWait(),
		ConnectTimeout: cfg.Database.ConnectTimeout(),
		Metrics:        metrics,
	}
}

// openStore connects the manager with the configured retry policy.
func openStore(ctx context.Context, cfg *config.Config, metrics *database.Metrics, logger *zap.Logger) (*database.Manager, error) {
	connector, _ := newConnector(cfg)
	db, err := database.Connect(ctx, connector, managerOptions(cfg, metrics), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}
	return db, nil
}

// migrateStore applies the embedded schema for the configured driver.
func migrateStore(cfg *config.Config, logger *zap.Logger) error {
	connector, dsn := newConnector(cfg)
	sqlDB, err := database.OpenMigrationDB(connector.Dialect(), dsn)
	if err != nil {
		return err
	}
	return database.RunMigrations(sqlDB, connector.Dialect(), logger)
}
