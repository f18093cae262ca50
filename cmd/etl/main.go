package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hearthdata/housing-etl/internal/api"
	"github.com/hearthdata/housing-etl/internal/config"
	"github.com/hearthdata/housing-etl/internal/database"
	"github.com/hearthdata/housing-etl/internal/geo"
	"github.com/hearthdata/housing-etl/internal/pipeline"
	"github.com/hearthdata/housing-etl/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/etl.local.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	// Set up structured logging
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting housing ETL",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"api_url", cfg.API.BaseURL,
		"counties", len(cfg.Counties),
		"retention_months", cfg.Windows.RetentionWindow,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load the hex layer before touching the network; a bad file should
	// fail the run immediately.
	hexes, err := geo.Load(cfg.Geo.HexFile)
	if err != nil {
		logger.Error("failed to load hex layer", "error", err, "path", cfg.Geo.HexFile)
		os.Exit(1)
	}
	logger.Info("hex layer loaded", "cells", hexes.Len())

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	store := database.NewSalesStore(pool, logger)

	summary, err := pipeline.New(cfg, apiClient, store, hexes, logger).Run(ctx)
	if err != nil {
		logger.Error("ETL run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ETL run finished",
		"run_id", summary.RunID.String(),
		"listings", summary.Listings,
		"sales", summary.Sales,
		"sales_net_change", summary.Reconciliation.NetChange(),
	)
}
