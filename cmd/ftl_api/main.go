// API server entry point: REST endpoints for roster parsing and compliance
// checks, optional NATS ingest, and the storage backends behind both.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ftl_checker/internal/api"
	"ftl_checker/internal/compliance"
	"ftl_checker/internal/config"
	"ftl_checker/internal/ingest"
	_ "ftl_checker/internal/parsers" // register all roster parsers via init()
	"ftl_checker/internal/parsers/flightboard"
	"ftl_checker/internal/registry"
	"ftl_checker/internal/storage"
	"ftl_checker/pkg/logger"
)

func main() {
	cfgPath := flag.String("config", "", "TOML config file")
	noIngest := flag.Bool("no-ingest", false, "Disable the NATS roster subscription")
	noStore := flag.Bool("no-store", false, "Run without PostgreSQL and ClickHouse")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	registry.Default().Sort()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	archive, err := storage.Open(cfg.Storage.SQLitePath)
	if err != nil {
		log.Error("open roster archive", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = archive.Close() }()

	var store *storage.Store
	if !*noStore {
		store, err = storage.OpenStore(ctx, cfg.StorageConfigFor())
		if err != nil {
			log.Error("open databases", logger.Error(err))
			os.Exit(1)
		}
		defer func() { _ = store.Close() }()

		if err := store.CreateSchemas(ctx); err != nil {
			log.Error("create schemas", logger.Error(err))
			os.Exit(1)
		}
	}

	if !*noIngest {
		ing := ingest.New(registry.Default(), archive, store, log)
		go func() {
			if err := ing.Run(ctx, cfg.NATS.URL, cfg.NATS.Subject); err != nil {
				log.Error("ingest stopped", logger.Error(err))
			}
		}()
	}

	engine := compliance.NewEngine(cfg.Limits)
	server := api.NewServer(registry.Default(), engine, &flightboard.Parser{}, archive, store, log, api.Config{
		Addr:     cfg.Server.Addr,
		Language: cfg.Language,
	})
	if err := server.Run(); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}
