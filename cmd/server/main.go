/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the verse engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load environment config, parse command-line flags
  2. Build the storage tier chain (SQLite -> data file -> cache file
     -> memory)
  3. Run the startup orchestrator (seed, prune, notifications)
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: env PORT or 8080)
  -db      SQLite database path; ":memory:" for in-memory
  -assets  Directory with seed.json and attached workbooks
  -data    File-tier directory (default: XDG data home)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the prune scheduler, close the database
  4. Exit

SEE ALSO:
  - api/server.go: router configuration
  - app/startup.go: the startup chain
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/grace/verse-engine/api"
	"github.com/grace/verse-engine/app"
	"github.com/grace/verse-engine/config"
	"github.com/grace/verse-engine/store"
	"github.com/grace/verse-engine/store/sqlite"
)

func main() {
	cfg := config.Load()

	// Flags override the environment.
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	assetDir := flag.String("assets", cfg.AssetDir, "bootstrap asset directory")
	dataDir := flag.String("data", cfg.DataDir, "file-tier directory (empty: XDG data home)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// Storage tiers, strongest first. A tier that cannot come up is
	// skipped with a warning; the chain below it still serves.
	var tiers []store.Tier
	sqliteTier, err := sqlite.New(*dbPath)
	if err != nil {
		sugar.Warnw("sqlite tier unavailable", "path", *dbPath, "error", err)
	} else {
		defer sqliteTier.Close()
		tiers = append(tiers, sqliteTier)
	}
	if *dataDir != "" {
		tiers = append(tiers, store.NewFile("data-file", *dataDir))
	} else {
		tiers = append(tiers, store.NewDataFile())
	}
	tiers = append(tiers, store.NewCacheFile(), store.NewMemory())

	st := store.New(sugar, tiers...)
	cleaner := app.NewCleaner(st, sugar)

	orchestrator := &app.Orchestrator{
		Store:   st,
		Assets:  app.DirAssets{Dir: *assetDir},
		Cleaner: cleaner,
		Log:     sugar,
	}
	result := orchestrator.Run(context.Background())
	for step, err := range result.Failed {
		sugar.Warnw("degraded startup step", "step", step, "error", err)
	}

	handler := api.NewHandler(st, cleaner, sugar)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("server starting", "addr", server.Addr, "startRoute", result.StartRoute)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Infow("shutting down")
	cleaner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		sugar.Fatalw("forced shutdown", "error", err)
	}
	sugar.Infow("server stopped")
}
