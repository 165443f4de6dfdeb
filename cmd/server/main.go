package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"

	"github.com/matthewbaird/sheetforge/internal/artifact"
	"github.com/matthewbaird/sheetforge/internal/config"
	"github.com/matthewbaird/sheetforge/internal/progress"
	"github.com/matthewbaird/sheetforge/internal/runtime"
	"github.com/matthewbaird/sheetforge/internal/server"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	db, err := sql.Open("sqlite", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	store, err := runtime.NewSQLiteStore(ctx, db)
	if err != nil {
		log.Fatalf("preparing record store: %v", err)
	}

	bus := progress.New(256)
	bus.Subscribe("log", progress.NewLogConsumer())
	bus.Start(ctx)

	srv, err := server.New(cfg, store, artifact.NewFSStore(cfg.OutputDir), bus)
	if err != nil {
		log.Fatalf("assembling server: %v", err)
	}
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
