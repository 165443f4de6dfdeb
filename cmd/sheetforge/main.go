// cmd/sheetforge is the scaffolding CLI. `generate` runs the engine
// against a schema workbook and writes artifacts to the output directory;
// `serve` starts the admin API server that does the same over HTTP and
// mounts the generated routes.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/sheetforge/internal/artifact"
	"github.com/matthewbaird/sheetforge/internal/config"
	"github.com/matthewbaird/sheetforge/internal/gen"
	"github.com/matthewbaird/sheetforge/internal/ingest"
	"github.com/matthewbaird/sheetforge/internal/progress"
	"github.com/matthewbaird/sheetforge/internal/runtime"
	"github.com/matthewbaird/sheetforge/internal/schema"
	"github.com/matthewbaird/sheetforge/internal/server"

	_ "modernc.org/sqlite"
)

var (
	outputDir string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "sheetforge",
	Short: "Generate a CRUD admin surface from a schema workbook",
	Long: `Sheetforge reads entity definitions from an xlsx workbook (one sheet
per entity, one row per field) and generates persistence schemas, CRUD
operations, routes, UI descriptors and, when an authusers sheet is
present, a login subsystem.`,
}

var generateCmd = &cobra.Command{
	Use:   "generate <workbook.xlsx|schema.json>",
	Short: "Run the generation engine against a schema file",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	generateCmd.Flags().StringVarP(&outputDir, "out", "o", config.DefaultOutputDir, "Artifact output directory")
	generateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every emitted and skipped artifact")
	rootCmd.AddCommand(generateCmd, serveCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	entities, err := loadSchemaFile(args[0])
	if err != nil {
		return err
	}

	runner := gen.NewRunner(artifact.NewFSStore(outputDir))
	if verbose {
		runner.Emit = printEvent
	}
	report, err := runner.Run(entities)
	if err != nil {
		return err
	}

	for _, warning := range report.Warnings {
		log.Printf("warning: %s", warning)
	}
	log.Printf("generated %d artifacts, skipped %d, in %s", report.Processed, report.Skipped, report.Duration)
	return nil
}

func loadSchemaFile(path string) ([]schema.Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening schema file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ingest.ParseJSON(f)
	}
	return ingest.ParseWorkbook(f)
}

func printEvent(ev gen.Event) {
	switch ev.Stage {
	case gen.StageEmitted:
		log.Printf("  wrote %s", ev.Artifact)
	case gen.StageSkipped:
		log.Printf("  skip  %s (exists)", ev.Artifact)
	case gen.StageWarn:
		log.Printf("  warn  %s: %s", ev.Entity, ev.Message)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	store, err := runtime.NewSQLiteStore(ctx, db)
	if err != nil {
		return fmt.Errorf("preparing record store: %w", err)
	}

	bus := progress.New(256)
	bus.Subscribe("log", progress.NewLogConsumer())
	bus.Start(ctx)

	srv, err := server.New(cfg, store, artifact.NewFSStore(cfg.OutputDir), bus)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
