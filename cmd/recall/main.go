package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/recall/internal/api"
	"github.com/conorfennell/recall/internal/config"
	"github.com/conorfennell/recall/internal/importer"
	"github.com/conorfennell/recall/internal/logger"
	"github.com/conorfennell/recall/internal/present"
	"github.com/conorfennell/recall/internal/storage"
	"github.com/conorfennell/recall/internal/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "recall:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// 1. Define and parse command-line flags
	fs := pflag.NewFlagSet("recall", pflag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML configuration file")
	importSource := fs.String("import-source", "", "Import markdown cards from a directory or git URL, then exit")
	importDeck := fs.Int64("import-deck", 0, "Deck to import cards into")
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to the flashcard API
	zone, err := time.LoadLocation(cfg.API.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load API time zone: %w", err)
	}
	client, err := api.New(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout, log, api.WithZone(zone))
	if err != nil {
		return err
	}

	if *importSource != "" {
		return runImport(ctx, client, cfg, *importSource, *importDeck, log)
	}

	// 3. Open the review journal
	db, err := storage.Open(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer db.Close()
	log.Info("Journal opened", "path", cfg.Journal.Path)

	// 4. Serve the web UI
	presenter := present.NewPresenter(present.LookupLocale(cfg.Locale), nil)
	srv, err := web.NewServer(client, db, presenter, log, web.WithSessionTTL(cfg.Server.SessionTTL))
	if err != nil {
		return err
	}
	go srv.ExpireSessions(ctx, time.Minute)
	return serve(ctx, cfg.Server.Listen, srv, log)
}

func runImport(ctx context.Context, client *api.Client, cfg *config.Config, source string, deckID int64, log *slog.Logger) error {
	if deckID <= 0 {
		return errors.New("--import-deck is required with --import-source")
	}
	report, err := importer.New(client, cfg.Import.ReposDir, cfg.Import.Concurrency, log).Import(ctx, source, deckID)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d cards in %d files: %d created, %d skipped, %d errors.\n",
		report.Parsed, report.Files, report.Created, report.Skipped, len(report.Errors))
	if len(report.Errors) > 0 {
		fmt.Println("\nErrors:")
		for _, e := range report.Errors {
			fmt.Printf("- %s\n", e)
		}
	}
	return nil
}

func serve(ctx context.Context, addr string, h http.Handler, log *slog.Logger) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
