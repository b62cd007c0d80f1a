package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/database"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/logger"
	"trading-journal-go/internal/remote"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Open the journal database. The demo seed is injected here so a fresh
	// journal has something to show before any trade is recorded or synced.
	seed := database.DefaultSeed(cfg.Journal.Currency, cfg.Journal.Timezone)
	db, err := database.NewDatabase(cfg.Database.DSN, seed)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}

	repo := journal.NewRepository(db, log)

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start the background feed sync when a remote source is configured.
	if cfg.Remote.Enabled {
		feedClient := remote.NewFeedClient(&cfg.Remote, log)
		resolver := remote.NewResolver(feedClient, repo, log)
		syncer := journal.NewSyncer(log, resolver, repo,
			time.Duration(cfg.Remote.SyncInterval)*time.Second)
		go syncer.Run(ctx)
	} else {
		log.Info("Remote feed disabled, serving local trades only")
	}

	// Setup HTTP server
	mux := http.NewServeMux()

	apiHandler := NewAPIHandler(log, repo)

	// API endpoints
	mux.HandleFunc("/api/health", apiHandler.HealthHandler)
	mux.HandleFunc("/api/trades", apiHandler.TradesHandler)
	mux.HandleFunc("/api/trades/session", apiHandler.AttachSessionHandler)
	mux.HandleFunc("/api/summary", apiHandler.SummaryHandler)
	mux.HandleFunc("/api/equity", apiHandler.EquityHandler)
	mux.HandleFunc("/api/daily", apiHandler.DailyHandler)
	mux.HandleFunc("/api/metrics", apiHandler.MetricsHandler)
	mux.HandleFunc("/api/sessions", apiHandler.SessionsHandler)
	mux.HandleFunc("/api/symbols", apiHandler.SymbolsHandler)
	mux.HandleFunc("/api/settings", apiHandler.SettingsHandler)
	mux.HandleFunc("/api/export/trades.csv", apiHandler.ExportTradesHandler)

	// Static file serving for CSS, JS, etc.
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))

	// HTML template serving
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/templates/index.html")
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Starting web server", zap.String("address", addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Web server failed", zap.Error(err))
	}

	log.Info("Journal has been shut down.")
}
