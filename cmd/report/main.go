package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"trading-journal-go/internal/analytics"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/database"
	"trading-journal-go/internal/export"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/logger"
)

func main() {
	configPath := flag.String("config", "./configs", "directory containing config.yml")
	month := flag.String("month", "", "month token to report on, e.g. Dec25 (default: all trades)")
	exitsOnly := flag.Bool("exits-only", false, "only count trades with a recorded exit")
	csvPath := flag.String("csv", "", "also write the trade list as CSV to this path")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	seed := database.DefaultSeed(cfg.Journal.Currency, cfg.Journal.Timezone)
	db, err := database.NewDatabase(cfg.Database.DSN, seed)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}

	repo := journal.NewRepository(db, log)

	trades, err := repo.ListTrades()
	if err != nil {
		log.Fatal("Failed to load trades", zap.Error(err))
	}

	scope := "all months"
	if *month != "" {
		trades = analytics.FilterTrades(trades, *month, *exitsOnly)
		scope = *month
	}

	settings, err := repo.GetSettings()
	if err != nil {
		log.Fatal("Failed to load settings", zap.Error(err))
	}

	stats := analytics.Summarize(trades)
	fmt.Printf("Journal report (%s)\n", scope)
	fmt.Printf("  Trades:       %d\n", stats.TotalTrades)
	fmt.Printf("  Net P&L:      %.2f %s\n", stats.Net, settings.Currency)
	fmt.Printf("  Win rate:     %.1f%%\n", stats.WinRate)
	fmt.Printf("  Avg win:      %.2f %s\n", stats.AvgWin, settings.Currency)
	fmt.Printf("  Avg loss:     %.2f %s\n", stats.AvgLoss, settings.Currency)
	fmt.Printf("  Max drawdown: %.2f %s\n", stats.Drawdown, settings.Currency)

	metrics, err := analytics.ReportingMetrics(trades)
	switch {
	case errors.Is(err, analytics.ErrNoTrades):
		fmt.Println("  No trades in scope; skipping portfolio metrics.")
	case err != nil:
		log.Fatal("Failed to calculate metrics", zap.Error(err))
	default:
		fmt.Printf("  Profit factor: %.2f\n", metrics.ProfitFactor)
		fmt.Printf("  Expectancy:    %.2f %s\n", metrics.Expectancy, settings.Currency)
		fmt.Printf("  Best trade:    %.2f %s\n", metrics.Best, settings.Currency)
		fmt.Printf("  Worst trade:   %.2f %s\n", metrics.Worst, settings.Currency)
	}

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			log.Fatal("Failed to create CSV file", zap.Error(err))
		}
		defer f.Close()
		if err := export.WriteTrades(f, trades); err != nil {
			log.Fatal("Failed to write CSV file", zap.Error(err))
		}
		log.Info("Wrote trade export", zap.String("path", *csvPath), zap.Int("trades", len(trades)))
	}
}
