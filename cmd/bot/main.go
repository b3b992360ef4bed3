package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SignalRank/internal/collector"
	"SignalRank/internal/config"
	"SignalRank/internal/model"
	"SignalRank/internal/notifier"
	"SignalRank/internal/scheduler"
	"SignalRank/internal/scorer"
	"SignalRank/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] SignalRank starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init store
	var st store.Store
	if s, err := store.NewSQLiteStore(cfg.Database.SQLitePath); err != nil {
		log.Printf("[WARN] init sqlite store failed, using in-memory store: %v", err)
		st = store.NewMemoryStore()
	} else {
		st = s
		defer s.Close()
	}

	// Init collector
	fetcher := collector.NewYahooFetcher(cfg.Proxy)
	log.Printf("[INFO] data source: %s, %d symbols", fetcher.Name(), len(cfg.DataSource.Symbols))
	col := collector.NewCollector(fetcher, st, cfg.DataSource.Symbols, cfg.DataSource.HistoryDays)

	// Init scorer
	startDate := mustParseDate(cfg.Scoring.StartDate, "scoring.start_date")
	sc := scorer.New(st, startDate)

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	windows := scheduler.Windows{
		TrainStart: mustParseDate(cfg.Backtest.TrainStart, "backtest.train_start"),
		TrainEnd:   mustParseDate(cfg.Backtest.TrainEnd, "backtest.train_end"),
		TestStart:  mustParseDate(cfg.Backtest.TestStart, "backtest.test_start"),
		TestEnd:    mustParseDate(cfg.Backtest.TestEnd, "backtest.test_end"),
	}
	sched := scheduler.NewScheduler(ctx, col, sc, st, tn, cfg.Backtest.Budget, cfg.Backtest.StateFile, windows)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing daily task now")
		go sched.RunDailyNow()
	}

	log.Println("[INFO] SignalRank is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] SignalRank stopped")
}

func mustParseDate(v, field string) time.Time {
	t, err := time.Parse(model.DateLayout, v)
	if err != nil {
		log.Fatalf("[FATAL] parse %s %q: %v", field, v, err)
	}
	return t
}
