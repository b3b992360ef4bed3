package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"SignalRank/internal/backtest"
	"SignalRank/internal/collector"
	"SignalRank/internal/model"
	"SignalRank/internal/notifier"
	"SignalRank/internal/scorer"
	"SignalRank/internal/store"

	"github.com/robfig/cron/v3"
)

// Windows are the fixed historical ranges the optimizer trains on and the
// backtest evaluates on.
type Windows struct {
	TrainStart time.Time
	TrainEnd   time.Time
	TestStart  time.Time
	TestEnd    time.Time
}

// Scheduler manages the cron-driven daily pipeline and user commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Scorer    *scorer.Scorer
	Store     store.Store
	Notifier  *notifier.TelegramNotifier
	Budget    float64
	StateFile string
	Windows   Windows
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, sc *scorer.Scorer, st store.Store,
	tn *notifier.TelegramNotifier, budget float64, stateFile string, win Windows) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Scorer:    sc,
		Store:     st,
		Notifier:  tn,
		Budget:    budget,
		StateFile: stateFile,
		Windows:   win,
		Ctx:       ctx,
	}
}

// RegisterAll registers the daily scoring task.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunDailyNow executes the daily task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

// dailyTask ingests new bars, extends the score table through today and
// reports the day's top-ranked symbols.
func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily scoring task")
	s.Collector.IngestAll()

	if err := s.Scorer.Run(); err != nil {
		log.Printf("[ERROR] daily scoring: %v", err)
		s.trySend(fmt.Sprintf("❌ Daily scoring failed: %v", err))
		return
	}

	s.trySend(s.topReport())
}

func (s *Scheduler) topReport() string {
	date, ok, err := s.Store.MaxScoreDate()
	if err != nil || !ok {
		if err != nil {
			log.Printf("[ERROR] load latest score date: %v", err)
		}
		return "No scores stored yet."
	}
	records, err := s.Store.TopRanked(date, 10)
	if err != nil {
		log.Printf("[ERROR] load top ranked: %v", err)
		return fmt.Sprintf("❌ Loading ranks failed: %v", err)
	}
	return notifier.FormatDailyReport(date, records)
}

// runBacktest replays the evaluation window with the given thresholds and
// replaces the stored backtest results.
func (s *Scheduler) runBacktest(pair model.ThresholdPair) string {
	rows, err := s.Store.MergedRows(s.Windows.TestStart, s.Windows.TestEnd)
	if err != nil {
		log.Printf("[ERROR] load merged history: %v", err)
		return fmt.Sprintf("❌ Backtest failed: %v", err)
	}

	sim := &backtest.Simulator{Budget: s.Budget, Pair: pair}
	results := sim.Run(rows)

	if err := s.Store.ReplaceBacktestResults(results); err != nil {
		log.Printf("[ERROR] store backtest results: %v", err)
		return fmt.Sprintf("❌ Storing backtest results failed: %v", err)
	}
	log.Printf("[INFO] backtest m=%d n=%d over %d days", pair.M, pair.N, len(results))
	return notifier.FormatBacktestReport(pair, results)
}

// runOptimizer grid-searches the training window and persists the best pair.
func (s *Scheduler) runOptimizer() string {
	rows, err := s.Store.MergedRows(s.Windows.TrainStart, s.Windows.TrainEnd)
	if err != nil {
		log.Printf("[ERROR] load training history: %v", err)
		return fmt.Sprintf("❌ Optimization failed: %v", err)
	}

	opt := &backtest.Optimizer{Budget: s.Budget}
	pair, netEarning, err := opt.Best(rows)
	if err != nil {
		log.Printf("[ERROR] optimizer: %v", err)
		return fmt.Sprintf("❌ Optimization failed: %v", err)
	}

	if err := backtest.SaveBestThresholds(s.StateFile, &backtest.BestThresholds{
		Pair:       pair,
		NetEarning: netEarning,
	}); err != nil {
		log.Printf("[ERROR] save best thresholds: %v", err)
	}
	return notifier.FormatOptimizerReport(pair, netEarning)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/score":
		go s.dailyTask()
		return "Daily scoring started."
	case "/top":
		return s.topReport()
	case "/backtest":
		state, err := backtest.LoadBestThresholds(s.StateFile)
		if err != nil {
			log.Printf("[ERROR] load best thresholds: %v", err)
			return fmt.Sprintf("❌ Loading thresholds failed: %v", err)
		}
		return s.runBacktest(state.Pair)
	case "/optimize":
		return s.runOptimizer()
	default:
		return "Commands:\n• /score — run scoring now\n• /top — today's ranking\n• /backtest — replay tuned thresholds\n• /optimize — search threshold grid"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
