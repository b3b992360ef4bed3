package scorer

import (
	"fmt"
	"log"
	"time"

	"SignalRank/internal/model"
	"SignalRank/internal/store"
	"SignalRank/internal/strategy"
)

// Scorer runs the daily ensemble scoring loop, extending the score table
// forward from the last stored timestamp.
type Scorer struct {
	Store     store.Store
	StartDate time.Time
	Now       func() time.Time // injectable clock for tests
}

// New creates a Scorer starting from startDate when the score table is empty.
func New(st store.Store, startDate time.Time) *Scorer {
	return &Scorer{Store: st, StartDate: startDate, Now: time.Now}
}

// Run scores every calendar day from the resume point through today. Each
// date is processed exactly once; re-running an already stored date is a
// no-op thanks to insert-or-ignore persistence. Only store errors are fatal.
func (s *Scorer) Run() error {
	current := s.StartDate
	if max, ok, err := s.Store.MaxScoreDate(); err != nil {
		return fmt.Errorf("resolve resume date: %w", err)
	} else if ok {
		current = max.AddDate(0, 0, 1)
	}

	today := truncateToDay(s.Now())
	for !current.After(today) {
		if err := s.ScoreDate(current); err != nil {
			return fmt.Errorf("score %s: %w", current.Format(model.DateLayout), err)
		}
		current = current.AddDate(0, 0, 1)
	}
	return nil
}

// ScoreDate evaluates the full ensemble for every symbol with bar history at
// or before the given date, ranks the results and persists them. Dates with
// no bar history produce no records.
func (s *Scorer) ScoreDate(date time.Time) error {
	bars, err := s.Store.BarsThrough(date)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	if len(bars) == 0 {
		return nil
	}

	records := make([]model.ScoreRecord, 0)
	for _, series := range groupBySymbol(bars) {
		if len(series) == 0 {
			continue
		}
		res := strategy.Evaluate(series[0].Symbol, series)
		records = append(records, model.ScoreRecord{
			Symbol:    res.Symbol,
			Score:     res.Score,
			Analysis:  res.Analysis,
			Timestamp: date,
		})
	}

	strategy.AssignRanks(records)

	if err := s.Store.SaveScores(records); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	log.Printf("[INFO] scored %d symbols for %s", len(records), date.Format(model.DateLayout))
	return nil
}

// groupBySymbol splits bars (ordered by symbol, then date) into per-symbol
// series, preserving symbol order.
func groupBySymbol(bars []model.Bar) []model.BarSeries {
	var out []model.BarSeries
	var cur model.BarSeries
	for _, b := range bars {
		if len(cur) > 0 && cur[0].Symbol != b.Symbol {
			out = append(out, cur)
			cur = nil
		}
		cur = append(cur, b)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
