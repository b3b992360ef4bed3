package store

import (
	"time"

	"SignalRank/internal/model"
)

// Store persists bars, ensemble scores and backtest results.
// Scores are insert-or-ignore on (symbol, timestamp); backtest results are
// replaced wholesale on every run.
type Store interface {
	// SaveBars upserts daily bars, ignoring rows already present.
	SaveBars(bars []model.Bar) error
	// MaxBarDate returns the latest stored bar date for a symbol.
	// ok is false when no bars exist for the symbol.
	MaxBarDate(symbol string) (t time.Time, ok bool, err error)
	// BarsThrough returns all bars with date <= cutoff, ordered by symbol
	// then date.
	BarsThrough(cutoff time.Time) ([]model.Bar, error)

	// SaveScores inserts score records, silently ignoring duplicates.
	SaveScores(records []model.ScoreRecord) error
	// MaxScoreDate returns the latest stored score timestamp.
	// ok is false when the score table is empty.
	MaxScoreDate() (t time.Time, ok bool, err error)
	// TopRanked returns the best-ranked records for a date.
	TopRanked(date time.Time, limit int) ([]model.ScoreRecord, error)

	// MergedRows joins bars and scores on (date, symbol) for scores within
	// [start, end], ordered by date then symbol.
	MergedRows(start, end time.Time) ([]model.DayRow, error)

	// ReplaceBacktestResults discards all prior backtest rows and writes the
	// given run's day series.
	ReplaceBacktestResults(results []model.BacktestDayResult) error

	Close() error
}
