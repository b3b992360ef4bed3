package collector

import (
	"time"

	"SignalRank/internal/model"
)

// Fetcher retrieves daily OHLCV history for one symbol.
type Fetcher interface {
	FetchDailyBars(symbol string, start, end time.Time) ([]model.Bar, error)
	Name() string
}
