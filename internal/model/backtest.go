package model

import "time"

// DayRow is one merged price+score row the simulator consumes.
type DayRow struct {
	Date   time.Time
	Symbol string
	Close  float64
	Score  int
}

// ThresholdPair holds the buy/sell score thresholds for one backtest run.
// Invariant: M > N.
type ThresholdPair struct {
	M int `json:"m"`
	N int `json:"n"`
}

// BacktestDayResult is one simulated trading day's outcome.
type BacktestDayResult struct {
	Date            time.Time
	InvestedSymbols []string
	TotalInvestment float64
	TotalEarning    float64
	NetEarning      float64
	ReturnRate      float64
	DailyNetEarning float64
}
