package model

import "time"

// Signal is a single indicator's directional vote.
type Signal struct {
	Direction   int // -1 bearish, 0 neutral, 1 bullish
	Explanation string
}

// ScoreRecord is the persisted ensemble result for one symbol on one date.
// Unique per (Symbol, Timestamp); immutable once stored.
type ScoreRecord struct {
	Symbol    string
	Score     int
	Rank      int
	Analysis  string
	Timestamp time.Time
}
