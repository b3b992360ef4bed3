package store

import (
	"sort"
	"sync"
	"time"

	"SignalRank/internal/model"
)

// MemoryStore is an in-memory Store used by tests and as the fallback when
// SQLite cannot be opened.
type MemoryStore struct {
	mu       sync.Mutex
	bars     map[string]model.Bar         // "date|symbol" -> bar
	scores   map[string]model.ScoreRecord // "date|symbol" -> record
	backtest []model.BacktestDayResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bars:   make(map[string]model.Bar),
		scores: make(map[string]model.ScoreRecord),
	}
}

func key(date time.Time, symbol string) string {
	return date.Format(model.DateLayout) + "|" + symbol
}

func (m *MemoryStore) SaveBars(bars []model.Bar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range bars {
		k := key(b.Date, b.Symbol)
		if _, exists := m.bars[k]; !exists {
			m.bars[k] = b
		}
	}
	return nil
}

func (m *MemoryStore) MaxBarDate(symbol string) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var max time.Time
	found := false
	for _, b := range m.bars {
		if b.Symbol == symbol && (!found || b.Date.After(max)) {
			max = b.Date
			found = true
		}
	}
	return max, found, nil
}

func (m *MemoryStore) BarsThrough(cutoff time.Time) ([]model.Bar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Bar
	for _, b := range m.bars {
		if !b.Date.After(cutoff) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (m *MemoryStore) SaveScores(records []model.ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		k := key(r.Timestamp, r.Symbol)
		if _, exists := m.scores[k]; !exists {
			m.scores[k] = r
		}
	}
	return nil
}

func (m *MemoryStore) MaxScoreDate() (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var max time.Time
	found := false
	for _, r := range m.scores {
		if !found || r.Timestamp.After(max) {
			max = r.Timestamp
			found = true
		}
	}
	return max, found, nil
}

func (m *MemoryStore) TopRanked(date time.Time, limit int) ([]model.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ScoreRecord
	for _, r := range m.scores {
		if r.Timestamp.Equal(date) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].Symbol < out[j].Symbol
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) MergedRows(start, end time.Time) ([]model.DayRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.DayRow
	for k, r := range m.scores {
		if r.Timestamp.Before(start) || r.Timestamp.After(end) {
			continue
		}
		b, ok := m.bars[k]
		if !ok {
			continue
		}
		out = append(out, model.DayRow{Date: r.Timestamp, Symbol: r.Symbol, Close: b.Close, Score: r.Score})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out, nil
}

func (m *MemoryStore) ReplaceBacktestResults(results []model.BacktestDayResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backtest = append([]model.BacktestDayResult(nil), results...)
	return nil
}

// BacktestResults returns the last stored run, for tests.
func (m *MemoryStore) BacktestResults() []model.BacktestDayResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.BacktestDayResult(nil), m.backtest...)
}

func (m *MemoryStore) Close() error { return nil }
