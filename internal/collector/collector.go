package collector

import (
	"log"
	"time"

	"SignalRank/internal/model"
	"SignalRank/internal/store"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars map[string][]model.Bar
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(symbol string, start, end time.Time) ([]model.Bar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []model.Bar
	for _, b := range m.Bars[symbol] {
		if !b.Date.Before(start) && !b.Date.After(end) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Collector incrementally ingests daily bars for a fixed symbol universe.
type Collector struct {
	Fetcher     Fetcher
	Store       store.Store
	Symbols     []string
	HistoryDays int
	Now         func() time.Time // injectable clock for tests
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, st store.Store, symbols []string, historyDays int) *Collector {
	return &Collector{
		Fetcher:     fetcher,
		Store:       st,
		Symbols:     symbols,
		HistoryDays: historyDays,
		Now:         time.Now,
	}
}

// IngestAll extends each symbol's bar history forward from its last stored
// date (or the initial history window for new symbols). A failed symbol is
// logged and skipped; it never aborts the batch.
func (c *Collector) IngestAll() {
	end := c.Now()
	for _, symbol := range c.Symbols {
		start, err := c.resumeDate(symbol, end)
		if err != nil {
			log.Printf("[ERROR] resolve resume date for %s: %v", symbol, err)
			continue
		}
		if start.After(end) {
			continue
		}

		bars, err := c.Fetcher.FetchDailyBars(symbol, start, end)
		if err != nil {
			log.Printf("[ERROR] fetch %s: %v", symbol, err)
			continue
		}
		if len(bars) == 0 {
			continue
		}
		if err := c.Store.SaveBars(bars); err != nil {
			log.Printf("[ERROR] save bars for %s: %v", symbol, err)
			continue
		}
		log.Printf("[INFO] ingested %d bars for %s (%s..%s)", len(bars), symbol,
			bars[0].Date.Format(model.DateLayout), bars[len(bars)-1].Date.Format(model.DateLayout))
	}
}

func (c *Collector) resumeDate(symbol string, now time.Time) (time.Time, error) {
	max, ok, err := c.Store.MaxBarDate(symbol)
	if err != nil {
		return time.Time{}, err
	}
	if ok {
		return max.AddDate(0, 0, 1), nil
	}
	return now.AddDate(0, 0, -c.HistoryDays), nil
}
