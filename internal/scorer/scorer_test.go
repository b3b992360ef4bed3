package scorer

import (
	"testing"
	"time"

	"SignalRank/internal/model"
	"SignalRank/internal/store"
)

func day(d int) time.Time {
	return time.Date(2023, 5, d, 0, 0, 0, 0, time.UTC)
}

func seedBars(t *testing.T, st store.Store, symbol string, start time.Time, closes ...float64) {
	t.Helper()
	bars := make([]model.Bar, 0, len(closes))
	for i, c := range closes {
		bars = append(bars, model.Bar{
			Date:   start.AddDate(0, 0, i),
			Symbol: symbol,
			Open:   c,
			High:   c + 0.1,
			Low:    c - 0.1,
			Close:  c,
			Volume: 1000,
		})
	}
	if err := st.SaveBars(bars); err != nil {
		t.Fatalf("seed bars: %v", err)
	}
}

func TestScorer_RunFromStartDate(t *testing.T) {
	st := store.NewMemoryStore()
	seedBars(t, st, "AAA", day(1), 100, 101, 102, 103, 104)
	seedBars(t, st, "BBB", day(1), 50, 49, 48, 47, 46)

	s := New(st, day(3))
	s.Now = func() time.Time { return day(5) }

	if err := s.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Days 3, 4 and 5 scored, both symbols each day.
	for d := 3; d <= 5; d++ {
		got, err := st.TopRanked(day(d), 10)
		if err != nil {
			t.Fatalf("top ranked day %d: %v", d, err)
		}
		if len(got) != 2 {
			t.Fatalf("day %d: expected 2 records, got %d", d, len(got))
		}
		for _, r := range got {
			if r.Rank < 1 || r.Rank > 2 {
				t.Errorf("day %d: rank out of range: %+v", d, r)
			}
			if r.Analysis == "" {
				t.Errorf("day %d: missing analysis for %s", d, r.Symbol)
			}
		}
	}
	if got, _ := st.TopRanked(day(2), 10); len(got) != 0 {
		t.Errorf("day 2 precedes the start date and must not be scored, got %d records", len(got))
	}
}

func TestScorer_ResumesAfterLastScoredDate(t *testing.T) {
	st := store.NewMemoryStore()
	seedBars(t, st, "AAA", day(1), 100, 101, 102, 103, 104)

	existing := []model.ScoreRecord{
		{Symbol: "AAA", Score: 7, Rank: 1, Analysis: "prior run", Timestamp: day(3)},
	}
	if err := st.SaveScores(existing); err != nil {
		t.Fatalf("seed scores: %v", err)
	}

	s := New(st, day(1))
	s.Now = func() time.Time { return day(5) }
	if err := s.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Days 1 and 2 stay unscored: the loop resumes from day 4.
	for d := 1; d <= 2; d++ {
		if got, _ := st.TopRanked(day(d), 10); len(got) != 0 {
			t.Errorf("day %d must not be backfilled, got %d records", d, len(got))
		}
	}
	// The prior run's record is untouched.
	got, _ := st.TopRanked(day(3), 10)
	if len(got) != 1 || got[0].Analysis != "prior run" {
		t.Errorf("day 3 record must survive resume: %+v", got)
	}
	for d := 4; d <= 5; d++ {
		if got, _ := st.TopRanked(day(d), 10); len(got) != 1 {
			t.Errorf("day %d: expected 1 record after resume, got %d", d, len(got))
		}
	}
}

func TestScorer_RerunIsIdempotent(t *testing.T) {
	st := store.NewMemoryStore()
	seedBars(t, st, "AAA", day(1), 100, 101, 102)

	s := New(st, day(1))
	s.Now = func() time.Time { return day(3) }
	if err := s.Run(); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, _ := st.TopRanked(day(3), 10)

	if err := s.Run(); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, _ := st.TopRanked(day(3), 10)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected single record per run, got %d and %d", len(first), len(second))
	}
	if first[0] != second[0] {
		t.Errorf("rerun changed a stored record: %+v vs %+v", first[0], second[0])
	}
}

func TestScorer_NoBarsNoRecords(t *testing.T) {
	st := store.NewMemoryStore()
	s := New(st, day(1))
	s.Now = func() time.Time { return day(3) }
	if err := s.Run(); err != nil {
		t.Fatalf("run on empty store: %v", err)
	}
	if _, ok, _ := st.MaxScoreDate(); ok {
		t.Error("no bar history must produce no score records")
	}
}

func TestScorer_RankingAcrossSymbols(t *testing.T) {
	st := store.NewMemoryStore()
	// AAA trends up, BBB trends down: AAA should outrank BBB.
	up := make([]float64, 60)
	down := make([]float64, 60)
	for i := range up {
		up[i] = float64(100 + i)
		down[i] = float64(160 - i)
	}
	seedBars(t, st, "AAA", day(1).AddDate(0, -2, 0), up...)
	seedBars(t, st, "BBB", day(1).AddDate(0, -2, 0), down...)

	s := New(st, day(1))
	s.Now = func() time.Time { return day(1) }
	if err := s.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := st.TopRanked(day(1), 10)
	if err != nil {
		t.Fatalf("top ranked: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Symbol != "AAA" || got[0].Rank != 1 {
		t.Errorf("uptrending symbol must rank first, got %+v", got[0])
	}
	if got[1].Score >= got[0].Score {
		t.Errorf("downtrending symbol must score lower: %d vs %d", got[1].Score, got[0].Score)
	}
}
