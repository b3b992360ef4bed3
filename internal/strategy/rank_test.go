package strategy

import (
	"testing"

	"SignalRank/internal/model"
)

func TestAssignRanks_MinMethod(t *testing.T) {
	records := []model.ScoreRecord{
		{Symbol: "A", Score: 5},
		{Symbol: "B", Score: 5},
		{Symbol: "C", Score: 3},
		{Symbol: "D", Score: -2},
	}
	AssignRanks(records)

	// Tied scores share the lowest eligible rank; the next distinct score's
	// rank is the count of strictly higher scores plus one.
	want := map[string]int{"A": 1, "B": 1, "C": 3, "D": 4}
	for _, r := range records {
		if r.Rank != want[r.Symbol] {
			t.Errorf("%s: expected rank %d, got %d", r.Symbol, want[r.Symbol], r.Rank)
		}
	}
}

func TestAssignRanks_AllTied(t *testing.T) {
	records := []model.ScoreRecord{
		{Symbol: "A", Score: 0},
		{Symbol: "B", Score: 0},
		{Symbol: "C", Score: 0},
	}
	AssignRanks(records)
	for _, r := range records {
		if r.Rank != 1 {
			t.Errorf("%s: expected rank 1, got %d", r.Symbol, r.Rank)
		}
	}
}
