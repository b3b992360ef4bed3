package backtest

import (
	"fmt"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"SignalRank/internal/model"
)

// Optimizer exhaustively searches buy/sell threshold pairs for the one with
// the greatest final net earning over a historical window.
type Optimizer struct {
	Budget  float64
	Workers int // <= 0 means GOMAXPROCS
}

// GridPairs enumerates the valid search space in order: m in [0,20],
// n in [-20,0], constraint m > n.
func GridPairs() []model.ThresholdPair {
	var out []model.ThresholdPair
	for m := 0; m <= 20; m++ {
		for n := -20; n <= 0; n++ {
			if m > n {
				out = append(out, model.ThresholdPair{M: m, N: n})
			}
		}
	}
	return out
}

// Best runs a full simulation for every valid pair and returns the one with
// the strictly greatest final net earning. Ties keep the earliest pair in
// grid order; results are collected per cell and reduced sequentially, so
// the parallel evaluation cannot change the selection.
func (o *Optimizer) Best(rows []model.DayRow) (model.ThresholdPair, float64, error) {
	pairs := GridPairs()
	earnings := make([]float64, len(pairs))

	workers := o.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			sim := &Simulator{Budget: o.Budget, Pair: pair}
			earnings[i] = FinalNetEarning(sim.Run(rows))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.ThresholdPair{}, 0, fmt.Errorf("grid search: %w", err)
	}

	best := 0
	for i := 1; i < len(pairs); i++ {
		if earnings[i] > earnings[best] {
			best = i
		}
	}

	log.Printf("[INFO] optimizer searched %d pairs, best m=%d n=%d net earning %.2f",
		len(pairs), pairs[best].M, pairs[best].N, earnings[best])
	return pairs[best], earnings[best], nil
}
