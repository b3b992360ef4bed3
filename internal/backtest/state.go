package backtest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"SignalRank/internal/model"
)

// BestThresholds is the persisted optimizer outcome, replayed by backtest
// runs that do not specify their own pair.
type BestThresholds struct {
	Pair       model.ThresholdPair `json:"thresholds"`
	NetEarning float64             `json:"net_earning"`
	TrainedAt  time.Time           `json:"trained_at"`
}

// DefaultThresholds is used before any optimizer run has been saved.
var DefaultThresholds = model.ThresholdPair{M: 2, N: -20}

// LoadBestThresholds reads the saved optimizer result from a JSON file.
// Returns the default pair if the file doesn't exist.
func LoadBestThresholds(filePath string) (*BestThresholds, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &BestThresholds{Pair: DefaultThresholds}, nil
		}
		return nil, err
	}
	var state BestThresholds
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SaveBestThresholds writes the optimizer result to a JSON file.
func SaveBestThresholds(filePath string, state *BestThresholds) error {
	state.TrainedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
