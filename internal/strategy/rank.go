package strategy

import "SignalRank/internal/model"

// AssignRanks sets the competition ("min" method) rank on each record:
// rank = 1 + count of records with a strictly higher score. Tied scores
// share the lowest eligible rank.
func AssignRanks(records []model.ScoreRecord) {
	for i := range records {
		higher := 0
		for j := range records {
			if records[j].Score > records[i].Score {
				higher++
			}
		}
		records[i].Rank = higher + 1
	}
}
