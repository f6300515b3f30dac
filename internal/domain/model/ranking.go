package model

import (
	"time"

	"github.com/okian/pacpong/internal/domain/types"
)

// RankingTable is the publishable result of one ranking run. All slices are
// ordered by descending score; Dominance uses the same order on both axes.
type RankingTable struct {
	// Players lists player names, best first.
	Players []string
	// Dominance[i][j] is the probability-like strength of Players[i] over Players[j].
	Dominance [][]float64
	// Scores holds each player's principal eigenvector component.
	Scores []float64
	// ReferenceDate is the day decay was measured against.
	ReferenceDate time.Time
}

// Len returns the number of ranked players.
func (t *RankingTable) Len() int { return len(t.Players) }

// Standings flattens the table into rank order.
func (t *RankingTable) Standings() []types.Standing {
	out := make([]types.Standing, len(t.Players))
	for i, p := range t.Players {
		out[i] = types.Standing{Rank: i + 1, Player: p, Score: t.Scores[i]}
	}
	return out
}
