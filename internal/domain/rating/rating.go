// Package rating turns a log of head-to-head match results into a ranking.
//
// Each run is a pipeline of pure steps: player discovery, decay-weighted
// score accumulation, the dominance matrix and its principal eigenvector,
// and finally a table sorted by that eigenvector.
package rating

import (
	"fmt"
	"sort"
	"time"

	"github.com/okian/pacpong/internal/domain/model"
)

// Default rating configuration constants.
const (
	defaultDecayDays      = 28
	defaultNotPlayedScore = neutral
	minPlayers            = 2
)

// Engine computes rankings. It holds configuration only and is safe to
// reuse across runs.
type Engine struct {
	decayDays      int
	notPlayedScore float64
}

// NewEngine creates an Engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		decayDays:      defaultDecayDays,
		notPlayedScore: defaultNotPlayedScore,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DecayDays returns the configured decay window.
func (e *Engine) DecayDays() int { return e.decayDays }

// Players is the discovered player set. Index maps a name to its position
// in Names, which is first-appearance order.
type Players struct {
	Names []string
	Index map[string]int
}

// Accumulated holds decay-weighted score totals. Points[i][j] is what i
// scored against j; Played[i][j] is set once a match between i and j with
// non-zero weight was seen. Fully decayed matches leave a pair unplayed.
type Accumulated struct {
	Points [][]float64
	Played [][]bool
}

// Result carries the intermediate values of one run next to the table.
type Result struct {
	Table *model.RankingTable
	// Eigenvalue is the dominant eigenvalue the scores belong to.
	Eigenvalue float64
	// Matches is the number of records that went into the run.
	Matches int
}

// Compute ranks the players in records as of the reference date.
func (e *Engine) Compute(records []model.MatchRecord, reference time.Time) (*model.RankingTable, error) {
	res, err := e.Run(records, reference)
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}

// Run is Compute with the run diagnostics kept.
func (e *Engine) Run(records []model.MatchRecord, reference time.Time) (*Result, error) {
	for i, r := range records {
		if err := r.Validate(i + 1); err != nil {
			return nil, err
		}
	}

	players := DiscoverPlayers(records)
	if len(players.Names) < minPlayers {
		return nil, fmt.Errorf("%w: found %d players, need at least %d", ErrInsufficientData, len(players.Names), minPlayers)
	}

	acc := e.Accumulate(records, players, reference)
	a := e.Matrix(acc)

	scores, lambda, err := PrincipalEigenvector(a)
	if err != nil {
		return nil, err
	}

	return &Result{
		Table:      BuildTable(players, a, scores, model.CalendarDate(reference)),
		Eigenvalue: lambda,
		Matches:    len(records),
	}, nil
}

// DiscoverPlayers collects distinct player names, home before away, in the
// order they first appear.
func DiscoverPlayers(records []model.MatchRecord) Players {
	p := Players{Index: make(map[string]int)}
	add := func(name string) {
		if _, ok := p.Index[name]; !ok {
			p.Index[name] = len(p.Names)
			p.Names = append(p.Names, name)
		}
	}
	for _, r := range records {
		add(r.HomePlayer)
		add(r.AwayPlayer)
	}
	return p
}

// Accumulate sums each side's decay-weighted score against the other.
func (e *Engine) Accumulate(records []model.MatchRecord, players Players, reference time.Time) Accumulated {
	n := len(players.Names)
	acc := Accumulated{Points: make([][]float64, n), Played: make([][]bool, n)}
	for i := range n {
		acc.Points[i] = make([]float64, n)
		acc.Played[i] = make([]bool, n)
	}

	for _, r := range records {
		f := DecayFactor(DaysBetween(r.Date, reference), e.decayDays)
		if f <= 0 {
			continue
		}
		h, a := players.Index[r.HomePlayer], players.Index[r.AwayPlayer]
		acc.Points[h][a] += f * r.HomeScore
		acc.Points[a][h] += f * r.AwayScore
		acc.Played[h][a] = true
		acc.Played[a][h] = true
	}
	return acc
}

// Matrix builds the dominance matrix from accumulated scores.
func (e *Engine) Matrix(acc Accumulated) [][]float64 {
	n := len(acc.Points)
	a := make([][]float64, n)
	for i := range n {
		a[i] = make([]float64, n)
		for j := range n {
			if acc.Played[i][j] {
				a[i][j] = Dominance(acc.Points[i][j], acc.Points[j][i])
			} else {
				a[i][j] = e.notPlayedScore
			}
		}
	}
	return a
}

// BuildTable sorts players by descending score and permutes both axes of
// the matrix the same way. Equal scores keep discovery order.
func BuildTable(players Players, a [][]float64, scores []float64, reference time.Time) *model.RankingTable {
	n := len(players.Names)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return scores[order[x]] > scores[order[y]]
	})

	t := &model.RankingTable{
		Players:       make([]string, n),
		Dominance:     make([][]float64, n),
		Scores:        make([]float64, n),
		ReferenceDate: reference,
	}
	for r, i := range order {
		t.Players[r] = players.Names[i]
		t.Scores[r] = scores[i]
		t.Dominance[r] = make([]float64, n)
		for c, j := range order {
			t.Dominance[r][c] = a[i][j]
		}
	}
	return t
}
