// Package matchgen generates synthetic match logs for trying out a
// competition without real data.
package matchgen

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/okian/pacpong/internal/domain/model"
)

// Game rules.
const (
	winningScore = 11
	winningLead  = 2
)

// Strength range assigned to players without an explicit strength.
const (
	minStrength = 0.5
	maxStrength = 1.5
)

// ErrInvalidConfig is returned for a config that cannot produce matches.
var ErrInvalidConfig = errors.New("invalid generator config")

// DefaultPlayers is used when Config.Players is empty.
var DefaultPlayers = []string{"Anna", "Bas", "Cees", "Daan", "Eva", "Fleur"} //nolint:gochecknoglobals // sample roster

// Config describes the log to generate.
type Config struct {
	Players []string
	// Strengths overrides the hidden strength of named players.
	Strengths map[string]float64
	// Days is the length of the window ending at End.
	Days          int
	MatchesPerDay int
	End           time.Time
	Seed          uint64
}

// Generate returns a match log. Pairs are scheduled round-robin, alternating
// home and away, MatchesPerDay per day. Each point is won with probability
// proportional to the players' hidden strengths. The same config always
// yields the same log.
func Generate(cfg Config) ([]model.MatchRecord, error) {
	players := cfg.Players
	if len(players) == 0 {
		players = DefaultPlayers
	}
	if len(players) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 players", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if seen[p] {
			return nil, fmt.Errorf("%w: player %q listed twice", ErrInvalidConfig, p)
		}
		seen[p] = true
	}
	if cfg.Days < 1 || cfg.MatchesPerDay < 1 {
		return nil, fmt.Errorf("%w: days and matches per day must be positive", ErrInvalidConfig)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	strength := make(map[string]float64, len(players))
	for _, p := range players {
		if s, ok := cfg.Strengths[p]; ok && s > 0 {
			strength[p] = s
			continue
		}
		strength[p] = minStrength + rng.Float64()*(maxStrength-minStrength)
	}

	pairs := roundRobin(players)
	end := model.CalendarDate(cfg.End)
	records := make([]model.MatchRecord, 0, cfg.Days*cfg.MatchesPerDay)
	next := 0
	for d := cfg.Days - 1; d >= 0; d-- {
		date := end.AddDate(0, 0, -d)
		for range cfg.MatchesPerDay {
			p := pairs[next%len(pairs)]
			// Swap sides every full cycle.
			if (next/len(pairs))%2 == 1 {
				p[0], p[1] = p[1], p[0]
			}
			next++

			home, away := playGame(rng, strength[p[0]], strength[p[1]])
			records = append(records, model.MatchRecord{
				HomePlayer: p[0],
				AwayPlayer: p[1],
				HomeScore:  float64(home),
				AwayScore:  float64(away),
				Date:       date,
			})
		}
	}
	return records, nil
}

func roundRobin(players []string) [][2]string {
	var pairs [][2]string
	for i := range players {
		for j := i + 1; j < len(players); j++ {
			pairs = append(pairs, [2]string{players[i], players[j]})
		}
	}
	return pairs
}

// playGame plays points until one side has at least 11 and leads by 2.
func playGame(rng *rand.Rand, home, away float64) (int, int) {
	p := home / (home + away)
	h, a := 0, 0
	for !Finished(h, a) {
		if rng.Float64() < p {
			h++
		} else {
			a++
		}
	}
	return h, a
}

// Finished reports whether a game with this score is over.
func Finished(h, a int) bool {
	lead := h - a
	if lead < 0 {
		lead = -lead
	}
	return (h >= winningScore || a >= winningScore) && lead >= winningLead
}
