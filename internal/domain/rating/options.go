package rating

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDecayDays sets the age in days at which a match stops counting.
func WithDecayDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.decayDays = days
		}
	}
}

// WithNotPlayedScore sets the dominance used for pairs that never met.
func WithNotPlayedScore(score float64) Option {
	return func(e *Engine) {
		if score > 0 && score < 1 {
			e.notPlayedScore = score
		}
	}
}
