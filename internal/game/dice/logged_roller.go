package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so every random decision of a battle is
// recorded at debug level with its label and outcome.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Pick returns a uniformly drawn index in [0, n).
//
// Precondition: n > 0.
// Postcondition: 0 <= result < n.
func (r *Roller) Pick(label string, n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("dice pick",
		zap.String("label", label),
		zap.Int("n", n),
		zap.Int("value", v),
	)
	return v
}

// Chance reports whether a percent-in-100 roll succeeds.
// A percent <= 0 never succeeds and a percent >= 100 always does; neither consumes a draw.
//
// Postcondition: Returns true with probability percent/100.
func (r *Roller) Chance(label string, percent int) bool {
	switch {
	case percent <= 0:
		return false
	case percent >= 100:
		return true
	}
	v := r.src.Intn(100)
	ok := v < percent
	r.logger.Debug("dice chance",
		zap.String("label", label),
		zap.Int("percent", percent),
		zap.Int("value", v),
		zap.Bool("success", ok),
	)
	return ok
}
