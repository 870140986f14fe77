package decision

import (
	"math"

	"github.com/lox/pushfold/strategy"
)

// Fallback is the action played when the table has no entry: call when facing
// a shove, fold everywhere else.
func Fallback(s strategy.Scenario) Action {
	switch s {
	case strategy.Open, strategy.FirstIn, strategy.VsOpen:
		return Fold
	case strategy.VsShove:
		return Call
	default:
		return Fold
	}
}

// ClampDepth rounds depth to whole big blinds and clamps it to [lo, hi].
// NaN clamps to lo.
func ClampDepth(depth, lo, hi float64) float64 {
	if math.IsNaN(depth) {
		return lo
	}
	return math.Max(lo, math.Min(hi, math.Round(depth)))
}
