package decision

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/lox/pushfold/strategy"
)

// Source supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Distribution is a probability per action, indexed by Action.
type Distribution [len(Actions)]float64

// OneHot returns the distribution that always picks a.
func OneHot(a Action) Distribution {
	var d Distribution
	d[a] = 1
	return d
}

// Prob returns the probability of a.
func (d Distribution) Prob(a Action) float64 {
	return d[a]
}

// Normalize turns raw weights into a distribution. Unknown action names,
// non-finite and non-positive weights are dropped. ok is false when nothing
// positive remains. Weights are scaled by the largest one before summing so
// huge finite weights cannot overflow the total.
func Normalize(weights []strategy.Weight) (d Distribution, ok bool) {
	var largest float64
	for _, w := range weights {
		if usable(w) {
			largest = max(largest, w.Weight)
		}
	}
	if largest <= 0 {
		return Distribution{}, false
	}

	var total float64
	for _, w := range weights {
		if !usable(w) {
			continue
		}
		a, _ := ParseAction(w.Action)
		d[a] += w.Weight / largest
		total += w.Weight / largest
	}
	for i := range d {
		d[i] /= total
	}
	return d, true
}

func usable(w strategy.Weight) bool {
	_, known := ParseAction(w.Action)
	return known && !math.IsNaN(w.Weight) && !math.IsInf(w.Weight, 0) && w.Weight > 0
}

// Sample draws one action from d. Actions are walked in the fixed order fold,
// call, raise, shove and the first whose cumulative probability reaches the
// draw is returned. Unlike a plain cumulative walk, zero-probability actions
// are skipped, so a draw of exactly 0 never picks one. If drift leaves the
// draw past every cumulative sum, Shove is returned.
func Sample(d Distribution, src Source) Action {
	r := src.Float64()
	var cumulative float64
	for _, a := range Actions {
		p := d[a]
		if p <= 0 {
			continue
		}
		cumulative += p
		if cumulative >= r {
			return a
		}
	}
	return Shove
}

// MarshalJSON encodes the distribution as {"fold":..,"call":..,"raise":..,"shove":..}.
func (d Distribution) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 64)
	buf = append(buf, '{')
	for i, a := range Actions {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendQuote(buf, a.String())
		buf = append(buf, ':')
		buf = strconv.AppendFloat(buf, d[a], 'g', -1, 64)
	}
	return append(buf, '}'), nil
}

// String renders the non-zero probabilities, largest first, e.g.
// "75% call, 25% fold".
func (d Distribution) String() string {
	order := slices.Clone(Actions[:])
	slices.SortStableFunc(order, func(a, b Action) int {
		return cmp.Compare(d[b], d[a])
	})
	var sb strings.Builder
	for _, a := range order {
		if d[a] <= 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d%% %s", int(math.Round(d[a]*100)), a)
	}
	return sb.String()
}
