package decision

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pushfold/internal/randutil"
	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/strategy"
)

// fixedSource replays draws in order, repeating the last one.
type fixedSource struct {
	draws []float64
	next  int
}

func (s *fixedSource) Float64() float64 {
	r := s.draws[min(s.next, len(s.draws)-1)]
	s.next++
	return r
}

const testTable = `{
  "2": {
    "10": {
      "SB": {
        "Open": {
          "AKS": "raise",
          "AA": "SHOVE",
          "KQO": {"fold": 1, "call": 3},
          "KJO": "{\"raise\": 1, \"fold\": 1}",
          "QJO": {"fold": 0, "call": -2, "raise": "x"},
          "QTO": null,
          "JTO": "limp",
          "J9O": 7
        },
        "VsShove": { "BB": { "AA": "call" } }
      },
      "BB": {
        "VsOpen": { "SB": { "AKS": "shove" } }
      }
    }
  }
}`

func newTestResolver(t *testing.T, src Source) *Resolver {
	t.Helper()
	table, err := strategy.Load([]byte(testTable))
	require.NoError(t, err)
	return NewResolver(table, src)
}

func openRequest(hand string) Request {
	return Request{Players: 2, Depth: 10, Seat: poker.SmallBlind, Scenario: strategy.Open, Hand: hand}
}

func TestResolveEndToEnd(t *testing.T) {
	t.Parallel()
	table, err := strategy.Load([]byte(`{"2":{"10":{"SB":{"Open":{"AKS":"raise"}}}}}`))
	require.NoError(t, err)
	r := NewResolver(table, randutil.New(1))

	for _, depth := range []float64{10, 9} {
		res, err := r.Resolve(Request{Players: 2, Depth: depth, Seat: poker.SmallBlind, Scenario: strategy.Open, Hand: "AsKs"})
		require.NoError(t, err)
		assert.Equal(t, Raise, res.Action)
		assert.Equal(t, poker.HandLabel("AKS"), res.HandLabel)

		data, err := json.Marshal(res)
		require.NoError(t, err)
		assert.JSONEq(t, `{"action":"raise","handLabel":"AKS","probs":{"fold":0,"call":0,"raise":1,"shove":0}}`, string(data))
	}

	// AhKs is offsuit and misses the table, so the opening fallback applies.
	res, err := r.Resolve(Request{Players: 2, Depth: 10, Seat: poker.SmallBlind, Scenario: strategy.Open, Hand: "AhKs"})
	require.NoError(t, err)
	assert.Equal(t, Result{Action: Fold, HandLabel: "AKO"}, res)
}

func TestResolveDeterministic(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t, &fixedSource{draws: []float64{0.99}})

	res, err := r.Resolve(openRequest("AKs"))
	require.NoError(t, err)
	assert.Equal(t, Raise, res.Action)
	require.NotNil(t, res.Probs)
	assert.Equal(t, OneHot(Raise), *res.Probs)

	res, err = r.Resolve(openRequest("AA"))
	require.NoError(t, err)
	assert.Equal(t, Shove, res.Action, "action names are case-insensitive")
}

func TestResolveUnrecognizedValuesFold(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t, &fixedSource{draws: []float64{0.5}})

	for _, hand := range []string{"QJo", "QTo", "JTo", "J9o"} {
		res, err := r.Resolve(openRequest(hand))
		require.NoError(t, err)
		assert.Equal(t, Fold, res.Action, hand)
		assert.Nil(t, res.Probs, hand)
	}
}

func TestResolveSamplesWeights(t *testing.T) {
	t.Parallel()
	// KQO is {fold:1, call:3}: fold covers [0, 0.25], call (0.25, 1).
	tests := []struct {
		draw float64
		want Action
	}{
		{draw: 0, want: Fold},
		{draw: 0.25, want: Fold},
		{draw: 0.2501, want: Call},
		{draw: 0.999, want: Call},
	}
	for _, tt := range tests {
		r := newTestResolver(t, &fixedSource{draws: []float64{tt.draw}})
		res, err := r.Resolve(openRequest("KQo"))
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Action, "draw %v", tt.draw)
		require.NotNil(t, res.Probs)
		assert.InDelta(t, 0.25, res.Probs.Prob(Fold), 1e-12)
		assert.InDelta(t, 0.75, res.Probs.Prob(Call), 1e-12)
	}
}

func TestResolveEncodedWeights(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t, &fixedSource{draws: []float64{0.75}})
	res, err := r.Resolve(openRequest("KJo"))
	require.NoError(t, err)
	require.NotNil(t, res.Probs)
	assert.InDelta(t, 0.5, res.Probs.Prob(Fold), 1e-12)
	assert.InDelta(t, 0.5, res.Probs.Prob(Raise), 1e-12)
	assert.Equal(t, Raise, res.Action)
}

func TestResolveConstructedValues(t *testing.T) {
	t.Parallel()
	r := NewResolver(nil, &fixedSource{draws: []float64{0.6}})

	tests := []struct {
		name  string
		value strategy.Value
		want  Action
		probs *Distribution
	}{
		{"action text", strategy.NewText("Call"), Call, &Distribution{0, 1, 0, 0}},
		{"weights", strategy.NewWeights(strategy.Weight{Action: "fold", Weight: 1}, strategy.Weight{Action: "raise", Weight: 1}), Raise, &Distribution{0.5, 0, 0.5, 0}},
		{"unknown text", strategy.NewText("limp"), Fold, nil},
		{"no usable weights", strategy.NewWeights(strategy.Weight{Action: "call", Weight: 0}), Fold, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.fromValue("AA", tt.value)
			assert.Equal(t, tt.want, res.Action)
			assert.Equal(t, poker.HandLabel("AA"), res.HandLabel)
			assert.Equal(t, tt.probs, res.Probs)
		})
	}
}

func TestSamplingConvergesToWeights(t *testing.T) {
	t.Parallel()
	d, ok := Normalize([]strategy.Weight{{Action: "fold", Weight: 1}, {Action: "call", Weight: 3}})
	require.True(t, ok)

	rng := randutil.New(20240601)
	counts := map[Action]int{}
	const draws = 10000
	for range draws {
		counts[Sample(d, rng)]++
	}

	assert.Zero(t, counts[Raise])
	assert.Zero(t, counts[Shove])
	assert.Equal(t, draws, counts[Fold]+counts[Call])
	assert.InDelta(t, 0.25, float64(counts[Fold])/draws, 0.02)
	assert.InDelta(t, 3.0, float64(counts[Call])/float64(counts[Fold]), 0.35)
}

func TestResolveFallback(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t, &fixedSource{draws: []float64{0.5}})

	tests := []struct {
		name string
		req  Request
		want Action
	}{
		{"open miss", openRequest("72o"), Fold},
		{"first in miss", Request{Players: 2, Depth: 10, Seat: poker.SmallBlind, Scenario: strategy.FirstIn, Hand: "AA"}, Fold},
		{"vs open miss", Request{Players: 2, Depth: 10, Seat: poker.BigBlind, Scenario: strategy.VsOpen, Villain: poker.SmallBlind, Hand: "72o"}, Fold},
		{"vs shove miss", Request{Players: 2, Depth: 10, Seat: poker.BigBlind, Scenario: strategy.VsShove, Villain: poker.SmallBlind, Hand: "72o"}, Call},
		{"vs shove missing villain", Request{Players: 2, Depth: 10, Seat: poker.SmallBlind, Scenario: strategy.VsShove, Hand: "AA"}, Call},
		{"unknown scenario", Request{Players: 2, Depth: 10, Seat: poker.BigBlind, Scenario: strategy.VsSqueeze, Hand: "AA"}, Fold},
		{"unknown players", Request{Players: 3, Depth: 10, Seat: poker.Button, Scenario: strategy.VsShove, Villain: poker.SmallBlind, Hand: "K2o"}, Call},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Action)
			assert.Nil(t, res.Probs)
		})
	}
}

func TestResolveWithoutTable(t *testing.T) {
	t.Parallel()
	r := NewResolver(strategy.NewHolder(nil), randutil.New(1))
	res, err := r.Resolve(Request{Players: 2, Depth: 10, Seat: poker.BigBlind, Scenario: strategy.VsShove, Villain: poker.SmallBlind, Hand: "AA"})
	require.NoError(t, err)
	assert.Equal(t, Call, res.Action)
}

func TestResolveInvalidHand(t *testing.T) {
	t.Parallel()
	r := newTestResolver(t, randutil.New(1))
	_, err := r.Resolve(openRequest("xyz"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, poker.ErrInvalidHandFormat))
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	d, ok := Normalize([]strategy.Weight{
		{Action: "Raise", Weight: 2},
		{Action: "call", Weight: math.NaN()},
		{Action: "fold", Weight: math.Inf(1)},
		{Action: "shove", Weight: 6},
		{Action: "limp", Weight: 10},
	})
	require.True(t, ok)
	assert.Equal(t, Distribution{0, 0, 0.25, 0.75}, d)

	_, ok = Normalize([]strategy.Weight{{Action: "fold", Weight: 0}, {Action: "call", Weight: -1}})
	assert.False(t, ok)

	_, ok = Normalize(nil)
	assert.False(t, ok)
}

func TestNormalizeHugeWeights(t *testing.T) {
	t.Parallel()
	d, ok := Normalize([]strategy.Weight{{Action: "fold", Weight: 1e308}, {Action: "call", Weight: 1e308}})
	require.True(t, ok)
	assert.Equal(t, Distribution{0.5, 0.5, 0, 0}, d)

	d, ok = Normalize([]strategy.Weight{
		{Action: "fold", Weight: math.MaxFloat64},
		{Action: "FOLD", Weight: math.MaxFloat64},
		{Action: "raise", Weight: math.MaxFloat64 / 2},
	})
	require.True(t, ok)
	assert.InDelta(t, 0.8, d.Prob(Fold), 1e-12)
	assert.InDelta(t, 0.2, d.Prob(Raise), 1e-12)
}

func TestSampleSkipsZeroProbability(t *testing.T) {
	t.Parallel()
	d := Distribution{0, 0, 1, 0}
	assert.Equal(t, Raise, Sample(d, &fixedSource{draws: []float64{0}}))

	// Probabilities short of 1 leave the top of the range unassigned.
	drift := Distribution{0.3, 0.3, 0.3, 0}
	assert.Equal(t, Shove, Sample(drift, &fixedSource{draws: []float64{0.95}}))
}

func TestDistributionString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "75% call, 25% fold", Distribution{0.25, 0.75, 0, 0}.String())
	assert.Equal(t, "50% fold, 50% shove", Distribution{0.5, 0, 0, 0.5}.String())
	assert.Equal(t, "100% raise", OneHot(Raise).String())
}

func TestActionText(t *testing.T) {
	t.Parallel()
	for _, a := range Actions {
		text, err := a.MarshalText()
		require.NoError(t, err)
		var back Action
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, a, back)
	}
	var a Action
	assert.Error(t, a.UnmarshalText([]byte("limp")))
}

func TestClampDepth(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5.0, ClampDepth(1, 5, 15))
	assert.Equal(t, 15.0, ClampDepth(40, 5, 15))
	assert.Equal(t, 10.0, ClampDepth(9.6, 5, 15))
	assert.Equal(t, 5.0, ClampDepth(math.NaN(), 5, 15))
}
