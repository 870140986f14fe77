package decision

import (
	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/strategy"
)

// TableSource yields the table to resolve against. Both *strategy.Table and
// *strategy.Holder satisfy it.
type TableSource interface {
	Table() *strategy.Table
}

// Request is one decision to make. Players and Seat are expected to be
// validated by the caller.
type Request struct {
	Players  int
	Depth    float64
	Seat     poker.Seat
	Scenario strategy.Scenario
	Villain  poker.Seat
	Hand     string
}

// Result is the action to play. Probs is set when the stored value was a
// deterministic action (one-hot) or a weight distribution.
type Result struct {
	Action    Action          `json:"action"`
	HandLabel poker.HandLabel `json:"handLabel"`
	Probs     *Distribution   `json:"probs,omitempty"`
}

// Resolver makes decisions against the current table of a TableSource.
type Resolver struct {
	tables TableSource
	rng    Source
}

// NewResolver returns a resolver drawing samples from rng. rng must be safe
// for concurrent use if the resolver is.
func NewResolver(tables TableSource, rng Source) *Resolver {
	return &Resolver{tables: tables, rng: rng}
}

// Resolve normalizes the hand and returns an action for it. The only error is
// an unreadable hand (poker.ErrInvalidHandFormat); table misses resolve to the
// fallback action.
func (r *Resolver) Resolve(req Request) (Result, error) {
	label, err := poker.Normalize(req.Hand)
	if err != nil {
		return Result{}, err
	}
	return r.resolve(r.tables.Table(), strategy.Query{
		Players:  req.Players,
		Depth:    req.Depth,
		Seat:     req.Seat,
		Scenario: req.Scenario,
		Villain:  req.Villain,
		Hand:     label,
	}), nil
}

func (r *Resolver) resolve(table *strategy.Table, q strategy.Query) Result {
	if table == nil {
		return Result{Action: Fallback(q.Scenario), HandLabel: q.Hand}
	}
	v, err := table.Lookup(q)
	if err != nil {
		return Result{Action: Fallback(q.Scenario), HandLabel: q.Hand}
	}
	return r.fromValue(q.Hand, v)
}

func (r *Resolver) fromValue(label poker.HandLabel, v strategy.Value) Result {
	switch v.Kind() {
	case strategy.KindText:
		text, _ := v.Text()
		if a, ok := ParseAction(text); ok {
			d := OneHot(a)
			return Result{Action: a, HandLabel: label, Probs: &d}
		}
		// Older tables store weight objects as JSON strings.
		if weights, ok := strategy.ParseWeights([]byte(text)); ok {
			return r.sample(label, weights)
		}
	case strategy.KindWeights:
		weights, _ := v.Weights()
		return r.sample(label, weights)
	}
	return Result{Action: Fold, HandLabel: label}
}

func (r *Resolver) sample(label poker.HandLabel, weights []strategy.Weight) Result {
	d, ok := Normalize(weights)
	if !ok {
		return Result{Action: Fold, HandLabel: label}
	}
	return Result{Action: Sample(d, r.rng), HandLabel: label, Probs: &d}
}
