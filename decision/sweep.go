package decision

import (
	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/strategy"
)

// SeatDecision is one row of a sweep. Villain is nil for scenarios without
// an opponent dimension.
type SeatDecision struct {
	HeroPos  poker.Seat        `json:"heroPos"`
	Scenario strategy.Scenario `json:"scenario"`
	Villain  *poker.Seat       `json:"villain"`
	Hand     poker.HandLabel   `json:"hand"`
	Action   Action            `json:"action"`
	Probs    *Distribution     `json:"probs"`
}

// Sweep holds every decision available for one hand at one table size and
// depth, plus the position nodes they were read from.
type Sweep struct {
	Players   int
	Depth     float64
	Label     poker.HandLabel
	Seats     []poker.Seat
	Decisions []SeatDecision
	// Ranges has an entry for every seat; it is nil when the table has no
	// node for the seat.
	Ranges map[poker.Seat]*strategy.PositionNode
}

// Sweep resolves hand for every hero seat. Scenarios come from the seat's
// position node in document order; seats without a node get Open plus VsOpen
// and VsShove against each opponent, all of which resolve through the
// fallback policy. All decisions read the same table snapshot.
func (r *Resolver) Sweep(players int, depth float64, hand string) (*Sweep, error) {
	label, err := poker.Normalize(hand)
	if err != nil {
		return nil, err
	}

	table := r.tables.Table()
	sweep := &Sweep{
		Players: players,
		Depth:   depth,
		Label:   label,
		Seats:   poker.Seats(players),
		Ranges:  make(map[poker.Seat]*strategy.PositionNode),
	}

	for _, hero := range sweep.Seats {
		var pos *strategy.PositionNode
		if table != nil {
			pos, _ = table.PositionNode(players, depth, hero)
		}
		sweep.Ranges[hero] = pos

		add := func(scenario strategy.Scenario, villain poker.Seat) {
			res := r.resolve(table, strategy.Query{
				Players:  players,
				Depth:    depth,
				Seat:     hero,
				Scenario: scenario,
				Villain:  villain,
				Hand:     label,
			})
			row := SeatDecision{
				HeroPos:  hero,
				Scenario: scenario,
				Hand:     res.HandLabel,
				Action:   res.Action,
				Probs:    res.Probs,
			}
			if villain != "" {
				row.Villain = &villain
			}
			sweep.Decisions = append(sweep.Decisions, row)
		}

		if pos == nil {
			add(strategy.Open, "")
			for _, villain := range poker.Opponents(players, hero) {
				add(strategy.VsOpen, villain)
				add(strategy.VsShove, villain)
			}
			continue
		}

		for _, name := range pos.Scenarios() {
			sc, _ := pos.Scenario(name)
			if !sc.Keyed() {
				add(name, "")
				continue
			}
			for _, villain := range sc.Opponents() {
				add(name, villain)
			}
		}
	}
	return sweep, nil
}

// Find returns the decision for hero in scenario, against villain when given.
func (s *Sweep) Find(hero poker.Seat, scenario strategy.Scenario, villain poker.Seat) (SeatDecision, bool) {
	for _, d := range s.Decisions {
		if d.HeroPos != hero || d.Scenario != scenario {
			continue
		}
		if (d.Villain == nil && villain == "") || (d.Villain != nil && *d.Villain == villain) {
			return d, true
		}
	}
	return SeatDecision{}, false
}

// Meta describes the request a Document answers.
type Meta struct {
	Players       int             `json:"players"`
	Depth         float64         `json:"depth"`
	HandInput     string          `json:"handInput"`
	Normalized    poker.HandLabel `json:"normalized"`
	Profile       string          `json:"profile"`
	HeroPositions []poker.Seat    `json:"heroPositions"`
}

// Document is the JSON form of a sweep. Range repeats the first hero seat's
// node for clients that read a single range.
type Document struct {
	Meta      Meta                                  `json:"meta"`
	Decisions []SeatDecision                        `json:"decisions"`
	Ranges    map[poker.Seat]*strategy.PositionNode `json:"ranges"`
	Range     *strategy.PositionNode                `json:"range"`
}

// Document wraps the sweep with its request metadata.
func (s *Sweep) Document(handInput, profile string) Document {
	doc := Document{
		Meta: Meta{
			Players:       s.Players,
			Depth:         s.Depth,
			HandInput:     handInput,
			Normalized:    s.Label,
			Profile:       profile,
			HeroPositions: s.Seats,
		},
		Decisions: s.Decisions,
		Ranges:    s.Ranges,
	}
	if doc.Decisions == nil {
		doc.Decisions = []SeatDecision{}
	}
	if len(s.Seats) > 0 {
		doc.Range = s.Ranges[s.Seats[0]]
	}
	return doc
}
