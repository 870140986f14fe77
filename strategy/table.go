// Package strategy holds precomputed preflop strategy tables.
//
// A table is a tree keyed by players count, stack depth in big blinds, hero
// seat, scenario, an optional opponent seat and finally the hand label.
// Tables are validated when loaded and never change afterwards; replacing the
// active table goes through a Holder.
package strategy

import (
	"encoding/json"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/lox/pushfold/poker"
)

// Query addresses one stored value.
type Query struct {
	Players  int
	Depth    float64
	Seat     poker.Seat
	Scenario Scenario
	// Villain is the opponent seat for scenarios keyed by opponent. It is
	// ignored by scenarios that map hands directly.
	Villain poker.Seat
	Hand    poker.HandLabel
}

// Table is an immutable, validated strategy table.
type Table struct {
	players map[int]*orderedmap.OrderedMap[string, *DepthNode]
	raw     json.RawMessage
}

// DepthNode is the per-seat strategy surface at one stored depth.
type DepthNode struct {
	Key   string
	Depth float64
	seats *orderedmap.OrderedMap[poker.Seat, *PositionNode]
	raw   json.RawMessage
}

// PositionNode holds every scenario stored for one hero seat.
type PositionNode struct {
	Seat      poker.Seat
	scenarios *orderedmap.OrderedMap[Scenario, *ScenarioNode]
	raw       json.RawMessage
}

// ScenarioNode maps hands to values, either directly or per opponent seat.
type ScenarioNode struct {
	Name      Scenario
	hands     *HandRange
	opponents *orderedmap.OrderedMap[poker.Seat, *HandRange]
}

// HandRange maps canonical hand labels to values.
type HandRange struct {
	values *orderedmap.OrderedMap[poker.HandLabel, Value]
}

// Table returns t, so a bare table can be used wherever a table source is.
func (t *Table) Table() *Table {
	return t
}

// MarshalJSON returns the source document.
func (t *Table) MarshalJSON() ([]byte, error) {
	return t.raw, nil
}

// PlayerCounts returns the players counts present, in ascending order.
func (t *Table) PlayerCounts() []int {
	var counts []int
	for n := poker.MinPlayers; n <= poker.MaxPlayers; n++ {
		if _, ok := t.players[n]; ok {
			counts = append(counts, n)
		}
	}
	return counts
}

// Depths returns the depth nodes stored for players, in document order.
func (t *Table) Depths(players int) []*DepthNode {
	depths, ok := t.players[players]
	if !ok {
		return nil
	}
	nodes := make([]*DepthNode, 0, depths.Len())
	for pair := depths.Oldest(); pair != nil; pair = pair.Next() {
		nodes = append(nodes, pair.Value)
	}
	return nodes
}

// NearestDepth returns the stored depth closest to depth. Keys that are not
// numbers are skipped. On equal distance the key that appears first in the
// source document wins, so results at midpoints depend on how the table was
// written.
func (t *Table) NearestDepth(players int, depth float64) (*DepthNode, bool) {
	depths, ok := t.players[players]
	if !ok {
		return nil, false
	}
	var best *DepthNode
	bestDelta := math.Inf(1)
	for pair := depths.Oldest(); pair != nil; pair = pair.Next() {
		node := pair.Value
		if !node.Numeric() {
			continue
		}
		if delta := math.Abs(node.Depth - depth); delta < bestDelta {
			best, bestDelta = node, delta
		}
	}
	return best, best != nil
}

// PositionNode returns the whole strategy surface for seat at the nearest
// stored depth.
func (t *Table) PositionNode(players int, depth float64, seat poker.Seat) (*PositionNode, error) {
	if _, ok := t.players[players]; !ok {
		return nil, notFound("no strategies for %d players", players)
	}
	node, ok := t.NearestDepth(players, depth)
	if !ok {
		return nil, notFound("no numeric depths for %d players", players)
	}
	pos, ok := node.Position(seat)
	if !ok {
		return nil, notFound("no %s strategies at %d players %sbb", seat, players, node.Key)
	}
	return pos, nil
}

// Lookup descends the table for q. Every step except depth is an exact match;
// any missing step yields ErrNotFound.
func (t *Table) Lookup(q Query) (Value, error) {
	pos, err := t.PositionNode(q.Players, q.Depth, q.Seat)
	if err != nil {
		return Value{}, err
	}
	scenario, ok := pos.Scenario(q.Scenario)
	if !ok {
		return Value{}, notFound("no %s scenario for %s", q.Scenario, q.Seat)
	}
	hands, ok := scenario.RangeFor(q.Villain)
	if !ok {
		return Value{}, notFound("no %s range for %s against %q", q.Scenario, q.Seat, q.Villain)
	}
	v, ok := hands.Get(q.Hand)
	if !ok {
		return Value{}, notFound("no %s entry for %s in %s", q.Hand, q.Seat, q.Scenario)
	}
	return v, nil
}

// Numeric reports whether the depth key parsed as a number.
func (d *DepthNode) Numeric() bool {
	return !math.IsNaN(d.Depth)
}

// Position returns the node for seat.
func (d *DepthNode) Position(seat poker.Seat) (*PositionNode, bool) {
	return d.seats.Get(seat)
}

// Seats returns the seats stored at this depth in document order.
func (d *DepthNode) Seats() []poker.Seat {
	return keys(d.seats)
}

// Scenarios returns the scenario names in document order.
func (p *PositionNode) Scenarios() []Scenario {
	return keys(p.scenarios)
}

// Scenario returns the named scenario node.
func (p *PositionNode) Scenario(name Scenario) (*ScenarioNode, bool) {
	return p.scenarios.Get(name)
}

// MarshalJSON returns the node as stored in the source document.
func (p *PositionNode) MarshalJSON() ([]byte, error) {
	return p.raw, nil
}

// Keyed reports whether the scenario is split by opponent seat.
func (s *ScenarioNode) Keyed() bool {
	return s.opponents != nil
}

// Opponents returns the opponent seats of a keyed scenario in document order.
func (s *ScenarioNode) Opponents() []poker.Seat {
	if s.opponents == nil {
		return nil
	}
	return keys(s.opponents)
}

// RangeFor returns the hand range for villain. Scenarios without an opponent
// dimension return their single range whatever villain is.
func (s *ScenarioNode) RangeFor(villain poker.Seat) (*HandRange, bool) {
	if s.opponents == nil {
		return s.hands, true
	}
	if villain == "" {
		return nil, false
	}
	return s.opponents.Get(villain)
}

// Get returns the value stored for label.
func (r *HandRange) Get(label poker.HandLabel) (Value, bool) {
	return r.values.Get(label)
}

// Len returns the number of hands in the range.
func (r *HandRange) Len() int {
	return r.values.Len()
}

// Labels returns the stored labels in document order.
func (r *HandRange) Labels() []poker.HandLabel {
	return keys(r.values)
}

func keys[K comparable, V any](m *orderedmap.OrderedMap[K, V]) []K {
	out := make([]K, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}
