package strategy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/lox/pushfold/poker"
)

type rawObject = orderedmap.OrderedMap[string, json.RawMessage]

// path is a location in the table document, rendered as "2/10/SB/Open".
type path []string

func (p path) child(key string) path {
	return append(slices.Clip(p), key)
}

func (p path) String() string {
	if len(p) == 0 {
		return "(root)"
	}
	return strings.Join(p, "/")
}

// Load parses and validates a table document. Object key order is kept and
// used to break nearest-depth ties.
func Load(data []byte) (*Table, error) {
	if err := json.Unmarshal(data, new(json.RawMessage)); err != nil {
		return nil, &ParseError{Err: err}
	}
	return build(bytes.TrimSpace(data))
}

// Decode reads a table document from r.
func Decode(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read strategy table: %w", err)
	}
	return Load(data)
}

// LoadFile reads and validates the table stored at filename.
func LoadFile(filename string) (*Table, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read strategy table: %w", err)
	}
	t, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return t, nil
}

// FromValue builds a table from an in-memory document such as a decoded
// map[string]any. Go maps have no order, so nearest-depth ties follow the
// sorted key order encoding/json produces.
func FromValue(v any) (*Table, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return Load(data)
}

// decodeObject decodes raw as an ordered object. ok is false when raw is not
// a JSON object at all.
func decodeObject(raw []byte) (obj *rawObject, ok bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false, nil
	}
	obj = orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(trimmed, obj); err != nil {
		return nil, true, err
	}
	return obj, true, nil
}

func object(raw json.RawMessage, at path, what string) (*rawObject, error) {
	obj, ok, err := decodeObject(raw)
	if err != nil {
		return nil, &ParseError{Path: at.String(), Err: err}
	}
	if !ok {
		return nil, invalid(at, "%s must be an object", what)
	}
	return obj, nil
}

func build(raw json.RawMessage) (*Table, error) {
	root, err := object(raw, nil, "table")
	if err != nil {
		return nil, err
	}

	t := &Table{
		players: make(map[int]*orderedmap.OrderedMap[string, *DepthNode]),
		raw:     raw,
	}
	for pair := root.Oldest(); pair != nil; pair = pair.Next() {
		at := path{pair.Key}
		players, err := strconv.Atoi(pair.Key)
		if err != nil || players < poker.MinPlayers || players > poker.MaxPlayers {
			return nil, invalid(at, "players count must be %d or %d", poker.MinPlayers, poker.MaxPlayers)
		}
		if pair.Key != strconv.Itoa(players) {
			return nil, invalid(at, "players key must be written %d", players)
		}
		depths, err := buildPlayers(players, pair.Value, at)
		if err != nil {
			return nil, err
		}
		t.players[players] = depths
	}
	return t, nil
}

func buildPlayers(players int, raw json.RawMessage, at path) (*orderedmap.OrderedMap[string, *DepthNode], error) {
	obj, err := object(raw, at, "players node")
	if err != nil {
		return nil, err
	}
	if obj.Len() == 0 {
		return nil, invalid(at, "no depth levels")
	}

	depths := orderedmap.New[string, *DepthNode](obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		node, err := buildDepth(players, pair.Key, pair.Value, at.child(pair.Key))
		if err != nil {
			return nil, err
		}
		depths.Set(pair.Key, node)
	}
	return depths, nil
}

func parseDepth(key string) float64 {
	d, err := strconv.ParseFloat(strings.TrimSpace(key), 64)
	if err != nil || math.IsInf(d, 0) {
		return math.NaN()
	}
	return d
}

func buildDepth(players int, key string, raw json.RawMessage, at path) (*DepthNode, error) {
	obj, err := object(raw, at, "depth node")
	if err != nil {
		return nil, err
	}

	node := &DepthNode{
		Key:   key,
		Depth: parseDepth(key),
		seats: orderedmap.New[poker.Seat, *PositionNode](obj.Len()),
		raw:   raw,
	}
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		seat := poker.Seat(pair.Key)
		if !poker.ValidSeat(seat, players) {
			return nil, invalid(at.child(pair.Key), "seat %q is not in play at %d players", pair.Key, players)
		}
		pos, err := buildPosition(players, seat, pair.Value, at.child(pair.Key))
		if err != nil {
			return nil, err
		}
		node.seats.Set(seat, pos)
	}
	return node, nil
}

func buildPosition(players int, seat poker.Seat, raw json.RawMessage, at path) (*PositionNode, error) {
	obj, err := object(raw, at, "seat node")
	if err != nil {
		return nil, err
	}
	if obj.Len() == 0 {
		return nil, invalid(at, "seat has no scenarios")
	}

	pos := &PositionNode{
		Seat:      seat,
		scenarios: orderedmap.New[Scenario, *ScenarioNode](obj.Len()),
		raw:       raw,
	}
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		name := Scenario(pair.Key)
		sc, err := buildScenario(players, seat, name, pair.Value, at.child(pair.Key))
		if err != nil {
			return nil, err
		}
		pos.scenarios.Set(name, sc)
	}
	return pos, nil
}

func buildScenario(players int, hero poker.Seat, name Scenario, raw json.RawMessage, at path) (*ScenarioNode, error) {
	obj, err := object(raw, at, "scenario node")
	if err != nil {
		return nil, err
	}

	sc := &ScenarioNode{Name: name}
	if name.Opening() {
		if sc.hands, err = buildRange(obj, at); err != nil {
			return nil, err
		}
		return sc, nil
	}

	seatKeys := 0
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if poker.IsSeatName(pair.Key) {
			seatKeys++
		}
	}
	switch {
	case seatKeys == 0:
		if sc.hands, err = buildRange(obj, at); err != nil {
			return nil, err
		}
		return sc, nil
	case seatKeys != obj.Len():
		return nil, invalid(at, "scenario mixes opponent seats and hand labels")
	}

	opponents := poker.Opponents(players, hero)
	sc.opponents = orderedmap.New[poker.Seat, *HandRange](obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		villain := poker.Seat(pair.Key)
		vAt := at.child(pair.Key)
		if !slices.Contains(opponents, villain) {
			return nil, invalid(vAt, "%s is not an opponent of %s at %d players", villain, hero, players)
		}
		vObj, err := object(pair.Value, vAt, "opponent node")
		if err != nil {
			return nil, err
		}
		hands, err := buildRange(vObj, vAt)
		if err != nil {
			return nil, err
		}
		sc.opponents.Set(villain, hands)
	}
	return sc, nil
}

func buildRange(obj *rawObject, at path) (*HandRange, error) {
	r := &HandRange{values: orderedmap.New[poker.HandLabel, Value](obj.Len())}
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if !poker.IsCanonical(pair.Key) {
			return nil, invalid(at.child(pair.Key), "%q is not a canonical hand label", pair.Key)
		}
		r.values.Set(poker.HandLabel(pair.Key), parseValue(pair.Value))
	}
	return r, nil
}
