package strategy

import (
	"bytes"
	"encoding/json"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ValueKind classifies a stored value by JSON shape.
type ValueKind uint8

const (
	// KindOther covers null, numbers, arrays and booleans.
	KindOther ValueKind = iota
	// KindText is a JSON string: an action name or, in older tables, an
	// action->weight object encoded as a string.
	KindText
	// KindWeights is an action->weight object.
	KindWeights
)

// Weight is one entry of a weight object, in document order. Weight is NaN
// when the stored entry was not a number.
type Weight struct {
	Action string
	Weight float64
}

// Value is the recommendation stored for a hand. It is interpreted by the
// decision package; the table keeps it as found.
type Value struct {
	kind    ValueKind
	text    string
	weights []Weight
	raw     json.RawMessage
}

// NewText returns a text value.
func NewText(s string) Value {
	raw, _ := json.Marshal(s)
	return Value{kind: KindText, text: s, raw: raw}
}

// NewWeights returns a weight-object value.
func NewWeights(weights ...Weight) Value {
	obj := orderedmap.New[string, float64](len(weights))
	for _, w := range weights {
		obj.Set(w.Action, w.Weight)
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		raw = nil
	}
	return Value{kind: KindWeights, weights: weights, raw: raw}
}

// Kind returns the value's shape.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Text returns the string for KindText values.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// Weights returns the entries of a KindWeights value.
func (v Value) Weights() ([]Weight, bool) {
	return v.weights, v.kind == KindWeights
}

// MarshalJSON returns the value exactly as it was stored.
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// ParseWeights decodes a JSON object of action->weight pairs. Entries that
// are not numbers are kept with a NaN weight.
func ParseWeights(data []byte) ([]Weight, bool) {
	obj, ok, err := decodeObject(data)
	if !ok || err != nil {
		return nil, false
	}
	weights := make([]Weight, 0, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		w := math.NaN()
		var f float64
		if err := json.Unmarshal(pair.Value, &f); err == nil {
			w = f
		}
		weights = append(weights, Weight{Action: pair.Key, Weight: w})
	}
	return weights, true
}

func parseValue(raw json.RawMessage) Value {
	trimmed := bytes.TrimSpace(raw)
	v := Value{kind: KindOther, raw: trimmed}
	if len(trimmed) == 0 {
		return v
	}
	switch trimmed[0] {
	case '"':
		if err := json.Unmarshal(trimmed, &v.text); err == nil {
			v.kind = KindText
		}
	case '{':
		if weights, ok := ParseWeights(trimmed); ok {
			v.kind = KindWeights
			v.weights = weights
		}
	}
	return v
}
