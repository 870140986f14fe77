// Package decision turns stored strategy values into a single action.
package decision

import (
	"fmt"
	"strings"
)

// Action is a preflop action. The numeric order is the order used for
// cumulative sampling.
type Action uint8

const (
	Fold Action = iota
	Call
	Raise
	Shove
)

// Actions lists every action in sampling order.
var Actions = [...]Action{Fold, Call, Raise, Shove}

var actionNames = [...]string{"fold", "call", "raise", "shove"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// ParseAction matches an action name case-insensitively.
func ParseAction(s string) (Action, bool) {
	for i, name := range actionNames {
		if strings.EqualFold(s, name) {
			return Action(i), true
		}
	}
	return Fold, false
}

// MarshalText encodes the action as its lower-case name.
func (a Action) MarshalText() ([]byte, error) {
	if int(a) >= len(actionNames) {
		return nil, fmt.Errorf("unknown action %d", uint8(a))
	}
	return []byte(actionNames[a]), nil
}

// UnmarshalText decodes an action name.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, ok := ParseAction(string(text))
	if !ok {
		return fmt.Errorf("unknown action %q", text)
	}
	*a = parsed
	return nil
}
