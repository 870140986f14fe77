package poker

import (
	"fmt"
	"slices"
	"strings"
)

// Seat is a table position relative to the blinds.
type Seat string

const (
	Button     Seat = "BTN"
	SmallBlind Seat = "SB"
	BigBlind   Seat = "BB"
)

// MinPlayers and MaxPlayers bound the table sizes strategy tables cover.
const (
	MinPlayers = 2
	MaxPlayers = 3
)

var (
	headsUpSeats  = []Seat{SmallBlind, BigBlind}
	threeWaySeats = []Seat{Button, SmallBlind, BigBlind}
)

// ParsePlayers validates a table size.
func ParsePlayers(n int) (int, error) {
	if n < MinPlayers || n > MaxPlayers {
		return 0, fmt.Errorf("players must be %d or %d, got %d", MinPlayers, MaxPlayers, n)
	}
	return n, nil
}

// Seats returns the seats in play for a table size, in action order.
// It returns nil for unsupported sizes.
func Seats(players int) []Seat {
	switch players {
	case 2:
		return slices.Clone(headsUpSeats)
	case 3:
		return slices.Clone(threeWaySeats)
	default:
		return nil
	}
}

// Opponents returns every seat in play other than hero.
func Opponents(players int, hero Seat) []Seat {
	seats := Seats(players)
	return slices.DeleteFunc(seats, func(s Seat) bool { return s == hero })
}

// ValidSeat reports whether s is one of the seats in play for players.
func ValidSeat(s Seat, players int) bool {
	return slices.Contains(Seats(players), s)
}

// IsSeatName reports whether s names any known seat, regardless of table size.
func IsSeatName(s string) bool {
	return slices.Contains(threeWaySeats, Seat(s))
}

// ParseSeat parses a seat name case-insensitively and checks it is in play.
func ParseSeat(s string, players int) (Seat, error) {
	seat := Seat(strings.ToUpper(strings.TrimSpace(s)))
	if !ValidSeat(seat, players) {
		return "", fmt.Errorf("invalid seat for %d players: %q", players, s)
	}
	return seat, nil
}
