// Package poker provides the card vocabulary shared by the strategy tables:
// ranks, canonical starting-hand labels and table seats.
package poker

import "strings"

// Rank is a card rank, ordered so that Two is the lowest and Ace the highest.
type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// rankChars is indexed by Rank.
const rankChars = "23456789TJQKA"

const suitChars = "CDHS"

// String returns the single character used for the rank in hand labels.
func (r Rank) String() string {
	if r > Ace {
		return "?"
	}
	return string(rankChars[r])
}

// Byte returns the rank character.
func (r Rank) Byte() byte {
	return rankChars[r]
}

// ParseRank parses an upper-case rank character. "10" is not accepted here;
// Normalize rewrites it to "T" before parsing.
func ParseRank(c byte) (Rank, bool) {
	idx := strings.IndexByte(rankChars, c)
	if idx < 0 {
		return 0, false
	}
	return Rank(idx), true
}

func isSuit(c byte) bool {
	return strings.IndexByte(suitChars, c) >= 0
}
