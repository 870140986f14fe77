package poker

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidHandFormat is returned when no two ranks can be read from the text.
var ErrInvalidHandFormat = errors.New("invalid hand format")

// HandLabel is a canonical starting-hand category: a pocket pair ("AA") or two
// distinct ranks, high first, followed by S (suited) or O (offsuit), e.g. "AKS".
type HandLabel string

// IsPair reports whether the label is a pocket pair.
func (l HandLabel) IsPair() bool {
	return len(l) == 2
}

// Suited reports whether the label is a suited non-pair.
func (l HandLabel) Suited() bool {
	return len(l) == 3 && l[2] == 'S'
}

// Ranks returns the high and low rank of the label.
func (l HandLabel) Ranks() (high, low Rank) {
	high, _ = ParseRank(l[0])
	low, _ = ParseRank(l[1])
	return high, low
}

// IsCanonical reports whether s is already a canonical hand label.
func IsCanonical(s string) bool {
	switch len(s) {
	case 2:
		r1, ok1 := ParseRank(s[0])
		r2, ok2 := ParseRank(s[1])
		return ok1 && ok2 && r1 == r2
	case 3:
		r1, ok1 := ParseRank(s[0])
		r2, ok2 := ParseRank(s[1])
		return ok1 && ok2 && r1 > r2 && (s[2] == 'S' || s[2] == 'O')
	default:
		return false
	}
}

// Normalize reads a free-form two-card description and returns its canonical
// label. Accepted forms, tried in order:
//
//   - two full cards, rank then suit ("AhKs", "Td 9d")
//   - shorthand ranks with an optional s/o suffix ("AKs", "KA", "22"); a missing
//     suffix means offsuit
//   - anything else from which exactly two ranks can be scanned, each rank
//     optionally followed by its suit ("Ah,Kh", "A/K")
//
// "10" is read as "T".
func Normalize(text string) (HandLabel, error) {
	s := strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text))
	s = strings.ReplaceAll(s, "10", "T")

	if label, ok := parseFullCards(s); ok {
		return label, nil
	}
	if label, ok := parseShorthand(s); ok {
		return label, nil
	}
	if label, ok := scanCards(s); ok {
		return label, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidHandFormat, text)
}

// MustNormalize is Normalize for literals known to be valid.
func MustNormalize(text string) HandLabel {
	label, err := Normalize(text)
	if err != nil {
		panic(err)
	}
	return label
}

func parseFullCards(s string) (HandLabel, bool) {
	if len(s) != 4 || !isSuit(s[1]) || !isSuit(s[3]) {
		return "", false
	}
	r1, ok1 := ParseRank(s[0])
	r2, ok2 := ParseRank(s[2])
	if !ok1 || !ok2 {
		return "", false
	}
	return makeLabel(r1, r2, s[1] == s[3]), true
}

func parseShorthand(s string) (HandLabel, bool) {
	if len(s) < 2 || len(s) > 3 {
		return "", false
	}
	r1, ok1 := ParseRank(s[0])
	r2, ok2 := ParseRank(s[1])
	if !ok1 || !ok2 {
		return "", false
	}
	suited := false
	if len(s) == 3 {
		switch s[2] {
		case 'S':
			suited = true
		case 'O':
		default:
			return "", false
		}
	}
	return makeLabel(r1, r2, suited), true
}

// scanCards collects up to two ranks left to right, taking the character after
// each rank as its suit when it is one. Suitedness needs both suits.
func scanCards(s string) (HandLabel, bool) {
	var ranks []Rank
	var suits []byte
	for i := 0; i < len(s) && len(ranks) < 2; i++ {
		r, ok := ParseRank(s[i])
		if !ok {
			continue
		}
		ranks = append(ranks, r)
		if i+1 < len(s) && isSuit(s[i+1]) {
			suits = append(suits, s[i+1])
			i++
		}
	}
	if len(ranks) != 2 {
		return "", false
	}
	suited := len(suits) == 2 && suits[0] == suits[1]
	return makeLabel(ranks[0], ranks[1], suited), true
}

func makeLabel(r1, r2 Rank, suited bool) HandLabel {
	if r1 == r2 {
		return HandLabel([]byte{r1.Byte(), r2.Byte()})
	}
	if r1 < r2 {
		r1, r2 = r2, r1
	}
	marker := byte('O')
	if suited {
		marker = 'S'
	}
	return HandLabel([]byte{r1.Byte(), r2.Byte(), marker})
}

// AllLabels returns the 169 canonical labels, strongest ranks first: for each
// high rank the pair, then suited and offsuit hands by descending kicker.
func AllLabels() []HandLabel {
	labels := make([]HandLabel, 0, 169)
	for high := Ace; ; high-- {
		labels = append(labels, makeLabel(high, high, false))
		for low := high; low > Two; {
			low--
			labels = append(labels, makeLabel(high, low, true), makeLabel(high, low, false))
		}
		if high == Two {
			break
		}
	}
	return labels
}
