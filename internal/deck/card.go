package deck

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRank is returned when a card token is not one of 2-10, J, Q, K, A.
var ErrInvalidRank = errors.New("invalid card rank")

// Rank represents a card rank. Suits play no part in blackjack and are not modelled.
type Rank int

const (
	Two Rank = iota + 2
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

// Ranks lists every rank in shoe-building order.
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		if r >= Two && r <= Nine {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Valid reports whether r is one of the thirteen ranks.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// Points returns the hard count of the rank: faces are 10 and aces are 1.
func (r Rank) Points() int {
	switch {
	case r == Ace:
		return 1
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

// IsAce returns true if the rank is an Ace
func (r Rank) IsAce() bool {
	return r == Ace
}

// IsFaceCard returns true if the rank is J, Q or K
func (r Rank) IsFaceCard() bool {
	return r >= Jack && r <= King
}

// ParseRank parses a single card token, case-insensitively.
func ParseRank(s string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "2":
		return Two, nil
	case "3":
		return Three, nil
	case "4":
		return Four, nil
	case "5":
		return Five, nil
	case "6":
		return Six, nil
	case "7":
		return Seven, nil
	case "8":
		return Eight, nil
	case "9":
		return Nine, nil
	case "10":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	}
	return 0, fmt.Errorf("%w: %q (use 2-10, J, Q, K, A)", ErrInvalidRank, s)
}

// ParseRanks parses a list of card tokens separated by commas and/or spaces,
// e.g. "K,6" or "a a 9".
func ParseRanks(s string) ([]Rank, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	ranks := make([]Rank, 0, len(fields))
	for _, f := range fields {
		r, err := ParseRank(f)
		if err != nil {
			return nil, err
		}
		ranks = append(ranks, r)
	}
	return ranks, nil
}

// MustParseRanks is like ParseRanks but panics on error. Intended for tests
// and fixed scenarios.
func MustParseRanks(s string) []Rank {
	ranks, err := ParseRanks(s)
	if err != nil {
		panic(err)
	}
	return ranks
}

// FormatRanks joins ranks with ", ".
func FormatRanks(ranks []Rank) string {
	parts := make([]string, len(ranks))
	for i, r := range ranks {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
