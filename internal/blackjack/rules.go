package blackjack

import "fmt"

// MaxDecks is the largest shoe the rules accept.
const MaxDecks = 8

// Rules is the immutable table configuration shared by the engine and the
// advisor.
type Rules struct {
	DealerHitsSoft17 bool
	DoubleAfterSplit bool
	Decks            int
}

// DefaultRules returns a six-deck game where the dealer stands on soft 17
// and doubling after a split is allowed.
func DefaultRules() Rules {
	return Rules{
		DealerHitsSoft17: false,
		DoubleAfterSplit: true,
		Decks:            6,
	}
}

// Validate checks the rules are playable.
func (r Rules) Validate() error {
	if r.Decks <= 0 {
		return fmt.Errorf("decks must be positive, got %d", r.Decks)
	}
	if r.Decks > MaxDecks {
		return fmt.Errorf("decks must be at most %d, got %d", MaxDecks, r.Decks)
	}
	return nil
}

// DealerShouldHit reports whether the dealer draws on h: below 17, or on a
// soft 17 when the table hits soft 17.
func (r Rules) DealerShouldHit(h *Hand) bool {
	v := h.Value()
	return v < 17 || (v == 17 && h.IsSoft() && r.DealerHitsSoft17)
}

// Soft17Label describes the dealer's soft 17 rule, e.g. "H17".
func (r Rules) Soft17Label() string {
	if r.DealerHitsSoft17 {
		return "H17"
	}
	return "S17"
}

// String summarises the rules, e.g. "6 decks, S17, DAS".
func (r Rules) String() string {
	das := "no DAS"
	if r.DoubleAfterSplit {
		das = "DAS"
	}
	noun := "decks"
	if r.Decks == 1 {
		noun = "deck"
	}
	return fmt.Sprintf("%d %s, %s, %s", r.Decks, noun, r.Soft17Label(), das)
}
