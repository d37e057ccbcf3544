package blackjack

import (
	"fmt"
	"strings"

	"github.com/lox/blackjackadvisor/internal/deck"
)

// Hand is an ordered set of cards with the bet riding on it.
//
// Value and softness are derived from the cards on every call. The pair and
// blackjack flags describe the original two-card hand and are cleared for
// good as soon as a third card arrives.
type Hand struct {
	cards     []deck.Rank
	bet       int
	pair      bool
	blackjack bool
	stood     bool
	doubled   bool
	fromSplit bool
}

// NewHand creates a hand from its starting cards. A bet of zero marks an
// advisory-only hand.
func NewHand(bet int, cards ...deck.Rank) *Hand {
	h := &Hand{
		cards: append([]deck.Rank(nil), cards...),
		bet:   bet,
	}
	if len(h.cards) == 2 {
		h.pair = h.cards[0] == h.cards[1]
		h.blackjack = h.Value() == 21
	}
	return h
}

// newSplitHand creates one half of a split pair.
func newSplitHand(bet int, first, second deck.Rank) *Hand {
	h := NewHand(bet, first, second)
	h.fromSplit = true
	return h
}

// Cards returns a copy of the hand's cards.
func (h *Hand) Cards() []deck.Rank {
	return append([]deck.Rank(nil), h.cards...)
}

// Len returns the number of cards in the hand.
func (h *Hand) Len() int {
	return len(h.cards)
}

// First returns the first card dealt to the hand.
func (h *Hand) First() deck.Rank {
	if len(h.cards) == 0 {
		return 0
	}
	return h.cards[0]
}

// Last returns the most recent card added to the hand.
func (h *Hand) Last() deck.Rank {
	if len(h.cards) == 0 {
		return 0
	}
	return h.cards[len(h.cards)-1]
}

// Bet returns the amount wagered on the hand.
func (h *Hand) Bet() int {
	return h.bet
}

// Value returns the best total for the hand.
func (h *Hand) Value() int {
	v, _ := Evaluate(h.cards)
	return v
}

// IsSoft reports whether an ace is currently counted as eleven.
func (h *Hand) IsSoft() bool {
	_, soft := Evaluate(h.cards)
	return soft
}

// IsPair reports whether the hand is still its original pair.
func (h *Hand) IsPair() bool {
	return h.pair
}

// IsBlackjack reports whether the hand is a two-card 21.
func (h *Hand) IsBlackjack() bool {
	return h.blackjack
}

// IsBusted reports whether the hand is over 21.
func (h *Hand) IsBusted() bool {
	return h.Value() > 21
}

// Stood reports whether the player has finished acting on the hand.
func (h *Hand) Stood() bool {
	return h.stood
}

// Doubled reports whether the bet on the hand was doubled.
func (h *Hand) Doubled() bool {
	return h.doubled
}

// FromSplit reports whether the hand was created by splitting a pair.
func (h *Hand) FromSplit() bool {
	return h.fromSplit
}

// IsComplete reports whether no further player actions apply to the hand.
func (h *Hand) IsComplete() bool {
	return h.stood || h.IsBusted()
}

// AddCard appends a card. The hand stops being a pair or a blackjack.
func (h *Hand) AddCard(c deck.Rank) {
	h.cards = append(h.cards, c)
	h.pair = false
	h.blackjack = false
}

// Stand marks the hand as finished.
func (h *Hand) Stand() {
	h.stood = true
}

// DoubleBet doubles the wager.
func (h *Hand) DoubleBet() {
	h.bet *= 2
	h.doubled = true
}

// Clone returns an independent copy of the hand.
func (h *Hand) Clone() *Hand {
	c := *h
	c.cards = append([]deck.Rank(nil), h.cards...)
	return &c
}

// Kind returns the hand's shape label: "Blackjack!", "Soft", "Pair" or "".
func (h *Hand) Kind() string {
	switch {
	case h.blackjack:
		return "Blackjack!"
	case h.IsSoft():
		return "Soft"
	case h.pair:
		return "Pair"
	default:
		return ""
	}
}

// Status returns "BUSTED", "STAND" or "".
func (h *Hand) Status() string {
	switch {
	case h.IsBusted():
		return "BUSTED"
	case h.stood:
		return "STAND"
	default:
		return ""
	}
}

// String renders the hand, e.g. "A, 8 (Value: 19 Soft)".
func (h *Hand) String() string {
	var b strings.Builder
	b.WriteString(deck.FormatRanks(h.cards))
	fmt.Fprintf(&b, " (Value: %d", h.Value())
	if kind := h.Kind(); kind != "" {
		b.WriteString(" " + kind)
	}
	if status := h.Status(); status != "" {
		b.WriteString(" " + status)
	}
	b.WriteString(")")
	return b.String()
}
