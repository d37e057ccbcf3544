package strategy

import (
	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/lox/blackjackadvisor/internal/deck"
)

// Describe returns a one-line explanation of an action.
func Describe(a blackjack.Action) string {
	switch a {
	case blackjack.Hit:
		return "Hit - Take another card"
	case blackjack.Stand:
		return "Stand - Keep current hand"
	case blackjack.Double:
		return "Double Down - Double bet, take one card"
	case blackjack.Split:
		return "Split - Separate pair into two hands"
	default:
		return "Unknown action"
	}
}

// InsuranceNote returns a reminder not to take insurance when the dealer
// shows an ace against a live hand, or nil otherwise.
func InsuranceNote(up deck.Rank, h *blackjack.Hand) []string {
	if up != deck.Ace || h.IsBusted() {
		return nil
	}
	return []string{
		"Insurance is available but NOT recommended",
		"- Side bet with ~7% house edge",
		"- Basic strategy: Never take insurance",
		"- Only profitable for advanced card counters in specific situations",
	}
}

// Soft17Note describes how the dealer plays a soft 17 under rules.
func Soft17Note(rules blackjack.Rules) string {
	if rules.DealerHitsSoft17 {
		return "Dealer hits soft 17"
	}
	return "Dealer stands on soft 17"
}
