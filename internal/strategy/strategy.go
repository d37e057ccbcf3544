// Package strategy holds the fixed basic-strategy table and the helpers
// drivers use to present its advice.
package strategy

import (
	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/lox/blackjackadvisor/internal/deck"
)

// DealerValue returns the lookup value of the dealer's up card. Faces are 10
// and an ace is always 11.
func DealerValue(up deck.Rank) int {
	switch {
	case up == deck.Ace:
		return 11
	case up >= deck.Ten:
		return 10
	default:
		return int(up)
	}
}

// Recommend returns the basic-strategy action for h against the dealer's up
// card. Pairs are looked up first, then soft totals, then hard totals.
func Recommend(h *blackjack.Hand, up deck.Rank) blackjack.Action {
	dealer := DealerValue(up)

	if h.IsPair() {
		return pairAction(h.First(), dealer)
	}
	if h.IsSoft() {
		return softAction(h.Value(), dealer)
	}
	return hardAction(h.Value(), dealer)
}

func pairAction(rank deck.Rank, dealer int) blackjack.Action {
	switch rank {
	case deck.Ace, deck.Eight:
		return blackjack.Split
	case deck.Nine:
		if dealer == 7 || dealer == 10 || dealer == 11 {
			return blackjack.Stand
		}
		return blackjack.Split
	case deck.Two, deck.Three:
		if dealer <= 7 {
			return blackjack.Split
		}
		return blackjack.Hit
	case deck.Seven:
		if dealer <= 7 {
			return blackjack.Split
		}
		return blackjack.Hit
	case deck.Six:
		if dealer <= 6 {
			return blackjack.Split
		}
		return blackjack.Hit
	case deck.Five:
		// Never split fives; play them as a hard 10.
		if dealer <= 9 {
			return blackjack.Double
		}
		return blackjack.Hit
	case deck.Four:
		if dealer == 5 || dealer == 6 {
			return blackjack.Split
		}
		return blackjack.Hit
	default: // 10, J, Q, K
		return blackjack.Stand
	}
}

// softAction is keyed by the soft total, which already counts one ace as 11.
func softAction(total, dealer int) blackjack.Action {
	switch {
	case total == 19:
		return blackjack.Stand
	case total >= 20:
		return blackjack.Stand
	case total == 18:
		switch dealer {
		case 3, 4, 5, 6:
			return blackjack.Double
		case 2, 7, 8:
			return blackjack.Stand
		default:
			return blackjack.Hit
		}
	default: // 17 or less
		if dealer == 5 || dealer == 6 {
			return blackjack.Double
		}
		return blackjack.Hit
	}
}

// hardAction keeps the 16 and 15 rows separate from the 13+ row.
func hardAction(total, dealer int) blackjack.Action {
	switch {
	case total >= 17:
		return blackjack.Stand
	case total == 16:
		if dealer <= 6 {
			return blackjack.Stand
		}
		return blackjack.Hit
	case total == 15:
		if dealer <= 6 {
			return blackjack.Stand
		}
		return blackjack.Hit
	case total >= 13:
		if dealer <= 6 {
			return blackjack.Stand
		}
		return blackjack.Hit
	case total == 12:
		if dealer >= 4 && dealer <= 6 {
			return blackjack.Stand
		}
		return blackjack.Hit
	case total == 11:
		return blackjack.Double
	case total == 10:
		if dealer <= 9 {
			return blackjack.Double
		}
		return blackjack.Hit
	case total == 9:
		if dealer >= 3 && dealer <= 6 {
			return blackjack.Double
		}
		return blackjack.Hit
	default:
		return blackjack.Hit
	}
}
