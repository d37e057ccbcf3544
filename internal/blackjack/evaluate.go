package blackjack

import "github.com/lox/blackjackadvisor/internal/deck"

// Evaluate returns the best total for cards and whether an ace is counted
// as eleven in that total.
//
// Every ace starts at one. If the running total leaves room, exactly one ace
// is promoted to eleven. A hand with several aces only counts as soft while
// the promoted total is 12 or less, so A,A is a soft 12 but A,A,9 is a hard 21.
func Evaluate(cards []deck.Rank) (value int, soft bool) {
	aces := 0
	for _, c := range cards {
		if c.IsAce() {
			aces++
		}
		value += c.Points()
	}

	if aces > 0 && value+10 <= 21 {
		value += 10
		soft = aces == 1 || value <= 12
	}
	return value, soft
}
