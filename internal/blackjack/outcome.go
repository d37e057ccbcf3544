package blackjack

// OutcomeLabel names the branch of the resolution chain that decided a hand.
type OutcomeLabel string

const (
	LabelBlackjackWin        OutcomeLabel = "BLACKJACK WIN"
	LabelWin                 OutcomeLabel = "WIN"
	LabelPush                OutcomeLabel = "PUSH"
	LabelBustLoss            OutcomeLabel = "BUST LOSS"
	LabelDealerBlackjackLoss OutcomeLabel = "DEALER BLACKJACK LOSS"
	LabelLoss                OutcomeLabel = "LOSS"
)

// String returns the label text.
func (l OutcomeLabel) String() string {
	return string(l)
}

// IsWin reports whether the label is a winning outcome.
func (l OutcomeLabel) IsWin() bool {
	return l == LabelWin || l == LabelBlackjackWin
}

// IsLoss reports whether the label is a losing outcome.
func (l OutcomeLabel) IsLoss() bool {
	return l == LabelLoss || l == LabelBustLoss || l == LabelDealerBlackjackLoss
}

// Outcome is the settled result of one player hand.
type Outcome struct {
	Index  int          // position of the hand in the round
	Amount int          // net units won (positive) or lost (negative)
	Label  OutcomeLabel // which rule decided the hand
	Hand   *Hand        // snapshot of the player hand
}

// Result is the settled round: one Outcome per player hand plus the net.
type Result struct {
	RoundID string
	Hands   []Outcome
	Dealer  *Hand
	Net     int
}

// Wins counts the hands that won money.
func (r Result) Wins() int {
	n := 0
	for _, o := range r.Hands {
		if o.Amount > 0 {
			n++
		}
	}
	return n
}

// Losses counts the hands that lost money.
func (r Result) Losses() int {
	n := 0
	for _, o := range r.Hands {
		if o.Amount < 0 {
			n++
		}
	}
	return n
}

// Pushes counts the hands that broke even.
func (r Result) Pushes() int {
	return len(r.Hands) - r.Wins() - r.Losses()
}

// effectiveBet values an advisory hand (bet 0) as one unit.
func effectiveBet(h *Hand) int {
	if h.Bet() > 0 {
		return h.Bet()
	}
	return 1
}

// DetermineOutcome settles a player hand against the final dealer hand.
//
// The checks run in a fixed order: player bust, dealer bust, player
// blackjack (push against a dealer blackjack, otherwise paid 3:2 rounded
// down), dealer blackjack, then a plain comparison of totals.
func DetermineOutcome(player, dealer *Hand) (int, OutcomeLabel) {
	bet := effectiveBet(player)

	switch {
	case player.IsBusted():
		return -bet, LabelBustLoss
	case dealer.IsBusted():
		return bet, LabelWin
	case player.IsBlackjack():
		if dealer.IsBlackjack() {
			return 0, LabelPush
		}
		return bet * 3 / 2, LabelBlackjackWin
	case dealer.IsBlackjack():
		return -bet, LabelDealerBlackjackLoss
	}

	pv, dv := player.Value(), dealer.Value()
	switch {
	case pv > dv:
		return bet, LabelWin
	case pv < dv:
		return -bet, LabelLoss
	default:
		return 0, LabelPush
	}
}
