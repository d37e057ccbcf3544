package blackjack

import (
	"testing"

	"github.com/lox/blackjackadvisor/internal/deck"
)

func hand(bet int, cards string) *Hand {
	return NewHand(bet, deck.MustParseRanks(cards)...)
}

func TestDetermineOutcome(t *testing.T) {
	tests := []struct {
		name       string
		player     *Hand
		dealer     *Hand
		wantAmount int
		wantLabel  OutcomeLabel
	}{
		{
			name:       "player blackjack pays 3:2",
			player:     hand(10, "A,K"),
			dealer:     hand(0, "10,9"),
			wantAmount: 15,
			wantLabel:  LabelBlackjackWin,
		},
		{
			name:       "both blackjack push",
			player:     hand(10, "A,K"),
			dealer:     hand(0, "A,Q"),
			wantAmount: 0,
			wantLabel:  LabelPush,
		},
		{
			name:       "blackjack payout rounds down",
			player:     hand(5, "A,J"),
			dealer:     hand(0, "10,7"),
			wantAmount: 7,
			wantLabel:  LabelBlackjackWin,
		},
		{
			name:       "dealer blackjack beats 21",
			player:     hand(10, "7,7,7"),
			dealer:     hand(0, "A,K"),
			wantAmount: -10,
			wantLabel:  LabelDealerBlackjackLoss,
		},
		{
			name:       "player bust loses even if dealer busts",
			player:     hand(10, "10,6,9"),
			dealer:     hand(0, "10,6,8"),
			wantAmount: -10,
			wantLabel:  LabelBustLoss,
		},
		{
			name:       "dealer bust",
			player:     hand(10, "10,2"),
			dealer:     hand(0, "10,6,8"),
			wantAmount: 10,
			wantLabel:  LabelWin,
		},
		{
			name:       "dealer bust is checked before player blackjack",
			player:     hand(10, "A,K"),
			dealer:     hand(0, "10,6,8"),
			wantAmount: 10,
			wantLabel:  LabelWin,
		},
		{
			name:       "higher total wins",
			player:     hand(10, "10,9"),
			dealer:     hand(0, "10,8"),
			wantAmount: 10,
			wantLabel:  LabelWin,
		},
		{
			name:       "lower total loses",
			player:     hand(10, "10,7"),
			dealer:     hand(0, "10,8"),
			wantAmount: -10,
			wantLabel:  LabelLoss,
		},
		{
			name:       "equal totals push",
			player:     hand(10, "10,8"),
			dealer:     hand(0, "9,9"),
			wantAmount: 0,
			wantLabel:  LabelPush,
		},
		{
			name:       "advisory hand values a unit bet",
			player:     hand(0, "10,9"),
			dealer:     hand(0, "10,7"),
			wantAmount: 1,
			wantLabel:  LabelWin,
		},
		{
			name:       "advisory blackjack rounds down to one",
			player:     hand(0, "A,K"),
			dealer:     hand(0, "10,7"),
			wantAmount: 1,
			wantLabel:  LabelBlackjackWin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, label := DetermineOutcome(tt.player, tt.dealer)
			if amount != tt.wantAmount {
				t.Errorf("amount = %d, want %d", amount, tt.wantAmount)
			}
			if label != tt.wantLabel {
				t.Errorf("label = %s, want %s", label, tt.wantLabel)
			}
		})
	}
}

func TestOutcomeLabelBuckets(t *testing.T) {
	for _, l := range []OutcomeLabel{LabelWin, LabelBlackjackWin} {
		if !l.IsWin() || l.IsLoss() {
			t.Errorf("%s should be a win", l)
		}
	}
	for _, l := range []OutcomeLabel{LabelLoss, LabelBustLoss, LabelDealerBlackjackLoss} {
		if l.IsWin() || !l.IsLoss() {
			t.Errorf("%s should be a loss", l)
		}
	}
	if LabelPush.IsWin() || LabelPush.IsLoss() {
		t.Error("push is neither win nor loss")
	}
}

func TestResultCounts(t *testing.T) {
	r := Result{Hands: []Outcome{{Amount: 10}, {Amount: -10}, {Amount: 0}, {Amount: 15}}}
	if r.Wins() != 2 || r.Losses() != 1 || r.Pushes() != 1 {
		t.Errorf("wins/losses/pushes = %d/%d/%d, want 2/1/1", r.Wins(), r.Losses(), r.Pushes())
	}
}
