package strategy

import (
	"errors"
	"testing"

	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/lox/blackjackadvisor/internal/deck"
)

func hand(cards string) *blackjack.Hand {
	return blackjack.NewHand(0, deck.MustParseRanks(cards)...)
}

func TestDealerValue(t *testing.T) {
	tests := []struct {
		up   deck.Rank
		want int
	}{
		{deck.Two, 2},
		{deck.Nine, 9},
		{deck.Ten, 10},
		{deck.Jack, 10},
		{deck.Queen, 10},
		{deck.King, 10},
		{deck.Ace, 11},
	}
	for _, tt := range tests {
		if got := DealerValue(tt.up); got != tt.want {
			t.Errorf("DealerValue(%s) = %d, want %d", tt.up, got, tt.want)
		}
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name   string
		cards  string
		dealer string
		want   blackjack.Action
	}{
		// Pairs
		{"aces split vs ace", "A,A", "A", blackjack.Split},
		{"eights split vs 10", "8,8", "10", blackjack.Split},
		{"nines stand vs 7", "9,9", "7", blackjack.Stand},
		{"nines stand vs 10", "9,9", "K", blackjack.Stand},
		{"nines stand vs ace", "9,9", "A", blackjack.Stand},
		{"nines split vs 8", "9,9", "8", blackjack.Split},
		{"twos split vs 7", "2,2", "7", blackjack.Split},
		{"threes hit vs 8", "3,3", "8", blackjack.Hit},
		{"sevens split vs 7", "7,7", "7", blackjack.Split},
		{"sevens hit vs 8", "7,7", "8", blackjack.Hit},
		{"sixes split vs 6", "6,6", "6", blackjack.Split},
		{"sixes hit vs 7", "6,6", "7", blackjack.Hit},
		{"fives double vs 9", "5,5", "9", blackjack.Double},
		{"fives hit vs 10", "5,5", "10", blackjack.Hit},
		{"fours split vs 5", "4,4", "5", blackjack.Split},
		{"fours hit vs 4", "4,4", "4", blackjack.Hit},
		{"kings stand vs 6", "K,K", "6", blackjack.Stand},

		// Soft
		{"soft 20 stands", "A,9", "6", blackjack.Stand},
		{"soft 19 stands", "A,8", "6", blackjack.Stand},
		{"soft 18 doubles vs 3", "A,7", "3", blackjack.Double},
		{"soft 18 stands vs 2", "A,7", "2", blackjack.Stand},
		{"soft 18 stands vs 8", "A,7", "8", blackjack.Stand},
		{"soft 18 hits vs 9", "A,7", "9", blackjack.Hit},
		{"soft 18 hits vs ace", "A,7", "A", blackjack.Hit},
		{"soft 17 doubles vs 5", "A,6", "5", blackjack.Double},
		{"soft 13 hits vs 4", "A,2", "4", blackjack.Hit},
		{"three card soft 16", "A,2,3", "6", blackjack.Double},

		// Hard
		{"hard 17 stands vs ace", "10,7", "A", blackjack.Stand},
		{"hard 16 stands vs 6", "10,6", "6", blackjack.Stand},
		{"hard 16 hits vs 7", "10,6", "7", blackjack.Hit},
		{"hard 15 hits vs 10", "9,6", "Q", blackjack.Hit},
		{"hard 13 stands vs 2", "10,3", "2", blackjack.Stand},
		{"hard 12 hits vs 3", "10,2", "3", blackjack.Hit},
		{"hard 12 stands vs 4", "10,2", "4", blackjack.Stand},
		{"hard 11 doubles vs ace", "6,5", "A", blackjack.Double},
		{"hard 10 doubles vs 9", "6,4", "9", blackjack.Double},
		{"hard 10 hits vs 10", "6,4", "10", blackjack.Hit},
		{"hard 9 hits vs 2", "5,4", "2", blackjack.Hit},
		{"hard 9 doubles vs 3", "5,4", "3", blackjack.Double},
		{"hard 8 hits", "5,3", "6", blackjack.Hit},
		{"hard after soft collapse", "A,6,10", "7", blackjack.Stand},
		{"two aces and a nine stand", "A,A,9", "6", blackjack.Stand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up, err := deck.ParseRank(tt.dealer)
			if err != nil {
				t.Fatal(err)
			}
			if got := Recommend(hand(tt.cards), up); got != tt.want {
				t.Errorf("Recommend(%s vs %s) = %s, want %s", tt.cards, tt.dealer, got, tt.want)
			}
		})
	}
}

func TestRecommendPairsAgainstEveryDealerCard(t *testing.T) {
	for _, up := range deck.Ranks {
		if got := Recommend(hand("8,8"), up); got != blackjack.Split {
			t.Errorf("8,8 vs %s = %s, want SP", up, got)
		}
		if got := Recommend(hand("10,10"), up); got != blackjack.Stand {
			t.Errorf("10,10 vs %s = %s, want ST", up, got)
		}
	}
}

func TestRecommendHardMiddleRowsAgree(t *testing.T) {
	// 13 through 16 all stand against a weak dealer and hit otherwise.
	for total := 13; total <= 16; total++ {
		for _, up := range deck.Ranks {
			want := blackjack.Hit
			if DealerValue(up) <= 6 {
				want = blackjack.Stand
			}
			if got := hardAction(total, DealerValue(up)); got != want {
				t.Errorf("hard %d vs %s = %s, want %s", total, up, got, want)
			}
		}
	}
}

func TestRecommendIgnoresRules(t *testing.T) {
	// H17 table: soft 19 stands and a pair of fives doubles against a 6.
	adv := NewAdvisor(blackjack.Rules{DealerHitsSoft17: true, DoubleAfterSplit: true, Decks: 6})

	a, err := adv.AdviseCards("A,8", "6")
	if err != nil {
		t.Fatal(err)
	}
	if a.Action != "ST" {
		t.Errorf("A,8 vs 6 = %s, want ST", a.Action)
	}

	a, err = adv.AdviseCards("5,5", "6")
	if err != nil {
		t.Fatal(err)
	}
	if a.Action != "D" {
		t.Errorf("5,5 vs 6 = %s, want D", a.Action)
	}
}

func TestDescribe(t *testing.T) {
	tests := map[blackjack.Action]string{
		blackjack.Hit:       "Hit - Take another card",
		blackjack.Stand:     "Stand - Keep current hand",
		blackjack.Double:    "Double Down - Double bet, take one card",
		blackjack.Split:     "Split - Separate pair into two hands",
		blackjack.Action(9): "Unknown action",
	}
	for action, want := range tests {
		if got := Describe(action); got != want {
			t.Errorf("Describe(%d) = %q, want %q", int(action), got, want)
		}
	}
}

func TestInsuranceNote(t *testing.T) {
	if note := InsuranceNote(deck.Ace, hand("10,6")); len(note) == 0 {
		t.Error("expected an insurance note against a dealer ace")
	}
	if note := InsuranceNote(deck.King, hand("10,6")); note != nil {
		t.Errorf("unexpected note against a king: %v", note)
	}
	if note := InsuranceNote(deck.Ace, hand("10,6,K")); note != nil {
		t.Errorf("unexpected note for a busted hand: %v", note)
	}
}

func TestAdviseBustedHand(t *testing.T) {
	adv := NewAdvisor(blackjack.DefaultRules())

	a, err := adv.AdviseCards("10,6,9", "A")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Busted || a.Action != "" {
		t.Errorf("busted hand should get no action, got %+v", a)
	}
	if a.Insurance != nil {
		t.Error("busted hand should get no insurance note")
	}
}

func TestAdviseCardsErrors(t *testing.T) {
	adv := NewAdvisor(blackjack.DefaultRules())

	if _, err := adv.AdviseCards("K", "6"); err == nil {
		t.Error("expected error for a single card")
	}
	if _, err := adv.AdviseCards("K,X", "6"); !errors.Is(err, deck.ErrInvalidRank) {
		t.Errorf("expected ErrInvalidRank for player cards, got %v", err)
	}
	if _, err := adv.AdviseCards("K,6", "1"); !errors.Is(err, deck.ErrInvalidRank) {
		t.Errorf("expected ErrInvalidRank for dealer card, got %v", err)
	}
}

func TestPlayable(t *testing.T) {
	noDAS := blackjack.Rules{Decks: 6}

	a, note := Playable(hand("A,2,3"), blackjack.Double, noDAS)
	if a != blackjack.Hit || note == "" {
		t.Errorf("three-card double = %s %q, want H with note", a, note)
	}

	a, note = Playable(hand("6,5"), blackjack.Double, noDAS)
	if a != blackjack.Double || note != "" {
		t.Errorf("two-card double = %s %q, want D", a, note)
	}

	a, _ = Playable(hand("10,6"), blackjack.Stand, noDAS)
	if a != blackjack.Stand {
		t.Errorf("stand should pass through, got %s", a)
	}
}
