package deck

import (
	"testing"

	"github.com/lox/blackjackadvisor/internal/randutil"
)

func TestNewShoeComposition(t *testing.T) {
	for _, decks := range []int{1, 2, 6, 8} {
		shoe := NewShoe(randutil.New(int64(decks)), decks)
		if shoe.Remaining() != decks*52 {
			t.Fatalf("%d decks: remaining = %d, want %d", decks, shoe.Remaining(), decks*52)
		}

		counts := make(map[Rank]int)
		for _, r := range shoe.cards {
			counts[r]++
		}
		for _, r := range Ranks {
			if counts[r] != decks*4 {
				t.Errorf("%d decks: %d copies of %v, want %d", decks, counts[r], r, decks*4)
			}
		}
	}
}

func TestShoeDrawTracksDiscards(t *testing.T) {
	shoe := NewShoe(randutil.New(1), 1)
	for i := 0; i < 10; i++ {
		if r := shoe.Draw(); !r.Valid() {
			t.Fatalf("draw %d returned invalid rank %v", i, r)
		}
	}
	if shoe.Remaining() != 42 {
		t.Errorf("remaining = %d, want 42", shoe.Remaining())
	}
	if shoe.Discarded() != 10 {
		t.Errorf("discarded = %d, want 10", shoe.Discarded())
	}
	if shoe.Remaining()+shoe.Discarded() != shoe.Size() {
		t.Errorf("remaining + discarded should equal shoe size")
	}
}

func TestShoeReshufflesBelowThreshold(t *testing.T) {
	shoe := NewShoe(randutil.New(7), 1)

	// Draw down to exactly the threshold: no reshuffle yet.
	for shoe.Remaining() > ReshuffleThreshold {
		shoe.Draw()
	}
	shoe.Draw()
	if shoe.Reshuffles() != 0 {
		t.Fatalf("reshuffled too early at %d remaining", shoe.Remaining()+1)
	}
	if shoe.Remaining() != ReshuffleThreshold-1 {
		t.Fatalf("remaining = %d, want %d", shoe.Remaining(), ReshuffleThreshold-1)
	}

	// The next draw finds fewer than the threshold and rebuilds first.
	shoe.Draw()
	if shoe.Reshuffles() != 1 {
		t.Fatalf("reshuffles = %d, want 1", shoe.Reshuffles())
	}
	if shoe.Remaining() != 51 {
		t.Errorf("remaining after reshuffle draw = %d, want 51", shoe.Remaining())
	}
	if shoe.Discarded() != 1 {
		t.Errorf("discard pile should be cleared on reshuffle, got %d", shoe.Discarded())
	}
}

func TestShoeNeverRunsDry(t *testing.T) {
	shoe := NewShoe(randutil.New(3), 1)
	for i := 0; i < 10000; i++ {
		shoe.Draw()
		if shoe.Remaining() < ReshuffleThreshold-1 {
			t.Fatalf("draw %d left %d cards", i, shoe.Remaining())
		}
	}
}

func TestShoeStack(t *testing.T) {
	shoe := NewShoe(randutil.New(11), 6)
	want := []Rank{Ace, Eight, Six, Ace, Ace}
	if err := shoe.Stack(want...); err != nil {
		t.Fatalf("Stack failed: %v", err)
	}
	if shoe.Remaining() != 312 {
		t.Fatalf("stacking changed the shoe size to %d", shoe.Remaining())
	}
	for i, w := range want {
		if got := shoe.Draw(); got != w {
			t.Errorf("draw %d = %v, want %v", i, got, w)
		}
	}
}

func TestShoeStackFailsWhenExhausted(t *testing.T) {
	shoe := NewShoe(randutil.New(5), 1)
	aces := make([]Rank, 5)
	for i := range aces {
		aces[i] = Ace
	}
	before := append([]Rank(nil), shoe.cards...)
	if err := shoe.Stack(aces...); err == nil {
		t.Fatal("expected error stacking five aces from a single deck")
	}
	for i := range before {
		if before[i] != shoe.cards[i] {
			t.Fatal("failed Stack must leave the shoe unchanged")
		}
	}
}

func TestShoeShuffleIsSeeded(t *testing.T) {
	a := NewShoe(randutil.New(99), 2)
	b := NewShoe(randutil.New(99), 2)
	for i := 0; i < 50; i++ {
		if a.Draw() != b.Draw() {
			t.Fatalf("same seed produced different draw at %d", i)
		}
	}
}
