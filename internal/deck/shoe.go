package deck

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
)

// ReshuffleThreshold is the low-water mark: a draw that finds fewer cards
// than this in the shoe rebuilds and reshuffles it first.
const ReshuffleThreshold = 20

// Shoe is the drawable stock for one or more decks. The last element of
// cards is the next card drawn.
type Shoe struct {
	decks      int
	cards      []Rank
	discarded  int
	reshuffles int
	rng        *rand.Rand
	logger     *log.Logger
}

// ShoeOption configures a Shoe during creation.
type ShoeOption func(*Shoe)

// WithLogger logs reshuffles to the given logger.
func WithLogger(logger *log.Logger) ShoeOption {
	return func(s *Shoe) {
		s.logger = logger.WithPrefix("shoe")
	}
}

// NewShoe creates a shuffled shoe of decks×52 cards. The RNG is required to
// keep shuffles reproducible in tests.
func NewShoe(rng *rand.Rand, decks int, opts ...ShoeOption) *Shoe {
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	if decks <= 0 {
		panic("shoe needs at least one deck")
	}

	s := &Shoe{
		decks: decks,
		cards: make([]Rank, 0, decks*52),
		rng:   rng,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rebuild()
	return s
}

// rebuild refills the shoe with decks×4 copies of each rank, shuffles it and
// clears the discard pile.
func (s *Shoe) rebuild() {
	s.cards = s.cards[:0]
	for d := 0; d < s.decks; d++ {
		for suit := 0; suit < 4; suit++ {
			s.cards = append(s.cards, Ranks...)
		}
	}
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
	s.discarded = 0
}

// Draw removes and returns the next card, reshuffling first when the shoe
// has fallen below ReshuffleThreshold.
func (s *Shoe) Draw() Rank {
	if len(s.cards) < ReshuffleThreshold {
		s.rebuild()
		s.reshuffles++
		if s.logger != nil {
			s.logger.Debug("Reshuffling the shoe", "decks", s.decks, "reshuffles", s.reshuffles)
		}
	}

	last := len(s.cards) - 1
	card := s.cards[last]
	s.cards = s.cards[:last]
	s.discarded++
	return card
}

// Stack moves the given ranks to the top of the shoe so that they are the
// next cards drawn, in order. The shoe's composition is unchanged; an error
// is returned if the shoe does not hold enough copies of a rank. Stacked
// cards are lost if the shoe drops below ReshuffleThreshold before they are drawn.
func (s *Shoe) Stack(ranks ...Rank) error {
	remaining := make([]Rank, len(s.cards))
	copy(remaining, s.cards)

	for _, r := range ranks {
		idx := -1
		for i := len(remaining) - 1; i >= 0; i-- {
			if remaining[i] == r {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("cannot stack %s: no copies left in shoe", r)
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	// Drawing pops from the end, so the stacked cards go on in reverse.
	for i := len(ranks) - 1; i >= 0; i-- {
		remaining = append(remaining, ranks[i])
	}
	s.cards = remaining
	return nil
}

// Remaining returns the number of cards left in the shoe.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Discarded returns the number of cards drawn since the last reshuffle.
func (s *Shoe) Discarded() int {
	return s.discarded
}

// Reshuffles returns how many times the shoe has been rebuilt after creation.
func (s *Shoe) Reshuffles() int {
	return s.reshuffles
}

// Decks returns the number of decks in the shoe.
func (s *Shoe) Decks() int {
	return s.decks
}

// Size returns the full size of the shoe, decks×52.
func (s *Shoe) Size() int {
	return s.decks * 52
}
