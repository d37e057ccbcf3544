package blackjack

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackadvisor/internal/deck"
	"github.com/lox/blackjackadvisor/internal/roundid"
)

var (
	// ErrIllegalAction is wrapped by every rejected Double or Split.
	ErrIllegalAction = errors.New("illegal action")
	// ErrHandIndex is returned when an action addresses a hand that does not exist.
	ErrHandIndex = errors.New("hand index out of range")
	// ErrWrongPhase is returned when an operation does not apply to the current phase.
	ErrWrongPhase = errors.New("operation not allowed in current phase")
)

// IllegalActionError describes a rejected action. The round is left unchanged.
type IllegalActionError struct {
	Action Action
	Index  int
	Reason string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("cannot %s hand %d: %s", e.Action.Name(), e.Index+1, e.Reason)
}

// Unwrap lets errors.Is match ErrIllegalAction.
func (e *IllegalActionError) Unwrap() error {
	return ErrIllegalAction
}

// Phase is the round lifecycle state.
type Phase int

const (
	PhaseDealing Phase = iota
	PhasePlayerActing
	PhaseDealerPlaying
	PhaseResolved
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseDealing:
		return "dealing"
	case PhasePlayerActing:
		return "player-acting"
	case PhaseDealerPlaying:
		return "dealer-playing"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Engine runs blackjack rounds against a shoe it owns exclusively.
type Engine struct {
	rules  Rules
	shoe   *deck.Shoe
	ids    *roundid.Generator
	logger *log.Logger

	roundID     string
	phase       Phase
	dealer      *Hand
	hands       []*Hand
	handsPlayed int
	counted     bool
}

// EngineOption configures an Engine during creation.
type EngineOption func(*engineConfig)

type engineConfig struct {
	logger *log.Logger
	shoe   *deck.Shoe
	ids    *roundid.Generator
}

// WithLogger sets the engine logger. The default discards debug output.
func WithLogger(logger *log.Logger) EngineOption {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithShoe supplies a prepared shoe, typically one with stacked cards.
func WithShoe(shoe *deck.Shoe) EngineOption {
	return func(c *engineConfig) {
		c.shoe = shoe
	}
}

// WithRoundIDs sets the generator used for round IDs.
func WithRoundIDs(g *roundid.Generator) EngineOption {
	return func(c *engineConfig) {
		c.ids = g
	}
}

// NewEngine validates rules and builds an engine with a freshly shuffled
// shoe drawn from rng.
func NewEngine(rules Rules, rng *rand.Rand, opts ...EngineOption) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}

	cfg := &engineConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.Default()
	}
	if cfg.ids == nil {
		cfg.ids = roundid.NewGenerator(nil, nil)
	}

	logger := cfg.logger.WithPrefix("engine")
	shoe := cfg.shoe
	if shoe == nil {
		if rng == nil {
			return nil, errors.New("rng is required when no shoe is supplied")
		}
		shoe = deck.NewShoe(rng, rules.Decks, deck.WithLogger(cfg.logger))
	}

	return &Engine{
		rules:  rules,
		shoe:   shoe,
		ids:    cfg.ids,
		logger: logger,
		phase:  PhaseResolved,
	}, nil
}

// Rules returns the engine's table rules.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Phase returns the current round phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// RoundID returns the identifier of the current or last round.
func (e *Engine) RoundID() string {
	return e.roundID
}

// HandsPlayed returns the number of rounds resolved by this engine.
func (e *Engine) HandsPlayed() int {
	return e.handsPlayed
}

// ShoeRemaining returns the number of undealt cards in the shoe.
func (e *Engine) ShoeRemaining() int {
	return e.shoe.Remaining()
}

// Reshuffles returns how many times the shoe has been rebuilt.
func (e *Engine) Reshuffles() int {
	return e.shoe.Reshuffles()
}

// DealerHand returns the dealer's hand.
func (e *Engine) DealerHand() *Hand {
	return e.dealer
}

// DealerUpCard returns the dealer's exposed card.
func (e *Engine) DealerUpCard() deck.Rank {
	if e.dealer == nil {
		return 0
	}
	return e.dealer.First()
}

// DealerHasBlackjack reports whether the dealer was dealt a natural.
func (e *Engine) DealerHasBlackjack() bool {
	return e.dealer != nil && e.dealer.IsBlackjack()
}

// PlayerHands returns the player's hands in hand-index order.
func (e *Engine) PlayerHands() []*Hand {
	return e.hands
}

// Hand returns the player hand at index.
func (e *Engine) Hand(index int) (*Hand, error) {
	if index < 0 || index >= len(e.hands) {
		return nil, fmt.Errorf("%w: %d (have %d hands)", ErrHandIndex, index, len(e.hands))
	}
	return e.hands[index], nil
}

// StartRound deals two cards to a new player hand carrying bet and two to
// the dealer. A bet of zero plays an advisory round.
func (e *Engine) StartRound(bet int) error {
	if bet < 0 {
		return fmt.Errorf("bet must not be negative, got %d", bet)
	}
	if e.phase == PhasePlayerActing || e.phase == PhaseDealerPlaying {
		e.logger.Warn("Abandoning unfinished round", "round", e.roundID, "phase", e.phase)
	}

	e.phase = PhaseDealing
	e.roundID = e.ids.New()
	e.counted = false

	p1, p2 := e.shoe.Draw(), e.shoe.Draw()
	d1, d2 := e.shoe.Draw(), e.shoe.Draw()
	e.hands = []*Hand{NewHand(bet, p1, p2)}
	e.dealer = NewHand(0, d1, d2)
	e.phase = PhasePlayerActing

	e.logger.Debug("Dealt round",
		"round", e.roundID,
		"player", e.hands[0].String(),
		"dealer_up", e.dealer.First(),
		"bet", bet)

	if e.dealer.IsBlackjack() {
		e.logger.Debug("Dealer has blackjack", "round", e.roundID, "player_blackjack", e.hands[0].IsBlackjack())
	}
	return nil
}

// Apply performs action on the hand at index and reports whether that hand
// is now complete. Illegal doubles and splits return an error wrapping
// ErrIllegalAction and leave the round untouched.
func (e *Engine) Apply(index int, action Action) (bool, error) {
	if e.phase != PhasePlayerActing {
		return false, fmt.Errorf("%w: %s during %s", ErrWrongPhase, action.Name(), e.phase)
	}
	h, err := e.Hand(index)
	if err != nil {
		return false, err
	}
	if h.IsComplete() {
		return true, &IllegalActionError{Action: action, Index: index, Reason: "hand is already complete"}
	}

	switch action {
	case Hit:
		h.AddCard(e.shoe.Draw())
		e.logger.Debug("Hit", "hand", index, "card", h.Last(), "value", h.Value())
		return h.IsBusted() || h.Stood(), nil

	case Stand:
		h.Stand()
		e.logger.Debug("Stand", "hand", index, "value", h.Value())
		return true, nil

	case Double:
		if h.Len() != 2 {
			return false, &IllegalActionError{Action: action, Index: index, Reason: "can only double on the first two cards"}
		}
		if h.FromSplit() && !e.rules.DoubleAfterSplit {
			return false, &IllegalActionError{Action: action, Index: index, Reason: "doubling after a split is not allowed"}
		}
		h.DoubleBet()
		h.AddCard(e.shoe.Draw())
		h.Stand()
		e.logger.Debug("Double", "hand", index, "card", h.Last(), "value", h.Value(), "bet", h.Bet())
		return true, nil

	case Split:
		if !h.IsPair() || h.Len() != 2 {
			return false, &IllegalActionError{Action: action, Index: index, Reason: "hand is not a pair"}
		}
		cards := h.Cards()
		first := newSplitHand(h.Bet(), cards[0], e.shoe.Draw())
		second := newSplitHand(h.Bet(), cards[1], e.shoe.Draw())

		hands := make([]*Hand, 0, len(e.hands)+1)
		hands = append(hands, e.hands[:index]...)
		hands = append(hands, first, second)
		hands = append(hands, e.hands[index+1:]...)
		e.hands = hands

		e.logger.Debug("Split", "hand", index, "first", first.String(), "second", second.String())
		return false, nil
	}

	return false, fmt.Errorf("%w: %d", ErrInvalidAction, int(action))
}

// AllHandsComplete reports whether every player hand has stood or busted.
func (e *Engine) AllHandsComplete() bool {
	for _, h := range e.hands {
		if !h.IsComplete() {
			return false
		}
	}
	return true
}

// NextOpenHand returns the lowest index of a hand still awaiting action.
func (e *Engine) NextOpenHand() (int, bool) {
	if e.phase != PhasePlayerActing {
		return 0, false
	}
	for i, h := range e.hands {
		if !h.IsComplete() {
			return i, true
		}
	}
	return 0, false
}

// PlayDealer draws dealer cards until the rules say stand.
func (e *Engine) PlayDealer() error {
	switch e.phase {
	case PhasePlayerActing:
	case PhaseDealerPlaying:
		return nil
	default:
		return fmt.Errorf("%w: dealer play during %s", ErrWrongPhase, e.phase)
	}

	e.phase = PhaseDealerPlaying
	for e.rules.DealerShouldHit(e.dealer) {
		e.dealer.AddCard(e.shoe.Draw())
	}
	e.logger.Debug("Dealer done", "round", e.roundID, "dealer", e.dealer.String())
	return nil
}

// Resolve settles every player hand against the current dealer hand. It
// does not change the hands, so repeated calls give the same Result. The
// first call of a round counts it towards HandsPlayed.
func (e *Engine) Resolve() Result {
	result := Result{
		RoundID: e.roundID,
		Hands:   make([]Outcome, 0, len(e.hands)),
	}
	if e.dealer == nil {
		return result
	}
	result.Dealer = e.dealer.Clone()

	for i, h := range e.hands {
		amount, label := DetermineOutcome(h, e.dealer)
		result.Hands = append(result.Hands, Outcome{
			Index:  i,
			Amount: amount,
			Label:  label,
			Hand:   h.Clone(),
		})
		result.Net += amount
	}

	if !e.counted {
		e.counted = true
		e.handsPlayed++
		e.logger.Debug("Round resolved", "round", e.roundID, "net", result.Net, "hands", len(result.Hands))
	}
	e.phase = PhaseResolved
	return result
}

// Finish plays the dealer's hand, unless every player hand has busted, and
// resolves the round.
func (e *Engine) Finish() (Result, error) {
	if e.phase == PhasePlayerActing && !e.allBusted() {
		if err := e.PlayDealer(); err != nil {
			return Result{}, err
		}
	}
	return e.Resolve(), nil
}

func (e *Engine) allBusted() bool {
	for _, h := range e.hands {
		if !h.IsBusted() {
			return false
		}
	}
	return true
}
