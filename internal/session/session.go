// Package session holds the per-player state a driver keeps between rounds:
// the bankroll, the base bet and the running statistics.
package session

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/lox/blackjackadvisor/internal/statistics"
	"github.com/lox/blackjackadvisor/internal/strategy"
)

const (
	DefaultBankroll = 1000
	DefaultBaseBet  = 10
	// LowBankroll is the level below which a warning is shown.
	LowBankroll = 100
)

// ErrInsufficientBankroll is returned when a bet exceeds the bankroll.
var ErrInsufficientBankroll = errors.New("insufficient bankroll")

// Config holds the starting position of a session.
type Config struct {
	Bankroll  int
	BaseBet   int
	// Unlimited lets the bankroll go negative. Simulations use it.
	Unlimited bool
}

// DefaultConfig returns a bankroll of 1000 with a base bet of 10.
func DefaultConfig() Config {
	return Config{Bankroll: DefaultBankroll, BaseBet: DefaultBaseBet}
}

// Validate checks the config is usable.
func (c Config) Validate() error {
	if c.BaseBet <= 0 {
		return fmt.Errorf("base bet must be positive, got %d", c.BaseBet)
	}
	if c.Bankroll < 0 {
		return fmt.Errorf("bankroll must not be negative, got %d", c.Bankroll)
	}
	return nil
}

// Change records how one round moved the bankroll.
type Change struct {
	Before int
	After  int
}

// Delta returns the signed change.
func (c Change) Delta() int {
	return c.After - c.Before
}

// String renders the change, e.g. "1000 → 1015 (+15)".
func (c Change) String() string {
	switch d := c.Delta(); {
	case d > 0:
		return fmt.Sprintf("%d → %d (+%d)", c.Before, c.After, d)
	case d < 0:
		return fmt.Sprintf("%d → %d (%d)", c.Before, c.After, d)
	default:
		return fmt.Sprintf("%d (no change)", c.After)
	}
}

// Session is one player's seat at a table. It is not safe for concurrent
// use; each driver goroutine owns its own session.
type Session struct {
	config   Config
	bankroll int
	stats    statistics.Statistics
	engine   *blackjack.Engine
	advisor  *strategy.Advisor
	logger   *log.Logger
}

// New creates a session playing on engine.
func New(engine *blackjack.Engine, config Config, logger *log.Logger) (*Session, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		config:   config,
		bankroll: config.Bankroll,
		engine:   engine,
		advisor:  strategy.NewAdvisor(engine.Rules()),
		logger:   logger.WithPrefix("session"),
	}, nil
}

// Engine returns the engine the session plays on.
func (s *Session) Engine() *blackjack.Engine {
	return s.engine
}

// Advisor returns the advisor for the session's rules.
func (s *Session) Advisor() *strategy.Advisor {
	return s.advisor
}

// Bankroll returns the current bankroll.
func (s *Session) Bankroll() int {
	return s.bankroll
}

// BaseBet returns the default bet.
func (s *Session) BaseBet() int {
	return s.config.BaseBet
}

// Stats returns a copy of the session statistics.
func (s *Session) Stats() statistics.Statistics {
	stats := s.stats
	stats.Values = append([]float64(nil), s.stats.Values...)
	return stats
}

// Deal starts a round. A bet of zero uses the base bet.
func (s *Session) Deal(bet int) error {
	if bet == 0 {
		bet = s.config.BaseBet
	}
	if bet < 0 {
		return fmt.Errorf("bet must be positive, got %d", bet)
	}
	if !s.config.Unlimited && bet > s.bankroll {
		return fmt.Errorf("%w: bet %d with bankroll %d", ErrInsufficientBankroll, bet, s.bankroll)
	}
	return s.engine.StartRound(bet)
}

// Advise returns the recommendation for the hand at index.
func (s *Session) Advise(index int) (strategy.Advice, error) {
	h, err := s.engine.Hand(index)
	if err != nil {
		return strategy.Advice{}, err
	}
	return s.advisor.Advise(h, s.engine.DealerUpCard()), nil
}

// Act applies a player action to the hand at index.
func (s *Session) Act(index int, action blackjack.Action) (bool, error) {
	return s.engine.Apply(index, action)
}

// Finish completes the round and records it.
func (s *Session) Finish() (blackjack.Result, Change, error) {
	result, err := s.engine.Finish()
	if err != nil {
		return blackjack.Result{}, Change{}, err
	}
	return result, s.Record(result), nil
}

// Record applies a settled round to the bankroll and statistics.
func (s *Session) Record(result blackjack.Result) Change {
	change := Change{Before: s.bankroll}
	s.bankroll += result.Net
	change.After = s.bankroll
	s.stats.Add(statistics.FromResult(result))

	s.logger.Debug("Recorded round",
		"round", result.RoundID,
		"net", result.Net,
		"bankroll", s.bankroll)
	return change
}

// Warning returns a bankroll warning, or "" when the bankroll is healthy.
func (s *Session) Warning() string {
	switch {
	case s.bankroll <= 0:
		return "You're out of money!"
	case s.bankroll < LowBankroll:
		return "Low bankroll warning!"
	default:
		return ""
	}
}

// AutoPlay plays a whole round with basic strategy and records it. The
// dealer's blackjack ends the round before the player acts.
func (s *Session) AutoPlay(bet int) (blackjack.Result, error) {
	if err := s.Deal(bet); err != nil {
		return blackjack.Result{}, err
	}

	if !s.engine.DealerHasBlackjack() {
		for {
			i, ok := s.engine.NextOpenHand()
			if !ok {
				break
			}
			h := s.engine.PlayerHands()[i]
			if h.IsBlackjack() {
				if _, err := s.engine.Apply(i, blackjack.Stand); err != nil {
					return blackjack.Result{}, err
				}
				continue
			}
			action := strategy.Recommend(h, s.engine.DealerUpCard())
			action, _ = strategy.Playable(h, action, s.engine.Rules())
			if _, err := s.engine.Apply(i, action); err != nil {
				return blackjack.Result{}, fmt.Errorf("auto play %s on %s: %w", action.Name(), h, err)
			}
		}
	}

	result, _, err := s.Finish()
	return result, err
}
