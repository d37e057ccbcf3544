package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/lox/blackjackadvisor/internal/session"
	"github.com/lox/blackjackadvisor/internal/strategy"
)

var helpLines = []string{
	"Commands:",
	"  deal [bet]     deal a new round (Enter also deals)",
	"  h, hit         take another card",
	"  st, stand      keep the current hand",
	"  d, double      double the bet and take one card",
	"  sp, split      split a pair into two hands",
	"  ?, advise      show the basic strategy play",
	"  stats          show session statistics",
	"  bankroll       show the bankroll",
	"  quit           leave the table",
}

// Execute runs one line of player input and reports whether the player
// asked to quit. An empty line deals when no round is in play.
func (m *Model) Execute(input string) bool {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		if _, ok := m.openHand(); ok {
			m.showAdvice(false)
		} else {
			m.deal(nil)
		}
		return false
	}

	cmd, args := fields[0], fields[1:]
	m.logger.Debug("Command", "cmd", cmd, "args", args)

	switch cmd {
	case "quit", "q", "exit":
		m.AddLogEntry("Thanks for playing!")
		return true
	case "deal", "new", "n":
		m.deal(args)
	case "h", "hit", "st", "stand", "d", "double", "sp", "split":
		m.act(cmd)
	case "?", "a", "advise":
		m.showAdvice(false)
	case "stats":
		m.showStats()
	case "bankroll", "b":
		m.AddLogEntry(fmt.Sprintf("Bankroll: %d (base bet %d)", m.session.Bankroll(), m.session.BaseBet()))
	case "help":
		for _, line := range helpLines {
			m.addStyled(InfoStyle, line)
		}
	default:
		m.addStyled(ErrorStyle, fmt.Sprintf("Unknown command %q. Type 'help' for commands.", cmd))
	}
	return false
}

// openHand returns the hand awaiting a decision, if a round is in play.
func (m *Model) openHand() (int, bool) {
	engine := m.session.Engine()
	if engine.Phase() != blackjack.PhasePlayerActing {
		return 0, false
	}
	return engine.NextOpenHand()
}

func (m *Model) deal(args []string) {
	engine := m.session.Engine()
	if engine.Phase() == blackjack.PhasePlayerActing {
		m.addStyled(ErrorStyle, "Finish the current round first.")
		return
	}

	bet := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			m.addStyled(ErrorStyle, fmt.Sprintf("Invalid bet %q: use a positive whole number.", args[0]))
			return
		}
		bet = n
	}

	reshuffles := engine.Reshuffles()
	if err := m.session.Deal(bet); err != nil {
		if errors.Is(err, session.ErrInsufficientBankroll) {
			m.addStyled(ErrorStyle, fmt.Sprintf("Not enough money: bankroll is %d.", m.session.Bankroll()))
			return
		}
		m.addStyled(ErrorStyle, err.Error())
		return
	}
	m.round++

	m.AddLogEntry("")
	m.addStyled(HeaderStyle, fmt.Sprintf(" Round %d - bet %d ", m.round, engine.PlayerHands()[0].Bet()))
	if engine.Reshuffles() != reshuffles {
		m.addStyled(InfoStyle, "Shuffling a fresh shoe...")
	}
	m.AddLogEntry(fmt.Sprintf("Dealer shows: %s", engine.DealerUpCard()))

	if engine.DealerHasBlackjack() {
		m.AddLogEntry(fmt.Sprintf("Your hand: %s", engine.PlayerHands()[0]))
		m.addStyled(ErrorStyle, "Dealer has blackjack!")
		m.finishRound()
		return
	}
	m.showAdvice(true)
}

func (m *Model) act(code string) {
	i, ok := m.openHand()
	if !ok {
		m.addStyled(ErrorStyle, "No hand in play. Press Enter or type 'deal' to start a round.")
		return
	}

	action, err := blackjack.ParseAction(code)
	if err != nil {
		m.addStyled(ErrorStyle, err.Error())
		return
	}

	engine := m.session.Engine()
	if _, err := m.session.Act(i, action); err != nil {
		var illegal *blackjack.IllegalActionError
		if errors.As(err, &illegal) {
			m.addStyled(ErrorStyle, fmt.Sprintf("Cannot %s: %s.", action.Name(), illegal.Reason))
			return
		}
		m.addStyled(ErrorStyle, err.Error())
		return
	}

	hands := engine.PlayerHands()
	switch action {
	case blackjack.Split:
		m.AddLogEntry(fmt.Sprintf("You split: hand %d %s, hand %d %s", i+1, hands[i], i+2, hands[i+1]))
	default:
		m.AddLogEntry(fmt.Sprintf("You %s: %s", action.Name(), hands[i]))
		if hands[i].IsBusted() {
			m.addStyled(ErrorStyle, "BUSTED!")
		}
	}

	if engine.AllHandsComplete() {
		m.finishRound()
		return
	}
	m.showAdvice(false)
}

func (m *Model) showAdvice(withInsurance bool) {
	i, ok := m.openHand()
	if !ok {
		m.addStyled(ErrorStyle, "No hand in play. Press Enter or type 'deal' to start a round.")
		return
	}

	adv, err := m.session.Advise(i)
	if err != nil {
		m.addStyled(ErrorStyle, err.Error())
		return
	}

	label := "Your hand"
	if len(m.session.Engine().PlayerHands()) > 1 {
		label = fmt.Sprintf("Hand %d", i+1)
	}
	m.AddLogEntry(fmt.Sprintf("%s: %s", label, adv.Hand))

	if withInsurance {
		for _, line := range adv.Insurance {
			m.addStyled(InfoStyle, line)
		}
	}
	m.addStyled(AdviceStyle, "Recommended: "+adv.Description)
	if adv.Note != "" {
		m.addStyled(WarningStyle, adv.Note)
	}
}

func (m *Model) finishRound() {
	result, change, err := m.session.Finish()
	if err != nil {
		m.addStyled(ErrorStyle, err.Error())
		return
	}

	m.AddLogEntry(fmt.Sprintf("Dealer: %s", result.Dealer))
	for _, o := range result.Hands {
		line := fmt.Sprintf("Hand %d: %s (%+d)", o.Index+1, o.Label, o.Amount)
		switch {
		case o.Label.IsWin():
			m.addStyled(SuccessStyle, line)
		case o.Label.IsLoss():
			m.addStyled(ErrorStyle, line)
		default:
			m.addStyled(InfoStyle, line)
		}
	}
	m.AddLogEntry("Bankroll: " + change.String())
	if warning := m.session.Warning(); warning != "" {
		m.addStyled(WarningStyle, warning)
	}
}

func (m *Model) showStats() {
	s := m.session.Stats()
	m.AddLogEntry(fmt.Sprintf("Rounds: %d | Wins: %d (%.1f%%) | Losses: %d | Pushes: %d",
		s.Rounds, s.Wins, s.WinPercentage(), s.Losses, s.Pushes))
	m.AddLogEntry(fmt.Sprintf("Blackjacks: %d | Busts: %d | Doubles: %d | Splits: %d",
		s.Blackjacks, s.Busts, s.Doubles, s.Splits))
	m.AddLogEntry(fmt.Sprintf("Net: %+d | Bankroll: %d", s.Net(), m.session.Bankroll()))
	m.addStyled(InfoStyle, strategy.Soft17Note(m.session.Engine().Rules()))
}
