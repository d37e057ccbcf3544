package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjackadvisor/internal/strategy"
)

var (
	adviceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	bustStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// AdviseCmd recommends a play for one hand.
type AdviseCmd struct {
	Cards  []string `arg:"" help:"Player cards, e.g. 'A 7' or 'A,7'"`
	Dealer string   `short:"d" required:"" help:"Dealer up card"`
	JSON   bool     `help:"Print the advice as JSON"`
}

func (c *AdviseCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}

	advisor := strategy.NewAdvisor(cfg.BlackjackRules())
	advice, err := advisor.AdviseCards(strings.Join(c.Cards, ","), c.Dealer)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(advice)
	}
	return printAdvice(os.Stdout, advice)
}

func printAdvice(w io.Writer, a strategy.Advice) error {
	lines := []string{
		fmt.Sprintf("Your hand: %s", a.Hand),
		fmt.Sprintf("Dealer shows: %s", a.DealerUp),
	}
	if a.Busted {
		lines = append(lines, bustStyle.Render("BUSTED! There is nothing left to play."))
	} else {
		lines = append(lines, adviceStyle.Render("Recommended: "+a.Description))
		if a.Note != "" {
			lines = append(lines, a.Note)
		}
	}
	for _, line := range a.Insurance {
		lines = append(lines, noteStyle.Render(line))
	}
	lines = append(lines, noteStyle.Render(a.RulesNote))

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
