package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/lox/blackjackadvisor/internal/randutil"
	"github.com/lox/blackjackadvisor/internal/session"
	"github.com/lox/blackjackadvisor/internal/tui"
)

// PlayCmd runs the interactive table.
type PlayCmd struct {
	Bankroll int    `help:"Starting bankroll (default from config)"`
	Bet      int    `help:"Base bet (default from config)"`
	Seed     int64  `help:"Shoe seed (0 for random)"`
	LogFile  string `help:"Log file (default from config)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}

	// The screen belongs to the TUI, so logs go to a file.
	logPath := cfg.Server.LogFile
	if c.LogFile != "" {
		logPath = c.LogFile
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	logger := g.Logger(logFile, cfg.Server.LogLevel)

	settings := cfg.SessionSettings()
	if c.Bankroll > 0 {
		settings.Bankroll = c.Bankroll
	}
	if c.Bet > 0 {
		settings.BaseBet = c.Bet
	}

	seed := randutil.Seed(c.Seed)
	logger.Info("Starting play session", "rules", cfg.BlackjackRules().String(), "seed", seed,
		"bankroll", settings.Bankroll, "base_bet", settings.BaseBet)

	engine, err := blackjack.NewEngine(cfg.BlackjackRules(), randutil.New(seed), blackjack.WithLogger(logger))
	if err != nil {
		return err
	}
	sess, err := session.New(engine, settings, logger)
	if err != nil {
		return err
	}

	if err := tui.Run(sess, logger); err != nil {
		return err
	}

	stats := sess.Stats()
	fmt.Printf("Played %d rounds. Final bankroll: %d (%+d)\n", stats.Rounds, sess.Bankroll(), stats.Net())
	return nil
}
