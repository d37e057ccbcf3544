package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/blackjackadvisor/internal/report"
	"github.com/lox/blackjackadvisor/internal/simulator"
)

// SimulateCmd plays many rounds with basic strategy.
type SimulateCmd struct {
	Rounds  int           `short:"n" help:"Rounds to play (default from config)"`
	Workers int           `short:"w" help:"Parallel workers (default from config)"`
	Seed    int64         `help:"Base seed (0 for config, then random)"`
	Bet     int           `help:"Units bet per round (default from config)"`
	Timeout time.Duration `help:"Abort after this long (0 for no limit)"`
	Out     string        `short:"o" help:"Write a JSON report to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	logger := g.Logger(os.Stderr, cfg.Server.LogLevel)

	sc := simulator.Config{
		Rounds:  cfg.Simulation.Rounds,
		Workers: cfg.Simulation.Workers,
		Seed:    cfg.Simulation.Seed,
		Rules:   cfg.BlackjackRules(),
		BaseBet: cfg.Session.BaseBet,
		Timeout: c.Timeout,
		Logger:  logger,
	}
	if c.Rounds > 0 {
		sc.Rounds = c.Rounds
	}
	if c.Workers > 0 {
		sc.Workers = c.Workers
	}
	if c.Seed != 0 {
		sc.Seed = c.Seed
	}
	if c.Bet > 0 {
		sc.BaseBet = c.Bet
	}

	sim, err := simulator.New(sc)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	result, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed (seed %d): %w", sim.Seed(), err)
	}

	r := report.New(result)
	if err := r.WriteSummary(os.Stdout); err != nil {
		return err
	}
	if c.Out != "" {
		if err := r.WriteFile(c.Out); err != nil {
			return err
		}
		logger.Info("Wrote report", "file", c.Out)
	}
	return nil
}
