package main

import (
	"os"

	"github.com/lox/blackjackadvisor/internal/strategy"
)

// ChartCmd prints the strategy chart.
type ChartCmd struct{}

func (c *ChartCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	return strategy.RenderChart(os.Stdout, cfg.BlackjackRules())
}
