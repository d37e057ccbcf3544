package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjackadvisor/internal/client"
)

// BotCmd plays rounds against a running server, following its advice.
type BotCmd struct {
	Server string `default:"ws://localhost:8080/ws" help:"WebSocket server URL"`
	Rounds int    `short:"n" default:"100" help:"Rounds to play"`
	Bet    int    `help:"Bet per round (0 for the server's base bet)"`
}

func (c *BotCmd) Run(g *Globals) error {
	logger := g.Logger(os.Stderr, "")

	ctx, cancel := signalContext(logger)
	defer cancel()

	conn := client.NewClient(c.Server, logger)
	if err := conn.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	stats, err := client.NewPlayer(conn, c.Bet, logger).Play(ctx, c.Rounds)
	if err != nil {
		return err
	}

	fmt.Printf("Rounds: %d | Wins: %d (%.1f%%) | Losses: %d | Pushes: %d\n",
		stats.Rounds, stats.Wins, stats.WinPercentage, stats.Losses, stats.Pushes)
	fmt.Printf("Blackjacks: %d | Busts: %d | Net: %+d | Bankroll: %d\n",
		stats.Blackjacks, stats.Busts, stats.Net, stats.Bankroll)
	return nil
}
