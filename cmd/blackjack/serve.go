package main

import (
	"os"

	"github.com/lox/blackjackadvisor/internal/server"
)

// ServeCmd runs the HTTP and WebSocket server.
type ServeCmd struct {
	Addr string `help:"Listen address (default from config)"`
	Seed int64  `help:"Base seed for connection shoes (0 for random)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	logger := g.Logger(os.Stderr, cfg.Server.LogLevel)

	addr := cfg.ServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	srv, err := server.NewServer(server.Config{
		Addr:    addr,
		Rules:   cfg.BlackjackRules(),
		Session: cfg.SessionSettings(),
		Seed:    c.Seed,
	}, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()
	return srv.Start(ctx)
}
