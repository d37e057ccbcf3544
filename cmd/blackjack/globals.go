package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackadvisor/internal/config"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config string `short:"c" default:"blackjack.hcl" help:"HCL configuration file (defaults apply when it does not exist)"`
	Debug  bool   `help:"Enable debug logging"`
}

// LoadConfig reads the configuration file.
func (g *Globals) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", g.Config, err)
	}
	return cfg, nil
}

// Logger returns a logger writing to w at level, or debug with --debug.
func (g *Globals) Logger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	switch {
	case g.Debug:
		logger.SetLevel(log.DebugLevel)
	case level == "":
		logger.SetLevel(log.InfoLevel)
	default:
		lvl, err := log.ParseLevel(level)
		if err != nil {
			lvl = log.InfoLevel
		}
		logger.SetLevel(lvl)
	}
	return logger
}

// signalContext returns a context cancelled on interrupt or SIGTERM.
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
