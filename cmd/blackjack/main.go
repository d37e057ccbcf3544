package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Advise   AdviseCmd        `cmd:"" help:"Recommend a play for a hand"`
	Chart    ChartCmd         `cmd:"" help:"Print the basic strategy chart"`
	Play     PlayCmd          `cmd:"" help:"Play interactively with strategy advice"`
	Simulate SimulateCmd      `cmd:"" help:"Play many rounds with basic strategy and report the results"`
	Serve    ServeCmd         `cmd:"" help:"Serve the advisor over HTTP and WebSocket"`
	Bot      BotCmd           `cmd:"" help:"Play rounds on a server by following its advice"`
}

func main() {
	// A missing .env is fine; values already in the environment win.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack basic strategy advisor"),
		kong.UsageOnError(),
		kong.DefaultEnvars("BLACKJACK"),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
