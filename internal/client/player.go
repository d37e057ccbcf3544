package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackadvisor/internal/server"
)

// Player plays rounds on a server, following the advice the server sends
// with each round state.
type Player struct {
	client *Client
	bet    int
	logger *log.Logger
}

// NewPlayer creates a player betting bet per round; zero uses the
// server's base bet.
func NewPlayer(c *Client, bet int, logger *log.Logger) *Player {
	return &Player{
		client: c,
		bet:    bet,
		logger: logger.WithPrefix("player"),
	}
}

// PlayRound plays one round to its result.
func (p *Player) PlayRound(ctx context.Context) (server.RoundResultData, error) {
	msg, err := p.client.Request(ctx, server.MessageTypeStartRound, server.StartRoundData{Bet: p.bet})
	if err != nil {
		return server.RoundResultData{}, err
	}

	for {
		switch msg.Type {
		case server.MessageTypeRoundState:
			state, err := Decode[server.RoundStateData](msg)
			if err != nil {
				return server.RoundResultData{}, err
			}
			if state.ActiveHand < 0 {
				// The result follows on its own.
				msg, err = p.client.Next(ctx)
				if err != nil {
					return server.RoundResultData{}, err
				}
				continue
			}

			action := "ST"
			if state.Advice != nil && state.Advice.Play != "" {
				action = state.Advice.Play
			}
			p.logger.Debug("Acting", "round", state.RoundID, "hand", state.ActiveHand, "action", action)
			msg, err = p.client.Request(ctx, server.MessageTypeAction, server.ActionData{
				Hand:   state.ActiveHand,
				Action: action,
			})
			if err != nil {
				return server.RoundResultData{}, err
			}

		case server.MessageTypeRoundResult:
			return Decode[server.RoundResultData](msg)

		default:
			return server.RoundResultData{}, fmt.Errorf("unexpected %s message during a round", msg.Type)
		}
	}
}

// Play plays up to rounds rounds and returns the server's session stats. It
// stops early when the bankroll can no longer cover the bet.
func (p *Player) Play(ctx context.Context, rounds int) (server.StatsData, error) {
	for i := 0; i < rounds; i++ {
		result, err := p.PlayRound(ctx)
		if err != nil {
			var remote *RemoteError
			if errors.As(err, &remote) && remote.Code == "insufficient_bankroll" {
				p.logger.Warn("Out of money", "rounds", i)
				break
			}
			return server.StatsData{}, fmt.Errorf("round %d: %w", i+1, err)
		}
		p.logger.Info("Round complete", "round", result.RoundID, "net", result.Net, "bankroll", result.Bankroll)
	}

	msg, err := p.client.Request(ctx, server.MessageTypeStats, nil)
	if err != nil {
		return server.StatsData{}, err
	}
	return Decode[server.StatsData](msg)
}
