package simulator

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	return Config{
		Rounds:  2000,
		Workers: 4,
		Seed:    12345,
		Rules:   blackjack.DefaultRules(),
		BaseBet: 10,
		Clock:   quartz.NewMock(t),
		Logger:  log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel}),
	}
}

func TestNew(t *testing.T) {
	sim, err := New(Config{Seed: 7, Rules: blackjack.DefaultRules()})
	require.NoError(t, err)
	assert.Equal(t, int64(7), sim.Seed())
	assert.Equal(t, 1, sim.config.Workers)
	assert.Equal(t, 10, sim.config.BaseBet)

	_, err = New(Config{Rules: blackjack.Rules{Decks: 0}})
	assert.Error(t, err)

	_, err = New(Config{Rounds: -1, Rules: blackjack.DefaultRules()})
	assert.Error(t, err)
}

func TestNewPicksSeed(t *testing.T) {
	sim, err := New(Config{Rules: blackjack.DefaultRules()})
	require.NoError(t, err)
	assert.NotZero(t, sim.Seed())
}

func TestRun(t *testing.T) {
	sim, err := New(testConfig(t))
	require.NoError(t, err)

	result, err := sim.Run(context.Background())
	require.NoError(t, err)

	stats := result.Stats
	assert.Equal(t, 2000, stats.Rounds)
	assert.Equal(t, stats.Rounds, stats.Wins+stats.Losses+stats.Pushes)
	assert.GreaterOrEqual(t, stats.HandsDealt, stats.Rounds)
	assert.Greater(t, stats.Blackjacks, 0)
	assert.Greater(t, stats.Busts, 0)
	assert.Greater(t, result.Reshuffles, 0)
	assert.Zero(t, result.Elapsed, "mock clock does not advance")
	assert.NoError(t, stats.Validate())
}

func TestRunIsDeterministic(t *testing.T) {
	run := func() *Result {
		sim, err := New(testConfig(t))
		require.NoError(t, err)
		result, err := sim.Run(context.Background())
		require.NoError(t, err)
		return result
	}

	a, b := run(), run()
	assert.Equal(t, a.Stats.Net(), b.Stats.Net())
	assert.Equal(t, a.Stats.Values, b.Stats.Values)
	assert.Equal(t, a.Reshuffles, b.Reshuffles)
}

func TestRunSplitsRoundsAcrossWorkers(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rounds = 10
	cfg.Workers = 3

	sim, err := New(cfg)
	require.NoError(t, err)
	result, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, result.Stats.Rounds)
}

func TestRunHouseEdgeIsPlausible(t *testing.T) {
	if testing.Short() {
		t.Skip("long simulation")
	}
	cfg := testConfig(t)
	cfg.Rounds = 40000

	sim, err := New(cfg)
	require.NoError(t, err)
	result, err := sim.Run(context.Background())
	require.NoError(t, err)

	edge := result.EdgePercent()
	assert.Greater(t, edge, -5.0)
	assert.Less(t, edge, 4.0)
}

func TestRunCancelled(t *testing.T) {
	sim, err := New(testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = sim.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEdgePercent(t *testing.T) {
	sim, err := New(Config{Rounds: 0, Rules: blackjack.DefaultRules(), Clock: quartz.NewMock(t)})
	require.NoError(t, err)
	result, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.EdgePercent())
}
