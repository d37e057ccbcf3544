package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, blackjack.DefaultRules(), c.BlackjackRules())
	assert.Equal(t, 1000, c.Session.Bankroll)
	assert.Equal(t, 10, c.Session.BaseBet)
	assert.Equal(t, "localhost:8080", c.ServerAddress())
	assert.Equal(t, 10000, c.Simulation.Rounds)
	assert.NoError(t, c.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	src := `
rules {
  dealer_hits_soft_17 = true
  double_after_split  = false
  decks               = 2
}

session {
  bankroll = 500
}

server {
  port = 9090
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, blackjack.Rules{DealerHitsSoft17: true, DoubleAfterSplit: false, Decks: 2}, c.BlackjackRules())
	assert.Equal(t, 500, c.Session.Bankroll)
	assert.Equal(t, 10, c.Session.BaseBet, "base bet keeps its default")
	assert.Equal(t, "localhost:9090", c.ServerAddress())
}

func TestParsePartialRules(t *testing.T) {
	c, err := Parse([]byte(`rules { decks = 1 }`), "test.hcl")
	require.NoError(t, err)

	rules := c.BlackjackRules()
	assert.Equal(t, 1, rules.Decks)
	assert.False(t, rules.DealerHitsSoft17)
	assert.True(t, rules.DoubleAfterSplit)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `rules {`},
		{"unknown attribute", `rules { surrender = true }`},
		{"too many decks", `rules { decks = 9 }`},
		{"negative decks", `rules { decks = -1 }`},
		{"bet over bankroll", `session {
  bankroll = 50
  base_bet = 100
}`},
		{"bad port", `server { port = 70000 }`},
		{"negative rounds", `simulation { rounds = -5 }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "test.hcl")
			assert.Error(t, err)
		})
	}
}
