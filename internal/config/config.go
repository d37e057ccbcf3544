// Package config loads the HCL configuration file shared by every command.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/lox/blackjackadvisor/internal/session"
)

// DefaultFile is the configuration file used when none is given.
const DefaultFile = "blackjack.hcl"

// Config represents the complete configuration
type Config struct {
	Rules      *RulesConfig      `hcl:"rules,block"`
	Session    *SessionConfig    `hcl:"session,block"`
	Server     *ServerConfig     `hcl:"server,block"`
	Simulation *SimulationConfig `hcl:"simulation,block"`
}

// RulesConfig describes the table rules. Unset booleans take the defaults.
type RulesConfig struct {
	DealerHitsSoft17 *bool `hcl:"dealer_hits_soft_17,optional"`
	DoubleAfterSplit *bool `hcl:"double_after_split,optional"`
	Decks            int   `hcl:"decks,optional"`
}

// SessionConfig is the player's starting position
type SessionConfig struct {
	Bankroll int `hcl:"bankroll,optional"`
	BaseBet  int `hcl:"base_bet,optional"`
}

// ServerConfig contains server-level configuration
type ServerConfig struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// SimulationConfig sets the defaults for the simulate command
type SimulationConfig struct {
	Rounds  int   `hcl:"rounds,optional"`
	Workers int   `hcl:"workers,optional"`
	Seed    int64 `hcl:"seed,optional"`
}

// Default returns the default configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads configuration from an HCL file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	return decode(file, diags)
}

// Parse decodes configuration from HCL source.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	return decode(file, diags)
}

func decode(file *hcl.File, diags hcl.Diagnostics) (*Config, error) {
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := blackjack.DefaultRules()
	if c.Rules == nil {
		c.Rules = &RulesConfig{}
	}
	if c.Rules.DealerHitsSoft17 == nil {
		c.Rules.DealerHitsSoft17 = boolPtr(defaults.DealerHitsSoft17)
	}
	if c.Rules.DoubleAfterSplit == nil {
		c.Rules.DoubleAfterSplit = boolPtr(defaults.DoubleAfterSplit)
	}
	if c.Rules.Decks == 0 {
		c.Rules.Decks = defaults.Decks
	}

	if c.Session == nil {
		c.Session = &SessionConfig{}
	}
	if c.Session.Bankroll == 0 {
		c.Session.Bankroll = session.DefaultBankroll
	}
	if c.Session.BaseBet == 0 {
		c.Session.BaseBet = session.DefaultBaseBet
	}

	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.LogFile == "" {
		c.Server.LogFile = "blackjack.log"
	}

	if c.Simulation == nil {
		c.Simulation = &SimulationConfig{}
	}
	if c.Simulation.Rounds == 0 {
		c.Simulation.Rounds = 10000
	}
	if c.Simulation.Workers == 0 {
		c.Simulation.Workers = 4
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.BlackjackRules().Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	if err := c.SessionSettings().Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if c.Session.BaseBet > c.Session.Bankroll {
		return fmt.Errorf("session: base bet %d exceeds bankroll %d", c.Session.BaseBet, c.Session.Bankroll)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Simulation.Rounds < 0 {
		return fmt.Errorf("simulation: rounds must not be negative, got %d", c.Simulation.Rounds)
	}
	if c.Simulation.Workers < 1 {
		return fmt.Errorf("simulation: workers must be positive, got %d", c.Simulation.Workers)
	}
	return nil
}

// BlackjackRules returns the configured table rules.
func (c *Config) BlackjackRules() blackjack.Rules {
	return blackjack.Rules{
		DealerHitsSoft17: *c.Rules.DealerHitsSoft17,
		DoubleAfterSplit: *c.Rules.DoubleAfterSplit,
		Decks:            c.Rules.Decks,
	}
}

// SessionSettings returns the configured starting bankroll and base bet.
func (c *Config) SessionSettings() session.Config {
	return session.Config{
		Bankroll: c.Session.Bankroll,
		BaseBet:  c.Session.BaseBet,
	}
}

// ServerAddress returns the full server address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

func boolPtr(b bool) *bool {
	return &b
}
