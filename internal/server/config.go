package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/majkelowskiii/jack-of-all-trades/internal/blackjack"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server  ServerSettings   `hcl:"server,block"`
	Session *SessionDefaults `hcl:"session,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// SessionDefaults seeds the blackjack table rules used when a config
// request leaves fields unset.
type SessionDefaults struct {
	Bankroll         int     `hcl:"bankroll,optional"`
	ShoeDecks        int     `hcl:"shoe_decks,optional"`
	MinBet           int     `hcl:"min_bet,optional"`
	MaxBet           int     `hcl:"max_bet,optional"`
	DealerHitsSoft17 bool    `hcl:"dealer_hits_soft17,optional"`
	CutCardRatio     float64 `hcl:"cut_card_ratio,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
			LogFile:  "trainer-server.log",
		},
		Session: &SessionDefaults{
			Bankroll:  blackjack.DefaultBankroll,
			ShoeDecks: blackjack.DefaultDecks,
			MinBet:    blackjack.DefaultMinBet,
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A
// missing file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.LogFile == "" {
		config.Server.LogFile = "trainer-server.log"
	}
	if config.Session == nil {
		config.Session = &SessionDefaults{}
	}
	if config.Session.Bankroll == 0 {
		config.Session.Bankroll = blackjack.DefaultBankroll
	}
	if config.Session.ShoeDecks == 0 {
		config.Session.ShoeDecks = blackjack.DefaultDecks
	}
	if config.Session.MinBet == 0 {
		config.Session.MinBet = blackjack.DefaultMinBet
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Session != nil {
		if c.Session.Bankroll < 0 {
			return fmt.Errorf("session bankroll cannot be negative")
		}
		if c.Session.ShoeDecks < 0 {
			return fmt.Errorf("session shoe_decks cannot be negative")
		}
		if c.Session.MinBet < 0 || c.Session.MaxBet < 0 {
			return fmt.Errorf("session bet limits cannot be negative")
		}
		if c.Session.MaxBet > 0 && c.Session.MinBet > c.Session.MaxBet {
			return fmt.Errorf("session min_bet cannot exceed max_bet")
		}
		if c.Session.CutCardRatio < 0 || c.Session.CutCardRatio > 1 {
			return fmt.Errorf("session cut_card_ratio must be in [0, 1]")
		}
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// BlackjackConfig builds the table ruleset from the session defaults
func (c *ServerConfig) BlackjackConfig() blackjack.Config {
	if c.Session == nil {
		return blackjack.Config{}
	}
	return blackjack.Config{
		Bankroll:         c.Session.Bankroll,
		ShoeDecks:        c.Session.ShoeDecks,
		MinBet:           c.Session.MinBet,
		MaxBet:           c.Session.MaxBet,
		DealerHitsSoft17: c.Session.DealerHitsSoft17,
		CutCardRatio:     c.Session.CutCardRatio,
	}
}
