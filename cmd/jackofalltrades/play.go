package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/majkelowskiii/jack-of-all-trades/internal/blackjack"
	"github.com/majkelowskiii/jack-of-all-trades/internal/randutil"
	"github.com/majkelowskiii/jack-of-all-trades/internal/tui"
)

// PlayCmd plays blackjack locally in the terminal
type PlayCmd struct {
	Bankroll  int    `kong:"default='1000',help='Starting bankroll in chips'"`
	Decks     int    `kong:"default='5',help='Number of decks in the shoe'"`
	MinBet    int    `kong:"default='10',help='Table minimum bet'"`
	MaxBet    int    `kong:"default='0',help='Table maximum bet (0 = bankroll)'"`
	HitSoft17 bool   `kong:"help='Dealer hits soft 17'"`
	Seed      *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Debug     bool   `kong:"help='Enable debug logging'"`
}

func (c *PlayCmd) Run() error {
	logger := setupLogger(c.Debug)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	manager := blackjack.NewManager(logger, randutil.New(seed))
	err := manager.Configure(blackjack.Config{
		Bankroll:         c.Bankroll,
		ShoeDecks:        c.Decks,
		MinBet:           c.MinBet,
		MaxBet:           c.MaxBet,
		DealerHitsSoft17: c.HitSoft17,
	})
	if err != nil {
		return fmt.Errorf("configuring table: %w", err)
	}

	model := tui.NewModel(manager, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
