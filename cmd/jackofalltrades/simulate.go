package main

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/quartz"

	"github.com/majkelowskiii/jack-of-all-trades/internal/blackjack"
	"github.com/majkelowskiii/jack-of-all-trades/internal/randutil"
)

// SimulateCmd deals a batch of hands against the engine with a fixed
// mechanical policy (hit below 17, never insure). Useful for smoke
// testing the engine and watching bankroll variance.
type SimulateCmd struct {
	Hands    int    `kong:"default='100',help='Number of hands to play'"`
	Bankroll int    `kong:"default='1000',help='Starting bankroll in chips'"`
	Bet      int    `kong:"default='10',help='Flat bet per hand'"`
	Decks    int    `kong:"default='5',help='Number of decks in the shoe'"`
	Seed     *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Debug    bool   `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := setupLogger(c.Debug)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("starting simulation", "hands", c.Hands, "seed", seed)

	manager := blackjack.NewManager(logger, randutil.New(seed))
	err := manager.Configure(blackjack.Config{
		Bankroll:  c.Bankroll,
		ShoeDecks: c.Decks,
		MinBet:    c.Bet,
		MaxBet:    c.Bet,
	})
	if err != nil {
		return fmt.Errorf("configuring table: %w", err)
	}
	driver := blackjack.NewAutoDriver(manager, quartz.NewReal(), 0, logger)
	ctx := setupSignalContext()

	played := 0
	reshuffles := 0
	for ; played < c.Hands; played++ {
		snap, ok := manager.Snapshot().(*blackjack.Snapshot)
		if !ok {
			return fmt.Errorf("session lost configuration")
		}
		if snap.Player.Bankroll < c.Bet {
			logger.Warn("bankroll exhausted", "hands", played)
			break
		}
		if snap.Shoe.NeedsShuffle {
			reshuffles++
		}

		if err := playOneHand(ctx, manager, driver, c.Bet); err != nil {
			return fmt.Errorf("hand %d: %w", played+1, err)
		}
		if err := manager.StartNextHand(); err != nil {
			return fmt.Errorf("hand %d: %w", played+1, err)
		}
	}

	final, _ := manager.Snapshot().(*blackjack.Snapshot)
	if final != nil {
		logger.Info("simulation finished",
			"hands", played,
			"bankroll", final.Player.Bankroll,
			"net", final.Player.Bankroll-c.Bankroll,
			"reshuffles", reshuffles)
	}
	return nil
}

// playOneHand runs a single hand to completion: bet, drain the deal,
// hit every hand below 17, then drain the dealer.
func playOneHand(ctx context.Context, manager *blackjack.Manager, driver *blackjack.AutoDriver, bet int) error {
	if err := manager.Apply(blackjack.Action{Op: blackjack.OpPlaceBet, Amount: bet}); err != nil {
		return err
	}
	if err := driver.FinishInitialDeal(ctx); err != nil {
		return err
	}
	if manager.Phase() == blackjack.PhaseInsurance {
		if err := manager.Apply(blackjack.Action{Op: blackjack.OpSkipInsurance}); err != nil {
			return err
		}
	}
	for manager.Phase() == blackjack.PhasePlayerAction {
		snap, ok := manager.Snapshot().(*blackjack.Snapshot)
		if !ok {
			return fmt.Errorf("session lost configuration")
		}
		idx := snap.Player.ActiveHandIndex
		if idx == nil || *idx >= len(snap.Player.Hands) {
			break
		}
		op := blackjack.OpStand
		if snap.Player.Hands[*idx].Total < 17 {
			op = blackjack.OpHit
		}
		if err := manager.Apply(blackjack.Action{Op: op}); err != nil {
			return err
		}
	}
	return driver.FinishDealer(ctx)
}
