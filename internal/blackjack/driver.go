package blackjack

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// AutoDriver drains the session's caller-paced queues on a fixed
// cadence, so clients get animated card reveals without running their
// own timer loop. The clock is injected for testability.
type AutoDriver struct {
	manager *Manager
	clock   quartz.Clock
	delay   time.Duration
	logger  *log.Logger
}

// NewAutoDriver creates a driver that waits delay between consecutive
// steps. A zero delay drains queues as fast as the session allows.
func NewAutoDriver(manager *Manager, clock quartz.Clock, delay time.Duration, logger *log.Logger) *AutoDriver {
	return &AutoDriver{
		manager: manager,
		clock:   clock,
		delay:   delay,
		logger:  logger.WithPrefix("autodriver"),
	}
}

// FinishInitialDeal issues deal operations until the opening sequence
// is drained.
func (d *AutoDriver) FinishInitialDeal(ctx context.Context) error {
	for d.manager.PendingInitialDeals() > 0 {
		if err := d.manager.Apply(Action{Op: OpDeal}); err != nil {
			return err
		}
		if d.manager.PendingInitialDeals() == 0 {
			break
		}
		if err := d.wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// FinishDealer consumes queued dealer steps until the hand resolves
func (d *AutoDriver) FinishDealer(ctx context.Context) error {
	for d.manager.Phase() == PhaseDealerAction && d.manager.DealerStepsRemaining() > 0 {
		if err := d.manager.Apply(Action{Op: OpDealerStep}); err != nil {
			return err
		}
		if d.manager.DealerStepsRemaining() == 0 {
			break
		}
		if err := d.wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (d *AutoDriver) wait(ctx context.Context) error {
	if d.delay <= 0 {
		return ctx.Err()
	}
	timer := d.clock.NewTimer(d.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
