package blackjack

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majkelowskiii/jack-of-all-trades/internal/randutil"
)

func TestAutoDriverDrainsQueues(t *testing.T) {
	m := NewManager(testLogger(), randutil.New(7))
	require.NoError(t, m.Configure(Config{Bankroll: 1000, ShoeDecks: 4}))
	require.NoError(t, m.StackShoe(cards(t, "9h6c2d5sKh9c")...))
	require.NoError(t, m.Apply(Action{Op: OpPlaceBet, Amount: 100}))

	driver := NewAutoDriver(m, quartz.NewReal(), 0, testLogger())

	require.NoError(t, driver.FinishInitialDeal(context.Background()))
	assert.Equal(t, 0, m.PendingInitialDeals())
	assert.Equal(t, PhasePlayerAction, m.Phase())

	apply(t, m, OpHit) // 11 + Kh locks at 21
	require.NoError(t, driver.FinishDealer(context.Background()))
	assert.Equal(t, PhaseComplete, m.Phase())
	assert.Equal(t, 0, m.DealerStepsRemaining())
}

func TestAutoDriverHonorsCancellation(t *testing.T) {
	m := NewManager(testLogger(), randutil.New(7))
	require.NoError(t, m.Configure(Config{Bankroll: 1000, ShoeDecks: 4}))
	require.NoError(t, m.Apply(Action{Op: OpPlaceBet, Amount: 100}))

	driver := NewAutoDriver(m, quartz.NewReal(), time.Minute, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := driver.FinishInitialDeal(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, m.PendingInitialDeals(), "one card dealt before the first pause")
}
