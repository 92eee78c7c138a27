package tui

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majkelowskiii/jack-of-all-trades/internal/blackjack"
	"github.com/majkelowskiii/jack-of-all-trades/internal/randutil"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	logger := log.New(io.Discard)
	manager := blackjack.NewManager(logger, randutil.New(42))
	require.NoError(t, manager.Configure(blackjack.Config{Bankroll: 1000, ShoeDecks: 4}))
	return NewModel(manager, logger)
}

// drain consumes queued deal and dealer steps until the session
// settles, mirroring what the tick loop does during play.
func drain(m *Model) {
	for i := 0; i < 32; i++ {
		phase := m.manager.Phase()
		if phase != blackjack.PhaseInitialDeal && phase != blackjack.PhaseDealerAction {
			return
		}
		m.consumeStep()
	}
}

func TestViewShowsTableState(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, "Blackjack Trainer")
	assert.Contains(t, view, "Bankroll 1000")
	assert.Contains(t, view, "place a bet")
	assert.Contains(t, view, "bet <amount>")
}

func TestBetCommandStartsHand(t *testing.T) {
	m := newTestModel(t)

	cmd := m.execute("bet 100")
	assert.NotNil(t, cmd, "dealing should be scheduled")
	assert.Empty(t, m.errMsg)
	assert.Equal(t, blackjack.PhaseInitialDeal, m.manager.Phase())

	drain(m)
	phase := m.manager.Phase()
	assert.Contains(t, []blackjack.Phase{
		blackjack.PhasePlayerAction,
		blackjack.PhaseInsurance,
		blackjack.PhaseComplete,
	}, phase)

	view := m.View()
	assert.Contains(t, view, "Hand 1:")
	assert.Contains(t, view, "bet 100")
}

func TestCommandErrors(t *testing.T) {
	m := newTestModel(t)

	m.execute("jump")
	assert.Contains(t, m.errMsg, "unknown command")

	m.execute("bet")
	assert.Contains(t, m.errMsg, "needs an amount")

	m.execute("bet ten")
	assert.Contains(t, m.errMsg, "bad amount")

	m.execute("hit")
	assert.NotEmpty(t, m.errMsg, "hit before betting is rejected")
	assert.Contains(t, m.View(), m.errMsg)
}

func TestPlayThroughHand(t *testing.T) {
	m := newTestModel(t)

	m.execute("bet 50")
	drain(m)

	if m.manager.Phase() == blackjack.PhaseInsurance {
		m.execute("skip")
	}
	for m.manager.Phase() == blackjack.PhasePlayerAction {
		m.execute("stand")
		drain(m)
	}
	drain(m)
	require.Equal(t, blackjack.PhaseComplete, m.manager.Phase())

	m.execute("next")
	assert.Empty(t, m.errMsg)
	assert.Equal(t, blackjack.PhaseWaitingForBet, m.manager.Phase())
}

func TestQuitCommand(t *testing.T) {
	m := newTestModel(t)
	cmd := m.execute("quit")
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
	assert.Equal(t, "", m.View())
}
