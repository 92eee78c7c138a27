package holdem

import (
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/majkelowskiii/jack-of-all-trades/internal/deck"
)

// Demo table parameters. The trainer always seats the same eight
// players with fresh stacks; there is no buy-in flow.
const (
	demoTableName = "Table1"
	demoStack     = 4000
	demoBigBlind  = 100
)

var demoSeatNames = []string{"john", "mark", "alice", "sara", "tom", "ryan", "mia", "liam"}

// gameState is one running hand: table, remaining deck and the board
// and results filled in once the hand completes.
type gameState struct {
	table        *Table
	cards        *deck.Deck
	sbPos        int
	bbPos        int
	handNumber   int
	handComplete bool
	board        []deck.Card
	results      []SeatResult
}

// SeatResult records one player's winnings at hand end
type SeatResult struct {
	Seat        int    `json:"seat"`
	Name        string `json:"name"`
	Winnings    int    `json:"winnings"`
	Description string `json:"description,omitempty"`
}

// Manager owns a single poker trainer table. The first snapshot or
// action lazily deals the opening hand.
type Manager struct {
	mu     sync.Mutex
	logger *log.Logger
	rng    *rand.Rand
	state  *gameState
}

// NewManager creates the trainer table manager. The RNG drives deck
// shuffles; inject a seeded source for reproducible hands.
func NewManager(logger *log.Logger, rng *rand.Rand) *Manager {
	return &Manager{
		logger: logger.WithPrefix("holdem"),
		rng:    rng,
	}
}

// ensureStateLocked deals the opening hand on first use. Callers must
// hold the mutex.
func (m *Manager) ensureStateLocked() *gameState {
	if m.state == nil {
		m.state = m.buildState(1)
	}
	return m.state
}

// buildState seats the demo lineup, posts blinds and deals two hole
// cards to every player starting left of the button.
func (m *Manager) buildState(handNumber int) *gameState {
	table := NewTable(demoTableName, demoBigBlind)
	for _, name := range demoSeatNames {
		p := table.SitPlayer(name, demoStack)
		p.InHand = true
		p.ToAct = true
	}

	cards := deck.NewDeck(m.rng)
	cards.Shuffle()

	sbPos, bbPos, err := table.PostBlinds()
	if err != nil {
		// the fixed demo lineup always has enough players
		m.logger.Error("posting blinds", "error", err)
	}

	n := len(table.Seats)
	for round := 0; round < 2; round++ {
		for i := 0; i < n; i++ {
			p := table.Seats[(sbPos+i)%n]
			if !p.InHand {
				continue
			}
			if card, ok := cards.Deal(); ok {
				p.HoleCards = append(p.HoleCards, card)
			}
		}
	}

	table.MinimalRaise = table.BigBlind
	table.SyncPot()

	m.logger.Info("hand dealt",
		"hand", handNumber,
		"players", n,
		"sb", sbPos,
		"bb", bbPos)

	return &gameState{
		table:      table,
		cards:      cards,
		sbPos:      sbPos,
		bbPos:      bbPos,
		handNumber: handNumber,
	}
}

// Reset rebuilds the table from scratch at hand number one
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = m.buildState(1)
}

// NextHand discards the current hand and deals the next one
func (m *Manager) NextHand() {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := 1
	if m.state != nil {
		next = m.state.handNumber + 1
	}
	m.state = m.buildState(next)
}

// Apply runs one betting action for the player currently on action.
// When the action ends the betting round or leaves a single player,
// the hand runs to showdown and the pot is awarded.
func (m *Manager) Apply(action Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.ensureStateLocked()
	if s.handComplete {
		return ErrHandComplete
	}
	t := s.table
	player := t.ActivePlayer()
	if player == nil {
		return invalidf("No active player available.")
	}

	avail := availableActions(t, false)

	switch action.Op {
	case OpFold:
		player.InHand = false
		player.ToAct = false
	case OpCheck:
		if !avail.CanCheck {
			return invalidf("Check is not available")
		}
		player.ToAct = false
	case OpCall:
		if !avail.CanCall {
			return invalidf("Call is not available")
		}
		contribution := min(avail.CallAmount, player.Stack)
		player.Stack -= contribution
		player.Bet += contribution
		player.ToAct = false
		t.SyncPot()
	case OpRaise:
		if !avail.Raise.Allowed {
			return invalidf("Raise is not available")
		}
		if action.Amount < avail.Raise.MinTotal || action.Amount > avail.Raise.MaxTotal {
			return invalidf("Raise amount must be within allowed range")
		}
		if err := m.applyRaise(t, player, action.Amount); err != nil {
			return err
		}
	default:
		return invalidf("Unsupported action '%s'", action.Op)
	}

	m.logger.Debug("action applied",
		"hand", s.handNumber,
		"seat", player.Seat,
		"action", action.Op.String(),
		"pot", t.Pot)

	if t.RemainingInHand() <= 1 || !t.HasPendingActions() {
		m.finishHand(s)
	} else {
		t.AdvanceToNextPlayer()
	}
	return nil
}

// applyRaise sets the player's total bet to raiseTo and reopens the
// action for everyone else still in the hand.
func (m *Manager) applyRaise(t *Table, player *Player, raiseTo int) error {
	additional := raiseTo - player.Bet
	if additional <= 0 {
		return invalidf("Raise must increase total bet")
	}
	if additional > player.Stack {
		return invalidf("Insufficient stack for raise")
	}
	player.Stack -= additional
	player.Bet = raiseTo
	previousCall := t.CallAmount
	t.CallAmount = raiseTo
	t.MinimalRaise = max(raiseTo-previousCall, t.BigBlind)
	player.ToAct = false
	for _, other := range t.Seats {
		if other != player && other.InHand {
			other.ToAct = true
		}
	}
	t.SyncPot()
	return nil
}
