package holdem

import (
	"github.com/majkelowskiii/jack-of-all-trades/internal/deck"
)

// Player is one seated player. Bet is the amount committed to the
// current betting round; it moves into the pot when the round settles.
type Player struct {
	Seat      int
	Name      string
	Stack     int
	HoleCards []deck.Card
	Bet       int
	InHand    bool
	ToAct     bool
}

// Table holds the shared state of one poker table. ActivePosition is
// -1 when no player is due to act.
type Table struct {
	Name           string
	Seats          []*Player
	Pot            int
	DealerPosition int
	ActivePosition int
	CallAmount     int
	BigBlind       int
	SmallBlind     int
	MinimalRaise   int
}

// NewTable creates an empty table. The small blind is half the big
// blind and the minimal raise starts at one big blind.
func NewTable(name string, bigBlind int) *Table {
	return &Table{
		Name:           name,
		ActivePosition: -1,
		BigBlind:       bigBlind,
		SmallBlind:     bigBlind / 2,
		MinimalRaise:   bigBlind,
	}
}

// SitPlayer adds a player to the next free seat
func (t *Table) SitPlayer(name string, stack int) *Player {
	p := &Player{
		Seat:  len(t.Seats),
		Name:  name,
		Stack: stack,
	}
	t.Seats = append(t.Seats, p)
	return p
}

// PostBlinds posts the small and big blind relative to the dealer
// button, sets the call amount and puts the first player left of the
// big blind on action. Short stacks post what they have.
func (t *Table) PostBlinds() (sbPos, bbPos int, err error) {
	n := len(t.Seats)
	if n < 2 {
		return 0, 0, invalidf("Need at least two players to post blinds")
	}
	sbPos = (t.DealerPosition + 1) % n
	bbPos = (t.DealerPosition + 2) % n

	sb := t.Seats[sbPos]
	sbAmount := min(t.SmallBlind, sb.Stack)
	sb.Stack -= sbAmount
	sb.Bet += sbAmount

	bb := t.Seats[bbPos]
	bbAmount := min(t.BigBlind, bb.Stack)
	bb.Stack -= bbAmount
	bb.Bet += bbAmount

	t.CallAmount = bbAmount
	t.ActivePosition = (bbPos + 1) % n
	// the blinds keep the option to act even if everyone limps
	sb.ToAct = true
	bb.ToAct = true
	return sbPos, bbPos, nil
}

// ActivePlayer returns the player on action, or nil
func (t *Table) ActivePlayer() *Player {
	if t.ActivePosition < 0 || t.ActivePosition >= len(t.Seats) {
		return nil
	}
	return t.Seats[t.ActivePosition]
}

// RemainingInHand counts players who have not folded
func (t *Table) RemainingInHand() int {
	count := 0
	for _, p := range t.Seats {
		if p.InHand {
			count++
		}
	}
	return count
}

// HasPendingActions reports whether any unfolded player still owes a
// decision this round.
func (t *Table) HasPendingActions() bool {
	for _, p := range t.Seats {
		if p.InHand && p.ToAct {
			return true
		}
	}
	return false
}

// SyncPot recomputes the pot from the players' round contributions
func (t *Table) SyncPot() {
	total := 0
	for _, p := range t.Seats {
		total += p.Bet
	}
	t.Pot = total
}

// SettleBets moves every round contribution into the pot and resets
// the call amount. Returns the amount moved.
func (t *Table) SettleBets() int {
	moved := 0
	for _, p := range t.Seats {
		moved += p.Bet
		p.Bet = 0
	}
	t.Pot = moved
	t.CallAmount = 0
	return moved
}

// AdvanceToNextPlayer moves action clockwise to the next unfolded
// player who still owes a decision, or clears the action when nobody
// does.
func (t *Table) AdvanceToNextPlayer() {
	n := len(t.Seats)
	if n == 0 {
		t.ActivePosition = -1
		return
	}
	for range t.Seats {
		if t.ActivePosition < 0 {
			t.ActivePosition = 0
		} else {
			t.ActivePosition = (t.ActivePosition + 1) % n
		}
		candidate := t.Seats[t.ActivePosition]
		if candidate.InHand && candidate.ToAct {
			return
		}
	}
	t.ActivePosition = -1
}

// minRaiseTotal is the smallest total bet a raise may target
func (t *Table) minRaiseTotal() int {
	if t.CallAmount == 0 {
		return t.BigBlind * 2
	}
	return t.CallAmount + max(t.BigBlind, t.MinimalRaise)
}
