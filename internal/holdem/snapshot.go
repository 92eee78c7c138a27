package holdem

import (
	"github.com/majkelowskiii/jack-of-all-trades/internal/deck"
)

// PlayerInfo is the wire form of one seat
type PlayerInfo struct {
	Seat      int      `json:"seat"`
	Name      string   `json:"name"`
	Stack     int      `json:"stack"`
	HoleCards []string `json:"hole_cards"`
	InHand    bool     `json:"in_hand"`
	PlayerBet int      `json:"player_bet"`
}

// SeatRef names a blind position
type SeatRef struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

// RaiseInfo describes the legal raise range for the player on action
type RaiseInfo struct {
	Allowed   bool `json:"allowed"`
	MinTotal  int  `json:"min_total"`
	MaxTotal  int  `json:"max_total"`
	Increment int  `json:"increment"`
}

// AvailableActions flags the betting options currently open
type AvailableActions struct {
	CanFold    bool      `json:"can_fold"`
	CanCheck   bool      `json:"can_check"`
	CanCall    bool      `json:"can_call"`
	CallAmount int       `json:"call_amount"`
	Raise      RaiseInfo `json:"raise"`
}

// ActivePlayerInfo summarizes the player on action
type ActivePlayerInfo struct {
	Seat       int    `json:"seat"`
	Name       string `json:"name"`
	Stack      int    `json:"stack"`
	CurrentBet int    `json:"current_bet"`
}

// Snapshot is the full table wire form
type Snapshot struct {
	Name             string            `json:"name"`
	DealerPosition   int               `json:"dealer_position"`
	SmallBlind       *SeatRef          `json:"sb"`
	BigBlind         *SeatRef          `json:"bb"`
	HandNumber       int               `json:"hand_number"`
	Players          []PlayerInfo      `json:"players"`
	Pot              int               `json:"pot"`
	CallAmount       int               `json:"call_amount"`
	ActiveSeat       *int              `json:"active_seat"`
	ActivePlayer     *ActivePlayerInfo `json:"active_player"`
	AvailableActions AvailableActions  `json:"available_actions"`
	HandComplete     bool              `json:"hand_complete"`
	Board            []string          `json:"board"`
	Results          []SeatResult      `json:"results,omitempty"`
}

// availableActions computes the betting options for the player on
// action. A completed hand, or a table with nobody on action, offers
// nothing.
func availableActions(t *Table, handComplete bool) AvailableActions {
	none := AvailableActions{Raise: RaiseInfo{Increment: 1}}
	if handComplete {
		return none
	}
	player := t.ActivePlayer()
	if player == nil {
		return none
	}

	currentCall := max(0, t.CallAmount-player.Bet)
	return AvailableActions{
		CanFold:    player.InHand,
		CanCheck:   currentCall == 0,
		CanCall:    currentCall > 0 && player.Stack > 0,
		CallAmount: currentCall,
		Raise: RaiseInfo{
			Allowed:   player.Stack > currentCall,
			MinTotal:  t.minRaiseTotal(),
			MaxTotal:  player.Bet + player.Stack,
			Increment: 1,
		},
	}
}

func cardStrings(cards []deck.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}

// Snapshot serializes the table, dealing the opening hand on first
// use. Serialization never mutates an already-dealt hand.
func (m *Manager) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.ensureStateLocked()
	t := s.table

	players := make([]PlayerInfo, 0, len(t.Seats))
	for _, p := range t.Seats {
		players = append(players, PlayerInfo{
			Seat:      p.Seat,
			Name:      p.Name,
			Stack:     p.Stack,
			HoleCards: cardStrings(p.HoleCards),
			InHand:    p.InHand,
			PlayerBet: p.Bet,
		})
	}

	var sb, bb *SeatRef
	if s.sbPos >= 0 && s.sbPos < len(t.Seats) {
		sb = &SeatRef{Seat: s.sbPos, Name: t.Seats[s.sbPos].Name}
	}
	if s.bbPos >= 0 && s.bbPos < len(t.Seats) {
		bb = &SeatRef{Seat: s.bbPos, Name: t.Seats[s.bbPos].Name}
	}

	var activeSeat *int
	var active *ActivePlayerInfo
	if player := t.ActivePlayer(); player != nil {
		seat := player.Seat
		activeSeat = &seat
		active = &ActivePlayerInfo{
			Seat:       player.Seat,
			Name:       player.Name,
			Stack:      player.Stack,
			CurrentBet: player.Bet,
		}
	}

	return &Snapshot{
		Name:             t.Name,
		DealerPosition:   t.DealerPosition,
		SmallBlind:       sb,
		BigBlind:         bb,
		HandNumber:       s.handNumber,
		Players:          players,
		Pot:              t.Pot,
		CallAmount:       t.CallAmount,
		ActiveSeat:       activeSeat,
		ActivePlayer:     active,
		AvailableActions: availableActions(t, s.handComplete),
		HandComplete:     s.handComplete,
		Board:            cardStrings(s.board),
		Results:          append([]SeatResult{}, s.results...),
	}
}
