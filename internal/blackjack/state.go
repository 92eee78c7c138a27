package blackjack

import "github.com/majkelowskiii/jack-of-all-trades/internal/deck"

// Phase is the lifecycle phase of a blackjack hand. Values match the
// wire names exposed in snapshots.
type Phase string

const (
	PhaseNeedsConfiguration Phase = "awaiting_configuration"
	PhaseWaitingForBet      Phase = "awaiting_bet"
	PhaseInitialDeal        Phase = "initial_deal"
	PhaseInsurance          Phase = "insurance_offer"
	PhasePlayerAction       Phase = "player_action"
	PhaseDealerAction       Phase = "dealer_action"
	PhaseComplete           Phase = "hand_complete"
)

type dealTarget int

const (
	targetPlayer dealTarget = iota
	targetDealer
)

// initialDeal is one slot of the opening deal order
type initialDeal struct {
	target    dealTarget
	handIndex int
}

type dealerStepKind int

const (
	stepReveal dealerStepKind = iota
	stepDraw
)

// dealerStep is one queued dealer action: reveal the hole card(s) or
// apply an already-drawn card.
type dealerStep struct {
	kind dealerStepKind
	card deck.Card
}

// State is the single mutable session aggregate. All fields are owned
// by the Manager and mutated only under its lock.
type State struct {
	config           *Config
	shoe             *deck.Shoe
	bankroll         int
	dealerHand       *Hand
	playerHands      []*Hand
	phase            Phase
	handNumber       int
	pendingInitial   []initialDeal
	activeHand       int // -1 when no hand is acting
	insuranceBet     int
	messages         []string
	handResults      []string
	shoeNeedsShuffle bool
	runningCount     int
	pendingHidden    []deck.Card
	pendingDealer    []dealerStep
}

func newState() *State {
	return &State{
		dealerHand: NewHand(0),
		phase:      PhaseNeedsConfiguration,
		activeHand: -1,
	}
}

// resetHandState clears per-hand fields while preserving the
// configuration, bankroll, shoe and running count.
func (s *State) resetHandState() {
	s.dealerHand = NewHand(0)
	s.playerHands = nil
	s.pendingInitial = nil
	s.activeHand = -1
	s.insuranceBet = 0
	s.messages = nil
	s.handResults = nil
	s.pendingHidden = nil
	s.pendingDealer = nil
	if s.config != nil {
		s.phase = PhaseWaitingForBet
	} else {
		s.phase = PhaseNeedsConfiguration
	}
}

func (s *State) configured() bool {
	return s.config != nil && s.shoe != nil
}
