package blackjack

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/majkelowskiii/jack-of-all-trades/internal/deck"
)

// Manager owns a single blackjack session and exposes one operation
// per player or dealer action. Every operation validates its
// preconditions before touching the aggregate and runs to completion
// under one lock, so accepted operations apply atomically.
type Manager struct {
	mu     sync.Mutex
	state  *State
	logger *log.Logger
	rng    *rand.Rand
}

// NewManager creates an unconfigured session manager. The RNG drives
// shoe shuffles; inject a seeded source for reproducible games.
func NewManager(logger *log.Logger, rng *rand.Rand) *Manager {
	return &Manager{
		state:  newState(),
		logger: logger.WithPrefix("blackjack"),
		rng:    rng,
	}
}

// Configure replaces the whole session with a fresh one: new shoe,
// zero hand number, bankroll seeded from the config. Unset config
// fields take table defaults.
func (m *Manager) Configure(cfg Config) error {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	shoe, err := deck.NewShoe(cfg.ShoeDecks, m.rng)
	if err != nil {
		return fmt.Errorf("building shoe: %w", err)
	}
	state := newState()
	state.config = &cfg
	state.shoe = shoe
	state.bankroll = cfg.Bankroll
	state.phase = PhaseWaitingForBet
	m.state = state

	m.logger.Info("session configured",
		"bankroll", cfg.Bankroll,
		"decks", cfg.ShoeDecks,
		"minBet", cfg.MinBet,
		"maxBet", cfg.MaxBet)
	return nil
}

// Reset discards the session entirely, returning to the unconfigured
// phase.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = newState()
}

// StartNextHand clears per-hand fields while keeping configuration,
// bankroll, shoe and running count. A shoe flagged for reshuffle is
// rebuilt here and the count restarts from zero.
func (m *Manager) StartNextHand() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state
	if !s.configured() {
		return ErrMissingConfiguration
	}
	if s.phase == PhaseInitialDeal {
		return invalidf("Initial deal in progress. Finish dealing first.")
	}
	if s.phase == PhasePlayerAction {
		return invalidf("Hand in progress. Finish playing before starting another.")
	}
	if s.shoeNeedsShuffle {
		s.shoe.Reset()
		s.shoeNeedsShuffle = false
		s.runningCount = 0
		s.pendingHidden = nil
		s.pendingDealer = nil
		m.logger.Info("shoe reshuffled", "cards", s.shoe.TotalCards())
	}
	s.resetHandState()
	return nil
}

// Apply runs one operation against the session. Operations are
// rejected in full (no partial application) when a precondition does
// not hold.
func (m *Manager) Apply(action Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state
	if !s.configured() {
		return ErrMissingConfiguration
	}

	switch action.Op {
	case OpPlaceBet:
		return m.handlePlaceBet(s, action.Amount)
	case OpDeal:
		return m.handleDeal(s)
	case OpHit:
		return m.handleHit(s)
	case OpStand:
		return m.handleStand(s)
	case OpDouble:
		return m.handleDouble(s)
	case OpSplit:
		return m.handleSplit(s)
	case OpSurrender:
		return m.handleSurrender(s)
	case OpBuyInsurance:
		return m.handleBuyInsurance(s, action.Amount)
	case OpSkipInsurance:
		return m.handleSkipInsurance(s)
	case OpDealerStep:
		return m.handleDealerStep(s)
	default:
		return invalidf("Unsupported action '%s'", action.Op)
	}
}

// StackShoe rigs the shoe so the given cards come out next. Training
// and test hook; it reorders the pool without changing its contents.
func (m *Manager) StackShoe(cards ...deck.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.configured() {
		return ErrMissingConfiguration
	}
	m.state.shoe.Stack(cards...)
	return nil
}

// Phase returns the session's current phase
func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.phase
}

// PendingInitialDeals returns the number of initial-deal slots left
func (m *Manager) PendingInitialDeals() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.pendingInitial)
}

// DealerStepsRemaining returns the number of queued dealer steps
func (m *Manager) DealerStepsRemaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.pendingDealer)
}

// -- action handlers ----------------------------------------------------

func (m *Manager) handlePlaceBet(s *State, amount int) error {
	if s.phase != PhaseWaitingForBet && s.phase != PhaseComplete {
		return invalidf("Cannot place a bet during an active hand.")
	}
	amount = s.config.ClampBet(amount)
	if amount > s.bankroll {
		return invalidf("Insufficient bankroll for bet.")
	}

	s.handNumber++
	s.playerHands = []*Hand{NewHand(amount)}
	s.dealerHand = NewHand(0)
	s.pendingHidden = nil
	// Two orbits: every hand takes one card, then the dealer; the
	// dealer's second card lands face down.
	s.pendingInitial = nil
	for idx := range s.playerHands {
		s.pendingInitial = append(s.pendingInitial, initialDeal{target: targetPlayer, handIndex: idx})
	}
	s.pendingInitial = append(s.pendingInitial, initialDeal{target: targetDealer})
	for idx := range s.playerHands {
		s.pendingInitial = append(s.pendingInitial, initialDeal{target: targetPlayer, handIndex: idx})
	}
	s.pendingInitial = append(s.pendingInitial, initialDeal{target: targetDealer})
	s.activeHand = 0
	s.phase = PhaseInitialDeal
	s.bankroll -= amount
	s.insuranceBet = 0
	s.messages = []string{fmt.Sprintf("Hand #%d - bet %d chips.", s.handNumber, amount)}
	s.handResults = nil

	m.logger.Debug("bet placed", "hand", s.handNumber, "amount", amount, "bankroll", s.bankroll)
	return nil
}

func (m *Manager) handleDeal(s *State) error {
	if s.phase != PhaseInitialDeal {
		return invalidf("Initial deal already finished.")
	}
	if len(s.pendingInitial) == 0 {
		return invalidf("All initial cards dealt.")
	}
	slot := s.pendingInitial[0]
	s.pendingInitial = s.pendingInitial[1:]
	card, err := m.drawCard(s)
	if err != nil {
		return err
	}
	if slot.target == targetPlayer {
		s.playerHands[slot.handIndex].AddCard(card)
		s.applyRunningCount(card)
	} else {
		s.dealerHand.AddCard(card)
		if len(s.dealerHand.Cards) == 1 {
			// the up-card is visible to the count immediately
			s.applyRunningCount(card)
		} else {
			s.pendingHidden = append(s.pendingHidden, card)
		}
	}
	if len(s.pendingInitial) == 0 {
		m.postInitialDeal(s)
	}
	return nil
}

func (m *Manager) handleHit(s *State) error {
	hand, err := requireActiveHand(s)
	if err != nil {
		return err
	}
	card, err := m.drawCard(s)
	if err != nil {
		return err
	}
	hand.AddCard(card)
	s.applyRunningCount(card)
	hand.HasTakenAction = true
	total, _ := HandTotal(hand.Cards)
	switch {
	case total > 21:
		hand.Status = StatusBusted
		s.addMessage("Hand %s busts with %d.", handLabel(s), total)
		m.advanceHand(s)
	case total == 21:
		hand.Status = StatusStanding
		s.addMessage("Hand %s locks at 21.", handLabel(s))
		m.advanceHand(s)
	}
	return nil
}

func (m *Manager) handleStand(s *State) error {
	hand, err := requireActiveHand(s)
	if err != nil {
		return err
	}
	hand.Status = StatusStanding
	hand.HasTakenAction = true
	s.addMessage("Hand %s stands on %d.", handLabel(s), hand.Total())
	m.advanceHand(s)
	return nil
}

func (m *Manager) handleDouble(s *State) error {
	hand, err := requireActiveHand(s)
	if err != nil {
		return err
	}
	if !hand.CanDouble() {
		return invalidf("Double allowed only on two cards before taking another action.")
	}
	if s.bankroll < hand.Bet {
		return invalidf("Insufficient bankroll to double.")
	}
	s.bankroll -= hand.Bet
	hand.Bet *= 2
	hand.Doubled = true
	hand.HasTakenAction = true
	card, err := m.drawCard(s)
	if err != nil {
		return err
	}
	hand.AddCard(card)
	s.applyRunningCount(card)
	total, _ := HandTotal(hand.Cards)
	if total > 21 {
		hand.Status = StatusBusted
		s.addMessage("Double down busts with %d.", total)
	} else {
		hand.Status = StatusStanding
		s.addMessage("Double down stands with %d.", total)
	}
	m.advanceHand(s)
	return nil
}

func (m *Manager) handleSplit(s *State) error {
	hand, err := requireActiveHand(s)
	if err != nil {
		return err
	}
	if !hand.CanSplit() {
		return invalidf("Need a pair to split.")
	}
	if len(s.playerHands) >= s.config.MaxHands {
		return invalidf("Maximum number of hands reached.")
	}
	if s.bankroll < hand.Bet {
		return invalidf("Insufficient bankroll to split.")
	}
	s.bankroll -= hand.Bet
	moved := hand.Cards[len(hand.Cards)-1]
	hand.Cards = hand.Cards[:len(hand.Cards)-1]
	newHand := NewHand(hand.Bet)
	newHand.Cards = []deck.Card{moved}
	newHand.SplitFrom = s.activeHand
	idx := s.activeHand + 1
	s.playerHands = append(s.playerHands, nil)
	copy(s.playerHands[idx+1:], s.playerHands[idx:])
	s.playerHands[idx] = newHand

	// one fresh card to each of the two hands
	cardOne, err := m.drawCard(s)
	if err != nil {
		return err
	}
	hand.AddCard(cardOne)
	s.applyRunningCount(cardOne)
	m.markHandBlackjack(s, hand)
	cardTwo, err := m.drawCard(s)
	if err != nil {
		return err
	}
	newHand.AddCard(cardTwo)
	s.applyRunningCount(cardTwo)
	m.markHandBlackjack(s, newHand)
	s.addMessage("Hand %s splits into two hands.", handLabel(s))
	return nil
}

func (m *Manager) handleSurrender(s *State) error {
	hand, err := requireActiveHand(s)
	if err != nil {
		return err
	}
	if !hand.CanSurrender() {
		return invalidf("Late surrender not available.")
	}
	refund := hand.Bet / 2
	s.bankroll += refund
	hand.Status = StatusSurrendered
	hand.HasTakenAction = true
	s.addMessage("Hand %s surrendered. Refunded %d.", handLabel(s), refund)
	m.advanceHand(s)
	return nil
}

func (m *Manager) handleBuyInsurance(s *State, amount int) error {
	if s.phase != PhaseInsurance {
		return invalidf("Insurance only offered when dealer shows an Ace.")
	}
	maxAllowed := s.playerHands[0].Bet / 2
	if s.bankroll < maxAllowed {
		maxAllowed = s.bankroll
	}
	if maxAllowed <= 0 {
		return invalidf("Insurance not affordable.")
	}
	if amount <= 0 || amount > maxAllowed {
		return invalidf("Insurance exceeds limit.")
	}
	s.bankroll -= amount
	s.insuranceBet = amount
	m.peekAfterInsurance(s, false)
	return nil
}

func (m *Manager) handleSkipInsurance(s *State) error {
	if s.phase != PhaseInsurance {
		return invalidf("No insurance decision pending.")
	}
	m.peekAfterInsurance(s, true)
	return nil
}

func (m *Manager) handleDealerStep(s *State) error {
	if s.phase != PhaseDealerAction {
		return invalidf("Dealer is not acting currently.")
	}
	if len(s.pendingDealer) == 0 {
		return invalidf("Dealer has no pending steps.")
	}
	step := s.pendingDealer[0]
	s.pendingDealer = s.pendingDealer[1:]
	switch step.kind {
	case stepReveal:
		s.revealHiddenCards()
	case stepDraw:
		s.dealerHand.AddCard(step.card)
		s.applyRunningCount(step.card)
	}
	if len(s.pendingDealer) == 0 {
		m.resolveHands(s)
	}
	return nil
}

// -- helpers ------------------------------------------------------------

// drawCard pulls the next card and records whether the cut card has
// been reached; the actual reshuffle is deferred to the next hand.
func (m *Manager) drawCard(s *State) (deck.Card, error) {
	card, err := s.shoe.Draw()
	if err != nil {
		return deck.Card{}, err
	}
	s.shoeNeedsShuffle = s.shoe.NeedsShuffle(s.config.CutCardRatio)
	return card, nil
}

// hiLoDelta is the Hi-Lo weight of a card: 2-6 are +1, 7-9 neutral,
// tens, faces and aces -1.
func hiLoDelta(c deck.Card) int {
	switch {
	case c.Rank >= deck.Two && c.Rank <= deck.Six:
		return 1
	case c.Rank >= deck.Seven && c.Rank <= deck.Nine:
		return 0
	default:
		return -1
	}
}

// applyRunningCount counts a card at the moment it becomes visible
func (s *State) applyRunningCount(c deck.Card) {
	s.runningCount += hiLoDelta(c)
}

func (s *State) revealHiddenCards() {
	for _, c := range s.pendingHidden {
		s.applyRunningCount(c)
	}
	s.pendingHidden = nil
}

func (s *State) addMessage(format string, args ...any) {
	s.messages = append(s.messages, fmt.Sprintf(format, args...))
}

func (s *State) addResult(format string, args ...any) {
	s.handResults = append(s.handResults, fmt.Sprintf(format, args...))
}

// postInitialDeal routes the finished opening deal: insurance when the
// dealer shows an ace, otherwise immediate natural resolution or
// player action.
func (m *Manager) postInitialDeal(s *State) {
	playerHand := s.playerHands[0]
	playerBlackjack := playerHand.IsBlackjack()
	dealerBlackjack := s.dealerHand.IsBlackjack()

	if playerBlackjack {
		playerHand.Status = StatusBlackjack
	}

	if cardValue(s.dealerHand.Cards[0]) == 11 {
		s.phase = PhaseInsurance
		s.addMessage("Dealer shows an Ace - insurance available.")
		return
	}

	if playerBlackjack && !dealerBlackjack {
		m.payoutBlackjack(s, playerHand)
		return
	}
	if dealerBlackjack {
		m.resolveDealerBlackjack(s)
		return
	}

	s.phase = PhasePlayerAction
	s.activeHand = 0
	s.addMessage("Player to act.")
}

// peekAfterInsurance settles the insurance decision and checks the
// hole card for a dealer natural.
func (m *Manager) peekAfterInsurance(s *State, skipped bool) {
	if s.dealerHand.IsBlackjack() {
		m.resolveDealerBlackjack(s)
		return
	}
	if s.insuranceBet > 0 && !skipped {
		s.addMessage("Insurance lost.")
		s.insuranceBet = 0
	}
	if len(s.playerHands) > 0 && s.playerHands[0].IsBlackjack() {
		m.payoutBlackjack(s, s.playerHands[0])
		return
	}
	s.phase = PhasePlayerAction
	s.activeHand = 0
	s.addMessage("No dealer blackjack - continue playing.")
}

// resolveDealerBlackjack short-circuits straight to hand completion
// without entering dealer action.
func (m *Manager) resolveDealerBlackjack(s *State) {
	s.revealHiddenCards()
	s.phase = PhaseComplete
	s.activeHand = -1
	if len(s.playerHands) > 0 {
		playerHand := s.playerHands[0]
		if playerHand.IsBlackjack() {
			s.bankroll += playerHand.Bet
			s.addResult("Push vs dealer blackjack.")
		} else {
			s.addResult("Dealer blackjack - hand lost.")
		}
	}
	if s.insuranceBet > 0 {
		s.bankroll += s.insuranceBet * 3
		s.addMessage("Insurance pays 2:1.")
		s.insuranceBet = 0
	}
	s.pendingDealer = nil
	s.addMessage("Hand complete. Dealer had blackjack.")
}

func requireActiveHand(s *State) (*Hand, error) {
	if s.phase != PhasePlayerAction {
		return nil, invalidf("Player actions available only during player phase.")
	}
	if s.activeHand < 0 || s.activeHand >= len(s.playerHands) {
		return nil, invalidf("No active hand.")
	}
	hand := s.playerHands[s.activeHand]
	if hand.Status != StatusActive {
		return nil, invalidf("Selected hand already completed.")
	}
	return hand, nil
}

func handLabel(s *State) string {
	if s.activeHand < 0 {
		return "#"
	}
	return fmt.Sprintf("#%d", s.activeHand+1)
}

// advanceHand moves to the next active player hand, or hands control
// to the dealer once every hand is terminal.
func (m *Manager) advanceHand(s *State) {
	if len(s.playerHands) == 0 {
		return
	}
	for i := s.activeHand + 1; i < len(s.playerHands); i++ {
		if s.playerHands[i].Status == StatusActive {
			s.activeHand = i
			return
		}
	}
	s.activeHand = -1
	m.startDealerAction(s)
}

// startDealerAction precomputes the dealer's entire draw sequence
// atomically so the queue length is knowable up front; stepping only
// applies already-drawn cards. If every player hand busted the dealer
// reveals but draws nothing.
func (m *Manager) startDealerAction(s *State) {
	s.phase = PhaseDealerAction
	s.pendingDealer = nil
	if len(s.pendingHidden) > 0 {
		s.pendingDealer = append(s.pendingDealer, dealerStep{kind: stepReveal})
	}
	speculative := make([]deck.Card, len(s.dealerHand.Cards))
	copy(speculative, s.dealerHand.Cards)
	if !allPlayerHandsBusted(s) {
		for {
			total, soft := HandTotal(speculative)
			needCard := total < 17 ||
				(total == 17 && soft && s.config.DealerHitsSoft17)
			if !needCard {
				break
			}
			card, err := m.drawCard(s)
			if err != nil {
				// The cut card forces a reshuffle well before the
				// shoe can run dry in normal play; resolve with what
				// the dealer has rather than wedge the hand.
				m.logger.Error("shoe exhausted during dealer draw", "error", err)
				break
			}
			s.pendingDealer = append(s.pendingDealer, dealerStep{kind: stepDraw, card: card})
			speculative = append(speculative, card)
		}
	}
	if len(s.pendingDealer) == 0 {
		s.revealHiddenCards()
		m.resolveHands(s)
	}
}

func allPlayerHandsBusted(s *State) bool {
	if len(s.playerHands) == 0 {
		return false
	}
	for _, h := range s.playerHands {
		if h.Status != StatusBusted {
			return false
		}
	}
	return true
}

// resolveHands settles every player hand independently against the
// dealer and credits exact integer payouts.
func (m *Manager) resolveHands(s *State) {
	s.pendingDealer = nil
	dealerTotal, _ := HandTotal(s.dealerHand.Cards)
	dealerBusted := dealerTotal > 21
	s.handResults = nil
	for idx, hand := range s.playerHands {
		label := fmt.Sprintf("Hand %d", idx+1)
		switch {
		case hand.Status == StatusSurrendered:
			s.addResult("%s: surrendered (lose half bet).", label)
		case hand.Status == StatusBusted:
			s.addResult("%s: bust.", label)
		case hand.Status == StatusBlackjack:
			bonus := hand.Bet * s.config.BlackjackPayoutNum / s.config.BlackjackPayoutDen
			s.bankroll += hand.Bet + bonus
			s.addResult("%s: blackjack pays 3:2.", label)
		default:
			handTotal, _ := HandTotal(hand.Cards)
			switch {
			case dealerBusted:
				s.bankroll += hand.Bet * 2
				s.addResult("%s: dealer busts, you win.", label)
			case handTotal > dealerTotal:
				s.bankroll += hand.Bet * 2
				s.addResult("%s: win with %d vs dealer %d.", label, handTotal, dealerTotal)
			case handTotal == dealerTotal:
				s.bankroll += hand.Bet
				s.addResult("%s: push on %d.", label, handTotal)
			default:
				s.addResult("%s: lose with %d vs %d.", label, handTotal, dealerTotal)
			}
		}
	}
	s.phase = PhaseComplete
	s.activeHand = -1
	s.addMessage("Hand resolved.")
	m.logger.Debug("hand resolved", "hand", s.handNumber, "bankroll", s.bankroll, "runningCount", s.runningCount)
}

// markHandBlackjack flags a two-card 21 reached right after a split
// and advances past it when it was the acting hand.
func (m *Manager) markHandBlackjack(s *State, hand *Hand) {
	if !hand.IsBlackjack() || hand.Status != StatusActive {
		return
	}
	idx := -1
	for i, h := range s.playerHands {
		if h == hand {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	hand.Status = StatusBlackjack
	hand.HasTakenAction = true
	s.addMessage("Hand %d hits blackjack.", idx+1)
	if s.activeHand == idx {
		m.advanceHand(s)
	}
}

// payoutBlackjack settles an uncontested natural immediately
func (m *Manager) payoutBlackjack(s *State, hand *Hand) {
	hand.Status = StatusBlackjack
	bonus := hand.Bet * s.config.BlackjackPayoutNum / s.config.BlackjackPayoutDen
	s.bankroll += hand.Bet + bonus
	s.addMessage("Blackjack! Paid 3:2.")
	s.addResult("Blackjack paid.")
	s.phase = PhaseComplete
	s.activeHand = -1
}
