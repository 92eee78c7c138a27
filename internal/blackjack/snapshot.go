package blackjack

import (
	"math"

	"github.com/majkelowskiii/jack-of-all-trades/internal/deck"
)

// CardPayload is the wire form of a single card
type CardPayload struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

func cardPayload(c deck.Card) CardPayload {
	return CardPayload{Rank: c.Rank.String(), Suit: c.Suit.Name()}
}

func cardPayloads(cards []deck.Card) []CardPayload {
	out := make([]CardPayload, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardPayload(c))
	}
	return out
}

// HandSnapshot is the wire form of one player hand
type HandSnapshot struct {
	ID           int           `json:"id"`
	Cards        []CardPayload `json:"cards"`
	Bet          int           `json:"bet"`
	Status       string        `json:"status"`
	Total        int           `json:"total"`
	IsSoft       bool          `json:"is_soft"`
	IsBlackjack  bool          `json:"is_blackjack"`
	CanSplit     bool          `json:"can_split"`
	CanDouble    bool          `json:"can_double"`
	CanSurrender bool          `json:"can_surrender"`
}

// DealerSnapshot exposes only the dealer's visible information until
// the hole card is revealed.
type DealerSnapshot struct {
	Cards            []CardPayload `json:"cards"`
	HiddenCards      int           `json:"hidden_cards"`
	VisibleTotal     int           `json:"visible_total"`
	HoleCardRevealed bool          `json:"hole_card_revealed"`
	Total            *int          `json:"total,omitempty"`
	IsSoft           *bool         `json:"is_soft,omitempty"`
}

// ShoeSnapshot is the wire form of the card supply
type ShoeSnapshot struct {
	Decks          int     `json:"decks"`
	CardsRemaining int     `json:"cards_remaining"`
	TotalCards     int     `json:"total_cards"`
	NeedsShuffle   bool    `json:"needs_shuffle"`
	Penetration    float64 `json:"penetration"`
}

// BetLimits is the player's current betting range
type BetLimits struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// PlayerSnapshot groups bankroll and hands
type PlayerSnapshot struct {
	Bankroll        int            `json:"bankroll"`
	Hands           []HandSnapshot `json:"hands"`
	ActiveHandIndex *int           `json:"active_hand_index"`
	BetLimits       BetLimits      `json:"bet_limits"`
}

// InsuranceSnapshot describes the insurance side bet
type InsuranceSnapshot struct {
	Current int  `json:"current"`
	Allowed bool `json:"allowed"`
	Max     int  `json:"max"`
}

// AvailableActions flags which operations the caller may issue next
type AvailableActions struct {
	CanPlaceBet      bool `json:"can_place_bet"`
	CanDeal          bool `json:"can_deal"`
	CanHit           bool `json:"can_hit"`
	CanStand         bool `json:"can_stand"`
	CanDouble        bool `json:"can_double"`
	CanSplit         bool `json:"can_split"`
	CanSurrender     bool `json:"can_surrender"`
	CanBuyInsurance  bool `json:"can_buy_insurance"`
	CanSkipInsurance bool `json:"can_skip_insurance"`
	CanStartNextHand bool `json:"can_start_next_hand"`
	CanStepDealer    bool `json:"can_step_dealer"`
}

// Snapshot is the full session wire form for a configured session
type Snapshot struct {
	Phase                 string            `json:"phase"`
	RequiresConfiguration bool              `json:"requires_configuration"`
	HandNumber            int               `json:"hand_number"`
	Player                PlayerSnapshot    `json:"player"`
	Dealer                DealerSnapshot    `json:"dealer"`
	Shoe                  ShoeSnapshot      `json:"shoe"`
	PendingInitialDeal    int               `json:"pending_initial_deal"`
	Insurance             InsuranceSnapshot `json:"insurance"`
	AvailableActions      AvailableActions  `json:"available_actions"`
	Messages              []string          `json:"messages"`
	HandResults           []string          `json:"hand_results"`
	RunningCount          int               `json:"running_count"`
	TrueCount             float64           `json:"true_count"`
	DecksRemaining        float64           `json:"decks_remaining"`
	DealerStepsRemaining  int               `json:"dealer_steps_remaining"`
}

// SetupDefaults are the suggested starting values shown before
// configuration.
type SetupDefaults struct {
	Bankroll  int `json:"bankroll"`
	ShoeDecks int `json:"shoe_decks"`
	MinBet    int `json:"min_bet"`
}

// SetupActions is the reduced action set before configuration
type SetupActions struct {
	CanConfigure bool `json:"can_configure"`
}

// SetupSnapshot is the wire form of an unconfigured session
type SetupSnapshot struct {
	Phase                 string        `json:"phase"`
	RequiresConfiguration bool          `json:"requires_configuration"`
	Defaults              SetupDefaults `json:"defaults"`
	AvailableActions      SetupActions  `json:"available_actions"`
}

// Snapshot serializes the session. It returns *Snapshot for a
// configured session and *SetupSnapshot before configuration.
// Serialization never mutates state: calling it twice without an
// intervening action yields identical output.
func (m *Manager) Snapshot() any {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state
	if !s.configured() {
		return &SetupSnapshot{
			Phase:                 string(PhaseNeedsConfiguration),
			RequiresConfiguration: true,
			Defaults: SetupDefaults{
				Bankroll:  DefaultBankroll,
				ShoeDecks: DefaultDecks,
				MinBet:    DefaultMinBet,
			},
			AvailableActions: SetupActions{CanConfigure: true},
		}
	}

	hands := make([]HandSnapshot, 0, len(s.playerHands))
	for idx, hand := range s.playerHands {
		total, soft := HandTotal(hand.Cards)
		hands = append(hands, HandSnapshot{
			ID:          idx,
			Cards:       cardPayloads(hand.Cards),
			Bet:         hand.Bet,
			Status:      string(hand.Status),
			Total:       total,
			IsSoft:      soft,
			IsBlackjack: hand.Status == StatusBlackjack,
			CanSplit: hand.CanSplit() &&
				len(s.playerHands) < s.config.MaxHands &&
				s.bankroll >= hand.Bet,
			CanDouble:    hand.CanDouble() && s.bankroll >= hand.Bet,
			CanSurrender: hand.CanSurrender(),
		})
	}

	revealAll := (s.phase == PhaseDealerAction || s.phase == PhaseComplete) &&
		len(s.pendingHidden) == 0
	visible := s.dealerHand.Cards
	if !revealAll && len(visible) > 1 {
		visible = visible[:1]
	}
	hiddenCount := 0
	if !revealAll {
		hiddenCount = len(s.dealerHand.Cards) - len(visible)
		if hiddenCount < 0 {
			hiddenCount = 0
		}
	}
	visibleTotal, _ := HandTotal(visible)
	dealer := DealerSnapshot{
		Cards:            cardPayloads(visible),
		HiddenCards:      hiddenCount,
		VisibleTotal:     visibleTotal,
		HoleCardRevealed: revealAll,
	}
	if revealAll {
		total, soft := HandTotal(s.dealerHand.Cards)
		dealer.Total = &total
		dealer.IsSoft = &soft
	}

	hasActive := s.phase == PhasePlayerAction &&
		s.activeHand >= 0 && s.activeHand < len(s.playerHands) &&
		s.playerHands[s.activeHand].Status == StatusActive
	var activeHand *Hand
	if hasActive {
		activeHand = s.playerHands[s.activeHand]
	}

	actions := AvailableActions{
		CanPlaceBet: s.phase == PhaseWaitingForBet && s.bankroll >= s.config.MinBet,
		CanDeal:     s.phase == PhaseInitialDeal && len(s.pendingInitial) > 0,
		CanHit:      hasActive,
		CanStand:    hasActive,
		CanDouble: activeHand != nil && activeHand.CanDouble() &&
			s.bankroll >= activeHand.Bet,
		CanSplit: activeHand != nil && activeHand.CanSplit() &&
			len(s.playerHands) < s.config.MaxHands &&
			s.bankroll >= activeHand.Bet,
		CanSurrender:     activeHand != nil && activeHand.CanSurrender(),
		CanBuyInsurance:  s.phase == PhaseInsurance,
		CanSkipInsurance: s.phase == PhaseInsurance,
		CanStartNextHand: s.phase == PhaseComplete,
		CanStepDealer:    s.phase == PhaseDealerAction && len(s.pendingDealer) > 0,
	}

	maxBet := s.config.MaxBet
	if s.bankroll < maxBet {
		maxBet = s.bankroll
	}
	insuranceMax := 0
	if len(s.playerHands) > 0 {
		insuranceMax = s.playerHands[0].Bet / 2
	}
	if s.bankroll < insuranceMax {
		insuranceMax = s.bankroll
	}

	cardsRemaining := s.shoe.CardsRemaining()
	decksRemaining := 0.0
	trueCount := 0.0
	if cardsRemaining > 0 {
		decksRemaining = float64(cardsRemaining) / 52
		trueCount = float64(s.runningCount) / decksRemaining
	}

	var activeIndex *int
	if s.activeHand >= 0 {
		idx := s.activeHand
		activeIndex = &idx
	}

	return &Snapshot{
		Phase:                 string(s.phase),
		RequiresConfiguration: false,
		HandNumber:            s.handNumber,
		Player: PlayerSnapshot{
			Bankroll:        s.bankroll,
			Hands:           hands,
			ActiveHandIndex: activeIndex,
			BetLimits:       BetLimits{Min: s.config.MinBet, Max: maxBet},
		},
		Dealer: dealer,
		Shoe: ShoeSnapshot{
			Decks:          s.config.ShoeDecks,
			CardsRemaining: cardsRemaining,
			TotalCards:     s.shoe.TotalCards(),
			NeedsShuffle:   s.shoeNeedsShuffle,
			Penetration:    s.shoe.Penetration(),
		},
		PendingInitialDeal: len(s.pendingInitial),
		Insurance: InsuranceSnapshot{
			Current: s.insuranceBet,
			Allowed: s.phase == PhaseInsurance,
			Max:     insuranceMax,
		},
		AvailableActions:     actions,
		Messages:             append([]string{}, s.messages...),
		HandResults:          append([]string{}, s.handResults...),
		RunningCount:         s.runningCount,
		TrueCount:            round2(trueCount),
		DecksRemaining:       round2(decksRemaining),
		DealerStepsRemaining: len(s.pendingDealer),
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
