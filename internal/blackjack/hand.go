package blackjack

import "github.com/majkelowskiii/jack-of-all-trades/internal/deck"

// HandStatus is the lifecycle state of a hand
type HandStatus string

const (
	StatusActive      HandStatus = "active"
	StatusStanding    HandStatus = "standing"
	StatusBusted      HandStatus = "busted"
	StatusSurrendered HandStatus = "surrendered"
	StatusBlackjack   HandStatus = "blackjack"
)

// IsTerminal reports whether the hand can take no further actions
func (s HandStatus) IsTerminal() bool {
	switch s {
	case StatusStanding, StatusBusted, StatusSurrendered, StatusBlackjack:
		return true
	default:
		return false
	}
}

// cardValue returns the blackjack value of a single card: faces and
// tens count 10, aces provisionally 11.
func cardValue(c deck.Card) int {
	switch {
	case c.Rank == deck.Ace:
		return 11
	case c.Rank >= deck.Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

// HandTotal computes the point total of cards with ace re-valuation
// and reports whether the result is soft. Aces count 11 provisionally
// and are demoted to 1 one at a time while the total exceeds 21. The
// hand is soft iff at least one ace is still counted as 11 afterwards.
func HandTotal(cards []deck.Card) (total int, soft bool) {
	aces := 0
	for _, c := range cards {
		v := cardValue(c)
		if v == 11 {
			aces++
		}
		total += v
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}

// Hand is a player's or the dealer's cards plus stake and lifecycle
// state. Insertion order of cards matters for display only.
type Hand struct {
	Cards          []deck.Card
	Bet            int
	Status         HandStatus
	Doubled        bool
	SplitFrom      int // index of the originating hand, -1 when not split-derived
	HasTakenAction bool
}

// NewHand creates an active hand with the given stake
func NewHand(bet int) *Hand {
	return &Hand{
		Bet:       bet,
		Status:    StatusActive,
		SplitFrom: -1,
	}
}

// AddCard appends a card to the hand
func (h *Hand) AddCard(c deck.Card) {
	h.Cards = append(h.Cards, c)
}

// Total returns the hand's point total
func (h *Hand) Total() int {
	total, _ := HandTotal(h.Cards)
	return total
}

// IsSoft reports whether an ace still counts as 11
func (h *Hand) IsSoft() bool {
	_, soft := HandTotal(h.Cards)
	return soft
}

// IsBlackjack reports a two-card 21
func (h *Hand) IsBlackjack() bool {
	return len(h.Cards) == 2 && h.Total() == 21
}

// CanSplit reports whether the hand is a pair of equal blackjack value
func (h *Hand) CanSplit() bool {
	if len(h.Cards) != 2 {
		return false
	}
	return cardValue(h.Cards[0]) == cardValue(h.Cards[1])
}

// CanDouble reports double-down eligibility: exactly two cards, not
// already doubled, still active.
func (h *Hand) CanDouble() bool {
	return len(h.Cards) == 2 && !h.Doubled && h.Status == StatusActive
}

// CanSurrender reports late-surrender eligibility: two cards, no prior
// action, not derived from a split.
func (h *Hand) CanSurrender() bool {
	return len(h.Cards) == 2 &&
		h.Status == StatusActive &&
		!h.HasTakenAction &&
		h.SplitFrom < 0
}

// IsDone reports whether the hand reached a terminal status
func (h *Hand) IsDone() bool {
	return h.Status.IsTerminal()
}
