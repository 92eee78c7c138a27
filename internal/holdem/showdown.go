package holdem

import (
	"fmt"
	"sort"

	"github.com/paulhankin/poker"

	"github.com/majkelowskiii/jack-of-all-trades/internal/deck"
)

// pokerCard converts a card into the evaluator's representation. The
// evaluator numbers aces low (1) while the deck numbers them high.
func pokerCard(c deck.Card) (poker.Card, error) {
	var zero poker.Card
	rank := poker.Rank(c.Rank)
	if c.Rank == deck.Ace {
		rank = 1
	}
	var suit poker.Suit
	switch c.Suit {
	case deck.Clubs:
		suit = poker.Club
	case deck.Diamonds:
		suit = poker.Diamond
	case deck.Hearts:
		suit = poker.Heart
	case deck.Spades:
		suit = poker.Spade
	default:
		return zero, fmt.Errorf("invalid suit %d", c.Suit)
	}
	return poker.MakeCard(suit, rank)
}

// finishHand runs the hand out: bets settle into the pot, the board
// is dealt and remaining players go to showdown. With a single player
// left the pot goes to them uncontested.
func (m *Manager) finishHand(s *gameState) {
	t := s.table
	t.ActivePosition = -1
	s.handComplete = true
	t.SettleBets()

	var contenders []*Player
	for _, p := range t.Seats {
		if p.InHand {
			contenders = append(contenders, p)
		}
	}

	switch {
	case len(contenders) == 0:
		// unreachable with the demo lineup, drop the pot to nobody
		m.logger.Error("hand finished with no players", "hand", s.handNumber)
	case len(contenders) == 1:
		winner := contenders[0]
		winner.Stack += t.Pot
		s.results = []SeatResult{{
			Seat:     winner.Seat,
			Name:     winner.Name,
			Winnings: t.Pot,
		}}
		m.logger.Info("pot awarded uncontested",
			"hand", s.handNumber, "seat", winner.Seat, "pot", t.Pot)
		t.Pot = 0
	default:
		m.runShowdown(s, contenders)
	}
}

// runShowdown deals the five community cards, ranks every contender's
// best seven-card hand and splits the pot among the top scores. Odd
// chips go to the earliest winning seat.
func (m *Manager) runShowdown(s *gameState, contenders []*Player) {
	t := s.table
	s.board = s.cards.DealN(5)

	var board [5]poker.Card
	for i, c := range s.board {
		pc, err := pokerCard(c)
		if err != nil {
			m.logger.Error("converting board card", "card", c.String(), "error", err)
			return
		}
		board[i] = pc
	}

	type scored struct {
		player      *Player
		score       int16
		description string
	}
	ranked := make([]scored, 0, len(contenders))
	for _, p := range contenders {
		if len(p.HoleCards) != 2 {
			continue
		}
		var final [7]poker.Card
		copy(final[:5], board[:])
		ok := true
		for i, hole := range p.HoleCards {
			pc, err := pokerCard(hole)
			if err != nil {
				m.logger.Error("converting hole card", "card", hole.String(), "error", err)
				ok = false
				break
			}
			final[5+i] = pc
		}
		if !ok {
			continue
		}
		description, err := poker.Describe(final[:])
		if err != nil {
			description = ""
		}
		ranked = append(ranked, scored{
			player:      p,
			score:       poker.Eval7(&final),
			description: description,
		})
	}
	if len(ranked) == 0 {
		return
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].player.Seat < ranked[j].player.Seat
	})

	best := ranked[0].score
	winners := []scored{ranked[0]}
	for _, r := range ranked[1:] {
		if r.score == best {
			winners = append(winners, r)
		} else {
			break
		}
	}

	share := t.Pot / len(winners)
	remainder := t.Pot - share*len(winners)
	s.results = nil
	for i, w := range winners {
		winnings := share
		if i == 0 {
			winnings += remainder
		}
		w.player.Stack += winnings
		s.results = append(s.results, SeatResult{
			Seat:        w.player.Seat,
			Name:        w.player.Name,
			Winnings:    winnings,
			Description: w.description,
		})
		m.logger.Info("showdown winner",
			"hand", s.handNumber,
			"seat", w.player.Seat,
			"winnings", winnings,
			"hand_rank", w.description)
	}
	t.Pot = 0
}
