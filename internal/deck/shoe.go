package deck

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrShoeEmpty is returned when drawing from an exhausted shoe.
// Callers are expected to reset the shoe before this can happen in
// normal play.
var ErrShoeEmpty = errors.New("shoe is empty; reset before drawing additional cards")

// Shoe is a multi-deck card pool that keeps state between hands. Drawn
// cards move to a discard pile so that pool + discard always account
// for the full deckCount x 52 cards until the next Reset.
type Shoe struct {
	decks   int
	cards   []Card
	discard []Card
	total   int
	rng     *rand.Rand
}

// NewShoe builds a shuffled shoe of decks standard 52-card decks.
// The RNG drives every shuffle, so a seeded source gives reproducible
// sequences.
func NewShoe(decks int, rng *rand.Rand) (*Shoe, error) {
	if decks < 1 {
		return nil, fmt.Errorf("shoe must contain at least one deck, got %d", decks)
	}
	s := &Shoe{
		decks: decks,
		rng:   rng,
		total: decks * 52,
	}
	s.rebuild()
	return s, nil
}

func (s *Shoe) rebuild() {
	s.cards = s.cards[:0]
	for i := 0; i < s.decks; i++ {
		s.cards = standardCards(s.cards)
	}
	s.shuffle()
}

// shuffle performs a uniform Fisher-Yates permutation of the pool
func (s *Shoe) shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes the top card from the pool and moves it to the discard
// pile. Returns ErrShoeEmpty when the pool is exhausted.
func (s *Shoe) Draw() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrShoeEmpty
	}
	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	s.discard = append(s.discard, card)
	return card, nil
}

// Decks returns the number of decks the shoe was built from
func (s *Shoe) Decks() int {
	return s.decks
}

// CardsRemaining returns the number of undealt cards in the pool
func (s *Shoe) CardsRemaining() int {
	return len(s.cards)
}

// DiscardCount returns the number of cards in the discard pile
func (s *Shoe) DiscardCount() int {
	return len(s.discard)
}

// TotalCards returns the fixed full-shoe size
func (s *Shoe) TotalCards() int {
	return s.total
}

// Penetration reports the fraction of the shoe already dealt
func (s *Shoe) Penetration() float64 {
	if s.total == 0 {
		return 1.0
	}
	return 1.0 - float64(len(s.cards))/float64(s.total)
}

// NeedsShuffle reports whether the pool has reached the cut card.
// ratio must be in (0, 1]; the caller validates it once at
// configuration time.
func (s *Shoe) NeedsShuffle(ratio float64) bool {
	return len(s.cards) <= int(float64(s.total)*ratio)
}

// Reset rebuilds the full pool, reshuffles it and clears the discard
// pile.
func (s *Shoe) Reset() {
	s.discard = s.discard[:0]
	s.rebuild()
}

// Stack reorders the pool so the given cards come out next, in order.
// Each card is pulled from wherever it sits in the pool and placed on
// top, keeping the pool's card multiset intact. Used by trainers and
// tests to rig known deals.
func (s *Shoe) Stack(cards ...Card) {
	for i := len(cards) - 1; i >= 0; i-- {
		c := cards[i]
		for j := len(s.cards) - 1; j >= 0; j-- {
			if s.cards[j] == c {
				s.cards = append(s.cards[:j], s.cards[j+1:]...)
				break
			}
		}
		s.cards = append(s.cards, c)
	}
}
