package deck

import (
	"math/rand"
	"testing"
)

func newTestShoe(t *testing.T, decks int) *Shoe {
	t.Helper()
	shoe, err := NewShoe(decks, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewShoe(%d): %v", decks, err)
	}
	return shoe
}

func TestNewShoeValidation(t *testing.T) {
	if _, err := NewShoe(0, rand.New(rand.NewSource(1))); err == nil {
		t.Error("NewShoe(0) should fail")
	}
	if _, err := NewShoe(-3, rand.New(rand.NewSource(1))); err == nil {
		t.Error("NewShoe(-3) should fail")
	}
}

func TestShoeConservation(t *testing.T) {
	shoe := newTestShoe(t, 4)
	if shoe.TotalCards() != 4*52 {
		t.Fatalf("TotalCards() = %d, want %d", shoe.TotalCards(), 4*52)
	}

	for i := 0; i < 150; i++ {
		if _, err := shoe.Draw(); err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if got := shoe.CardsRemaining() + shoe.DiscardCount(); got != shoe.TotalCards() {
			t.Fatalf("after draw %d: pool+discard = %d, want %d", i, got, shoe.TotalCards())
		}
	}

	shoe.Reset()
	if shoe.CardsRemaining() != shoe.TotalCards() {
		t.Errorf("after reset remaining = %d, want %d", shoe.CardsRemaining(), shoe.TotalCards())
	}
	if shoe.DiscardCount() != 0 {
		t.Errorf("after reset discard = %d, want 0", shoe.DiscardCount())
	}
}

func TestShoeDrawExhaustion(t *testing.T) {
	shoe := newTestShoe(t, 1)
	for i := 0; i < 52; i++ {
		if _, err := shoe.Draw(); err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
	}
	if _, err := shoe.Draw(); err != ErrShoeEmpty {
		t.Errorf("draw from empty shoe = %v, want ErrShoeEmpty", err)
	}
}

func TestShoePenetration(t *testing.T) {
	shoe := newTestShoe(t, 1)
	if p := shoe.Penetration(); p != 0 {
		t.Errorf("fresh shoe penetration = %v, want 0", p)
	}
	for i := 0; i < 26; i++ {
		if _, err := shoe.Draw(); err != nil {
			t.Fatal(err)
		}
	}
	if p := shoe.Penetration(); p != 0.5 {
		t.Errorf("half-dealt penetration = %v, want 0.5", p)
	}
}

func TestShoeNeedsShuffle(t *testing.T) {
	shoe := newTestShoe(t, 1)
	if shoe.NeedsShuffle(0.25) {
		t.Error("fresh shoe should not need shuffle at 0.25")
	}
	for i := 0; i < 40; i++ {
		if _, err := shoe.Draw(); err != nil {
			t.Fatal(err)
		}
	}
	// 12 cards left, threshold is 13
	if !shoe.NeedsShuffle(0.25) {
		t.Error("shoe with 12 of 52 cards should need shuffle at 0.25")
	}
	if !shoe.NeedsShuffle(1.0) {
		t.Error("any shoe should need shuffle at ratio 1.0")
	}
}

func TestShoeStack(t *testing.T) {
	shoe := newTestShoe(t, 2)
	rigged, err := ParseCards("9h6c2d5sKh9c")
	if err != nil {
		t.Fatal(err)
	}
	shoe.Stack(rigged...)

	if got := shoe.CardsRemaining(); got != shoe.TotalCards() {
		t.Fatalf("stacking changed pool size: %d != %d", got, shoe.TotalCards())
	}
	for i, want := range rigged {
		card, err := shoe.Draw()
		if err != nil {
			t.Fatal(err)
		}
		if card != want {
			t.Errorf("draw %d = %v, want %v", i, card, want)
		}
	}
}

// Every card must land in every position over enough shuffles; a simple
// chi-squared-free sanity check that the permutation is not obviously
// biased.
func TestShuffleUniformity(t *testing.T) {
	const trials = 5200
	counts := make(map[Card]int)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < trials; i++ {
		shoe, err := NewShoe(1, rng)
		if err != nil {
			t.Fatal(err)
		}
		top, err := shoe.Draw()
		if err != nil {
			t.Fatal(err)
		}
		counts[top]++
	}
	if len(counts) != 52 {
		t.Fatalf("only %d distinct cards seen on top, want 52", len(counts))
	}
	expected := trials / 52
	for card, n := range counts {
		if n < expected/3 || n > expected*3 {
			t.Errorf("card %v on top %d times, expected around %d", card, n, expected)
		}
	}
}
