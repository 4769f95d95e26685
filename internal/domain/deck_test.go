package domain

import (
	"math/rand"
	"testing"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, len(deck))
	}
	seen := make(map[Card]bool)
	for _, c := range deck {
		if !c.Valid() {
			t.Fatalf("invalid card %v", c)
		}
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
}

func TestShufflePreservesCards(t *testing.T) {
	deck := NewDeck()
	shuffled := Shuffle(rand.New(rand.NewSource(7)), deck)
	if len(shuffled) != len(deck) {
		t.Fatalf("shuffle changed size: %d", len(shuffled))
	}
	for _, c := range deck {
		if !ContainsCard(shuffled, c) {
			t.Fatalf("shuffle lost %v", c)
		}
	}
	if deck[0] != (Card{Rank: Three, Suit: Clubs}) {
		t.Fatal("shuffle must not mutate its input")
	}
}

func TestDealSizes(t *testing.T) {
	hands := Deal(Shuffle(rand.New(rand.NewSource(1)), NewDeck()))
	want := [NumSeats]int{11, 11, 11, 11, 10}
	for seat, h := range hands {
		if len(h) != want[seat] {
			t.Errorf("seat %v: got %d cards, want %d", Seat(seat), len(h), want[seat])
		}
	}
}

func TestDealIsPositional(t *testing.T) {
	// Two different permutations; the seat of each index must not depend on the card there.
	for _, seed := range []int64{3, 99} {
		shuffled := Shuffle(rand.New(rand.NewSource(seed)), NewDeck())
		hands := Deal(shuffled)
		for i, c := range shuffled {
			seat := Seat(i % NumSeats)
			if !ContainsCard(hands[seat], c) {
				t.Fatalf("seed %d: card %d (%v) not dealt to %v", seed, i, c, seat)
			}
		}
	}
}

func TestDealSortsHands(t *testing.T) {
	hands := Deal(Shuffle(rand.New(rand.NewSource(5)), NewDeck()))
	for seat, h := range hands {
		for i := 1; i < len(h); i++ {
			if h[i-1].Power() > h[i].Power() {
				t.Fatalf("seat %v hand not sorted: %v", Seat(seat), h)
			}
		}
	}
}

func TestRemoveCard(t *testing.T) {
	hand := []Card{{Rank: Three, Suit: Clubs}, {Rank: Four, Suit: Hearts}}
	got, ok := RemoveCard(hand, Card{Rank: Four, Suit: Hearts})
	if !ok || len(got) != 1 || got[0] != ThreeOfClubs {
		t.Fatalf("RemoveCard = %v, %v", got, ok)
	}
	if len(hand) != 2 {
		t.Fatal("RemoveCard must not mutate its input")
	}
	if _, ok := RemoveCard(hand, Card{Rank: Ace, Suit: Spades}); ok {
		t.Fatal("expected missing card to report false")
	}
}
