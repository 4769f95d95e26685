package domain

import (
	"math/rand"
	"sort"
)

// DeckSize is the number of cards in a President deck: 52 plus two jokers.
const DeckSize = 54

// NewDeck returns the ordered 54-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for r := Three; r <= Two; r++ {
		for s := Clubs; s <= Spades; s++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	deck = append(deck, Card{Rank: Joker, Suit: Red}, Card{Rank: Joker, Suit: Black})
	return deck
}

// Shuffle returns a shuffled copy of the given deck.
func Shuffle(rng *rand.Rand, deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal distributes cards round-robin starting with the User seat: card i goes to seat i mod NumSeats.
// Each hand is sorted afterwards; the distribution itself depends only on position.
func Deal(shuffled []Card) [NumSeats][]Card {
	var hands [NumSeats][]Card
	for i, c := range shuffled {
		seat := i % NumSeats
		hands[seat] = append(hands[seat], c)
	}
	for i := range hands {
		SortHand(hands[i])
	}
	return hands
}

// SortHand orders a hand by ascending power.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].Power() < cards[j].Power()
	})
}

// ContainsCard reports whether the hand holds the card.
func ContainsCard(hand []Card, card Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

// RemoveCard removes one copy of card from hand and returns the updated hand.
func RemoveCard(hand []Card, card Card) ([]Card, bool) {
	for i, c := range hand {
		if c == card {
			out := make([]Card, 0, len(hand)-1)
			out = append(out, hand[:i]...)
			return append(out, hand[i+1:]...), true
		}
	}
	return hand, false
}
