package domain

import (
	"fmt"
	"strings"
)

// Rank is the face value of a card. The zero value is invalid.
// Ranks are ordered 3 < 4 < ... < King < Ace < Two < Joker.
type Rank int

const (
	RankInvalid Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
	Two
	Joker
)

// Suit identifies a card among others of the same rank. Jokers carry a color instead.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
	Red   // jokers only
	Black // jokers only
)

// Card is a single playing card. It is a comparable value type.
type Card struct {
	Rank Rank
	Suit Suit
}

// ThreeOfClubs is held by the player who opens a round.
var ThreeOfClubs = Card{Rank: Three, Suit: Clubs}

var rankNames = map[Rank]string{
	Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8", Nine: "9", Ten: "10",
	Jack: "jack", Queen: "queen", King: "king", Ace: "ace", Two: "2", Joker: "joker",
}

var rankShort = map[Rank]string{
	Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7", Eight: "8", Nine: "9", Ten: "10",
	Jack: "J", Queen: "Q", King: "K", Ace: "A", Two: "2", Joker: "Jk",
}

var suitNames = map[Suit]string{
	Clubs: "clubs", Diamonds: "diamonds", Hearts: "hearts", Spades: "spades", Red: "red", Black: "black",
}

var suitSymbols = map[Suit]string{
	Clubs: "♣", Diamonds: "♦", Hearts: "♥", Spades: "♠", Red: "R", Black: "B",
}

// IsSpecial reports whether the card is a Two or a Joker.
func (c Card) IsSpecial() bool {
	return c.Rank == Two || c.Rank == Joker
}

// Power orders cards totally: rank first, suit as a tie breaker.
// Only used for sorting; legality compares ranks alone.
func (c Card) Power() int {
	return int(c.Rank)*8 + int(c.Suit)
}

// Valid reports whether the card exists in a President deck.
func (c Card) Valid() bool {
	if c.Rank == Joker {
		return c.Suit == Red || c.Suit == Black
	}
	return c.Rank >= Three && c.Rank <= Two && c.Suit >= Clubs && c.Suit <= Spades
}

// String renders the card compactly, e.g. "10♥" or "Jk(R)".
func (c Card) String() string {
	if c.Rank == Joker {
		return fmt.Sprintf("Jk(%s)", suitSymbols[c.Suit])
	}
	return rankShort[c.Rank] + suitSymbols[c.Suit]
}

// Name renders the long form used by the original asset names, e.g. "jack_of_clubs" or "red_joker".
func (c Card) Name() string {
	if c.Rank == Joker {
		return suitNames[c.Suit] + "_joker"
	}
	return rankNames[c.Rank] + "_of_" + suitNames[c.Suit]
}

var shortRanks = map[string]Rank{
	"3": Three, "4": Four, "5": Five, "6": Six, "7": Seven, "8": Eight, "9": Nine, "10": Ten, "t": Ten,
	"j": Jack, "q": Queen, "k": King, "a": Ace, "2": Two,
	"jack": Jack, "queen": Queen, "king": King, "ace": Ace, "two": Two, "three": Three, "four": Four,
	"five": Five, "six": Six, "seven": Seven, "eight": Eight, "nine": Nine, "ten": Ten,
}

var shortSuits = map[string]Suit{
	"c": Clubs, "d": Diamonds, "h": Hearts, "s": Spades,
	"clubs": Clubs, "diamonds": Diamonds, "hearts": Hearts, "spades": Spades,
	"♣": Clubs, "♦": Diamonds, "♥": Hearts, "♠": Spades,
}

// ParseCard accepts "7h", "10s", "qd", "jr"/"jb" (jokers), "jack_of_clubs" and "red_joker".
func ParseCard(s string) (Card, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if in == "" {
		return Card{}, fmt.Errorf("empty card")
	}

	switch in {
	case "jr", "red_joker", "joker_red":
		return Card{Rank: Joker, Suit: Red}, nil
	case "jb", "black_joker", "joker_black":
		return Card{Rank: Joker, Suit: Black}, nil
	}

	if rank, suit, ok := strings.Cut(in, "_of_"); ok {
		r, okR := shortRanks[rank]
		su, okS := shortSuits[suit]
		if !okR || !okS {
			return Card{}, fmt.Errorf("unknown card %q", s)
		}
		return Card{Rank: r, Suit: su}, nil
	}

	runes := []rune(in)
	if len(runes) < 2 {
		return Card{}, fmt.Errorf("unknown card %q", s)
	}
	r, okR := shortRanks[string(runes[:len(runes)-1])]
	su, okS := shortSuits[string(runes[len(runes)-1])]
	if !okR || !okS {
		return Card{}, fmt.Errorf("unknown card %q", s)
	}
	return Card{Rank: r, Suit: su}, nil
}
