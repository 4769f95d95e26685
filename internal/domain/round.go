package domain

import (
	"fmt"
	"math/rand"
	"sort"
)

// Exchange sizes between the title pairs.
const (
	PresidentExchange     = 2
	VicePresidentExchange = 1
)

// NewRound shuffles a fresh deck, deals it and opens the round with the 3 of clubs holder.
// When previous titles are given the exchange is applied to the new hands before play.
func NewRound(rng *rand.Rand, previous map[Seat]Title) *TableState {
	hands := Deal(Shuffle(rng, NewDeck()))
	return NewRoundFromHands(hands, previous)
}

// NewRoundFromHands starts a round from already dealt hands.
func NewRoundFromHands(hands [NumSeats][]Card, previous map[Seat]Title) *TableState {
	t := &TableState{
		Phase:      PhaseAwaitingOpeningPlay,
		TurnOrder:  append([]Seat(nil), Seats[:]...),
		LastPlayer: SeatNone,
		OpenLead:   true,
		Titles:     make(map[Seat]Title, NumSeats),
	}
	if len(previous) > 0 {
		hands, t.Exchanges = ExchangeCards(hands, previous)
	}
	t.Hands = hands
	t.Current = OpeningSeat(hands)
	t.Message = fmt.Sprintf("%v holds %v and leads", t.Current, ThreeOfClubs)
	return t
}

// OpeningSeat returns the seat holding the 3 of clubs, falling back to the User seat.
func OpeningSeat(hands [NumSeats][]Card) Seat {
	for _, seat := range Seats {
		if ContainsCard(hands[seat], ThreeOfClubs) {
			return seat
		}
	}
	return SeatUser
}

// onHandEmptied assigns the next title to seat and removes it from the turn order.
// When a single seat remains it receives the last title and the round completes.
func (t *TableState) onHandEmptied(seat Seat) Title {
	title := t.award(seat)
	if len(t.TurnOrder) == 1 {
		t.award(t.TurnOrder[0])
		t.Phase = PhaseRoundComplete
		t.OpenLead = false
	}
	return title
}

func (t *TableState) award(seat Seat) Title {
	title := TitleOrder[len(t.FinishOrder)]
	t.Titles[seat] = title
	t.FinishOrder = append(t.FinishOrder, seat)

	order := make([]Seat, 0, len(t.TurnOrder))
	for _, s := range t.TurnOrder {
		if s != seat {
			order = append(order, s)
		}
	}
	t.TurnOrder = order
	return title
}

// ExchangeCards performs the post-round exchange on hands.
// President gives its 2 lowest cards to Bum and receives Bum's 2 highest;
// Vice President and Vice Bum swap one card the same way.
// Both swaps read the hands as they were before either swap; a swap with an empty side is skipped.
func ExchangeCards(hands [NumSeats][]Card, titles map[Seat]Title) ([NumSeats][]Card, []Transfer) {
	var out [NumSeats][]Card
	for i := range hands {
		out[i] = append([]Card(nil), hands[i]...)
	}

	var transfers []Transfer
	swap := func(high, low Title, n int) {
		hs, ls := SeatWithTitle(titles, high), SeatWithTitle(titles, low)
		if !hs.Valid() || !ls.Valid() || hs == ls {
			return
		}
		n = min(n, len(hands[hs]), len(hands[ls]))
		if n == 0 {
			return
		}
		give := lowest(hands[hs], n)
		take := highest(hands[ls], n)

		for _, c := range give {
			out[hs], _ = RemoveCard(out[hs], c)
		}
		for _, c := range take {
			out[ls], _ = RemoveCard(out[ls], c)
		}
		out[hs] = append(out[hs], take...)
		out[ls] = append(out[ls], give...)
		SortHand(out[hs])
		SortHand(out[ls])

		transfers = append(transfers,
			Transfer{From: hs, To: ls, Cards: give},
			Transfer{From: ls, To: hs, Cards: take},
		)
	}
	swap(President, Bum, PresidentExchange)
	swap(VicePresident, ViceBum, VicePresidentExchange)
	return out, transfers
}

func sortedCopy(hand []Card) []Card {
	out := append([]Card(nil), hand...)
	sort.Slice(out, func(i, j int) bool { return out[i].Power() < out[j].Power() })
	return out
}

func lowest(hand []Card, n int) []Card {
	return sortedCopy(hand)[:n]
}

func highest(hand []Card, n int) []Card {
	s := sortedCopy(hand)
	return s[len(s)-n:]
}
