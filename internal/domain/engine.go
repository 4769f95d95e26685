package domain

import "fmt"

// ClearReason explains why the pile was moved to the discard.
type ClearReason int

const (
	ClearNone ClearReason = iota
	// ClearSpecial follows a Two or Joker.
	ClearSpecial
	// ClearFourOfAKind follows four consecutive cards of one rank.
	ClearFourOfAKind
	// ClearTrickWon follows every other active player passing.
	ClearTrickWon
)

func (r ClearReason) String() string {
	switch r {
	case ClearSpecial:
		return "special"
	case ClearFourOfAKind:
		return "four_of_a_kind"
	case ClearTrickWon:
		return "trick_won"
	default:
		return "none"
	}
}

// Outcome describes the effect of one accepted action.
type Outcome struct {
	Seat   Seat
	Card   *Card // nil for a pass
	Passed bool

	Cleared ClearReason
	// LeadAgain is set when the acting seat keeps the turn with an open lead.
	LeadAgain bool

	Finished      bool  // the acting seat emptied its hand
	Title         Title // title earned when Finished
	RoundComplete bool

	Next Seat
}

// CanPlay reports whether card may be played on top. Legality compares ranks only.
func CanPlay(card Card, top *Card, openLead bool) bool {
	if top == nil || openLead {
		return true
	}
	if top.IsSpecial() {
		return true
	}
	return card.Rank >= top.Rank
}

// LegalCards returns the cards in seat's hand that may be played right now, ascending.
func (t *TableState) LegalCards(seat Seat) []Card {
	if !seat.Valid() || t.Phase == PhaseRoundComplete {
		return nil
	}
	top := t.PileTop()
	var out []Card
	for _, c := range t.Hands[seat] {
		if CanPlay(c, top, t.OpenLead) {
			out = append(out, c)
		}
	}
	return out
}

// NextSeat returns the first active seat after from in fixed seat order.
// from itself need not be active. With no active seats it returns from.
func (t *TableState) NextSeat(from Seat) Seat {
	for i := 1; i <= NumSeats; i++ {
		s := Seat((int(from) + i) % NumSeats)
		if t.IsActive(s) {
			return s
		}
	}
	return from
}

func (t *TableState) validateTurn(seat Seat) error {
	if !seat.Valid() {
		return ErrUnknownSeat
	}
	if t.Phase == PhaseRoundComplete {
		return ErrRoundOver
	}
	if seat != t.Current {
		return ErrNotYourTurn
	}
	return nil
}

// Play moves card from seat's hand onto the pile and resolves its effects.
// On error the table is unchanged.
func (t *TableState) Play(seat Seat, card Card) (Outcome, error) {
	if err := t.validateTurn(seat); err != nil {
		return Outcome{}, err
	}
	if !ContainsCard(t.Hands[seat], card) {
		return Outcome{}, ErrCardNotHeld
	}
	if !CanPlay(card, t.PileTop(), t.OpenLead) {
		return Outcome{}, fmt.Errorf("%w: %v on %v", ErrCannotBeat, card, *t.PileTop())
	}

	t.Hands[seat], _ = RemoveCard(t.Hands[seat], card)
	t.Pile = append(t.Pile, card)
	t.PassCount = 0
	t.LastPlayer = seat
	t.OpenLead = false
	t.OpeningPlayed = true
	t.Phase = PhaseAwaitingPlay

	played := card
	out := Outcome{Seat: seat, Card: &played}
	t.Message = fmt.Sprintf("%v played %v", seat, card)

	switch {
	case card.IsSpecial():
		out.Cleared = ClearSpecial
	case t.topFourOfAKind():
		out.Cleared = ClearFourOfAKind
	}
	if out.Cleared != ClearNone {
		t.clearPile()
	}

	if len(t.Hands[seat]) == 0 {
		out.Finished = true
		out.Title = t.onHandEmptied(seat)
		if t.Phase == PhaseRoundComplete {
			out.RoundComplete = true
			out.Next = SeatNone
			t.Message = fmt.Sprintf("%v played %v and finished as %v; round over", seat, card, out.Title)
			return out, nil
		}
		t.Message = fmt.Sprintf("%v played %v and finished as %v", seat, card, out.Title)
	}

	switch {
	case out.Cleared != ClearNone && !out.Finished:
		t.Current = seat
		t.OpenLead = true
		out.LeadAgain = true
		t.Message += ", pile cleared, plays again"
	case out.Cleared != ClearNone:
		t.Current = t.NextSeat(seat)
		t.OpenLead = true
	default:
		t.Current = t.NextSeat(seat)
	}
	out.Next = t.Current
	return out, nil
}

// Pass records a pass by seat. Passing is not allowed on an empty pile.
func (t *TableState) Pass(seat Seat) (Outcome, error) {
	if err := t.validateTurn(seat); err != nil {
		return Outcome{}, err
	}
	if len(t.Pile) == 0 {
		return Outcome{}, ErrMustLead
	}

	t.PassCount++
	out := Outcome{Seat: seat, Passed: true}
	t.Message = fmt.Sprintf("%v passed", seat)

	lastActive := t.IsActive(t.LastPlayer)
	needed := len(t.TurnOrder) - 1
	if !lastActive {
		needed = len(t.TurnOrder)
	}

	if t.PassCount >= needed {
		t.clearPile()
		out.Cleared = ClearTrickWon
		leader := t.LastPlayer
		if !lastActive {
			leader = t.NextSeat(t.LastPlayer)
		}
		t.Current = leader
		t.OpenLead = true
		t.Message = fmt.Sprintf("%v passed; %v takes the lead", seat, leader)
	} else {
		t.Current = t.NextSeat(seat)
	}
	out.Next = t.Current
	return out, nil
}

func (t *TableState) topFourOfAKind() bool {
	n := len(t.Pile)
	if n < 4 {
		return false
	}
	rank := t.Pile[n-1].Rank
	for _, c := range t.Pile[n-4:] {
		if c.Rank != rank {
			return false
		}
	}
	return true
}

func (t *TableState) clearPile() {
	t.Discard = append(t.Discard, t.Pile...)
	t.Pile = nil
	t.PassCount = 0
}
