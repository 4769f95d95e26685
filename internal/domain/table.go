package domain

import "fmt"

// Phase represents the lifecycle stage of a round.
type Phase string

const (
	// PhaseAwaitingOpeningPlay is the round start; the holder of the 3 of clubs must lead.
	PhaseAwaitingOpeningPlay Phase = "awaiting_opening_play"
	// PhaseAwaitingPlay is the normal play/pass cycle.
	PhaseAwaitingPlay Phase = "awaiting_play"
	// PhaseRoundComplete is terminal for the round: every seat holds a title.
	PhaseRoundComplete Phase = "round_complete"
)

// SeatNone marks the absence of a seat, e.g. no one has played yet this round.
const SeatNone Seat = -1

// Transfer records cards handed from one seat to another during the exchange.
type Transfer struct {
	From  Seat
	To    Seat
	Cards []Card
}

// TableState holds the authoritative state of one round.
type TableState struct {
	Phase Phase

	Hands   [NumSeats][]Card
	Pile    []Card // current trick, most recent last
	Discard []Card // cards from cleared piles

	TurnOrder  []Seat // seats still holding cards, in seat order
	Current    Seat
	LastPlayer Seat
	PassCount  int
	// OpenLead is set when Current may play any card: round start, after a clear or a won trick.
	OpenLead      bool
	OpeningPlayed bool

	Titles      map[Seat]Title
	FinishOrder []Seat

	// Exchanges applied to this round's hands before play started.
	Exchanges []Transfer

	Message string
}

// PileTop returns the most recently played card, or nil when the pile is empty.
func (t *TableState) PileTop() *Card {
	if len(t.Pile) == 0 {
		return nil
	}
	top := t.Pile[len(t.Pile)-1]
	return &top
}

// IsActive reports whether the seat still holds cards in this round.
func (t *TableState) IsActive(seat Seat) bool {
	for _, s := range t.TurnOrder {
		if s == seat {
			return true
		}
	}
	return false
}

// CardCount sums every card held, on the pile and discarded.
func (t *TableState) CardCount() int {
	n := len(t.Pile) + len(t.Discard)
	for _, h := range t.Hands {
		n += len(h)
	}
	return n
}

// Clone returns a deep copy suitable for handing to read-only consumers.
func (t *TableState) Clone() *TableState {
	out := *t
	for i := range t.Hands {
		out.Hands[i] = append([]Card(nil), t.Hands[i]...)
	}
	out.Pile = append([]Card(nil), t.Pile...)
	out.Discard = append([]Card(nil), t.Discard...)
	out.TurnOrder = append([]Seat(nil), t.TurnOrder...)
	out.FinishOrder = append([]Seat(nil), t.FinishOrder...)
	out.Titles = make(map[Seat]Title, len(t.Titles))
	for k, v := range t.Titles {
		out.Titles[k] = v
	}
	out.Exchanges = nil
	for _, x := range t.Exchanges {
		out.Exchanges = append(out.Exchanges, Transfer{From: x.From, To: x.To, Cards: append([]Card(nil), x.Cards...)})
	}
	return &out
}

// CheckInvariants verifies card conservation, turn bookkeeping and title uniqueness.
func (t *TableState) CheckInvariants() error {
	if n := t.CardCount(); n != DeckSize {
		return fmt.Errorf("%w: %d cards on the table, want %d", ErrInvariantViolation, n, DeckSize)
	}

	seen := make(map[Card]bool, DeckSize)
	check := func(cards []Card) error {
		for _, c := range cards {
			if !c.Valid() {
				return fmt.Errorf("%w: invalid card %v", ErrInvariantViolation, c)
			}
			if seen[c] {
				return fmt.Errorf("%w: duplicate card %v", ErrInvariantViolation, c)
			}
			seen[c] = true
		}
		return nil
	}
	for _, h := range t.Hands {
		if err := check(h); err != nil {
			return err
		}
	}
	if err := check(t.Pile); err != nil {
		return err
	}
	if err := check(t.Discard); err != nil {
		return err
	}

	if t.Phase != PhaseRoundComplete {
		if !t.IsActive(t.Current) {
			return fmt.Errorf("%w: current seat %v is not active", ErrInvariantViolation, t.Current)
		}
		if t.PassCount >= len(t.TurnOrder) {
			return fmt.Errorf("%w: pass count %d with %d active seats", ErrInvariantViolation, t.PassCount, len(t.TurnOrder))
		}
	}

	holders := make(map[Title]Seat, len(t.Titles))
	for seat, title := range t.Titles {
		if prev, ok := holders[title]; ok {
			return fmt.Errorf("%w: %v assigned to %v and %v", ErrInvariantViolation, title, prev, seat)
		}
		holders[title] = seat
	}
	if len(t.Titles) != len(t.FinishOrder) {
		return fmt.Errorf("%w: %d titles for %d finished seats", ErrInvariantViolation, len(t.Titles), len(t.FinishOrder))
	}
	if t.Phase == PhaseRoundComplete && len(t.Titles) != NumSeats {
		return fmt.Errorf("%w: round complete with %d titles", ErrInvariantViolation, len(t.Titles))
	}
	return nil
}

// SeatWithTitle returns the seat holding title in titles, or SeatNone.
func SeatWithTitle(titles map[Seat]Title, title Title) Seat {
	for seat, tt := range titles {
		if tt == title {
			return seat
		}
	}
	return SeatNone
}
