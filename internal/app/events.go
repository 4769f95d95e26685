package app

import "president/internal/domain"

// EventKind identifies emitted events for UI dispatch.
type EventKind string

const (
	EventRoundStarted   EventKind = "round_started"
	EventCardsExchanged EventKind = "cards_exchanged"
	EventCardPlayed     EventKind = "card_played"
	EventTurnPassed     EventKind = "turn_passed"
	EventPileCleared    EventKind = "pile_cleared"
	EventPlayerFinished EventKind = "player_finished"
	EventRoundEnded     EventKind = "round_ended"
	EventMatchEnded     EventKind = "match_ended"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []domain.Seat // empty means broadcast
}

// VisibleTo reports whether seat may see ev. Exchanges between two bots stay hidden from the human.
func (ev Event) VisibleTo(seat domain.Seat) bool {
	if len(ev.Recipients) == 0 {
		return true
	}
	for _, s := range ev.Recipients {
		if s == seat {
			return true
		}
	}
	return false
}

type RoundStartedPayload struct {
	Round  int
	Opener domain.Seat
}

type CardsExchangedPayload struct {
	From  domain.Seat
	To    domain.Seat
	Cards []domain.Card
}

type CardPlayedPayload struct {
	Seat domain.Seat
	Card domain.Card
	Next domain.Seat
}

type TurnPassedPayload struct {
	Seat domain.Seat
	Next domain.Seat
}

type PileClearedPayload struct {
	Reason domain.ClearReason
	Leader domain.Seat
}

type PlayerFinishedPayload struct {
	Seat  domain.Seat
	Title domain.Title
}

type RoundEndedPayload struct {
	Round  int
	Titles map[domain.Seat]domain.Title
}

type MatchEndedPayload struct {
	Report MatchReport
}

// outcomeEvents translates an accepted engine action into events.
func outcomeEvents(out domain.Outcome) []Event {
	var events []Event
	if out.Card != nil {
		events = append(events, Event{
			Kind:    EventCardPlayed,
			Payload: CardPlayedPayload{Seat: out.Seat, Card: *out.Card, Next: out.Next},
		})
	} else {
		events = append(events, Event{
			Kind:    EventTurnPassed,
			Payload: TurnPassedPayload{Seat: out.Seat, Next: out.Next},
		})
	}
	if out.Finished {
		events = append(events, Event{
			Kind:    EventPlayerFinished,
			Payload: PlayerFinishedPayload{Seat: out.Seat, Title: out.Title},
		})
	}
	if out.Cleared != domain.ClearNone && !out.RoundComplete {
		events = append(events, Event{
			Kind:    EventPileCleared,
			Payload: PileClearedPayload{Reason: out.Cleared, Leader: out.Next},
		})
	}
	return events
}

func roundStartEvents(round int, table *domain.TableState) []Event {
	events := []Event{{
		Kind:    EventRoundStarted,
		Payload: RoundStartedPayload{Round: round, Opener: table.Current},
	}}
	for _, x := range table.Exchanges {
		events = append(events, Event{
			Kind:       EventCardsExchanged,
			Payload:    CardsExchangedPayload{From: x.From, To: x.To, Cards: x.Cards},
			Recipients: []domain.Seat{x.From, x.To},
		})
	}
	return events
}
