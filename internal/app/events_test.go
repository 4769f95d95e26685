package app

import (
	"testing"

	"president/internal/domain"
)

func TestEventVisibleTo(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		seat domain.Seat
		want bool
	}{
		{name: "broadcast", ev: Event{Kind: EventCardPlayed}, seat: domain.SeatUser, want: true},
		{name: "exchange with the human", ev: Event{Kind: EventCardsExchanged, Recipients: []domain.Seat{domain.SeatPlayer2, domain.SeatUser}}, seat: domain.SeatUser, want: true},
		{name: "exchange between bots", ev: Event{Kind: EventCardsExchanged, Recipients: []domain.Seat{domain.SeatPlayer1, domain.SeatPlayer4}}, seat: domain.SeatUser},
		{name: "bot sees its own exchange", ev: Event{Kind: EventCardsExchanged, Recipients: []domain.Seat{domain.SeatPlayer1, domain.SeatPlayer4}}, seat: domain.SeatPlayer4, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.VisibleTo(tt.seat); got != tt.want {
				t.Fatalf("VisibleTo(%v) = %t, want %t", tt.seat, got, tt.want)
			}
		})
	}
}
