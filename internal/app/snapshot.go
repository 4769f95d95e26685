package app

import (
	"president/internal/bot"
	"president/internal/domain"
)

// SeatView is the public information about one seat.
type SeatView struct {
	Seat      domain.Seat
	Name      string
	CardCount int
	Title     domain.Title // title earned this round, TitleNone while still playing
	LastTitle domain.Title // title from the previous round
	Active    bool
	Tally     domain.TitleCounts
}

// Snapshot is a read-only view of the match. Only the human's cards are revealed.
type Snapshot struct {
	MatchID          string
	Phase            domain.Phase
	Round            int
	RoundsConfigured int
	RoundsPlayed     int
	Difficulty       bot.Difficulty

	Hand  []domain.Card // the human's hand, sorted
	Legal []domain.Card // playable cards when it is the human's turn
	Seats [domain.NumSeats]SeatView

	PileTop  *domain.Card
	PileSize int
	Discards int
	Current  domain.Seat
	OpenLead bool

	// Exchanges involving the human at the start of this round.
	Exchanges []domain.Transfer

	Message    string
	MatchEnded bool
}

// Snapshot builds the current view. Before Start it only carries the configuration.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		MatchID:          c.matchID,
		Round:            c.round,
		RoundsConfigured: c.rounds,
		RoundsPlayed:     c.roundsPlayed,
		Difficulty:       c.difficulty,
		MatchEnded:       c.ended,
		Current:          domain.SeatNone,
	}
	if c.table == nil {
		return s
	}
	t := c.table

	s.Phase = t.Phase
	s.Hand = append([]domain.Card(nil), t.Hands[domain.SeatUser]...)
	s.PileTop = t.PileTop()
	s.PileSize = len(t.Pile)
	s.Discards = len(t.Discard)
	s.OpenLead = t.OpenLead
	s.Message = t.Message
	if t.Phase != domain.PhaseRoundComplete {
		s.Current = t.Current
		if t.Current == domain.SeatUser {
			s.Legal = t.LegalCards(domain.SeatUser)
		}
	}
	for _, x := range t.Exchanges {
		if x.From == domain.SeatUser || x.To == domain.SeatUser {
			s.Exchanges = append(s.Exchanges, domain.Transfer{From: x.From, To: x.To, Cards: append([]domain.Card(nil), x.Cards...)})
		}
	}

	for _, seat := range domain.Seats {
		view := SeatView{
			Seat:      seat,
			Name:      c.seatName(seat),
			CardCount: len(t.Hands[seat]),
			Title:     t.Titles[seat],
			LastTitle: c.lastTitles[seat],
			Active:    t.IsActive(seat),
			Tally:     c.tallies[seat],
		}
		s.Seats[seat] = view
	}
	return s
}

func (c *Controller) seatName(seat domain.Seat) string {
	if a := c.agents[seat]; a != nil {
		// Provisioned bots may have been renamed on the server.
		if name := bot.GetBotDisplayName(a.Identity.UserID); name != "" {
			return name
		}
		if a.Identity.DisplayName != "" {
			return a.Identity.DisplayName
		}
	}
	if seat == domain.SeatUser {
		return "You"
	}
	return seat.String()
}
