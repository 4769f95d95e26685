package bot

import (
	"president/internal/domain"
)

// GoodBot plays the lowest legal card and passes only when nothing is legal.
type GoodBot struct{}

func (b *GoodBot) CalculateMove(table *domain.TableState, seat domain.Seat) (Move, error) {
	if table == nil || !seat.Valid() || len(table.Hands[seat]) == 0 {
		return Move{Pass: true}, nil
	}

	legal := table.LegalCards(seat)
	if len(legal) == 0 {
		return Move{Pass: true}, nil
	}
	return Move{Card: lowestCard(legal)}, nil
}

func (b *GoodBot) OnEvent(event interface{}) {}

func lowestCard(cards []domain.Card) domain.Card {
	low := cards[0]
	for _, c := range cards[1:] {
		if c.Power() < low.Power() {
			low = c
		}
	}
	return low
}
