package bot

import (
	"math/rand"

	"president/internal/domain"
)

// RandomBot plays a uniformly random legal card.
type RandomBot struct {
	rng *rand.Rand
}

func (b *RandomBot) CalculateMove(table *domain.TableState, seat domain.Seat) (Move, error) {
	if table == nil || !seat.Valid() || len(table.Hands[seat]) == 0 {
		return Move{Pass: true}, nil
	}
	legal := table.LegalCards(seat)
	if len(legal) == 0 {
		return Move{Pass: true}, nil
	}
	return Move{Card: legal[b.rng.Intn(len(legal))]}, nil
}

func (b *RandomBot) OnEvent(event interface{}) {}
