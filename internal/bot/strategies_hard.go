package bot

import (
	"president/internal/bot/brain"
	"president/internal/domain"
)

// HardBot holds Twos and Jokers for when they matter and counts cards to close out tricks.
type HardBot struct {
	Memory *brain.GameMemory
	Tuning Tuning
}

func (b *HardBot) CalculateMove(table *domain.TableState, seat domain.Seat) (Move, error) {
	if table == nil || !seat.Valid() || len(table.Hands[seat]) == 0 {
		return Move{Pass: true}, nil
	}
	if b.Memory == nil {
		b.Memory = brain.NewMemory()
	}

	hand := table.Hands[seat]
	b.Memory.UpdateHand(hand)
	b.Memory.MarkPlayed(table.Pile)
	b.Memory.MarkPlayed(table.Discard)

	legal := table.LegalCards(seat)
	if len(legal) == 0 {
		return Move{Pass: true}, nil
	}

	var plain, special []domain.Card
	for _, c := range legal {
		if c.IsSpecial() {
			special = append(special, c)
		} else {
			plain = append(plain, c)
		}
	}

	closing := len(hand) <= b.Tuning.SmallHand || b.threatened(table, seat)
	if closing {
		// A card nothing can answer wins the trick without spending a special.
		for _, c := range plain {
			if b.Memory.IsBoss(c) {
				return Move{Card: c}, nil
			}
		}
		if len(special) > 0 {
			return Move{Card: lowestCard(special)}, nil
		}
	}

	if len(plain) > 0 {
		return Move{Card: lowestCard(plain)}, nil
	}
	if len(table.Pile) == 0 {
		return Move{Card: lowestCard(special)}, nil
	}
	return Move{Pass: true}, nil
}

func (b *HardBot) threatened(table *domain.TableState, seat domain.Seat) bool {
	if b.Tuning.ThreatThreshold <= 0 {
		return false
	}
	for _, s := range table.TurnOrder {
		if s == seat {
			continue
		}
		if n := len(table.Hands[s]); n > 0 && n <= b.Tuning.ThreatThreshold {
			return true
		}
	}
	return false
}

func (b *HardBot) OnEvent(event interface{}) {
	if b.Memory == nil {
		b.Memory = brain.NewMemory()
	}
	switch e := event.(type) {
	case RoundStarted:
		b.Memory.Reset()
	case domain.Outcome:
		if e.Card != nil {
			b.Memory.MarkPlayed([]domain.Card{*e.Card})
		}
	}
}
