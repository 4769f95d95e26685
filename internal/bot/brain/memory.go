package brain

import (
	"president/internal/domain"
)

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // We don't know who has it
	StatusMine                      // In the bot's hand
	StatusPlayed                    // Already on the pile or discarded
)

// GameMemory stores the bot's private "view" of the round.
type GameMemory struct {
	// DeckStatus tracks all 54 cards. Index = (Rank-1)*4 + Suit, jokers last.
	DeckStatus [domain.DeckSize]CardStatus
}

// NewMemory initializes a fresh memory state.
func NewMemory() *GameMemory {
	return &GameMemory{}
}

// Reset clears the memory for a new round.
func (m *GameMemory) Reset() {
	for i := range m.DeckStatus {
		m.DeckStatus[i] = StatusUnknown
	}
}

// MarkMine records the cards currently in the bot's hand.
func (m *GameMemory) MarkMine(cards []domain.Card) {
	for _, c := range cards {
		m.DeckStatus[cardToIndex(c)] = StatusMine
	}
}

// MarkPlayed records cards that have been played on the table.
func (m *GameMemory) MarkPlayed(cards []domain.Card) {
	for _, c := range cards {
		m.DeckStatus[cardToIndex(c)] = StatusPlayed
	}
}

// UpdateHand synchronization. Marks current hand as Mine and others that were Mine as Unknown.
// Cards received in the exchange become Mine; cards given away become Unknown again.
func (m *GameMemory) UpdateHand(hand []domain.Card) {
	for i, status := range m.DeckStatus {
		if status == StatusMine {
			m.DeckStatus[i] = StatusUnknown
		}
	}
	m.MarkMine(hand)
}

// IsBoss returns true if no other card that could be legally played on c is still out there.
// Legality compares ranks, so equal ranks count as a threat.
func (m *GameMemory) IsBoss(c domain.Card) bool {
	self := cardToIndex(c)
	for i, status := range m.DeckStatus {
		if i == self || status == StatusMine || status == StatusPlayed {
			continue
		}
		if indexToRank(i) >= c.Rank {
			return false
		}
	}
	return true
}

// cardToIndex converts domain.Card to a 0-53 index.
func cardToIndex(c domain.Card) int {
	if c.Rank == domain.Joker {
		if c.Suit == domain.Black {
			return 53
		}
		return 52
	}
	return (int(c.Rank)-1)*4 + int(c.Suit)
}

func indexToRank(i int) domain.Rank {
	if i >= 52 {
		return domain.Joker
	}
	return domain.Rank(i/4 + 1)
}
