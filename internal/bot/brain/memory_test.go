package brain

import (
	"testing"

	"president/internal/domain"
)

func TestGameMemory(t *testing.T) {
	m := NewMemory()

	for i := 0; i < domain.DeckSize; i++ {
		if m.DeckStatus[i] != StatusUnknown {
			t.Errorf("Index %d should be Unknown, got %d", i, m.DeckStatus[i])
		}
	}

	threeClubs := domain.ThreeOfClubs
	m.MarkMine([]domain.Card{threeClubs})
	if m.DeckStatus[0] != StatusMine {
		t.Errorf("3C should be StatusMine")
	}

	m.MarkPlayed([]domain.Card{threeClubs})
	if m.DeckStatus[0] != StatusPlayed {
		t.Errorf("3C should be StatusPlayed")
	}

	m.Reset()
	if m.DeckStatus[0] != StatusUnknown {
		t.Errorf("After reset, 3C should be StatusUnknown")
	}
}

func TestCardIndexCoversDeck(t *testing.T) {
	seen := make(map[int]bool)
	for _, c := range domain.NewDeck() {
		idx := cardToIndex(c)
		if idx < 0 || idx >= domain.DeckSize || seen[idx] {
			t.Fatalf("bad index %d for %v", idx, c)
		}
		seen[idx] = true
		if indexToRank(idx) != c.Rank {
			t.Fatalf("indexToRank(%d) = %v, want %v", idx, indexToRank(idx), c.Rank)
		}
	}
}

func TestUpdateHandReleasesExchangedCards(t *testing.T) {
	m := NewMemory()
	a := domain.Card{Rank: domain.Ace, Suit: domain.Spades}
	b := domain.Card{Rank: domain.Four, Suit: domain.Hearts}
	m.UpdateHand([]domain.Card{a})
	m.UpdateHand([]domain.Card{b})
	if m.DeckStatus[cardToIndex(a)] != StatusUnknown {
		t.Fatal("card no longer held should become unknown")
	}
	if m.DeckStatus[cardToIndex(b)] != StatusMine {
		t.Fatal("held card should be mine")
	}
}

func TestIsBoss(t *testing.T) {
	m := NewMemory()
	king := domain.Card{Rank: domain.King, Suit: domain.Hearts}
	if m.IsBoss(king) {
		t.Fatal("king cannot be boss while aces and twos are unseen")
	}

	var out []domain.Card
	for _, c := range domain.NewDeck() {
		if c.Rank >= domain.King && c != king {
			out = append(out, c)
		}
	}
	m.MarkPlayed(out[:len(out)-1])
	m.MarkMine(out[len(out)-1:])
	if !m.IsBoss(king) {
		t.Fatal("king should be boss once every equal or higher card is accounted for")
	}
}
