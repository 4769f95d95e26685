package bot

import (
	"fmt"
	"strings"

	"president/internal/domain"
)

// Move represents the decision made by the AI.
type Move struct {
	Pass bool
	Card domain.Card
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	CalculateMove(table *domain.TableState, seat domain.Seat) (Move, error)
	OnEvent(event interface{})
}

// RoundStarted is delivered to brains when fresh hands have been dealt.
type RoundStarted struct {
	Round int
}

// Difficulty selects the play strategy of the computer opponents.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// DefaultDifficulty is used when nothing else is configured.
const DefaultDifficulty = DifficultyMedium

// ParseDifficulty accepts the level names in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium", "":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}
