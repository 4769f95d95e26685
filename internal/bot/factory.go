package bot

import (
	"fmt"
	"math/rand"

	"president/internal/bot/brain"
)

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level Difficulty, rng *rand.Rand) (Brain, error) {
	switch level {
	case DifficultyEasy:
		if rng == nil {
			return nil, fmt.Errorf("easy bot needs a random source")
		}
		return &RandomBot{rng: rng}, nil
	case DifficultyMedium:
		return &GoodBot{}, nil
	case DifficultyHard:
		return &HardBot{Memory: brain.NewMemory(), Tuning: DefaultTuning}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %q", level)
	}
}
