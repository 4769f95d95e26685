package ports

import (
	"context"

	"president/internal/bot"
)

// DefaultRounds is the number of rounds offered to a player with no saved preferences.
const DefaultRounds = 5

// Preferences are the per-player game settings.
type Preferences struct {
	Rounds     int            `json:"rounds"`
	Difficulty bot.Difficulty `json:"difficulty"`
}

// DefaultPreferences returns the settings used before a player saves any.
func DefaultPreferences() Preferences {
	return Preferences{Rounds: DefaultRounds, Difficulty: bot.DefaultDifficulty}
}

// PreferencesPort persists game settings per user.
type PreferencesPort interface {
	// SavePreferences stores prefs for userID, replacing earlier values.
	SavePreferences(ctx context.Context, userID string, prefs Preferences) error
	// LoadPreferences returns the stored settings, or DefaultPreferences when none exist.
	LoadPreferences(ctx context.Context, userID string) (Preferences, error)
}
