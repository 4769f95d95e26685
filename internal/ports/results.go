package ports

import (
	"context"
	"time"

	"president/internal/domain"
)

// MatchResult is what a finished match reports for its human player.
type MatchResult struct {
	MatchID     string
	UserID      string
	FinalTitle  domain.Title
	GamesPlayed int
	Counts      domain.TitleCounts
	PlayedAt    time.Time
}

// LeaderboardEntry aggregates every recorded result of one user.
type LeaderboardEntry struct {
	UserID     string
	Username   string
	TotalGames int
	Counts     domain.TitleCounts
}

// ResultsPort records finished matches and serves the leaderboard.
type ResultsPort interface {
	// RecordResult stores the result and folds it into the user's leaderboard row.
	RecordResult(ctx context.Context, result MatchResult) error
	// Leaderboard returns up to limit entries ordered by presidencies, then games played.
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}
