package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"

	"president/internal/app/accounts"
	"president/internal/bot"
	"president/internal/domain"
	"president/internal/ports"
)

var errNoUser = runtime.NewError("no user in context", 16) // UNAUTHENTICATED

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcCreateMatch:     rpcCreateMatch,
		RpcLeaderboard:     rpcLeaderboard,
		RpcSavePreferences: rpcSavePreferences,
		RpcLoadPreferences: rpcLoadPreferences,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}

// CreateMatchRequest optionally overrides the stored preferences.
type CreateMatchRequest struct {
	Rounds     int    `json:"rounds,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

type CreateMatchResponse struct {
	MatchID    string `json:"match_id"`
	Rounds     int    `json:"rounds"`
	Difficulty string `json:"difficulty"`
}

type matchCreator interface {
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
}

func rpcCreateMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return createMatch(ctx, logger, nk, NewStoragePreferences(nk), payload)
}

func createMatch(ctx context.Context, logger runtime.Logger, creator matchCreator, prefsPort ports.PreferencesPort, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", errNoUser
	}
	var req CreateMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
		}
	}

	svc := accounts.NewService(nil, prefsPort, nil)
	prefs, err := svc.LoadPreferences(ctx, userID)
	if err != nil {
		logger.Error("createMatch [User:%s]: Failed to load preferences: %v", userID, err)
		return "", err
	}
	if req.Rounds != 0 {
		prefs.Rounds = accounts.ClampRounds(req.Rounds)
	}
	if req.Difficulty != "" {
		d, err := bot.ParseDifficulty(req.Difficulty)
		if err != nil {
			return "", runtime.NewError(err.Error(), 3)
		}
		prefs.Difficulty = d
	}

	matchID, err := creator.MatchCreate(ctx, MatchNamePresident, map[string]interface{}{
		"user_id":    userID,
		"rounds":     prefs.Rounds,
		"difficulty": string(prefs.Difficulty),
	})
	if err != nil {
		logger.Error("createMatch [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}
	logger.Info("createMatch [User:%s]: Created match %s", userID, matchID)

	b, err := json.Marshal(CreateMatchResponse{MatchID: matchID, Rounds: prefs.Rounds, Difficulty: string(prefs.Difficulty)})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type LeaderboardRequest struct {
	Limit int `json:"limit"`
}

type LeaderboardRow struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	TotalGames    int    `json:"total_games"`
	President     int    `json:"president"`
	VicePresident int    `json:"vice_president"`
	Middle        int    `json:"middle"`
	ViceBum       int    `json:"vice_bum"`
	Bum           int    `json:"bum"`
}

func rpcLeaderboard(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return leaderboard(ctx, logger, NewStorageResults(nk), payload)
}

func leaderboard(ctx context.Context, logger runtime.Logger, results ports.ResultsPort, payload string) (string, error) {
	req := LeaderboardRequest{Limit: defaultLeaderboard}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", 3)
		}
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = defaultLeaderboard
	}
	entries, err := results.Leaderboard(ctx, req.Limit)
	if err != nil {
		logger.Error("leaderboard: %v", err)
		return "", err
	}
	rows := make([]LeaderboardRow, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, LeaderboardRow{
			Rank:          i + 1,
			UserID:        e.UserID,
			Username:      e.Username,
			TotalGames:    e.TotalGames,
			President:     e.Counts.Count(domain.President),
			VicePresident: e.Counts.Count(domain.VicePresident),
			Middle:        e.Counts.Count(domain.Middle),
			ViceBum:       e.Counts.Count(domain.ViceBum),
			Bum:           e.Counts.Count(domain.Bum),
		})
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type PreferencesPayload struct {
	Rounds     int    `json:"rounds"`
	Difficulty string `json:"difficulty"`
}

func rpcSavePreferences(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return savePreferences(ctx, logger, NewStoragePreferences(nk), payload)
}

func savePreferences(ctx context.Context, logger runtime.Logger, prefsPort ports.PreferencesPort, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", errNoUser
	}
	var req PreferencesPayload
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3)
	}
	difficulty, err := bot.ParseDifficulty(req.Difficulty)
	if err != nil {
		return "", runtime.NewError(err.Error(), 3)
	}
	prefs, err := accounts.NewService(nil, prefsPort, nil).SavePreferences(ctx, userID, req.Rounds, difficulty)
	if err != nil {
		logger.Error("savePreferences [User:%s]: %v", userID, err)
		return "", err
	}
	return marshalPreferences(prefs)
}

func rpcLoadPreferences(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return loadPreferences(ctx, logger, NewStoragePreferences(nk))
}

func loadPreferences(ctx context.Context, logger runtime.Logger, prefsPort ports.PreferencesPort) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", errNoUser
	}
	prefs, err := accounts.NewService(nil, prefsPort, nil).LoadPreferences(ctx, userID)
	if err != nil {
		logger.Error("loadPreferences [User:%s]: %v", userID, err)
		return "", err
	}
	return marshalPreferences(prefs)
}

func marshalPreferences(prefs ports.Preferences) (string, error) {
	b, err := json.Marshal(PreferencesPayload{Rounds: prefs.Rounds, Difficulty: string(prefs.Difficulty)})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
