package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"president/internal/bot"
	"president/internal/domain"
	"president/internal/ports"
)

// storageAPI is the subset of runtime.NakamaModule the storage adapters use.
type storageAPI interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// accountAPI resolves usernames for leaderboard rows.
type accountAPI interface {
	AccountGetId(ctx context.Context, userID string) (*api.Account, error)
}

// StoragePreferences implements ports.PreferencesPort on Nakama storage.
type StoragePreferences struct {
	nk storageAPI
}

func NewStoragePreferences(nk storageAPI) *StoragePreferences {
	return &StoragePreferences{nk: nk}
}

var _ ports.PreferencesPort = (*StoragePreferences)(nil)

func (a *StoragePreferences) SavePreferences(ctx context.Context, userID string, prefs ports.Preferences) error {
	value, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      StorageCollection,
		Key:             StorageKeyPreferences,
		UserID:          userID,
		Value:           string(value),
		PermissionRead:  1, // owner read
		PermissionWrite: 0, // server only
	}})
	return err
}

func (a *StoragePreferences) LoadPreferences(ctx context.Context, userID string) (ports.Preferences, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: StorageCollection,
		Key:        StorageKeyPreferences,
		UserID:     userID,
	}})
	if err != nil {
		return ports.Preferences{}, err
	}
	if len(objects) == 0 {
		return ports.DefaultPreferences(), nil
	}
	prefs := ports.DefaultPreferences()
	if err := json.Unmarshal([]byte(objects[0].GetValue()), &prefs); err != nil {
		return ports.Preferences{}, fmt.Errorf("corrupt preferences for %s: %w", userID, err)
	}
	if !prefs.Difficulty.Valid() {
		prefs.Difficulty = bot.DefaultDifficulty
	}
	return prefs, nil
}

// StorageResults implements ports.ResultsPort. Each result is stored under the
// player; the leaderboard is one system-owned object updated with version checks.
type StorageResults struct {
	nk       storageAPI
	accounts accountAPI
}

// NewStorageResults builds the adapter. When nk also resolves accounts, leaderboard
// rows carry the player's username.
func NewStorageResults(nk storageAPI) *StorageResults {
	a := &StorageResults{nk: nk}
	if acc, ok := nk.(accountAPI); ok {
		a.accounts = acc
	}
	return a
}

var _ ports.ResultsPort = (*StorageResults)(nil)

type storedResult struct {
	MatchID     string             `json:"match_id"`
	FinalTitle  string             `json:"final_title"`
	GamesPlayed int                `json:"games_played"`
	Counts      domain.TitleCounts `json:"counts"`
	PlayedAt    int64              `json:"played_at"`
}

type boardRow struct {
	UserID     string             `json:"user_id"`
	Username   string             `json:"username"`
	TotalGames int                `json:"total_games"`
	Counts     domain.TitleCounts `json:"counts"`
}

type boardDoc struct {
	Rows []boardRow `json:"rows"`
}

func (a *StorageResults) RecordResult(ctx context.Context, result ports.MatchResult) error {
	if result.UserID == "" {
		return fmt.Errorf("result has no user")
	}
	value, err := json.Marshal(storedResult{
		MatchID:     result.MatchID,
		FinalTitle:  result.FinalTitle.String(),
		GamesPlayed: result.GamesPlayed,
		Counts:      result.Counts,
		PlayedAt:    result.PlayedAt.Unix(),
	})
	if err != nil {
		return err
	}
	if _, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      ResultsCollection,
		Key:             result.MatchID,
		UserID:          result.UserID,
		Value:           string(value),
		PermissionRead:  1,
		PermissionWrite: 0,
	}}); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}

	username := result.UserID
	if a.accounts != nil {
		if acc, err := a.accounts.AccountGetId(ctx, result.UserID); err == nil && acc.GetUser() != nil {
			username = acc.GetUser().GetUsername()
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		doc, version, err := a.readBoard(ctx)
		if err != nil {
			return err
		}
		doc.add(result, username)
		if lastErr = a.writeBoard(ctx, doc, version); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("failed to update leaderboard: %w", lastErr)
}

func (a *StorageResults) Leaderboard(ctx context.Context, limit int) ([]ports.LeaderboardEntry, error) {
	doc, _, err := a.readBoard(ctx)
	if err != nil {
		return nil, err
	}
	rows := doc.Rows
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Counts.President != rows[j].Counts.President {
			return rows[i].Counts.President > rows[j].Counts.President
		}
		if rows[i].TotalGames != rows[j].TotalGames {
			return rows[i].TotalGames > rows[j].TotalGames
		}
		return rows[i].Username < rows[j].Username
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]ports.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, ports.LeaderboardEntry{
			UserID:     r.UserID,
			Username:   r.Username,
			TotalGames: r.TotalGames,
			Counts:     r.Counts,
		})
	}
	return out, nil
}

// readBoard returns the document and its version, "*" when it does not exist yet.
func (a *StorageResults) readBoard(ctx context.Context) (boardDoc, string, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: StorageCollection,
		Key:        StorageKeyLeaderboard,
	}})
	if err != nil {
		return boardDoc{}, "", err
	}
	if len(objects) == 0 {
		return boardDoc{}, "*", nil
	}
	var doc boardDoc
	if err := json.Unmarshal([]byte(objects[0].GetValue()), &doc); err != nil {
		return boardDoc{}, "", fmt.Errorf("corrupt leaderboard: %w", err)
	}
	return doc, objects[0].GetVersion(), nil
}

func (a *StorageResults) writeBoard(ctx context.Context, doc boardDoc, version string) error {
	value, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      StorageCollection,
		Key:             StorageKeyLeaderboard,
		Value:           string(value),
		Version:         version,
		PermissionRead:  2, // public read
		PermissionWrite: 0,
	}})
	return err
}

func (d *boardDoc) add(result ports.MatchResult, username string) {
	for i := range d.Rows {
		if d.Rows[i].UserID == result.UserID {
			d.Rows[i].Username = username
			d.Rows[i].TotalGames += result.GamesPlayed
			d.Rows[i].Counts.Merge(result.Counts)
			return
		}
	}
	d.Rows = append(d.Rows, boardRow{
		UserID:     result.UserID,
		Username:   username,
		TotalGames: result.GamesPlayed,
		Counts:     result.Counts,
	})
}
