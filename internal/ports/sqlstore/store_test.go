package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"president/internal/bot"
	"president/internal/domain"
	"president/internal/ports"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite://" + filepath.Join(t.TempDir(), "president.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("postgres://localhost/db"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Open("president.db"); err == nil {
		t.Fatal("expected error")
	}
}

func TestAccounts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "alice", "hash-1")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if alice.ID == "" || alice.Guest {
		t.Fatalf("unexpected account %+v", alice)
	}
	if _, err := s.CreateUser(ctx, "alice", "hash-2"); !errors.Is(err, ports.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := s.CreateGuest(ctx, "alice"); !errors.Is(err, ports.ErrDuplicate) {
		t.Fatalf("guest with a taken name: %v", err)
	}

	guest, err := s.CreateGuest(ctx, "visitor")
	if err != nil {
		t.Fatalf("CreateGuest: %v", err)
	}
	if !guest.Guest || guest.PasswordHash != "" {
		t.Fatalf("unexpected guest %+v", guest)
	}

	found, err := s.FindUser(ctx, "alice")
	if err != nil {
		t.Fatalf("FindUser: %v", err)
	}
	if found.ID != alice.ID || found.PasswordHash != "hash-1" {
		t.Fatalf("found %+v", found)
	}
	if _, err := s.FindUser(ctx, "nobody"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.UpdatePassword(ctx, alice.ID, "hash-3"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	found, _ = s.FindUser(ctx, "alice")
	if found.PasswordHash != "hash-3" {
		t.Fatalf("password not updated: %q", found.PasswordHash)
	}
	if err := s.UpdatePassword(ctx, "missing", "x"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPreferences(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	got, err := s.LoadPreferences(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got != ports.DefaultPreferences() {
		t.Fatalf("expected defaults, got %+v", got)
	}

	for _, want := range []ports.Preferences{
		{Rounds: 3, Difficulty: bot.DifficultyHard},
		{Rounds: 10, Difficulty: bot.DifficultyEasy},
	} {
		if err := s.SavePreferences(ctx, "u1", want); err != nil {
			t.Fatalf("SavePreferences: %v", err)
		}
		got, err := s.LoadPreferences(ctx, "u1")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	}
}

func TestResultsAndLeaderboard(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "alice", "h")
	if err != nil {
		t.Fatal(err)
	}
	bob, err := s.CreateUser(ctx, "bob", "h")
	if err != nil {
		t.Fatal(err)
	}

	results := []ports.MatchResult{
		{MatchID: "m1", UserID: alice.ID, FinalTitle: domain.President, GamesPlayed: 3,
			Counts: domain.TitleCounts{President: 2, Bum: 1}},
		{MatchID: "m2", UserID: bob.ID, FinalTitle: domain.Middle, GamesPlayed: 2,
			Counts: domain.TitleCounts{President: 1, Middle: 1}},
		{MatchID: "m3", UserID: alice.ID, FinalTitle: domain.ViceBum, GamesPlayed: 2,
			Counts: domain.TitleCounts{VicePresident: 1, ViceBum: 1}, PlayedAt: time.Unix(100, 0)},
	}
	for _, r := range results {
		if err := s.RecordResult(ctx, r); err != nil {
			t.Fatalf("RecordResult(%s): %v", r.MatchID, err)
		}
	}
	if err := s.RecordResult(ctx, ports.MatchResult{}); err == nil {
		t.Fatal("expected error for a result without user")
	}

	board, err := s.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("got %d entries", len(board))
	}
	first := board[0]
	if first.Username != "alice" || first.TotalGames != 5 {
		t.Fatalf("unexpected leader %+v", first)
	}
	want := domain.TitleCounts{President: 2, VicePresident: 1, ViceBum: 1, Bum: 1}
	if first.Counts != want {
		t.Fatalf("alice counts = %+v, want %+v", first.Counts, want)
	}
	if board[1].Username != "bob" {
		t.Fatalf("unexpected second %+v", board[1])
	}

	limited, err := s.Leaderboard(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit ignored: %d entries", len(limited))
	}

	var stored int64
	if err := s.db.Model(&GameResult{}).Count(&stored).Error; err != nil {
		t.Fatal(err)
	}
	if stored != 3 {
		t.Fatalf("stored %d results", stored)
	}
}

func TestLeaderboardUnknownUserFallsBackToID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.RecordResult(ctx, ports.MatchResult{UserID: "ext-1", GamesPlayed: 1, Counts: domain.TitleCounts{Bum: 1}}); err != nil {
		t.Fatal(err)
	}
	board, err := s.Leaderboard(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(board) != 1 || board[0].Username != "ext-1" {
		t.Fatalf("unexpected board %+v", board)
	}
}
