package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"president/internal/bot"
	"president/internal/ports/sqlstore"
)

func TestSessionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	if _, err := loadSession(path); err == nil {
		t.Fatal("expected error for a missing file")
	}
	if err := saveSession(path, "abc.def.ghi"); err != nil {
		t.Fatal(err)
	}
	token, err := loadSession(path)
	if err != nil || token != "abc.def.ghi" {
		t.Fatalf("loadSession() = %q, %v", token, err)
	}
	if err := os.WriteFile(path, []byte("  \n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadSession(path); err == nil {
		t.Fatal("expected error for an empty file")
	}
}

// The configuration is loaded once per process, so the whole command flow runs in one test.
func TestCommands(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "president.db")
	sessionPath := filepath.Join(dir, "session")
	t.Setenv("PRESIDENT_DATABASE", "sqlite://"+dbPath)
	t.Setenv("PRESIDENT_SESSION_FILE", sessionPath)
	t.Setenv("PRESIDENT_SESSION_SECRET", "test-secret")
	t.Setenv("PRESIDENT_ROUNDS", "3")
	t.Setenv("PRESIDENT_DIFFICULTY", "easy")
	t.Setenv("PRESIDENT_BOT_IDENTITIES", "")

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out
		app.ErrWriter = &out
		err := app.Run(append([]string{"president"}, args...))
		return out.String(), err
	}

	if _, err := run("prefs"); err == nil {
		t.Fatal("prefs without a session should fail")
	}
	if _, err := run("signup", "--username", "alice", "--password", "secret123"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := run("signup", "-u", "alice", "-p", "other-pass"); err == nil {
		t.Fatal("duplicate signup accepted")
	}
	if _, err := os.Stat(sessionPath); err != nil {
		t.Fatalf("session file not written: %v", err)
	}
	if _, err := run("prefs", "--rounds", "7", "--difficulty", "hard"); err != nil {
		t.Fatalf("prefs: %v", err)
	}
	if _, err := run("prefs", "--difficulty", "impossible"); err == nil {
		t.Fatal("unknown difficulty accepted")
	}

	if _, err := run("logout"); err != nil {
		t.Fatal(err)
	}
	if _, err := run("play", "--plain"); err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("play after logout: %v", err)
	}
	if _, err := run("login", "-u", "alice", "-p", "wrong-pass"); err == nil {
		t.Fatal("login with a wrong password accepted")
	}
	if _, err := run("login", "-u", "alice", "-p", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := run("reset-password", "-u", "alice", "-p", "short", "--confirm", "short"); err == nil {
		t.Fatal("short password accepted")
	}
	if _, err := run("reset-password", "-u", "alice", "-p", "longer-secret", "--confirm", "longer-secret"); err != nil {
		t.Fatalf("reset-password: %v", err)
	}
	if _, err := run("guest", "--name", "visitor"); err != nil {
		t.Fatalf("guest: %v", err)
	}

	out, err := run("leaderboard")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No results") {
		t.Fatalf("unexpected leaderboard output %q", out)
	}

	store, err := sqlstore.Open("sqlite://" + dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	alice, err := store.FindUser(context.Background(), "alice")
	if err != nil {
		t.Fatal(err)
	}
	prefs, err := store.LoadPreferences(context.Background(), alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if prefs.Rounds != 7 || prefs.Difficulty != bot.DifficultyHard {
		t.Fatalf("unexpected preferences %+v", prefs)
	}
	visitor, err := store.FindUser(context.Background(), "visitor")
	if err != nil {
		t.Fatal(err)
	}
	if seeded, _ := store.LoadPreferences(context.Background(), visitor.ID); seeded.Rounds != 3 || seeded.Difficulty != bot.DifficultyEasy {
		t.Fatalf("guest preferences not seeded from config: %+v", seeded)
	}
}
