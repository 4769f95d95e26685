package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Rounds != 5 || c.Difficulty != "Medium" || c.Database != "sqlite://president.db" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.BotDelay() != 600*time.Millisecond || c.SessionTTL() != 24*time.Hour {
		t.Fatalf("unexpected durations: %v %v", c.BotDelay(), c.SessionTTL())
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "president.yaml")
	data := []byte("rounds: 9\ndifficulty: Hard\nbot_delay_ms: 0\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PRESIDENT_ROUNDS", "12")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Rounds != 12 {
		t.Fatalf("env override ignored: rounds = %d", c.Rounds)
	}
	if c.Difficulty != "Hard" || c.BotDelayMs != 0 {
		t.Fatalf("file values ignored: %+v", c)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "too many rounds", body: "rounds: 51\n"},
		{name: "no rounds", body: "rounds: 0\n"},
		{name: "negative delay", body: "bot_delay_ms: -1\n"},
		{name: "bare dsn", body: "database: president.db\n"},
		{name: "unknown difficulty", body: "difficulty: Legendary\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadRejectsDifficultyFromEnv(t *testing.T) {
	t.Setenv("PRESIDENT_DIFFICULTY", "impossible")
	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "difficulty") {
		t.Fatalf("Load() error = %v, want a difficulty error", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
