package bot

import (
	"os"
	"path/filepath"
	"testing"

	"president/internal/domain"
)

func TestIdentities(t *testing.T) {
	// Before anything is loaded every seat gets a placeholder named after it.
	id := IdentityForSeat(domain.SeatPlayer3)
	if id.DisplayName != "Player3" || IsBot(id.UserID) {
		t.Fatalf("unexpected placeholder identity: %+v", id)
	}

	path := filepath.Join(t.TempDir(), "bots.json")
	data := `[
		{"user_id": "u-1", "username": "bot_a", "display_name": "Alpha", "difficulty": "easy"},
		{"user_id": "u-2", "username": "bot_b", "display_name": "Bravo", "difficulty": "hard"}
	]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadIdentities(path); err != nil {
		t.Fatalf("LoadIdentities: %v", err)
	}

	if got := IdentityForSeat(domain.SeatPlayer1).DisplayName; got != "Alpha" {
		t.Errorf("Player1 = %q, want Alpha", got)
	}
	if got := IdentityForSeat(domain.SeatPlayer4).DisplayName; got != "Bravo" {
		t.Errorf("Player4 = %q, want Bravo (pool wraps)", got)
	}
	if !IsBot("u-2") || IsBot("someone") {
		t.Error("IsBot does not reflect the loaded pool")
	}
	if GetBotDisplayName("u-1") != "Alpha" {
		t.Errorf("GetBotDisplayName(u-1) = %q", GetBotDisplayName("u-1"))
	}
}
