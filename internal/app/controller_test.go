package app

import (
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"president/internal/bot"
	"president/internal/domain"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestController(seed int64) *Controller {
	return NewController(Options{
		UserID: "u1",
		Rand:   rand.New(rand.NewSource(seed)),
		Logger: quietLogger(),
		Strict: true,
	})
}

// humanMove plays the lowest legal card, passing only when nothing is legal.
func humanMove(s Snapshot) Action {
	if len(s.Legal) == 0 {
		return Pass()
	}
	return Play(s.Legal[0])
}

func TestConfigure(t *testing.T) {
	tests := []struct {
		name       string
		rounds     int
		difficulty bot.Difficulty
		wantErr    bool
	}{
		{name: "min rounds", rounds: 1, difficulty: bot.DifficultyEasy},
		{name: "max rounds", rounds: 50, difficulty: bot.DifficultyHard},
		{name: "zero rounds", rounds: 0, difficulty: bot.DifficultyMedium, wantErr: true},
		{name: "too many rounds", rounds: 51, difficulty: bot.DifficultyMedium, wantErr: true},
		{name: "unknown difficulty", rounds: 3, difficulty: bot.Difficulty("Nightmare"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(1)
			err := c.Configure(tt.rounds, tt.difficulty)
			if tt.wantErr {
				if !errors.Is(err, ErrConfiguration) {
					t.Fatalf("Configure() error = %v, want ErrConfiguration", err)
				}
				if c.rounds != DefaultRounds || c.difficulty != bot.DefaultDifficulty {
					t.Fatal("rejected configuration changed the controller")
				}
				return
			}
			if err != nil {
				t.Fatalf("Configure() error = %v", err)
			}
		})
	}
}

func TestStartDealsFirstRound(t *testing.T) {
	c := newTestController(7)
	snap, err := c.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if snap.Round != 1 || snap.Phase != domain.PhaseAwaitingOpeningPlay || snap.MatchID == "" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Hand) != 11 {
		t.Fatalf("user hand = %d cards, want 11", len(snap.Hand))
	}
	total := 0
	for _, seat := range snap.Seats {
		total += seat.CardCount
	}
	if total != domain.DeckSize {
		t.Fatalf("dealt %d cards", total)
	}
	opener := snap.Current
	if opener == domain.SeatUser && !domain.ContainsCard(snap.Hand, domain.ThreeOfClubs) {
		t.Fatal("user opens without the 3 of clubs")
	}
	if err := c.Configure(3, bot.DifficultyHard); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Configure during a match: %v", err)
	}
}

func TestSubmitActionBeforeStart(t *testing.T) {
	c := newTestController(1)
	if _, err := c.SubmitAction(domain.SeatUser, Pass()); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
}

func TestSubmitActionRejectsIllegal(t *testing.T) {
	c := newTestController(3)
	snap, err := c.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	wrong := domain.Seat((int(snap.Current) + 1) % domain.NumSeats)
	res, err := c.SubmitAction(wrong, Pass())
	if !errors.Is(err, domain.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if res.Accepted || res.Reason == "" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !reflect.DeepEqual(res.Snapshot, snap) {
		t.Fatal("rejected action changed the snapshot")
	}

	// Passing on the empty opening pile is rejected too.
	if _, err := c.SubmitAction(snap.Current, Pass()); !errors.Is(err, domain.ErrMustLead) {
		t.Fatalf("expected ErrMustLead, got %v", err)
	}
	if _, err := c.SubmitAction(snap.Current, Action{Kind: "shout"}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestAITakeTurnRejectsHumanSeat(t *testing.T) {
	c := newTestController(1)
	if _, err := c.Start(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AITakeTurn(domain.SeatUser); !errors.Is(err, ErrHumanSeat) {
		t.Fatalf("expected ErrHumanSeat, got %v", err)
	}
}

func TestFullMatch(t *testing.T) {
	for _, level := range []bot.Difficulty{bot.DifficultyEasy, bot.DifficultyMedium, bot.DifficultyHard} {
		t.Run(string(level), func(t *testing.T) {
			for seed := int64(1); seed <= 5; seed++ {
				playMatch(t, seed, level, 3)
			}
		})
	}
}

func playMatch(t *testing.T, seed int64, level bot.Difficulty, rounds int) {
	t.Helper()
	c := newTestController(seed)
	if err := c.Configure(rounds, level); err != nil {
		t.Fatal(err)
	}
	snap, err := c.Start()
	if err != nil {
		t.Fatal(err)
	}

	roundsEnded := 0
	exchanges := 0
	var final TurnResult
	for step := 0; !c.Ended(); step++ {
		if step > 5000 {
			t.Fatalf("seed %d: match did not finish", seed)
		}
		var res TurnResult
		if seat := c.Current(); seat == domain.SeatUser {
			res, err = c.SubmitAction(seat, humanMove(snap))
		} else {
			res, err = c.AITakeTurn(seat)
		}
		if err != nil {
			t.Fatalf("seed %d step %d: %v", seed, step, err)
		}
		if !res.Accepted {
			t.Fatalf("seed %d step %d: action not accepted: %s", seed, step, res.Reason)
		}
		for _, ev := range res.Events {
			if ev.Kind == EventCardsExchanged {
				exchanges++
			}
		}
		if res.RoundEnded {
			roundsEnded++
		}
		snap = res.Snapshot
		final = res
	}

	if roundsEnded != rounds {
		t.Fatalf("seed %d: %d rounds ended, want %d", seed, roundsEnded, rounds)
	}
	// Two exchange pairs, two directions each, for every round after the first.
	if exchanges != 4*(rounds-1) {
		t.Fatalf("seed %d: %d exchange events, want %d", seed, exchanges, 4*(rounds-1))
	}
	if !final.MatchEnded || final.Report == nil {
		t.Fatalf("seed %d: last result does not end the match", seed)
	}
	report := *final.Report
	if report.GamesPlayed != rounds || report.UserID != "u1" || report.FinalTitle == domain.TitleNone {
		t.Fatalf("seed %d: unexpected report %+v", seed, report)
	}
	for seat, tally := range report.Tallies {
		if tally.Total() != rounds {
			t.Fatalf("seed %d: seat %v has %d titles", seed, domain.Seat(seat), tally.Total())
		}
	}
	if c.Current() != domain.SeatNone {
		t.Fatal("no seat should act after the match ended")
	}
	if _, err := c.SubmitAction(domain.SeatUser, Pass()); !errors.Is(err, ErrMatchOver) {
		t.Fatalf("expected ErrMatchOver, got %v", err)
	}

	result := report.Result(time.Unix(0, 0))
	if result.Counts != report.Tallies[domain.SeatUser] || result.GamesPlayed != rounds {
		t.Fatalf("unexpected stored result: %+v", result)
	}

	// A finished match can be replayed.
	if _, err := c.Start(); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if c.Ended() {
		t.Fatal("replayed match should be running")
	}
}

func TestSnapshotNamesBotsFromIdentities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bots.json")
	data := `[{"user_id": "bot-a", "username": "bot_a", "display_name": "Ada"}]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := bot.LoadIdentities(path); err != nil {
		t.Fatal(err)
	}

	c := newTestController(9)
	snap, err := c.Start()
	if err != nil {
		t.Fatal(err)
	}
	if got := snap.Seats[domain.SeatPlayer1].Name; got != "Ada" {
		t.Fatalf("Player1 name = %q, want Ada", got)
	}
	if got := snap.Seats[domain.SeatUser].Name; got != "You" {
		t.Fatalf("human seat name = %q", got)
	}
}
