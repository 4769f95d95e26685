package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"president/internal/bot"
	"president/internal/domain"
	"president/internal/ports"
)

var (
	ErrConfiguration  = errors.New("invalid configuration")
	ErrNotStarted     = errors.New("match not started")
	ErrMatchOver      = errors.New("match is over")
	ErrHumanSeat      = errors.New("seat is played by the human")
	ErrUnknownAction  = errors.New("unknown action")
	ErrBotUnavailable = errors.New("no bot at seat")
)

// ActionKind distinguishes the two things a player can do on their turn.
type ActionKind string

const (
	ActionPlay ActionKind = "play"
	ActionPass ActionKind = "pass"
)

// Action is a single player input.
type Action struct {
	Kind ActionKind
	Card domain.Card
}

// Play builds a play action.
func Play(card domain.Card) Action { return Action{Kind: ActionPlay, Card: card} }

// Pass builds a pass action.
func Pass() Action { return Action{Kind: ActionPass} }

// TurnResult reports the effect of one submitted action.
type TurnResult struct {
	Accepted   bool
	Reason     string
	Snapshot   Snapshot
	RoundEnded bool
	MatchEnded bool
	Events     []Event
	// Report is set when MatchEnded.
	Report *MatchReport
}

// MatchReport is handed to the persistence collaborator once the last round ends.
type MatchReport struct {
	MatchID     string
	UserID      string
	FinalTitle  domain.Title
	GamesPlayed int
	Difficulty  bot.Difficulty
	Tallies     [domain.NumSeats]domain.TitleCounts
}

// Result converts the report into the record stored for the human player.
func (r MatchReport) Result(at time.Time) ports.MatchResult {
	return ports.MatchResult{
		MatchID:     r.MatchID,
		UserID:      r.UserID,
		FinalTitle:  r.FinalTitle,
		GamesPlayed: r.GamesPlayed,
		Counts:      r.Tallies[domain.SeatUser],
		PlayedAt:    at,
	}
}

// Options configures a Controller.
type Options struct {
	// UserID identifies the human player in reports.
	UserID string
	// Rand drives shuffling and the easy bots; nil uses a time seed.
	Rand   *rand.Rand
	Logger logrus.FieldLogger
	// Strict panics on invariant violations instead of returning them.
	Strict bool
}

// Controller runs one match of President: the human at domain.SeatUser and four bots.
// It is not safe for concurrent use; callers serialize actions.
type Controller struct {
	userID string
	rng    *rand.Rand
	log    logrus.FieldLogger
	strict bool

	rounds     int
	difficulty bot.Difficulty

	matchID      string
	agents       [domain.NumSeats]*bot.Agent
	table        *domain.TableState
	round        int
	roundsPlayed int
	tallies      [domain.NumSeats]domain.TitleCounts
	lastTitles   map[domain.Seat]domain.Title
	started      bool
	ended        bool
	report       *MatchReport
}

// NewController constructs a Controller configured with the default rounds and difficulty.
func NewController(opts Options) *Controller {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Controller{
		userID:     opts.UserID,
		rng:        rng,
		log:        logger,
		strict:     opts.Strict,
		rounds:     DefaultRounds,
		difficulty: bot.DefaultDifficulty,
	}
}

// Configure sets rounds and difficulty for the next Start. It fails while a match is running.
func (c *Controller) Configure(rounds int, difficulty bot.Difficulty) error {
	if c.started && !c.ended {
		return fmt.Errorf("%w: match in progress", ErrConfiguration)
	}
	if rounds < MinRounds || rounds > MaxRounds {
		return fmt.Errorf("%w: rounds must be between %d and %d, got %d", ErrConfiguration, MinRounds, MaxRounds, rounds)
	}
	if !difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrConfiguration, difficulty)
	}
	c.rounds = rounds
	c.difficulty = difficulty
	return nil
}

// Start begins a new match and deals the first round. Calling it after a match ended replays.
func (c *Controller) Start() (Snapshot, error) {
	if c.started && !c.ended {
		return Snapshot{}, fmt.Errorf("%w: match in progress", ErrConfiguration)
	}

	for _, seat := range domain.Seats[1:] {
		brain, err := bot.NewBrain(c.difficulty, c.rng)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		c.agents[seat] = &bot.Agent{Identity: bot.IdentityForSeat(seat), Seat: seat, Strategy: brain}
	}

	c.matchID = uuid.NewString()
	c.round = 1
	c.roundsPlayed = 0
	c.tallies = [domain.NumSeats]domain.TitleCounts{}
	c.lastTitles = nil
	c.report = nil
	c.started = true
	c.ended = false
	c.table = domain.NewRound(c.rng, nil)
	c.notifyAgents(bot.RoundStarted{Round: c.round})

	c.log.WithFields(logrus.Fields{
		"match_id":   c.matchID,
		"rounds":     c.rounds,
		"difficulty": c.difficulty,
		"opener":     c.table.Current.String(),
	}).Info("match started")

	if err := c.checkInvariants(); err != nil {
		return Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// SubmitAction applies a play or pass for seat and resolves everything it triggers:
// titles, the end of the round, the exchange and next deal, and the end of the match.
// Illegal actions leave the state unchanged and return an error wrapping domain.ErrIllegalMove
// alongside a TurnResult carrying the reason.
func (c *Controller) SubmitAction(seat domain.Seat, action Action) (TurnResult, error) {
	if !c.started {
		return TurnResult{Reason: ErrNotStarted.Error()}, ErrNotStarted
	}
	if c.ended {
		return c.reject(ErrMatchOver)
	}

	var (
		out domain.Outcome
		err error
	)
	switch action.Kind {
	case ActionPlay:
		out, err = c.table.Play(seat, action.Card)
	case ActionPass:
		out, err = c.table.Pass(seat)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAction, action.Kind)
	}
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"match_id": c.matchID,
			"seat":     seat.String(),
			"action":   action.Kind,
		}).WithError(err).Debug("action rejected")
		return c.reject(err)
	}

	c.notifyAgents(out)
	if err := c.checkInvariants(); err != nil {
		return TurnResult{Reason: err.Error(), Snapshot: c.Snapshot()}, err
	}

	result := TurnResult{Accepted: true, Events: outcomeEvents(out)}
	if out.RoundComplete {
		if err := c.finishRound(&result); err != nil {
			return result, err
		}
	}
	result.Snapshot = c.Snapshot()
	return result, nil
}

// AITakeTurn lets the bot at seat choose and submit its move.
func (c *Controller) AITakeTurn(seat domain.Seat) (TurnResult, error) {
	if seat == domain.SeatUser {
		return TurnResult{Reason: ErrHumanSeat.Error()}, ErrHumanSeat
	}
	if !seat.Valid() {
		return c.reject(domain.ErrUnknownSeat)
	}
	if !c.started {
		return TurnResult{Reason: ErrNotStarted.Error()}, ErrNotStarted
	}
	agent := c.agents[seat]
	if agent == nil {
		return c.reject(ErrBotUnavailable)
	}

	move, err := agent.Play(c.table.Clone())
	if err != nil {
		return c.reject(err)
	}
	if move.Pass {
		return c.SubmitAction(seat, Pass())
	}
	return c.SubmitAction(seat, Play(move.Card))
}

// Current is the seat expected to act next, domain.SeatNone between matches.
func (c *Controller) Current() domain.Seat {
	if !c.started || c.ended {
		return domain.SeatNone
	}
	return c.table.Current
}

// Ended reports whether the configured rounds have all been played.
func (c *Controller) Ended() bool { return c.ended }

// MatchID identifies the running or last match.
func (c *Controller) MatchID() string { return c.matchID }

// Report returns the final report once the match ended.
func (c *Controller) Report() (MatchReport, bool) {
	if c.report == nil {
		return MatchReport{}, false
	}
	return *c.report, true
}

func (c *Controller) reject(err error) (TurnResult, error) {
	res := TurnResult{Reason: err.Error()}
	if c.started {
		res.Snapshot = c.Snapshot()
	}
	return res, err
}

func (c *Controller) finishRound(result *TurnResult) error {
	titles := make(map[domain.Seat]domain.Title, domain.NumSeats)
	for seat, title := range c.table.Titles {
		titles[seat] = title
		c.tallies[seat].Add(title)
	}
	c.lastTitles = titles
	c.roundsPlayed++
	result.RoundEnded = true
	result.Events = append(result.Events, Event{
		Kind:    EventRoundEnded,
		Payload: RoundEndedPayload{Round: c.round, Titles: titles},
	})

	c.log.WithFields(logrus.Fields{
		"match_id": c.matchID,
		"round":    c.round,
		"user":     titles[domain.SeatUser].String(),
	}).Info("round ended")

	if c.roundsPlayed >= c.rounds {
		c.ended = true
		report := MatchReport{
			MatchID:     c.matchID,
			UserID:      c.userID,
			FinalTitle:  titles[domain.SeatUser],
			GamesPlayed: c.roundsPlayed,
			Difficulty:  c.difficulty,
			Tallies:     c.tallies,
		}
		c.report = &report
		result.MatchEnded = true
		result.Report = &report
		result.Events = append(result.Events, Event{Kind: EventMatchEnded, Payload: MatchEndedPayload{Report: report}})
		c.log.WithFields(logrus.Fields{
			"match_id":    c.matchID,
			"final_title": report.FinalTitle.String(),
			"rounds":      report.GamesPlayed,
		}).Info("match ended")
		return nil
	}

	c.round++
	c.table = domain.NewRound(c.rng, titles)
	c.notifyAgents(bot.RoundStarted{Round: c.round})
	result.Events = append(result.Events, roundStartEvents(c.round, c.table)...)
	return c.checkInvariants()
}

func (c *Controller) notifyAgents(event interface{}) {
	for _, a := range c.agents {
		if a != nil {
			a.OnGameEvent(event)
		}
	}
}

func (c *Controller) checkInvariants() error {
	err := c.table.CheckInvariants()
	if err == nil {
		return nil
	}
	c.log.WithField("match_id", c.matchID).WithError(err).Error("table invariant violated")
	if c.strict {
		panic(err)
	}
	return err
}
