package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	"president/internal/app"
	"president/internal/domain"
	"president/internal/ports"
)

// ErrAbandoned is returned by Run when the human quits before the last round.
var ErrAbandoned = errors.New("match abandoned")

// PromptFunc adapts a function to Prompter.
type PromptFunc func(s app.Snapshot) (string, error)

func (f PromptFunc) Prompt(s app.Snapshot) (string, error) { return f(s) }

type Options struct {
	// BotDelay pauses before each bot move so the plays can be followed.
	BotDelay time.Duration
	// Results receives the report once the match ends. Optional.
	Results ports.ResultsPort
	Logger  logrus.FieldLogger
	// Spinner shows a pterm spinner while a bot is thinking.
	Spinner bool
}

// Game drives one match of the controller from the terminal.
type Game struct {
	ctrl   *app.Controller
	prompt Prompter
	render *Renderer
	opts   Options
	snap   app.Snapshot
}

func NewGame(ctrl *app.Controller, prompt Prompter, render *Renderer, opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Game{ctrl: ctrl, prompt: prompt, render: render, opts: opts}
}

// Run starts a match and plays it to the end. The human's moves come from the prompter,
// bots move after the configured delay.
func (g *Game) Run(ctx context.Context) (app.MatchReport, error) {
	snap, err := g.ctrl.Start()
	if err != nil {
		return app.MatchReport{}, err
	}
	g.snap = snap
	g.render.Line("Match %s: %d rounds against %s bots", snap.MatchID, snap.RoundsConfigured, snap.Difficulty)
	if err := g.render.Table(snap); err != nil {
		return app.MatchReport{}, err
	}

	for !g.ctrl.Ended() {
		if err := ctx.Err(); err != nil {
			return app.MatchReport{}, err
		}
		seat := g.ctrl.Current()
		if seat == domain.SeatUser {
			if err := g.humanTurn(); err != nil {
				return app.MatchReport{}, err
			}
			continue
		}
		if err := g.botTurn(ctx, seat); err != nil {
			return app.MatchReport{}, err
		}
	}

	report, _ := g.ctrl.Report()
	if err := g.render.Report(g.snap); err != nil {
		return report, err
	}
	g.render.Line("Final title: %s", pterm.LightGreen(report.FinalTitle.String()))
	if g.opts.Results != nil {
		if err := g.opts.Results.RecordResult(ctx, report.Result(time.Now())); err != nil {
			g.opts.Logger.WithError(err).WithField("match_id", report.MatchID).Error("failed to record result")
			return report, fmt.Errorf("record result: %w", err)
		}
	}
	return report, nil
}

func (g *Game) humanTurn() error {
	if err := g.render.Table(g.snap); err != nil {
		return err
	}
	for {
		line, err := g.prompt.Prompt(g.snap)
		if errors.Is(err, io.EOF) {
			return ErrAbandoned
		}
		if err != nil {
			return err
		}

		cmd, err := ParseCommand(line, g.snap.Hand)
		if errors.Is(err, ErrEmptyInput) {
			continue
		}
		if err != nil {
			g.render.Warn("%v", err)
			continue
		}

		var action app.Action
		switch cmd.Kind {
		case CommandHelp:
			g.render.Line(HelpText)
			continue
		case CommandQuit:
			return ErrAbandoned
		case CommandPass:
			action = app.Pass()
		default:
			action = app.Play(cmd.Card)
		}

		res, err := g.ctrl.SubmitAction(domain.SeatUser, action)
		if errors.Is(err, domain.ErrIllegalMove) {
			g.render.Warn("%s", res.Reason)
			continue
		}
		if err != nil {
			return err
		}
		g.apply(res)
		return nil
	}
}

func (g *Game) botTurn(ctx context.Context, seat domain.Seat) error {
	if g.opts.BotDelay > 0 {
		var spinner *pterm.SpinnerPrinter
		if g.opts.Spinner {
			spinner, _ = pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(
				pterm.Sprintf("Waiting for %s ...", pterm.LightCyan(g.snap.Seats[seat].Name)))
		}
		timer := time.NewTimer(g.opts.BotDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			if spinner != nil {
				_ = spinner.Stop()
			}
			return ctx.Err()
		case <-timer.C:
		}
		if spinner != nil {
			_ = spinner.Stop()
		}
	}

	res, err := g.ctrl.AITakeTurn(seat)
	if err != nil {
		g.opts.Logger.WithError(err).WithField("seat", seat.String()).Error("bot turn failed")
		return err
	}
	g.apply(res)
	return nil
}

func (g *Game) apply(res app.TurnResult) {
	names := func(seat domain.Seat) string {
		if !seat.Valid() {
			return seat.String()
		}
		return res.Snapshot.Seats[seat].Name
	}
	for _, ev := range res.Events {
		g.render.Event(ev, names)
	}
	g.snap = res.Snapshot
	if res.RoundEnded && !res.MatchEnded {
		if err := g.render.Report(g.snap); err != nil {
			g.opts.Logger.WithError(err).Warn("render standings")
		}
	}
}
