package nakama

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"president/internal/app"
	"president/internal/app/accounts"
	"president/internal/bot"
	"president/internal/domain"
	"president/internal/ports"
)

// MatchState holds the authoritative runtime state for one human against four bots.
type MatchState struct {
	UserID     string            `json:"user_id"`
	Rounds     int               `json:"rounds"`
	Difficulty bot.Difficulty    `json:"difficulty"`
	Tick       int64             `json:"tick"`
	Presence   runtime.Presence  `json:"-"`
	Controller *app.Controller   `json:"-"`
	Results    ports.ResultsPort `json:"-"`

	BotDelayTicks int64 `json:"bot_delay_ticks"`
	BotWaitUntil  int64 `json:"bot_wait_until"` // tick at which the current bot acts, 0 when unset
	Recorded      bool  `json:"recorded"`
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit expects params user_id, and optionally rounds and difficulty.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	userID, _ := params["user_id"].(string)
	if userID == "" {
		logger.Error("MatchInit: missing user_id param")
		return nil, 0, ""
	}

	state := &MatchState{
		UserID:        userID,
		Rounds:        ports.DefaultRounds,
		Difficulty:    bot.DefaultDifficulty,
		BotDelayTicks: delayTicks(defaultBotDelayMs),
		Controller: app.NewController(app.Options{
			UserID: userID,
			Logger: newRuntimeLogrus(logger).WithField("user_id", userID),
		}),
	}
	if n, ok := numberParam(params["rounds"]); ok {
		state.Rounds = accounts.ClampRounds(n)
	}
	if s, ok := params["difficulty"].(string); ok {
		if d, err := bot.ParseDifficulty(s); err == nil {
			state.Difficulty = d
		} else {
			logger.Warn("MatchInit: %v, using %s", err, state.Difficulty)
		}
	}
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env[envBotDelayMs]; ok {
			if ms, err := strconv.Atoi(val); err == nil && ms >= 0 {
				state.BotDelayTicks = delayTicks(ms)
			}
		}
	}
	if nk != nil {
		state.Results = NewStorageResults(nk)
	}
	if err := state.Controller.Configure(state.Rounds, state.Difficulty); err != nil {
		logger.Error("MatchInit: %v", err)
		return nil, 0, ""
	}

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	logger.Debug("MatchInit: match for %s, %d rounds, %s bots", userID, state.Rounds, state.Difficulty)
	return state, tickRate, label
}

func delayTicks(ms int) int64 {
	return int64((ms*tickRate + 999) / 1000)
}

func numberParam(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	if presence.GetUserId() != matchState.UserID {
		return state, false, "Match is private"
	}
	if matchState.Presence != nil {
		return state, false, "Already joined"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}
	for _, p := range presences {
		if p.GetUserId() == matchState.UserID {
			matchState.Presence = p
		}
	}
	mh.sendSnapshot(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave ends the match: bots never play on without the human.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}
	for _, p := range presences {
		if p.GetUserId() == matchState.UserID {
			logger.Info("MatchLeave: Terminating match, %s left.", matchState.UserID)
			return nil
		}
	}
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	matchState.Tick = tick

	for _, msg := range messages {
		if msg.GetUserId() != matchState.UserID {
			continue
		}
		switch msg.GetOpCode() {
		case OpStartMatch:
			mh.handleStartMatch(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		case OpPass:
			mh.handlePass(ctx, matchState, dispatcher, logger)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processBots(ctx, matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) handleStartMatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	request, err := decodePayload(msg.GetData())
	if err != nil {
		logger.Warn("StartMatch: %v", err)
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}
	rounds, difficulty := state.Rounds, state.Difficulty
	if n, ok := intField(request, "rounds"); ok {
		rounds = n
	}
	if s := stringField(request, "difficulty"); s != "" {
		d, err := bot.ParseDifficulty(s)
		if err != nil {
			mh.sendError(state, dispatcher, logger, 400, err.Error())
			return
		}
		difficulty = d
	}
	if err := state.Controller.Configure(rounds, difficulty); err != nil {
		logger.Warn("StartMatch: %v", err)
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}
	state.Rounds, state.Difficulty = rounds, difficulty

	if _, err := state.Controller.Start(); err != nil {
		logger.Error("StartMatch: Failed to start: %v", err)
		mh.sendError(state, dispatcher, logger, 500, err.Error())
		return
	}
	state.Recorded = false
	state.BotWaitUntil = 0
	logger.Info("StartMatch: match %s started for %s (%d rounds, %s)", state.Controller.MatchID(), state.UserID, rounds, difficulty)

	mh.updateLabel(state, dispatcher, logger)
	mh.sendSnapshot(state, dispatcher, logger)
}

func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	request, err := decodePayload(msg.GetData())
	if err != nil {
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}
	card, err := domain.ParseCard(stringField(request, "card"))
	if err != nil {
		mh.sendError(state, dispatcher, logger, 400, err.Error())
		return
	}
	mh.submit(ctx, state, dispatcher, logger, app.Play(card))
}

func (mh *matchHandler) handlePass(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.submit(ctx, state, dispatcher, logger, app.Pass())
}

func (mh *matchHandler) submit(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, action app.Action) {
	res, err := state.Controller.SubmitAction(domain.SeatUser, action)
	if err != nil {
		logger.Warn("submit: User %s %s rejected: %v", state.UserID, action.Kind, err)
		reason := res.Reason
		if reason == "" {
			reason = err.Error()
		}
		mh.sendError(state, dispatcher, logger, 400, reason)
		return
	}
	mh.dispatchResult(ctx, state, dispatcher, logger, res)
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	seat := state.Controller.Current()
	if seat == domain.SeatNone || seat == domain.SeatUser {
		state.BotWaitUntil = 0
		return
	}
	if state.BotWaitUntil == 0 {
		state.BotWaitUntil = state.Tick + state.BotDelayTicks
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	res, err := state.Controller.AITakeTurn(seat)
	if err != nil {
		logger.Error("processBots: Bot at %s failed to move: %v", seat, err)
		return
	}
	mh.dispatchResult(ctx, state, dispatcher, logger, res)
}

func (mh *matchHandler) dispatchResult(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, res app.TurnResult) {
	for _, ev := range res.Events {
		mh.sendEvent(state, dispatcher, logger, ev)
	}
	mh.sendSnapshot(state, dispatcher, logger)

	if res.MatchEnded && res.Report != nil && !state.Recorded {
		state.Recorded = true
		mh.updateLabel(state, dispatcher, logger)
		if state.Results == nil {
			return
		}
		if err := state.Results.RecordResult(ctx, res.Report.Result(time.Now())); err != nil {
			logger.Error("dispatchResult: Failed to record result for %s: %v", state.UserID, err)
		}
	}
}

func (mh *matchHandler) sendEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	if !ev.VisibleTo(domain.SeatUser) {
		return
	}
	fields, ok := eventFields(ev)
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}
	mh.send(state, dispatcher, logger, opCodeFor(ev.Kind), fields)
}

func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.send(state, dispatcher, logger, OpMatchState, snapshotFields(state.Controller.Snapshot()))
}

func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	mh.send(state, dispatcher, logger, OpGameError, map[string]interface{}{
		"code":    code,
		"message": message,
	})
}

func (mh *matchHandler) send(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, fields map[string]interface{}) {
	if state.Presence == nil {
		return
	}
	data, err := encodePayload(fields)
	if err != nil {
		logger.Error("Failed to marshal message %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, []runtime.Presence{state.Presence}, nil, true); err != nil {
		logger.Error("Failed to send message %d: %v", opCode, err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated, grace %d seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, ""
	}
	return state, fmt.Sprintf("%s:%t", matchState.Controller.MatchID(), matchState.Controller.Ended())
}
