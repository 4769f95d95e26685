package nakama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"president/internal/ports"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type logLine struct {
	level  string
	msg    string
	fields map[string]interface{}
}

// recordingLogger keeps every line written through it, with the fields attached at that point.
type recordingLogger struct {
	lines  *[]logLine
	fields map[string]interface{}
}

func newRecordingLogger() recordingLogger {
	return recordingLogger{lines: &[]logLine{}, fields: map[string]interface{}{}}
}

func (l recordingLogger) log(level, format string, v ...interface{}) {
	*l.lines = append(*l.lines, logLine{level: level, msg: fmt.Sprintf(format, v...), fields: l.fields})
}

func (l recordingLogger) Debug(format string, v ...interface{}) { l.log("debug", format, v...) }
func (l recordingLogger) Info(format string, v ...interface{})  { l.log("info", format, v...) }
func (l recordingLogger) Warn(format string, v ...interface{})  { l.log("warn", format, v...) }
func (l recordingLogger) Error(format string, v ...interface{}) { l.log("error", format, v...) }

func (l recordingLogger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

func (l recordingLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return recordingLogger{lines: l.lines, fields: merged}
}

func (l recordingLogger) Fields() map[string]interface{} {
	return l.fields
}

func (l recordingLogger) find(msg string) (logLine, bool) {
	for _, line := range *l.lines {
		if line.msg == msg {
			return line, true
		}
	}
	return logLine{}, false
}

type sentMessage struct {
	opCode int64
	data   []byte
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	messages     []sentMessage
	labelUpdates int
	lastLabel    string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.messages = append(md.messages, sentMessage{opCode: opCode, data: append([]byte(nil), data...)})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = label
	return nil
}

func (md *mockDispatcher) count(opCode int64) int {
	n := 0
	for _, m := range md.messages {
		if m.opCode == opCode {
			n++
		}
	}
	return n
}

func (md *mockDispatcher) last(opCode int64) []byte {
	for i := len(md.messages) - 1; i >= 0; i-- {
		if md.messages[i].opCode == opCode {
			return md.messages[i].data
		}
	}
	return nil
}

type mockPresence struct {
	userID string
}

func (p mockPresence) GetHidden() bool                   { return false }
func (p mockPresence) GetPersistence() bool              { return false }
func (p mockPresence) GetUsername() string               { return p.userID }
func (p mockPresence) GetStatus() string                 { return "" }
func (p mockPresence) GetReason() runtime.PresenceReason { return runtime.PresenceReason(0) }
func (p mockPresence) GetUserId() string                 { return p.userID }
func (p mockPresence) GetSessionId() string              { return "session-" + p.userID }
func (p mockPresence) GetNodeId() string                 { return "node" }

type mockMatchData struct {
	mockPresence
	opCode int64
	data   []byte
}

func (m mockMatchData) GetOpCode() int64      { return m.opCode }
func (m mockMatchData) GetData() []byte       { return m.data }
func (m mockMatchData) GetReliable() bool     { return true }
func (m mockMatchData) GetReceiveTime() int64 { return 0 }

// mockStorage is an in-memory Nakama storage with optimistic versions.
type mockStorage struct {
	objects   map[string]*api.StorageObject
	users     map[string]string
	failKey   string // writes touching this key fail while failWrite > 0
	failWrite int
	seq       int
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: map[string]*api.StorageObject{}, users: map[string]string{}}
}

func storageKey(collection, key, userID string) string {
	return collection + "/" + key + "/" + userID
}

func (m *mockStorage) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	var out []*api.StorageObject
	for _, r := range reads {
		if obj, ok := m.objects[storageKey(r.Collection, r.Key, r.UserID)]; ok {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (m *mockStorage) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	var acks []*api.StorageObjectAck
	for _, w := range writes {
		if w.Key == m.failKey && m.failWrite > 0 {
			m.failWrite--
			return nil, errors.New("version check failed")
		}
		k := storageKey(w.Collection, w.Key, w.UserID)
		existing, exists := m.objects[k]
		switch {
		case w.Version == "*" && exists:
			return nil, errors.New("object exists")
		case w.Version != "" && w.Version != "*" && (!exists || existing.Version != w.Version):
			return nil, errors.New("version mismatch")
		}
		m.seq++
		version := strconv.Itoa(m.seq)
		m.objects[k] = &api.StorageObject{
			Collection: w.Collection,
			Key:        w.Key,
			UserId:     w.UserID,
			Value:      w.Value,
			Version:    version,
		}
		acks = append(acks, &api.StorageObjectAck{Collection: w.Collection, Key: w.Key, UserId: w.UserID, Version: version})
	}
	return acks, nil
}

func (m *mockStorage) AccountGetId(ctx context.Context, userID string) (*api.Account, error) {
	name, ok := m.users[userID]
	if !ok {
		return nil, errors.New("account not found")
	}
	return &api.Account{User: &api.User{Id: userID, Username: name}}, nil
}

type mockResults struct {
	recorded []ports.MatchResult
}

func (m *mockResults) RecordResult(ctx context.Context, result ports.MatchResult) error {
	m.recorded = append(m.recorded, result)
	return nil
}

func (m *mockResults) Leaderboard(ctx context.Context, limit int) ([]ports.LeaderboardEntry, error) {
	return nil, nil
}

type mockCreator struct {
	module string
	params map[string]interface{}
}

func (m *mockCreator) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	m.module = module
	m.params = params
	return "match-1", nil
}

// compactJSON strips the whitespace protojson may add to its output.
func compactJSON(t *testing.T, s string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		t.Fatalf("invalid JSON %q: %v", s, err)
	}
	return buf.String()
}

func userContext(userID string) context.Context {
	return context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, userID)
}
