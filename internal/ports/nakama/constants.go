package nakama

const (
	// MatchNamePresident is the authoritative match handler name registered with Nakama.
	MatchNamePresident = "president_match"

	RpcCreateMatch     = "create_match"
	RpcLeaderboard     = "leaderboard"
	RpcSavePreferences = "save_preferences"
	RpcLoadPreferences = "load_preferences"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartMatch int64 = 1
	OpPlayCard   int64 = 2
	OpPass       int64 = 3

	// Server -> Client events
	OpMatchState int64 = 101 // snapshot of the table as the human sees it
	OpGameEvent  int64 = 102
	OpRoundEnded int64 = 103
	OpMatchEnded int64 = 104
	OpGameError  int64 = 105
)

// Storage layout.
const (
	StorageCollection     = "president"
	StorageKeyPreferences = "preferences"
	StorageKeyLeaderboard = "leaderboard"
	ResultsCollection     = "president_results"
)

const (
	tickRate            = 10
	defaultBotDelayMs   = 600
	defaultLeaderboard  = 10
	maxWriteAttempts    = 3
	envBotDelayMs       = "president_bot_delay_ms"
	envBotIdentitiesKey = "president_bot_identities"
	defaultIdentityPath = "data/bot_identities.json"
)
