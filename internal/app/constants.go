package app

const (
	// MinRounds and MaxRounds bound the rounds a match can be configured for.
	MinRounds = 1
	MaxRounds = 50
	// DefaultRounds is used when Configure was never called.
	DefaultRounds = 5
)
