package bot

// Tuning controls when the hard bot stops hoarding its special cards.
type Tuning struct {
	// ThreatThreshold is the opponent hand size at which the bot plays to win the trick.
	ThreatThreshold int
	// SmallHand is the own hand size at which the bot starts closing out.
	SmallHand int
}

var DefaultTuning = Tuning{
	ThreatThreshold: 2,
	SmallHand:       3,
}
