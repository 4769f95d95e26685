package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove is the root of every rejected player action. State is unchanged when it is returned.
	ErrIllegalMove = errors.New("illegal move")

	ErrNotYourTurn = fmt.Errorf("%w: not this player's turn", ErrIllegalMove)
	ErrCardNotHeld = fmt.Errorf("%w: card not in hand", ErrIllegalMove)
	ErrCannotBeat  = fmt.Errorf("%w: card does not beat the pile", ErrIllegalMove)
	ErrMustLead    = fmt.Errorf("%w: cannot pass on an empty pile", ErrIllegalMove)
	ErrRoundOver   = fmt.Errorf("%w: round is complete", ErrIllegalMove)
	ErrUnknownSeat = fmt.Errorf("%w: unknown seat", ErrIllegalMove)

	// ErrInvariantViolation signals corrupted table state. It never occurs under correct use.
	ErrInvariantViolation = errors.New("invariant violation")
)
