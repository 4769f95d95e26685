package domain

import "fmt"

// Seat identifies a player at the table. Seat order is the fixed cyclic turn order.
type Seat int

const (
	SeatUser Seat = iota
	SeatPlayer1
	SeatPlayer2
	SeatPlayer3
	SeatPlayer4
)

// NumSeats is the size of the table: one human and four computer players.
const NumSeats = 5

// Seats lists every seat in turn order.
var Seats = [NumSeats]Seat{SeatUser, SeatPlayer1, SeatPlayer2, SeatPlayer3, SeatPlayer4}

func (s Seat) String() string {
	if s == SeatUser {
		return "User"
	}
	if s > SeatUser && s < NumSeats {
		return fmt.Sprintf("Player%d", int(s))
	}
	return fmt.Sprintf("Seat(%d)", int(s))
}

// Valid reports whether the seat exists at the table.
func (s Seat) Valid() bool {
	return s >= SeatUser && s < NumSeats
}

// Title is a player's finishing position in a round.
type Title int

const (
	TitleNone Title = iota
	President
	VicePresident
	Middle
	ViceBum
	Bum
)

// TitleOrder is the order titles are handed out as players empty their hands.
var TitleOrder = [NumSeats]Title{President, VicePresident, Middle, ViceBum, Bum}

func (t Title) String() string {
	switch t {
	case President:
		return "President"
	case VicePresident:
		return "Vice President"
	case Middle:
		return "Middle"
	case ViceBum:
		return "Vice Bum"
	case Bum:
		return "Bum"
	default:
		return "None"
	}
}

// TitleCounts tallies how often each title was earned.
type TitleCounts struct {
	President     int `json:"president"`
	VicePresident int `json:"vice_president"`
	Middle        int `json:"middle"`
	ViceBum       int `json:"vice_bum"`
	Bum           int `json:"bum"`
}

// Add records one more occurrence of title. TitleNone is ignored.
func (c *TitleCounts) Add(title Title) {
	switch title {
	case President:
		c.President++
	case VicePresident:
		c.VicePresident++
	case Middle:
		c.Middle++
	case ViceBum:
		c.ViceBum++
	case Bum:
		c.Bum++
	}
}

// Merge adds other into c.
func (c *TitleCounts) Merge(other TitleCounts) {
	c.President += other.President
	c.VicePresident += other.VicePresident
	c.Middle += other.Middle
	c.ViceBum += other.ViceBum
	c.Bum += other.Bum
}

// Total is the number of titles counted.
func (c TitleCounts) Total() int {
	return c.President + c.VicePresident + c.Middle + c.ViceBum + c.Bum
}

// Best returns the highest title earned most often, TitleNone when empty.
func (c TitleCounts) Best() Title {
	best, bestN := TitleNone, 0
	for _, t := range TitleOrder {
		if n := c.Count(t); n > bestN {
			best, bestN = t, n
		}
	}
	return best
}

// Count returns the tally for title.
func (c TitleCounts) Count(title Title) int {
	switch title {
	case President:
		return c.President
	case VicePresident:
		return c.VicePresident
	case Middle:
		return c.Middle
	case ViceBum:
		return c.ViceBum
	case Bum:
		return c.Bum
	}
	return 0
}
