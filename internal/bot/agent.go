package bot

import (
	"president/internal/domain"
)

// Agent represents an autonomous bot player sitting at a fixed seat.
type Agent struct {
	Identity BotIdentity
	Seat     domain.Seat
	Strategy Brain
}

// Play asks the agent to calculate its move based on the current table.
func (a *Agent) Play(table *domain.TableState) (Move, error) {
	if table == nil || !table.IsActive(a.Seat) {
		return Move{Pass: true}, nil
	}
	move, err := a.Strategy.CalculateMove(table, a.Seat)
	if err != nil {
		return Move{Pass: true}, err
	}
	return move, nil
}

// OnGameEvent notifies the agent of a game event.
func (a *Agent) OnGameEvent(event interface{}) {
	a.Strategy.OnEvent(event)
}
