package scoring

import (
	"errors"
	"fmt"

	"github.com/Dosada05/cricket-scorer/models"
)

var ErrInvalidTransition = errors.New("invalid match state transition")

type MatchEvent string

const (
	EventStartInnings    MatchEvent = "start_innings"
	EventInningsComplete MatchEvent = "innings_complete"
	EventWalkover        MatchEvent = "walkover"
)

var transitions = map[models.MatchState]map[MatchEvent]models.MatchState{
	models.MatchStateNotStarted: {
		EventStartInnings: models.MatchStateInnings1,
		EventWalkover:     models.MatchStateComplete,
	},
	models.MatchStateInnings1: {
		EventInningsComplete: models.MatchStateInningsBreak,
	},
	models.MatchStateInningsBreak: {
		EventStartInnings: models.MatchStateInnings2,
	},
	models.MatchStateInnings2: {
		EventInningsComplete: models.MatchStateComplete,
	},
	models.MatchStateComplete: {},
}

// Transition returns the state a match moves to on event.
func Transition(state models.MatchState, event MatchEvent) (models.MatchState, error) {
	next, ok := transitions[state][event]
	if !ok {
		return state, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, state)
	}
	return next, nil
}

// ActiveInningsNumber is the innings being played in state, or 0 if none.
func ActiveInningsNumber(state models.MatchState) int {
	switch state {
	case models.MatchStateInnings1:
		return 1
	case models.MatchStateInnings2:
		return 2
	}
	return 0
}
