package models

import "time"

// Live event types pushed to websocket rooms and the event stream.
const (
	EventInningsStarted   = "INNINGS_STARTED"
	EventDeliveryRecorded = "DELIVERY_RECORDED"
	EventInningsCompleted = "INNINGS_COMPLETED"
	EventMatchCompleted   = "MATCH_COMPLETED"
	EventBracketUpdated   = "BRACKET_UPDATED"
)

type LiveEvent struct {
	ID           string      `json:"id"`
	Type         string      `json:"type"`
	MatchID      int         `json:"match_id"`
	TournamentID int         `json:"tournament_id"`
	Payload      interface{} `json:"payload"`
	At           time.Time   `json:"at"`
}
