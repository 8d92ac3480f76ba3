package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusSoon         TournamentStatus = "soon"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

// Tournament is a single-elimination competition. Match rules (overs and
// side size) are copied onto every match at bracket generation.
type Tournament struct {
	ID             int              `json:"id" db:"id"`
	Name           string           `json:"name" db:"name"`
	Sport          string           `json:"sport" db:"sport"`
	OrganizerID    int              `json:"organizer_id" db:"organizer_id"`
	Status         TournamentStatus `json:"status" db:"status"`
	TotalRounds    int              `json:"total_rounds" db:"total_rounds"`
	MaxOvers       int              `json:"max_overs" db:"max_overs"`
	PlayersPerSide int              `json:"players_per_side" db:"players_per_side"`
	WinnerName     *string          `json:"winner_name,omitempty" db:"winner_name"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`

	Matches []Match `json:"matches,omitempty" db:"-"`
}
