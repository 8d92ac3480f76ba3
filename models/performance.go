package models

import "time"

// PerformanceProfile is a user's standalone stat-tracking record for a sport.
type PerformanceProfile struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	Sport       string    `json:"sport" db:"sport"`
	DisplayName string    `json:"display_name" db:"display_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// StatEntry holds one match's metrics for a profile. At most one per
// (MatchID, ProfileID).
type StatEntry struct {
	ID        int                `json:"id" db:"id"`
	MatchID   int                `json:"match_id" db:"match_id"`
	ProfileID int                `json:"profile_id" db:"profile_id"`
	TeamName  string             `json:"team_name" db:"team_name"`
	Metrics   map[string]float64 `json:"metrics" db:"metrics"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}

type Goal struct {
	ID          int        `json:"id" db:"id"`
	ProfileID   int        `json:"profile_id" db:"profile_id"`
	MetricKey   string     `json:"metric_key" db:"metric_key"`
	Target      float64    `json:"target" db:"target"`
	Current     float64    `json:"current" db:"current"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}
