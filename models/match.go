package models

import "time"

// MatchState tracks which innings of a match is being played.
type MatchState string

const (
	MatchStateNotStarted   MatchState = "not_started"
	MatchStateInnings1     MatchState = "innings_1_active"
	MatchStateInningsBreak MatchState = "innings_break"
	MatchStateInnings2     MatchState = "innings_2_active"
	MatchStateComplete     MatchState = "complete"
)

type MatchResult string

const (
	MatchResultWin      MatchResult = "win"
	MatchResultTie      MatchResult = "tie"
	MatchResultWalkover MatchResult = "walkover"
)

// Match is one bracket fixture between two named sides.
// PlayerAID/PlayerBID link a side to a user owning a performance profile.
type Match struct {
	ID              int          `json:"id" db:"id"`
	TournamentID    int          `json:"tournament_id" db:"tournament_id"`
	Round           int          `json:"round" db:"round"`
	Sport           string       `json:"sport" db:"sport"`
	TeamA           string       `json:"team_a" db:"team_a"`
	TeamB           string       `json:"team_b" db:"team_b"`
	PlayerAID       *int         `json:"player_a_id,omitempty" db:"player_a_id"`
	PlayerBID       *int         `json:"player_b_id,omitempty" db:"player_b_id"`
	ScorerID        *int         `json:"scorer_id,omitempty" db:"scorer_id"`
	MaxOvers        int          `json:"max_overs" db:"max_overs"`
	PlayersPerSide  int          `json:"players_per_side" db:"players_per_side"`
	State           MatchState   `json:"state" db:"state"`
	ActiveInningsID *int         `json:"active_innings_id,omitempty" db:"active_innings_id"`
	Completed       bool         `json:"completed" db:"completed"`
	ScoreA          *int         `json:"score_a,omitempty" db:"score_a"`
	ScoreB          *int         `json:"score_b,omitempty" db:"score_b"`
	WinnerName      *string      `json:"winner_name,omitempty" db:"winner_name"`
	Result          *MatchResult `json:"result,omitempty" db:"result"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
}

// PlayerIDForTeam returns the linked identity of the named side.
func (m *Match) PlayerIDForTeam(team string) *int {
	switch team {
	case m.TeamA:
		return m.PlayerAID
	case m.TeamB:
		return m.PlayerBID
	}
	return nil
}

// Opponent returns the other side's name, or "" if team is not in the match.
func (m *Match) Opponent(team string) string {
	switch team {
	case m.TeamA:
		return m.TeamB
	case m.TeamB:
		return m.TeamA
	}
	return ""
}
