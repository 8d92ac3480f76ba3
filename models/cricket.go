package models

import "time"

const SportCricket = "cricket"

// Innings is one side's batting session. TotalOvers is in over.ball notation.
type Innings struct {
	ID               int       `json:"id" db:"id"`
	MatchID          int       `json:"match_id" db:"match_id"`
	InningsNumber    int       `json:"innings_number" db:"innings_number"`
	BattingTeam      string    `json:"batting_team" db:"batting_team"`
	BowlingTeam      string    `json:"bowling_team" db:"bowling_team"`
	TotalRuns        int       `json:"total_runs" db:"total_runs"`
	TotalWickets     int       `json:"total_wickets" db:"total_wickets"`
	TotalOvers       float64   `json:"total_overs" db:"total_overs"`
	Extras           int       `json:"extras" db:"extras"`
	IsComplete       bool      `json:"is_complete" db:"is_complete"`
	CompletionReason *string   `json:"completion_reason,omitempty" db:"completion_reason"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

type BattingEntry struct {
	ID            int     `json:"id" db:"id"`
	InningsID     int     `json:"innings_id" db:"innings_id"`
	PlayerName    string  `json:"player_name" db:"player_name"`
	PlayerID      *int    `json:"player_id,omitempty" db:"player_id"`
	BattingOrder  int     `json:"batting_order" db:"batting_order"`
	Runs          int     `json:"runs" db:"runs"`
	BallsFaced    int     `json:"balls_faced" db:"balls_faced"`
	Fours         int     `json:"fours" db:"fours"`
	Sixes         int     `json:"sixes" db:"sixes"`
	StrikeRate    float64 `json:"strike_rate" db:"strike_rate"`
	IsOut         bool    `json:"is_out" db:"is_out"`
	DismissalType *string `json:"dismissal_type,omitempty" db:"dismissal_type"`
	BowlerName    *string `json:"bowler_name,omitempty" db:"bowler_name"`
	FielderName   *string `json:"fielder_name,omitempty" db:"fielder_name"`
}

// BowlingEntry is a bowler's ledger for one innings. OversBowled is in
// over.ball notation.
type BowlingEntry struct {
	ID           int     `json:"id" db:"id"`
	InningsID    int     `json:"innings_id" db:"innings_id"`
	PlayerName   string  `json:"player_name" db:"player_name"`
	PlayerID     *int    `json:"player_id,omitempty" db:"player_id"`
	OversBowled  float64 `json:"overs_bowled" db:"overs_bowled"`
	RunsConceded int     `json:"runs_conceded" db:"runs_conceded"`
	Wickets      int     `json:"wickets" db:"wickets"`
	Economy      float64 `json:"economy" db:"economy"`
	Extras       int     `json:"extras" db:"extras"`
	NoBalls      int     `json:"no_balls" db:"no_balls"`
	Wides        int     `json:"wides" db:"wides"`
}

// BallEvent is the append-only record of a single delivery.
type BallEvent struct {
	ID            int       `json:"id" db:"id"`
	InningsID     int       `json:"innings_id" db:"innings_id"`
	Sequence      int       `json:"sequence" db:"sequence"`
	OverNumber    int       `json:"over_number" db:"over_number"`
	BallNumber    int       `json:"ball_number" db:"ball_number"`
	BatsmanName   string    `json:"batsman_name" db:"batsman_name"`
	BatsmanID     *int      `json:"batsman_id,omitempty" db:"batsman_id"`
	BowlerName    string    `json:"bowler_name" db:"bowler_name"`
	BowlerID      *int      `json:"bowler_id,omitempty" db:"bowler_id"`
	RunsScored    int       `json:"runs_scored" db:"runs_scored"`
	ExtraType     *string   `json:"extra_type,omitempty" db:"extra_type"`
	ExtraRuns     int       `json:"extra_runs" db:"extra_runs"`
	IsWicket      bool      `json:"is_wicket" db:"is_wicket"`
	DismissalType *string   `json:"dismissal_type,omitempty" db:"dismissal_type"`
	FielderName   *string   `json:"fielder_name,omitempty" db:"fielder_name"`
	Commentary    string    `json:"commentary" db:"commentary"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// InningsScorecard groups an innings with its ledgers.
type InningsScorecard struct {
	Innings *Innings        `json:"innings"`
	Batting []*BattingEntry `json:"batting"`
	Bowling []*BowlingEntry `json:"bowling"`
	Balls   []*BallEvent    `json:"balls,omitempty"`
}

type Scorecard struct {
	Match   *Match              `json:"match"`
	Innings []*InningsScorecard `json:"innings"`
}
