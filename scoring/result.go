package scoring

import (
	"errors"
	"strconv"

	"github.com/Dosada05/cricket-scorer/models"
)

var ErrInningsMismatch = errors.New("innings do not belong to the match sides")

type Outcome string

const (
	OutcomeWin Outcome = "win"
	OutcomeTie Outcome = "tie"
)

// Result is the decided outcome of a two-innings match. Winner and Loser are
// empty on a tie.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Winner  string  `json:"winner,omitempty"`
	Loser   string  `json:"loser,omitempty"`
	Margin  string  `json:"margin,omitempty"`
}

// DecideResult compares the two completed innings. The chasing side wins only
// on a strictly greater total; equal totals are a tie.
func DecideResult(first, second *models.Innings, rules Rules) Result {
	switch {
	case second.TotalRuns > first.TotalRuns:
		return Result{
			Outcome: OutcomeWin,
			Winner:  second.BattingTeam,
			Loser:   second.BowlingTeam,
			Margin:  plural(rules.MaxWickets()-second.TotalWickets, "wicket"),
		}
	case second.TotalRuns < first.TotalRuns:
		return Result{
			Outcome: OutcomeWin,
			Winner:  second.BowlingTeam,
			Loser:   second.BattingTeam,
			Margin:  plural(first.TotalRuns-second.TotalRuns, "run"),
		}
	}
	return Result{Outcome: OutcomeTie}
}

// FinalScores maps each side of the match to the total of the innings it
// batted in.
func FinalScores(match *models.Match, innings ...*models.Innings) (scoreA, scoreB int, err error) {
	var seenA, seenB bool
	for _, inn := range innings {
		switch inn.BattingTeam {
		case match.TeamA:
			scoreA, seenA = inn.TotalRuns, true
		case match.TeamB:
			scoreB, seenB = inn.TotalRuns, true
		default:
			return 0, 0, ErrInningsMismatch
		}
	}
	if !seenA || !seenB {
		return 0, 0, ErrInningsMismatch
	}
	return scoreA, scoreB, nil
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
