package scoring

import "github.com/Dosada05/cricket-scorer/models"

type CompletionReason string

const (
	ReasonNone           CompletionReason = ""
	ReasonAllOut         CompletionReason = "all_out"
	ReasonOversExhausted CompletionReason = "overs_exhausted"
	ReasonTargetChased   CompletionReason = "target_chased"
)

// Rules are the per-match limits an innings is played under.
type Rules struct {
	MaxOvers       int
	PlayersPerSide int
}

func (r Rules) MaxWickets() int {
	return r.PlayersPerSide - 1
}

func (r Rules) MaxLegalBalls() int {
	return r.MaxOvers * BallsPerOver
}

// ApplyInnings adds a delivery to the innings totals.
func ApplyInnings(inn *models.Innings, c Classified) {
	inn.TotalRuns += c.TotalRuns
	inn.Extras += c.ExtraRuns
	if c.InningsWicket {
		inn.TotalWickets++
	}
	inn.TotalOvers = AddLegalBall(inn.TotalOvers, c.Legal)
}

// CheckCompletion tests the three ways an innings ends. target is the first
// innings' final total and is only consulted for innings 2.
func CheckCompletion(inn *models.Innings, rules Rules, target *int) (bool, CompletionReason) {
	if inn.InningsNumber == 2 && target != nil && inn.TotalRuns > *target {
		return true, ReasonTargetChased
	}
	if inn.TotalWickets >= rules.MaxWickets() {
		return true, ReasonAllOut
	}
	if LegalBallCount(inn.TotalOvers) >= rules.MaxLegalBalls() {
		return true, ReasonOversExhausted
	}
	return false, ReasonNone
}
