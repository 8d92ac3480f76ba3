package scoring

import "github.com/Dosada05/cricket-scorer/models"

// Metric keys written to stat entries and tracked by goals.
const (
	MetricMatchesPlayed = "matches_played"
	MetricWins          = "wins"
	MetricRuns          = "runs"
	MetricBallsFaced    = "balls_faced"
	MetricFours         = "fours"
	MetricSixes         = "sixes"
	MetricStrikeRate    = "strike_rate"
	MetricWickets       = "wickets"
	MetricRunsConceded  = "runs_conceded"
	MetricOversBowled   = "overs_bowled"
	MetricEconomy       = "economy"
	MetricCatches       = "catches"
)

// Performance is a side's aggregate over every innings of a match.
type Performance struct {
	Team string
	Won  bool

	Runs       int
	BallsFaced int
	Fours      int
	Sixes      int

	Wickets          int
	RunsConceded     int
	LegalBallsBowled int

	Catches int
}

// AggregateTeam sums batting where team batted, bowling where team bowled,
// and catches taken against the opposing batters.
func AggregateTeam(team string, cards []*models.InningsScorecard) Performance {
	p := Performance{Team: team}
	for _, card := range cards {
		if card == nil || card.Innings == nil {
			continue
		}
		switch team {
		case card.Innings.BattingTeam:
			for _, b := range card.Batting {
				p.Runs += b.Runs
				p.BallsFaced += b.BallsFaced
				p.Fours += b.Fours
				p.Sixes += b.Sixes
			}
		case card.Innings.BowlingTeam:
			for _, b := range card.Bowling {
				p.Wickets += b.Wickets
				p.RunsConceded += b.RunsConceded
				p.LegalBallsBowled += LegalBallCount(b.OversBowled)
			}
			for _, b := range card.Batting {
				if b.IsOut && b.DismissalType != nil && DismissalType(*b.DismissalType) == DismissalCaught {
					p.Catches++
				}
			}
		}
	}
	return p
}

func (p Performance) StrikeRate() float64 {
	return StrikeRate(p.Runs, p.BallsFaced)
}

func (p Performance) Economy() float64 {
	return Economy(p.RunsConceded, p.LegalBallsBowled)
}

// Metrics flattens the performance into the keyed set goals are tracked by.
func (p Performance) Metrics() map[string]float64 {
	won := 0.0
	if p.Won {
		won = 1
	}
	return map[string]float64{
		MetricMatchesPlayed: 1,
		MetricWins:          won,
		MetricRuns:          float64(p.Runs),
		MetricBallsFaced:    float64(p.BallsFaced),
		MetricFours:         float64(p.Fours),
		MetricSixes:         float64(p.Sixes),
		MetricStrikeRate:    p.StrikeRate(),
		MetricWickets:       float64(p.Wickets),
		MetricRunsConceded:  float64(p.RunsConceded),
		MetricOversBowled:   round2(TrueOvers(p.LegalBallsBowled)),
		MetricEconomy:       p.Economy(),
		MetricCatches:       float64(p.Catches),
	}
}

// ApplyGoal adds value to a goal's progress and marks it complete once the
// target is met. It reports whether the goal just completed.
func ApplyGoal(goal *models.Goal, value float64) bool {
	if goal.Completed {
		return false
	}
	goal.Current += value
	if goal.Current >= goal.Target {
		goal.Completed = true
		return true
	}
	return false
}
