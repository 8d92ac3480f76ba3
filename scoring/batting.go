package scoring

import "github.com/Dosada05/cricket-scorer/models"

// NewBattingEntry starts a batter's ledger at the given batting order.
func NewBattingEntry(inningsID int, name string, playerID *int, order int) *models.BattingEntry {
	return &models.BattingEntry{
		InningsID:    inningsID,
		PlayerName:   name,
		PlayerID:     playerID,
		BattingOrder: order,
	}
}

// StrikeRate is runs per hundred balls, rounded to 2 decimals.
func StrikeRate(runs, ballsFaced int) float64 {
	if ballsFaced <= 0 {
		return 0
	}
	return round2(float64(runs) / float64(ballsFaced) * 100)
}

// ApplyBatting credits a delivery to the striker's ledger.
func ApplyBatting(entry *models.BattingEntry, c Classified) {
	entry.Runs += c.BatterRuns
	if c.BallFaced {
		entry.BallsFaced++
	}
	if c.IsFour {
		entry.Fours++
	}
	if c.IsSix {
		entry.Sixes++
	}
	entry.StrikeRate = StrikeRate(entry.Runs, entry.BallsFaced)

	if !c.InningsWicket {
		return
	}
	entry.IsOut = true
	dismissal := string(c.Dismissal)
	entry.DismissalType = &dismissal
	if c.BowlerWicket {
		bowler := c.Bowler
		entry.BowlerName = &bowler
	}
	if c.Fielder != "" {
		fielder := c.Fielder
		entry.FielderName = &fielder
	}
}
