package scoring

import "github.com/Dosada05/cricket-scorer/models"

func NewBowlingEntry(inningsID int, name string, playerID *int) *models.BowlingEntry {
	return &models.BowlingEntry{
		InningsID:  inningsID,
		PlayerName: name,
		PlayerID:   playerID,
	}
}

// Economy is runs conceded per true over, rounded to 2 decimals.
func Economy(runsConceded, legalBalls int) float64 {
	overs := TrueOvers(legalBalls)
	if overs == 0 {
		return 0
	}
	return round2(float64(runsConceded) / overs)
}

// ApplyBowling charges a delivery to the bowler's ledger.
func ApplyBowling(entry *models.BowlingEntry, c Classified) {
	balls := LegalBallCount(entry.OversBowled)
	if c.Legal {
		balls++
	}
	entry.OversBowled = OversNotation(balls)
	entry.RunsConceded += c.BowlerCharge
	if c.BowlerWicket {
		entry.Wickets++
	}
	switch c.Extra {
	case ExtraWide:
		entry.Wides++
		entry.Extras += c.ExtraRuns
	case ExtraNoBall:
		entry.NoBalls++
		entry.Extras += c.ExtraRuns
	case ExtraPenalty:
		entry.Extras += c.ExtraRuns
	}
	entry.Economy = Economy(entry.RunsConceded, balls)
}
