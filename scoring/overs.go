// Package scoring holds the pure cricket scoring rules: over.ball notation,
// delivery classification, ledger and innings arithmetic, match results and
// post-match aggregation. Nothing here touches storage.
package scoring

import "math"

const BallsPerOver = 6

// OversNotation renders a legal-ball count in over.ball notation: the integer
// part is completed overs and the single decimal digit is balls (0-5) of the
// current over. 20 balls -> 3.2.
func OversNotation(legalBalls int) float64 {
	if legalBalls <= 0 {
		return 0
	}
	overs := legalBalls / BallsPerOver
	balls := legalBalls % BallsPerOver
	return round1(float64(overs) + float64(balls)/10)
}

// LegalBallCount recovers the legal-ball count from over.ball notation.
func LegalBallCount(overs float64) int {
	if overs <= 0 {
		return 0
	}
	whole := math.Floor(overs)
	balls := int(math.Round((overs - whole) * 10))
	return int(whole)*BallsPerOver + balls
}

// AddLegalBall advances an over.ball value by one ball when legal is true.
func AddLegalBall(overs float64, legal bool) float64 {
	if !legal {
		return overs
	}
	return OversNotation(LegalBallCount(overs) + 1)
}

// TrueOvers is the real number of overs for rate arithmetic: 20 balls -> 3.333.
func TrueOvers(legalBalls int) float64 {
	if legalBalls <= 0 {
		return 0
	}
	return float64(legalBalls/BallsPerOver) + float64(legalBalls%BallsPerOver)/BallsPerOver
}

// OverAndBall returns the 0-based over index and 1-based ball number a
// delivery occupies given the legal balls bowled before it. Illegal
// deliveries keep the ball number of the last legal ball.
func OverAndBall(legalBallsBefore int, legal bool) (over, ball int) {
	over = legalBallsBefore / BallsPerOver
	ball = legalBallsBefore % BallsPerOver
	if legal {
		ball++
	}
	return over, ball
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
