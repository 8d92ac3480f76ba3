package scoring

import (
	"fmt"
	"strings"
)

// Commentary renders a one-line description of a delivery, e.g.
// "3.2 Starc to Kohli, FOUR".
func Commentary(over, ball int, c Classified) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d %s to %s, ", over, ball, c.Bowler, c.Batsman)

	switch c.Extra {
	case ExtraWide:
		fmt.Fprintf(&b, "wide, %s", runs(c.TotalRuns))
	case ExtraNoBall:
		if c.BatterRuns > 0 {
			fmt.Fprintf(&b, "no ball, %s off the bat", runs(c.BatterRuns))
		} else {
			fmt.Fprintf(&b, "no ball, %s", runs(c.ExtraRuns))
		}
	case ExtraBye:
		fmt.Fprintf(&b, "%s bye", runs(c.ExtraRuns))
	case ExtraLegBye:
		fmt.Fprintf(&b, "%s leg bye", runs(c.ExtraRuns))
	case ExtraPenalty:
		fmt.Fprintf(&b, "%s, %s penalty", scoringShot(c), runs(c.ExtraRuns))
	default:
		b.WriteString(scoringShot(c))
	}

	if c.IsWicket {
		b.WriteString(", ")
		b.WriteString(wicketText(c))
	}
	return b.String()
}

func scoringShot(c Classified) string {
	switch {
	case c.IsSix:
		return "SIX"
	case c.IsFour:
		return "FOUR"
	case c.BatterRuns == 0:
		return "no run"
	}
	return runs(c.BatterRuns)
}

func wicketText(c Classified) string {
	switch c.Dismissal {
	case DismissalBowled:
		return "OUT! bowled"
	case DismissalCaught:
		if c.Fielder != "" {
			return "OUT! caught by " + c.Fielder
		}
		return "OUT! caught"
	case DismissalLBW:
		return "OUT! lbw"
	case DismissalStumped:
		if c.Fielder != "" {
			return "OUT! stumped by " + c.Fielder
		}
		return "OUT! stumped"
	case DismissalHitWicket:
		return "OUT! hit wicket"
	case DismissalRunOut:
		if c.Fielder != "" {
			return "OUT! run out (" + c.Fielder + ")"
		}
		return "OUT! run out"
	case DismissalRetired:
		return c.Batsman + " retired"
	}
	return "OUT!"
}

func runs(n int) string {
	if n == 1 {
		return "1 run"
	}
	return fmt.Sprintf("%d runs", n)
}
