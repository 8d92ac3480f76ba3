package scoring

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDelivery      = errors.New("invalid delivery")
	ErrUnknownExtraType     = fmt.Errorf("%w: unknown extra type", ErrInvalidDelivery)
	ErrUnknownDismissalType = fmt.Errorf("%w: unknown dismissal type", ErrInvalidDelivery)
	ErrBatsmanRequired      = fmt.Errorf("%w: batsman name is required", ErrInvalidDelivery)
	ErrBowlerRequired       = fmt.Errorf("%w: bowler name is required", ErrInvalidDelivery)
	ErrNegativeRuns         = fmt.Errorf("%w: runs must not be negative", ErrInvalidDelivery)
)

type ExtraType string

const (
	ExtraNone    ExtraType = ""
	ExtraWide    ExtraType = "WIDE"
	ExtraNoBall  ExtraType = "NO_BALL"
	ExtraBye     ExtraType = "BYE"
	ExtraLegBye  ExtraType = "LEG_BYE"
	ExtraPenalty ExtraType = "PENALTY"
)

type DismissalType string

const (
	DismissalNone      DismissalType = ""
	DismissalBowled    DismissalType = "BOWLED"
	DismissalCaught    DismissalType = "CAUGHT"
	DismissalLBW       DismissalType = "LBW"
	DismissalRunOut    DismissalType = "RUN_OUT"
	DismissalStumped   DismissalType = "STUMPED"
	DismissalHitWicket DismissalType = "HIT_WICKET"
	DismissalRetired   DismissalType = "RETIRED"
)

// ParseExtraType accepts the wire value of an extra; empty means no extra.
func ParseExtraType(s string) (ExtraType, error) {
	switch e := ExtraType(strings.ToUpper(strings.TrimSpace(s))); e {
	case ExtraNone, ExtraWide, ExtraNoBall, ExtraBye, ExtraLegBye, ExtraPenalty:
		return e, nil
	}
	return ExtraNone, fmt.Errorf("%w %q", ErrUnknownExtraType, s)
}

func ParseDismissalType(s string) (DismissalType, error) {
	switch d := DismissalType(strings.ToUpper(strings.TrimSpace(s))); d {
	case DismissalNone, DismissalBowled, DismissalCaught, DismissalLBW,
		DismissalRunOut, DismissalStumped, DismissalHitWicket, DismissalRetired:
		return d, nil
	}
	return DismissalNone, fmt.Errorf("%w %q", ErrUnknownDismissalType, s)
}

// CreditsBowler reports whether the dismissal counts in the bowler's wickets.
func (d DismissalType) CreditsBowler() bool {
	switch d {
	case DismissalBowled, DismissalCaught, DismissalLBW, DismissalHitWicket, DismissalStumped:
		return true
	}
	return false
}

// RecordsFielder reports whether a fielder name is kept for the dismissal.
func (d DismissalType) RecordsFielder() bool {
	switch d {
	case DismissalCaught, DismissalRunOut, DismissalStumped:
		return true
	}
	return false
}

// Delivery is one submitted ball as received from the scorer.
type Delivery struct {
	BatsmanName   string
	BowlerName    string
	RunsScored    int
	ExtraType     string
	ExtraRuns     *int
	IsWicket      bool
	DismissalType string
	FielderName   string
}

// Classified holds the facts every ledger derives from a delivery.
type Classified struct {
	Batsman string
	Bowler  string
	Extra   ExtraType

	Legal     bool
	BallFaced bool

	BatterRuns   int
	ExtraRuns    int
	TotalRuns    int
	BowlerCharge int

	IsFour bool
	IsSix  bool

	IsWicket      bool
	InningsWicket bool
	BowlerWicket  bool
	Dismissal     DismissalType
	Fielder       string
}

// Classify validates a delivery and derives legality and run attribution.
func Classify(d Delivery) (Classified, error) {
	batsman := strings.TrimSpace(d.BatsmanName)
	bowler := strings.TrimSpace(d.BowlerName)
	if batsman == "" {
		return Classified{}, ErrBatsmanRequired
	}
	if bowler == "" {
		return Classified{}, ErrBowlerRequired
	}
	if d.RunsScored < 0 || (d.ExtraRuns != nil && *d.ExtraRuns < 0) {
		return Classified{}, ErrNegativeRuns
	}

	extra, err := ParseExtraType(d.ExtraType)
	if err != nil {
		return Classified{}, err
	}
	dismissal, err := ParseDismissalType(d.DismissalType)
	if err != nil {
		return Classified{}, err
	}

	extraRuns := 0
	if d.ExtraRuns != nil {
		extraRuns = *d.ExtraRuns
	} else if extra == ExtraWide || extra == ExtraNoBall {
		extraRuns = 1
	}

	c := Classified{
		Batsman:   batsman,
		Bowler:    bowler,
		Extra:     extra,
		Legal:     extra != ExtraWide && extra != ExtraNoBall,
		BallFaced: extra != ExtraWide,
		ExtraRuns: extraRuns,
	}

	byes := extra == ExtraBye || extra == ExtraLegBye
	if !byes {
		c.BatterRuns = d.RunsScored
	}
	c.TotalRuns = c.BatterRuns + c.ExtraRuns
	if !byes {
		c.BowlerCharge = c.TotalRuns
	}
	c.IsFour = c.BatterRuns == 4
	c.IsSix = c.BatterRuns == 6

	if d.IsWicket {
		if dismissal == DismissalNone {
			dismissal = DismissalRunOut
		}
		c.IsWicket = true
		c.Dismissal = dismissal
		c.InningsWicket = dismissal != DismissalRetired
		c.BowlerWicket = dismissal.CreditsBowler()
		if dismissal.RecordsFielder() {
			c.Fielder = strings.TrimSpace(d.FielderName)
		}
	}
	return c, nil
}
