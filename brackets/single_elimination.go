package brackets

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/bits"
	"sort"
	"strings"
)

var (
	ErrNotEnoughEntries = errors.New("not enough entries to generate a single elimination bracket (minimum 2)")
	ErrDuplicateEntry   = errors.New("duplicate entry name in bracket")
)

// BracketMatch is one fixture of a generated bracket. A nil side is filled
// later by the winner of the source match in the previous round.
type BracketMatch struct {
	UID          string
	Round        int
	OrderInRound int

	TeamA *Entry
	TeamB *Entry

	SourceMatchAUID *string
	SourceMatchBUID *string

	// IsBye marks a first-round fixture with a single entrant, who is
	// already placed into the next round.
	IsBye bool
}

// Winner of a bye fixture.
func (bm *BracketMatch) ByeWinner() *Entry {
	if !bm.IsBye {
		return nil
	}
	if bm.TeamA != nil {
		return bm.TeamA
	}
	return bm.TeamB
}

type SingleEliminationGenerator struct {
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket lays out every fixture of every round. Matches are
// returned ordered by round then slot, which is the order they must be
// persisted in: advancement relies on creation order within a round.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error) {
	entries := params.Entries
	n := len(entries)
	if n < 2 {
		return nil, ErrNotEnoughEntries
	}
	seen := make(map[string]bool, n)
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if key == "" {
			return nil, errors.New("bracket entry name is required")
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEntry, e.Name)
		}
		seen[key] = true
	}

	numRounds := bits.Len(uint(n - 1))
	sizeOfFullBracket := 1 << uint(numRounds)
	numByes := sizeOfFullBracket - n

	log.Printf("Generating single elimination bracket: entries=%d rounds=%d size=%d byes=%d",
		n, numRounds, sizeOfFullBracket, numByes)

	all := make([]*BracketMatch, 0, sizeOfFullBracket-1)

	// First round: the first numByes entries get a bye, the rest are paired.
	previous := make([]*BracketMatch, 0, sizeOfFullBracket/2)
	idx := 0
	for slot := 0; slot < sizeOfFullBracket/2; slot++ {
		bm := &BracketMatch{
			UID:          matchUID(1, slot),
			Round:        1,
			OrderInRound: slot + 1,
		}
		a := entries[idx]
		bm.TeamA = &a
		idx++
		if slot < numByes {
			bm.IsBye = true
		} else {
			b := entries[idx]
			bm.TeamB = &b
			idx++
		}
		previous = append(previous, bm)
	}
	all = append(all, previous...)

	for r := 2; r <= numRounds; r++ {
		current := make([]*BracketMatch, 0, len(previous)/2)
		for slot := 0; slot < len(previous)/2; slot++ {
			srcA, srcB := previous[2*slot], previous[2*slot+1]
			bm := &BracketMatch{
				UID:          matchUID(r, slot),
				Round:        r,
				OrderInRound: slot + 1,
			}
			if w := srcA.ByeWinner(); w != nil {
				bm.TeamA = w
			} else {
				uid := srcA.UID
				bm.SourceMatchAUID = &uid
			}
			if w := srcB.ByeWinner(); w != nil {
				bm.TeamB = w
			} else {
				uid := srcB.UID
				bm.SourceMatchBUID = &uid
			}
			current = append(current, bm)
		}
		all = append(all, current...)
		previous = current
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Round != all[j].Round {
			return all[i].Round < all[j].Round
		}
		return all[i].OrderInRound < all[j].OrderInRound
	})

	return all, nil
}

// TotalRounds is the number of rounds a bracket of n entries needs.
func TotalRounds(n int) int {
	if n < 2 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

func matchUID(round, slot int) string {
	return fmt.Sprintf("R%dM%d", round, slot+1)
}
