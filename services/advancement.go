package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/cricket-scorer/brackets"
	"github.com/Dosada05/cricket-scorer/models"
	"github.com/Dosada05/cricket-scorer/repositories"
)

// Advancement is what a decided match changed in its bracket.
type Advancement struct {
	NextMatchID      *int                    `json:"next_match_id,omitempty"`
	Side             brackets.Side           `json:"side,omitempty"`
	TournamentStatus models.TournamentStatus `json:"tournament_status"`
	TournamentWinner *string                 `json:"tournament_winner,omitempty"`
}

type bracketAdvancer struct {
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
}

// advance writes winner into the next-round slot fed by match, or completes
// the tournament when match is the final. Must run inside the caller's
// transaction.
func (a *bracketAdvancer) advance(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament, m *models.Match, winner string) (*Advancement, error) {
	if m.Round == t.TotalRounds {
		if err := a.tournamentRepo.Complete(ctx, exec, t.ID, winner); err != nil {
			return nil, fmt.Errorf("failed to complete tournament %d: %w", t.ID, handleRepositoryError(err))
		}
		t.Status = models.StatusCompleted
		t.WinnerName = &winner
		return &Advancement{TournamentStatus: t.Status, TournamentWinner: t.WinnerName}, nil
	}

	round := m.Round
	current, err := a.matchRepo.ListByTournament(ctx, exec, t.ID, &round)
	if err != nil {
		return nil, fmt.Errorf("failed to list round %d matches: %w", round, err)
	}
	idx := brackets.IndexInRound(current, m.ID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: match %d not found in round %d", ErrBracketInconsistent, m.ID, round)
	}

	nextRound := round + 1
	next, err := a.matchRepo.ListByTournament(ctx, exec, t.ID, &nextRound)
	if err != nil {
		return nil, fmt.Errorf("failed to list round %d matches: %w", nextRound, err)
	}
	slot, side := brackets.NextSlot(idx)
	if slot >= len(next) {
		return nil, fmt.Errorf("%w: round %d has %d matches, need slot %d", ErrBracketInconsistent, nextRound, len(next), slot)
	}
	target := next[slot]

	if err := a.matchRepo.AssignSide(ctx, exec, target.ID, side, winner, m.PlayerIDForTeam(winner)); err != nil {
		return nil, fmt.Errorf("failed to place winner into match %d: %w", target.ID, err)
	}
	return &Advancement{NextMatchID: intPtr(target.ID), Side: side, TournamentStatus: t.Status}, nil
}
