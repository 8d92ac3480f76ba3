package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/cricket-scorer/models"
	"github.com/Dosada05/cricket-scorer/repositories"
	"github.com/Dosada05/cricket-scorer/scoring"
)

type matchCompletion struct {
	Result      scoring.Result
	Advancement *Advancement
	StatsSynced bool
}

// completeMatch decides a match whose second innings just ended, then
// advances the bracket and syncs stats, all inside the caller's transaction.
// A tie leaves the winner empty and the bracket untouched.
func (s *scoringService) completeMatch(
	ctx context.Context,
	exec repositories.SQLExecutor,
	tournament *models.Tournament,
	match *models.Match,
	first, second *models.Innings,
) (*matchCompletion, error) {
	rules, err := rulesOf(match)
	if err != nil {
		return nil, err
	}
	scoreA, scoreB, err := scoring.FinalScores(match, first, second)
	if err != nil {
		return nil, fmt.Errorf("match %d: %w", match.ID, err)
	}
	decided := scoring.DecideResult(first, second, rules)

	match.Completed = true
	match.State = models.MatchStateComplete
	match.ActiveInningsID = nil
	match.ScoreA = intPtr(scoreA)
	match.ScoreB = intPtr(scoreB)
	outcome := models.MatchResultTie
	if decided.Outcome == scoring.OutcomeWin {
		outcome = models.MatchResultWin
		match.WinnerName = stringPtr(decided.Winner)
	}
	match.Result = &outcome

	if err := s.matchRepo.UpdateResult(ctx, exec, match); err != nil {
		return nil, fmt.Errorf("failed to store result of match %d: %w", match.ID, err)
	}

	done := &matchCompletion{Result: decided}
	if decided.Outcome == scoring.OutcomeWin {
		if done.Advancement, err = s.advancer.advance(ctx, exec, tournament, match, decided.Winner); err != nil {
			return nil, err
		}
	}

	if s.statSync != nil {
		if done.StatsSynced, err = s.statSync.SyncMatch(ctx, exec, match); err != nil {
			return nil, err
		}
	}
	return done, nil
}
