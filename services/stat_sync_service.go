package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/cricket-scorer/models"
	"github.com/Dosada05/cricket-scorer/repositories"
	"github.com/Dosada05/cricket-scorer/scoring"
)

// StatSyncService copies a completed match's team aggregates into the
// performance profiles of the users linked to its sides.
type StatSyncService interface {
	// SyncMatch reports whether at least one new stat entry was written.
	// Re-running it for a synced match writes nothing.
	SyncMatch(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) (bool, error)
}

type statSyncService struct {
	inningsRepo     repositories.InningsRepository
	ledgerRepo      repositories.LedgerRepository
	performanceRepo repositories.PerformanceRepository
	logger          *slog.Logger
	now             func() time.Time
}

func NewStatSyncService(
	inningsRepo repositories.InningsRepository,
	ledgerRepo repositories.LedgerRepository,
	performanceRepo repositories.PerformanceRepository,
	logger *slog.Logger,
) StatSyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &statSyncService{
		inningsRepo:     inningsRepo,
		ledgerRepo:      ledgerRepo,
		performanceRepo: performanceRepo,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *statSyncService) SyncMatch(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) (bool, error) {
	if !match.Completed {
		return false, nil
	}

	var cards []*models.InningsScorecard
	synced := false
	for _, team := range []string{match.TeamA, match.TeamB} {
		playerID := match.PlayerIDForTeam(team)
		if playerID == nil || team == "" {
			continue
		}

		profile, err := s.performanceRepo.GetProfileByUserAndSport(ctx, exec, *playerID, match.Sport)
		if err != nil {
			if errors.Is(err, repositories.ErrProfileNotFound) {
				continue
			}
			return false, fmt.Errorf("stat sync: %w", err)
		}

		exists, err := s.performanceRepo.StatEntryExists(ctx, exec, match.ID, profile.ID)
		if err != nil {
			return false, fmt.Errorf("stat sync: %w", err)
		}
		if exists {
			s.logger.DebugContext(ctx, "stat entry already present, skipping",
				slog.Int("match_id", match.ID), slog.Int("profile_id", profile.ID))
			continue
		}

		if cards == nil {
			if cards, err = s.loadCards(ctx, exec, match.ID); err != nil {
				return false, err
			}
		}

		perf := scoring.AggregateTeam(team, cards)
		perf.Won = match.WinnerName != nil && *match.WinnerName == team
		metrics := perf.Metrics()

		entry := &models.StatEntry{
			MatchID:   match.ID,
			ProfileID: profile.ID,
			TeamName:  team,
			Metrics:   metrics,
		}
		if err := s.performanceRepo.CreateStatEntry(ctx, exec, entry); err != nil {
			if errors.Is(err, repositories.ErrStatEntryAlreadyExists) {
				continue
			}
			return false, fmt.Errorf("stat sync: %w", err)
		}
		synced = true

		if err := s.advanceGoals(ctx, exec, profile.ID, metrics); err != nil {
			return false, err
		}
	}
	return synced, nil
}

func (s *statSyncService) advanceGoals(ctx context.Context, exec repositories.SQLExecutor, profileID int, metrics map[string]float64) error {
	goals, err := s.performanceRepo.ListOpenGoals(ctx, exec, profileID)
	if err != nil {
		return fmt.Errorf("stat sync: %w", err)
	}
	for _, goal := range goals {
		value, tracked := metrics[goal.MetricKey]
		if !tracked {
			continue
		}
		if scoring.ApplyGoal(goal, value) {
			at := s.now().UTC()
			goal.CompletedAt = &at
			s.logger.InfoContext(ctx, "goal completed",
				slog.Int("goal_id", goal.ID), slog.String("metric", goal.MetricKey))
		}
		if err := s.performanceRepo.UpdateGoal(ctx, exec, goal); err != nil {
			return fmt.Errorf("stat sync: %w", err)
		}
	}
	return nil
}

func (s *statSyncService) loadCards(ctx context.Context, exec repositories.SQLExecutor, matchID int) ([]*models.InningsScorecard, error) {
	innings, err := s.inningsRepo.ListByMatch(ctx, exec, matchID)
	if err != nil {
		return nil, fmt.Errorf("stat sync: %w", err)
	}
	cards := make([]*models.InningsScorecard, 0, len(innings))
	for _, inn := range innings {
		batting, err := s.ledgerRepo.ListBatting(ctx, exec, inn.ID)
		if err != nil {
			return nil, fmt.Errorf("stat sync: %w", err)
		}
		bowling, err := s.ledgerRepo.ListBowling(ctx, exec, inn.ID)
		if err != nil {
			return nil, fmt.Errorf("stat sync: %w", err)
		}
		cards = append(cards, &models.InningsScorecard{Innings: inn, Batting: batting, Bowling: bowling})
	}
	return cards, nil
}
