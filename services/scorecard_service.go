package services

import (
	"context"
	"fmt"
	"log"

	"github.com/Dosada05/cricket-scorer/models"
	"github.com/Dosada05/cricket-scorer/repositories"
	"golang.org/x/sync/errgroup"
)

type ScorecardService interface {
	GetScorecard(ctx context.Context, matchID int, withBalls bool) (*models.Scorecard, error)
}

type scorecardService struct {
	matchRepo   repositories.MatchRepository
	inningsRepo repositories.InningsRepository
	ledgerRepo  repositories.LedgerRepository
	ballRepo    repositories.BallEventRepository
}

func NewScorecardService(
	matchRepo repositories.MatchRepository,
	inningsRepo repositories.InningsRepository,
	ledgerRepo repositories.LedgerRepository,
	ballRepo repositories.BallEventRepository,
) ScorecardService {
	return &scorecardService{
		matchRepo:   matchRepo,
		inningsRepo: inningsRepo,
		ledgerRepo:  ledgerRepo,
		ballRepo:    ballRepo,
	}
}

func (s *scorecardService) GetScorecard(ctx context.Context, matchID int, withBalls bool) (*models.Scorecard, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	innings, err := s.inningsRepo.ListByMatch(ctx, nil, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list innings for match %d: %w", matchID, err)
	}

	cards := make([]*models.InningsScorecard, len(innings))
	g, gCtx := errgroup.WithContext(ctx)
	for i, inn := range innings {
		card := &models.InningsScorecard{Innings: inn}
		cards[i] = card
		inningsID := inn.ID

		g.Go(func() error {
			batting, err := s.ledgerRepo.ListBatting(gCtx, nil, inningsID)
			if err != nil {
				return fmt.Errorf("batting for innings %d: %w", inningsID, err)
			}
			card.Batting = batting
			return nil
		})
		g.Go(func() error {
			bowling, err := s.ledgerRepo.ListBowling(gCtx, nil, inningsID)
			if err != nil {
				return fmt.Errorf("bowling for innings %d: %w", inningsID, err)
			}
			card.Bowling = bowling
			return nil
		})
		if withBalls {
			g.Go(func() error {
				balls, err := s.ballRepo.ListByInnings(gCtx, nil, inningsID)
				if err != nil {
					return fmt.Errorf("ball events for innings %d: %w", inningsID, err)
				}
				card.Balls = balls
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		log.Printf("Error during parallel fetching in GetScorecard for match %d: %v", matchID, err)
		return nil, err
	}

	return &models.Scorecard{Match: match, Innings: cards}, nil
}
