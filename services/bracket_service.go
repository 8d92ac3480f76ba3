package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/cricket-scorer/brackets"
	"github.com/Dosada05/cricket-scorer/models"
	"github.com/Dosada05/cricket-scorer/repositories"
)

type GenerateBracketInput struct {
	Entries []brackets.Entry `json:"entries"`
	// LinkByNickname links entries without a player id to the user whose
	// nickname equals the entry name.
	LinkByNickname bool `json:"link_by_nickname"`
}

type TieResolution struct {
	Match       *models.Match `json:"match"`
	Advancement *Advancement  `json:"advancement"`
}

type BracketService interface {
	GenerateBracket(ctx context.Context, actor Actor, tournamentID int, input GenerateBracketInput) ([]*models.Match, error)
	ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error)
	ResolveTie(ctx context.Context, actor Actor, matchID int, winner string) (*TieResolution, error)
}

type bracketService struct {
	tx             repositories.Transactor
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	userRepo       repositories.UserRepository
	generator      brackets.BracketGenerator
	advancer       *bracketAdvancer
	notifier       *LiveNotifier
	logger         *slog.Logger
}

func NewBracketService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	notifier *LiveNotifier,
	logger *slog.Logger,
) BracketService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bracketService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		userRepo:       userRepo,
		generator:      brackets.NewSingleEliminationGenerator(),
		advancer:       &bracketAdvancer{matchRepo: matchRepo, tournamentRepo: tournamentRepo},
		notifier:       notifier,
		logger:         logger,
	}
}

func (s *bracketService) GenerateBracket(ctx context.Context, actor Actor, tournamentID int, input GenerateBracketInput) ([]*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if err := authorizeOrganizer(actor, tournament); err != nil {
		return nil, err
	}
	if tournament.TotalRounds > 0 || tournament.Status == models.StatusActive || tournament.Status == models.StatusCompleted {
		return nil, ErrBracketExists
	}
	if tournament.Status == models.StatusCanceled {
		return nil, fmt.Errorf("%w: tournament is canceled", ErrValidationFailed)
	}
	if tournament.Sport != models.SportCricket {
		return nil, ErrWrongSport
	}
	if tournament.MaxOvers < 1 || tournament.PlayersPerSide < 2 {
		return nil, ErrInvalidRules
	}

	entries := make([]brackets.Entry, len(input.Entries))
	for i, e := range input.Entries {
		entries[i] = brackets.Entry{Name: strings.TrimSpace(e.Name), PlayerID: e.PlayerID}
	}
	if input.LinkByNickname {
		s.linkByNickname(ctx, entries)
	}

	layout, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Tournament: tournament,
		Entries:    entries,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	totalRounds := brackets.TotalRounds(len(entries))

	created := make([]*models.Match, 0, len(layout))
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		created = created[:0]
		// Creation order is slot order within a round.
		for _, bm := range layout {
			m := newBracketMatch(tournament, bm)
			if err := s.matchRepo.Create(ctx, exec, m); err != nil {
				return fmt.Errorf("failed to create match %s: %w", bm.UID, err)
			}
			created = append(created, m)
		}
		return s.tournamentRepo.StartBracket(ctx, exec, tournament.ID, totalRounds)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.InfoContext(ctx, "bracket generated",
		slog.Int("tournament_id", tournament.ID),
		slog.Int("entries", len(entries)),
		slog.Int("rounds", totalRounds),
		slog.Int("matches", len(created)))
	s.notifier.Notify(ctx, models.EventBracketUpdated, 0, tournament.ID, created)
	return created, nil
}

func newBracketMatch(t *models.Tournament, bm *brackets.BracketMatch) *models.Match {
	m := &models.Match{
		TournamentID:   t.ID,
		Round:          bm.Round,
		Sport:          t.Sport,
		MaxOvers:       t.MaxOvers,
		PlayersPerSide: t.PlayersPerSide,
		State:          models.MatchStateNotStarted,
	}
	if bm.TeamA != nil {
		m.TeamA, m.PlayerAID = bm.TeamA.Name, bm.TeamA.PlayerID
	}
	if bm.TeamB != nil {
		m.TeamB, m.PlayerBID = bm.TeamB.Name, bm.TeamB.PlayerID
	}
	if w := bm.ByeWinner(); w != nil {
		walkover := models.MatchResultWalkover
		m.State = models.MatchStateComplete
		m.Completed = true
		m.WinnerName = &w.Name
		m.Result = &walkover
	}
	return m
}

// linkByNickname is the compatibility path for entries that name a user
// instead of carrying an explicit id.
func (s *bracketService) linkByNickname(ctx context.Context, entries []brackets.Entry) {
	if s.userRepo == nil {
		return
	}
	for i := range entries {
		if entries[i].PlayerID != nil || entries[i].Name == "" {
			continue
		}
		user, err := s.userRepo.GetByNickname(ctx, entries[i].Name)
		if err != nil {
			if !errors.Is(err, repositories.ErrUserNotFound) {
				s.logger.WarnContext(ctx, "nickname lookup failed", slog.String("name", entries[i].Name), slog.Any("error", err))
			}
			continue
		}
		entries[i].PlayerID = intPtr(user.ID)
	}
}

func (s *bracketService) ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

func (s *bracketService) ResolveTie(ctx context.Context, actor Actor, matchID int, winner string) (*TieResolution, error) {
	winner = strings.TrimSpace(winner)
	if winner == "" {
		return nil, fmt.Errorf("%w: winner is required", ErrValidationFailed)
	}

	var resolution *TieResolution
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
		if err != nil {
			return handleRepositoryError(err)
		}
		tournament, err := s.tournamentRepo.GetByID(ctx, exec, match.TournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if err := authorizeOrganizer(actor, tournament); err != nil {
			return err
		}
		if !match.Completed || match.Result == nil || *match.Result != models.MatchResultTie || match.WinnerName != nil {
			return ErrMatchNotTied
		}
		if winner != match.TeamA && winner != match.TeamB {
			return fmt.Errorf("%w: %q", ErrTeamNotInMatch, winner)
		}

		match.WinnerName = &winner
		if err := s.matchRepo.UpdateResult(ctx, exec, match); err != nil {
			return err
		}
		adv, err := s.advancer.advance(ctx, exec, tournament, match, winner)
		if err != nil {
			return err
		}
		resolution = &TieResolution{Match: match, Advancement: adv}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tie resolved", slog.Int("match_id", matchID), slog.String("winner", winner))
	s.notifier.Notify(ctx, models.EventBracketUpdated, matchID, resolution.Match.TournamentID, resolution)
	return resolution, nil
}
