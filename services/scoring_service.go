package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/cricket-scorer/models"
	"github.com/Dosada05/cricket-scorer/repositories"
	"github.com/Dosada05/cricket-scorer/scoring"
	"github.com/Dosada05/cricket-scorer/storage"
)

// RecordDeliveryInput is one ball as submitted by the scorer.
type RecordDeliveryInput struct {
	BatsmanName    string `json:"batsman_name"`
	BatsmanID      *int   `json:"batsman_id,omitempty"`
	BowlerName     string `json:"bowler_name"`
	BowlerID       *int   `json:"bowler_id,omitempty"`
	RunsScored     int    `json:"runs_scored"`
	ExtraType      string `json:"extra_type,omitempty"`
	ExtraRuns      *int   `json:"extra_runs,omitempty"`
	IsWicket       bool   `json:"is_wicket"`
	DismissalType  string `json:"dismissal_type,omitempty"`
	FielderName    string `json:"fielder_name,omitempty"`
	NewBatsmanName string `json:"new_batsman_name,omitempty"`
	NewBatsmanID   *int   `json:"new_batsman_id,omitempty"`
}

func (in RecordDeliveryInput) delivery() scoring.Delivery {
	return scoring.Delivery{
		BatsmanName:   in.BatsmanName,
		BowlerName:    in.BowlerName,
		RunsScored:    in.RunsScored,
		ExtraType:     in.ExtraType,
		ExtraRuns:     in.ExtraRuns,
		IsWicket:      in.IsWicket,
		DismissalType: in.DismissalType,
		FielderName:   in.FielderName,
	}
}

type DeliveryResult struct {
	BallEvent        *models.BallEvent       `json:"ball_event"`
	Innings          *models.Innings         `json:"innings"`
	InningsComplete  bool                    `json:"innings_complete"`
	CompletionReason string                  `json:"completion_reason,omitempty"`
	MatchState       models.MatchState       `json:"match_state"`
	MatchCompleted   bool                    `json:"match_completed"`
	Outcome          string                  `json:"outcome,omitempty"`
	Winner           *string                 `json:"winner,omitempty"`
	NextMatchID      *int                    `json:"next_match_id,omitempty"`
	TournamentStatus models.TournamentStatus `json:"tournament_status,omitempty"`
	StatsSynced      bool                    `json:"stats_synced"`
}

type LineupPlayer struct {
	Name     string `json:"name"`
	PlayerID *int   `json:"player_id,omitempty"`
}

// StartInningsInput opens the next innings. BattingTeam is only honoured for
// innings 1; innings 2 is always batted by the side that bowled first.
type StartInningsInput struct {
	BattingTeam   string         `json:"batting_team"`
	Openers       []LineupPlayer `json:"openers"`
	OpeningBowler *LineupPlayer  `json:"opening_bowler,omitempty"`
}

// ScorecardArchiver is implemented by *storage.ScorecardArchive.
type ScorecardArchiver interface {
	Archive(ctx context.Context, card *models.Scorecard) (*storage.UploadResult, error)
}

type ScoringService interface {
	StartInnings(ctx context.Context, actor Actor, matchID int, input StartInningsInput) (*models.Innings, error)
	RecordDelivery(ctx context.Context, actor Actor, matchID int, input RecordDeliveryInput) (*DeliveryResult, error)
}

type scoringService struct {
	tx             repositories.Transactor
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	inningsRepo    repositories.InningsRepository
	ledgerRepo     repositories.LedgerRepository
	ballRepo       repositories.BallEventRepository
	statSync       StatSyncService
	advancer       *bracketAdvancer
	scorecards     ScorecardService
	archive        ScorecardArchiver
	notifier       *LiveNotifier
	logger         *slog.Logger
}

func NewScoringService(
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	inningsRepo repositories.InningsRepository,
	ledgerRepo repositories.LedgerRepository,
	ballRepo repositories.BallEventRepository,
	statSync StatSyncService,
	scorecards ScorecardService,
	archive ScorecardArchiver,
	notifier *LiveNotifier,
	logger *slog.Logger,
) ScoringService {
	if logger == nil {
		logger = slog.Default()
	}
	return &scoringService{
		tx:             tx,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		inningsRepo:    inningsRepo,
		ledgerRepo:     ledgerRepo,
		ballRepo:       ballRepo,
		statSync:       statSync,
		advancer:       &bracketAdvancer{matchRepo: matchRepo, tournamentRepo: tournamentRepo},
		scorecards:     scorecards,
		archive:        archive,
		notifier:       notifier,
		logger:         logger,
	}
}

// lockScorableMatch takes the match row lock and runs the checks every
// scoring write shares.
func (s *scoringService) lockScorableMatch(ctx context.Context, exec repositories.SQLExecutor, actor Actor, matchID int) (*models.Match, *models.Tournament, error) {
	match, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
	if err != nil {
		return nil, nil, handleRepositoryError(err)
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, exec, match.TournamentID)
	if err != nil {
		return nil, nil, handleRepositoryError(err)
	}
	if err := authorizeScorer(actor, tournament, match); err != nil {
		return nil, nil, err
	}
	if match.Sport != models.SportCricket {
		return nil, nil, ErrWrongSport
	}
	if match.Completed || match.State == models.MatchStateComplete {
		return nil, nil, ErrMatchCompleted
	}
	return match, tournament, nil
}

func rulesOf(m *models.Match) (scoring.Rules, error) {
	rules := scoring.Rules{MaxOvers: m.MaxOvers, PlayersPerSide: m.PlayersPerSide}
	if rules.MaxOvers < 1 || rules.PlayersPerSide < 2 {
		return rules, ErrInvalidRules
	}
	return rules, nil
}

func (s *scoringService) StartInnings(ctx context.Context, actor Actor, matchID int, input StartInningsInput) (*models.Innings, error) {
	var innings *models.Innings
	var tournamentID int

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, tournament, err := s.lockScorableMatch(ctx, exec, actor, matchID)
		if err != nil {
			return err
		}
		tournamentID = tournament.ID
		if strings.TrimSpace(match.TeamA) == "" || strings.TrimSpace(match.TeamB) == "" {
			return ErrMatchSidesPending
		}
		if _, err := rulesOf(match); err != nil {
			return err
		}

		next, err := scoring.Transition(match.State, scoring.EventStartInnings)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInningsOrder, err)
		}
		number := scoring.ActiveInningsNumber(next)

		battingTeam := strings.TrimSpace(input.BattingTeam)
		switch number {
		case 1:
			if battingTeam == "" {
				battingTeam = match.TeamA
			}
			if battingTeam != match.TeamA && battingTeam != match.TeamB {
				return fmt.Errorf("%w: %q", ErrTeamNotInMatch, battingTeam)
			}
		case 2:
			existing, err := s.inningsRepo.ListByMatch(ctx, exec, match.ID)
			if err != nil {
				return err
			}
			first := findInnings(existing, 1)
			if first == nil || !first.IsComplete {
				return ErrInningsOrder
			}
			if battingTeam != "" && battingTeam != first.BowlingTeam {
				return fmt.Errorf("%w: innings 2 must be batted by %q", ErrValidationFailed, first.BowlingTeam)
			}
			battingTeam = first.BowlingTeam
		}

		innings = &models.Innings{
			MatchID:       match.ID,
			InningsNumber: number,
			BattingTeam:   battingTeam,
			BowlingTeam:   match.Opponent(battingTeam),
		}
		if err := s.inningsRepo.Create(ctx, exec, innings); err != nil {
			return handleRepositoryError(err)
		}

		if len(input.Openers) > 2 {
			return fmt.Errorf("%w: at most two openers", ErrValidationFailed)
		}
		for i, opener := range input.Openers {
			name := strings.TrimSpace(opener.Name)
			if name == "" {
				return fmt.Errorf("%w: opener name is required", ErrValidationFailed)
			}
			if _, err := s.ensureBatter(ctx, exec, innings.ID, name, opener.PlayerID, i+1); err != nil {
				return err
			}
		}
		if input.OpeningBowler != nil {
			name := strings.TrimSpace(input.OpeningBowler.Name)
			if name == "" {
				return fmt.Errorf("%w: bowler name is required", ErrValidationFailed)
			}
			if _, err := s.ensureBowler(ctx, exec, innings.ID, name, input.OpeningBowler.PlayerID); err != nil {
				return err
			}
		}

		match.State = next
		match.ActiveInningsID = intPtr(innings.ID)
		return s.matchRepo.UpdateProgress(ctx, exec, match)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "innings started",
		slog.Int("match_id", matchID), slog.Int("innings", innings.InningsNumber), slog.String("batting_team", innings.BattingTeam))
	s.notifier.Notify(ctx, models.EventInningsStarted, matchID, tournamentID, innings)
	return innings, nil
}

func (s *scoringService) RecordDelivery(ctx context.Context, actor Actor, matchID int, input RecordDeliveryInput) (*DeliveryResult, error) {
	classified, err := scoring.Classify(input.delivery())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	// A replacement is only taken on a wicket, RETIRED included.
	newBatsman := ""
	if classified.IsWicket {
		newBatsman = strings.TrimSpace(input.NewBatsmanName)
	}

	var (
		result     *DeliveryResult
		match      *models.Match
		tournament *models.Tournament
	)
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		result = nil
		var err error
		match, tournament, err = s.lockScorableMatch(ctx, exec, actor, matchID)
		if err != nil {
			return err
		}
		rules, err := rulesOf(match)
		if err != nil {
			return err
		}
		if scoring.ActiveInningsNumber(match.State) == 0 || match.ActiveInningsID == nil {
			return ErrNoActiveInnings
		}
		inn, err := s.inningsRepo.GetByID(ctx, exec, *match.ActiveInningsID)
		if err != nil {
			return handleRepositoryError(err)
		}
		if inn.IsComplete || inn.MatchID != match.ID {
			return ErrNoActiveInnings
		}

		// Counters are derived under the match row lock.
		legalBefore := scoring.LegalBallCount(inn.TotalOvers)
		overNumber, ballNumber := scoring.OverAndBall(legalBefore, classified.Legal)
		recorded, err := s.ballRepo.CountByInnings(ctx, exec, inn.ID)
		if err != nil {
			return err
		}

		batter, err := s.ensureBatter(ctx, exec, inn.ID, classified.Batsman, input.BatsmanID, 0)
		if err != nil {
			return err
		}
		bowler, err := s.ensureBowler(ctx, exec, inn.ID, classified.Bowler, input.BowlerID)
		if err != nil {
			return err
		}

		scoring.ApplyBatting(batter, classified)
		scoring.ApplyBowling(bowler, classified)
		scoring.ApplyInnings(inn, classified)

		event := &models.BallEvent{
			InningsID:     inn.ID,
			Sequence:      recorded + 1,
			OverNumber:    overNumber,
			BallNumber:    ballNumber,
			BatsmanName:   classified.Batsman,
			BatsmanID:     input.BatsmanID,
			BowlerName:    classified.Bowler,
			BowlerID:      input.BowlerID,
			RunsScored:    classified.BatterRuns,
			ExtraType:     stringPtr(string(classified.Extra)),
			ExtraRuns:     classified.ExtraRuns,
			IsWicket:      classified.IsWicket,
			DismissalType: stringPtr(string(classified.Dismissal)),
			FielderName:   stringPtr(classified.Fielder),
			Commentary:    scoring.Commentary(overNumber, ballNumber, classified),
		}
		if err := s.ballRepo.Create(ctx, exec, event); err != nil {
			return err
		}
		if err := s.ledgerRepo.UpdateBatting(ctx, exec, batter); err != nil {
			return err
		}
		if err := s.ledgerRepo.UpdateBowling(ctx, exec, bowler); err != nil {
			return err
		}
		if newBatsman != "" {
			if _, err := s.ensureBatter(ctx, exec, inn.ID, newBatsman, input.NewBatsmanID, 0); err != nil {
				return err
			}
		}

		var first *models.Innings
		var target *int
		if inn.InningsNumber == 2 {
			all, err := s.inningsRepo.ListByMatch(ctx, exec, match.ID)
			if err != nil {
				return err
			}
			if first = findInnings(all, 1); first == nil {
				return fmt.Errorf("%w: innings 1 missing for match %d", ErrInningsOrder, match.ID)
			}
			target = intPtr(first.TotalRuns)
		}

		complete, reason := scoring.CheckCompletion(inn, rules, target)
		if complete {
			inn.IsComplete = true
			inn.CompletionReason = stringPtr(string(reason))
		}
		if err := s.inningsRepo.UpdateTotals(ctx, exec, inn); err != nil {
			return err
		}

		result = &DeliveryResult{
			BallEvent:        event,
			Innings:          inn,
			InningsComplete:  complete,
			CompletionReason: string(reason),
			MatchState:       match.State,
			TournamentStatus: tournament.Status,
		}
		if !complete {
			return nil
		}

		next, err := scoring.Transition(match.State, scoring.EventInningsComplete)
		if err != nil {
			return err
		}
		match.State = next
		match.ActiveInningsID = nil
		result.MatchState = next

		if next != models.MatchStateComplete {
			return s.matchRepo.UpdateProgress(ctx, exec, match)
		}

		done, err := s.completeMatch(ctx, exec, tournament, match, first, inn)
		if err != nil {
			return err
		}
		result.MatchCompleted = true
		result.Outcome = string(done.Result.Outcome)
		result.Winner = match.WinnerName
		result.StatsSynced = done.StatsSynced
		result.TournamentStatus = tournament.Status
		if done.Advancement != nil {
			result.NextMatchID = done.Advancement.NextMatchID
		}
		return nil
	})
	if err != nil {
		if !isClientError(err) {
			s.logger.ErrorContext(ctx, "record delivery failed", slog.Int("match_id", matchID), slog.Any("error", err))
		}
		return nil, err
	}

	s.afterDelivery(ctx, match, result)
	return result, nil
}

// afterDelivery runs the best-effort fan-out of a committed delivery.
func (s *scoringService) afterDelivery(ctx context.Context, match *models.Match, result *DeliveryResult) {
	s.notifier.Notify(ctx, models.EventDeliveryRecorded, match.ID, match.TournamentID, result)
	if result.InningsComplete {
		s.logger.InfoContext(ctx, "innings completed",
			slog.Int("match_id", match.ID),
			slog.Int("innings", result.Innings.InningsNumber),
			slog.String("reason", result.CompletionReason))
		s.notifier.Notify(ctx, models.EventInningsCompleted, match.ID, match.TournamentID, result.Innings)
	}
	if !result.MatchCompleted {
		return
	}

	s.logger.InfoContext(ctx, "match completed",
		slog.Int("match_id", match.ID),
		slog.String("outcome", result.Outcome),
		slog.String("winner", derefString(result.Winner)))
	s.notifier.Notify(ctx, models.EventMatchCompleted, match.ID, match.TournamentID, match)
	if result.NextMatchID != nil || result.TournamentStatus == models.StatusCompleted {
		s.notifier.Notify(ctx, models.EventBracketUpdated, 0, match.TournamentID, result)
	}

	if s.archive == nil || s.scorecards == nil {
		return
	}
	card, err := s.scorecards.GetScorecard(ctx, match.ID, true)
	if err != nil {
		s.logger.WarnContext(ctx, "scorecard load for archive failed", slog.Int("match_id", match.ID), slog.Any("error", err))
		return
	}
	uploaded, err := s.archive.Archive(ctx, card)
	if err != nil {
		s.logger.WarnContext(ctx, "scorecard archive failed", slog.Int("match_id", match.ID), slog.Any("error", err))
		return
	}
	s.logger.InfoContext(ctx, "scorecard archived", slog.Int("match_id", match.ID), slog.String("location", uploaded.Location))
}

// ensureBatter returns the batting entry for name, creating it at the next
// batting position when order is 0. A name is never entered twice.
func (s *scoringService) ensureBatter(ctx context.Context, exec repositories.SQLExecutor, inningsID int, name string, playerID *int, order int) (*models.BattingEntry, error) {
	entry, err := s.ledgerRepo.GetBattingByName(ctx, exec, inningsID, name)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, repositories.ErrBattingEntryNotFound) {
		return nil, err
	}
	if order == 0 {
		existing, err := s.ledgerRepo.ListBatting(ctx, exec, inningsID)
		if err != nil {
			return nil, err
		}
		order = len(existing) + 1
	}
	entry = scoring.NewBattingEntry(inningsID, name, playerID, order)
	if err := s.ledgerRepo.CreateBatting(ctx, exec, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *scoringService) ensureBowler(ctx context.Context, exec repositories.SQLExecutor, inningsID int, name string, playerID *int) (*models.BowlingEntry, error) {
	entry, err := s.ledgerRepo.GetBowlingByName(ctx, exec, inningsID, name)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, repositories.ErrBowlingEntryNotFound) {
		return nil, err
	}
	entry = scoring.NewBowlingEntry(inningsID, name, playerID)
	if err := s.ledgerRepo.CreateBowling(ctx, exec, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func findInnings(list []*models.Innings, number int) *models.Innings {
	for _, inn := range list {
		if inn.InningsNumber == number {
			return inn
		}
	}
	return nil
}

// isClientError reports errors caused by the request rather than the system.
func isClientError(err error) bool {
	for _, target := range []error{
		ErrValidationFailed, ErrInvalidRules, ErrTeamNotInMatch,
		ErrMatchNotFound, ErrTournamentNotFound, ErrMatchCompleted, ErrWrongSport,
		ErrNoActiveInnings, ErrInningsOrder, ErrMatchSidesPending, ErrMatchNotTied,
		ErrBracketExists, ErrForbiddenOperation, ErrAuthenticationFailed,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
