package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/cricket-scorer/brackets"
	"github.com/Dosada05/cricket-scorer/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchInvalidSide       = errors.New("invalid match side")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	// GetByIDForUpdate locks the match row until the surrounding transaction
	// ends; concurrent scorers of one match serialize here.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, round *int) ([]*models.Match, error)
	UpdateProgress(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	AssignSide(ctx context.Context, exec SQLExecutor, matchID int, side brackets.Side, team string, playerID *int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `
	id, tournament_id, round, sport, team_a, team_b, player_a_id, player_b_id, scorer_id,
	max_overs, players_per_side, state, active_innings_id, completed, score_a, score_b,
	winner_name, result, created_at`

func scanMatch(s scanner) (*models.Match, error) {
	m := &models.Match{}
	err := s.Scan(
		&m.ID, &m.TournamentID, &m.Round, &m.Sport, &m.TeamA, &m.TeamB, &m.PlayerAID, &m.PlayerBID, &m.ScorerID,
		&m.MaxOvers, &m.PlayersPerSide, &m.State, &m.ActiveInningsID, &m.Completed, &m.ScoreA, &m.ScoreB,
		&m.WinnerName, &m.Result, &m.CreatedAt,
	)
	return m, err
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, round, sport, team_a, team_b, player_a_id, player_b_id, scorer_id,
			 max_overs, players_per_side, state, completed, score_a, score_b, winner_name, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query,
		m.TournamentID, m.Round, m.Sport, m.TeamA, m.TeamB, m.PlayerAID, m.PlayerBID, m.ScorerID,
		m.MaxOvers, m.PlayersPerSide, m.State, m.Completed, m.ScoreA, m.ScoreB, m.WinnerName, m.Result,
	).Scan(&m.ID, &m.CreatedAt)
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	return r.get(ctx, exec, id, "")
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	return r.get(ctx, exec, id, " FOR UPDATE")
}

func (r *postgresMatchRepository) get(ctx context.Context, exec SQLExecutor, id int, lock string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1` + lock
	m, err := scanMatch(getExecutor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, round *int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if round != nil {
		query += ` AND round = $2`
		args = append(args, *round)
	}
	// id order is creation order, which is slot order within a round.
	query += ` ORDER BY round ASC, id ASC`

	rows, err := getExecutor(r.db, exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateProgress(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `UPDATE matches SET state = $1, active_innings_id = $2 WHERE id = $3`
	result, err := getExecutor(r.db, exec).ExecContext(ctx, query, m.State, m.ActiveInningsID, m.ID)
	if err != nil {
		return fmt.Errorf("UpdateProgress: failed to execute query for match %d: %w", m.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches
		SET state = $1, active_innings_id = $2, completed = $3, score_a = $4, score_b = $5,
		    winner_name = $6, result = $7
		WHERE id = $8`
	result, err := getExecutor(r.db, exec).ExecContext(ctx, query,
		m.State, m.ActiveInningsID, m.Completed, m.ScoreA, m.ScoreB, m.WinnerName, m.Result, m.ID)
	if err != nil {
		return fmt.Errorf("UpdateResult: failed to execute query for match %d: %w", m.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) AssignSide(ctx context.Context, exec SQLExecutor, matchID int, side brackets.Side, team string, playerID *int) error {
	var query string
	switch side {
	case brackets.SideA:
		query = `UPDATE matches SET team_a = $1, player_a_id = $2 WHERE id = $3 AND NOT completed`
	case brackets.SideB:
		query = `UPDATE matches SET team_b = $1, player_b_id = $2 WHERE id = $3 AND NOT completed`
	default:
		return fmt.Errorf("%w: %q", ErrMatchInvalidSide, side)
	}
	result, err := getExecutor(r.db, exec).ExecContext(ctx, query, team, playerID, matchID)
	if err != nil {
		return fmt.Errorf("AssignSide: failed to execute query for match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Constraint == "matches_tournament_id_fkey" {
		return ErrMatchTournamentInvalid
	}
	return err
}
