package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/cricket-scorer/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict for this organizer")
	ErrTournamentInvalidOrg   = errors.New("invalid organizer reference")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	// StartBracket records the bracket depth and moves the tournament to active.
	StartBracket(ctx context.Context, exec SQLExecutor, id int, totalRounds int) error
	Complete(ctx context.Context, exec SQLExecutor, id int, winnerName string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, sport, organizer_id, status, max_overs, players_per_side)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query,
		t.Name, t.Sport, t.OrganizerID, t.Status, t.MaxOvers, t.PlayersPerSide,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, sport, organizer_id, status, total_rounds, max_overs, players_per_side,
		       winner_name, created_at
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Sport, &t.OrganizerID, &t.Status, &t.TotalRounds, &t.MaxOvers, &t.PlayersPerSide,
		&t.WinnerName, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	query := `UPDATE tournaments SET status = $1 WHERE id = $2`
	result, err := getExecutor(r.db, exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("UpdateStatus: failed to execute query for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) StartBracket(ctx context.Context, exec SQLExecutor, id int, totalRounds int) error {
	query := `UPDATE tournaments SET total_rounds = $1, status = $2 WHERE id = $3`
	result, err := getExecutor(r.db, exec).ExecContext(ctx, query, totalRounds, models.StatusActive, id)
	if err != nil {
		return fmt.Errorf("StartBracket: failed to execute query for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Complete(ctx context.Context, exec SQLExecutor, id int, winnerName string) error {
	query := `UPDATE tournaments SET status = $1, winner_name = $2 WHERE id = $3`
	result, err := getExecutor(r.db, exec).ExecContext(ctx, query, models.StatusCompleted, winnerName, id)
	if err != nil {
		return fmt.Errorf("Complete: failed to execute query for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "tournaments_organizer_id_name_key" {
				return ErrTournamentNameConflict
			}
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "tournaments_organizer_id_fkey" {
				return ErrTournamentInvalidOrg
			}
		}
	}
	return err
}
