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
	ErrInningsNotFound  = errors.New("innings not found")
	ErrInningsDuplicate = errors.New("innings with this number already exists for the match")
)

type InningsRepository interface {
	Create(ctx context.Context, exec SQLExecutor, innings *models.Innings) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Innings, error)
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Innings, error)
	UpdateTotals(ctx context.Context, exec SQLExecutor, innings *models.Innings) error
}

type postgresInningsRepository struct {
	db *sql.DB
}

func NewPostgresInningsRepository(db *sql.DB) InningsRepository {
	return &postgresInningsRepository{db: db}
}

const inningsColumns = `
	id, match_id, innings_number, batting_team, bowling_team, total_runs, total_wickets,
	total_overs, extras, is_complete, completion_reason, created_at`

func scanInnings(s scanner) (*models.Innings, error) {
	inn := &models.Innings{}
	err := s.Scan(
		&inn.ID, &inn.MatchID, &inn.InningsNumber, &inn.BattingTeam, &inn.BowlingTeam, &inn.TotalRuns, &inn.TotalWickets,
		&inn.TotalOvers, &inn.Extras, &inn.IsComplete, &inn.CompletionReason, &inn.CreatedAt,
	)
	return inn, err
}

func (r *postgresInningsRepository) Create(ctx context.Context, exec SQLExecutor, inn *models.Innings) error {
	query := `
		INSERT INTO innings (match_id, innings_number, batting_team, bowling_team)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query,
		inn.MatchID, inn.InningsNumber, inn.BattingTeam, inn.BowlingTeam,
	).Scan(&inn.ID, &inn.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrInningsDuplicate
		}
		return fmt.Errorf("failed to create innings for match %d: %w", inn.MatchID, err)
	}
	return nil
}

func (r *postgresInningsRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Innings, error) {
	query := `SELECT ` + inningsColumns + ` FROM innings WHERE id = $1`
	inn, err := scanInnings(getExecutor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInningsNotFound
		}
		return nil, fmt.Errorf("failed to scan innings by id %d: %w", id, err)
	}
	return inn, nil
}

func (r *postgresInningsRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Innings, error) {
	query := `SELECT ` + inningsColumns + ` FROM innings WHERE match_id = $1 ORDER BY innings_number ASC`
	rows, err := getExecutor(r.db, exec).QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query innings for match %d: %w", matchID, err)
	}
	defer rows.Close()

	list := make([]*models.Innings, 0, 2)
	for rows.Next() {
		inn, scanErr := scanInnings(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan innings row: %w", scanErr)
		}
		list = append(list, inn)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during innings rows iteration: %w", err)
	}
	return list, nil
}

func (r *postgresInningsRepository) UpdateTotals(ctx context.Context, exec SQLExecutor, inn *models.Innings) error {
	query := `
		UPDATE innings
		SET total_runs = $1, total_wickets = $2, total_overs = $3, extras = $4,
		    is_complete = $5, completion_reason = $6
		WHERE id = $7`
	result, err := getExecutor(r.db, exec).ExecContext(ctx, query,
		inn.TotalRuns, inn.TotalWickets, inn.TotalOvers, inn.Extras, inn.IsComplete, inn.CompletionReason, inn.ID)
	if err != nil {
		return fmt.Errorf("UpdateTotals: failed to execute query for innings %d: %w", inn.ID, err)
	}
	return checkAffectedRows(result, ErrInningsNotFound)
}
