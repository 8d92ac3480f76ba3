package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/cricket-scorer/models"
)

// BallEventRepository is append-only: events are never updated or deleted.
type BallEventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.BallEvent) error
	CountByInnings(ctx context.Context, exec SQLExecutor, inningsID int) (int, error)
	ListByInnings(ctx context.Context, exec SQLExecutor, inningsID int) ([]*models.BallEvent, error)
}

type postgresBallEventRepository struct {
	db *sql.DB
}

func NewPostgresBallEventRepository(db *sql.DB) BallEventRepository {
	return &postgresBallEventRepository{db: db}
}

func (r *postgresBallEventRepository) Create(ctx context.Context, exec SQLExecutor, ev *models.BallEvent) error {
	query := `
		INSERT INTO ball_events
			(innings_id, sequence, over_number, ball_number, batsman_name, batsman_id, bowler_name, bowler_id,
			 runs_scored, extra_type, extra_runs, is_wicket, dismissal_type, fielder_name, commentary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query,
		ev.InningsID, ev.Sequence, ev.OverNumber, ev.BallNumber, ev.BatsmanName, ev.BatsmanID, ev.BowlerName, ev.BowlerID,
		ev.RunsScored, ev.ExtraType, ev.ExtraRuns, ev.IsWicket, ev.DismissalType, ev.FielderName, ev.Commentary,
	).Scan(&ev.ID, &ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ball event for innings %d: %w", ev.InningsID, err)
	}
	return nil
}

func (r *postgresBallEventRepository) CountByInnings(ctx context.Context, exec SQLExecutor, inningsID int) (int, error) {
	var n int
	err := getExecutor(r.db, exec).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ball_events WHERE innings_id = $1`, inningsID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count ball events for innings %d: %w", inningsID, err)
	}
	return n, nil
}

func (r *postgresBallEventRepository) ListByInnings(ctx context.Context, exec SQLExecutor, inningsID int) ([]*models.BallEvent, error) {
	query := `
		SELECT id, innings_id, sequence, over_number, ball_number, batsman_name, batsman_id, bowler_name, bowler_id,
		       runs_scored, extra_type, extra_runs, is_wicket, dismissal_type, fielder_name, commentary, created_at
		FROM ball_events
		WHERE innings_id = $1
		ORDER BY sequence ASC`
	rows, err := getExecutor(r.db, exec).QueryContext(ctx, query, inningsID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ball events for innings %d: %w", inningsID, err)
	}
	defer rows.Close()

	events := make([]*models.BallEvent, 0)
	for rows.Next() {
		ev := &models.BallEvent{}
		if err := rows.Scan(
			&ev.ID, &ev.InningsID, &ev.Sequence, &ev.OverNumber, &ev.BallNumber, &ev.BatsmanName, &ev.BatsmanID, &ev.BowlerName, &ev.BowlerID,
			&ev.RunsScored, &ev.ExtraType, &ev.ExtraRuns, &ev.IsWicket, &ev.DismissalType, &ev.FielderName, &ev.Commentary, &ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ball event row: %w", err)
		}
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during ball event rows iteration: %w", err)
	}
	return events, nil
}
