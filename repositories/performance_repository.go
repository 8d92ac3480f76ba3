package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/cricket-scorer/models"
	"github.com/lib/pq"
)

var (
	ErrProfileNotFound        = errors.New("performance profile not found")
	ErrStatEntryAlreadyExists = errors.New("stat entry already exists for this match and profile")
	ErrGoalNotFound           = errors.New("goal not found")
)

type PerformanceRepository interface {
	GetProfileByUserAndSport(ctx context.Context, exec SQLExecutor, userID int, sport string) (*models.PerformanceProfile, error)
	StatEntryExists(ctx context.Context, exec SQLExecutor, matchID, profileID int) (bool, error)
	CreateStatEntry(ctx context.Context, exec SQLExecutor, entry *models.StatEntry) error
	ListOpenGoals(ctx context.Context, exec SQLExecutor, profileID int) ([]*models.Goal, error)
	UpdateGoal(ctx context.Context, exec SQLExecutor, goal *models.Goal) error
}

type postgresPerformanceRepository struct {
	db *sql.DB
}

func NewPostgresPerformanceRepository(db *sql.DB) PerformanceRepository {
	return &postgresPerformanceRepository{db: db}
}

func (r *postgresPerformanceRepository) GetProfileByUserAndSport(ctx context.Context, exec SQLExecutor, userID int, sport string) (*models.PerformanceProfile, error) {
	query := `
		SELECT id, user_id, sport, display_name, created_at
		FROM performance_profiles
		WHERE user_id = $1 AND sport = $2`

	p := &models.PerformanceProfile{}
	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, userID, sport).Scan(
		&p.ID, &p.UserID, &p.Sport, &p.DisplayName, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile for user %d: %w", userID, err)
	}
	return p, nil
}

func (r *postgresPerformanceRepository) StatEntryExists(ctx context.Context, exec SQLExecutor, matchID, profileID int) (bool, error) {
	var exists bool
	err := getExecutor(r.db, exec).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM stat_entries WHERE match_id = $1 AND profile_id = $2)`,
		matchID, profileID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check stat entry for match %d profile %d: %w", matchID, profileID, err)
	}
	return exists, nil
}

func (r *postgresPerformanceRepository) CreateStatEntry(ctx context.Context, exec SQLExecutor, e *models.StatEntry) error {
	metrics, err := json.Marshal(e.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}

	query := `
		INSERT INTO stat_entries (match_id, profile_id, team_name, metrics)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err = getExecutor(r.db, exec).QueryRowContext(ctx, query,
		e.MatchID, e.ProfileID, e.TeamName, metrics,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrStatEntryAlreadyExists
		}
		return fmt.Errorf("failed to insert stat entry: %w", err)
	}
	return nil
}

func (r *postgresPerformanceRepository) ListOpenGoals(ctx context.Context, exec SQLExecutor, profileID int) ([]*models.Goal, error) {
	query := `
		SELECT id, profile_id, metric_key, target, current, completed, completed_at
		FROM goals
		WHERE profile_id = $1 AND NOT completed
		ORDER BY id ASC`
	rows, err := getExecutor(r.db, exec).QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals for profile %d: %w", profileID, err)
	}
	defer rows.Close()

	goals := make([]*models.Goal, 0)
	for rows.Next() {
		g := &models.Goal{}
		var completedAt sql.NullTime
		if err := rows.Scan(&g.ID, &g.ProfileID, &g.MetricKey, &g.Target, &g.Current, &g.Completed, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal row: %w", err)
		}
		if completedAt.Valid {
			t := completedAt.Time
			g.CompletedAt = &t
		}
		goals = append(goals, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during goal rows iteration: %w", err)
	}
	return goals, nil
}

func (r *postgresPerformanceRepository) UpdateGoal(ctx context.Context, exec SQLExecutor, g *models.Goal) error {
	var completedAt interface{}
	if g.CompletedAt != nil {
		completedAt = g.CompletedAt.UTC().Truncate(time.Microsecond)
	}
	query := `UPDATE goals SET current = $1, completed = $2, completed_at = $3 WHERE id = $4`
	result, err := getExecutor(r.db, exec).ExecContext(ctx, query, g.Current, g.Completed, completedAt, g.ID)
	if err != nil {
		return fmt.Errorf("UpdateGoal: failed to execute query for goal %d: %w", g.ID, err)
	}
	return checkAffectedRows(result, ErrGoalNotFound)
}
