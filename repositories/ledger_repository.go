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
	ErrBattingEntryNotFound = errors.New("batting entry not found")
	ErrBowlingEntryNotFound = errors.New("bowling entry not found")
	ErrLedgerEntryConflict  = errors.New("player already has an entry in this innings")
)

// LedgerRepository stores the per-innings batting and bowling cards.
// Entries are keyed by (innings, player name).
type LedgerRepository interface {
	CreateBatting(ctx context.Context, exec SQLExecutor, entry *models.BattingEntry) error
	GetBattingByName(ctx context.Context, exec SQLExecutor, inningsID int, name string) (*models.BattingEntry, error)
	ListBatting(ctx context.Context, exec SQLExecutor, inningsID int) ([]*models.BattingEntry, error)
	UpdateBatting(ctx context.Context, exec SQLExecutor, entry *models.BattingEntry) error

	CreateBowling(ctx context.Context, exec SQLExecutor, entry *models.BowlingEntry) error
	GetBowlingByName(ctx context.Context, exec SQLExecutor, inningsID int, name string) (*models.BowlingEntry, error)
	ListBowling(ctx context.Context, exec SQLExecutor, inningsID int) ([]*models.BowlingEntry, error)
	UpdateBowling(ctx context.Context, exec SQLExecutor, entry *models.BowlingEntry) error
}

type postgresLedgerRepository struct {
	db *sql.DB
}

func NewPostgresLedgerRepository(db *sql.DB) LedgerRepository {
	return &postgresLedgerRepository{db: db}
}

const battingColumns = `
	id, innings_id, player_name, player_id, batting_order, runs, balls_faced, fours, sixes,
	strike_rate, is_out, dismissal_type, bowler_name, fielder_name`

const bowlingColumns = `
	id, innings_id, player_name, player_id, overs_bowled, runs_conceded, wickets, economy,
	extras, no_balls, wides`

func scanBatting(s scanner) (*models.BattingEntry, error) {
	e := &models.BattingEntry{}
	err := s.Scan(
		&e.ID, &e.InningsID, &e.PlayerName, &e.PlayerID, &e.BattingOrder, &e.Runs, &e.BallsFaced, &e.Fours, &e.Sixes,
		&e.StrikeRate, &e.IsOut, &e.DismissalType, &e.BowlerName, &e.FielderName,
	)
	return e, err
}

func scanBowling(s scanner) (*models.BowlingEntry, error) {
	e := &models.BowlingEntry{}
	err := s.Scan(
		&e.ID, &e.InningsID, &e.PlayerName, &e.PlayerID, &e.OversBowled, &e.RunsConceded, &e.Wickets, &e.Economy,
		&e.Extras, &e.NoBalls, &e.Wides,
	)
	return e, err
}

func handleLedgerError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrLedgerEntryConflict
	}
	return err
}

func (r *postgresLedgerRepository) CreateBatting(ctx context.Context, exec SQLExecutor, e *models.BattingEntry) error {
	query := `
		INSERT INTO batting_entries (innings_id, player_name, player_id, batting_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := getExecutor(r.db, exec).QueryRowContext(ctx, query,
		e.InningsID, e.PlayerName, e.PlayerID, e.BattingOrder,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to create batting entry for %q: %w", e.PlayerName, handleLedgerError(err))
	}
	return nil
}

func (r *postgresLedgerRepository) GetBattingByName(ctx context.Context, exec SQLExecutor, inningsID int, name string) (*models.BattingEntry, error) {
	query := `SELECT ` + battingColumns + ` FROM batting_entries WHERE innings_id = $1 AND player_name = $2`
	e, err := scanBatting(getExecutor(r.db, exec).QueryRowContext(ctx, query, inningsID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBattingEntryNotFound
		}
		return nil, fmt.Errorf("failed to scan batting entry %q: %w", name, err)
	}
	return e, nil
}

func (r *postgresLedgerRepository) ListBatting(ctx context.Context, exec SQLExecutor, inningsID int) ([]*models.BattingEntry, error) {
	query := `SELECT ` + battingColumns + ` FROM batting_entries WHERE innings_id = $1 ORDER BY batting_order ASC`
	rows, err := getExecutor(r.db, exec).QueryContext(ctx, query, inningsID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batting entries for innings %d: %w", inningsID, err)
	}
	defer rows.Close()

	entries := make([]*models.BattingEntry, 0)
	for rows.Next() {
		e, scanErr := scanBatting(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan batting row: %w", scanErr)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during batting rows iteration: %w", err)
	}
	return entries, nil
}

func (r *postgresLedgerRepository) UpdateBatting(ctx context.Context, exec SQLExecutor, e *models.BattingEntry) error {
	query := `
		UPDATE batting_entries
		SET runs = $1, balls_faced = $2, fours = $3, sixes = $4, strike_rate = $5, is_out = $6,
		    dismissal_type = $7, bowler_name = $8, fielder_name = $9
		WHERE id = $10`
	result, err := getExecutor(r.db, exec).ExecContext(ctx, query,
		e.Runs, e.BallsFaced, e.Fours, e.Sixes, e.StrikeRate, e.IsOut,
		e.DismissalType, e.BowlerName, e.FielderName, e.ID)
	if err != nil {
		return fmt.Errorf("UpdateBatting: failed to execute query for entry %d: %w", e.ID, err)
	}
	return checkAffectedRows(result, ErrBattingEntryNotFound)
}

func (r *postgresLedgerRepository) CreateBowling(ctx context.Context, exec SQLExecutor, e *models.BowlingEntry) error {
	query := `
		INSERT INTO bowling_entries (innings_id, player_name, player_id)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, e.InningsID, e.PlayerName, e.PlayerID).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to create bowling entry for %q: %w", e.PlayerName, handleLedgerError(err))
	}
	return nil
}

func (r *postgresLedgerRepository) GetBowlingByName(ctx context.Context, exec SQLExecutor, inningsID int, name string) (*models.BowlingEntry, error) {
	query := `SELECT ` + bowlingColumns + ` FROM bowling_entries WHERE innings_id = $1 AND player_name = $2`
	e, err := scanBowling(getExecutor(r.db, exec).QueryRowContext(ctx, query, inningsID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBowlingEntryNotFound
		}
		return nil, fmt.Errorf("failed to scan bowling entry %q: %w", name, err)
	}
	return e, nil
}

func (r *postgresLedgerRepository) ListBowling(ctx context.Context, exec SQLExecutor, inningsID int) ([]*models.BowlingEntry, error) {
	query := `SELECT ` + bowlingColumns + ` FROM bowling_entries WHERE innings_id = $1 ORDER BY id ASC`
	rows, err := getExecutor(r.db, exec).QueryContext(ctx, query, inningsID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bowling entries for innings %d: %w", inningsID, err)
	}
	defer rows.Close()

	entries := make([]*models.BowlingEntry, 0)
	for rows.Next() {
		e, scanErr := scanBowling(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan bowling row: %w", scanErr)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during bowling rows iteration: %w", err)
	}
	return entries, nil
}

func (r *postgresLedgerRepository) UpdateBowling(ctx context.Context, exec SQLExecutor, e *models.BowlingEntry) error {
	query := `
		UPDATE bowling_entries
		SET overs_bowled = $1, runs_conceded = $2, wickets = $3, economy = $4, extras = $5,
		    no_balls = $6, wides = $7
		WHERE id = $8`
	result, err := getExecutor(r.db, exec).ExecContext(ctx, query,
		e.OversBowled, e.RunsConceded, e.Wickets, e.Economy, e.Extras, e.NoBalls, e.Wides, e.ID)
	if err != nil {
		return fmt.Errorf("UpdateBowling: failed to execute query for entry %d: %w", e.ID, err)
	}
	return checkAffectedRows(result, ErrBowlingEntryNotFound)
}
