package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/cricket-scorer/models"
	"github.com/Dosada05/cricket-scorer/repositories"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID int
	Role   models.UserRole
}

func (a Actor) isAdmin() bool {
	return a.Role == models.RoleAdmin
}

// authorizeOrganizer allows admins and the tournament's organizer.
func authorizeOrganizer(actor Actor, t *models.Tournament) error {
	if actor.isAdmin() || (actor.UserID != 0 && actor.UserID == t.OrganizerID) {
		return nil
	}
	return ErrForbiddenOperation
}

// authorizeScorer additionally allows the scorer assigned to the match.
func authorizeScorer(actor Actor, t *models.Tournament, m *models.Match) error {
	if authorizeOrganizer(actor, t) == nil {
		return nil
	}
	if m.ScorerID != nil && actor.UserID != 0 && *m.ScorerID == actor.UserID {
		return nil
	}
	return ErrForbiddenOperation
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func intPtr(v int) *int {
	return &v
}

// handleRepositoryError maps repository sentinels onto service sentinels.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrInningsNotFound):
		return fmt.Errorf("%w: innings", ErrNotFound)
	case errors.Is(err, repositories.ErrInningsDuplicate):
		return ErrInningsOrder
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return err
}
