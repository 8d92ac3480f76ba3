package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidRules     = errors.New("match rules require max_overs >= 1 and players_per_side >= 2")
	ErrTeamNotInMatch   = errors.New("team is not a side of this match")

	// Preconditions
	ErrMatchCompleted      = errors.New("match is already completed")
	ErrWrongSport          = errors.New("match is not a cricket match")
	ErrNoActiveInnings     = errors.New("match has no active innings")
	ErrInningsOrder        = errors.New("an innings cannot be started in the current match state")
	ErrMatchNotTied        = errors.New("match is not an unresolved tie")
	ErrMatchSidesPending   = errors.New("match sides are not decided yet")
	ErrBracketExists       = errors.New("bracket already generated for this tournament")
	ErrBracketInconsistent = errors.New("bracket has no slot for the advancing winner")

	// Authentication and authorization
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Entities
	ErrUserNotFound       = errors.New("user not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
)
