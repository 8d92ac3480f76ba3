package brackets

import (
	"context"

	"github.com/Dosada05/cricket-scorer/models"
)

// Entry is one side entered into a bracket, optionally linked to a user.
type Entry struct {
	Name     string `json:"name"`
	PlayerID *int   `json:"player_id,omitempty"`
}

type GenerateBracketParams struct {
	Tournament *models.Tournament
	Entries    []Entry
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketMatch, error)

	GetName() string
}
