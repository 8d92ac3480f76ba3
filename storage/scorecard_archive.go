package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/cricket-scorer/models"
)

// ScorecardArchive stores the final scorecard of a completed match as a JSON
// object, one per match.
type ScorecardArchive struct {
	uploader ObjectUploader
}

func NewScorecardArchive(uploader ObjectUploader) *ScorecardArchive {
	return &ScorecardArchive{uploader: uploader}
}

func ScorecardKey(tournamentID, matchID int) string {
	return fmt.Sprintf("scorecards/tournament_%d/match_%d.json", tournamentID, matchID)
}

func (a *ScorecardArchive) Archive(ctx context.Context, card *models.Scorecard) (*UploadResult, error) {
	if card == nil || card.Match == nil {
		return nil, fmt.Errorf("archive: scorecard has no match")
	}
	body, err := json.Marshal(card)
	if err != nil {
		return nil, fmt.Errorf("archive: failed to encode scorecard for match %d: %w", card.Match.ID, err)
	}
	key := ScorecardKey(card.Match.TournamentID, card.Match.ID)
	return a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
}
