package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Dosada05/cricket-scorer/brackets"
	"github.com/Dosada05/cricket-scorer/models"
	"github.com/Dosada05/cricket-scorer/services"
	"github.com/Dosada05/cricket-scorer/storage"
)

var (
	organizer = services.Actor{UserID: 100, Role: models.RoleOrganizer}
	stranger  = services.Actor{UserID: 200, Role: models.RolePlayer}
	admin     = services.Actor{UserID: 1, Role: models.RoleAdmin}
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.LiveEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, ev models.LiveEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

func (p *recordingPublisher) count(eventType string) int {
	n := 0
	for _, t := range p.types() {
		if t == eventType {
			n++
		}
	}
	return n
}

type recordingArchive struct {
	mu    sync.Mutex
	cards []*models.Scorecard
}

func (a *recordingArchive) Archive(ctx context.Context, card *models.Scorecard) (*storage.UploadResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cards = append(a.cards, card)
	key := storage.ScorecardKey(card.Match.TournamentID, card.Match.ID)
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

type harness struct {
	store      *memStore
	publisher  *recordingPublisher
	archive    *recordingArchive
	scoring    services.ScoringService
	bracket    services.BracketService
	scorecards services.ScorecardService
	statSync   services.StatSyncService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newMemStore()
	pub := &recordingPublisher{}
	archive := &recordingArchive{}

	notifier := services.NewLiveNotifier(nil, logger, pub)
	statSync := services.NewStatSyncService(store.inningsRepo(), store.ledgerRepo(), store.performanceRepo(), logger)
	scorecards := services.NewScorecardService(store.matchRepo(), store.inningsRepo(), store.ledgerRepo(), store.ballRepo())

	return &harness{
		store:      store,
		publisher:  pub,
		archive:    archive,
		scorecards: scorecards,
		statSync:   statSync,
		bracket: services.NewBracketService(store, store.tournamentRepo(), store.matchRepo(), store.userRepo(),
			notifier, logger),
		scoring: services.NewScoringService(store, store.matchRepo(), store.tournamentRepo(), store.inningsRepo(),
			store.ledgerRepo(), store.ballRepo(), statSync, scorecards, archive, notifier, logger),
	}
}

// newTournament seeds a tournament run by organizer and generates its bracket.
func (h *harness) newTournament(t *testing.T, maxOvers, playersPerSide int, entries ...brackets.Entry) (models.Tournament, []*models.Match) {
	t.Helper()
	tour := h.store.addTournament(models.Tournament{
		Name:           "Cup",
		OrganizerID:    organizer.UserID,
		Status:         models.StatusRegistration,
		MaxOvers:       maxOvers,
		PlayersPerSide: playersPerSide,
	})
	matches, err := h.bracket.GenerateBracket(context.Background(), organizer, tour.ID, services.GenerateBracketInput{Entries: entries})
	if err != nil {
		t.Fatalf("GenerateBracket: %v", err)
	}
	return h.store.tournament(tour.ID), matches
}

func (h *harness) start(t *testing.T, matchID int, batting string) *models.Innings {
	t.Helper()
	inn, err := h.scoring.StartInnings(context.Background(), organizer, matchID, services.StartInningsInput{BattingTeam: batting})
	if err != nil {
		t.Fatalf("StartInnings(%d): %v", matchID, err)
	}
	return inn
}

func (h *harness) deliver(t *testing.T, matchID int, in services.RecordDeliveryInput) *services.DeliveryResult {
	t.Helper()
	if in.BatsmanName == "" {
		in.BatsmanName = "Opener"
	}
	if in.BowlerName == "" {
		in.BowlerName = "Quick"
	}
	res, err := h.scoring.RecordDelivery(context.Background(), organizer, matchID, in)
	if err != nil {
		t.Fatalf("RecordDelivery(%d, %+v): %v", matchID, in, err)
	}
	return res
}

// playShort plays a one-over, two-a-side match: each innings scores runs off
// one ball, and the chasing side is bowled out unless it has already won.
func (h *harness) playShort(t *testing.T, matchID, firstRuns, secondRuns int) *services.DeliveryResult {
	t.Helper()
	h.start(t, matchID, "")
	h.deliver(t, matchID, services.RecordDeliveryInput{RunsScored: firstRuns})
	if res := h.deliver(t, matchID, services.RecordDeliveryInput{IsWicket: true, DismissalType: "BOWLED"}); !res.InningsComplete {
		t.Fatalf("first innings of match %d did not end", matchID)
	}

	h.start(t, matchID, "")
	res := h.deliver(t, matchID, services.RecordDeliveryInput{RunsScored: secondRuns})
	if res.MatchCompleted {
		return res
	}
	return h.deliver(t, matchID, services.RecordDeliveryInput{IsWicket: true, DismissalType: "BOWLED"})
}

func intp(v int) *int { return &v }
