package services_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/cricket-scorer/brackets"
	"github.com/Dosada05/cricket-scorer/models"
	"github.com/Dosada05/cricket-scorer/repositories"
)

var errInjected = errors.New("injected failure")

// memStore is an in-memory stand-in for the Postgres schema. Rows are held
// by value so a transaction can snapshot and restore them.
type memStore struct {
	mu     sync.Mutex
	txMu   sync.Mutex
	nextID int

	tournaments map[int]models.Tournament
	matches     map[int]models.Match
	innings     map[int]models.Innings
	batting     map[int]models.BattingEntry
	bowling     map[int]models.BowlingEntry
	balls       map[int]models.BallEvent
	users       map[int]models.User
	profiles    map[int]models.PerformanceProfile
	stats       map[int]models.StatEntry
	goals       map[int]models.Goal

	// failOn makes the named operation return errInjected.
	failOn map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		tournaments: map[int]models.Tournament{},
		matches:     map[int]models.Match{},
		innings:     map[int]models.Innings{},
		batting:     map[int]models.BattingEntry{},
		bowling:     map[int]models.BowlingEntry{},
		balls:       map[int]models.BallEvent{},
		users:       map[int]models.User{},
		profiles:    map[int]models.PerformanceProfile{},
		stats:       map[int]models.StatEntry{},
		goals:       map[int]models.Goal{},
		failOn:      map[string]bool{},
	}
}

type snapshot struct {
	nextID      int
	tournaments map[int]models.Tournament
	matches     map[int]models.Match
	innings     map[int]models.Innings
	batting     map[int]models.BattingEntry
	bowling     map[int]models.BowlingEntry
	balls       map[int]models.BallEvent
	stats       map[int]models.StatEntry
	goals       map[int]models.Goal
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		nextID:      s.nextID,
		tournaments: cloneMap(s.tournaments),
		matches:     cloneMap(s.matches),
		innings:     cloneMap(s.innings),
		batting:     cloneMap(s.batting),
		bowling:     cloneMap(s.bowling),
		balls:       cloneMap(s.balls),
		stats:       cloneMap(s.stats),
		goals:       cloneMap(s.goals),
	}
}

func (s *memStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.tournaments = snap.tournaments
	s.matches = snap.matches
	s.innings = snap.innings
	s.batting = snap.batting
	s.bowling = snap.bowling
	s.balls = snap.balls
	s.stats = snap.stats
	s.goals = snap.goals
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *memStore) fail(op string) error {
	if s.failOn[op] {
		return fmt.Errorf("%s: %w", op, errInjected)
	}
	return nil
}

// WithinTx serializes transactions and rolls every row back when fn fails.
func (s *memStore) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.snapshot()
	if err := fn(nil); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) matchRepo() *fakeMatchRepo { return &fakeMatchRepo{s} }
func (s *memStore) tournamentRepo() *fakeTournamentRepo { return &fakeTournamentRepo{s} }
func (s *memStore) inningsRepo() *fakeInningsRepo { return &fakeInningsRepo{s} }
func (s *memStore) ledgerRepo() *fakeLedgerRepo { return &fakeLedgerRepo{s} }
func (s *memStore) ballRepo() *fakeBallRepo { return &fakeBallRepo{s} }
func (s *memStore) userRepo() *fakeUserRepo { return &fakeUserRepo{s} }
func (s *memStore) performanceRepo() *fakePerformanceRepo {
	return &fakePerformanceRepo{s}
}

// --- matches

type fakeMatchRepo struct{ s *memStore }

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("match.create"); err != nil {
		return err
	}
	if _, ok := r.s.tournaments[m.TournamentID]; !ok {
		return repositories.ErrMatchTournamentInvalid
	}
	m.ID = r.s.id()
	m.CreatedAt = time.Now()
	r.s.matches[m.ID] = *m
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return &m, nil
}

func (r *fakeMatchRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, round *int) ([]*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Match
	for _, m := range r.s.matches {
		if m.TournamentID != tournamentID || (round != nil && m.Round != *round) {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeMatchRepo) UpdateProgress(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.matches[m.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	cur.State = m.State
	cur.ActiveInningsID = m.ActiveInningsID
	r.s.matches[m.ID] = cur
	return nil
}

func (r *fakeMatchRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("match.update_result"); err != nil {
		return err
	}
	cur, ok := r.s.matches[m.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	cur.State = m.State
	cur.ActiveInningsID = m.ActiveInningsID
	cur.Completed = m.Completed
	cur.ScoreA, cur.ScoreB = m.ScoreA, m.ScoreB
	cur.WinnerName = m.WinnerName
	cur.Result = m.Result
	r.s.matches[m.ID] = cur
	return nil
}

func (r *fakeMatchRepo) AssignSide(ctx context.Context, exec repositories.SQLExecutor, matchID int, side brackets.Side, team string, playerID *int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.matches[matchID]
	if !ok || cur.Completed {
		return repositories.ErrMatchNotFound
	}
	switch side {
	case brackets.SideA:
		cur.TeamA, cur.PlayerAID = team, playerID
	case brackets.SideB:
		cur.TeamB, cur.PlayerBID = team, playerID
	default:
		return repositories.ErrMatchInvalidSide
	}
	r.s.matches[matchID] = cur
	return nil
}

// --- tournaments

type fakeTournamentRepo struct{ s *memStore }

func (r *fakeTournamentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.tournaments {
		if strings.EqualFold(existing.Name, t.Name) {
			return repositories.ErrTournamentNameConflict
		}
	}
	t.ID = r.s.id()
	t.CreatedAt = time.Now()
	r.s.tournaments[t.ID] = *t
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	r.s.tournaments[id] = t
	return nil
}

func (r *fakeTournamentRepo) StartBracket(ctx context.Context, exec repositories.SQLExecutor, id int, totalRounds int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("tournament.start_bracket"); err != nil {
		return err
	}
	t, ok := r.s.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.TotalRounds = totalRounds
	t.Status = models.StatusActive
	r.s.tournaments[id] = t
	return nil
}

func (r *fakeTournamentRepo) Complete(ctx context.Context, exec repositories.SQLExecutor, id int, winnerName string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = models.StatusCompleted
	t.WinnerName = &winnerName
	r.s.tournaments[id] = t
	return nil
}

// --- innings

type fakeInningsRepo struct{ s *memStore }

func (r *fakeInningsRepo) Create(ctx context.Context, exec repositories.SQLExecutor, inn *models.Innings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.innings {
		if existing.MatchID == inn.MatchID && existing.InningsNumber == inn.InningsNumber {
			return repositories.ErrInningsDuplicate
		}
	}
	inn.ID = r.s.id()
	inn.CreatedAt = time.Now()
	r.s.innings[inn.ID] = *inn
	return nil
}

func (r *fakeInningsRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Innings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inn, ok := r.s.innings[id]
	if !ok {
		return nil, repositories.ErrInningsNotFound
	}
	return &inn, nil
}

func (r *fakeInningsRepo) ListByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) ([]*models.Innings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Innings
	for _, inn := range r.s.innings {
		if inn.MatchID == matchID {
			inn := inn
			out = append(out, &inn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InningsNumber < out[j].InningsNumber })
	return out, nil
}

func (r *fakeInningsRepo) UpdateTotals(ctx context.Context, exec repositories.SQLExecutor, inn *models.Innings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.innings[inn.ID]; !ok {
		return repositories.ErrInningsNotFound
	}
	r.s.innings[inn.ID] = *inn
	return nil
}

// --- batting and bowling ledgers

type fakeLedgerRepo struct{ s *memStore }

func (r *fakeLedgerRepo) CreateBatting(ctx context.Context, exec repositories.SQLExecutor, e *models.BattingEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.batting {
		if existing.InningsID == e.InningsID && existing.PlayerName == e.PlayerName {
			return repositories.ErrLedgerEntryConflict
		}
	}
	e.ID = r.s.id()
	r.s.batting[e.ID] = *e
	return nil
}

func (r *fakeLedgerRepo) GetBattingByName(ctx context.Context, exec repositories.SQLExecutor, inningsID int, name string) (*models.BattingEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.batting {
		if e.InningsID == inningsID && e.PlayerName == name {
			return &e, nil
		}
	}
	return nil, repositories.ErrBattingEntryNotFound
}

func (r *fakeLedgerRepo) ListBatting(ctx context.Context, exec repositories.SQLExecutor, inningsID int) ([]*models.BattingEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.BattingEntry
	for _, e := range r.s.batting {
		if e.InningsID == inningsID {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BattingOrder < out[j].BattingOrder })
	return out, nil
}

func (r *fakeLedgerRepo) UpdateBatting(ctx context.Context, exec repositories.SQLExecutor, e *models.BattingEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("ledger.update_batting"); err != nil {
		return err
	}
	if _, ok := r.s.batting[e.ID]; !ok {
		return repositories.ErrBattingEntryNotFound
	}
	r.s.batting[e.ID] = *e
	return nil
}

func (r *fakeLedgerRepo) CreateBowling(ctx context.Context, exec repositories.SQLExecutor, e *models.BowlingEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.bowling {
		if existing.InningsID == e.InningsID && existing.PlayerName == e.PlayerName {
			return repositories.ErrLedgerEntryConflict
		}
	}
	e.ID = r.s.id()
	r.s.bowling[e.ID] = *e
	return nil
}

func (r *fakeLedgerRepo) GetBowlingByName(ctx context.Context, exec repositories.SQLExecutor, inningsID int, name string) (*models.BowlingEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.bowling {
		if e.InningsID == inningsID && e.PlayerName == name {
			return &e, nil
		}
	}
	return nil, repositories.ErrBowlingEntryNotFound
}

func (r *fakeLedgerRepo) ListBowling(ctx context.Context, exec repositories.SQLExecutor, inningsID int) ([]*models.BowlingEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.BowlingEntry
	for _, e := range r.s.bowling {
		if e.InningsID == inningsID {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeLedgerRepo) UpdateBowling(ctx context.Context, exec repositories.SQLExecutor, e *models.BowlingEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bowling[e.ID]; !ok {
		return repositories.ErrBowlingEntryNotFound
	}
	r.s.bowling[e.ID] = *e
	return nil
}

// --- ball events

type fakeBallRepo struct{ s *memStore }

func (r *fakeBallRepo) Create(ctx context.Context, exec repositories.SQLExecutor, ev *models.BallEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ev.ID = r.s.id()
	ev.CreatedAt = time.Now()
	r.s.balls[ev.ID] = *ev
	return nil
}

func (r *fakeBallRepo) CountByInnings(ctx context.Context, exec repositories.SQLExecutor, inningsID int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, ev := range r.s.balls {
		if ev.InningsID == inningsID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBallRepo) ListByInnings(ctx context.Context, exec repositories.SQLExecutor, inningsID int) ([]*models.BallEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.BallEvent
	for _, ev := range r.s.balls {
		if ev.InningsID == inningsID {
			ev := ev
			out = append(out, &ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

// --- users

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.ID = r.s.id()
	r.s.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Nickname == nickname })
}

func (r *fakeUserRepo) find(match func(models.User) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

// --- performance tracking

type fakePerformanceRepo struct{ s *memStore }

func (r *fakePerformanceRepo) GetProfileByUserAndSport(ctx context.Context, exec repositories.SQLExecutor, userID int, sport string) (*models.PerformanceProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.profiles {
		if p.UserID == userID && p.Sport == sport {
			return &p, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (r *fakePerformanceRepo) StatEntryExists(ctx context.Context, exec repositories.SQLExecutor, matchID, profileID int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.stats {
		if e.MatchID == matchID && e.ProfileID == profileID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePerformanceRepo) CreateStatEntry(ctx context.Context, exec repositories.SQLExecutor, e *models.StatEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("performance.create_stat_entry"); err != nil {
		return err
	}
	for _, existing := range r.s.stats {
		if existing.MatchID == e.MatchID && existing.ProfileID == e.ProfileID {
			return repositories.ErrStatEntryAlreadyExists
		}
	}
	e.ID = r.s.id()
	r.s.stats[e.ID] = *e
	return nil
}

func (r *fakePerformanceRepo) ListOpenGoals(ctx context.Context, exec repositories.SQLExecutor, profileID int) ([]*models.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Goal
	for _, g := range r.s.goals {
		if g.ProfileID == profileID && !g.Completed {
			g := g
			out = append(out, &g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePerformanceRepo) UpdateGoal(ctx context.Context, exec repositories.SQLExecutor, g *models.Goal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.goals[g.ID]; !ok {
		return repositories.ErrGoalNotFound
	}
	r.s.goals[g.ID] = *g
	return nil
}

// seed helpers

func (s *memStore) addTournament(t models.Tournament) models.Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	if t.Sport == "" {
		t.Sport = models.SportCricket
	}
	s.tournaments[t.ID] = t
	return t
}

func (s *memStore) addProfile(userID int) models.PerformanceProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.PerformanceProfile{ID: s.id(), UserID: userID, Sport: models.SportCricket}
	s.profiles[p.ID] = p
	return p
}

func (s *memStore) addGoal(g models.Goal) models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.id()
	s.goals[g.ID] = g
	return g
}

func (s *memStore) match(id int) models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches[id]
}

func (s *memStore) tournament(id int) models.Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tournaments[id]
}

func (s *memStore) statEntries() []models.StatEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.StatEntry, 0, len(s.stats))
	for _, e := range s.stats {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) goal(id int) models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals[id]
}

func (s *memStore) ballCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.balls)
}
