package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Dosada05/cricket-scorer/brackets"
	"github.com/Dosada05/cricket-scorer/models"
	"github.com/Dosada05/cricket-scorer/services"
)

// A 20-over final: Lions are bowled out for 150 in 18.4 overs and Tigers
// reach 151/4 in 19.2.
func TestRecordDeliveryFullMatch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	tour, matches := h.newTournament(t, 20, 11, brackets.Entry{Name: "Lions"}, brackets.Entry{Name: "Tigers"})
	if len(matches) != 1 || tour.TotalRounds != 1 {
		t.Fatalf("bracket = %d matches, %d rounds", len(matches), tour.TotalRounds)
	}
	matchID := matches[0].ID

	h.start(t, matchID, "Lions")
	var res *services.DeliveryResult
	wickets := 0
	for i := 0; i < 112; i++ {
		in := services.RecordDeliveryInput{
			BatsmanName: fmt.Sprintf("L%d", wickets+1),
			BowlerName:  fmt.Sprintf("T%d", (i/6)%5+1),
			RunsScored:  1,
		}
		if i < 16 {
			in.RunsScored = 4
		}
		if i == 111 || (i >= 20 && i <= 100 && i%10 == 0) {
			in.RunsScored = 0
			in.IsWicket, in.DismissalType = true, "BOWLED"
			wickets++
			if wickets < 10 {
				in.NewBatsmanName = fmt.Sprintf("L%d", wickets+1)
			}
		}
		res = h.deliver(t, matchID, in)
		if i < 111 && res.InningsComplete {
			t.Fatalf("first innings ended early at ball %d", i)
		}
	}
	if !res.InningsComplete || res.CompletionReason != "all_out" {
		t.Fatalf("first innings = complete %v reason %q", res.InningsComplete, res.CompletionReason)
	}
	if res.Innings.TotalRuns != 150 || res.Innings.TotalWickets != 10 || res.Innings.TotalOvers != 18.4 {
		t.Errorf("first innings = %d/%d in %v", res.Innings.TotalRuns, res.Innings.TotalWickets, res.Innings.TotalOvers)
	}
	if res.MatchState != models.MatchStateInningsBreak || res.MatchCompleted {
		t.Errorf("after first innings state = %q completed %v", res.MatchState, res.MatchCompleted)
	}

	second := h.start(t, matchID, "")
	if second.BattingTeam != "Tigers" || second.InningsNumber != 2 {
		t.Fatalf("second innings = %+v", second)
	}
	wickets = 0
	for i := 0; i < 116; i++ {
		in := services.RecordDeliveryInput{
			BatsmanName: fmt.Sprintf("T%d", wickets+1),
			BowlerName:  fmt.Sprintf("L%d", (i/6)%5+1),
			RunsScored:  1,
		}
		if i < 14 {
			in.RunsScored = 4
		}
		if i == 10 || i == 20 || i == 30 || i == 40 {
			in.RunsScored = 0
			in.IsWicket, in.DismissalType = true, "LBW"
			wickets++
			in.NewBatsmanName = fmt.Sprintf("T%d", wickets+1)
		}
		res = h.deliver(t, matchID, in)
		if i < 115 && res.InningsComplete {
			t.Fatalf("chase ended early at ball %d with %d", i, res.Innings.TotalRuns)
		}
	}

	if !res.InningsComplete || res.CompletionReason != "target_chased" {
		t.Fatalf("second innings = complete %v reason %q", res.InningsComplete, res.CompletionReason)
	}
	if res.Innings.TotalRuns != 151 || res.Innings.TotalWickets != 4 || res.Innings.TotalOvers != 19.2 {
		t.Errorf("second innings = %d/%d in %v", res.Innings.TotalRuns, res.Innings.TotalWickets, res.Innings.TotalOvers)
	}
	if !res.MatchCompleted || res.Outcome != "win" || res.Winner == nil || *res.Winner != "Tigers" {
		t.Fatalf("result = completed %v outcome %q winner %v", res.MatchCompleted, res.Outcome, res.Winner)
	}

	m := h.store.match(matchID)
	if !m.Completed || m.State != models.MatchStateComplete || m.ActiveInningsID != nil {
		t.Errorf("stored match = %+v", m)
	}
	if m.ScoreA == nil || *m.ScoreA != 150 || m.ScoreB == nil || *m.ScoreB != 151 {
		t.Errorf("scores = %v/%v, want 150/151", m.ScoreA, m.ScoreB)
	}
	if got := h.store.tournament(tour.ID); got.Status != models.StatusCompleted || got.WinnerName == nil || *got.WinnerName != "Tigers" {
		t.Errorf("tournament = %+v", got)
	}
	if res.TournamentStatus != models.StatusCompleted {
		t.Errorf("result tournament status = %q", res.TournamentStatus)
	}

	card, err := h.scorecards.GetScorecard(ctx, matchID, true)
	if err != nil {
		t.Fatalf("GetScorecard: %v", err)
	}
	if len(card.Innings) != 2 {
		t.Fatalf("scorecard innings = %d", len(card.Innings))
	}
	for _, ic := range card.Innings {
		batted := 0
		for _, b := range ic.Batting {
			batted += b.Runs
		}
		if batted+ic.Innings.Extras != ic.Innings.TotalRuns {
			t.Errorf("innings %d: batters %d + extras %d != %d", ic.Innings.InningsNumber, batted, ic.Innings.Extras, ic.Innings.TotalRuns)
		}
		for i, ball := range ic.Balls {
			if ball.Sequence != i+1 {
				t.Errorf("innings %d ball %d has sequence %d", ic.Innings.InningsNumber, i, ball.Sequence)
				break
			}
		}
	}
	if n := len(card.Innings[0].Batting); n != 10 {
		t.Errorf("first innings batters = %d, want 10", n)
	}
	if n := len(card.Innings[0].Balls); n != 112 {
		t.Errorf("first innings balls = %d, want 112", n)
	}

	if len(h.archive.cards) != 1 {
		t.Errorf("archived scorecards = %d, want 1", len(h.archive.cards))
	}
	if n := h.publisher.count(models.EventMatchCompleted); n != 1 {
		t.Errorf("MATCH_COMPLETED events = %d, want 1", n)
	}
	if n := h.publisher.count(models.EventInningsCompleted); n != 2 {
		t.Errorf("INNINGS_COMPLETED events = %d, want 2", n)
	}
	if n := h.publisher.count(models.EventDeliveryRecorded); n != 228 {
		t.Errorf("DELIVERY_RECORDED events = %d, want 228", n)
	}

	_, err = h.scoring.RecordDelivery(ctx, organizer, matchID, services.RecordDeliveryInput{BatsmanName: "T5", BowlerName: "L1"})
	if !errors.Is(err, services.ErrMatchCompleted) {
		t.Errorf("delivery after completion error = %v, want ErrMatchCompleted", err)
	}
}

func TestRecordDeliveryBallNumbering(t *testing.T) {
	h := newHarness(t)
	_, matches := h.newTournament(t, 2, 11, brackets.Entry{Name: "Lions"}, brackets.Entry{Name: "Tigers"})
	matchID := matches[0].ID
	h.start(t, matchID, "")

	wide := h.deliver(t, matchID, services.RecordDeliveryInput{ExtraType: "WIDE", ExtraRuns: intp(2)})
	if wide.BallEvent.Sequence != 1 || wide.BallEvent.OverNumber != 0 || wide.BallEvent.BallNumber != 0 {
		t.Errorf("wide event = seq %d %d.%d", wide.BallEvent.Sequence, wide.BallEvent.OverNumber, wide.BallEvent.BallNumber)
	}
	if wide.Innings.TotalRuns != 2 || wide.Innings.TotalOvers != 0 {
		t.Errorf("after wide innings = %d in %v", wide.Innings.TotalRuns, wide.Innings.TotalOvers)
	}
	if wide.BallEvent.Commentary != "0.0 Quick to Opener, wide, 2 runs" {
		t.Errorf("commentary = %q", wide.BallEvent.Commentary)
	}

	var last *services.DeliveryResult
	for i := 0; i < 6; i++ {
		last = h.deliver(t, matchID, services.RecordDeliveryInput{RunsScored: 1})
	}
	if last.BallEvent.Sequence != 7 || last.BallEvent.OverNumber != 0 || last.BallEvent.BallNumber != 6 {
		t.Errorf("sixth legal ball = seq %d %d.%d", last.BallEvent.Sequence, last.BallEvent.OverNumber, last.BallEvent.BallNumber)
	}
	next := h.deliver(t, matchID, services.RecordDeliveryInput{RunsScored: 4, BowlerName: "Spinner"})
	if next.BallEvent.OverNumber != 1 || next.BallEvent.BallNumber != 1 || next.Innings.TotalOvers != 1.1 {
		t.Errorf("first ball of second over = %d.%d, innings %v", next.BallEvent.OverNumber, next.BallEvent.BallNumber, next.Innings.TotalOvers)
	}

	card, err := h.scorecards.GetScorecard(context.Background(), matchID, false)
	if err != nil {
		t.Fatalf("GetScorecard: %v", err)
	}
	if card.Innings[0].Balls != nil {
		t.Error("balls returned when not requested")
	}
	bowling := card.Innings[0].Bowling
	if len(bowling) != 2 || bowling[0].OversBowled != 1.0 || bowling[0].RunsConceded != 8 || bowling[0].Wides != 1 {
		t.Errorf("bowling = %+v", bowling[0])
	}
}

func TestRecordDeliveryOverLimitEndsInnings(t *testing.T) {
	h := newHarness(t)
	_, matches := h.newTournament(t, 1, 11, brackets.Entry{Name: "Lions"}, brackets.Entry{Name: "Tigers"})
	matchID := matches[0].ID
	h.start(t, matchID, "")

	var res *services.DeliveryResult
	for i := 0; i < 6; i++ {
		res = h.deliver(t, matchID, services.RecordDeliveryInput{RunsScored: 2})
	}
	if !res.InningsComplete || res.CompletionReason != "overs_exhausted" || res.Innings.TotalOvers != 1.0 {
		t.Errorf("innings = complete %v reason %q overs %v", res.InningsComplete, res.CompletionReason, res.Innings.TotalOvers)
	}

	_, err := h.scoring.RecordDelivery(context.Background(), organizer, matchID, services.RecordDeliveryInput{BatsmanName: "A", BowlerName: "B"})
	if !errors.Is(err, services.ErrNoActiveInnings) {
		t.Errorf("delivery during innings break error = %v, want ErrNoActiveInnings", err)
	}
}

func TestRecordDeliveryRetiredBatter(t *testing.T) {
	h := newHarness(t)
	_, matches := h.newTournament(t, 5, 3, brackets.Entry{Name: "Lions"}, brackets.Entry{Name: "Tigers"})
	matchID := matches[0].ID
	h.start(t, matchID, "")

	res := h.deliver(t, matchID, services.RecordDeliveryInput{
		BatsmanName: "Opener", IsWicket: true, DismissalType: "RETIRED", NewBatsmanName: "Second",
	})
	if res.Innings.TotalWickets != 0 || res.InningsComplete {
		t.Errorf("retirement counted as a wicket: %+v", res.Innings)
	}

	card, err := h.scorecards.GetScorecard(context.Background(), matchID, false)
	if err != nil {
		t.Fatalf("GetScorecard: %v", err)
	}
	batting := card.Innings[0].Batting
	if len(batting) != 2 || batting[1].PlayerName != "Second" || batting[1].BattingOrder != 2 {
		t.Errorf("batting = %+v", batting)
	}
	if batting[0].IsOut {
		t.Error("retired batter marked out")
	}
}

func TestRecordDeliveryIgnoresReplacementWithoutWicket(t *testing.T) {
	h := newHarness(t)
	_, matches := h.newTournament(t, 5, 11, brackets.Entry{Name: "Lions"}, brackets.Entry{Name: "Tigers"})
	matchID := matches[0].ID
	h.start(t, matchID, "")

	h.deliver(t, matchID, services.RecordDeliveryInput{RunsScored: 1, NewBatsmanName: "Nobody"})
	card, _ := h.scorecards.GetScorecard(context.Background(), matchID, false)
	if n := len(card.Innings[0].Batting); n != 1 {
		t.Errorf("batting entries = %d, want 1", n)
	}
}

func TestRecordDeliveryRollsBackOnFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, matches := h.newTournament(t, 5, 11, brackets.Entry{Name: "Lions"}, brackets.Entry{Name: "Tigers"})
	matchID := matches[0].ID
	inn := h.start(t, matchID, "")
	h.deliver(t, matchID, services.RecordDeliveryInput{RunsScored: 4})

	h.store.failOn["ledger.update_batting"] = true
	_, err := h.scoring.RecordDelivery(ctx, organizer, matchID, services.RecordDeliveryInput{BatsmanName: "Opener", BowlerName: "Quick", RunsScored: 6})
	if !errors.Is(err, errInjected) {
		t.Fatalf("error = %v, want injected failure", err)
	}
	delete(h.store.failOn, "ledger.update_batting")

	if n := h.store.ballCount(); n != 1 {
		t.Errorf("ball events after rollback = %d, want 1", n)
	}
	got, err := h.store.inningsRepo().GetByID(ctx, nil, inn.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalRuns != 4 || got.TotalOvers != 0.1 {
		t.Errorf("innings after rollback = %d in %v", got.TotalRuns, got.TotalOvers)
	}
	bowler, _ := h.store.ledgerRepo().GetBowlingByName(ctx, nil, inn.ID, "Quick")
	if bowler.RunsConceded != 4 {
		t.Errorf("bowler after rollback conceded %d", bowler.RunsConceded)
	}

	res := h.deliver(t, matchID, services.RecordDeliveryInput{RunsScored: 6})
	if res.Innings.TotalRuns != 10 || res.BallEvent.Sequence != 2 {
		t.Errorf("retry = %d runs, sequence %d", res.Innings.TotalRuns, res.BallEvent.Sequence)
	}
}

func TestStartInningsPreconditions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, matches := h.newTournament(t, 5, 11,
		brackets.Entry{Name: "Lions"}, brackets.Entry{Name: "Tigers"},
		brackets.Entry{Name: "Bears"}, brackets.Entry{Name: "Wolves"})
	first := matches[0].ID
	final := matches[2].ID

	_, err := h.scoring.StartInnings(ctx, organizer, final, services.StartInningsInput{})
	if !errors.Is(err, services.ErrMatchSidesPending) {
		t.Errorf("final before semis error = %v, want ErrMatchSidesPending", err)
	}
	_, err = h.scoring.StartInnings(ctx, organizer, first, services.StartInningsInput{BattingTeam: "Bears"})
	if !errors.Is(err, services.ErrTeamNotInMatch) {
		t.Errorf("foreign batting team error = %v, want ErrTeamNotInMatch", err)
	}
	_, err = h.scoring.StartInnings(ctx, organizer, first, services.StartInningsInput{
		Openers: []services.LineupPlayer{{Name: "A"}, {Name: "B"}, {Name: "C"}},
	})
	if !errors.Is(err, services.ErrValidationFailed) {
		t.Errorf("three openers error = %v, want ErrValidationFailed", err)
	}
	_, err = h.scoring.RecordDelivery(ctx, organizer, first, services.RecordDeliveryInput{BatsmanName: "A", BowlerName: "B"})
	if !errors.Is(err, services.ErrNoActiveInnings) {
		t.Errorf("delivery before start error = %v, want ErrNoActiveInnings", err)
	}

	inn, err := h.scoring.StartInnings(ctx, organizer, first, services.StartInningsInput{
		BattingTeam:   "Tigers",
		Openers:       []services.LineupPlayer{{Name: "T1"}, {Name: "T2"}},
		OpeningBowler: &services.LineupPlayer{Name: "L9"},
	})
	if err != nil {
		t.Fatalf("StartInnings: %v", err)
	}
	if inn.BattingTeam != "Tigers" || inn.BowlingTeam != "Lions" {
		t.Errorf("innings sides = %q/%q", inn.BattingTeam, inn.BowlingTeam)
	}
	_, err = h.scoring.StartInnings(ctx, organizer, first, services.StartInningsInput{})
	if !errors.Is(err, services.ErrInningsOrder) {
		t.Errorf("second start during innings error = %v, want ErrInningsOrder", err)
	}

	card, _ := h.scorecards.GetScorecard(ctx, first, false)
	if b := card.Innings[0].Batting; len(b) != 2 || b[0].PlayerName != "T1" || b[1].BattingOrder != 2 {
		t.Errorf("openers = %+v", b)
	}
	if len(card.Innings[0].Bowling) != 1 {
		t.Errorf("opening bowler not entered")
	}

	_, err = h.scoring.RecordDelivery(ctx, organizer, first, services.RecordDeliveryInput{BatsmanName: "T1"})
	if !errors.Is(err, services.ErrValidationFailed) {
		t.Errorf("delivery without bowler error = %v, want ErrValidationFailed", err)
	}
}

func TestSecondInningsBattingSideIsFixed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, matches := h.newTournament(t, 1, 2, brackets.Entry{Name: "Lions"}, brackets.Entry{Name: "Tigers"})
	matchID := matches[0].ID

	h.start(t, matchID, "Tigers")
	h.deliver(t, matchID, services.RecordDeliveryInput{IsWicket: true, DismissalType: "CAUGHT", FielderName: "X"})

	_, err := h.scoring.StartInnings(ctx, organizer, matchID, services.StartInningsInput{BattingTeam: "Tigers"})
	if !errors.Is(err, services.ErrValidationFailed) {
		t.Errorf("same side batting twice error = %v, want ErrValidationFailed", err)
	}
	inn := h.start(t, matchID, "Lions")
	if inn.BattingTeam != "Lions" {
		t.Errorf("second innings batting = %q", inn.BattingTeam)
	}
}

func TestScoringAuthorization(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, matches := h.newTournament(t, 5, 11, brackets.Entry{Name: "Lions"}, brackets.Entry{Name: "Tigers"})
	matchID := matches[0].ID

	_, err := h.scoring.StartInnings(ctx, stranger, matchID, services.StartInningsInput{})
	if !errors.Is(err, services.ErrForbiddenOperation) {
		t.Fatalf("stranger start error = %v, want ErrForbiddenOperation", err)
	}

	h.store.mu.Lock()
	m := h.store.matches[matchID]
	m.ScorerID = intp(stranger.UserID)
	h.store.matches[matchID] = m
	h.store.mu.Unlock()

	if _, err := h.scoring.StartInnings(ctx, stranger, matchID, services.StartInningsInput{}); err != nil {
		t.Fatalf("assigned scorer start: %v", err)
	}
	if _, err := h.scoring.RecordDelivery(ctx, admin, matchID, services.RecordDeliveryInput{BatsmanName: "A", BowlerName: "B"}); err != nil {
		t.Errorf("admin delivery: %v", err)
	}
	if _, err := h.scoring.RecordDelivery(ctx, services.Actor{UserID: 300, Role: models.RoleOrganizer}, matchID,
		services.RecordDeliveryInput{BatsmanName: "A", BowlerName: "B"}); !errors.Is(err, services.ErrForbiddenOperation) {
		t.Errorf("other organizer delivery error = %v, want ErrForbiddenOperation", err)
	}
	if _, err := h.scoring.RecordDelivery(ctx, organizer, 9999, services.RecordDeliveryInput{BatsmanName: "A", BowlerName: "B"}); !errors.Is(err, services.ErrMatchNotFound) {
		t.Errorf("unknown match error = %v, want ErrMatchNotFound", err)
	}
}
