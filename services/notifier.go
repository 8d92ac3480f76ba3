package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dosada05/cricket-scorer/brackets"
	"github.com/Dosada05/cricket-scorer/models"
	"github.com/google/uuid"
)

// RoomBroadcaster is implemented by *brackets.Hub.
type RoomBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{}) error
}

// EventPublisher is implemented by *publisher.StreamPublisher.
type EventPublisher interface {
	Publish(ctx context.Context, ev models.LiveEvent) error
}

// LiveNotifier fans committed scoring events out to websocket rooms and
// external streams. Failures are logged and never returned: the write that
// produced the event is already committed.
type LiveNotifier struct {
	hub        RoomBroadcaster
	publishers []EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewLiveNotifier(hub RoomBroadcaster, logger *slog.Logger, publishers ...EventPublisher) *LiveNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveNotifier{
		hub:        hub,
		publishers: publishers,
		logger:     logger,
		now:        time.Now,
	}
}

func (n *LiveNotifier) Notify(ctx context.Context, eventType string, matchID, tournamentID int, payload interface{}) {
	if n == nil {
		return
	}
	ev := models.LiveEvent{
		ID:           uuid.NewString(),
		Type:         eventType,
		MatchID:      matchID,
		TournamentID: tournamentID,
		Payload:      payload,
		At:           n.now().UTC(),
	}

	if n.hub != nil {
		rooms := make([]string, 0, 2)
		if matchID > 0 {
			rooms = append(rooms, brackets.MatchRoom(matchID))
		}
		if tournamentID > 0 {
			rooms = append(rooms, brackets.TournamentRoom(tournamentID))
		}
		for _, room := range rooms {
			msg := brackets.WebSocketMessage{Type: eventType, Payload: ev, RoomID: room}
			if err := n.hub.BroadcastToRoom(room, msg); err != nil {
				n.logger.WarnContext(ctx, "websocket broadcast failed",
					slog.String("room", room), slog.String("event_type", eventType), slog.Any("error", err))
			}
		}
	}

	for _, p := range n.publishers {
		if err := p.Publish(ctx, ev); err != nil {
			n.logger.WarnContext(ctx, "event publish failed",
				slog.String("event_id", ev.ID), slog.String("event_type", eventType), slog.Any("error", err))
		}
	}
}
