package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Dosada05/cricket-scorer/models"
	"github.com/redis/go-redis/v9"
)

// StreamPublisher appends live scoring events to a Redis stream.
type StreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		stream: stream,
		maxLen: 100000,
	}
}

// Publish adds the event to the stream, trimming it approximately to maxLen.
func (p *StreamPublisher) Publish(ctx context.Context, ev models.LiveEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", ev.Type, err)
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data":     string(data),
			"type":     ev.Type,
			"event_id": ev.ID,
			"match_id": strconv.Itoa(ev.MatchID),
		},
	}).Err()
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}
