// internal/cache/events.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deepanshu089/linkedin-lite/internal/relationship"
	"github.com/redis/go-redis/v9"
)

// EventPublisher pushes relationship events onto a Redis list for
// notification consumers.
type EventPublisher struct {
	rdb   redis.Cmdable
	queue string
}

var _ relationship.Notifier = (*EventPublisher)(nil)

func NewEventPublisher(rdb redis.Cmdable, queue string) *EventPublisher {
	return &EventPublisher{rdb: rdb, queue: queue}
}

func (p *EventPublisher) Publish(ctx context.Context, ev relationship.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal relationship event: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}
