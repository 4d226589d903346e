// internal/relationship/events.go
package relationship

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType names a completed relationship mutation.
type EventType string

const (
	EventRequestSent     EventType = "friend_request_sent"
	EventRequestAccepted EventType = "friend_request_accepted"
	EventRequestRejected EventType = "friend_request_rejected"
	EventFriendRemoved   EventType = "friend_removed"
)

// Event is published after a mutation succeeds. Actor is the user who made
// the call, Target the other side of the pair.
type Event struct {
	Type   EventType `json:"type"`
	Actor  uuid.UUID `json:"actor"`
	Target uuid.UUID `json:"target"`
	At     time.Time `json:"at"`
}

// Notifier delivers events to interested consumers. A failed publish is
// logged and never fails the mutation.
type Notifier interface {
	Publish(ctx context.Context, ev Event) error
}

type nopNotifier struct{}

func (nopNotifier) Publish(context.Context, Event) error { return nil }
