// internal/models/friend.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the state of a stored friend request. Only pending is ever
// persisted; accepted and rejected requests are deleted.
type RequestStatus string

const StatusPending RequestStatus = "pending"

// PendingRequest is a recipient-held friend request.
//
// From is always the raw requester id. Sender is set by backends that store a
// denormalized copy of the requester's profile; together they form a
// reference that is either already resolved or still needs a lookup.
type PendingRequest struct {
	From      uuid.UUID     `json:"from"`
	Sender    *Profile      `json:"sender,omitempty"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// Resolved reports whether the request already carries the requester profile.
func (pr PendingRequest) Resolved() bool {
	return pr.Sender != nil && pr.Sender.ID == pr.From
}

func (pr PendingRequest) clone() PendingRequest {
	if pr.Sender != nil {
		s := *pr.Sender
		pr.Sender = &s
	}
	return pr
}

// NewPendingRequest builds a pending request from the given sender.
func NewPendingRequest(from uuid.UUID, at time.Time) PendingRequest {
	return PendingRequest{
		From:      from,
		Status:    StatusPending,
		CreatedAt: at.UTC(),
	}
}
