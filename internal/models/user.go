// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the stored account record. Friends and PendingRequests are owned by
// the record itself and written only by the relationship engine.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Name     string    `json:"name"`
	Bio      string    `json:"bio"`
	Avatar   string    `json:"avatar"`

	Friends         []uuid.UUID      `json:"friends"`
	PendingRequests []PendingRequest `json:"pending_requests"`

	// Version is bumped by the store on every successful save and used for
	// conditional writes.
	Version int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Profile is the lightweight public view of a user.
type Profile struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Bio    string    `json:"bio"`
}

// Profile returns the public view of u.
func (u *User) Profile() Profile {
	return Profile{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Bio:    u.Bio,
	}
}

// Clone returns a deep copy so callers can mutate relationship fields without
// touching a shared record.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Friends != nil {
		c.Friends = append([]uuid.UUID(nil), u.Friends...)
	}
	if u.PendingRequests != nil {
		c.PendingRequests = make([]PendingRequest, len(u.PendingRequests))
		for i, pr := range u.PendingRequests {
			c.PendingRequests[i] = pr.clone()
		}
	}
	return &c
}
