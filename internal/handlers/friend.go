// internal/handlers/friend.go
package handlers

import (
	"net/http"

	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/deepanshu089/linkedin-lite/internal/relationship"
	"github.com/google/uuid"
)

// ListFriendsHandler returns the caller's friends and the senders of pending
// requests addressed to them.
//
// Response payload:
//
//	{ "friends": [Profile], "pending": [Profile] }
func ListFriendsHandler(e *relationship.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		self, ok := authenticate(w, r)
		if !ok {
			return
		}
		ov, err := e.ListFriendsAndPending(r.Context(), self)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ov)
	}
}

type discoverResponse struct {
	Users []models.Profile `json:"users"`
}

// DiscoverHandler returns one page of users the caller has no relationship
// with.
func DiscoverHandler(e *relationship.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		self, ok := authenticate(w, r)
		if !ok {
			return
		}
		users, err := e.Discover(r.Context(), self)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, discoverResponse{Users: users})
	}
}

// pairHandler adapts an engine mutation on (caller, {userId}) to HTTP.
func pairHandler(status int, msg string, op func(r *http.Request, self, other uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		self, ok := authenticate(w, r)
		if !ok {
			return
		}
		other, ok := pathUserID(w, r, "userId")
		if !ok {
			return
		}
		if err := op(r, self, other); err != nil {
			writeError(w, r, err)
			return
		}
		writeMessage(w, status, msg)
	}
}

func SendRequestHandler(e *relationship.Engine) http.HandlerFunc {
	return pairHandler(http.StatusCreated, "Friend request sent", func(r *http.Request, self, other uuid.UUID) error {
		return e.SendRequest(r.Context(), self, other)
	})
}

func AcceptRequestHandler(e *relationship.Engine) http.HandlerFunc {
	return pairHandler(http.StatusOK, "Friend request accepted", func(r *http.Request, self, other uuid.UUID) error {
		return e.AcceptRequest(r.Context(), self, other)
	})
}

func RejectRequestHandler(e *relationship.Engine) http.HandlerFunc {
	return pairHandler(http.StatusOK, "Friend request rejected", func(r *http.Request, self, other uuid.UUID) error {
		return e.RejectRequest(r.Context(), self, other)
	})
}

func RemoveFriendHandler(e *relationship.Engine) http.HandlerFunc {
	return pairHandler(http.StatusOK, "Friend removed", func(r *http.Request, self, other uuid.UUID) error {
		return e.RemoveFriend(r.Context(), self, other)
	})
}

// CheckFriendHandler answers whether the caller and {userId} are friends.
// Messaging uses it to gate conversations.
func CheckFriendHandler(e *relationship.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		self, ok := authenticate(w, r)
		if !ok {
			return
		}
		other, ok := pathUserID(w, r, "userId")
		if !ok {
			return
		}
		friends, err := e.IsFriend(r.Context(), self, other)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"friends": friends})
	}
}
