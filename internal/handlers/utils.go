// internal/handlers/utils.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/deepanshu089/linkedin-lite/internal/auth"
	"github.com/deepanshu089/linkedin-lite/internal/relationship"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var kindStatus = map[relationship.Kind]int{
	relationship.InvalidTarget:          http.StatusBadRequest,
	relationship.UserNotFound:           http.StatusNotFound,
	relationship.AlreadyFriends:         http.StatusConflict,
	relationship.DuplicateRequest:       http.StatusConflict,
	relationship.RequestNotFound:        http.StatusNotFound,
	relationship.StoreUnavailable:       http.StatusServiceUnavailable,
	relationship.ConflictRetryExhausted: http.StatusConflict,
}

var kindMessage = map[relationship.Kind]string{
	relationship.InvalidTarget:          "Invalid target user",
	relationship.UserNotFound:           "User not found",
	relationship.AlreadyFriends:         "Already friends",
	relationship.DuplicateRequest:       "Friend request already pending",
	relationship.RequestNotFound:        "Friend request not found",
	relationship.StoreUnavailable:       "Service temporarily unavailable",
	relationship.ConflictRetryExhausted: "Too many concurrent updates, try again",
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError renders a relationship failure. Anything else is a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := relationship.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		log.WithError(err).WithField("path", r.URL.Path).Error("unexpected error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal", Message: "Internal server error"})
		return
	}
	if status >= http.StatusInternalServerError || kind == relationship.ConflictRetryExhausted {
		log.WithError(err).WithField("path", r.URL.Path).Warn("relationship operation failed")
	}
	writeJSON(w, status, errorResponse{Error: kind.String(), Message: kindMessage[kind]})
}

// authenticate resolves the caller or writes 401/403 and reports false.
func authenticate(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := auth.UserIDFromRequest(r)
	if errors.Is(err, auth.ErrNoToken) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized", Message: "missing auth_token"})
		return uuid.Nil, false
	}
	if err != nil {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "Forbidden", Message: "invalid token"})
		return uuid.Nil, false
	}
	return id, true
}

// pathUserID parses the {userId} wildcard or writes a 400.
func pathUserID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   relationship.InvalidTarget.String(),
			Message: "invalid user id",
		})
		return uuid.Nil, false
	}
	return id, true
}
