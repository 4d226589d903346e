// internal/handlers/user.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/deepanshu089/linkedin-lite/internal/auth"
	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/deepanshu089/linkedin-lite/internal/store"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// UserStore is what the identity endpoints need from the record store.
type UserStore interface {
	store.Accounts
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// hashParams is swapped for cheaper settings in tests.
var hashParams = auth.DefaultParams

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

// CreateUserHandler registers an account and returns its profile.
func CreateUserHandler(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "BadRequest", Message: "invalid payload"})
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "BadRequest", Message: "email and password are required"})
			return
		}

		hash, err := auth.HashPassword(req.Password, hashParams)
		if err != nil {
			log.WithError(err).Error("failed to hash password")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal", Message: "error creating user"})
			return
		}
		u := &models.User{
			Email:    req.Email,
			Password: hash,
			Name:     req.Name,
			Bio:      req.Bio,
			Avatar:   req.Avatar,
		}
		if err := users.CreateUser(r.Context(), u); err != nil {
			if errors.Is(err, store.ErrEmailTaken) {
				writeJSON(w, http.StatusConflict, errorResponse{Error: "EmailTaken", Message: "email already exists"})
				return
			}
			log.WithError(err).Error("failed to create user")
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "StoreUnavailable", Message: "error creating user"})
			return
		}
		writeJSON(w, http.StatusCreated, u.Profile())
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}

// LoginHandler checks credentials and issues a session token, both in the
// body and as the auth_token cookie.
func LoginHandler(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "BadRequest", Message: "invalid request payload"})
			return
		}

		u, err := users.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.WithError(err).Error("failed to load user for login")
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "StoreUnavailable", Message: "authentication failed"})
			return
		}
		if err != nil || !passwordMatches(req.Password, u.Password) {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "Forbidden", Message: "authentication failed"})
			return
		}

		token, err := auth.CreateJWT(u.ID)
		if err != nil {
			log.WithError(err).Error("failed to create jwt")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal", Message: "authentication failed"})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     auth.CookieName,
			Value:    token,
			HttpOnly: true,
			Path:     "/",
			MaxAge:   int(auth.TokenTTL().Seconds()),
		})
		writeJSON(w, http.StatusOK, loginResponse{Token: token, User: u.Profile()})
	}
}

func passwordMatches(password, hash string) bool {
	ok, err := auth.VerifyPassword(password, hash)
	if err != nil {
		log.WithError(err).Warn("stored password hash is unusable")
		return false
	}
	return ok
}

// GetUserHandler returns the public profile of {id}.
func GetUserHandler(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authenticate(w, r); !ok {
			return
		}
		id, ok := pathUserID(w, r, "id")
		if !ok {
			return
		}
		u, err := users.GetUser(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "UserNotFound", Message: "User not found"})
			return
		}
		if err != nil {
			log.WithError(err).Error("failed to load user")
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "StoreUnavailable", Message: "Service temporarily unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, u.Profile())
	}
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
