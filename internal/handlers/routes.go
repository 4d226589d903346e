// internal/handlers/routes.go
package handlers

import (
	"net/http"

	"github.com/deepanshu089/linkedin-lite/internal/middleware"
	"github.com/deepanshu089/linkedin-lite/internal/relationship"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter wires every endpoint behind request logging and panic recovery.
func NewRouter(logger logrus.FieldLogger, e *relationship.Engine, users UserStore) http.Handler {
	mux := http.NewServeMux()

	// user endpoints
	mux.HandleFunc("POST /api/users/register", CreateUserHandler(users))
	mux.HandleFunc("POST /api/users/login", LoginHandler(users))
	mux.HandleFunc("GET /api/users/{id}", GetUserHandler(users))

	// friend endpoints
	mux.HandleFunc("GET /api/friends", ListFriendsHandler(e))
	mux.HandleFunc("GET /api/friends/discover", DiscoverHandler(e))
	mux.HandleFunc("POST /api/friends/request/{userId}", SendRequestHandler(e))
	mux.HandleFunc("POST /api/friends/accept/{userId}", AcceptRequestHandler(e))
	mux.HandleFunc("POST /api/friends/reject/{userId}", RejectRequestHandler(e))
	mux.HandleFunc("DELETE /api/friends/remove/{userId}", RemoveFriendHandler(e))
	mux.HandleFunc("GET /api/friends/check/{userId}", CheckFriendHandler(e))

	mux.HandleFunc("GET /api/health", HealthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.Recover(logger)(middleware.LogMiddleware(logger)(mux))
}
