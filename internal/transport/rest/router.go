package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Amit91848/Leetwars/internal/service"
	"github.com/Amit91848/Leetwars/internal/transport/rest/handler"
	"github.com/Amit91848/Leetwars/internal/transport/rest/middleware"
	"github.com/Amit91848/Leetwars/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	RoomService       *service.RoomService
	SubmissionService *service.SubmissionService
	SessionService    *service.SessionService
	WSHandler         *ws.Handler
	CORSOrigins       string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	roomHandler := handler.NewRoomHandler(c.RoomService)
	submissionHandler := handler.NewSubmissionHandler(c.SubmissionService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware(c.CORSOrigins))

	// Public routes
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// WebSocket route (token in query param)
	r.HandleFunc("/ws", c.WSHandler.ServeWS).Methods("GET")

	// Authenticated routes
	authed := r.NewRoute().Subrouter()
	authed.Use(authMW.RequireUser)

	authed.HandleFunc("/sessions", sessionHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/exit", roomHandler.Exit).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/players", roomHandler.Players).Methods("GET", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}", roomHandler.Join).Methods("POST", "OPTIONS")
	authed.HandleFunc("/submissions", submissionHandler.Record).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(origins string) mux.MiddlewareFunc {
	if origins == "" {
		origins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
