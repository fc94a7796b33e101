// Package server is the gateway's HTTP surface: the endpoints the browser UI
// calls. Handlers orchestrate backend fetches and the pure booking/scoring
// logic; no handler owns durable state.
package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"equishare-gateway/internal/backend"
	"equishare-gateway/internal/session"
)

// Server wires the router to its collaborators.
type Server struct {
	router     *mux.Router
	backend    *backend.Client
	sessions   *session.Manager
	cookieName string
	cookieTTL  time.Duration
}

// New builds the gateway server and registers all routes.
func New(client *backend.Client, sessions *session.Manager, cookieName string, cookieTTL time.Duration) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		backend:    client,
		sessions:   sessions,
		cookieName: cookieName,
		cookieTTL:  cookieTTL,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	// Session lifecycle
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", s.withSession(s.handleMe)).Methods(http.MethodGet)

	// Tools
	r.HandleFunc("/tools", s.withSession(s.handleListTools)).Methods(http.MethodGet)
	r.HandleFunc("/tools", s.withSession(s.handleCreateTool)).Methods(http.MethodPost)
	r.HandleFunc("/tools/{id:[0-9]+}", s.withSession(s.handleGetTool)).Methods(http.MethodGet)
	r.HandleFunc("/tools/{id:[0-9]+}", s.withSession(s.handleUpdateTool)).Methods(http.MethodPatch)
	r.HandleFunc("/tools/{id:[0-9]+}", s.withSession(s.handleDeleteTool)).Methods(http.MethodDelete)
	r.HandleFunc("/tools/{id:[0-9]+}/availability", s.withSession(s.handleToolAvailability)).Methods(http.MethodGet)

	// Booking
	r.HandleFunc("/booking/quote", s.withSession(s.handleQuote)).Methods(http.MethodPost)
	r.HandleFunc("/booking/confirm", s.withSession(s.handleConfirmBooking)).Methods(http.MethodPost)

	// Rentals
	r.HandleFunc("/rentals", s.withSession(s.handleListRentals)).Methods(http.MethodGet)
	r.HandleFunc("/rentals/{id:[0-9]+}/return", s.withSession(s.handleReturnRental)).Methods(http.MethodPost)

	// Borrow requests
	r.HandleFunc("/requests", s.withSession(s.handleListRequests)).Methods(http.MethodGet)
	r.HandleFunc("/requests/{id:[0-9]+}/approve", s.withSession(s.handleApproveRequest)).Methods(http.MethodPost)
	r.HandleFunc("/requests/{id:[0-9]+}/reject", s.withSession(s.handleRejectRequest)).Methods(http.MethodPost)
	r.HandleFunc("/requests/{id:[0-9]+}/cancel", s.withSession(s.handleCancelRequest)).Methods(http.MethodPost)

	// Deposits
	r.HandleFunc("/deposits", s.withSession(s.handleListDeposits)).Methods(http.MethodGet)

	// Reviews
	r.HandleFunc("/tools/{id:[0-9]+}/feedback", s.withSession(s.handleCreateFeedback)).Methods(http.MethodPost)
	r.HandleFunc("/reviews", s.withSession(s.handleListReviews)).Methods(http.MethodGet)
	r.HandleFunc("/reviews", s.withSession(s.handleCreateReview)).Methods(http.MethodPost)

	// Profile
	r.HandleFunc("/profile/stats", s.withSession(s.handleProfileStats)).Methods(http.MethodGet)
	r.HandleFunc("/profile", s.withSession(s.handleUpdateProfile)).Methods(http.MethodPatch)
}

// Handler returns the router wrapped with recovery, request logging, and
// CORS middleware.
func (s *Server) Handler() http.Handler {
	h := handlers.CORS(
		handlers.AllowCredentials(),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(s.router)
	h = handlers.CombinedLoggingHandler(os.Stdout, h)
	return handlers.RecoveryHandler()(h)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}
