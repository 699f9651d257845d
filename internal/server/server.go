package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"ecc-register/internal/export"
	"ecc-register/internal/handler"
	"ecc-register/internal/live"
	"ecc-register/internal/middleware"
	"ecc-register/internal/reconcile"
	"ecc-register/internal/store"
	ws "ecc-register/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	feed         *live.Feed
	reconciler   *reconcile.Reconciler
	authH        *handler.AuthHandler
	eventH       *handler.EventHandler
	categoryH    *handler.CategoryHandler
	attendeeH    *handler.AttendeeHandler
	totalH       *handler.TotalHandler
	exportH      *handler.ExportHandler
	sessionStore *store.SessionStore
	userStore    *store.UserStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, s3Cfg export.S3Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	eventStore := store.NewEventStore(db)
	categoryStore := store.NewCategoryStore(db)
	attendeeStore := store.NewAttendeeStore(db)
	totalStore := store.NewTotalStore(db)
	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)

	feed := live.NewFeed(hub, eventStore, categoryStore, attendeeStore, totalStore,
		logger.With("component", "live"))
	reconciler := reconcile.New(attendeeStore, feed, logger.With("component", "reconcile"))
	archiver := export.NewArchiver(s3Cfg, logger.With("component", "archive"))

	return &Server{
		db:           db,
		hub:          hub,
		feed:         feed,
		reconciler:   reconciler,
		authH:        handler.NewAuthHandler(userStore, sessionStore, logger.With("component", "auth")),
		eventH:       handler.NewEventHandler(eventStore, feed, logger.With("component", "event")),
		categoryH:    handler.NewCategoryHandler(categoryStore, reconciler, feed, logger.With("component", "category")),
		attendeeH:    handler.NewAttendeeHandler(attendeeStore, categoryStore, feed, logger.With("component", "attendee")),
		totalH:       handler.NewTotalHandler(totalStore, feed, logger.With("component", "total")),
		exportH:      handler.NewExportHandler(attendeeStore, archiver, logger.With("component", "export")),
		sessionStore: sessionStore,
		userStore:    userStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Reconciler returns the background reconciliation worker for lifecycle
// management.
func (s *Server) Reconciler() *reconcile.Reconciler {
	return s.reconciler
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("GET /api/session", s.authH.Session)
	outerMux.HandleFunc("GET /export", s.exportH.Export)
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/logout", s.authH.Logout)

	// Event API routes
	mux.HandleFunc("POST /api/events", s.eventH.Create)
	mux.HandleFunc("GET /api/events", s.eventH.List)
	mux.HandleFunc("GET /api/events/{id}", s.eventH.Get)
	mux.HandleFunc("DELETE /api/events/{id}", s.eventH.Delete)

	// Category API routes
	mux.HandleFunc("POST /api/events/{event_id}/categories", s.categoryH.Create)
	mux.HandleFunc("GET /api/events/{event_id}/categories", s.categoryH.List)
	mux.HandleFunc("PUT /api/categories/{id}", s.categoryH.Update)
	mux.HandleFunc("DELETE /api/categories/{id}", s.categoryH.Delete)

	// Attendee API routes
	mux.HandleFunc("POST /api/events/{event_id}/attendees", s.attendeeH.Create)
	mux.HandleFunc("GET /api/events/{event_id}/attendees", s.attendeeH.List)
	mux.HandleFunc("PUT /api/attendees/{id}", s.attendeeH.Update)
	mux.HandleFunc("DELETE /api/attendees/{id}", s.attendeeH.Delete)

	// Attendance routes
	mux.HandleFunc("POST /api/attendees/{id}/present", s.attendeeH.SetPresent)
	mux.HandleFunc("POST /api/events/{event_id}/attendance/clear", s.attendeeH.ClearPresent)
	mux.HandleFunc("GET /api/events/{event_id}/attendance", s.attendeeH.Tally)

	// Total API routes
	mux.HandleFunc("POST /api/events/{event_id}/totals", s.totalH.Create)
	mux.HandleFunc("GET /api/events/{event_id}/totals", s.totalH.List)
	mux.HandleFunc("PUT /api/totals/{id}", s.totalH.Update)
	mux.HandleFunc("DELETE /api/totals/{id}", s.totalH.Delete)

	// WebSocket endpoint for live snapshots
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.feed.InitialMessages))
}
