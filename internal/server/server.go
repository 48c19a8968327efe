package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/alert"
	"fintrack/internal/handler"
	"fintrack/internal/middleware"
	"fintrack/internal/report"
	"fintrack/internal/store"
	ws "fintrack/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	familyH      *handler.FamilyHandler
	expenseH     *handler.ExpenseHandler
	budgetH      *handler.BudgetHandler
	goalH        *handler.GoalHandler
	dashboardH   *handler.DashboardHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, alertCfg alert.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	familyStore := store.NewFamilyStore(db)
	expenseStore := store.NewExpenseStore(db)
	budgetStore := store.NewBudgetStore(db)
	goalStore := store.NewGoalStore(db)

	reportSvc := report.NewService(db)
	dispatcher := alert.NewDispatcher(alertCfg, logger.With("component", "alert"))

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, sessionStore, logger.With("component", "auth")),
		familyH:      handler.NewFamilyHandler(familyStore, hub, logger.With("component", "family")),
		expenseH:     handler.NewExpenseHandler(expenseStore, hub, logger.With("component", "expense")),
		budgetH:      handler.NewBudgetHandler(budgetStore, hub, logger.With("component", "budget")),
		goalH:        handler.NewGoalHandler(goalStore, hub, logger.With("component", "goal")),
		dashboardH:   handler.NewDashboardHandler(userStore, budgetStore, reportSvc, dispatcher, hub, logger.With("component", "dashboard")),
		sessionStore: sessionStore,
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

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /password-reset/request", s.rateLimitedHandler(s.authH.RequestPasswordReset))
	outerMux.HandleFunc("POST /password-reset/confirm", s.rateLimitedHandler(s.authH.ConfirmPasswordReset))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
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
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Family API routes
	mux.HandleFunc("GET /api/family", s.familyH.List)
	mux.HandleFunc("POST /api/family", s.familyH.Add)
	mux.HandleFunc("PUT /api/family", s.familyH.Replace)
	mux.HandleFunc("DELETE /api/family/{identifier}", s.familyH.Delete)

	// Expense API routes
	mux.HandleFunc("GET /api/expenses", s.expenseH.List)
	mux.HandleFunc("POST /api/expenses", s.expenseH.Add)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.expenseH.Delete)

	// Budget API routes
	mux.HandleFunc("GET /api/budget", s.budgetH.Get)
	mux.HandleFunc("PUT /api/budget", s.budgetH.Set)
	mux.HandleFunc("DELETE /api/budget", s.budgetH.Delete)

	// Savings goal API routes
	mux.HandleFunc("GET /api/goals", s.goalH.List)
	mux.HandleFunc("POST /api/goals", s.goalH.Add)
	mux.HandleFunc("DELETE /api/goals/{identifier}", s.goalH.Delete)

	// Dashboard
	mux.HandleFunc("GET /api/dashboard", s.dashboardH.Summary)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.Handle(s.hub, s.logger.With("component", "websocket")))
}
