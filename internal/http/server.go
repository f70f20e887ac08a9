// Package http exposes the JSON API: authentication, expense and category
// CRUD, monthly budgets and the three reports.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"spendtrack/internal/auth"
	"spendtrack/internal/middleware/ratelimit"
	"spendtrack/internal/middleware/security"
	"spendtrack/internal/middleware/trace"
	"spendtrack/internal/report"
	"spendtrack/internal/services"
	"spendtrack/internal/storage"
)

// Server wires handlers, middleware and graceful shutdown around the stdlib
// http.Server.
type Server struct {
	http.Server

	authSvc     *auth.Service
	expenses    *services.ExpenseService
	repo        *storage.SQLiteRepository
	reports     *report.Builder
	budgets     *report.Resolver
	rateLimiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// Options carries the tunables NewServer needs beyond its dependencies.
type Options struct {
	Addr               string
	RateLimitPerMinute int
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options, authSvc *auth.Service, expenses *services.ExpenseService, repo *storage.SQLiteRepository, reports *report.Builder, budgets *report.Resolver) *Server {
	s := &Server{
		authSvc:  authSvc,
		expenses: expenses,
		repo:     repo,
		reports:  reports,
		budgets:  budgets,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)

	mux.Handle("POST /api/expenses", s.requireAuth(s.handleCreateExpense))
	mux.Handle("GET /api/expenses", s.requireAuth(s.handleListExpenses))
	mux.Handle("GET /api/expenses/{id}", s.requireAuth(s.handleGetExpense))
	mux.Handle("PUT /api/expenses/{id}", s.requireAuth(s.handleUpdateExpense))
	mux.Handle("DELETE /api/expenses/{id}", s.requireAuth(s.handleDeleteExpense))

	mux.Handle("GET /api/categories", s.requireAuth(s.handleListCategories))
	mux.Handle("POST /api/categories", s.requireAuth(s.handleCreateCategory))

	mux.Handle("GET /api/budgets/monthly", s.requireAuth(s.handleGetBudget))
	mux.Handle("PUT /api/budgets/monthly", s.requireAuth(s.handleUpsertBudget))

	mux.Handle("GET /api/reports/summary", s.requireAuth(s.handleReportSummary))
	mux.Handle("GET /api/reports/by-category", s.requireAuth(s.handleReportByCategory))
	mux.Handle("GET /api/reports/monthly-trend", s.requireAuth(s.handleReportTrend))

	ipResolver := security.NewClientIPResolver()
	tracer := trace.NewMiddleware(ipResolver.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.rateLimiter.Middleware(ipResolver.ExtractClientIP, rateLimited)

	var handler http.Handler = mux
	handler = limit(handler)
	handler = headers.Middleware(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func rateLimited(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
}

// Shutdown stops the listener and the rate limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
