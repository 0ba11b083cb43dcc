// Package http exposes the budget session as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"meudinheiro/internal/log"
	"meudinheiro/internal/middleware/ratelimit"
	"meudinheiro/internal/middleware/security"
	"meudinheiro/internal/middleware/trace"
	"meudinheiro/internal/services"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Options carries the optional collaborators of a Server.
type Options struct {
	Logger *log.Logger
	// Limiter throttles mutating requests per client IP. Nil disables it.
	Limiter *ratelimit.Limiter
}

type Server struct {
	http.Server
	session *services.Session
	logger  *log.Logger
	tracer  *trace.Middleware
	limiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, session *services.Session, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		session: session,
		logger:  opts.Logger.WithComponent(log.ComponentHTTP),
		limiter: opts.Limiter,
	}
	s.tracer = trace.NewMiddleware(opts.Logger, extractClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/profile", s.handleGetProfile)
	mux.HandleFunc("PUT /api/profile", s.handleUpdateProfile)
	mux.HandleFunc("POST /api/onboarding", s.handleOnboarding)
	mux.HandleFunc("GET /api/view", s.handleGetView)
	mux.HandleFunc("PUT /api/view", s.handleSetView)
	mux.HandleFunc("GET /api/range", s.handleGetRange)
	mux.HandleFunc("PUT /api/range", s.handleSetRange)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("GET /api/cards", s.handleListCards)
	mux.HandleFunc("POST /api/cards", s.handleCreateCard)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/cashflow", s.handleCashFlow)
	mux.HandleFunc("GET /api/planning", s.handlePlanning)
	mux.HandleFunc("GET /api/categories", handleCategories)

	mux.HandleFunc("GET /api/notifications", s.handleListNotifications)
	mux.HandleFunc("POST /api/notifications", s.handleCreateNotification)
	mux.HandleFunc("DELETE /api/notifications/{id}", s.handleDismissNotification)

	mux.HandleFunc("POST /api/session/reset", s.handleReset)

	var handler http.Handler = mux
	if s.limiter != nil {
		handler = s.limitMutations(handler)
	}
	handler = security.NewHeadersMiddleware(security.APIHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)
	s.Handler = handler

	return s
}

// limitMutations applies the rate limiter to everything but reads.
func (s *Server) limitMutations(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(extractClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, extractClientIP(r),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		writeJSON(w, http.StatusTooManyRequests, errorBody{
			Error: "rate limit exceeded, try again later",
			Code:  "rate_limited",
		})
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			limited.ServeHTTP(w, r)
		}
	})
}

// Metrics reports request counters collected by the tracing middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}

// Shutdown gracefully stops the HTTP server. Later calls are no-ops.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.Info("Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	m := s.tracer.GetMetrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ready",
		"setupComplete":  s.session.SetupComplete(),
		"totalRequests":  m.TotalRequests,
		"serverErrors":   m.ServerErrors,
		"lastDurationUs": m.LastDurationUs,
	})
}
