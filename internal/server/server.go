package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avragame/aura-engine/internal/leaderboard"
	"github.com/avragame/aura-engine/internal/logger"
	"github.com/avragame/aura-engine/internal/lootbox"
	"github.com/avragame/aura-engine/internal/metrics"
	"github.com/avragame/aura-engine/internal/player"
	"github.com/avragame/aura-engine/internal/push"
	"github.com/avragame/aura-engine/internal/session"
	"github.com/avragame/aura-engine/internal/storage"
)

type Server struct {
	httpServer *http.Server
	store      storage.Store
	sessions   *session.Manager
	players    player.Service
	board      *leaderboard.Service
	boxes      *lootbox.Manager
	hub        *push.Hub
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, store storage.Store, sessions *session.Manager, players player.Service, board *leaderboard.Service, boxes *lootbox.Manager, hub *push.Hub) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(AuthMiddleware(apiKey))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handleHealthz())
	r.Get("/readyz", handleReadyz(store))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Live effect and notification stream
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		push.ServeWs(hub, slog.Default(), w, req)
	})

	srv := &Server{
		store:    store,
		sessions: sessions,
		players:  players,
		board:    board,
		boxes:    boxes,
		hub:      hub,
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", srv.handleOpenSession())
		r.Delete("/session/{playerID}", srv.handleCloseSession())
		r.Post("/command/execute", srv.handleCommand())
		r.Get("/leaderboard", srv.handleLeaderboard())

		r.Route("/player", func(r chi.Router) {
			r.Get("/{playerID}", srv.handleGetPlayer())
			r.Get("/{playerID}/notifications", srv.handleNotifications())
			r.Post("/{playerID}/rename", srv.handleRename())
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/lootbox/spawn", srv.handleSpawnLootbox())
		})
	})

	srv.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		// Log request start with details
		log.Info("Request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
		duration := time.Since(start)
		log.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info("Server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
