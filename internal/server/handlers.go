package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avragame/aura-engine/internal/domain"
	"github.com/avragame/aura-engine/internal/logger"
	"github.com/avragame/aura-engine/internal/storage"
)

// maxNotificationDrain caps how many queued notifications a single poll
// returns, so one request cannot loop forever on a busy account.
const maxNotificationDrain = 50

// HealthResponse represents the response for health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

func handleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// handleReadyz validates store connectivity before reporting ready.
func handleReadyz(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			slog.Error("Readiness check failed", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  "unavailable",
				Message: "store connection failed",
			})
			return
		}

		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// OpenSessionRequest identifies or creates the player for a session.
// An empty player_id registers a fresh account.
type OpenSessionRequest struct {
	PlayerID string `json:"player_id" validate:"max=64"`
	Name     string `json:"name" validate:"max=100,excludesall=\x00\n\r\t"`
}

// OpenSessionResponse returns the bound account.
type OpenSessionResponse struct {
	Player *domain.Player `json:"player"`
}

func (s *Server) handleOpenSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req OpenSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode open session request", "error", err)
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validateStruct(req); err != nil {
			respondError(w, http.StatusBadRequest, formatValidationError(err))
			return
		}

		sess, err := s.sessions.Acquire(r.Context(), req.PlayerID, req.Name, time.Now())
		if err != nil {
			log.Error("Failed to open session", "error", err, "playerID", req.PlayerID)
			respondError(w, http.StatusInternalServerError, "Failed to open session")
			return
		}

		p, err := s.players.Get(r.Context(), sess.PlayerID)
		if err != nil || p == nil {
			log.Error("Failed to load player after session open", "error", err, "playerID", sess.PlayerID)
			respondError(w, http.StatusInternalServerError, "Failed to open session")
			return
		}

		respondJSON(w, http.StatusOK, OpenSessionResponse{Player: p})
	}
}

func (s *Server) handleCloseSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := chi.URLParam(r, "playerID")
		s.sessions.Close(r.Context(), playerID)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Session closed"})
	}
}

// CommandRequest carries one raw input line from a player.
type CommandRequest struct {
	PlayerID string `json:"player_id" validate:"required,max=64"`
	Input    string `json:"input" validate:"max=500"`
}

func (s *Server) handleCommand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CommandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode command request", "error", err)
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validateStruct(req); err != nil {
			respondError(w, http.StatusBadRequest, formatValidationError(err))
			return
		}

		sess, ok := s.sessions.Get(req.PlayerID)
		if !ok {
			respondError(w, http.StatusNotFound, "No open session for that player")
			return
		}

		out := sess.Execute(r.Context(), req.Input, time.Now())
		if out == nil {
			// Empty input is silently ignored.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		respondJSON(w, http.StatusOK, out)
	}
}

// LeaderboardResponse wraps the visible top entries.
type LeaderboardResponse struct {
	Entries []domain.LeaderboardEntry `json:"entries"`
}

func (s *Server) handleLeaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 100 {
				respondError(w, http.StatusBadRequest, "limit must be between 1 and 100")
				return
			}
			limit = n
		}

		entries, err := s.board.Top(r.Context(), limit)
		if err != nil {
			log.Error("Failed to fetch leaderboard", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to fetch leaderboard")
			return
		}
		if entries == nil {
			entries = []domain.LeaderboardEntry{}
		}
		respondJSON(w, http.StatusOK, LeaderboardResponse{Entries: entries})
	}
}

func (s *Server) handleGetPlayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		p, err := s.players.Get(r.Context(), chi.URLParam(r, "playerID"))
		if err != nil {
			log.Error("Failed to load player", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to load player")
			return
		}
		if p == nil {
			respondError(w, http.StatusNotFound, "Player not found")
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

// NotificationsResponse carries drained notifications, oldest first.
type NotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}

func (s *Server) handleNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		playerID := chi.URLParam(r, "playerID")

		drained := make([]domain.Notification, 0)
		for len(drained) < maxNotificationDrain {
			n, err := s.players.PopNotification(r.Context(), playerID)
			if err != nil {
				if errors.Is(err, domain.ErrPlayerNotFound) {
					respondError(w, http.StatusNotFound, "Player not found")
					return
				}
				log.Error("Failed to pop notification", "error", err, "playerID", playerID)
				respondError(w, http.StatusInternalServerError, "Failed to fetch notifications")
				return
			}
			if n == nil {
				break
			}
			drained = append(drained, *n)
		}
		respondJSON(w, http.StatusOK, NotificationsResponse{Notifications: drained})
	}
}

// RenameRequest carries the new display name.
type RenameRequest struct {
	Name string `json:"name" validate:"required,max=100,excludesall=\x00\n\r\t"`
}

func (s *Server) handleRename() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RenameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode rename request", "error", err)
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validateStruct(req); err != nil {
			respondError(w, http.StatusBadRequest, formatValidationError(err))
			return
		}

		err := s.players.Rename(r.Context(), chi.URLParam(r, "playerID"), req.Name)
		switch {
		case errors.Is(err, domain.ErrPlayerNotFound):
			respondError(w, http.StatusNotFound, "Player not found")
		case errors.Is(err, domain.ErrInvalidInput):
			respondError(w, http.StatusBadRequest, "Invalid name")
		case err != nil:
			log.Error("Failed to rename player", "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to rename player")
		default:
			respondJSON(w, http.StatusOK, SuccessResponse{Message: "Name updated"})
		}
	}
}

func (s *Server) handleSpawnLootbox() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.boxes.SpawnNow(r.Context())
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Lootbox spawned"})
	}
}
