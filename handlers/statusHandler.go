package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// SessionCounter exposes how many chats currently hold a live session.
type SessionCounter interface {
	ActiveSessions() int
}

// StatusHandler serves the operational endpoints that run alongside the
// Telegram poller.
type StatusHandler struct {
	startedAt time.Time
	sessions  SessionCounter
	toolCount int
}

func NewStatusHandler(sessions SessionCounter, toolCount int) *StatusHandler {
	return &StatusHandler{
		startedAt: time.Now(),
		sessions:  sessions,
		toolCount: toolCount,
	}
}

func (h *StatusHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Health).Methods("GET")
	router.HandleFunc("/status", h.Status).Methods("GET")
}

func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}

func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{
		"uptime_seconds":  int64(time.Since(h.startedAt).Seconds()),
		"active_sessions": h.sessions.ActiveSessions(),
		"tools":           h.toolCount,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(payload)
}
