package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"fintrack/internal/auth"
	"fintrack/internal/model"
	"fintrack/internal/store"
	"fintrack/internal/websocket"
)

type GoalHandler struct {
	goals  *store.GoalStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewGoalHandler(gs *store.GoalStore, hub *websocket.Hub, logger *slog.Logger) *GoalHandler {
	return &GoalHandler{goals: gs, hub: hub, logger: logger}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	username := auth.Username(r.Context())

	goals, err := h.goals.List(username)
	if err != nil {
		h.logger.Error("list goals", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Add(w http.ResponseWriter, r *http.Request) {
	username := auth.Username(r.Context())

	var g model.Goal
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(g.GoalName) == "" {
		writeError(w, http.StatusBadRequest, "goal_name is required")
		return
	}

	created, err := h.goals.Add(username, g)
	if err != nil {
		if strings.Contains(err.Error(), "invalid") || strings.Contains(err.Error(), "negative") {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("add goal", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("goal", "created", username, created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := auth.Username(r.Context())

	identifier := r.PathValue("identifier")
	if identifier == "" {
		writeError(w, http.StatusBadRequest, "goal identifier is required")
		return
	}

	removed, err := h.goals.Delete(username, identifier)
	if err != nil {
		h.logger.Error("delete goal", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("goal", "deleted", username, 0))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
