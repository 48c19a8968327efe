package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"fintrack/internal/auth"
	"fintrack/internal/store"
	"fintrack/internal/websocket"
)

type BudgetHandler struct {
	budgets *store.BudgetStore
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewBudgetHandler(bs *store.BudgetStore, hub *websocket.Hub, logger *slog.Logger) *BudgetHandler {
	return &BudgetHandler{budgets: bs, hub: hub, logger: logger}
}

func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := auth.Username(r.Context())

	budget, err := h.budgets.Get(username)
	if err != nil {
		h.logger.Error("get budget", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if budget == nil {
		writeError(w, http.StatusNotFound, "no budget set")
		return
	}

	writeJSON(w, http.StatusOK, budget)
}

type setBudgetRequest struct {
	MainBudget     *float64           `json:"main_budget"`
	CategoryLimits map[string]float64 `json:"category_limits"`
}

// Set replaces the user's budget wholesale. Limits omitted from the
// request are dropped, matching the save-the-whole-form semantics.
func (h *BudgetHandler) Set(w http.ResponseWriter, r *http.Request) {
	username := auth.Username(r.Context())

	var req setBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MainBudget != nil && *req.MainBudget < 0 {
		writeError(w, http.StatusBadRequest, "main_budget must not be negative")
		return
	}
	for category, limit := range req.CategoryLimits {
		if limit < 0 {
			writeError(w, http.StatusBadRequest, "limit for "+category+" must not be negative")
			return
		}
	}

	if err := h.budgets.Set(username, req.MainBudget, req.CategoryLimits); err != nil {
		h.logger.Error("set budget", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("budget", "updated", username, 0))

	budget, err := h.budgets.Get(username)
	if err != nil {
		h.logger.Error("get budget after set", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := auth.Username(r.Context())

	removed, err := h.budgets.Delete(username)
	if err != nil {
		h.logger.Error("delete budget", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "no budget set")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("budget", "deleted", username, 0))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
