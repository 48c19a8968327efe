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

type ExpenseHandler struct {
	expenses *store.ExpenseStore
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewExpenseHandler(es *store.ExpenseStore, hub *websocket.Hub, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{expenses: es, hub: hub, logger: logger}
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	username := auth.Username(r.Context())

	expenses, err := h.expenses.List(username)
	if err != nil {
		h.logger.Error("list expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) Add(w http.ResponseWriter, r *http.Request) {
	username := auth.Username(r.Context())

	var e model.Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if e.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if strings.TrimSpace(e.Category) == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	created, err := h.expenses.Add(username, e)
	if err != nil {
		if strings.Contains(err.Error(), "invalid date") {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("add expense", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("expense", "created", username, created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := auth.Username(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	removed, err := h.expenses.Delete(username, id)
	if err != nil {
		h.logger.Error("delete expense", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("expense", "deleted", username, id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
