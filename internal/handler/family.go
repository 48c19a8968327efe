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

type FamilyHandler struct {
	family *store.FamilyStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewFamilyHandler(fs *store.FamilyStore, hub *websocket.Hub, logger *slog.Logger) *FamilyHandler {
	return &FamilyHandler{family: fs, hub: hub, logger: logger}
}

func (h *FamilyHandler) List(w http.ResponseWriter, r *http.Request) {
	username := auth.Username(r.Context())

	members, err := h.family.List(username)
	if err != nil {
		h.logger.Error("list family", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, members)
}

func (h *FamilyHandler) Add(w http.ResponseWriter, r *http.Request) {
	username := auth.Username(r.Context())

	var m model.FamilyMember
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(m.MemberName) == "" {
		writeError(w, http.StatusBadRequest, "member_name is required")
		return
	}

	created, err := h.family.Add(username, m)
	if err != nil {
		h.logger.Error("add family member", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("family_member", "created", username, created.ID))
	writeJSON(w, http.StatusCreated, created)
}

// replaceMemberRequest carries the bulk-import row shape, where is_head
// arrives as a loose string flag ("on", "true", "1", "yes").
type replaceMemberRequest struct {
	MemberName    string  `json:"member_name"`
	Relation      string  `json:"relation"`
	MonthlyIncome float64 `json:"monthly_income"`
	Age           int     `json:"age"`
	Notes         string  `json:"notes"`
	IsHead        string  `json:"is_head"`
}

type replaceFamilyRequest struct {
	FamilyName string                 `json:"family_name"`
	Members    []replaceMemberRequest `json:"members"`
}

func (h *FamilyHandler) Replace(w http.ResponseWriter, r *http.Request) {
	username := auth.Username(r.Context())

	var req replaceFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	members := make([]model.FamilyMember, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, model.FamilyMember{
			MemberName:    m.MemberName,
			Relation:      m.Relation,
			MonthlyIncome: m.MonthlyIncome,
			Age:           m.Age,
			Notes:         m.Notes,
			IsHead:        store.ParseHeadFlag(m.IsHead),
		})
	}

	if err := h.family.Replace(username, req.FamilyName, members); err != nil {
		h.logger.Error("replace family", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("family", "replaced", username, 0))

	updated, err := h.family.List(username)
	if err != nil {
		h.logger.Error("list family after replace", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *FamilyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := auth.Username(r.Context())

	identifier := r.PathValue("identifier")
	if identifier == "" {
		writeError(w, http.StatusBadRequest, "member identifier is required")
		return
	}

	removed, err := h.family.Delete(username, identifier)
	if err != nil {
		h.logger.Error("delete family member", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "family member not found")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("family_member", "deleted", username, 0))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
