package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/alert"
	"fintrack/internal/auth"
	"fintrack/internal/report"
	"fintrack/internal/store"
	"fintrack/internal/websocket"
)

type DashboardHandler struct {
	users      *store.UserStore
	budgets    *store.BudgetStore
	reports    *report.Service
	dispatcher *alert.Dispatcher
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewDashboardHandler(
	us *store.UserStore,
	bs *store.BudgetStore,
	rs *report.Service,
	d *alert.Dispatcher,
	hub *websocket.Hub,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		users:      us,
		budgets:    bs,
		reports:    rs,
		dispatcher: d,
		hub:        hub,
		logger:     logger,
	}
}

type dashboardResponse struct {
	Summary *report.Summary `json:"summary"`
	Alerts  []report.Alert  `json:"alerts"`
}

// Summary serves the monthly overview: per-category spending, the amount
// saved against the main budget, and any category limits that are nearing
// or over. Exceeded and nearing limits are also pushed out through the
// alert dispatcher.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	username := auth.Username(r.Context())

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = n
	}
	if v := r.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = n
	}

	budget, err := h.budgets.Get(username)
	if err != nil {
		h.logger.Error("get budget", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var mainBudget *float64
	var limits map[string]float64
	if budget != nil {
		mainBudget = budget.MainBudget
		limits = budget.CategoryLimits
	}

	summary, err := h.reports.MonthSummary(username, year, month, mainBudget)
	if err != nil {
		h.logger.Error("month summary", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	alerts := report.EvaluateAlerts(summary.Categories, limits)
	if len(alerts) > 0 {
		user, err := h.users.GetByUsername(username)
		if err != nil || user == nil {
			h.logger.Error("dashboard user lookup", "error", err)
		} else {
			for _, a := range alerts {
				h.dispatcher.SendBudgetAlert(r.Context(), user, a)
			}
			h.hub.Broadcast(websocket.NewMessage("alert", "triggered", username, int64(len(alerts))))
		}
	}

	writeJSON(w, http.StatusOK, dashboardResponse{Summary: summary, Alerts: alerts})
}
