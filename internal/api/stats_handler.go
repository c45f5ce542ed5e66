package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prepdeck/prepdeck-api/internal/api/shared"
	"github.com/prepdeck/prepdeck-api/internal/service/stats"
)

// StatsHandler handles the progress dashboard endpoints.
type StatsHandler struct {
	statsService stats.Service
	logger       *slog.Logger
}

// NewStatsHandler creates a new StatsHandler with its dependencies.
// If logger is nil, a default logger will be used.
func NewStatsHandler(statsService stats.Service, logger *slog.Logger) *StatsHandler {
	if statsService == nil {
		panic("statsService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StatsHandler{
		statsService: statsService,
		logger:       logger.With(slog.String("component", "stats_handler")),
	}
}

// GetDashboard handles GET /api/dashboard.
func (h *StatsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	dashboard, err := h.statsService.GetDashboard(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, dashboard)
}

// ListMissedQuestions handles GET /api/dashboard/missed. Paging comes from
// the limit and offset query parameters; the service applies defaults and
// clamps oversized limits.
func (h *StatsHandler) ListMissedQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset")
	if !ok {
		return
	}

	missed, err := h.statsService.ListMissedQuestions(r.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, missed)
}

// queryInt parses an optional non-negative integer query parameter, writing
// a 400 response on a malformed value. Absent parameters yield zero.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return value, true
}
