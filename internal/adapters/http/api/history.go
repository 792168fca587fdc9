// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"time"

	"github.com/cabe-arena/arena/internal/domain/model"
)

// HistoryHandler handles submission history requests.
type HistoryHandler struct {
	deps Dependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps Dependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// historyEntry is the wire shape of one history row.
type historyEntry struct {
	SubmissionID  string `json:"submission_id"`
	Skill         string `json:"skill"`
	BasePoints    int    `json:"base_points"`
	PointsAwarded int    `json:"points_awarded"`
	Status        string `json:"status"`
	SubmittedAt   string `json:"submitted_at"`
}

// HandleGetHistory handles GET /history/{user_id} requests.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID := pathParam(r.URL.Path, "/history/")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.UserHistory(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toHistoryEntries(entries))
}

func toHistoryEntries(entries []model.HistoryEntry) []historyEntry {
	out := make([]historyEntry, len(entries))
	for i, e := range entries {
		out[i] = historyEntry{
			SubmissionID:  e.SubmissionID,
			Skill:         string(e.Skill),
			BasePoints:    e.BasePoints,
			PointsAwarded: e.PointsAwarded,
			Status:        string(e.Status),
			SubmittedAt:   e.SubmittedAt.Format(time.RFC3339),
		}
	}
	return out
}
