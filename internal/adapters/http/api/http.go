// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cabe-arena/arena/internal/adapters/repository"
	"github.com/cabe-arena/arena/internal/domain/dedupe"
	"github.com/cabe-arena/arena/internal/domain/integrity"
	"github.com/cabe-arena/arena/internal/domain/model"
	"github.com/cabe-arena/arena/internal/domain/scoring"
	"github.com/cabe-arena/arena/internal/domain/skill"
)

// Dependencies required by HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	dedupe.Deduper

	// Submit enqueues a submission for async evaluation. Returns false on
	// backpressure.
	Submit(ctx context.Context, sub model.Submission) bool

	// Evaluate runs scoring and integrity synchronously without
	// persisting.
	Evaluate(ctx context.Context, sub model.Submission) (scoring.Result, integrity.Result, error)

	// Read operations.
	Leaderboard(ctx context.Context, n int) ([]repository.Entry, error)
	Standing(ctx context.Context, userID string) (repository.Entry, error)
	UserHistory(ctx context.Context, userID string) ([]model.HistoryEntry, error)
	SkillTable() skill.Table

	// Nudge returns an engagement message with small probability.
	Nudge() (string, bool)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	submissionsHandler *SubmissionsHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	historyHandler     *HistoryHandler
	skillsHandler      *SkillsHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		submissionsHandler: NewSubmissionsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		rankHandler:        NewRankHandler(deps),
		historyHandler:     NewHistoryHandler(deps),
		skillsHandler:      NewSkillsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/submissions", MetricsMiddleware(s.submissionsHandler.HandlePostSubmission, "submissions"))
	mux.HandleFunc("/submissions/evaluate", MetricsMiddleware(s.submissionsHandler.HandleEvaluate, "evaluate"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/history/", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/skills", MetricsMiddleware(s.skillsHandler.HandleGetSkills, "skills"))
}

// submissionRequest mirrors the OpenAPI schema for POST /submissions.
type submissionRequest struct {
	SubmissionID  string `json:"submission_id"`
	UserID        string `json:"user_id"`
	Skill         string `json:"skill"`
	TaskType      string `json:"task_type"`
	BasePoints    int    `json:"base_points"`
	MaxPoints     int    `json:"max_points"`
	ProofStrength int    `json:"proof_strength"`
	ProofText     string `json:"proof_text"`
	TS            string `json:"ts"`
}

func (r submissionRequest) validate() error {
	switch {
	case strings.TrimSpace(r.SubmissionID) == "":
		return errors.New("missing submission_id")
	case strings.TrimSpace(r.UserID) == "":
		return errors.New("missing user_id")
	case !skill.Category(r.Skill).Valid():
		return errors.New("unknown skill category")
	case r.TaskType != string(model.TaskPractice) && r.TaskType != string(model.TaskMiniProject):
		return errors.New("task_type must be practice or mini_project")
	case r.BasePoints < 0:
		return errors.New("base_points must not be negative")
	case r.MaxPoints < r.BasePoints:
		return errors.New("max_points must be >= base_points")
	case r.ProofStrength != model.ProofBasic && r.ProofStrength != model.ProofSolid && r.ProofStrength != model.ProofStrong:
		return errors.New("proof_strength must be 10, 25 or 50")
	case strings.TrimSpace(r.TS) == "":
		return errors.New("missing ts")
	}
	if _, err := time.Parse(time.RFC3339, r.TS); err != nil {
		return errors.New("invalid ts; must be RFC3339")
	}
	return nil
}

func (r submissionRequest) toModel() model.Submission {
	ts, _ := time.Parse(time.RFC3339, r.TS)
	return model.Submission{
		ID:            r.SubmissionID,
		UserID:        r.UserID,
		Skill:         skill.Category(r.Skill),
		TaskType:      model.TaskType(r.TaskType),
		BasePoints:    r.BasePoints,
		MaxPoints:     r.MaxPoints,
		ProofStrength: r.ProofStrength,
		ProofText:     r.ProofText,
		SubmittedAt:   ts,
	}
}

// Entry is the wire shape of one leaderboard/standing row.
type Entry struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"user_id"`
	TotalPoints int     `json:"total_points"`
	Tier        string  `json:"tier"`
	Progress    float64 `json:"progress"`
}

func toEntry(e repository.Entry) Entry {
	return Entry{
		Rank:        e.Rank,
		UserID:      e.UserID,
		TotalPoints: e.TotalPoints,
		Tier:        e.Tier,
		Progress:    e.Progress,
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	Nudge     string `json:"nudge,omitempty"`
}

type evaluateResponse struct {
	Scoring   scoring.Result   `json:"scoring"`
	Integrity integrity.Result `json:"integrity"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// pathParam extracts the single path segment after prefix, or "" when the
// path is malformed.
func pathParam(path, prefix string) string {
	p := strings.TrimPrefix(path, prefix)
	if p == "" || strings.Contains(p, "/") {
		return ""
	}
	return p
}
