// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/cabe-arena/arena/internal/domain/skill"
)

// SkillsHandler serves the active skill configuration table.
type SkillsHandler struct {
	deps Dependencies
}

// NewSkillsHandler creates a new skills handler.
func NewSkillsHandler(deps Dependencies) *SkillsHandler {
	return &SkillsHandler{deps: deps}
}

// skillEntry is the wire shape of one category's configuration.
type skillEntry struct {
	Category    string `json:"category"`
	DisplayName string `json:"display_name"`
	skill.Config
}

// HandleGetSkills handles GET /skills requests. Categories come back in
// canonical order.
func (h *SkillsHandler) HandleGetSkills(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	table := h.deps.SkillTable()
	out := make([]skillEntry, 0, len(table))
	for _, cat := range skill.Categories() {
		cfg, ok := table.Lookup(cat)
		if !ok {
			continue
		}
		out = append(out, skillEntry{
			Category:    string(cat),
			DisplayName: cat.DisplayName(),
			Config:      cfg,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
