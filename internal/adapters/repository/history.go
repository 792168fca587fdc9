package repository

import (
	"context"
	"sync"

	"github.com/cabe-arena/arena/internal/domain/model"
	"github.com/cabe-arena/arena/pkg/metrics"
)

// MemoryHistory implements History with a per-user append-only slice.
type MemoryHistory struct {
	mu      sync.RWMutex
	byUser  map[string][]model.HistoryEntry
	entries int
}

// NewMemoryHistory constructs an empty history store.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{
		byUser: make(map[string][]model.HistoryEntry),
	}
}

// Append records one evaluated submission for a user.
func (h *MemoryHistory) Append(_ context.Context, userID string, entry model.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.byUser[userID] = append(h.byUser[userID], entry)
	h.entries++
	metrics.UpdateHistoryEntries(h.entries)
	return nil
}

// List returns a copy of the user's history in append order. Callers get
// their own slice; the stored entries are never exposed for mutation.
func (h *MemoryHistory) List(_ context.Context, userID string) ([]model.HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stored := h.byUser[userID]
	out := make([]model.HistoryEntry, len(stored))
	copy(out, stored)
	return out, nil
}

// Count returns the total number of entries across all users.
func (h *MemoryHistory) Count(_ context.Context) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.entries
}
