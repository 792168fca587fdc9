// Package repository defines the standings and history stores.
package repository

import (
	"context"

	"github.com/cabe-arena/arena/internal/domain/model"
)

// Entry represents one standings row.
type Entry struct {
	Rank        int     // 1-based leaderboard position
	UserID      string  //
	TotalPoints int     // cumulative points across all approved submissions
	Progress    float64 // progress toward the next tier, [0,100]
	Tier        string  // rank tier name, filled by the service layer
}

// Standings provides read/write access to cumulative user points.
type Standings interface {
	// AddPoints adds delta to a user's total, creating the user on first
	// write, and returns the new total.
	AddPoints(ctx context.Context, userID string, delta int) (int, error)

	// Standing returns the current position and total for a user.
	// Returns ErrNotFound for unknown users.
	Standing(ctx context.Context, userID string) (Entry, error)

	// TopN returns the top-N entries ordered by total points desc,
	// user ID asc on ties.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of users tracked.
	Count(ctx context.Context) int
}

// History provides append-only access to per-user submission history.
// Scoring and integrity consume it read-only.
type History interface {
	// Append records one evaluated submission for a user.
	Append(ctx context.Context, userID string, entry model.HistoryEntry) error

	// List returns the user's history in append order. Unknown users get
	// an empty slice, not an error; an empty history is a valid state.
	List(ctx context.Context, userID string) ([]model.HistoryEntry, error)

	// Count returns the total number of entries across all users.
	Count(ctx context.Context) int
}
