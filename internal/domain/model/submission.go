// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/cabe-arena/arena/internal/domain/skill"
)

// TaskType distinguishes quick practice tasks from larger mini-projects.
type TaskType string

// Task types accepted on submissions.
const (
	TaskPractice    TaskType = "practice"
	TaskMiniProject TaskType = "mini_project"
)

// Proof strength levels. Discrete self-reported evidence levels that feed
// directly into the bonus calculation.
const (
	ProofBasic  = 10
	ProofSolid  = 25
	ProofStrong = 50
)

// Status of a history entry after evaluation.
type Status string

// Submission statuses.
const (
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusPending  Status = "pending"
)

// Submission represents a single task completion claim. Immutable once
// submitted.
type Submission struct {
	ID            string         // unique id for idempotency
	UserID        string         // submitting user
	Skill         skill.Category // one of the four categories
	TaskType      TaskType       // practice or mini_project
	BasePoints    int            // task's base point value
	MaxPoints     int            // task's maximum point value
	ProofStrength int            // 10, 25 or 50
	ProofText     string         // free-form evidence text
	SubmittedAt   time.Time      // submission timestamp
}

// MaxBonus returns the bonus headroom for the task, never negative.
func (s Submission) MaxBonus() int {
	if s.MaxPoints <= s.BasePoints {
		return 0
	}
	return s.MaxPoints - s.BasePoints
}

// HistoryEntry is one row of a user's append-only submission history.
// Scoring and integrity read it as context; neither mutates it.
type HistoryEntry struct {
	SubmissionID  string
	Skill         skill.Category
	BasePoints    int
	PointsAwarded int
	ProofText     string
	Status        Status
	SubmittedAt   time.Time
}
