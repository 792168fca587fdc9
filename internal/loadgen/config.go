package loadgen

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL        string        // Base URL of the service
	NumSubmissions int           // Number of submissions to generate
	NumUsers       int           // Number of distinct users to spread submissions over
	TopN           int           // Number of top entries to fetch
	Workers        int           // Number of concurrent workers
	Timeout        time.Duration // HTTP request timeout
	SuspiciousRate float64       // Fraction of submissions given deliberately bad proofs
	OutputFile     string        // Output file for submissions
	LogFile        string        // Log file for run output
	Verbose        bool          // Enable verbose logging
}

// Submission is the wire form accepted by POST /submissions.
type Submission struct {
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

// Entry is a standings entry as returned by the service.
type Entry struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"user_id"`
	TotalPoints float64 `json:"total_points"`
	Progress    float64 `json:"progress"`
	Tier        string  `json:"tier"`
}

// AckResponse is the response from submission ingestion.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	Nudge     string `json:"nudge,omitempty"`
}

// Stats holds run statistics.
type Stats struct {
	SubmissionsGenerated int
	SubmissionsSubmitted int
	SubmissionsAccepted  int
	SubmissionsDuplicate int
	SubmissionsThrottled int
	SubmissionsFailed    int
	StandingsRetrieved   int
	LeaderboardEntries   int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
