// Package integrity implements the rule-based submission checker: a set of
// additive heuristics over proof text, timing and user history that yields
// a clamped risk score plus advisory flags. It is deliberately not a
// statistical model; every rule contributes a fixed weight when it fires.
package integrity

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/cabe-arena/arena/internal/domain/model"
)

// Flag names attached to a result. Stable strings; review tooling keys
// off them.
const (
	FlagSuspiciousKeyword   = "SUSPICIOUS_KEYWORD"
	FlagRepeatedCharacters  = "REPEATED_CHARACTERS"
	FlagRandomCharacterRun  = "RANDOM_CHARACTER_RUN"
	FlagProofTooShort       = "PROOF_TOO_SHORT"
	FlagTooManySubmissions  = "TOO_MANY_SUBMISSIONS"
	FlagSubmissionsTooClose = "SUBMISSIONS_TOO_CLOSE"
	FlagDuplicateSubmission = "DUPLICATE_SUBMISSION"
	FlagRapidAccumulation   = "RAPID_POINT_ACCUMULATION"
	FlagUnusualTime         = "UNUSUAL_SUBMISSION_TIME"
	FlagRegularPattern      = "REGULAR_SUBMISSION_PATTERN"
)

// Per-rule risk weights. The aggregate score is the plain sum of every
// triggered weight, clamped to 1.0; rules firing on the same substring
// still count independently.
const (
	weightPattern     = 0.2
	weightShortProof  = 0.3
	weightFrequency   = 0.25
	weightDuplicate   = 0.4
	weightRapidPoints = 0.3
	weightTiming      = 0.2
)

// Rule thresholds.
const (
	minProofLength      = 20
	hourlyWindow        = time.Hour
	hourlySubmissionMax = 10
	minSubmissionGap    = 5 * time.Minute
	accumulationWindow  = 24 * time.Hour
	accumulationMax     = 2000
	quietHourStart      = 2
	quietHourEnd        = 6
)

// Default verdict thresholds on the aggregate risk score.
const (
	DefaultSuspicionThreshold = 0.3
	DefaultReviewThreshold    = 0.7
	DefaultRejectThreshold    = 0.9
)

// nudgeProbability is the chance an accepted submission gets an
// "opportunity" engagement message attached.
const nudgeProbability = 0.1

// Result is the integrity verdict for a single submission.
type Result struct {
	IsSuspicious     bool     `json:"is_suspicious"`
	RiskScore        float64  `json:"risk_score"`
	Flags            []string `json:"flags"`
	DeterrentMessage string   `json:"deterrent_message,omitempty"`
	RequiresReview   bool     `json:"requires_review"`
	AutoReject       bool     `json:"auto_reject"`
}

// Checker scans a submission against the user's history and produces a
// Result. Implementations never error; malformed input saturates toward
// maximal risk instead.
type Checker interface {
	Check(ctx context.Context, sub model.Submission, history []model.HistoryEntry) Result
}

// Option applies a configuration option to the HeuristicChecker.
type Option func(*HeuristicChecker)

// WithRand sets the random source used for deterrent and engagement
// message selection. Inject a seeded source in tests for deterministic
// output.
func WithRand(r *rand.Rand) Option {
	return func(c *HeuristicChecker) {
		if r != nil {
			c.rng = r
		}
	}
}

// WithThresholds overrides the suspicion/review/reject cutoffs.
func WithThresholds(suspicion, review, reject float64) Option {
	return func(c *HeuristicChecker) {
		if suspicion > 0 && review > suspicion && reject > review {
			c.suspicionThreshold = suspicion
			c.reviewThreshold = review
			c.rejectThreshold = reject
		}
	}
}

// HeuristicChecker implements Checker with the fixed rule set. Safe for
// concurrent use except for the injected rand source, which is guarded by
// a mutex in the message pickers.
type HeuristicChecker struct {
	suspicionThreshold float64
	reviewThreshold    float64
	rejectThreshold    float64

	// rand.Rand is not goroutine-safe; the message pickers lock around it.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewHeuristicChecker creates a checker with configuration options.
func NewHeuristicChecker(opts ...Option) *HeuristicChecker {
	c := &HeuristicChecker{
		suspicionThreshold: DefaultSuspicionThreshold,
		reviewThreshold:    DefaultReviewThreshold,
		rejectThreshold:    DefaultRejectThreshold,
		rng:                rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // message selection, not security
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check runs every heuristic and aggregates the verdict.
func (c *HeuristicChecker) Check(ctx context.Context, sub model.Submission, history []model.HistoryEntry) Result {
	var (
		flags []string
		risk  float64
	)

	add := func(flag string, weight float64) {
		flags = append(flags, flag)
		risk += weight
	}

	proof := sub.ProofText
	trimmed := strings.TrimSpace(proof)

	// Blank proof saturates straight to auto-reject; there is nothing to
	// evaluate and no reason to let the remaining rules soften the score.
	if trimmed == "" {
		return c.verdict([]string{FlagProofTooShort}, 1.0)
	}

	if hasSuspiciousKeyword(proof) {
		add(FlagSuspiciousKeyword, weightPattern)
	}
	if hasRepeatedRun(proof, repeatedRunLength) {
		add(FlagRepeatedCharacters, weightPattern)
	}
	if hasAlphabeticRun(proof) {
		add(FlagRandomCharacterRun, weightPattern)
	}
	if len(proof) < minProofLength {
		add(FlagProofTooShort, weightShortProof)
	}

	recent, lastGap := submissionCadence(sub.SubmittedAt, history)
	if recent > hourlySubmissionMax {
		add(FlagTooManySubmissions, weightFrequency)
	}
	if lastGap >= 0 && lastGap < minSubmissionGap {
		add(FlagSubmissionsTooClose, weightFrequency)
	}

	if isDuplicateProof(trimmed, history) {
		add(FlagDuplicateSubmission, weightDuplicate)
	}

	if pointsInWindow(sub.SubmittedAt, history, accumulationWindow) > accumulationMax {
		add(FlagRapidAccumulation, weightRapidPoints)
	}

	hour := sub.SubmittedAt.Hour()
	if hour >= quietHourStart && hour < quietHourEnd {
		add(FlagUnusualTime, weightTiming)
	}
	if m := sub.SubmittedAt.Minute(); m == 0 || m == 30 {
		add(FlagRegularPattern, weightTiming)
	}

	if risk > 1.0 {
		risk = 1.0
	}
	return c.verdict(flags, risk)
}

// verdict derives the boolean outcomes from the aggregate score and picks
// a deterrent message for suspicious-but-not-rejected submissions.
func (c *HeuristicChecker) verdict(flags []string, risk float64) Result {
	r := Result{
		RiskScore:      risk,
		Flags:          flags,
		IsSuspicious:   risk > c.suspicionThreshold,
		RequiresReview: risk > c.reviewThreshold,
		AutoReject:     risk > c.rejectThreshold,
	}
	if r.IsSuspicious && !r.AutoReject {
		r.DeterrentMessage = c.pickDeterrent()
	}
	return r
}

// submissionCadence returns the number of history entries inside the
// trailing one-hour window and the gap to the most recent prior entry.
// The gap is -1 when the history is empty.
func submissionCadence(at time.Time, history []model.HistoryEntry) (recent int, lastGap time.Duration) {
	lastGap = -1
	windowStart := at.Add(-hourlyWindow)
	for _, h := range history {
		if h.SubmittedAt.After(windowStart) && !h.SubmittedAt.After(at) {
			recent++
		}
		gap := at.Sub(h.SubmittedAt)
		if gap >= 0 && (lastGap < 0 || gap < lastGap) {
			lastGap = gap
		}
	}
	return recent, lastGap
}

// isDuplicateProof reports whether the trimmed proof matches any prior
// entry, case-insensitively.
func isDuplicateProof(trimmed string, history []model.HistoryEntry) bool {
	needle := strings.ToLower(trimmed)
	for _, h := range history {
		if strings.ToLower(strings.TrimSpace(h.ProofText)) == needle {
			return true
		}
	}
	return false
}

// pointsInWindow sums points awarded in the trailing window before at.
func pointsInWindow(at time.Time, history []model.HistoryEntry, window time.Duration) int {
	total := 0
	start := at.Add(-window)
	for _, h := range history {
		if h.SubmittedAt.After(start) && !h.SubmittedAt.After(at) {
			total += h.PointsAwarded
		}
	}
	return total
}
