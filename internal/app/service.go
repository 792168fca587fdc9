// Package app provides the core business service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"math/rand"
	"runtime"
	"sync"

	submissionqueue "github.com/cabe-arena/arena/internal/adapters/mq/queue"
	workerpool "github.com/cabe-arena/arena/internal/adapters/mq/worker"
	"github.com/cabe-arena/arena/internal/adapters/repository"
	"github.com/cabe-arena/arena/internal/domain/dedupe"
	"github.com/cabe-arena/arena/internal/domain/integrity"
	"github.com/cabe-arena/arena/internal/domain/model"
	"github.com/cabe-arena/arena/internal/domain/scoring"
	"github.com/cabe-arena/arena/internal/domain/skill"
	"github.com/cabe-arena/arena/pkg/logger"
	"github.com/cabe-arena/arena/pkg/metrics"
)

// Service wires the scoring pipeline: dedupe, queue, workers, points
// engine, integrity checker, standings and history stores.
type Service struct {
	mu sync.RWMutex

	// Core components
	standings *repository.TreapStandings
	history   *repository.MemoryHistory
	deduper   dedupe.Deduper
	queue     submissionqueue.Queue
	engine    *scoring.Engine
	checker   *integrity.HeuristicChecker
	pool      *workerpool.Pool

	// Configuration
	workerCount        int
	queueSize          int
	dedupeSize         int
	scalingAlpha       float64
	bonusCap           float64
	overCapBoost       float64
	suspicionThreshold float64
	reviewThreshold    float64
	rejectThreshold    float64
	skillWeights       map[string]float64
	rng                *rand.Rand

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of evaluation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithScalingAlpha sets the exponential scaling steepness.
func WithScalingAlpha(alpha float64) Option {
	return func(s *Service) {
		if alpha > 0 {
			s.scalingAlpha = alpha
		}
	}
}

// WithBonusBounds sets the bonus cap and over-cap boost.
func WithBonusBounds(cap, boost float64) Option {
	return func(s *Service) {
		if cap > 0 {
			s.bonusCap = cap
		}
		if boost > 0 {
			s.overCapBoost = boost
		}
	}
}

// WithIntegrityThresholds sets the suspicion/review/reject cutoffs.
func WithIntegrityThresholds(suspicion, review, reject float64) Option {
	return func(s *Service) {
		s.suspicionThreshold = suspicion
		s.reviewThreshold = review
		s.rejectThreshold = reject
	}
}

// WithSkillWeights overrides per-category bonus weights by slug.
func WithSkillWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.skillWeights = weights
	}
}

// WithRand sets the random source used for deterrent and engagement
// messages. Inject a seeded source in tests.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) {
		s.rng = r
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:        runtime.NumCPU() * 2,
		queueSize:          100000,
		dedupeSize:         50000,
		scalingAlpha:       scoring.DefaultAlpha,
		bonusCap:           scoring.DefaultBonusCap,
		overCapBoost:       scoring.DefaultOverCapBoost,
		suspicionThreshold: integrity.DefaultSuspicionThreshold,
		reviewThreshold:    integrity.DefaultReviewThreshold,
		rejectThreshold:    integrity.DefaultRejectThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting arena scoring service...")

	s.standings = repository.NewTreapStandings()
	s.history = repository.NewMemoryHistory()
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = submissionqueue.NewInMemoryQueue(
		submissionqueue.WithCapacity(s.queueSize),
	)
	s.engine = scoring.NewEngine(
		scoring.WithAlpha(s.scalingAlpha),
		scoring.WithSkillTable(s.skillTable()),
		scoring.WithBonusCap(s.bonusCap),
		scoring.WithOverCapBoost(s.overCapBoost),
	)

	checkerOpts := []integrity.Option{
		integrity.WithThresholds(s.suspicionThreshold, s.reviewThreshold, s.rejectThreshold),
	}
	if s.rng != nil {
		checkerOpts = append(checkerOpts, integrity.WithRand(s.rng))
	}
	s.checker = integrity.NewHeuristicChecker(checkerOpts...)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.checker, s.engine, s.history, s.standings)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "arena scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping arena scoring service...")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}

	s.started = false
	s.logger.Info(ctx, "arena scoring service stopped")
}

// skillTable builds the category table with configured weight overrides.
func (s *Service) skillTable() skill.Table {
	table := skill.DefaultTable()
	for slug, weight := range s.skillWeights {
		cat := skill.Category(slug)
		cfg, ok := table[cat]
		if !ok || weight <= 0 {
			continue
		}
		cfg.BonusMultiplier = weight
		table[cat] = cfg
	}
	return table
}

// SeenAndRecord atomically checks if a submission id was seen and records
// it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordSubmissionDuplicate()
	}
	return seen
}

// Unrecord removes a submission ID from the seen set so it can be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Submit enqueues a submission for asynchronous evaluation. Returns false
// on backpressure.
func (s *Service) Submit(ctx context.Context, sub model.Submission) bool {
	ok := s.queue.Enqueue(ctx, sub)
	if ok {
		s.logger.Debug(ctx, "submission enqueued",
			logger.String("submissionID", sub.ID),
			logger.String("userID", sub.UserID),
			logger.String("skill", string(sub.Skill)),
		)
	}
	return ok
}

// Evaluate runs the full scoring and integrity computation synchronously
// against the user's current history, without persisting anything.
func (s *Service) Evaluate(ctx context.Context, sub model.Submission) (scoring.Result, integrity.Result, error) {
	history, err := s.history.List(ctx, sub.UserID)
	if err != nil {
		return scoring.Result{}, integrity.Result{}, err
	}
	verdict := s.checker.Check(ctx, sub, history)
	result, err := s.engine.Evaluate(ctx, sub, history)
	if err != nil {
		return scoring.Result{}, integrity.Result{}, err
	}
	return result, verdict, nil
}

// Leaderboard returns the top N standings rows with rank tiers filled in.
func (s *Service) Leaderboard(ctx context.Context, n int) ([]repository.Entry, error) {
	entries, err := s.standings.TopN(ctx, n)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		decorate(&entries[i])
	}
	return entries, nil
}

// Standing returns the position, total and tier for one user.
func (s *Service) Standing(ctx context.Context, userID string) (repository.Entry, error) {
	entry, err := s.standings.Standing(ctx, userID)
	if err != nil {
		return repository.Entry{}, err
	}
	decorate(&entry)
	return entry, nil
}

// UserHistory returns the user's submission history in append order.
func (s *Service) UserHistory(ctx context.Context, userID string) ([]model.HistoryEntry, error) {
	return s.history.List(ctx, userID)
}

// SkillTable exposes the active per-category configuration.
func (s *Service) SkillTable() skill.Table {
	return s.skillTable()
}

// Nudge returns an engagement message with small probability.
func (s *Service) Nudge() (string, bool) {
	return s.checker.OpportunityNudge()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		totalUsers := s.standings.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalUsers"] = totalUsers
		stats["historyEntries"] = s.history.Count(ctx)

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalUsers(totalUsers)
	}
	return stats
}

// decorate fills the tier and progress fields from the total.
func decorate(e *repository.Entry) {
	rank, progress := scoring.RankForPoints(float64(e.TotalPoints))
	e.Tier = string(rank)
	e.Progress = progress
}
