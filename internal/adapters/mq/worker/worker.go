// Package worker runs the asynchronous evaluation pipeline: integrity
// check, scoring, history append and standings update.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/cabe-arena/arena/internal/adapters/mq/queue"
	"github.com/cabe-arena/arena/internal/domain/integrity"
	"github.com/cabe-arena/arena/internal/domain/model"
	"github.com/cabe-arena/arena/internal/domain/scoring"
	"github.com/cabe-arena/arena/pkg/logger"
	"github.com/cabe-arena/arena/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Submission is what workers read off the queue.
type Submission = model.Submission

// Evaluator computes a scoring result for a submission.
type Evaluator interface {
	Evaluate(ctx context.Context, sub model.Submission, history []model.HistoryEntry) (scoring.Result, error)
}

// Checker produces an integrity verdict for a submission.
type Checker interface {
	Check(ctx context.Context, sub model.Submission, history []model.HistoryEntry) integrity.Result
}

// HistoryStore is the subset of the history repository workers need.
type HistoryStore interface {
	Append(ctx context.Context, userID string, entry model.HistoryEntry) error
	List(ctx context.Context, userID string) ([]model.HistoryEntry, error)
}

// Standings is the subset of the standings repository workers need.
type Standings interface {
	AddPoints(ctx context.Context, userID string, delta int) (int, error)
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Submission
}

// Worker processes queued submissions until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// SubmissionWorker implements Worker.
type SubmissionWorker struct {
	queue     Queue
	checker   Checker
	evaluator Evaluator
	history   HistoryStore
	standings Standings
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewSubmissionWorker creates a worker with configuration options.
func NewSubmissionWorker(q Queue, checker Checker, evaluator Evaluator, history HistoryStore, standings Standings, opts ...Option) *SubmissionWorker {
	w := &SubmissionWorker{
		queue:     q,
		checker:   checker,
		evaluator: evaluator,
		history:   history,
		standings: standings,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop.
func (w *SubmissionWorker) Run(ctx context.Context) {
	defer close(w.done)

	subs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case sub, ok := <-subs:
			if !ok {
				return
			}
			if err := w.process(ctx, sub); err != nil {
				w.logger.Error(ctx, "submission processing failed",
					logger.String("submissionID", sub.ID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *SubmissionWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process evaluates a single submission end to end.
func (w *SubmissionWorker) process(ctx context.Context, sub Submission) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	history, err := w.history.List(ctx, sub.UserID)
	if err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("load history for %s: %w", sub.UserID, err)
	}

	verdict := w.checker.Check(ctx, sub, history)
	metrics.RecordRiskScore(verdict.RiskScore)
	for _, flag := range verdict.Flags {
		metrics.RecordIntegrityFlag(flag)
	}

	if verdict.AutoReject {
		metrics.RecordAutoReject()
		metrics.RecordSubmissionRejected()
		w.logger.Warn(ctx, "submission auto-rejected",
			logger.String("submissionID", sub.ID),
			logger.Float64("riskScore", verdict.RiskScore),
			logger.Any("flags", verdict.Flags),
		)
		return w.history.Append(ctx, sub.UserID, historyEntry(sub, 0, model.StatusRejected))
	}

	scoreStart := time.Now()
	result, err := w.evaluator.Evaluate(ctx, sub, history)
	metrics.RecordScoringLatency(float64(time.Since(scoreStart).Milliseconds()))
	if err != nil {
		metrics.RecordScoringError()
		metrics.RecordWorkerError()
		return fmt.Errorf("score submission %s: %w", sub.ID, err)
	}

	status := model.StatusApproved
	if verdict.RequiresReview {
		// Points are withheld until a reviewer clears the submission.
		status = model.StatusPending
		metrics.RecordSubmissionPending()
	}

	if err := w.history.Append(ctx, sub.UserID, historyEntry(sub, result.PointsAwarded, status)); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("append history for %s: %w", sub.UserID, err)
	}

	if status == model.StatusApproved {
		before, _ := scoring.RankForPoints(float64(result.TotalPoints - result.PointsAwarded))
		total, err := w.standings.AddPoints(ctx, sub.UserID, result.PointsAwarded)
		if err != nil {
			metrics.RecordWorkerError()
			return fmt.Errorf("update standings for %s: %w", sub.UserID, err)
		}
		after, _ := scoring.RankForPoints(float64(total))
		if after != before {
			metrics.RecordRankPromotion(string(after))
		}
		metrics.RecordPointsAwarded(float64(result.PointsAwarded))
	}

	metrics.RecordSubmissionProcessed()
	w.logger.Debug(ctx, "submission processed",
		logger.String("submissionID", sub.ID),
		logger.String("userID", sub.UserID),
		logger.Int("pointsAwarded", result.PointsAwarded),
		logger.String("status", string(status)),
	)
	return nil
}

// historyEntry builds the append-only record for an evaluated submission.
func historyEntry(sub Submission, awarded int, status model.Status) model.HistoryEntry {
	return model.HistoryEntry{
		SubmissionID:  sub.ID,
		Skill:         sub.Skill,
		BasePoints:    sub.BasePoints,
		PointsAwarded: awarded,
		ProofText:     sub.ProofText,
		Status:        status,
		SubmittedAt:   sub.SubmittedAt,
	}
}

// Pool manages a fixed set of workers consuming one queue.
type Pool struct {
	workers []*SubmissionWorker
	logger  logger.Logger
}

// NewPool creates a worker pool. workerCount < 1 defaults to twice the
// CPU count.
func NewPool(workerCount int, q Queue, checker Checker, evaluator Evaluator, history HistoryStore, standings Standings) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*SubmissionWorker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewSubmissionWorker(
			q, checker, evaluator, history, standings,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		_ = w.Shutdown(ctx)
		cancel()
	}
	metrics.UpdateWorkerCount(0)
}
