package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/cabe-arena/arena/internal/domain/model"
	"github.com/cabe-arena/arena/internal/domain/skill"
)

// Points per user level. A user's level is the floor of their historical
// base points divided by this step.
const levelStep = 1000

// Result is the outcome of scoring one submission against a user history.
// Computed fresh per call; the engine never persists anything itself.
type Result struct {
	PointsAwarded int     `json:"points_awarded"`
	BonusPoints   int     `json:"bonus_points"`
	TotalPoints   int     `json:"total_points"`
	RankProgress  float64 `json:"rank_progress"`
	NewRank       Rank    `json:"new_rank"`
}

// Evaluator computes a scoring result for a submission given the user's
// full submission history.
type Evaluator interface {
	Evaluate(ctx context.Context, sub model.Submission, history []model.HistoryEntry) (Result, error)
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithAlpha sets the exponential scaling steepness.
func WithAlpha(alpha float64) Option {
	return func(e *Engine) {
		if alpha > 0 {
			e.alpha = alpha
		}
	}
}

// WithSkillTable sets the per-category parameter table.
func WithSkillTable(table skill.Table) Option {
	return func(e *Engine) {
		if len(table) > 0 {
			e.table = table
		}
	}
}

// WithBonusCap sets the pre-boost bonus ceiling. An explicitly configured
// cap takes precedence over the per-category table values.
func WithBonusCap(cap float64) Option {
	return func(e *Engine) {
		if cap > 0 {
			e.bonusCap = cap
			e.bonusCapSet = true
		}
	}
}

// WithOverCapBoost sets the multiplier applied when the raw bonus reaches
// the cap. An explicitly configured boost takes precedence over the
// per-category table values.
func WithOverCapBoost(boost float64) Option {
	return func(e *Engine) {
		if boost > 0 {
			e.overCapBoost = boost
			e.overCapBoostSet = true
		}
	}
}

// Engine implements Evaluator with the exponential points formula.
// Safe for concurrent use: all state is immutable after construction.
type Engine struct {
	alpha        float64
	table        skill.Table
	bonusCap     float64
	overCapBoost float64

	// Set when the cap/boost were configured explicitly, in which case
	// they override the per-category table values.
	bonusCapSet     bool
	overCapBoostSet bool
}

// NewEngine creates a points engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		alpha:        DefaultAlpha,
		table:        skill.DefaultTable(),
		bonusCap:     DefaultBonusCap,
		overCapBoost: DefaultOverCapBoost,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate computes the awarded points, bonus, running total and rank for
// a submission. It degrades gracefully on edge values (zero base points,
// zero proof strength, empty history); the only error is an unknown skill
// category, which is caller misuse rather than a scoring failure.
func (e *Engine) Evaluate(ctx context.Context, sub model.Submission, history []model.HistoryEntry) (Result, error) {
	cfg, ok := e.table.Lookup(sub.Skill)
	if !ok {
		return Result{}, fmt.Errorf("evaluate %q: %w", sub.Skill, skill.ErrUnknownCategory)
	}

	historyTotal := 0
	for _, h := range history {
		historyTotal += h.BasePoints
	}

	level := historyTotal / levelStep
	if level < 0 {
		level = 0
	}

	scaledBase := float64(sub.BasePoints) * cfg.BaseMultiplier * ExponentialScale(level, e.alpha)

	weights := e.table.Weights()
	counts := skillCounts(sub, history)
	bonus := bonusPoints(
		float64(sub.MaxBonus()),
		weights,
		counts,
		float64(sub.ProofStrength),
		e.capFor(cfg),
		e.boostFor(cfg),
	)

	awarded := int(math.Round(scaledBase + bonus))
	if awarded < 0 {
		awarded = 0
	}

	total := historyTotal + awarded
	rank, progress := RankForPoints(float64(total))

	return Result{
		PointsAwarded: awarded,
		BonusPoints:   int(math.Round(bonus)),
		TotalPoints:   total,
		RankProgress:  progress,
		NewRank:       rank,
	}, nil
}

// skillCounts tallies completions per category in canonical order. The
// submission being scored counts as a completion of its own category, so
// a first-ever submission still earns a nonzero weighted average.
func skillCounts(sub model.Submission, history []model.HistoryEntry) []float64 {
	counts := make([]float64, len(skill.Categories()))
	if i := skill.Index(sub.Skill); i >= 0 {
		counts[i]++
	}
	for _, h := range history {
		if i := skill.Index(h.Skill); i >= 0 {
			counts[i]++
		}
	}
	return counts
}

// capFor resolves the clamp for one category: an explicitly configured
// engine-wide cap is authoritative, then the per-category value, then the
// built-in default.
func (e *Engine) capFor(cfg skill.Config) float64 {
	if e.bonusCapSet {
		return e.bonusCap
	}
	if cfg.Cap > 0 {
		return float64(cfg.Cap)
	}
	return e.bonusCap
}

func (e *Engine) boostFor(cfg skill.Config) float64 {
	if e.overCapBoostSet {
		return e.overCapBoost
	}
	if cfg.OverCapBoost > 0 {
		return cfg.OverCapBoost
	}
	return e.overCapBoost
}
