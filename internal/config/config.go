// Package config defines service configuration structures and loading.
//
// Conventions:
// - Keep fields koanf-tagged and provide New() defaults.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// ScalingAlpha is the exponent steepness of the level scaling curve.
	ScalingAlpha float64 `koanf:"scaling_alpha"`

	// BonusCap bounds the pre-boost bonus value.
	BonusCap float64 `koanf:"bonus_cap"`

	// OverCapBoost multiplies a capped-out bonus.
	OverCapBoost float64 `koanf:"over_cap_boost"`

	// Integrity verdict thresholds on the aggregate risk score.
	SuspicionThreshold float64 `koanf:"suspicion_threshold"`
	ReviewThreshold    float64 `koanf:"review_threshold"`
	RejectThreshold    float64 `koanf:"reject_threshold"`

	// SkillWeights overrides per-category bonus weights, keyed by the
	// category slug (fullstack-dev, cloud-devops, data-analytics, ai-ml).
	SkillWeights map[string]float64 `koanf:"skill_weights"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		QueueSize:           100_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          500_000,
		MaxLeaderboardLimit: 100,
		ScalingAlpha:        5.5,
		BonusCap:            1000,
		OverCapBoost:        1.5,
		SuspicionThreshold:  0.3,
		ReviewThreshold:     0.7,
		RejectThreshold:     0.9,
		SkillWeights:        map[string]float64{},
	}
}
