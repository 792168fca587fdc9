package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cabe-arena/arena/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"ARENA_CONFIG",
		"ARENA_LOG_LEVEL",
		"ARENA_ADDR",
		"ARENA_QUEUE_SIZE",
		"ARENA_WORKER_COUNT",
		"ARENA_DEDUPE_SIZE",
		"ARENA_MAX_LEADERBOARD_LIMIT",
		"ARENA_SCALING_ALPHA",
		"ARENA_BONUS_CAP",
		"ARENA_OVER_CAP_BOOST",
		"ARENA_SUSPICION_THRESHOLD",
		"ARENA_REVIEW_THRESHOLD",
		"ARENA_REJECT_THRESHOLD",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 100_000)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 500_000)
				convey.So(cfg.ScalingAlpha, convey.ShouldEqual, 5.5)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ARENA_ADDR", ":8080")
			_ = os.Setenv("ARENA_QUEUE_SIZE", "50000")
			_ = os.Setenv("ARENA_WORKER_COUNT", "16")
			_ = os.Setenv("ARENA_SCALING_ALPHA", "3.5")
			_ = os.Setenv("ARENA_BONUS_CAP", "2000")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 50000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.ScalingAlpha, convey.ShouldEqual, 3.5)
				convey.So(cfg.BonusCap, convey.ShouldEqual, 2000)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "arena.yaml")
			yaml := []byte("addr: \":7070\"\nworker_count: 3\nsuspicion_threshold: 0.2\nreview_threshold: 0.5\nreject_threshold: 0.8\n")
			convey.So(os.WriteFile(path, yaml, 0o600), convey.ShouldBeNil)

			_ = os.Setenv("ARENA_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.SuspicionThreshold, convey.ShouldEqual, 0.2)
				convey.So(cfg.ReviewThreshold, convey.ShouldEqual, 0.5)
				convey.So(cfg.RejectThreshold, convey.ShouldEqual, 0.8)
			})

			convey.Convey("And environment variables still win over the file", func() {
				_ = os.Setenv("ARENA_ADDR", ":6060")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the config file is missing", func() {
			_ = os.Setenv("ARENA_CONFIG", "/nonexistent/arena.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the address is blanked out", func() {
			_ = os.Setenv("ARENA_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects the config", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the thresholds are not strictly increasing", func() {
			_ = os.Setenv("ARENA_REVIEW_THRESHOLD", "0.2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects the config", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
