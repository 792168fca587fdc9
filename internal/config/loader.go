package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering sources. Order of precedence
// (low -> high):
//  1. defaults (New())
//  2. .env file in the working directory, if present
//  3. YAML file named by ARENA_CONFIG, if set
//  4. environment variables (prefix ARENA_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	// .env only seeds the process environment; the env provider below
	// picks the values up. Missing file is not an error.
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv("ARENA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Map env keys like ARENA_QUEUE_SIZE -> queue_size (flat keys,
	// underscores preserved to match the koanf struct tags).
	envProvider := env.Provider("ARENA_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "arena_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.ReviewThreshold <= cfg.SuspicionThreshold || cfg.RejectThreshold <= cfg.ReviewThreshold {
		return nil, fmt.Errorf("%w: thresholds must be strictly increasing", ErrInvalidConfig)
	}
	return &cfg, nil
}
