package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FELTHOUND_CONFIG is set
//  3. env (prefix FELTHOUND_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("FELTHOUND_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: FELTHOUND_DATABASE_PATH, FELTHOUND_WORKER_COUNT, ...
	// Map env keys like FELTHOUND_QUEUE_SIZE -> queue_size (flat keys).
	// Double underscore descends into nested sections:
	// FELTHOUND_SCORING__MIN_HANDS -> scoring.min_hands.
	envProvider := env.Provider("FELTHOUND_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "felthound_")
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
