package config

import (
	"context"
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
//  2. file (YAML) if TEAMSITE_CONFIG is set
//  3. env (prefix TEAMSITE_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("TEAMSITE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: TEAMSITE_ADDR, TEAMSITE_DATA_FILE, ...
	// Keys keep their underscores to match the koanf struct tags.
	envProvider := env.Provider("TEAMSITE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "teamsite_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	switch {
	case cfg.Addr == "":
		return nil, ErrEmptyAddr
	case cfg.CalendarHourStart < 0 || cfg.CalendarHourEnd > 24 || cfg.CalendarHourEnd <= cfg.CalendarHourStart:
		return nil, ErrInvalidHourRange
	case cfg.MaxUploadBytes <= 0:
		return nil, ErrInvalidUpload
	}
	return &cfg, nil
}
