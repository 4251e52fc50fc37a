package config

import (
	"errors"
	"fmt"

	"github.com/WilliamVenner/wry/internal/domain/dispatch"
	"github.com/WilliamVenner/wry/internal/domain/window"
	"github.com/WilliamVenner/wry/internal/logger"
)

// RateLimit caps RPC calls per window handler with a token bucket.
// A zero PerSecond disables limiting.
type RateLimit struct {
	PerSecond float64 `yaml:"per_second" toml:"per_second" json:"per_second"`
	Burst     int     `yaml:"burst" toml:"burst" json:"burst"`
}

// Plugin is a named callback backed by a WASI module.
type Plugin struct {
	Name string `yaml:"name" toml:"name" json:"name"`
	Path string `yaml:"path" toml:"path" json:"path"`
}

// Settings represents the application configuration.
type Settings struct {
	Debug     bool              `yaml:"debug" toml:"debug" json:"debug"`
	LogDir    string            `yaml:"log_dir,omitempty" toml:"log_dir,omitempty" json:"log_dir,omitempty"`
	LogLevel  string            `yaml:"log_level" toml:"log_level" json:"log_level"`
	RateLimit RateLimit         `yaml:"rate_limit" toml:"rate_limit" json:"rate_limit"`
	Window    window.Attributes `yaml:"window" toml:"window" json:"window"`
	Plugins   []Plugin          `yaml:"plugins,omitempty" toml:"plugins,omitempty" json:"plugins,omitempty"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:  logger.LevelInfo,
		RateLimit: RateLimit{PerSecond: 100, Burst: 20},
		Window:    window.DefaultAttributes(),
	}
}

// Validate checks if the settings are usable.
func (s Settings) Validate() error {
	var errs []error
	switch s.LogLevel {
	case logger.LevelDebug, logger.LevelInfo, logger.LevelWarn, logger.LevelError:
	default:
		errs = append(errs, fmt.Errorf("log_level %q is not one of DEBUG, INFO, WARN, ERROR", s.LogLevel))
	}
	if s.RateLimit.PerSecond < 0 {
		errs = append(errs, errors.New("rate_limit.per_second must not be negative"))
	}
	if s.RateLimit.PerSecond > 0 && s.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("rate_limit.burst must be at least 1 when limiting"))
	}
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		errs = append(errs, errors.New("window width and height must be positive"))
	}
	seen := make(map[string]bool)
	for i, p := range s.Plugins {
		if p.Name == "" || p.Path == "" {
			errs = append(errs, fmt.Errorf("plugins[%d]: name and path are required", i))
			continue
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("plugins[%d]: duplicate name %q", i, p.Name))
		}
		seen[p.Name] = true
	}
	return errors.Join(errs...)
}

// Middleware returns the RPC middleware chain the settings ask for.
func (s Settings) Middleware() []dispatch.Middleware {
	mw := []dispatch.Middleware{dispatch.RecoverMiddleware()}
	if s.Debug {
		mw = append(mw, dispatch.LoggingMiddleware())
	}
	if s.RateLimit.PerSecond > 0 {
		mw = append(mw, dispatch.RateLimitMiddleware(s.RateLimit.PerSecond, s.RateLimit.Burst))
	}
	return mw
}
