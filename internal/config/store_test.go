package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/WilliamVenner/wry/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndLoad(t *testing.T) {
	for _, name := range []string{"settings.yaml", "settings.toml"} {
		t.Run(name, func(t *testing.T) {
			store := config.NewStore(filepath.Join(t.TempDir(), name))

			settings := config.DefaultSettings()
			settings.Debug = true
			settings.RateLimit = config.RateLimit{PerSecond: 5, Burst: 2}
			settings.Window.Title = "Saved"
			minWidth := 320.0
			settings.Window.MinWidth = &minWidth
			settings.Plugins = []config.Plugin{{Name: "hash", Path: "/opt/hash.wasm"}}

			require.NoError(t, store.Save(settings))

			loaded, err := store.Load()
			require.NoError(t, err)
			assert.True(t, loaded.Debug)
			assert.Equal(t, config.RateLimit{PerSecond: 5, Burst: 2}, loaded.RateLimit)
			assert.Equal(t, "Saved", loaded.Window.Title)
			require.NotNil(t, loaded.Window.MinWidth)
			assert.Equal(t, 320.0, *loaded.Window.MinWidth)
			assert.Equal(t, settings.Plugins, loaded.Plugins)
			assert.NoError(t, loaded.Validate())
		})
	}
}

func TestStore_LoadNonExistent(t *testing.T) {
	store := config.NewStore(filepath.Join(t.TempDir(), "missing.yaml"))
	loaded, err := store.Load()
	assert.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), loaded)
}

func TestStore_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\nlog_level: warn\n"), 0644))

	loaded, err := config.NewStore(path).Load()
	require.NoError(t, err)
	assert.True(t, loaded.Debug)
	assert.Equal(t, "WARN", loaded.LogLevel)
	assert.Equal(t, config.DefaultSettings().RateLimit, loaded.RateLimit)
	assert.Equal(t, 800.0, loaded.Window.Width)
}

func TestStore_LoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("debug = = true"), 0644))

	_, err := config.NewStore(path).Load()
	assert.Error(t, err)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *config.Settings)
		wantErr bool
	}{
		{"defaults", func(*config.Settings) {}, false},
		{"bad level", func(s *config.Settings) { s.LogLevel = "LOUD" }, true},
		{"negative rate", func(s *config.Settings) { s.RateLimit.PerSecond = -1 }, true},
		{"zero burst", func(s *config.Settings) { s.RateLimit.Burst = 0 }, true},
		{"rate limit off", func(s *config.Settings) { s.RateLimit = config.RateLimit{} }, false},
		{"zero size", func(s *config.Settings) { s.Window.Width = 0 }, true},
		{"plugin without path", func(s *config.Settings) { s.Plugins = []config.Plugin{{Name: "x"}} }, true},
		{"duplicate plugin", func(s *config.Settings) {
			s.Plugins = []config.Plugin{{Name: "x", Path: "a"}, {Name: "x", Path: "b"}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.DefaultSettings()
			tt.mutate(&s)
			if tt.wantErr {
				assert.Error(t, s.Validate())
			} else {
				assert.NoError(t, s.Validate())
			}
		})
	}
}

func TestSettings_Middleware(t *testing.T) {
	s := config.DefaultSettings()
	assert.Len(t, s.Middleware(), 2)

	s.Debug = true
	assert.Len(t, s.Middleware(), 3)

	s.RateLimit = config.RateLimit{}
	assert.Len(t, s.Middleware(), 2)
}
