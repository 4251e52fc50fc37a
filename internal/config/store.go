package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Store handles persistence of settings to a YAML or TOML file, picked by
// the file extension.
type Store struct {
	path string
}

// NewStore creates a new settings store.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

func (s *Store) isTOML() bool {
	return strings.EqualFold(filepath.Ext(s.path), ".toml")
}

// Load reads settings from the file. A missing file yields the defaults.
func (s *Store) Load() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, err
	}

	settings := DefaultSettings()
	if s.isTOML() {
		err = toml.Unmarshal(data, &settings)
	} else {
		err = yaml.Unmarshal(data, &settings)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("parse %s: %w", s.path, err)
	}

	// Ensure defaults if not set
	settings.LogLevel = strings.ToUpper(settings.LogLevel)
	if settings.LogLevel == "" {
		settings.LogLevel = DefaultSettings().LogLevel
	}

	return settings, nil
}

// Save writes settings to the file.
func (s *Store) Save(settings Settings) error {
	var (
		bytes []byte
		err   error
	)
	if s.isTOML() {
		bytes, err = toml.Marshal(settings)
	} else {
		bytes, err = yaml.Marshal(settings)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, bytes, 0644)
}
