// Package config handles loading and saving dragtodo configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/dragtodo/config.yaml
//   - Data:   ~/.local/share/dragtodo/ (board storage)
//   - State:  ~/.local/state/dragtodo/ (debug logs)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "dragtodo"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// StorageConfig selects where the board is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend,omitempty"` // file, sqlite, memory
	// Path is a directory for the file backend and a database file for
	// sqlite. Empty means a default under DataDir.
	Path          string        `yaml:"path,omitempty"`
	WriteDebounce time.Duration `yaml:"write_debounce,omitempty"` // 0 writes on every change
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	ShowDetail          bool `yaml:"show_detail,omitempty"`
	Mouse               bool `yaml:"mouse"`
	ConfirmDeleteColumn bool `yaml:"confirm_delete_column"`
	ColumnWidth         int  `yaml:"column_width,omitempty"`
}

// WatchConfig controls reloading the board when another process edits it.
type WatchConfig struct {
	Enabled      bool          `yaml:"enabled"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
}

// Config is the top-level configuration for dragtodo.
type Config struct {
	Storage StorageConfig `yaml:"storage,omitempty"`
	UI      UIConfig      `yaml:"ui,omitempty"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendFile,
		},
		UI: UIConfig{
			Mouse:               true,
			ConfirmDeleteColumn: true,
			ColumnWidth:         30,
		},
		Watch: WatchConfig{
			Enabled:      true,
			PollInterval: 2 * time.Second,
		},
	}
}

// Validate reports configuration values that cannot be used.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q (want file, sqlite or memory)", c.Storage.Backend)
	}
	if c.Storage.WriteDebounce < 0 {
		return fmt.Errorf("storage.write_debounce: must not be negative")
	}
	if c.Watch.PollInterval < 0 {
		return fmt.Errorf("watch.poll_interval: must not be negative")
	}
	if c.UI.ColumnWidth != 0 && c.UI.ColumnWidth < 12 {
		return fmt.Errorf("ui.column_width: %d is too narrow (minimum 12)", c.UI.ColumnWidth)
	}
	return nil
}

// ResolvedPath returns the configured storage location, or the backend's
// default under DataDir.
func (s StorageConfig) ResolvedPath() string {
	if s.Path != "" {
		return s.Path
	}
	dir := DataDir()
	if s.Backend == BackendSQLite {
		return filepath.Join(dir, "board.db")
	}
	return dir
}

// ConfigDir returns the XDG config directory for dragtodo.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory for dragtodo.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback, appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendFile
	}
	cfg.Storage.Backend = strings.ToLower(cfg.Storage.Backend)
	cfg.Storage.Path = expandHome(cfg.Storage.Path)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
