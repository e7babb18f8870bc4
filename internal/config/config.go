// Package config resolves sv configuration from defaults, config files and
// command-line overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/streamview/internal/section"
	"github.com/calvinalkan/streamview/internal/sorting"
)

// Config errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrJournalDirEmpty    = errors.New("journal_dir cannot be empty")
	ErrInvalidLogLevel    = errors.New("invalid log_level")
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	JournalDir  string `json:"journal_dir"`
	Sort        string `json:"sort,omitempty"`
	Order       string `json:"order,omitempty"`
	PinnedFirst *bool  `json:"pinned_first,omitempty"`
	GroupBy     string `json:"group_by,omitempty"`
	LogLevel    string `json:"log_level,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd  string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	JournalDirAbs string `json:"-"` // Absolute path to the journal directory

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project or explicit config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	pinned := true

	return Config{
		JournalDir:  ".journal",
		Sort:        string(sorting.ModeDate),
		Order:       string(sorting.Desc),
		PinnedFirst: &pinned,
		LogLevel:    zerolog.LevelWarnValue,
	}
}

// FileName is the project config file name.
const FileName = ".sv.json"

// SortOptions returns the configured default sort. Call only on a validated
// config.
func (c *Config) SortOptions() sorting.Options {
	mode, _ := sorting.ParseMode(c.Sort)
	order, _ := sorting.ParseOrder(c.Order)

	return sorting.Options{Mode: mode, Order: order, PinnedFirst: c.PinnedFirst != nil && *c.PinnedFirst}
}

// Level returns the configured log level. Call only on a validated config.
func (c *Config) Level() zerolog.Level {
	level, _ := zerolog.ParseLevel(c.LogLevel)

	return level
}

// globalPath returns $XDG_CONFIG_HOME/sv/config.json, falling back to
// ~/.config/sv/config.json. Empty when neither variable is set.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "sv", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "sv", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for [Load].
type LoadInput struct {
	WorkDirOverride    string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath         string            // -c/--config flag value
	JournalDirOverride string            // --journal-dir flag value; empty means no override
	Env                map[string]string // environment variables
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/sv/config.json)
// 3. Project config file (.sv.json, if exists)
// 4. Explicit config file via ConfigPath (replaces the project file)
// 5. CLI overrides.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("resolving -C: %w", err)
		}

		workDir = abs
	}

	cfg := Default()

	if path := globalPath(input.Env); path != "" {
		globalCfg, loaded, err := loadFile(path, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = path
			cfg = merge(cfg, globalCfg)
		}
	}

	projectPath := filepath.Join(workDir, FileName)
	mustExist := false

	if input.ConfigPath != "" {
		projectPath = input.ConfigPath
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}

		mustExist = true
	}

	projectCfg, loaded, err := loadFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg.Sources.Project = projectPath
		cfg = merge(cfg, projectCfg)
	}

	if input.JournalDirOverride != "" {
		cfg.JournalDir = input.JournalDirOverride
	}

	validateErr := validate(&cfg)
	if validateErr != nil {
		return Config{}, validateErr
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.JournalDir) {
		cfg.JournalDirAbs = cfg.JournalDir
	} else {
		cfg.JournalDirAbs = filepath.Join(workDir, cfg.JournalDir)
	}

	return cfg, nil
}

// loadFile loads a config file. If mustExist is false, a missing file loads
// nothing. Explicitly empty journal_dir is rejected here, since merge cannot
// tell it apart from an absent key.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if mustExist {
				return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
			}

			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	cfg, parseErr := parse(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	if val, exists := raw["journal_dir"]; exists {
		if str, ok := val.(string); ok && str == "" {
			return Config{}, ErrJournalDirEmpty
		}
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.JournalDir != "" {
		base.JournalDir = overlay.JournalDir
	}

	if overlay.Sort != "" {
		base.Sort = overlay.Sort
	}

	if overlay.Order != "" {
		base.Order = overlay.Order
	}

	if overlay.PinnedFirst != nil {
		base.PinnedFirst = overlay.PinnedFirst
	}

	if overlay.GroupBy != "" {
		base.GroupBy = overlay.GroupBy
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	return base
}

func validate(cfg *Config) error {
	if cfg.JournalDir == "" {
		return ErrJournalDirEmpty
	}

	if _, err := sorting.ParseMode(cfg.Sort); err != nil {
		return fmt.Errorf("%w: sort: %w", ErrConfigInvalid, err)
	}

	if _, err := sorting.ParseOrder(cfg.Order); err != nil {
		return fmt.Errorf("%w: order: %w", ErrConfigInvalid, err)
	}

	if cfg.GroupBy != "" {
		if _, err := section.ParseDimension(cfg.GroupBy); err != nil {
			return fmt.Errorf("%w: group_by: %w", ErrConfigInvalid, err)
		}
	}

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}

	return nil
}

// Format returns the config as indented JSON.
func Format(cfg *Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	return string(data), nil
}
