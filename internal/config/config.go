// Package config loads daybook's layered JSONC configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/daybook/internal/record"
	"github.com/calvinalkan/daybook/internal/store"
	"github.com/calvinalkan/daybook/pkg/query"
)

// Errors for configuration loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrDataDirEmpty       = errors.New("data_dir cannot be empty")
	ErrUnknownBackend     = errors.New("unknown backend (file|sqlite)")
	ErrInvalidLogLevel    = errors.New("invalid log_level")
	ErrInvalidView        = errors.New("invalid view")
)

// FileName is the project config file name.
const FileName = ".daybook.json"

// View is a saved query over one collection.
type View struct {
	Collection string            `json:"collection"`
	Filters    []query.Predicate `json:"filters,omitempty"`
	Sort       query.Sort        `json:"sort,omitzero"`
	Limit      int               `json:"limit,omitempty"`
}

// Config holds all configuration options.
type Config struct {
	DataDir  string          `json:"data_dir"`
	Backend  string          `json:"backend,omitempty"`
	LogLevel string          `json:"log_level,omitempty"`
	Views    map[string]View `json:"views,omitempty"`

	// Resolved (not serialized).
	EffectiveCwd string  `json:"-"`
	DataDirAbs   string  `json:"-"`
	Sources      Sources `json:"-"`
}

// Sources records which config files were loaded.
type Sources struct {
	Global  string // path to global config if loaded
	Project string // path to project or --config file if loaded
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:  ".daybook",
		Backend:  store.BackendFile,
		LogLevel: logrus.WarnLevel.String(),
	}
}

// ViewNames returns the configured view names, sorted.
func (c Config) ViewNames() []string {
	return slices.Sorted(maps.Keys(c.Views))
}

// GlobalPath returns $XDG_CONFIG_HOME/daybook/config.json, falling back to
// ~/.config/daybook/config.json, or "" when neither variable is set.
func GlobalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "daybook", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "daybook", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for [Load].
type LoadInput struct {
	WorkDirOverride string // -C/--cwd; empty means os.Getwd
	ConfigPath      string // -c/--config
	DataDirOverride string // --data-dir
	BackendOverride string // --backend
	Env             map[string]string
}

// Load merges configuration with this precedence (highest wins):
// defaults, global config, project .daybook.json or --config, CLI overrides.
// Paths in the result are absolute.
func Load(in LoadInput) (Config, error) {
	workDir := in.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("resolve working directory: %w", err)
		}

		workDir = abs
	}

	cfg := Default()

	if globalPath := GlobalPath(in.Env); globalPath != "" {
		globalCfg, loaded, err := loadFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = merge(cfg, globalCfg)
			cfg.Sources.Global = globalPath
		}
	}

	projectPath := filepath.Join(workDir, FileName)
	mustExist := false

	if in.ConfigPath != "" {
		projectPath = in.ConfigPath
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
		cfg = merge(cfg, projectCfg)
		cfg.Sources.Project = projectPath
	}

	if in.DataDirOverride != "" {
		cfg.DataDir = in.DataDirOverride
	}

	if in.BackendOverride != "" {
		cfg.Backend = in.BackendOverride
	}

	err = validate(cfg)
	if err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.DataDir) {
		cfg.DataDirAbs = filepath.Clean(cfg.DataDir)
	} else {
		cfg.DataDirAbs = filepath.Join(workDir, cfg.DataDir)
	}

	return cfg, nil
}

// loadFile reads one config file. Missing optional files are not loaded.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case os.IsNotExist(err) && mustExist:
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		case os.IsNotExist(err):
			return Config{}, false, nil
		default:
			return Config{}, false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
		}
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	// An explicit "data_dir": "" is an error, not "keep the default".
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	if val, ok := raw["data_dir"].(string); ok && strings.TrimSpace(val) == "" {
		return Config{}, ErrDataDirEmpty
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.Backend != "" {
		base.Backend = overlay.Backend
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	if len(overlay.Views) > 0 {
		views := make(map[string]View, len(base.Views)+len(overlay.Views))
		maps.Copy(views, base.Views)
		maps.Copy(views, overlay.Views)
		base.Views = views
	}

	return base
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.DataDir) == "" {
		return ErrDataDirEmpty
	}

	if cfg.Backend != store.BackendFile && cfg.Backend != store.BackendSQLite {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}

	_, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}

	for _, name := range cfg.ViewNames() {
		view := cfg.Views[name]

		err = record.ValidateFilters(view.Collection, view.Filters)
		if err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidView, name, err)
		}

		if view.Limit < 0 {
			return fmt.Errorf("%w %q: limit must not be negative", ErrInvalidView, name)
		}

		if view.Sort.Field != "" {
			fields, _ := record.Fields(view.Collection)
			if !slices.Contains(fields, view.Sort.Field) {
				return fmt.Errorf("%w %q: cannot sort by %q", ErrInvalidView, name, view.Sort.Field)
			}
		}
	}

	return nil
}
