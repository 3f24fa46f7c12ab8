// Package config loads flowmap's layered JSONC configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tailscale/hujson"
)

// Errors returned while loading configuration.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrStateDirEmpty      = errors.New("state_dir cannot be empty")
)

// Config holds all configuration options.
type Config struct {
	StateDir string   `json:"state_dir" validate:"required"`
	Backend  string   `json:"backend,omitempty" validate:"oneof=file sqlite"`
	Variant  string   `json:"variant,omitempty" validate:"oneof=vanillasoft hubspot"`
	LogLevel string   `json:"log_level,omitempty" validate:"oneof=debug info warn error"`
	Editor   string   `json:"editor,omitempty"`
	Tags     []string `json:"tags,omitempty" validate:"dive,required"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"`
	StateDirAbs  string `json:"-"`

	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string
	Project string
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		StateDir: ".flowmap",
		Backend:  "file",
		Variant:  "vanillasoft",
		LogLevel: "warn",
	}
}

// FileName is the project config file name.
const FileName = ".flowmap.json"

// globalPath returns $XDG_CONFIG_HOME/flowmap/config.json, falling back to
// ~/.config/flowmap/config.json. Empty if neither variable is set.
func globalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "flowmap", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "flowmap", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for [Load].
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd; os.Getwd() when empty
	ConfigPath      string            // -c/--config
	Overrides       Config            // non-empty fields win over every file
	Env             map[string]string // environment variables
}

// Load merges configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config
// 3. Project config (.flowmap.json) or the explicit -c file
// 4. CLI overrides.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()

	if path := globalPath(input.Env); path != "" {
		fileCfg, loaded, err := loadFile(path, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = merge(cfg, fileCfg)
			cfg.Sources.Global = path
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

		if _, statErr := os.Stat(projectPath); statErr != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigFileNotFound, input.ConfigPath)
		}
	}

	fileCfg, loaded, err := loadFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg = merge(cfg, fileCfg)
		cfg.Sources.Project = projectPath
	}

	cfg = merge(cfg, input.Overrides)

	err = Validate(cfg)
	if err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.StateDir) {
		cfg.StateDirAbs = cfg.StateDir
	} else {
		cfg.StateDirAbs = filepath.Join(workDir, cfg.StateDir)
	}

	return cfg, nil
}

// loadFile reads one config file. A missing optional file is not an error.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, false, nil
	}

	cfg, explicitEmpty, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	if explicitEmpty["state_dir"] {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrStateDirEmpty)
	}

	return cfg, true, nil
}

// parse decodes JSONC and reports which string fields were explicitly set to
// "" so they can be rejected instead of silently falling back to defaults.
func parse(data []byte) (Config, map[string]bool, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := make(map[string]bool)

	for key, val := range raw {
		if str, ok := val.(string); ok && str == "" {
			explicitEmpty[key] = true
		}
	}

	return cfg, explicitEmpty, nil
}

func merge(base, overlay Config) Config {
	if overlay.StateDir != "" {
		base.StateDir = overlay.StateDir
	}

	if overlay.Backend != "" {
		base.Backend = overlay.Backend
	}

	if overlay.Variant != "" {
		base.Variant = overlay.Variant
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	if overlay.Editor != "" {
		base.Editor = overlay.Editor
	}

	for _, t := range overlay.Tags {
		if !slices.Contains(base.Tags, t) {
			base.Tags = append(base.Tags, t)
		}
	}

	return base
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their config-file names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Validate checks field values against their allowed sets.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	msgs := make([]string, 0, len(fieldErrs))

	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}

	return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		if field == "state_dir" {
			return ErrStateDirEmpty.Error()
		}

		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s (got %q)", field, strings.ReplaceAll(fe.Param(), " ", "|"), fe.Value())
	default:
		return field + " is invalid"
	}
}

// Format renders cfg as the JSON a config file would contain.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting config: %w", err)
	}

	return string(data), nil
}
