// Package config loads editor settings from defaults, an optional YAML file,
// BLUEPRINT_ environment variables and command-line flags, in that order of
// precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"blueprint/export"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = "blueprint.yaml"

// EnvPrefix starts every environment override. A double underscore nests:
// BLUEPRINT_LOG__LEVEL sets log.level.
const EnvPrefix = "BLUEPRINT_"

// Config holds every editor setting.
type Config struct {
	TouchDuration float64 `koanf:"touch_duration" validate:"gt=0"`
	FPS           int     `koanf:"fps" validate:"gt=0"`
	PanelRatio    float64 `koanf:"panel_ratio" validate:"gt=0,lt=1"`
	ShowOrdinals  bool    `koanf:"show_ordinals"`
	ASCII         bool    `koanf:"ascii"`

	Palette PaletteConfig `koanf:"palette"`
	Log     LogConfig     `koanf:"log"`
	Export  ExportConfig  `koanf:"export"`
}

// PaletteConfig names a descriptor file to load on top of the built-ins.
type PaletteConfig struct {
	Path  string `koanf:"path"`
	Watch bool   `koanf:"watch"`
}

// LogConfig selects the zap logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=console json"`
	File   string `koanf:"file"`
}

// ExportConfig is the target of the export key and the export command.
type ExportConfig struct {
	Format string `koanf:"format"`
	Path   string `koanf:"path"`
}

// Touch returns the touch highlight duration.
func (c *Config) Touch() time.Duration {
	return time.Duration(c.TouchDuration * float64(time.Second))
}

// Defaults returns the built-in settings as koanf keys.
func Defaults() map[string]any {
	return map[string]any{
		"touch_duration": 1.0,
		"fps":            30,
		"panel_ratio":    0.33,
		"show_ordinals":  false,
		"ascii":          false,
		"palette.path":   "",
		"palette.watch":  true,
		"log.level":      "info",
		"log.format":     "console",
		"log.file":       "",
		"export.format":  string(export.FormatMermaid),
		"export.path":    "blueprint.mmd",
	}
}

// flagKeys maps flag names that do not follow the kebab-to-snake rule.
var flagKeys = map[string]string{
	"palette":    "palette.path",
	"watch":      "palette.watch",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
	"format":     "export.format",
	"output":     "export.path",
}

// FlagKey returns the config key a flag sets.
func FlagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}

// Loaded is a loaded configuration plus the file it came from, if any.
type Loaded struct {
	*Config
	File string
}

// Load reads the configuration. An empty path falls back to DefaultFile when
// it exists; a named file must exist. Only flags the user set override.
func Load(path string, flags *pflag.FlagSet) (*Loaded, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := path
	if used == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			used = DefaultFile
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return FlagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Loaded{Config: &cfg, File: used}, nil
}

var validate = validator.New()

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("%w: export.format: %v", ErrInvalid, err)
	}
	return nil
}

// keys maps struct field namespaces back to config keys for messages.
var keys = map[string]string{
	"Config.TouchDuration": "touch_duration",
	"Config.FPS":           "fps",
	"Config.PanelRatio":    "panel_ratio",
	"Config.Log.Level":     "log.level",
	"Config.Log.Format":    "log.format",
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		key, ok := keys[e.Namespace()]
		if !ok {
			key = e.Namespace()
		}
		switch e.Tag() {
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s, got %v", key, e.Param(), e.Value()))
		case "lt":
			msgs = append(msgs, fmt.Sprintf("%s must be less than %s, got %v", key, e.Param(), e.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", key, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", key))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
