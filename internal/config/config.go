// Package config provides configuration types, defaults and loading for the
// ssv command.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. SSV_COMPILER_MODE.
const EnvPrefix = "SSV"

// Compiler modes.
const (
	ModeBuiltin = "builtin"
	ModeExec    = "exec"
)

// ErrInvalid reports a configuration value out of range.
var ErrInvalid = errors.New("config: invalid value")

// Config holds all configuration options for ssv.
type Config struct {
	Width           int            `mapstructure:"width" yaml:"width"`
	Height          int            `mapstructure:"height" yaml:"height"`
	SmoothHalfWidth int            `mapstructure:"smooth_half_width" yaml:"smooth_half_width"`
	Compiler        CompilerConfig `mapstructure:"compiler" yaml:"compiler"`
	Style           StyleConfig    `mapstructure:"style" yaml:"style"`
	Log             LogConfig      `mapstructure:"log" yaml:"log"`
}

// CompilerConfig selects how vega-lite specs are compiled.
type CompilerConfig struct {
	Mode      string `mapstructure:"mode" yaml:"mode"`     // "builtin" (default) or "exec"
	Binary    string `mapstructure:"binary" yaml:"binary"` // used when mode=exec
	CacheSize int    `mapstructure:"cache_size" yaml:"cache_size"`
}

// StyleConfig holds the chart colours.
type StyleConfig struct {
	Primary     string  `mapstructure:"primary" yaml:"primary"`
	Template    string  `mapstructure:"template" yaml:"template"`
	Lines       string  `mapstructure:"lines" yaml:"lines"`
	Pin         string  `mapstructure:"pin" yaml:"pin"`
	StrokeWidth float64 `mapstructure:"stroke_width" yaml:"stroke_width"`
}

// LogConfig controls diagnostics on stderr.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Width:           1000,
		Height:          500,
		SmoothHalfWidth: 0,
		Compiler: CompilerConfig{
			Mode:      ModeBuiltin,
			Binary:    "vl2vg",
			CacheSize: 64,
		},
		Style: StyleConfig{
			Primary:     "green",
			Template:    "brown",
			Lines:       "blue",
			Pin:         "purple",
			StrokeWidth: 0.4,
		},
		Log: LogConfig{Level: "info"},
	}
}

// SetDefaults registers every default on v so that environment variables
// and partial files resolve against them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("width", d.Width)
	v.SetDefault("height", d.Height)
	v.SetDefault("smooth_half_width", d.SmoothHalfWidth)
	v.SetDefault("compiler.mode", d.Compiler.Mode)
	v.SetDefault("compiler.binary", d.Compiler.Binary)
	v.SetDefault("compiler.cache_size", d.Compiler.CacheSize)
	v.SetDefault("style.primary", d.Style.Primary)
	v.SetDefault("style.template", d.Style.Template)
	v.SetDefault("style.lines", d.Style.Lines)
	v.SetDefault("style.pin", d.Style.Pin)
	v.SetDefault("style.stroke_width", d.Style.StrokeWidth)
	v.SetDefault("log.level", d.Log.Level)
}

// New returns a viper instance with defaults and SSV_ environment overrides.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file at path into v and decodes the result. An
// empty path looks for ssv.yaml in the working directory and then in
// ~/.config/ssv; a missing file there is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ssv")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "ssv"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks sizes, the compiler mode and the log level.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, c.Width, c.Height)
	}

	if c.SmoothHalfWidth < 0 {
		return fmt.Errorf("%w: smooth_half_width %d", ErrInvalid, c.SmoothHalfWidth)
	}

	switch c.Compiler.Mode {
	case ModeBuiltin:
	case ModeExec:
		if c.Compiler.Binary == "" {
			return fmt.Errorf("%w: compiler.binary is required when mode=exec", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: compiler.mode %q", ErrInvalid, c.Compiler.Mode)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel parses the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log.level %q", ErrInvalid, l.Level)
	}

	return level, nil
}

// WriteDefault writes Defaults as YAML to path. It refuses to overwrite an
// existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config: %s already exists", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config: creating config directory: %w", err)
	}

	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("config: marshaling defaults: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: writing config file: %w", err)
	}

	return nil
}
