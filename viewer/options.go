package viewer

import (
	"log/slog"

	"github.com/cwbudde/ssv/vegalite/compile"
	"github.com/cwbudde/ssv/viewer/capability"
)

// Style holds the fixed colours and stroke of the generated layers.
type Style struct {
	Primary     string
	Template    string
	Lines       string
	Pin         string
	StrokeWidth float64
}

// DefaultStyle returns the Marz colour scheme.
func DefaultStyle() Style {
	return Style{
		Primary:     "green",
		Template:    "brown",
		Lines:       "blue",
		Pin:         "purple",
		StrokeWidth: 0.4,
	}
}

// Config defines viewer construction settings.
type Config struct {
	SmoothHalfWidth int
	Style           Style
	Compiler        compile.Compiler
	Logger          *slog.Logger
	Notifier        capability.Notifier
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the settings used when no option is given.
func DefaultConfig() Config {
	return Config{
		Style:    DefaultStyle(),
		Compiler: compile.Builtin{},
		Logger:   slog.Default(),
	}
}

// WithSmoothHalfWidth sets the half width of the moving-mean window applied
// to the primary trace. Negative values are ignored.
func WithSmoothHalfWidth(halfWidth int) Option {
	return func(cfg *Config) {
		if halfWidth >= 0 {
			cfg.SmoothHalfWidth = halfWidth
		}
	}
}

// WithStyle replaces the layer colours. Empty fields keep their default.
func WithStyle(s Style) Option {
	return func(cfg *Config) {
		if s.Primary != "" {
			cfg.Style.Primary = s.Primary
		}

		if s.Template != "" {
			cfg.Style.Template = s.Template
		}

		if s.Lines != "" {
			cfg.Style.Lines = s.Lines
		}

		if s.Pin != "" {
			cfg.Style.Pin = s.Pin
		}

		if s.StrokeWidth > 0 {
			cfg.Style.StrokeWidth = s.StrokeWidth
		}
	}
}

// WithCompiler sets the compiler turning layered specs into Vega.
func WithCompiler(c compile.Compiler) Option {
	return func(cfg *Config) {
		if c != nil {
			cfg.Compiler = c
		}
	}
}

// WithLogger sets the logger shared by the viewer and its stores.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// WithNotifier sets the notifier of the default dropPin capability. The
// caller keeps ownership of n.
func WithNotifier(n capability.Notifier) Option {
	return func(cfg *Config) {
		if n != nil {
			cfg.Notifier = n
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
