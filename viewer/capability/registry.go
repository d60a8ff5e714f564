// Package capability implements the name-keyed extension point of the
// viewer. User-registered functions shadow built-in defaults of the same
// name, and the result of the most recent Apply is cached per name.
package capability

import (
	"errors"
	"fmt"
	"log/slog"

	gocache "github.com/patrickmn/go-cache"

	"github.com/cwbudde/ssv/viewer/lines"
)

// Built-in capability names.
const (
	DropPin          = "dropPin"
	LoadSpectraLines = "loadSpectraLines"
	LoadTemplates    = "loadTemplates"
)

// Args is the argument dictionary handed to a capability.
type Args map[string]any

// Exec is a capability implementation operating on model M.
type Exec[M any] func(model M, args Args) any

// Source tells which tier resolved a capability.
type Source int

const (
	SourceNone Source = iota
	SourceUser
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceUser:
		return "user"
	case SourceDefault:
		return "default"
	default:
		return "none"
	}
}

// Result is the tagged outcome of one Apply.
type Result struct {
	Name   string
	Source Source
	Value  any
}

var (
	// ErrUnknownCapability is returned by Apply when neither a user
	// registration nor a default exists for the name.
	ErrUnknownCapability = errors.New("capability: unknown capability")

	errEmptyName = errors.New("capability: empty name")
	errNilExec   = errors.New("capability: nil exec")
)

type config struct {
	log      *slog.Logger
	notifier Notifier
}

// Option configures a [Registry].
type Option func(*config)

// WithLogger sets the logger for resolution diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithNotifier sets the notifier used by the default dropPin capability.
func WithNotifier(n Notifier) Option {
	return func(c *config) {
		if n != nil {
			c.notifier = n
		}
	}
}

// Registry resolves capabilities for model M in two tiers, user first and
// default second.
type Registry[M any] struct {
	user     map[string]Exec[M]
	defaults map[string]Exec[M]
	results  *gocache.Cache
	notifier Notifier
	log      *slog.Logger
}

// NewRegistry returns a registry holding the built-in defaults. Without
// [WithNotifier] a [QueueNotifier] is started.
func NewRegistry[M any](opts ...Option) *Registry[M] {
	cfg := config{log: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.notifier == nil {
		cfg.notifier = NewQueueNotifier(DefaultQueueSize, nil, cfg.log)
	}

	return &Registry[M]{
		user:     make(map[string]Exec[M]),
		defaults: Defaults[M](cfg.notifier),
		results:  gocache.New(gocache.NoExpiration, 0),
		notifier: cfg.notifier,
		log:      cfg.log,
	}
}

// Defaults returns the built-in capability table.
func Defaults[M any](n Notifier) map[string]Exec[M] {
	return map[string]Exec[M]{
		DropPin: func(_ M, args Args) any {
			msg, _ := args["message"].(string)
			n.Notify(msg)
			return nil
		},
		LoadSpectraLines: func(_ M, _ Args) any {
			return lines.Default()
		},
		LoadTemplates: func(_ M, _ Args) any {
			return nil
		},
	}
}

// Register stores or replaces the user capability for name.
func (r *Registry[M]) Register(name string, exec Exec[M]) error {
	if name == "" {
		return errEmptyName
	}

	if exec == nil {
		return errNilExec
	}

	r.user[name] = exec

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry[M]) MustRegister(name string, exec Exec[M]) {
	if err := r.Register(name, exec); err != nil {
		panic(err.Error())
	}
}

// Unregister removes the user capability so the default applies again.
func (r *Registry[M]) Unregister(name string) {
	delete(r.user, name)
}

// Resolve returns the implementation for name and the tier it came from.
func (r *Registry[M]) Resolve(name string) (Exec[M], Source, bool) {
	if exec, ok := r.user[name]; ok {
		return exec, SourceUser, true
	}

	if exec, ok := r.defaults[name]; ok {
		return exec, SourceDefault, true
	}

	return nil, SourceNone, false
}

// Apply runs the named capability on model and caches its return value.
// The cache is only written by Apply.
func (r *Registry[M]) Apply(model M, name string, args Args) (Result, error) {
	exec, src, ok := r.Resolve(name)
	if !ok {
		return Result{Name: name}, fmt.Errorf("%w: %s", ErrUnknownCapability, name)
	}

	if args == nil {
		args = Args{}
	}

	value := exec(model, args)
	r.results.Set(name, value, gocache.NoExpiration)
	r.log.Debug("capability applied", "name", name, "source", src.String())

	return Result{Name: name, Source: src, Value: value}, nil
}

// Value returns the result of the most recent Apply of name.
func (r *Registry[M]) Value(name string) (any, bool) {
	return r.results.Get(name)
}

// Notifier returns the notifier backing the dropPin default.
func (r *Registry[M]) Notifier() Notifier { return r.notifier }
