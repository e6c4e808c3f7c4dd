// Package views holds the deferred view registry.
//
// Each named view is backed by a module under system/ that is not read or
// parsed until the view is first requested. The set of names is fixed when
// the registry is built.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"go.uber.org/zap"

	"github.com/livefir/imovel/button"
	"github.com/livefir/imovel/config"
	"github.com/livefir/imovel/internal/components"
)

// View names. Routing depends on these staying stable.
const (
	Dashboard              = "dashboard"
	ChartsSection          = "charts-section"
	ImovelForm             = "imovel-form"
	DashboardWithTransform = "dashboard-transformed"
)

// DashboardExport is the template the transformed dashboard selects from the
// dashboard module.
const DashboardExport = "Dashboard"

//go:embed system
var systemFS embed.FS

// Page is the data every view template renders with
type Page struct {
	Config   *config.Config
	Title    string
	Controls []button.Props
}

// Entry describes a registered view
type Entry struct {
	Name   string
	Module string
	State  State
}

// Registry maps view names to deferred handles
type Registry struct {
	loader  *components.Loader
	log     *zap.Logger
	order   []string
	modules map[string]string
	entries map[string]*Lazy[*View]
}

type options struct {
	root  string
	funcs template.FuncMap
	log   *zap.Logger
}

// Option configures a Registry
type Option func(*options)

// WithFuncs adds template functions; they override the built-in "button".
func WithFuncs(funcs template.FuncMap) Option {
	return func(o *options) {
		for name, fn := range funcs {
			o.funcs[name] = fn
		}
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithRoot sets the module directory inside the filesystem
func WithRoot(root string) Option {
	return func(o *options) {
		o.root = root
	}
}

// Default returns a registry over the embedded system modules
func Default(opts ...Option) *Registry {
	return NewRegistry(systemFS, append([]Option{WithRoot("system")}, opts...)...)
}

// NewRegistry builds the fixed registry over the modules in fsys. Nothing is
// read from fsys until a view is requested.
func NewRegistry(fsys fs.FS, opts ...Option) *Registry {
	o := options{
		root:  ".",
		funcs: template.FuncMap{"button": button.HTML},
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{
		loader: components.NewLoader(fsys,
			components.WithRoot(o.root),
			components.WithFuncs(o.funcs),
			components.WithLogger(o.log),
		),
		log:     o.log,
		modules: make(map[string]string),
		entries: make(map[string]*Lazy[*View]),
	}

	r.register(Dashboard, Dashboard, entryView(Dashboard))
	r.register(ChartsSection, ChartsSection, entryView(ChartsSection))
	r.register(ImovelForm, ImovelForm, entryView(ImovelForm))
	r.register(DashboardWithTransform, Dashboard, exportView(DashboardWithTransform, DashboardExport))

	return r
}

func entryView(name string) func(*components.Module) (*View, error) {
	return func(mod *components.Module) (*View, error) {
		return newView(name, mod, mod.Entry()), nil
	}
}

func exportView(name, export string) func(*components.Module) (*View, error) {
	return func(mod *components.Module) (*View, error) {
		tmpl, err := mod.Lookup(export)
		if err != nil {
			return nil, err
		}
		return newView(name, mod, tmpl), nil
	}
}

func (r *Registry) register(name, module string, build func(*components.Module) (*View, error)) {
	load := func(ctx context.Context) (*components.Module, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return r.loader.Load(module)
	}

	logged := func(ctx context.Context) (*View, error) {
		start := time.Now()
		v, err := Then(load, build)(ctx)
		if err != nil {
			r.log.Error("view load failed", zap.String("view", name), zap.String("module", module), zap.Error(err))
			return nil, err
		}
		r.log.Info("view loaded",
			zap.String("view", name),
			zap.String("module", module),
			zap.Duration("took", time.Since(start)),
		)
		return v, nil
	}

	r.order = append(r.order, name)
	r.modules[name] = module
	r.entries[name] = NewLazy(name, logged)
}

// Lookup returns the handle for name
func (r *Registry) Lookup(name string) (*Lazy[*View], bool) {
	l, ok := r.entries[name]
	return l, ok
}

// Load resolves the named view, loading it on first use
func (r *Registry) Load(ctx context.Context, name string) (*View, error) {
	l, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownView, name)
	}
	return l.Get(ctx)
}

// Names returns the registered view names in registration order
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Entries describes every registered view and its current state
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.order))
	for _, name := range r.order {
		entries = append(entries, Entry{
			Name:   name,
			Module: r.modules[name],
			State:  r.entries[name].State(),
		})
	}
	return entries
}

// Modules reads the manifests of the modules backing the views, sorted by
// name. Templates are not parsed, so view states are unchanged.
func (r *Registry) Modules() ([]components.ComponentManifest, error) {
	return r.loader.List()
}

// ModuleParses returns how many modules have been parsed
func (r *Registry) ModuleParses() int {
	return r.loader.Parses()
}
