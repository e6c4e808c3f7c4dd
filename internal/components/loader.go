// Package components loads view modules: a component.yaml manifest plus the
// html/template files it lists, read from an fs.FS (usually embedded).
package components

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Loader loads modules from a filesystem and caches them by name
type Loader struct {
	fsys  fs.FS
	root  string
	funcs template.FuncMap
	log   *zap.Logger

	mu     sync.Mutex
	cache  map[string]*Module
	parses int
}

// Option configures a Loader
type Option func(*Loader)

// WithRoot sets the directory inside the filesystem holding the modules
func WithRoot(root string) Option {
	return func(l *Loader) {
		l.root = root
	}
}

// WithFuncs registers template functions available to every module
func WithFuncs(funcs template.FuncMap) Option {
	return func(l *Loader) {
		for name, fn := range funcs {
			l.funcs[name] = fn
		}
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// NewLoader creates a loader over fsys
func NewLoader(fsys fs.FS, opts ...Option) *Loader {
	l := &Loader{
		fsys:  fsys,
		root:  ".",
		funcs: template.FuncMap{},
		log:   zap.NewNop(),
		cache: make(map[string]*Module),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads a module by name. Successful loads are cached, so a module is
// parsed once no matter how many callers ask for it.
func (l *Loader) Load(name string) (*Module, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, exists := l.cache[name]; exists {
		return cached, nil
	}

	dir := path.Join(l.root, name)
	if !ManifestExists(l.fsys, dir) {
		return nil, ErrModuleNotFound{Name: name, Root: l.root}
	}

	mod, err := l.loadFromDir(dir)
	if err != nil {
		l.log.Warn("component load failed", zap.String("component", name), zap.Error(err))
		return nil, err
	}

	l.parses++
	l.cache[name] = mod
	l.log.Debug("component loaded",
		zap.String("component", name),
		zap.String("version", mod.Manifest.Version),
		zap.Int("templates", len(mod.Manifest.Templates)),
	)
	return mod, nil
}

func (l *Loader) loadFromDir(dir string) (*Module, error) {
	manifest, err := LoadManifest(l.fsys, dir)
	if err != nil {
		return nil, err
	}

	tmpl, err := l.parseTemplates(dir, manifest)
	if err != nil {
		return nil, err
	}

	mod := &Module{
		Manifest: *manifest,
		Path:     dir,
		Template: tmpl,
	}

	for _, export := range manifest.Exports {
		if tmpl.Lookup(export) == nil {
			return nil, ErrExportNotFound{Module: manifest.Name, Export: export}
		}
	}

	return mod, nil
}

// parseTemplates parses every template file into one set named after the
// component; each file is reachable by its filename.
func (l *Loader) parseTemplates(dir string, manifest *ComponentManifest) (*template.Template, error) {
	root := template.New(manifest.Name).Funcs(l.funcs)

	for _, filename := range manifest.Templates {
		templatePath := path.Join(dir, filename)
		data, err := fs.ReadFile(l.fsys, templatePath)
		if err != nil {
			return nil, ParseError{Stage: StageTemplate, Path: templatePath, Err: err}
		}

		if _, err := root.New(filename).Parse(string(data)); err != nil {
			return nil, ParseError{Stage: StageTemplate, Path: templatePath, Err: err}
		}
	}

	return root, nil
}

// List returns the manifests of every module under the root, sorted by name.
// Modules with unreadable manifests are skipped.
func (l *Loader) List() ([]ComponentManifest, error) {
	entries, err := fs.ReadDir(l.fsys, l.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read components directory: %w", err)
	}

	var manifests []ComponentManifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := LoadManifest(l.fsys, path.Join(l.root, entry.Name()))
		if err != nil {
			l.log.Debug("skipping component", zap.String("component", entry.Name()), zap.Error(err))
			continue
		}
		manifests = append(manifests, *manifest)
	}

	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].Name < manifests[j].Name
	})
	return manifests, nil
}

// Parses returns how many modules have been parsed so far
func (l *Loader) Parses() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.parses
}
