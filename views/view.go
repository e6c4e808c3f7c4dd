package views

import (
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/livefir/imovel/internal/components"
)

// View is the loaded implementation of a named view
type View struct {
	Name     string
	Module   string
	Version  string
	Template *template.Template
}

// Render executes the view with data
func (v *View) Render(w io.Writer, data any) error {
	if err := v.Template.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render view %s: %w", v.Name, err)
	}
	return nil
}

func newView(name string, mod *components.Module, tmpl *template.Template) *View {
	return &View{
		Name:     name,
		Module:   mod.Manifest.Name,
		Version:  mod.Manifest.Version,
		Template: tmpl,
	}
}

// ErrUnknownView is returned for names outside the registry
var ErrUnknownView = errors.New("unknown view")

// LoadError reports a failed deferred load. It is cached: every later
// request for the same view gets the same error.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load view %s: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
