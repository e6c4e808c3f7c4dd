package components

import (
	"fmt"
	"html/template"
)

// Category is the kind of module a manifest describes
type Category string

const (
	CategoryView   Category = "view"
	CategoryLayout Category = "layout"
	CategoryWidget Category = "widget"
	CategoryForm   Category = "form"
)

// ComponentManifest represents the component.yaml file structure
type ComponentManifest struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description"`
	Category    Category `yaml:"category"`
	Author      string   `yaml:"author,omitempty"`
	// Templates are parsed in order; the first one is the entry template
	// unless Entry names another.
	Templates []string `yaml:"templates"`
	Entry     string   `yaml:"entry,omitempty"`
	// Exports are named templates ({{define}} blocks) callers may select.
	Exports []string `yaml:"exports,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
}

// Module is a loaded component: its manifest and parsed template set
type Module struct {
	Manifest ComponentManifest
	Path     string
	Template *template.Template
}

// Validate checks if the component manifest is valid
func (m *ComponentManifest) Validate() error {
	if m.Name == "" {
		return ManifestError{Field: "name", Reason: "name is required"}
	}

	if m.Version == "" {
		return ManifestError{Field: "version", Reason: "version is required"}
	}

	if m.Description == "" {
		return ManifestError{Field: "description", Reason: "description is required"}
	}

	validCategories := map[Category]bool{
		CategoryView:   true,
		CategoryLayout: true,
		CategoryWidget: true,
		CategoryForm:   true,
	}
	if !validCategories[m.Category] {
		return ManifestError{
			Field:  "category",
			Reason: "category must be one of: view, layout, widget, form",
		}
	}

	// At least one template required
	if len(m.Templates) == 0 {
		return ManifestError{Field: "templates", Reason: "at least one template is required"}
	}

	if m.Entry != "" && !m.HasTemplate(m.Entry) {
		return ManifestError{
			Field:  "entry",
			Reason: "entry must be one of the listed templates",
		}
	}

	for i, export := range m.Exports {
		if export == "" {
			return ManifestError{Field: fmt.Sprintf("exports[%d]", i), Reason: "export name is required"}
		}
	}

	return nil
}

// EntryTemplate returns the name of the template rendered by default
func (m *ComponentManifest) EntryTemplate() string {
	if m.Entry != "" {
		return m.Entry
	}
	return m.Templates[0]
}

// HasTemplate reports whether filename is listed in the manifest
func (m *ComponentManifest) HasTemplate(filename string) bool {
	for _, t := range m.Templates {
		if t == filename {
			return true
		}
	}
	return false
}

// HasExport reports whether the module exports the named template
func (m *ComponentManifest) HasExport(name string) bool {
	for _, e := range m.Exports {
		if e == name {
			return true
		}
	}
	return false
}

// Lookup returns the exported template name, or ErrExportNotFound
func (mod *Module) Lookup(export string) (*template.Template, error) {
	if !mod.Manifest.HasExport(export) {
		return nil, ErrExportNotFound{Module: mod.Manifest.Name, Export: export}
	}
	tmpl := mod.Template.Lookup(export)
	if tmpl == nil {
		return nil, ErrExportNotFound{Module: mod.Manifest.Name, Export: export}
	}
	return tmpl, nil
}

// Entry returns the entry template of the module
func (mod *Module) Entry() *template.Template {
	return mod.Template.Lookup(mod.Manifest.EntryTemplate())
}
