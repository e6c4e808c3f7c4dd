package components

import (
	"fmt"
)

// ErrModuleNotFound is returned when no manifest exists for a module name
type ErrModuleNotFound struct {
	Name string
	Root string
}

func (e ErrModuleNotFound) Error() string {
	return fmt.Sprintf("module %q has no %s under %s", e.Name, ManifestFileName, e.Root)
}

// ManifestError reports a manifest field that breaks a rule. List fields
// carry their position, as in "exports[2]".
type ManifestError struct {
	Field  string
	Reason string
}

func (e ManifestError) Error() string {
	return "invalid manifest: " + e.Field + ": " + e.Reason
}

// Parse stages reported by ParseError
const (
	StageManifest = "manifest"
	StageTemplate = "template"
)

// ParseError wraps a read or parse failure of one module file
type ParseError struct {
	Stage string
	Path  string
	Err   error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e ParseError) Unwrap() error { return e.Err }

// ErrExportNotFound is returned when a module does not export a template
type ErrExportNotFound struct {
	Module string
	Export string
}

func (e ErrExportNotFound) Error() string {
	return fmt.Sprintf("module %s does not export %q", e.Module, e.Export)
}
