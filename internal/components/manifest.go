package components

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

const (
	ManifestFileName = "component.yaml"
)

// LoadManifest loads and parses a component manifest from dir inside fsys
func LoadManifest(fsys fs.FS, dir string) (*ComponentManifest, error) {
	manifestPath := path.Join(dir, ManifestFileName)

	data, err := fs.ReadFile(fsys, manifestPath)
	if err != nil {
		return nil, ParseError{Stage: StageManifest, Path: manifestPath, Err: err}
	}

	manifest, err := ParseManifest(manifestPath, data)
	if err != nil {
		return nil, err
	}

	// Component name must match its directory
	dirName := path.Base(dir)
	if manifest.Name != dirName {
		return nil, ManifestError{
			Field:  "name",
			Reason: fmt.Sprintf("%q must match directory name %q", manifest.Name, dirName),
		}
	}

	return manifest, nil
}

// ParseManifest decodes and validates manifest bytes. path is only used in
// error messages.
func ParseManifest(path string, data []byte) (*ComponentManifest, error) {
	var manifest ComponentManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, ParseError{
			Stage: StageManifest,
			Path:  path,
			Err:   fmt.Errorf("failed to parse YAML: %w", err),
		}
	}

	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	if err := validateVersion(manifest.Version); err != nil {
		return nil, ManifestError{Field: "version", Reason: err.Error()}
	}

	return &manifest, nil
}

// validateVersion checks if version follows semantic versioning
func validateVersion(version string) error {
	if _, err := semver.StrictNewVersion(version); err != nil {
		return fmt.Errorf("version must follow semantic versioning (e.g., 1.0.0)")
	}
	return nil
}

// ManifestExists checks if a component manifest exists in dir
func ManifestExists(fsys fs.FS, dir string) bool {
	_, err := fs.Stat(fsys, path.Join(dir, ManifestFileName))
	return err == nil
}
