package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

const (
	fileName = "package.json"
	fileMode = 0o644
)

// versionFieldPattern matches the first "version": "<value>" pair.
var versionFieldPattern = regexp.MustCompile(`("version"\s*:\s*")[^"]*(")`)

type packageJSON struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Scripts map[string]string `json:"scripts"`
}

// PackageJSONRepository reads and updates the package.json of a project.
type PackageJSONRepository struct {
	path string
}

// NewPackageJSONRepository creates a repository for <dir>/package.json.
func NewPackageJSONRepository(dir string) repositories.ManifestRepository {
	return &PackageJSONRepository{path: filepath.Join(dir, fileName)}
}

func (r *PackageJSONRepository) Read() (entities.Manifest, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return entities.Manifest{}, fmt.Errorf("%w: %s not found", entities.ErrConfiguration, r.path)
	}
	if err != nil {
		return entities.Manifest{}, fmt.Errorf("failed to read %s: %w", r.path, err)
	}

	var pkg packageJSON
	if unmarshalErr := json.Unmarshal(data, &pkg); unmarshalErr != nil {
		return entities.Manifest{}, fmt.Errorf("%w: invalid %s: %w", entities.ErrConfiguration, r.path, unmarshalErr)
	}
	return entities.Manifest{Name: pkg.Name, Version: pkg.Version, Scripts: pkg.Scripts}, nil
}

// WriteVersion rewrites the version in place, leaving the rest of the file
// byte-for-byte intact.
func (r *PackageJSONRepository) WriteVersion(version string) error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", r.path, err)
	}

	loc := versionFieldPattern.FindSubmatchIndex(data)
	if loc == nil {
		return fmt.Errorf("%w: %s has no version field", entities.ErrConfiguration, r.path)
	}
	// loc[3] ends the prefix group, loc[4] starts the closing quote
	updated := make([]byte, 0, len(data)+len(version))
	updated = append(updated, data[:loc[3]]...)
	updated = append(updated, version...)
	updated = append(updated, data[loc[4]:]...)

	if writeErr := os.WriteFile(r.path, updated, fileMode); writeErr != nil {
		return fmt.Errorf("failed to write %s: %w", r.path, writeErr)
	}
	return nil
}
