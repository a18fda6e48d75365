package repositories

import "github.com/rios0rios0/shipflow/internal/domain/entities"

// ManifestRepository reads and rewrites the project's package manifest.
type ManifestRepository interface {
	Read() (entities.Manifest, error)
	// WriteVersion rewrites the version field in place, leaving the rest untouched.
	WriteVersion(version string) error
}

// ManifestRepositoryFactory opens the manifest of the project at dir.
type ManifestRepositoryFactory func(dir string) ManifestRepository
