//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

// StubManifestRepository implements repositories.ManifestRepository in memory.
type StubManifestRepository struct {
	Manifest      entities.Manifest
	ReadErr       error
	WriteErr      error
	WrittenValues []string
}

var _ repositories.ManifestRepository = (*StubManifestRepository)(nil)

func (s *StubManifestRepository) Read() (entities.Manifest, error) {
	return s.Manifest, s.ReadErr
}

func (s *StubManifestRepository) WriteVersion(version string) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.WrittenValues = append(s.WrittenValues, version)
	s.Manifest.Version = version
	return nil
}
