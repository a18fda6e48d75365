//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

// InMemoryCredentialRepository implements repositories.CredentialRepository over a map.
type InMemoryCredentialRepository struct {
	Values  map[string]string
	Writes  []string
	ReadErr error
}

var _ repositories.CredentialRepository = (*InMemoryCredentialRepository)(nil)

// NewInMemoryCredentialRepository returns a store holding the given values.
func NewInMemoryCredentialRepository(values map[string]string) *InMemoryCredentialRepository {
	if values == nil {
		values = map[string]string{}
	}
	return &InMemoryCredentialRepository{Values: values}
}

func (s *InMemoryCredentialRepository) Read(key string) (string, error) {
	if s.ReadErr != nil {
		return "", s.ReadErr
	}
	return s.Values[key], nil
}

func (s *InMemoryCredentialRepository) Write(key, value string) error {
	s.Writes = append(s.Writes, key)
	s.Values[key] = value
	return nil
}

func (s *InMemoryCredentialRepository) Path(key string) string {
	return "/home/test/.shipflow/" + key
}
