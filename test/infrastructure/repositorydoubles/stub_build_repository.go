//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

// StubBuildRepository implements repositories.BuildRepository with a canned outcome.
type StubBuildRepository struct {
	ConnectErr error
	Result     entities.BuildResult
	BuildErr   error

	Sessions   []entities.BuildSession
	BuildCalls int
}

var _ repositories.BuildRepository = (*StubBuildRepository)(nil)

func (s *StubBuildRepository) Connect(_ context.Context, session entities.BuildSession) error {
	s.Sessions = append(s.Sessions, session)
	return s.ConnectErr
}

func (s *StubBuildRepository) Build(_ context.Context) (entities.BuildResult, error) {
	s.BuildCalls++
	return s.Result, s.BuildErr
}

// Factory returns a BuildRepositoryFactory that always hands out s.
func (s *StubBuildRepository) Factory() repositories.BuildRepositoryFactory {
	return func(_ *entities.Settings) repositories.BuildRepository {
		return s
	}
}
