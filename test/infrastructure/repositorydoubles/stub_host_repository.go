//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

// StubHostRepository implements repositories.HostRepository with canned answers.
type StubHostRepository struct {
	HostType entities.HostType

	User    *entities.HostUser
	UserErr error
	Orgs    []entities.HostOrg
	OrgsErr error

	ExistingRepo *entities.HostRepo
	GetRepoErr   error
	CreateErr    error

	CreatedRepos    []string
	CreatedOrgRepos []string
	GetUserCalls    int
}

var _ repositories.HostRepository = (*StubHostRepository)(nil)

func (s *StubHostRepository) Type() entities.HostType { return s.HostType }

func (s *StubHostRepository) CreateRepo(_ context.Context, name string) (*entities.HostRepo, error) {
	s.CreatedRepos = append(s.CreatedRepos, name)
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	return &entities.HostRepo{FullName: "user/" + name}, nil
}

func (s *StubHostRepository) CreateOrgRepo(_ context.Context, name, login string) (*entities.HostRepo, error) {
	s.CreatedOrgRepos = append(s.CreatedOrgRepos, login+"/"+name)
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	return &entities.HostRepo{FullName: login + "/" + name}, nil
}

func (s *StubHostRepository) GetRepo(_ context.Context, _, _ string) (*entities.HostRepo, error) {
	return s.ExistingRepo, s.GetRepoErr
}

func (s *StubHostRepository) GetUser(_ context.Context) (*entities.HostUser, error) {
	s.GetUserCalls++
	return s.User, s.UserErr
}

func (s *StubHostRepository) GetOrgs(_ context.Context, _ string) ([]entities.HostOrg, error) {
	return s.Orgs, s.OrgsErr
}

func (s *StubHostRepository) RemoteURL(login, name string) string {
	return fmt.Sprintf("git@%s.example:%s/%s.git", s.HostType, login, name)
}

func (s *StubHostRepository) TokenURL() string     { return "https://host.example/tokens" }
func (s *StubHostRepository) TokenHelpURL() string { return "https://host.example/help" }

// StubHostProvider implements repositories.HostRepositoryProvider around a single host.
type StubHostProvider struct {
	Host   *StubHostRepository
	GetErr error
	Tokens []string
}

var _ repositories.HostRepositoryProvider = (*StubHostProvider)(nil)

func (s *StubHostProvider) Get(hostType entities.HostType, token string) (repositories.HostRepository, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.Tokens = append(s.Tokens, token)
	s.Host.HostType = hostType
	return s.Host, nil
}

func (s *StubHostProvider) Choices() []entities.Choice {
	return []entities.Choice{
		{Name: "Gitee", Value: string(entities.HostGitee)},
		{Name: "GitHub", Value: string(entities.HostGitHub)},
	}
}
