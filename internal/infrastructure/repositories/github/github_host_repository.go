package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	gh "github.com/google/go-github/v66/github"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/httpclient"
)

const (
	perPage      = 100
	sshHost      = "github.com"
	tokenURL     = "https://github.com/settings/tokens"
	tokenHelpURL = "https://docs.github.com/en/authentication/keeping-your-account-and-data-secure/managing-your-personal-access-tokens"
)

// HostRepository implements repositories.HostRepository for GitHub. Only the
// account lookups are supported; repository creation and lookup are not.
type HostRepository struct {
	client *gh.Client
}

// NewHostRepository creates a GitHub host for token.
func NewHostRepository(token string) repositories.HostRepository {
	client := gh.NewClient(httpclient.New().StandardClient())
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &HostRepository{client: client}
}

// NewHostRepositoryWithBaseURL creates a GitHub host against an API base URL.
func NewHostRepositoryWithBaseURL(token, baseURL string) (*HostRepository, error) {
	parsed, err := url.Parse(baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
	}
	client := gh.NewClient(nil).WithAuthToken(token)
	client.BaseURL = parsed
	return &HostRepository{client: client}, nil
}

func (p *HostRepository) Type() entities.HostType { return entities.HostGitHub }

func (p *HostRepository) CreateRepo(_ context.Context, _ string) (*entities.HostRepo, error) {
	return nil, fmt.Errorf("github: create repository: %w", entities.ErrNotImplemented)
}

func (p *HostRepository) CreateOrgRepo(_ context.Context, _, _ string) (*entities.HostRepo, error) {
	return nil, fmt.Errorf("github: create organization repository: %w", entities.ErrNotImplemented)
}

func (p *HostRepository) GetRepo(_ context.Context, _, _ string) (*entities.HostRepo, error) {
	return nil, fmt.Errorf("github: get repository: %w", entities.ErrNotImplemented)
}

func (p *HostRepository) GetUser(ctx context.Context) (*entities.HostUser, error) {
	user, _, err := p.client.Users.Get(ctx, "")
	if err != nil {
		return nil, mapError("get user", err)
	}
	return &entities.HostUser{Login: user.GetLogin(), Name: user.GetName()}, nil
}

func (p *HostRepository) GetOrgs(ctx context.Context, login string) ([]entities.HostOrg, error) {
	var orgs []entities.HostOrg
	opts := &gh.ListOptions{PerPage: perPage}
	for {
		page, resp, err := p.client.Organizations.List(ctx, login, opts)
		if err != nil {
			return nil, mapError("list organizations", err)
		}
		for _, org := range page {
			orgs = append(orgs, entities.HostOrg{Login: org.GetLogin()})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return orgs, nil
}

func (p *HostRepository) RemoteURL(login, name string) string {
	return fmt.Sprintf("git@%s:%s/%s.git", sshHost, login, name)
}

func (p *HostRepository) TokenURL() string     { return tokenURL }
func (p *HostRepository) TokenHelpURL() string { return tokenHelpURL }

func mapError(action string, err error) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: github %s: %s", entities.ErrRemoteAuth, action, ghErr.Message)
		}
	}
	return fmt.Errorf("github %s: %w", action, err)
}
