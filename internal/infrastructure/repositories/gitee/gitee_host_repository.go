package gitee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/httpclient"
)

const (
	defaultBaseURL = "https://gitee.com/api/v5"
	sshHost        = "gitee.com"
	tokenURL       = "https://gitee.com/personal_access_tokens"
	tokenHelpURL   = "https://gitee.com/help/articles/4191"
	orgsPerPage    = "100"
)

type repoResponse struct {
	FullName string `json:"full_name"`
	SSHURL   string `json:"ssh_url"`
	HTMLURL  string `json:"html_url"`
}

type userResponse struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

type orgResponse struct {
	Login string `json:"login"`
}

// HostRepository implements repositories.HostRepository for the Gitee v5
// REST API. Every call carries the token as the access_token parameter.
type HostRepository struct {
	token   string
	baseURL string
	client  *retryablehttp.Client
}

// NewHostRepository creates a Gitee host for token.
func NewHostRepository(token string) repositories.HostRepository {
	return NewHostRepositoryWithClient(token, defaultBaseURL, httpclient.New())
}

// NewHostRepositoryWithClient creates a Gitee host against baseURL.
func NewHostRepositoryWithClient(token, baseURL string, client *retryablehttp.Client) *HostRepository {
	return &HostRepository{
		token:   token,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

func (p *HostRepository) Type() entities.HostType { return entities.HostGitee }

func (p *HostRepository) CreateRepo(ctx context.Context, name string) (*entities.HostRepo, error) {
	return p.createRepo(ctx, "/user/repos", name)
}

func (p *HostRepository) CreateOrgRepo(ctx context.Context, name, login string) (*entities.HostRepo, error) {
	return p.createRepo(ctx, "/orgs/"+url.PathEscape(login)+"/repos", name)
}

// GetRepo returns nil, nil when the repository does not exist.
func (p *HostRepository) GetRepo(ctx context.Context, login, name string) (*entities.HostRepo, error) {
	var repo repoResponse
	found, err := p.do(ctx, http.MethodGet, "/repos/"+url.PathEscape(login)+"/"+url.PathEscape(name), nil, nil, &repo)
	if err != nil || !found {
		return nil, err
	}
	return toHostRepo(repo), nil
}

func (p *HostRepository) GetUser(ctx context.Context) (*entities.HostUser, error) {
	var user userResponse
	found, err := p.do(ctx, http.MethodGet, "/user", nil, nil, &user)
	if err != nil || !found {
		return nil, err
	}
	return &entities.HostUser{Login: user.Login, Name: user.Name}, nil
}

func (p *HostRepository) GetOrgs(ctx context.Context, login string) ([]entities.HostOrg, error) {
	query := url.Values{"page": {"1"}, "per_page": {orgsPerPage}}
	var orgs []orgResponse
	found, err := p.do(ctx, http.MethodGet, "/users/"+url.PathEscape(login)+"/orgs", query, nil, &orgs)
	if err != nil || !found {
		return nil, err
	}
	result := make([]entities.HostOrg, 0, len(orgs))
	for _, org := range orgs {
		result = append(result, entities.HostOrg{Login: org.Login})
	}
	return result, nil
}

func (p *HostRepository) RemoteURL(login, name string) string {
	return fmt.Sprintf("git@%s:%s/%s.git", sshHost, login, name)
}

func (p *HostRepository) TokenURL() string     { return tokenURL }
func (p *HostRepository) TokenHelpURL() string { return tokenHelpURL }

func (p *HostRepository) createRepo(ctx context.Context, path, name string) (*entities.HostRepo, error) {
	body := map[string]string{"access_token": p.token, "name": name}
	var repo repoResponse
	found, err := p.do(ctx, http.MethodPost, path, nil, body, &repo)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("failed to create repository %s: owner not found", name)
	}
	return toHostRepo(repo), nil
}

// do returns found=false for a 404 so lookups double as existence checks.
func (p *HostRepository) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	out any,
) (bool, error) {
	if p.token == "" {
		return false, entities.ErrMissingToken
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("access_token", p.token)
	endpoint := p.baseURL + path + "?" + query.Encode()

	var reqBody any
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return false, err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("gitee %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read gitee response: %w", err)
	}
	logger.Debugf("gitee %s %s -> %d", method, path, resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, fmt.Errorf("%w: gitee returned %d: %s", entities.ErrRemoteAuth, resp.StatusCode, message(data))
	case method == http.MethodPost && resp.StatusCode == http.StatusUnprocessableEntity:
		return false, fmt.Errorf("%w: %s", entities.ErrRepositoryExists, message(data))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return false, fmt.Errorf("gitee %s %s returned %d: %s", method, path, resp.StatusCode, message(data))
	}

	if out != nil && len(data) > 0 {
		if decodeErr := json.Unmarshal(data, out); decodeErr != nil {
			return false, fmt.Errorf("failed to decode gitee response: %w", decodeErr)
		}
	}
	return true, nil
}

func message(data []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(data))
}

func toHostRepo(repo repoResponse) *entities.HostRepo {
	return &entities.HostRepo{FullName: repo.FullName, SSHURL: repo.SSHURL, HTMLURL: repo.HTMLURL}
}
