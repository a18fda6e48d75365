//go:build unit

package gitee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/gitee"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/httpclient"
)

func newHost(t *testing.T, handler http.HandlerFunc) *gitee.HostRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := httpclient.New()
	client.RetryMax = 0
	return gitee.NewHostRepositoryWithClient("secret", server.URL, client)
}

func TestHostRepositoryGetRepo(t *testing.T) {
	t.Parallel()

	t.Run("should return the repository with the token attached", func(t *testing.T) {
		t.Parallel()
		// given
		host := newHost(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/alice/app", r.URL.Path)
			assert.Equal(t, "secret", r.URL.Query().Get("access_token"))
			_ = json.NewEncoder(w).Encode(map[string]string{
				"full_name": "alice/app",
				"ssh_url":   "git@gitee.com:alice/app.git",
			})
		})

		// when
		repo, err := host.GetRepo(context.Background(), "alice", "app")

		// then
		require.NoError(t, err)
		require.NotNil(t, repo)
		assert.Equal(t, "alice/app", repo.FullName)
		assert.Equal(t, "git@gitee.com:alice/app.git", repo.SSHURL)
	})

	t.Run("should map not found to a nil repository", func(t *testing.T) {
		t.Parallel()
		// given
		host := newHost(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found Project"}`))
		})

		// when
		repo, err := host.GetRepo(context.Background(), "alice", "missing")

		// then
		require.NoError(t, err)
		assert.Nil(t, repo)
	})

	t.Run("should propagate other failures", func(t *testing.T) {
		t.Parallel()
		// given
		host := newHost(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"bad request"}`))
		})

		// when
		_, err := host.GetRepo(context.Background(), "alice", "app")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad request")
	})
}

func TestHostRepositoryCreate(t *testing.T) {
	t.Parallel()

	t.Run("should create an organization repository", func(t *testing.T) {
		t.Parallel()
		// given
		var body map[string]string
		host := newHost(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/orgs/acme/repos", r.URL.Path)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"full_name":"acme/app"}`))
		})

		// when
		repo, err := host.CreateOrgRepo(context.Background(), "app", "acme")

		// then
		require.NoError(t, err)
		assert.Equal(t, "acme/app", repo.FullName)
		assert.Equal(t, "app", body["name"])
		assert.Equal(t, "secret", body["access_token"])
	})

	t.Run("should report an existing repository", func(t *testing.T) {
		t.Parallel()
		// given
		host := newHost(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"repository already exists"}`))
		})

		// when
		_, err := host.CreateRepo(context.Background(), "app")

		// then
		require.ErrorIs(t, err, entities.ErrRepositoryExists)
	})
}

func TestHostRepositoryUser(t *testing.T) {
	t.Parallel()

	t.Run("should reject an invalid token as an auth error", func(t *testing.T) {
		t.Parallel()
		// given
		host := newHost(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"401 Unauthorized: Access token is expired"}`))
		})

		// when
		_, err := host.GetUser(context.Background())

		// then
		require.ErrorIs(t, err, entities.ErrRemoteAuth)
		assert.NotErrorIs(t, err, entities.ErrMissingToken)
	})

	t.Run("should refuse to call the API without a token", func(t *testing.T) {
		t.Parallel()
		// given
		var requests atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			requests.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		t.Cleanup(server.Close)
		host := gitee.NewHostRepositoryWithClient("", server.URL, httpclient.New())

		// when
		_, err := host.GetUser(context.Background())

		// then
		require.ErrorIs(t, err, entities.ErrMissingToken)
		assert.Equal(t, int32(0), requests.Load())
		assert.NotEmpty(t, host.TokenURL())
	})

	t.Run("should list organizations with paging", func(t *testing.T) {
		t.Parallel()
		// given
		host := newHost(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/alice/orgs", r.URL.Path)
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			_, _ = w.Write([]byte(`[{"login":"acme"},{"login":"umbrella"}]`))
		})

		// when
		orgs, err := host.GetOrgs(context.Background(), "alice")

		// then
		require.NoError(t, err)
		assert.Equal(t, []entities.HostOrg{{Login: "acme"}, {Login: "umbrella"}}, orgs)
	})

	t.Run("should build the ssh remote URL", func(t *testing.T) {
		t.Parallel()
		// given
		host := gitee.NewHostRepositoryWithClient("secret", "http://unused", httpclient.New())

		// when
		remote := host.RemoteURL("alice", "app")

		// then
		assert.Equal(t, "git@gitee.com:alice/app.git", remote)
	})
}
