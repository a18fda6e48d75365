//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/shipflow/internal/domain/commands"
	"github.com/rios0rios0/shipflow/internal/domain/entities"
	doubles "github.com/rios0rios0/shipflow/test/infrastructure/repositorydoubles"
)

func cachedCredentials() *doubles.InMemoryCredentialRepository {
	return doubles.NewInMemoryCredentialRepository(map[string]string{
		entities.KeyHostType:  "gitee",
		entities.KeyToken:     "secret",
		entities.KeyOwnerKind: "user",
		entities.KeyLogin:     "alice",
	})
}

func TestHostLinkerPrepare(t *testing.T) {
	t.Parallel()

	t.Run("should reuse every cached answer without prompting", func(t *testing.T) {
		t.Parallel()
		// given
		host := &doubles.StubHostRepository{}
		provider := &doubles.StubHostProvider{Host: host}
		prompt := &doubles.StubPromptRepository{}
		linker := commands.NewHostLinker(provider, cachedCredentials(), prompt)
		identity := &entities.RepositoryIdentity{Name: "app"}

		// when
		_, remote, err := linker.Prepare(context.Background(), identity, commands.HostRefresh{})

		// then
		require.NoError(t, err)
		assert.Empty(t, prompt.Messages)
		assert.Equal(t, 0, host.GetUserCalls)
		assert.Equal(t, "alice", identity.Login)
		assert.Equal(t, entities.OwnerUser, identity.OwnerKind)
		assert.Equal(t, entities.HostGitee, remote.HostType)
		assert.Equal(t, "git@gitee.example:alice/app.git", remote.RemoteURL)
	})

	t.Run("should prompt and cache everything on first run", func(t *testing.T) {
		t.Parallel()
		// given
		host := &doubles.StubHostRepository{User: &entities.HostUser{Login: "alice"}}
		provider := &doubles.StubHostProvider{Host: host}
		creds := doubles.NewInMemoryCredentialRepository(nil)
		prompt := &doubles.StubPromptRepository{
			Selects:   []string{"github"},
			Passwords: []string{" token "},
		}
		linker := commands.NewHostLinker(provider, creds, prompt)
		identity := &entities.RepositoryIdentity{Name: "app"}

		// when
		_, remote, err := linker.Prepare(context.Background(), identity, commands.HostRefresh{})

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.HostGitHub, remote.HostType)
		assert.Equal(t, "token", remote.Token)
		assert.Equal(t, "github", creds.Values[entities.KeyHostType])
		assert.Equal(t, "token", creds.Values[entities.KeyToken])
		assert.Equal(t, "user", creds.Values[entities.KeyOwnerKind])
		assert.Equal(t, "alice", creds.Values[entities.KeyLogin])
	})

	t.Run("should offer the organization choice only when the user has organizations", func(t *testing.T) {
		t.Parallel()
		// given
		host := &doubles.StubHostRepository{
			User: &entities.HostUser{Login: "alice"},
			Orgs: []entities.HostOrg{{Login: "acme"}, {Login: "umbrella"}},
		}
		creds := cachedCredentials()
		prompt := &doubles.StubPromptRepository{Selects: []string{"org", "umbrella"}}
		linker := commands.NewHostLinker(&doubles.StubHostProvider{Host: host}, creds, prompt)
		identity := &entities.RepositoryIdentity{Name: "app"}

		// when
		_, _, err := linker.Prepare(context.Background(), identity, commands.HostRefresh{Owner: true})

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.OwnerOrg, identity.OwnerKind)
		assert.Equal(t, "umbrella", identity.Login)
		assert.Equal(t, "umbrella", creds.Values[entities.KeyLogin])
	})

	t.Run("should fail with a remote auth error when the host returns no user", func(t *testing.T) {
		t.Parallel()
		// given
		host := &doubles.StubHostRepository{}
		creds := cachedCredentials()
		linker := commands.NewHostLinker(&doubles.StubHostProvider{Host: host}, creds, &doubles.StubPromptRepository{})

		// when
		_, _, err := linker.Prepare(context.Background(), &entities.RepositoryIdentity{Name: "app"},
			commands.HostRefresh{Owner: true})

		// then
		require.ErrorIs(t, err, entities.ErrRemoteAuth)
	})

	t.Run("should fail with a missing token error on an empty token", func(t *testing.T) {
		t.Parallel()
		// given
		creds := doubles.NewInMemoryCredentialRepository(map[string]string{entities.KeyHostType: "gitee"})
		prompt := &doubles.StubPromptRepository{Passwords: []string{""}}
		linker := commands.NewHostLinker(
			&doubles.StubHostProvider{Host: &doubles.StubHostRepository{}}, creds, prompt,
		)

		// when
		_, _, err := linker.Prepare(context.Background(), &entities.RepositoryIdentity{Name: "app"},
			commands.HostRefresh{})

		// then
		require.ErrorIs(t, err, entities.ErrMissingToken)
		assert.ErrorIs(t, err, entities.ErrRemoteAuth)
		assert.Empty(t, creds.Values[entities.KeyToken])
	})
}

func TestHostLinkerEnsureRepo(t *testing.T) {
	t.Parallel()

	t.Run("should not create a repository that already exists", func(t *testing.T) {
		t.Parallel()
		// given
		host := &doubles.StubHostRepository{ExistingRepo: &entities.HostRepo{FullName: "alice/app"}}
		linker := commands.NewHostLinker(&doubles.StubHostProvider{Host: host}, cachedCredentials(), nil)

		// when
		err := linker.EnsureRepo(context.Background(), host,
			entities.RepositoryIdentity{Name: "app", Login: "alice", OwnerKind: entities.OwnerUser})

		// then
		require.NoError(t, err)
		assert.Empty(t, host.CreatedRepos)
	})

	t.Run("should create under the organization for org owners", func(t *testing.T) {
		t.Parallel()
		// given
		host := &doubles.StubHostRepository{}
		linker := commands.NewHostLinker(&doubles.StubHostProvider{Host: host}, cachedCredentials(), nil)

		// when
		err := linker.EnsureRepo(context.Background(), host,
			entities.RepositoryIdentity{Name: "app", Login: "acme", OwnerKind: entities.OwnerOrg})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"acme/app"}, host.CreatedOrgRepos)
		assert.Empty(t, host.CreatedRepos)
	})

	t.Run("should accept a creation that races an existing repository", func(t *testing.T) {
		t.Parallel()
		// given
		host := &doubles.StubHostRepository{CreateErr: entities.ErrRepositoryExists}
		linker := commands.NewHostLinker(&doubles.StubHostProvider{Host: host}, cachedCredentials(), nil)

		// when
		err := linker.EnsureRepo(context.Background(), host,
			entities.RepositoryIdentity{Name: "app", Login: "alice", OwnerKind: entities.OwnerUser})

		// then
		require.NoError(t, err)
	})

	t.Run("should surface other creation errors", func(t *testing.T) {
		t.Parallel()
		// given
		host := &doubles.StubHostRepository{CreateErr: errors.New("boom")}
		linker := commands.NewHostLinker(&doubles.StubHostProvider{Host: host}, cachedCredentials(), nil)

		// when
		err := linker.EnsureRepo(context.Background(), host,
			entities.RepositoryIdentity{Name: "app", Login: "alice", OwnerKind: entities.OwnerUser})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}
