package repositories

import (
	"context"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// HostRepository abstracts a remote Git hosting service (Gitee, GitHub, ...).
// Lookups that hit "not found" return a nil result and a nil error so callers
// can use them as existence checks; every other non-2xx status is an error.
type HostRepository interface {
	// Type returns the host identifier (e.g. "gitee").
	Type() entities.HostType

	CreateRepo(ctx context.Context, name string) (*entities.HostRepo, error)
	CreateOrgRepo(ctx context.Context, name, login string) (*entities.HostRepo, error)
	GetRepo(ctx context.Context, login, name string) (*entities.HostRepo, error)
	GetUser(ctx context.Context) (*entities.HostUser, error)
	GetOrgs(ctx context.Context, login string) ([]entities.HostOrg, error)

	// RemoteURL builds the clone URL the local repository pushes to.
	RemoteURL(login, name string) string
	// TokenURL is where the operator generates a token.
	TokenURL() string
	// TokenHelpURL documents how to generate a token.
	TokenHelpURL() string
}

// HostRepositoryProvider resolves a configured HostRepository by host type.
type HostRepositoryProvider interface {
	Get(hostType entities.HostType, token string) (HostRepository, error)
	Choices() []entities.Choice
}
