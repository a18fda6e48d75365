package repositories

import (
	"context"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// BuildRepository owns exactly one connection to the remote build service.
// A retry requires a new instance.
type BuildRepository interface {
	// Connect opens the session and blocks until the service acknowledges it,
	// the connect timeout fires, or ctx is done.
	Connect(ctx context.Context, session entities.BuildSession) error
	// Build starts the build and blocks until a terminal event resolves it.
	Build(ctx context.Context) (entities.BuildResult, error)
}

// BuildRepositoryFactory creates a fresh build session client.
type BuildRepositoryFactory func(settings *entities.Settings) BuildRepository
