package repositories

import (
	"context"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// GitRepository drives one local working tree. Every call runs synchronously
// and returns only once the underlying git operation has exited.
type GitRepository interface {
	// IsInitialized reports whether the directory already has git metadata.
	IsInitialized() bool
	// Init creates the metadata with defaultBranch checked out.
	Init(ctx context.Context, defaultBranch string) error

	HasRemote(ctx context.Context, name string) (bool, error)
	AddRemote(ctx context.Context, name, url string) error
	RemoteURL(ctx context.Context, name string) (string, error)
	// ListRemoteRefs returns the full ref names advertised by the remote.
	ListRemoteRefs(ctx context.Context, remote string) ([]string, error)

	Status(ctx context.Context) (entities.WorkingTreeStatus, error)
	AddAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error

	HasStash(ctx context.Context) (bool, error)
	StashPop(ctx context.Context) error

	CurrentBranch(ctx context.Context) (string, error)
	LocalBranchExists(ctx context.Context, name string) (bool, error)
	Checkout(ctx context.Context, name string) error
	CheckoutNew(ctx context.Context, name string) error
	DeleteLocalBranch(ctx context.Context, name string) error

	Pull(ctx context.Context, remote, branch string, allowUnrelated bool) error
	Merge(ctx context.Context, branch string) error
	Push(ctx context.Context, remote, ref string) error
	DeleteRemoteRef(ctx context.Context, remote, ref string) error

	LocalTagExists(ctx context.Context, name string) (bool, error)
	CreateTag(ctx context.Context, name string) error
	DeleteLocalTag(ctx context.Context, name string) error
}

// GitRepositoryFactory opens the working tree at dir.
type GitRepositoryFactory func(dir string) GitRepository
