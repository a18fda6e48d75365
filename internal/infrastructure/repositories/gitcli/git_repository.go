package gitcli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/shell"
)

const gitBinary = "git"

// GitRepository reads repository metadata with go-git and shells out to the
// git CLI for network, merge and stash operations, which go-git does not
// cover the way the release flow needs (pull with merge, stash, porcelain).
type GitRepository struct {
	dir    string
	runner shell.Runner
}

// NewGitRepository creates a GitRepository for the working tree at dir.
func NewGitRepository(dir string, runner shell.Runner) *GitRepository {
	return &GitRepository{dir: dir, runner: runner}
}

// NewGitRepositoryFactory returns a factory sharing one runner.
func NewGitRepositoryFactory(runner shell.Runner) repositories.GitRepositoryFactory {
	return func(dir string) repositories.GitRepository {
		return NewGitRepository(dir, runner)
	}
}

func (r *GitRepository) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(r.dir, git.GitDirName))
	return err == nil
}

func (r *GitRepository) Init(_ context.Context, defaultBranch string) error {
	_, err := git.PlainInitWithOptions(r.dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(defaultBranch)},
	})
	if err != nil {
		return fmt.Errorf("failed to init repository in %s: %w", r.dir, err)
	}
	return nil
}

func (r *GitRepository) HasRemote(_ context.Context, name string) (bool, error) {
	repo, err := r.open()
	if err != nil {
		return false, err
	}
	if _, remoteErr := repo.Remote(name); remoteErr != nil {
		if errors.Is(remoteErr, git.ErrRemoteNotFound) {
			return false, nil
		}
		return false, remoteErr
	}
	return true, nil
}

func (r *GitRepository) AddRemote(_ context.Context, name, url string) error {
	repo, err := r.open()
	if err != nil {
		return err
	}
	_, err = repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	return err
}

func (r *GitRepository) RemoteURL(_ context.Context, name string) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}
	remote, err := repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("remote %s: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", name)
	}
	return urls[0], nil
}

func (r *GitRepository) ListRemoteRefs(ctx context.Context, remote string) ([]string, error) {
	output, err := r.git(ctx, "ls-remote", "--refs", remote)
	if err != nil {
		return nil, err
	}
	return parseRemoteRefs(output), nil
}

func (r *GitRepository) Status(ctx context.Context) (entities.WorkingTreeStatus, error) {
	output, err := r.git(ctx, "status", "--porcelain")
	if err != nil {
		return entities.WorkingTreeStatus{}, err
	}
	status := parseStatus(output)
	current, err := r.CurrentBranch(ctx)
	if err != nil {
		return entities.WorkingTreeStatus{}, err
	}
	status.Current = current
	return status, nil
}

func (r *GitRepository) AddAll(ctx context.Context) error {
	_, err := r.git(ctx, "add", "--all")
	return err
}

func (r *GitRepository) Commit(ctx context.Context, message string) error {
	_, err := r.git(ctx, "commit", "-m", message)
	return err
}

func (r *GitRepository) HasStash(ctx context.Context) (bool, error) {
	output, err := r.git(ctx, "stash", "list")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(output) != "", nil
}

func (r *GitRepository) StashPop(ctx context.Context) error {
	_, err := r.git(ctx, "stash", "pop")
	return err
}

// CurrentBranch reads HEAD without resolving it, so an unborn branch works.
func (r *GitRepository) CurrentBranch(_ context.Context) (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}
	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() == plumbing.SymbolicReference {
		return head.Target().Short(), nil
	}
	return head.Hash().String(), nil
}

func (r *GitRepository) LocalBranchExists(_ context.Context, name string) (bool, error) {
	return r.referenceExists(plumbing.NewBranchReferenceName(name))
}

func (r *GitRepository) Checkout(ctx context.Context, name string) error {
	_, err := r.git(ctx, "checkout", name)
	return err
}

func (r *GitRepository) CheckoutNew(ctx context.Context, name string) error {
	_, err := r.git(ctx, "checkout", "-b", name)
	return err
}

func (r *GitRepository) DeleteLocalBranch(ctx context.Context, name string) error {
	_, err := r.git(ctx, "branch", "-d", name)
	return err
}

func (r *GitRepository) Pull(ctx context.Context, remote, branch string, allowUnrelated bool) error {
	args := []string{"pull", "--no-rebase", "--no-edit"}
	if allowUnrelated {
		args = append(args, "--allow-unrelated-histories")
	}
	args = append(args, remote, branch)
	_, err := r.git(ctx, args...)
	return err
}

func (r *GitRepository) Merge(ctx context.Context, branch string) error {
	_, err := r.git(ctx, "merge", "--no-edit", branch)
	return err
}

func (r *GitRepository) Push(ctx context.Context, remote, ref string) error {
	_, err := r.git(ctx, "push", remote, ref)
	return err
}

func (r *GitRepository) DeleteRemoteRef(ctx context.Context, remote, ref string) error {
	_, err := r.git(ctx, "push", remote, "--delete", ref)
	return err
}

func (r *GitRepository) LocalTagExists(_ context.Context, name string) (bool, error) {
	return r.referenceExists(plumbing.NewTagReferenceName(name))
}

// CreateTag creates a lightweight tag on HEAD.
func (r *GitRepository) CreateTag(_ context.Context, name string) error {
	repo, err := r.open()
	if err != nil {
		return err
	}
	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if _, tagErr := repo.CreateTag(name, head.Hash(), nil); tagErr != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, tagErr)
	}
	return nil
}

func (r *GitRepository) DeleteLocalTag(_ context.Context, name string) error {
	repo, err := r.open()
	if err != nil {
		return err
	}
	return repo.DeleteTag(name)
}

// open re-reads the repository every time: refs change under it whenever
// the git CLI runs.
func (r *GitRepository) open() (*git.Repository, error) {
	repo, err := git.PlainOpen(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", r.dir, err)
	}
	return repo, nil
}

func (r *GitRepository) referenceExists(name plumbing.ReferenceName) (bool, error) {
	repo, err := r.open()
	if err != nil {
		return false, err
	}
	if _, refErr := repo.Reference(name, false); refErr != nil {
		if errors.Is(refErr, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, refErr
	}
	return true, nil
}

func (r *GitRepository) git(ctx context.Context, args ...string) (string, error) {
	output, err := r.runner.Run(ctx, r.dir, gitBinary, args...)
	if err != nil {
		logger.Debugf("git %s failed in %s", args[0], r.dir)
	}
	return output, err
}
