package commands

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

// WorkingTreeGuard protects destructive git operations. Every check reads
// the status fresh from disk.
type WorkingTreeGuard struct {
	git    repositories.GitRepository
	prompt repositories.PromptRepository
}

// NewWorkingTreeGuard creates a WorkingTreeGuard.
func NewWorkingTreeGuard(
	git repositories.GitRepository,
	prompt repositories.PromptRepository,
) *WorkingTreeGuard {
	return &WorkingTreeGuard{git: git, prompt: prompt}
}

// AssertNoConflicts fails with ErrWorkingTreeConflict if any path is unmerged.
func (it *WorkingTreeGuard) AssertNoConflicts(ctx context.Context) error {
	status, err := it.git.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read working tree status: %w", err)
	}
	if status.HasConflicts() {
		return fmt.Errorf(
			"%w: resolve %s manually and run again",
			entities.ErrWorkingTreeConflict, strings.Join(status.Conflicted, ", "),
		)
	}
	logger.Debug("No conflicts in working tree")
	return nil
}

// EnsureCommitted stages and commits every pending change, asking for a
// message until a non-empty one is given. It reports whether a commit was made.
func (it *WorkingTreeGuard) EnsureCommitted(ctx context.Context) (bool, error) {
	status, err := it.git.Status(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read working tree status: %w", err)
	}
	if !status.HasChanges() {
		logger.Debug("Nothing to commit")
		return false, nil
	}

	logger.Infof("Uncommitted changes: %s", strings.Join(status.ChangedPaths(), ", "))
	if addErr := it.git.AddAll(ctx); addErr != nil {
		return false, fmt.Errorf("failed to stage changes: %w", addErr)
	}

	message, err := it.readCommitMessage()
	if err != nil {
		return false, err
	}
	if commitErr := it.git.Commit(ctx, message); commitErr != nil {
		return false, fmt.Errorf("failed to commit: %w", commitErr)
	}
	logger.Infof("Committed: %s", message)
	return true, nil
}

// PopStashIfPresent restores work stashed by an interrupted earlier run.
func (it *WorkingTreeGuard) PopStashIfPresent(ctx context.Context) (bool, error) {
	hasStash, err := it.git.HasStash(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list stash: %w", err)
	}
	if !hasStash {
		return false, nil
	}
	if popErr := it.git.StashPop(ctx); popErr != nil {
		// a pop that conflicts still applies; report the conflicts instead
		if conflictErr := it.AssertNoConflicts(ctx); conflictErr != nil {
			return false, conflictErr
		}
		return false, fmt.Errorf("failed to pop stash: %w", popErr)
	}
	logger.Info("Stash popped")
	return true, nil
}

func (it *WorkingTreeGuard) readCommitMessage() (string, error) {
	for {
		message, err := it.prompt.Input("Commit message", "")
		if err != nil {
			return "", fmt.Errorf("failed to read commit message: %w", err)
		}
		message = strings.TrimSpace(message)
		if message != "" {
			return message, nil
		}
		logger.Warn("Commit message cannot be empty")
	}
}
