//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/shipflow/internal/domain/commands"
	"github.com/rios0rios0/shipflow/internal/domain/entities"
	doubles "github.com/rios0rios0/shipflow/test/infrastructure/repositorydoubles"
)

func TestWorkingTreeGuardAssertNoConflicts(t *testing.T) {
	t.Parallel()

	t.Run("should pass on a clean tree", func(t *testing.T) {
		t.Parallel()
		// given
		git := doubles.NewSpyGitRepository()
		guard := commands.NewWorkingTreeGuard(git, &doubles.StubPromptRepository{})

		// when
		err := guard.AssertNoConflicts(context.Background())

		// then
		require.NoError(t, err)
	})

	t.Run("should fail with the conflicted paths", func(t *testing.T) {
		t.Parallel()
		// given
		git := doubles.NewSpyGitRepository()
		git.Pending.Conflicted = []string{"src/a.js", "src/b.js"}
		guard := commands.NewWorkingTreeGuard(git, &doubles.StubPromptRepository{})

		// when
		err := guard.AssertNoConflicts(context.Background())

		// then
		require.ErrorIs(t, err, entities.ErrWorkingTreeConflict)
		assert.Contains(t, err.Error(), "src/a.js, src/b.js")
	})
}

func TestWorkingTreeGuardEnsureCommitted(t *testing.T) {
	t.Parallel()

	t.Run("should not commit a clean tree", func(t *testing.T) {
		t.Parallel()
		// given
		git := doubles.NewSpyGitRepository()
		prompt := &doubles.StubPromptRepository{}
		guard := commands.NewWorkingTreeGuard(git, prompt)

		// when
		committed, err := guard.EnsureCommitted(context.Background())

		// then
		require.NoError(t, err)
		assert.False(t, committed)
		assert.Empty(t, prompt.Messages)
		assert.False(t, git.Called("add ."))
	})

	t.Run("should ask again until the message is not empty", func(t *testing.T) {
		t.Parallel()
		// given
		git := doubles.NewSpyGitRepository()
		git.Pending.Modified = []string{"index.js"}
		prompt := &doubles.StubPromptRepository{Inputs: []string{"", "   ", "fix: typo"}}
		guard := commands.NewWorkingTreeGuard(git, prompt)

		// when
		committed, err := guard.EnsureCommitted(context.Background())

		// then
		require.NoError(t, err)
		assert.True(t, committed)
		assert.Equal(t, []string{"fix: typo"}, git.Commits)
		assert.Len(t, prompt.Messages, 3)
		assert.Less(t, git.IndexOf("add ."), git.IndexOf("commit fix: typo"))
	})
}

func TestWorkingTreeGuardPopStashIfPresent(t *testing.T) {
	t.Parallel()

	t.Run("should do nothing without a stash", func(t *testing.T) {
		t.Parallel()
		// given
		git := doubles.NewSpyGitRepository()
		guard := commands.NewWorkingTreeGuard(git, &doubles.StubPromptRepository{})

		// when
		popped, err := guard.PopStashIfPresent(context.Background())

		// then
		require.NoError(t, err)
		assert.False(t, popped)
		assert.False(t, git.Called("stash pop"))
	})

	t.Run("should pop an existing stash", func(t *testing.T) {
		t.Parallel()
		// given
		git := doubles.NewSpyGitRepository()
		git.Stashed = true
		guard := commands.NewWorkingTreeGuard(git, &doubles.StubPromptRepository{})

		// when
		popped, err := guard.PopStashIfPresent(context.Background())

		// then
		require.NoError(t, err)
		assert.True(t, popped)
		assert.False(t, git.Stashed)
	})
}
