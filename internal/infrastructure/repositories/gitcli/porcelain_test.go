//go:build unit

package gitcli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/gitcli"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	t.Run("should classify every porcelain code", func(t *testing.T) {
		t.Parallel()
		// given
		output := " M src/index.js\n" +
			"M  README.md\n" +
			"A  src/new.js\n" +
			"?? notes.txt\n" +
			" D old.js\n" +
			"R  a.js -> b.js\n" +
			"UU package.json\n" +
			"AA src/both.js\n"

		// when
		status := gitcli.ParseStatus(output)

		// then
		assert.Equal(t, []string{"src/index.js", "README.md"}, status.Modified)
		assert.Equal(t, []string{"src/new.js"}, status.Added)
		assert.Equal(t, []string{"notes.txt"}, status.Created)
		assert.Equal(t, []string{"old.js"}, status.Deleted)
		assert.Equal(t, []string{"b.js"}, status.Renamed)
		assert.Equal(t, []string{"package.json", "src/both.js"}, status.Conflicted)
		assert.True(t, status.HasConflicts())
	})

	t.Run("should report a clean tree for empty output", func(t *testing.T) {
		t.Parallel()
		// when
		status := gitcli.ParseStatus("")

		// then
		assert.False(t, status.HasChanges())
		assert.False(t, status.HasConflicts())
	})
}

func TestParseRemoteRefs(t *testing.T) {
	t.Parallel()

	t.Run("should return the ref names", func(t *testing.T) {
		t.Parallel()
		// given
		output := "3f1c0a\trefs/heads/master\n" +
			"9ab2e1\trefs/heads/dev/1.0.0\n" +
			"77aa00\trefs/tags/release/0.9.0\n" +
			"\n"

		// when
		refs := gitcli.ParseRemoteRefs(output)

		// then
		assert.Equal(t, []string{"refs/heads/master", "refs/heads/dev/1.0.0", "refs/tags/release/0.9.0"}, refs)
	})
}
