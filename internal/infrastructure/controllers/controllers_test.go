//go:build unit

package controllers_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/shipflow/internal/infrastructure/controllers"
	"github.com/rios0rios0/shipflow/test/domain/commanddoubles"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shipflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newCobraCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	controllers.AddPersistentFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestCommitControllerExecute(t *testing.T) {
	t.Parallel()

	t.Run("should pass the project path, refresh flags and settings to the command", func(t *testing.T) {
		t.Parallel()
		// given
		config := writeConfig(t, "home_path: /tmp/shipflow-home\nbuild_server: http://build.example:7001\n")
		stub := &commanddoubles.StubCommitCommand{}
		controller := controllers.NewCommitController(stub)
		cmd := newCobraCommand(t, "--config", config, "--refresh-token", "--refresh-owner")

		// when
		controller.Execute(cmd, []string{"/work/app"})

		// then
		require.Equal(t, 1, stub.ExecuteCallCount)
		assert.Equal(t, "/work/app", stub.LastOpts.ProjectDir)
		assert.False(t, stub.LastOpts.Refresh.Server)
		assert.True(t, stub.LastOpts.Refresh.Token)
		assert.True(t, stub.LastOpts.Refresh.Owner)
		assert.Equal(t, "http://build.example:7001", stub.LastSettings.BuildServer)
		assert.Equal(t, "/tmp/shipflow-home", stub.LastSettings.HomePath)
	})

	t.Run("should default the project path to the current directory", func(t *testing.T) {
		t.Parallel()
		// given
		config := writeConfig(t, "home_path: /tmp/shipflow-home\n")
		stub := &commanddoubles.StubCommitCommand{}
		controller := controllers.NewCommitController(stub)
		cmd := newCobraCommand(t, "--config", config)

		// when
		controller.Execute(cmd, nil)

		// then
		require.Equal(t, 1, stub.ExecuteCallCount)
		assert.Equal(t, ".", stub.LastOpts.ProjectDir)
	})

	t.Run("should not run the command when the config is invalid", func(t *testing.T) {
		t.Parallel()
		// given
		config := writeConfig(t, "connect_timeout: -1s\n")
		stub := &commanddoubles.StubCommitCommand{}
		controller := controllers.NewCommitController(stub)
		cmd := newCobraCommand(t, "--config", config)

		// when
		controller.Execute(cmd, nil)

		// then
		assert.Equal(t, 0, stub.ExecuteCallCount)
	})

	t.Run("should log and swallow a command failure", func(t *testing.T) {
		t.Parallel()
		// given
		config := writeConfig(t, "home_path: /tmp/shipflow-home\n")
		stub := &commanddoubles.StubCommitCommand{ExecuteErr: errors.New("conflict")}
		controller := controllers.NewCommitController(stub)
		cmd := newCobraCommand(t, "--config", config)

		// when
		controller.Execute(cmd, nil)

		// then
		assert.Equal(t, 1, stub.ExecuteCallCount)
	})
}

func TestPublishControllerExecute(t *testing.T) {
	t.Parallel()

	t.Run("should pass the build command and production flag", func(t *testing.T) {
		t.Parallel()
		// given
		config := writeConfig(t, "home_path: /tmp/shipflow-home\n")
		stub := &commanddoubles.StubPublishCommand{}
		controller := controllers.NewPublishController(stub)
		cmd := &cobra.Command{Use: "publish"}
		controllers.AddPersistentFlags(cmd)
		controller.AddFlags(cmd)
		require.NoError(t, cmd.ParseFlags([]string{
			"--config", config, "--build-cmd", "npm run build:prod", "--prod", "--refresh-publish",
		}))

		// when
		controller.Execute(cmd, []string{"app"})

		// then
		require.Equal(t, 1, stub.ExecuteCallCount)
		assert.Equal(t, "app", stub.LastOpts.ProjectDir)
		assert.Equal(t, "npm run build:prod", stub.LastOpts.BuildCommand)
		assert.True(t, stub.LastOpts.Production)
		assert.True(t, stub.LastOpts.RefreshPublish)
	})

	t.Run("should leave the build command empty for the config default", func(t *testing.T) {
		t.Parallel()
		// given
		config := writeConfig(t, "home_path: /tmp/shipflow-home\nbuild_command: cnpm run build\n")
		stub := &commanddoubles.StubPublishCommand{}
		controller := controllers.NewPublishController(stub)
		cmd := &cobra.Command{Use: "publish"}
		controllers.AddPersistentFlags(cmd)
		controller.AddFlags(cmd)
		require.NoError(t, cmd.ParseFlags([]string{"--config", config}))

		// when
		controller.Execute(cmd, nil)

		// then
		require.Equal(t, 1, stub.ExecuteCallCount)
		assert.Empty(t, stub.LastOpts.BuildCommand)
		assert.False(t, stub.LastOpts.Production)
		assert.Equal(t, "cnpm run build", stub.LastSettings.BuildCommand)
	})
}

func TestControllerBinds(t *testing.T) {
	t.Parallel()

	t.Run("should expose commit and publish subcommands", func(t *testing.T) {
		t.Parallel()
		// given
		all := controllers.NewControllers(
			controllers.NewCommitController(&commanddoubles.StubCommitCommand{}),
			controllers.NewPublishController(&commanddoubles.StubPublishCommand{}),
		)

		// when
		uses := make([]string, 0, len(*all))
		for _, c := range *all {
			uses = append(uses, c.GetBind().Use)
		}

		// then
		assert.Equal(t, []string{"commit [path]", "publish [path]"}, uses)
	})
}
