package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/shipflow/internal/domain/commands"
	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// CommitController handles the "commit" subcommand.
type CommitController struct {
	command commands.Commit
}

// NewCommitController creates a new CommitController.
func NewCommitController(command commands.Commit) *CommitController {
	return &CommitController{command: command}
}

// GetBind returns the Cobra command metadata for the commit controller.
func (it *CommitController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "commit [path]",
		Short: "Commit and push work onto the development branch",
		Long: `Link the project to its Git host (creating the remote repository
on first use), then commit pending changes onto dev/<version>.

The version is the package.json version, or the next version after
the newest release/<version> tag when the local one is not ahead.
The main branch is merged in before the development branch is pushed.`,
	}
}

// Execute runs the link and commit phases.
func (it *CommitController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return
	}

	if commitErr := it.command.Execute(ctx, settings, releaseOptions(cmd, args)); commitErr != nil {
		logger.Errorf("Commit failed: %v", commitErr)
	}
}
