package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/shipflow/internal/domain/commands"
	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// PublishController handles the "publish" subcommand.
type PublishController struct {
	command commands.Publish
}

// NewPublishController creates a new PublishController.
func NewPublishController(command commands.Publish) *PublishController {
	return &PublishController{command: command}
}

// GetBind returns the Cobra command metadata for the publish controller.
func (it *PublishController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "publish [path]",
		Short: "Build the project on the build service and release it",
		Long: `Commit the project like "commit" does, then ask the remote build
service to build the development branch.

With --prod a successful build is tagged release/<version>, merged
into the main branch, and the development branch is deleted.`,
	}
}

// Execute runs the full release flow.
func (it *PublishController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	buildCmd, _ := cmd.Flags().GetString("build-cmd")
	production, _ := cmd.Flags().GetBool("prod")

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return
	}

	opts := releaseOptions(cmd, args)
	opts.BuildCommand = buildCmd
	opts.Production = production

	if publishErr := it.command.Execute(ctx, settings, opts); publishErr != nil {
		logger.Errorf("Publish failed: %v", publishErr)
	}
}

// AddFlags adds the publish-specific flags to the given Cobra command.
func (it *PublishController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("build-cmd", "",
		"Build command run by the build service (default: build_command from config)")
	cmd.Flags().Bool("prod", false,
		"Production build: tag the release and merge it into the main branch")
}
