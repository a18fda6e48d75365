package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// Publish is the interface for the publish command.
type Publish interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ReleaseOptions) error
}

// PublishCommand runs the whole release: link, commit, remote build and,
// for production builds, tag and promote.
type PublishCommand struct {
	flows *ReleaseFlowFactory
}

// NewPublishCommand creates a new PublishCommand.
func NewPublishCommand(flows *ReleaseFlowFactory) *PublishCommand {
	return &PublishCommand{flows: flows}
}

// Execute validates the build command first, so a rejected command never
// reaches git or the build service.
func (it *PublishCommand) Execute(ctx context.Context, settings *entities.Settings, opts ReleaseOptions) error {
	if opts.BuildCommand == "" {
		opts.BuildCommand = settings.BuildCommand
	}

	flow, err := it.flows.New(settings, opts, logStep)
	if err != nil {
		return err
	}
	if validateErr := flow.ValidatePublish(); validateErr != nil {
		return validateErr
	}

	if linkErr := flow.Link(ctx); linkErr != nil {
		return linkErr
	}
	if commitErr := flow.Commit(ctx); commitErr != nil {
		return commitErr
	}
	if _, publishErr := flow.Publish(ctx); publishErr != nil {
		return publishErr
	}

	logger.Infof("Release flow finished in state %s", flow.State())
	return nil
}

func logStep(result entities.StepResult) {
	fields := logger.Fields{"step": result.Name, "status": result.Status}
	if result.Err != nil {
		logger.WithFields(fields).WithError(result.Err).Debug("Release step finished")
		return
	}
	logger.WithFields(fields).Debug("Release step finished")
}
