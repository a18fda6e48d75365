package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// Commit is the interface for the commit command.
type Commit interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ReleaseOptions) error
}

// CommitCommand links the project to its host if needed, then commits and
// pushes the pending work onto the development branch.
type CommitCommand struct {
	flows *ReleaseFlowFactory
}

// NewCommitCommand creates a new CommitCommand.
func NewCommitCommand(flows *ReleaseFlowFactory) *CommitCommand {
	return &CommitCommand{flows: flows}
}

// Execute runs the link and commit phases.
func (it *CommitCommand) Execute(ctx context.Context, settings *entities.Settings, opts ReleaseOptions) error {
	flow, err := it.flows.New(settings, opts, nil)
	if err != nil {
		return err
	}
	identity := flow.Identity()
	logger.Infof("Project %s@%s in %s", identity.Name, identity.Version, identity.Dir)

	if linkErr := flow.Link(ctx); linkErr != nil {
		return linkErr
	}
	if commitErr := flow.Commit(ctx); commitErr != nil {
		return commitErr
	}

	logger.Infof("Committed %s on %s", flow.Plan().TargetVersion, flow.Plan().DevelopBranch)
	return nil
}
