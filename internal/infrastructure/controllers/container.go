package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewCommitController); err != nil {
		return err
	}
	if err := container.Provide(NewPublishController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	commitController *CommitController,
	publishController *PublishController,
) *[]entities.Controller {
	return &[]entities.Controller{
		commitController,
		publishController,
	}
}
