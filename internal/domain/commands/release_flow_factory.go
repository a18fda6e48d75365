package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

// ReleaseFlowFactory assembles a ReleaseFlow for one project directory.
type ReleaseFlowFactory struct {
	hosts       repositories.HostRepositoryProvider
	newGit      repositories.GitRepositoryFactory
	newManifest repositories.ManifestRepositoryFactory
	newCreds    repositories.CredentialRepositoryFactory
	newBuild    repositories.BuildRepositoryFactory
	uploader    repositories.UploaderRepository
	prompt      repositories.PromptRepository
}

// NewReleaseFlowFactory creates a ReleaseFlowFactory.
func NewReleaseFlowFactory(
	hosts repositories.HostRepositoryProvider,
	newGit repositories.GitRepositoryFactory,
	newManifest repositories.ManifestRepositoryFactory,
	newCreds repositories.CredentialRepositoryFactory,
	newBuild repositories.BuildRepositoryFactory,
	uploader repositories.UploaderRepository,
	prompt repositories.PromptRepository,
) *ReleaseFlowFactory {
	return &ReleaseFlowFactory{
		hosts:       hosts,
		newGit:      newGit,
		newManifest: newManifest,
		newCreds:    newCreds,
		newBuild:    newBuild,
		uploader:    uploader,
		prompt:      prompt,
	}
}

// New reads the project manifest and returns a flow ready to link.
func (it *ReleaseFlowFactory) New(
	settings *entities.Settings,
	options ReleaseOptions,
	observer entities.StepObserver,
) (*ReleaseFlow, error) {
	dir, err := filepath.Abs(options.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	manifestRepo := it.newManifest(dir)
	manifest, err := manifestRepo.Read()
	if err != nil {
		return nil, err
	}
	if manifest.Name == "" || manifest.Version == "" {
		return nil, fmt.Errorf("%w: package.json must declare name and version", entities.ErrConfiguration)
	}

	creds, err := it.newCreds(settings.HomePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	identity := entities.RepositoryIdentity{
		Name:    manifest.Name,
		Version: manifest.Version,
		Dir:     dir,
	}
	deps := ReleaseFlowDeps{
		Git:          it.newGit(dir),
		Manifest:     manifestRepo,
		Credentials:  creds,
		Prompt:       it.prompt,
		Linker:       NewHostLinker(it.hosts, creds, it.prompt),
		NewBuild:     it.newBuild,
		Uploader:     it.uploader,
		StepObserver: observer,
	}
	return NewReleaseFlow(settings, options, identity, deps), nil
}
