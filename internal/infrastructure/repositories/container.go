package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	domainRepos "github.com/rios0rios0/shipflow/internal/domain/repositories"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/cloudbuild"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/credentials"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/gitcli"
	giteeRepo "github.com/rios0rios0/shipflow/internal/infrastructure/repositories/gitee"
	ghRepo "github.com/rios0rios0/shipflow/internal/infrastructure/repositories/github"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/manifest"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/prompt"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/shell"
	"github.com/rios0rios0/shipflow/internal/infrastructure/repositories/upload"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	providers := []interface{}{
		func() shell.Runner {
			return shell.NewExecRunner()
		},
		// Register host registry with all host factories
		func() *HostRegistry {
			reg := NewHostRegistry()
			reg.Register(entities.HostGitee, "Gitee", giteeRepo.NewHostRepository)
			reg.Register(entities.HostGitHub, "GitHub", ghRepo.NewHostRepository)
			return reg
		},
		func(impl *HostRegistry) domainRepos.HostRepositoryProvider {
			return impl
		},
		gitcli.NewGitRepositoryFactory,
		func() domainRepos.ManifestRepositoryFactory {
			return manifest.NewPackageJSONRepository
		},
		func() domainRepos.CredentialRepositoryFactory {
			return credentials.NewFileCredentialRepository
		},
		func() domainRepos.BuildRepositoryFactory {
			return cloudbuild.NewBuildRepositoryFactory(cloudbuild.DialSocketIO)
		},
		func(runner shell.Runner) domainRepos.UploaderRepository {
			return upload.NewTemplateUploader(runner)
		},
		prompt.NewTerminalPromptRepository,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return err
		}
	}
	return nil
}
