package commands

import (
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

// VersionResolver computes the development branch and version a commit targets
// from the local manifest version and the release tags already on the remote.
type VersionResolver struct {
	prompt   repositories.PromptRepository
	manifest repositories.ManifestRepository
}

// NewVersionResolver creates a VersionResolver.
func NewVersionResolver(
	prompt repositories.PromptRepository,
	manifest repositories.ManifestRepository,
) *VersionResolver {
	return &VersionResolver{prompt: prompt, manifest: manifest}
}

// Resolve returns the BranchPlan for localVersion given the remote refs.
//
// When the local version is ahead of the newest release it is used as is.
// When it is not, the operator picks a bump applied to the release version;
// the resolver never guesses. The resulting version is written back to the
// manifest whenever it differs from what the manifest declares.
func (it *VersionResolver) Resolve(localVersion string, remoteRefs []string) (entities.BranchPlan, error) {
	if err := entities.ValidateVersion(localVersion); err != nil {
		return entities.BranchPlan{}, err
	}

	targetVersion := localVersion
	releaseVersion := entities.HighestReleaseVersion(remoteRefs)

	if releaseVersion == "" {
		logger.Infof("No release tag found on remote, using local version %s", localVersion)
	} else {
		cmp, err := entities.CompareVersions(localVersion, releaseVersion)
		if err != nil {
			return entities.BranchPlan{}, err
		}
		if cmp > 0 {
			logger.Infof("Local version %s is ahead of release %s", localVersion, releaseVersion)
		} else {
			targetVersion, err = it.promptBump(releaseVersion)
			if err != nil {
				return entities.BranchPlan{}, err
			}
		}
	}

	if err := it.syncManifest(targetVersion); err != nil {
		return entities.BranchPlan{}, err
	}

	plan := entities.NewBranchPlan(targetVersion)
	logger.Infof("Development branch: %s", plan.DevelopBranch)
	return plan, nil
}

func (it *VersionResolver) promptBump(releaseVersion string) (string, error) {
	answer, err := it.prompt.Select(
		fmt.Sprintf("Release %s already exists, choose the next version", releaseVersion),
		entities.BumpChoices(releaseVersion),
		string(entities.BumpPatch),
	)
	if err != nil {
		return "", fmt.Errorf("failed to read version bump: %w", err)
	}
	return entities.BumpVersion(releaseVersion, entities.BumpKind(answer))
}

func (it *VersionResolver) syncManifest(version string) error {
	manifest, err := it.manifest.Read()
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	if manifest.Version == version {
		return nil
	}
	if writeErr := it.manifest.WriteVersion(version); writeErr != nil {
		return fmt.Errorf("failed to write version %s to manifest: %w", version, writeErr)
	}
	logger.Infof("Manifest version updated %s -> %s", manifest.Version, version)
	return nil
}
