package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

const (
	stepDeleteLocalTag     = "delete local tag"
	stepDeleteRemoteTag    = "delete remote tag"
	stepCreateTag          = "create tag"
	stepPushTag            = "push tag"
	stepCheckoutMain       = "checkout main branch"
	stepMergeDevelop       = "merge development branch"
	stepPushMain           = "push main branch"
	stepDeleteLocalBranch  = "delete local development branch"
	stepDeleteRemoteBranch = "delete remote development branch"
)

type promotionStep struct {
	name     string
	requires []string
	run      func(ctx context.Context) error
}

// TagPromotion tags a successful production build and promotes the
// development branch into the main branch. Steps run in order; a step whose
// prerequisite did not succeed is skipped and reported, never run blind.
type TagPromotion struct {
	git        repositories.GitRepository
	remote     string
	mainBranch string
	observer   entities.StepObserver
}

// NewTagPromotion creates a TagPromotion. observer may be nil.
func NewTagPromotion(
	git repositories.GitRepository,
	remote, mainBranch string,
	observer entities.StepObserver,
) *TagPromotion {
	return &TagPromotion{git: git, remote: remote, mainBranch: mainBranch, observer: observer}
}

// Run executes the promotion for version built from developBranch. It
// returns every step result and a PartialCleanupError if any step did not
// succeed.
func (it *TagPromotion) Run(
	ctx context.Context,
	version, developBranch string,
) ([]entities.StepResult, error) {
	steps := it.steps(entities.ReleaseTagName(version), developBranch)
	results := make([]entities.StepResult, 0, len(steps))
	succeeded := make(map[string]bool)

	for _, step := range steps {
		result := entities.StepResult{Name: step.name}
		if missing := firstMissing(step.requires, succeeded); missing != "" {
			result.Status = entities.StepSkipped
			logger.Warnf("Skipping %s: %s did not succeed", step.name, missing)
		} else if err := step.run(ctx); err != nil {
			result.Status = entities.StepFailed
			result.Err = err
			logger.Errorf("Release step %s failed: %v", step.name, err)
		} else {
			result.Status = entities.StepSucceeded
			succeeded[step.name] = true
			logger.Infof("Release step %s done", step.name)
		}
		results = append(results, result)
		if it.observer != nil {
			it.observer(result)
		}
	}

	for _, r := range results {
		if r.Status != entities.StepSucceeded {
			return results, &entities.PartialCleanupError{Results: results}
		}
	}
	return results, nil
}

// TagPushed reports whether the release tag reached the remote.
func TagPushed(results []entities.StepResult) bool {
	for _, r := range results {
		if r.Name == stepPushTag {
			return r.Status == entities.StepSucceeded
		}
	}
	return false
}

func (it *TagPromotion) steps(tag, developBranch string) []promotionStep {
	return []promotionStep{
		{name: stepDeleteLocalTag, run: func(ctx context.Context) error {
			exists, err := it.git.LocalTagExists(ctx, tag)
			if err != nil || !exists {
				return err
			}
			return it.git.DeleteLocalTag(ctx, tag)
		}},
		{name: stepDeleteRemoteTag, run: func(ctx context.Context) error {
			refs, err := it.git.ListRemoteRefs(ctx, it.remote)
			if err != nil {
				return err
			}
			if !entities.HasRef(refs, "refs/tags/"+tag) {
				return nil
			}
			return it.git.DeleteRemoteRef(ctx, it.remote, tag)
		}},
		{name: stepCreateTag, requires: []string{stepDeleteLocalTag}, run: func(ctx context.Context) error {
			return it.git.CreateTag(ctx, tag)
		}},
		{name: stepPushTag, requires: []string{stepCreateTag}, run: func(ctx context.Context) error {
			return it.git.Push(ctx, it.remote, tag)
		}},
		{name: stepCheckoutMain, run: func(ctx context.Context) error {
			return it.git.Checkout(ctx, it.mainBranch)
		}},
		{name: stepMergeDevelop, requires: []string{stepCheckoutMain}, run: func(ctx context.Context) error {
			return it.git.Merge(ctx, developBranch)
		}},
		{name: stepPushMain, requires: []string{stepMergeDevelop}, run: func(ctx context.Context) error {
			return it.git.Push(ctx, it.remote, it.mainBranch)
		}},
		{name: stepDeleteLocalBranch, requires: []string{stepMergeDevelop}, run: func(ctx context.Context) error {
			return it.git.DeleteLocalBranch(ctx, developBranch)
		}},
		{name: stepDeleteRemoteBranch, requires: []string{stepPushMain}, run: func(ctx context.Context) error {
			refs, err := it.git.ListRemoteRefs(ctx, it.remote)
			if err != nil {
				return err
			}
			if !entities.HasRef(refs, "refs/heads/"+developBranch) {
				return nil
			}
			return it.git.DeleteRemoteRef(ctx, it.remote, developBranch)
		}},
	}
}

func firstMissing(requires []string, succeeded map[string]bool) string {
	for _, name := range requires {
		if !succeeded[name] {
			return name
		}
	}
	return ""
}
