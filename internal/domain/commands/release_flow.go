package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

// ReleaseOptions are the per-invocation choices of a release run.
type ReleaseOptions struct {
	ProjectDir     string
	Refresh        HostRefresh
	RefreshPublish bool
	BuildCommand   string
	Production     bool
}

// ReleaseFlowDeps are the collaborators a ReleaseFlow drives.
type ReleaseFlowDeps struct {
	Git          repositories.GitRepository
	Manifest     repositories.ManifestRepository
	Credentials  repositories.CredentialRepository
	Prompt       repositories.PromptRepository
	Linker       *HostLinker
	NewBuild     repositories.BuildRepositoryFactory
	Uploader     repositories.UploaderRepository
	StepObserver entities.StepObserver
}

// ReleaseFlow moves one project through link, commit, publish and tag.
// Each phase runs only from the state the previous phase left behind.
type ReleaseFlow struct {
	settings *entities.Settings
	options  ReleaseOptions
	deps     ReleaseFlowDeps
	guard    *WorkingTreeGuard
	resolver *VersionResolver

	identity entities.RepositoryIdentity
	host     repositories.HostRepository
	remote   entities.RemoteRepository
	plan     entities.BranchPlan
	state    entities.FlowState
}

// NewReleaseFlow creates a flow in the Uninitialized state.
func NewReleaseFlow(
	settings *entities.Settings,
	options ReleaseOptions,
	identity entities.RepositoryIdentity,
	deps ReleaseFlowDeps,
) *ReleaseFlow {
	return &ReleaseFlow{
		settings: settings,
		options:  options,
		deps:     deps,
		guard:    NewWorkingTreeGuard(deps.Git, deps.Prompt),
		resolver: NewVersionResolver(deps.Prompt, deps.Manifest),
		identity: identity,
		state:    entities.FlowUninitialized,
	}
}

func (it *ReleaseFlow) State() entities.FlowState {
	return it.state
}

func (it *ReleaseFlow) Plan() entities.BranchPlan {
	return it.plan
}

func (it *ReleaseFlow) Identity() entities.RepositoryIdentity {
	return it.identity
}

// Link resolves the host and, for a directory without git metadata, creates
// the local repository and publishes it to a new remote repository.
func (it *ReleaseFlow) Link(ctx context.Context) error {
	if err := entities.ValidateTransition(it.state, entities.FlowLinked); err != nil {
		return err
	}

	host, remote, err := it.deps.Linker.Prepare(ctx, &it.identity, it.options.Refresh)
	if err != nil {
		return it.fail(err)
	}
	it.host = host
	it.remote = remote

	if it.deps.Git.IsInitialized() {
		logger.Debug("Git repository already initialized")
		return it.transition(entities.FlowLinked)
	}

	if linkErr := it.linkNewRepository(ctx); linkErr != nil {
		return it.fail(linkErr)
	}
	return it.transition(entities.FlowLinked)
}

// Commit resolves the version, commits pending work onto the development
// branch, integrates the remote main and development branches and pushes.
func (it *ReleaseFlow) Commit(ctx context.Context) error {
	if err := entities.ValidateTransition(it.state, entities.FlowCommitted); err != nil {
		return err
	}
	if err := it.commit(ctx); err != nil {
		return it.fail(err)
	}
	return it.transition(entities.FlowCommitted)
}

// ValidatePublish checks the manifest and build command without touching git
// or the network.
func (it *ReleaseFlow) ValidatePublish() error {
	manifest, err := it.deps.Manifest.Read()
	if err != nil {
		return err
	}
	if validateErr := manifest.Validate(); validateErr != nil {
		return validateErr
	}
	return manifest.ValidateBuildCommand(it.options.BuildCommand)
}

// Publish runs the remote build of the committed development branch. A
// production build that succeeds is tagged and promoted to the main branch.
func (it *ReleaseFlow) Publish(ctx context.Context) (entities.BuildResult, error) {
	if err := entities.ValidateTransition(it.state, entities.FlowPublished); err != nil {
		return entities.BuildResult{}, err
	}
	startedAt := time.Now()
	defer func() {
		logger.Infof("Publish finished in %s", time.Since(startedAt).Round(time.Millisecond))
	}()

	result, err := it.publish(ctx)
	if err != nil {
		return result, it.fail(err)
	}
	if transitionErr := it.transition(entities.FlowPublished); transitionErr != nil {
		return result, transitionErr
	}

	it.upload(ctx)

	if it.options.Production {
		return result, it.promote(ctx)
	}
	return result, nil
}

func (it *ReleaseFlow) linkNewRepository(ctx context.Context) error {
	git := it.deps.Git
	remoteName := it.settings.RemoteName
	mainBranch := it.settings.MainBranch

	if err := git.Init(ctx, mainBranch); err != nil {
		return fmt.Errorf("failed to initialize git repository: %w", err)
	}
	logger.Info("Initialized git repository")

	if err := it.deps.Linker.EnsureRepo(ctx, it.host, it.identity); err != nil {
		return err
	}

	hasRemote, err := git.HasRemote(ctx, remoteName)
	if err != nil {
		return err
	}
	if !hasRemote {
		if addErr := git.AddRemote(ctx, remoteName, it.remote.RemoteURL); addErr != nil {
			return fmt.Errorf("failed to add remote %s: %w", remoteName, addErr)
		}
		logger.Infof("Added remote %s -> %s", remoteName, it.remote.RemoteURL)
	}

	if conflictErr := it.guard.AssertNoConflicts(ctx); conflictErr != nil {
		return conflictErr
	}
	if _, commitErr := it.guard.EnsureCommitted(ctx); commitErr != nil {
		return commitErr
	}

	refs, err := git.ListRemoteRefs(ctx, remoteName)
	if err != nil {
		return fmt.Errorf("failed to list remote refs: %w", err)
	}
	if entities.HasRef(refs, "refs/heads/"+mainBranch) {
		if pullErr := it.pullAndCheck(ctx, mainBranch, true); pullErr != nil {
			return pullErr
		}
	}

	if pushErr := git.Push(ctx, remoteName, mainBranch); pushErr != nil {
		return fmt.Errorf("failed to push %s: %w", mainBranch, pushErr)
	}
	logger.Infof("Pushed %s to %s", mainBranch, remoteName)
	return nil
}

func (it *ReleaseFlow) commit(ctx context.Context) error {
	git := it.deps.Git
	remoteName := it.settings.RemoteName

	manifest, err := it.deps.Manifest.Read()
	if err != nil {
		return err
	}
	refs, err := git.ListRemoteRefs(ctx, remoteName)
	if err != nil {
		return fmt.Errorf("failed to list remote refs: %w", err)
	}
	plan, err := it.resolver.Resolve(manifest.Version, refs)
	if err != nil {
		return err
	}
	it.plan = plan
	it.identity.Version = plan.TargetVersion

	if _, stashErr := it.guard.PopStashIfPresent(ctx); stashErr != nil {
		return stashErr
	}
	if conflictErr := it.guard.AssertNoConflicts(ctx); conflictErr != nil {
		return conflictErr
	}
	if _, commitErr := it.guard.EnsureCommitted(ctx); commitErr != nil {
		return commitErr
	}

	if checkoutErr := it.checkoutDevelop(ctx); checkoutErr != nil {
		return checkoutErr
	}

	if entities.HasRef(refs, "refs/heads/"+it.settings.MainBranch) {
		if pullErr := it.pullAndCheck(ctx, it.settings.MainBranch, false); pullErr != nil {
			return pullErr
		}
	}
	if entities.HasRef(refs, "refs/heads/"+plan.DevelopBranch) {
		if pullErr := it.pullAndCheck(ctx, plan.DevelopBranch, false); pullErr != nil {
			return pullErr
		}
	}

	if pushErr := git.Push(ctx, remoteName, plan.DevelopBranch); pushErr != nil {
		return fmt.Errorf("failed to push %s: %w", plan.DevelopBranch, pushErr)
	}
	logger.Infof("Pushed %s to %s", plan.DevelopBranch, remoteName)
	return nil
}

func (it *ReleaseFlow) checkoutDevelop(ctx context.Context) error {
	git := it.deps.Git
	branch := it.plan.DevelopBranch

	current, err := git.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if current == branch {
		return nil
	}

	exists, err := git.LocalBranchExists(ctx, branch)
	if err != nil {
		return err
	}
	if exists {
		err = git.Checkout(ctx, branch)
	} else {
		err = git.CheckoutNew(ctx, branch)
	}
	if err != nil {
		return fmt.Errorf("failed to switch to %s: %w", branch, err)
	}
	logger.Infof("Switched to %s", branch)
	return nil
}

// pullAndCheck reports conflicts left by a pull ahead of the pull error itself.
func (it *ReleaseFlow) pullAndCheck(ctx context.Context, branch string, allowUnrelated bool) error {
	pullErr := it.deps.Git.Pull(ctx, it.settings.RemoteName, branch, allowUnrelated)
	if conflictErr := it.guard.AssertNoConflicts(ctx); conflictErr != nil {
		return conflictErr
	}
	if pullErr != nil {
		return fmt.Errorf("failed to pull %s/%s: %w", it.settings.RemoteName, branch, pullErr)
	}
	logger.Infof("Merged %s/%s", it.settings.RemoteName, branch)
	return nil
}

func (it *ReleaseFlow) publish(ctx context.Context) (entities.BuildResult, error) {
	if err := it.ValidatePublish(); err != nil {
		return entities.BuildResult{}, err
	}

	repoURL, err := it.repositoryURL(ctx)
	if err != nil {
		return entities.BuildResult{}, err
	}

	session := entities.BuildSession{
		Endpoint:   it.settings.BuildServer,
		RepoURL:    repoURL,
		Name:       it.identity.Name,
		Branch:     it.plan.DevelopBranch,
		Version:    it.plan.TargetVersion,
		BuildCmd:   it.options.BuildCommand,
		Production: it.options.Production,
	}

	client := it.deps.NewBuild(it.settings)
	if connectErr := client.Connect(ctx, session); connectErr != nil {
		return entities.BuildResult{}, connectErr
	}
	result, err := client.Build(ctx)
	if err != nil {
		return result, err
	}
	logger.Infof("Build %s of %s@%s succeeded in %s",
		result.SessionID, session.Name, session.Version, result.Elapsed.Round(time.Millisecond))
	return result, nil
}

func (it *ReleaseFlow) repositoryURL(ctx context.Context) (string, error) {
	url, err := it.deps.Git.RemoteURL(ctx, it.settings.RemoteName)
	if err == nil && url != "" {
		return url, nil
	}
	if it.remote.RemoteURL != "" {
		return it.remote.RemoteURL, nil
	}
	return "", fmt.Errorf("%w: remote %s has no URL", entities.ErrConfiguration, it.settings.RemoteName)
}

// upload transfers the built template when configured. It never fails the
// release: the build is already published at this point.
func (it *ReleaseFlow) upload(ctx context.Context) {
	publish := it.settings.Publish
	if !publish.UploadEnabled() || it.deps.Uploader == nil {
		return
	}

	target, keyPath, err := it.resolvePublishTarget()
	if err != nil {
		logger.Warnf("Template upload skipped: %v", err)
		return
	}
	if target != entities.PublishSSH {
		return
	}

	req := entities.UploadRequest{
		Name:       it.identity.Name,
		Version:    it.plan.TargetVersion,
		Production: it.options.Production,
		KeyPath:    keyPath,
	}
	if uploadErr := it.deps.Uploader.Upload(ctx, publish, req); uploadErr != nil {
		logger.Warnf("Template upload failed: %v", uploadErr)
		return
	}
	logger.Infof("Template uploaded to %s@%s:%s", publish.SSHUser, publish.SSHHost, publish.SSHPath)
}

func (it *ReleaseFlow) resolvePublishTarget() (entities.PublishTarget, string, error) {
	creds := it.deps.Credentials
	target, err := creds.Read(entities.KeyPublish)
	if err != nil {
		return "", "", err
	}
	if target == "" || it.options.RefreshPublish {
		target, err = it.deps.Prompt.Select("Upload the built template?", []entities.Choice{
			{Name: "No", Value: string(entities.PublishNone)},
			{Name: "SSH (scp)", Value: string(entities.PublishSSH)},
		}, string(entities.PublishNone))
		if err != nil {
			return "", "", err
		}
		if writeErr := creds.Write(entities.KeyPublish, target); writeErr != nil {
			return "", "", writeErr
		}
	}
	if entities.PublishTarget(target) != entities.PublishSSH {
		return entities.PublishTarget(target), "", nil
	}

	keyPath, err := creds.Read(entities.KeyUploadKey)
	if err != nil {
		return "", "", err
	}
	if keyPath == "" || it.options.RefreshPublish {
		keyPath, err = it.deps.Prompt.Input("Path to the SSH private key", "")
		if err != nil {
			return "", "", err
		}
		keyPath = strings.TrimSpace(keyPath)
		if keyPath == "" {
			return "", "", errors.New("no SSH key given")
		}
		if writeErr := creds.Write(entities.KeyUploadKey, keyPath); writeErr != nil {
			return "", "", writeErr
		}
	}
	return entities.PublishSSH, keyPath, nil
}

func (it *ReleaseFlow) promote(ctx context.Context) error {
	promotion := NewTagPromotion(
		it.deps.Git, it.settings.RemoteName, it.settings.MainBranch, it.deps.StepObserver,
	)
	results, err := promotion.Run(ctx, it.plan.TargetVersion, it.plan.DevelopBranch)
	if !TagPushed(results) {
		return it.fail(err)
	}
	if transitionErr := it.transition(entities.FlowTagged); transitionErr != nil {
		return transitionErr
	}
	if err == nil {
		logger.Infof("Released %s", entities.ReleaseTagName(it.plan.TargetVersion))
	}
	return err
}

func (it *ReleaseFlow) transition(to entities.FlowState) error {
	if err := entities.ValidateTransition(it.state, to); err != nil {
		return err
	}
	logger.Debugf("Release flow %s -> %s", it.state, to)
	it.state = to
	return nil
}

func (it *ReleaseFlow) fail(err error) error {
	if entities.CanTransition(it.state, entities.FlowFailed) {
		it.state = entities.FlowFailed
	}
	return err
}
