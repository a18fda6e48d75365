//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

// SpyGitRepository implements repositories.GitRepository over an in-memory
// model of a working tree and its remote. Every call is appended to Calls.
type SpyGitRepository struct {
	// --- local state ---
	Initialized   bool
	Branch        string
	LocalBranches map[string]bool
	LocalTags     map[string]bool
	Remotes       map[string]string
	Pending       entities.WorkingTreeStatus
	Stashed       bool
	Commits       []string

	// --- remote state ---
	RemoteRefs []string

	// --- scripted behaviour ---
	StashConflicts []string            // conflicted paths left by StashPop
	PullConflicts  map[string][]string // conflicted paths left by pulling a branch
	MergeConflicts []string            // conflicted paths left by Merge
	StatusErr      error
	ListRefsErr    error
	PushErrs       map[string]error
	MergeErr       error
	CheckoutErr    error
	CreateTagErr   error

	Calls []string
}

var _ repositories.GitRepository = (*SpyGitRepository)(nil)

// NewSpyGitRepository returns an initialized repository on master with no changes.
func NewSpyGitRepository() *SpyGitRepository {
	return &SpyGitRepository{
		Initialized:   true,
		Branch:        "master",
		LocalBranches: map[string]bool{"master": true},
		LocalTags:     map[string]bool{},
		Remotes:       map[string]string{"origin": "git@gitee.com:owner/app.git"},
	}
}

// Called reports whether a call with the exact description was recorded.
func (s *SpyGitRepository) Called(call string) bool {
	for _, c := range s.Calls {
		if c == call {
			return true
		}
	}
	return false
}

// IndexOf returns the position of the first matching call, or -1.
func (s *SpyGitRepository) IndexOf(call string) int {
	for i, c := range s.Calls {
		if c == call {
			return i
		}
	}
	return -1
}

func (s *SpyGitRepository) record(format string, args ...any) {
	s.Calls = append(s.Calls, fmt.Sprintf(format, args...))
}

func (s *SpyGitRepository) IsInitialized() bool { return s.Initialized }

func (s *SpyGitRepository) Init(_ context.Context, defaultBranch string) error {
	s.record("init %s", defaultBranch)
	s.Initialized = true
	s.Branch = defaultBranch
	if s.LocalBranches == nil {
		s.LocalBranches = map[string]bool{}
	}
	s.LocalBranches[defaultBranch] = true
	return nil
}

func (s *SpyGitRepository) HasRemote(_ context.Context, name string) (bool, error) {
	_, ok := s.Remotes[name]
	return ok, nil
}

func (s *SpyGitRepository) AddRemote(_ context.Context, name, url string) error {
	s.record("remote add %s %s", name, url)
	if s.Remotes == nil {
		s.Remotes = map[string]string{}
	}
	s.Remotes[name] = url
	return nil
}

func (s *SpyGitRepository) RemoteURL(_ context.Context, name string) (string, error) {
	url, ok := s.Remotes[name]
	if !ok {
		return "", fmt.Errorf("remote %s not found", name)
	}
	return url, nil
}

func (s *SpyGitRepository) ListRemoteRefs(_ context.Context, remote string) ([]string, error) {
	s.record("ls-remote %s", remote)
	if s.ListRefsErr != nil {
		return nil, s.ListRefsErr
	}
	return append([]string(nil), s.RemoteRefs...), nil
}

func (s *SpyGitRepository) Status(_ context.Context) (entities.WorkingTreeStatus, error) {
	s.record("status")
	if s.StatusErr != nil {
		return entities.WorkingTreeStatus{}, s.StatusErr
	}
	status := s.Pending
	status.Current = s.Branch
	return status, nil
}

func (s *SpyGitRepository) AddAll(_ context.Context) error {
	s.record("add .")
	return nil
}

func (s *SpyGitRepository) Commit(_ context.Context, message string) error {
	s.record("commit %s", message)
	s.Commits = append(s.Commits, message)
	conflicted := s.Pending.Conflicted
	s.Pending = entities.WorkingTreeStatus{Conflicted: conflicted}
	return nil
}

func (s *SpyGitRepository) HasStash(_ context.Context) (bool, error) {
	return s.Stashed, nil
}

func (s *SpyGitRepository) StashPop(_ context.Context) error {
	s.record("stash pop")
	s.Stashed = false
	if len(s.StashConflicts) > 0 {
		s.Pending.Conflicted = s.StashConflicts
		return errors.New("stash pop left conflicts")
	}
	return nil
}

func (s *SpyGitRepository) CurrentBranch(_ context.Context) (string, error) {
	return s.Branch, nil
}

func (s *SpyGitRepository) LocalBranchExists(_ context.Context, name string) (bool, error) {
	return s.LocalBranches[name], nil
}

func (s *SpyGitRepository) Checkout(_ context.Context, name string) error {
	s.record("checkout %s", name)
	if s.CheckoutErr != nil {
		return s.CheckoutErr
	}
	if !s.LocalBranches[name] {
		return fmt.Errorf("branch %s not found", name)
	}
	s.Branch = name
	return nil
}

func (s *SpyGitRepository) CheckoutNew(_ context.Context, name string) error {
	s.record("checkout -b %s", name)
	if s.LocalBranches == nil {
		s.LocalBranches = map[string]bool{}
	}
	s.LocalBranches[name] = true
	s.Branch = name
	return nil
}

func (s *SpyGitRepository) DeleteLocalBranch(_ context.Context, name string) error {
	s.record("branch -d %s", name)
	delete(s.LocalBranches, name)
	return nil
}

func (s *SpyGitRepository) Pull(_ context.Context, remote, branch string, allowUnrelated bool) error {
	if allowUnrelated {
		s.record("pull %s %s --allow-unrelated-histories", remote, branch)
	} else {
		s.record("pull %s %s", remote, branch)
	}
	if paths, ok := s.PullConflicts[branch]; ok {
		s.Pending.Conflicted = paths
		return errors.New("automatic merge failed")
	}
	return nil
}

func (s *SpyGitRepository) Merge(_ context.Context, branch string) error {
	s.record("merge %s", branch)
	if len(s.MergeConflicts) > 0 {
		s.Pending.Conflicted = s.MergeConflicts
		return errors.New("automatic merge failed")
	}
	return s.MergeErr
}

func (s *SpyGitRepository) Push(_ context.Context, remote, ref string) error {
	s.record("push %s %s", remote, ref)
	if err := s.PushErrs[ref]; err != nil {
		return err
	}
	full := "refs/heads/" + ref
	if strings.HasPrefix(ref, entities.ReleaseTagPrefix) {
		full = "refs/tags/" + ref
	}
	if !entities.HasRef(s.RemoteRefs, full) {
		s.RemoteRefs = append(s.RemoteRefs, full)
	}
	return nil
}

func (s *SpyGitRepository) DeleteRemoteRef(_ context.Context, remote, ref string) error {
	s.record("push %s --delete %s", remote, ref)
	kept := s.RemoteRefs[:0]
	for _, r := range s.RemoteRefs {
		if r != "refs/heads/"+ref && r != "refs/tags/"+ref {
			kept = append(kept, r)
		}
	}
	s.RemoteRefs = kept
	return nil
}

func (s *SpyGitRepository) LocalTagExists(_ context.Context, name string) (bool, error) {
	return s.LocalTags[name], nil
}

func (s *SpyGitRepository) CreateTag(_ context.Context, name string) error {
	s.record("tag %s", name)
	if s.CreateTagErr != nil {
		return s.CreateTagErr
	}
	if s.LocalTags == nil {
		s.LocalTags = map[string]bool{}
	}
	s.LocalTags[name] = true
	return nil
}

func (s *SpyGitRepository) DeleteLocalTag(_ context.Context, name string) error {
	s.record("tag -d %s", name)
	delete(s.LocalTags, name)
	return nil
}
