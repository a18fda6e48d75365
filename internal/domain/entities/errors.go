package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks a project or tool misconfiguration the user must fix.
	ErrConfiguration = errors.New("configuration error")
	// ErrRemoteAuth marks a missing or rejected host token.
	ErrRemoteAuth = errors.New("remote authentication error")
	// ErrMissingToken is returned before any host call when no token is set.
	ErrMissingToken = fmt.Errorf("%w: missing token", ErrRemoteAuth)
	// ErrWorkingTreeConflict halts the flow until conflicts are resolved by hand.
	ErrWorkingTreeConflict = errors.New("working tree has conflicts")
	// ErrConnectTimeout is returned when the build service never acknowledges the connection.
	ErrConnectTimeout = errors.New("build service connect timeout")
	// ErrBuildTimeout is returned when a connected build never reaches a terminal event.
	ErrBuildTimeout = errors.New("build timeout")
	// ErrBuildFailed is returned for a terminal failure action or an unexpected disconnect.
	ErrBuildFailed = errors.New("build failed")
	// ErrSessionUsed is returned when a build session client is reused.
	ErrSessionUsed = errors.New("build session already used")
	// ErrNotImplemented is returned by host capabilities a provider does not offer.
	ErrNotImplemented = errors.New("not implemented")
	// ErrRepositoryExists is returned when a repository creation races an existing one.
	ErrRepositoryExists = errors.New("repository already exists")
)

// PartialCleanupError reports promotion steps that failed or were skipped
// while the remaining steps stayed in effect.
type PartialCleanupError struct {
	Results []StepResult
}

func (e *PartialCleanupError) Error() string {
	var parts []string
	for _, r := range e.Results {
		switch r.Status {
		case StepFailed:
			parts = append(parts, fmt.Sprintf("%s failed: %v", r.Name, r.Err))
		case StepSkipped:
			parts = append(parts, fmt.Sprintf("%s skipped", r.Name))
		case StepSucceeded:
		}
	}
	return "release promotion incomplete: " + strings.Join(parts, "; ")
}

// Unwrap exposes every underlying step error.
func (e *PartialCleanupError) Unwrap() []error {
	var errs []error
	for _, r := range e.Results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
