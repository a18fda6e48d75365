package entities

import "time"

// BuildState is the lifecycle position of a build session.
type BuildState string

const (
	BuildConnecting   BuildState = "connecting"
	BuildConnected    BuildState = "connected"
	BuildBuilding     BuildState = "building"
	BuildCompleted    BuildState = "completed"
	BuildFailed       BuildState = "failed"
	BuildDisconnected BuildState = "disconnected"
)

// failureActions are the terminal failure actions reported by the build service.
var failureActions = map[string]bool{
	"prepare failed":     true,
	"download failed":    true,
	"install failed":     true,
	"build failed":       true,
	"pre-publish failed": true,
	"publish failed":     true,
}

// completionActions signal that the build finished successfully.
var completionActions = map[string]bool{
	"build success":   true,
	"publish success": true,
}

// IsFailureAction reports whether action ends the session as failed.
func IsFailureAction(action string) bool {
	return failureActions[action]
}

// IsCompletionAction reports whether action marks a successful build.
func IsCompletionAction(action string) bool {
	return completionActions[action]
}

// BuildSession carries the connection parameters of one remote build.
type BuildSession struct {
	Endpoint   string
	RepoURL    string
	Name       string
	Branch     string
	Version    string
	BuildCmd   string
	Production bool
}

// BuildMessage is a decoded lifecycle message from the build service.
type BuildMessage struct {
	Action  string
	Message string
}

// BuildResult is the terminal outcome of a build session.
type BuildResult struct {
	SessionID   string
	State       BuildState
	FailureCode string
	Elapsed     time.Duration
}

// Succeeded reports whether the build completed.
func (r BuildResult) Succeeded() bool {
	return r.State == BuildCompleted
}
