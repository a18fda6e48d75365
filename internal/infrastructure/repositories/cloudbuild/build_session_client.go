package cloudbuild

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
	"github.com/rios0rios0/shipflow/internal/domain/repositories"
)

const (
	eventConnect      = "connect"
	eventConnectError = "connect_error"
	eventDisconnect   = "disconnect"
	eventError        = "error"
	eventBuild        = "build"
	eventBuilding     = "building"
)

type timer interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) timer

func realAfterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

// BuildSessionClient drives one connection to the remote build service.
// Every event handler and both timers resolve the session through a single
// guarded point; the first writer wins and the socket is closed once.
type BuildSessionClient struct {
	dial           Dialer
	connectTimeout time.Duration
	buildTimeout   time.Duration
	after          afterFunc
	now            func() time.Time

	mu           sync.Mutex
	used         bool
	resolved     bool
	completed    bool
	state        entities.BuildState
	sessionID    string
	socket       Socket
	connectTimer timer
	buildTimer   timer
	started      time.Time
	connected    chan struct{}
	done         chan struct{}
	result       entities.BuildResult
	err          error
}

var _ repositories.BuildRepository = (*BuildSessionClient)(nil)

// NewBuildSessionClient creates a client using the configured timeouts.
func NewBuildSessionClient(settings *entities.Settings, dial Dialer) *BuildSessionClient {
	return newBuildSessionClient(settings, dial, realAfterFunc)
}

func newBuildSessionClient(settings *entities.Settings, dial Dialer, after afterFunc) *BuildSessionClient {
	return &BuildSessionClient{
		dial:           dial,
		connectTimeout: settings.ConnectTimeout,
		buildTimeout:   settings.BuildTimeout,
		after:          after,
		now:            time.Now,
		connected:      make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// NewBuildRepositoryFactory hands out a fresh client per publish.
func NewBuildRepositoryFactory(dial Dialer) repositories.BuildRepositoryFactory {
	return func(settings *entities.Settings) repositories.BuildRepository {
		return NewBuildSessionClient(settings, dial)
	}
}

// State returns the current lifecycle position.
func (c *BuildSessionClient) State() entities.BuildState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect opens the socket and waits for the service to acknowledge it.
func (c *BuildSessionClient) Connect(ctx context.Context, session entities.BuildSession) error {
	c.mu.Lock()
	if c.used {
		c.mu.Unlock()
		return entities.ErrSessionUsed
	}
	c.used = true
	c.state = entities.BuildConnecting
	c.started = c.now()
	c.mu.Unlock()

	sock, err := c.dial(session.Endpoint, sessionQuery(session))
	if err != nil {
		c.resolve(entities.BuildFailed, "", fmt.Errorf("failed to open build session: %w", err))
		return c.err
	}

	c.mu.Lock()
	c.socket = sock
	c.mu.Unlock()

	sock.On(eventConnect, func(...any) { c.onConnect() })
	sock.On(eventConnectError, c.onError)
	sock.On(eventError, c.onError)
	sock.On(eventDisconnect, c.onDisconnect)
	sock.On(eventBuild, c.onMessage)
	sock.On(eventBuilding, c.onProgress)

	logger.Infof("Connecting to build service %s (timeout %s)", session.Endpoint, c.connectTimeout)
	c.mu.Lock()
	if !c.resolved {
		c.connectTimer = c.after(c.connectTimeout, func() {
			logger.Errorf("Build service did not answer within %s, giving up", c.connectTimeout)
			c.resolve(entities.BuildFailed, "", fmt.Errorf("%w after %s", entities.ErrConnectTimeout, c.connectTimeout))
		})
	}
	c.mu.Unlock()

	sock.Connect()

	select {
	case <-c.connected:
		return nil
	case <-c.done:
		return c.err
	case <-ctx.Done():
		c.resolve(entities.BuildFailed, "", ctx.Err())
		return ctx.Err()
	}
}

// Build asks the service to start and waits for a terminal event.
func (c *BuildSessionClient) Build(ctx context.Context) (entities.BuildResult, error) {
	c.mu.Lock()
	if c.resolved {
		result, err := c.result, c.err
		c.mu.Unlock()
		return result, err
	}
	if c.state != entities.BuildConnected {
		state := c.state
		c.mu.Unlock()
		if state == entities.BuildBuilding {
			return entities.BuildResult{}, entities.ErrSessionUsed
		}
		return entities.BuildResult{}, errors.New("build session is not connected")
	}
	c.state = entities.BuildBuilding
	c.buildTimer = c.after(c.buildTimeout, func() {
		c.resolveUnlessCompleted(fmt.Errorf("%w after %s", entities.ErrBuildTimeout, c.buildTimeout))
	})
	sock := c.socket
	c.mu.Unlock()

	if err := sock.Emit(eventBuild); err != nil {
		c.resolve(entities.BuildFailed, "", fmt.Errorf("failed to start build: %w", err))
	}

	select {
	case <-c.done:
	case <-ctx.Done():
		c.resolveUnlessCompleted(ctx.Err())
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.err
}

func (c *BuildSessionClient) onConnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resolved || c.state != entities.BuildConnecting {
		return
	}
	if c.connectTimer != nil {
		c.connectTimer.Stop()
		c.connectTimer = nil
	}
	c.state = entities.BuildConnected
	c.sessionID = c.socket.ID()
	if c.sessionID != "" {
		c.socket.On(c.sessionID, c.onMessage)
	}
	logger.Infof("Build session %s connected", c.sessionID)
	close(c.connected)
}

func (c *BuildSessionClient) onMessage(args ...any) {
	msg := decodeMessage(args...)

	c.mu.Lock()
	if c.resolved {
		c.mu.Unlock()
		return
	}
	if entities.IsCompletionAction(msg.Action) {
		c.completed = true
	}
	c.mu.Unlock()

	if entities.IsFailureAction(msg.Action) {
		logger.Errorf("Build %s: %s", msg.Action, msg.Message)
		c.resolve(entities.BuildFailed, msg.Action,
			fmt.Errorf("%w: %s: %s", entities.ErrBuildFailed, msg.Action, msg.Message))
		return
	}
	logger.WithField("action", msg.Action).Info(msg.Message)
}

func (c *BuildSessionClient) onProgress(args ...any) {
	c.mu.Lock()
	resolved := c.resolved
	c.mu.Unlock()
	if resolved {
		return
	}
	logger.Info(decodeMessage(args...).Message)
}

func (c *BuildSessionClient) onDisconnect(args ...any) {
	c.mu.Lock()
	completed := c.completed
	c.mu.Unlock()

	if completed {
		logger.Info("Build completed, build service closed the session")
		c.resolve(entities.BuildCompleted, "", nil)
		return
	}
	reason := "unknown reason"
	if len(args) > 0 {
		reason = fmt.Sprint(args[0])
	}
	c.resolve(entities.BuildDisconnected, "",
		fmt.Errorf("%w: disconnected before completion (%s)", entities.ErrBuildFailed, reason))
}

func (c *BuildSessionClient) onError(args ...any) {
	var cause any = "unknown error"
	if len(args) > 0 && args[0] != nil {
		cause = args[0]
	}
	logger.Errorf("Build session error: %v", cause)
	c.resolve(entities.BuildFailed, "", fmt.Errorf("%w: %v", entities.ErrBuildFailed, cause))
}

// resolveUnlessCompleted ends a build that stopped without a terminal event.
// A completion action already seen still counts as success.
func (c *BuildSessionClient) resolveUnlessCompleted(err error) {
	c.mu.Lock()
	completed := c.completed
	c.mu.Unlock()

	if completed {
		logger.Info("Build completed, closing the session")
		c.resolve(entities.BuildCompleted, "", nil)
		return
	}
	logger.Errorf("Build did not finish: %v", err)
	c.resolve(entities.BuildFailed, "", err)
}

// resolve records the terminal outcome once, then closes the socket outside
// the lock because closing fires the disconnect handler synchronously.
func (c *BuildSessionClient) resolve(state entities.BuildState, failureCode string, err error) {
	c.mu.Lock()
	if c.resolved {
		c.mu.Unlock()
		return
	}
	c.resolved = true
	c.state = state
	if c.connectTimer != nil {
		c.connectTimer.Stop()
		c.connectTimer = nil
	}
	if c.buildTimer != nil {
		c.buildTimer.Stop()
		c.buildTimer = nil
	}
	c.result = entities.BuildResult{
		SessionID:   c.sessionID,
		State:       state,
		FailureCode: failureCode,
		Elapsed:     c.now().Sub(c.started),
	}
	c.err = err
	sock := c.socket
	c.socket = nil
	c.mu.Unlock()

	close(c.done)
	if sock != nil {
		sock.Close()
	}
}

func sessionQuery(session entities.BuildSession) url.Values {
	return url.Values{
		"repo":     {session.RepoURL},
		"name":     {session.Name},
		"branch":   {session.Branch},
		"version":  {session.Version},
		"buildCmd": {session.BuildCmd},
		"prod":     {strconv.FormatBool(session.Production)},
	}
}
