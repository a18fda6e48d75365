package cloudbuild

import (
	"time"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// DecodeMessage exports decodeMessage for testing.
var DecodeMessage = decodeMessage //nolint:gochecknoglobals // test export

// NewBuildSessionClientWithTimers builds a client whose timers come from after.
func NewBuildSessionClientWithTimers(
	settings *entities.Settings,
	dial Dialer,
	after func(time.Duration, func()) interface{ Stop() bool },
) *BuildSessionClient {
	return newBuildSessionClient(settings, dial, func(d time.Duration, f func()) timer {
		return after(d, f)
	})
}
