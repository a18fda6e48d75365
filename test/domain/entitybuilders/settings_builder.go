//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"time"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// SettingsBuilder helps create test settings with a fluent interface.
type SettingsBuilder struct {
	*testkit.BaseBuilder
	settings entities.Settings
}

// NewSettingsBuilder creates a new settings builder with deterministic defaults.
func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		settings:    defaultTestSettings(),
	}
}

// WithBuildServer sets the build service endpoint.
func (b *SettingsBuilder) WithBuildServer(endpoint string) *SettingsBuilder {
	b.settings.BuildServer = endpoint
	return b
}

// WithTimeouts sets the connect and build timeouts.
func (b *SettingsBuilder) WithTimeouts(connect, build time.Duration) *SettingsBuilder {
	b.settings.ConnectTimeout = connect
	b.settings.BuildTimeout = build
	return b
}

// WithPublish enables the template upload.
func (b *SettingsBuilder) WithPublish(publish entities.PublishSettings) *SettingsBuilder {
	b.settings.Publish = publish
	return b
}

// Build creates the settings (satisfies testkit.Builder interface).
func (b *SettingsBuilder) Build() interface{} {
	return b.BuildSettings()
}

// BuildSettings creates the settings with a concrete return type.
func (b *SettingsBuilder) BuildSettings() *entities.Settings {
	settings := b.settings
	return &settings
}

// Reset clears the builder state, allowing it to be reused.
func (b *SettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.settings = defaultTestSettings()
	return b
}

// Clone creates a deep copy of the SettingsBuilder.
func (b *SettingsBuilder) Clone() testkit.Builder {
	return &SettingsBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		settings:    b.settings,
	}
}

func defaultTestSettings() entities.Settings {
	return entities.Settings{
		HomePath:       "/home/test/.shipflow",
		LogLevel:       "info",
		BuildServer:    "http://127.0.0.1:7001",
		ConnectTimeout: time.Second,
		BuildTimeout:   time.Minute,
		BuildCommand:   "npm run build",
		MainBranch:     "master",
		RemoteName:     "origin",
	}
}
