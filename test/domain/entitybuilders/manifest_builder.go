//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"maps"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/shipflow/internal/domain/entities"
)

// ManifestBuilder helps create test manifests with a fluent interface.
type ManifestBuilder struct {
	*testkit.BaseBuilder
	name    string
	version string
	scripts map[string]string
}

// NewManifestBuilder creates a new manifest builder with sensible defaults.
func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "app",
		version:     "1.0.0",
		scripts:     map[string]string{"build": "vite build"},
	}
}

// WithName sets the package name.
func (b *ManifestBuilder) WithName(name string) *ManifestBuilder {
	b.name = name
	return b
}

// WithVersion sets the package version.
func (b *ManifestBuilder) WithVersion(version string) *ManifestBuilder {
	b.version = version
	return b
}

// WithScript declares a script.
func (b *ManifestBuilder) WithScript(name, command string) *ManifestBuilder {
	b.scripts[name] = command
	return b
}

// WithoutScripts removes every declared script.
func (b *ManifestBuilder) WithoutScripts() *ManifestBuilder {
	b.scripts = map[string]string{}
	return b
}

// Build creates the manifest (satisfies testkit.Builder interface).
func (b *ManifestBuilder) Build() interface{} {
	return b.BuildManifest()
}

// BuildManifest creates the manifest with a concrete return type.
func (b *ManifestBuilder) BuildManifest() entities.Manifest {
	return entities.Manifest{
		Name:    b.name,
		Version: b.version,
		Scripts: maps.Clone(b.scripts),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ManifestBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "app"
	b.version = "1.0.0"
	b.scripts = map[string]string{"build": "vite build"}
	return b
}

// Clone creates a deep copy of the ManifestBuilder.
func (b *ManifestBuilder) Clone() testkit.Builder {
	return &ManifestBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		version:     b.version,
		scripts:     maps.Clone(b.scripts),
	}
}
