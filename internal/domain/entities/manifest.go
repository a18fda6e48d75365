package entities

import (
	"fmt"
	"strings"
)

// allowedPackageManagers are the only executables a build command may start with.
var allowedPackageManagers = map[string]bool{
	"npm":  true,
	"cnpm": true,
	"yarn": true,
	"pnpm": true,
}

// Manifest is the subset of package.json the release flow relies on.
type Manifest struct {
	Name    string
	Version string
	Scripts map[string]string
}

// Validate checks that the manifest declares everything publishing needs.
func (m Manifest) Validate() error {
	if m.Name == "" || m.Version == "" || len(m.Scripts) == 0 {
		return fmt.Errorf(
			"%w: package.json must declare name, version and scripts",
			ErrConfiguration,
		)
	}
	return nil
}

// ValidateBuildCommand accepts only "<package-manager> run <script>" where
// the script is declared in the manifest. Anything else is rejected before a
// build is ever requested.
func (m Manifest) ValidateBuildCommand(buildCmd string) error {
	fields := strings.Fields(buildCmd)
	if len(fields) != 3 || fields[1] != "run" || !allowedPackageManagers[fields[0]] { //nolint:mnd // tool run script
		return fmt.Errorf(
			"%w: build command %q is not allowed; use \"npm run <script>\" (or cnpm, yarn, pnpm)",
			ErrConfiguration, buildCmd,
		)
	}
	script := fields[2]
	if _, ok := m.Scripts[script]; !ok {
		return fmt.Errorf(
			"%w: script %q is not declared in package.json",
			ErrConfiguration, script,
		)
	}
	return nil
}
