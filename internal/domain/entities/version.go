package entities

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	modsemver "golang.org/x/mod/semver"
)

const (
	// DevelopBranchPrefix prefixes every development branch name.
	DevelopBranchPrefix = "dev/"
	// ReleaseTagPrefix prefixes every release tag name.
	ReleaseTagPrefix = "release/"
)

// releaseRefPattern matches refs/tags/release/<version>.
var releaseRefPattern = regexp.MustCompile(`^refs/tags/release/(\d+\.\d+\.\d+)$`)

// BumpKind selects which semantic version component is incremented.
type BumpKind string

const (
	BumpPatch BumpKind = "patch"
	BumpMinor BumpKind = "minor"
	BumpMajor BumpKind = "major"
)

// BranchPlan is the development branch and version a commit targets.
type BranchPlan struct {
	DevelopBranch string
	TargetVersion string
}

// NewBranchPlan derives the plan for the given version.
func NewBranchPlan(version string) BranchPlan {
	return BranchPlan{
		DevelopBranch: DevelopBranchName(version),
		TargetVersion: version,
	}
}

// DevelopBranchName returns "dev/<version>".
func DevelopBranchName(version string) string {
	return DevelopBranchPrefix + version
}

// ReleaseTagName returns "release/<version>".
func ReleaseTagName(version string) string {
	return ReleaseTagPrefix + version
}

// ParseReleaseVersions extracts the semantic versions of every
// refs/tags/release/<semver> ref, discarding anything else, sorted newest first.
func ParseReleaseVersions(refs []string) []string {
	var versions []string
	for _, ref := range refs {
		match := releaseRefPattern.FindStringSubmatch(strings.TrimSpace(ref))
		if match == nil {
			continue
		}
		if _, err := semver.StrictNewVersion(match[1]); err != nil {
			continue
		}
		versions = append(versions, match[1])
	}
	SortVersionsDescending(versions)
	return versions
}

// HighestReleaseVersion returns the newest release version among refs, or
// an empty string when there is none.
func HighestReleaseVersion(refs []string) string {
	versions := ParseReleaseVersions(refs)
	if len(versions) == 0 {
		return ""
	}
	return versions[0]
}

// SortVersionsDescending sorts version strings newest first.
func SortVersionsDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		v1 := normalizeVersion(versions[i])
		v2 := normalizeVersion(versions[j])
		if modsemver.IsValid(v1) && modsemver.IsValid(v2) {
			return modsemver.Compare(v1, v2) > 0
		}
		return versions[i] > versions[j]
	})
}

// CompareVersions returns -1, 0 or +1 as a is older, equal or newer than b.
func CompareVersions(a, b string) (int, error) {
	va, err := semver.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid version %q: %w", ErrConfiguration, a, err)
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid version %q: %w", ErrConfiguration, b, err)
	}
	return va.Compare(vb), nil
}

// BumpVersion increments the chosen component of version.
func BumpVersion(version string, kind BumpKind) (string, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return "", fmt.Errorf("%w: invalid version %q: %w", ErrConfiguration, version, err)
	}

	var next semver.Version
	switch kind {
	case BumpPatch:
		next = v.IncPatch()
	case BumpMinor:
		next = v.IncMinor()
	case BumpMajor:
		next = v.IncMajor()
	default:
		return "", fmt.Errorf("unknown bump kind %q", kind)
	}
	return next.String(), nil
}

// BumpChoices lists the bump options offered for a release version.
func BumpChoices(releaseVersion string) []Choice {
	choices := make([]Choice, 0, 3) //nolint:mnd // patch, minor, major
	for _, kind := range []BumpKind{BumpPatch, BumpMinor, BumpMajor} {
		next, err := BumpVersion(releaseVersion, kind)
		if err != nil {
			continue
		}
		choices = append(choices, Choice{
			Name:  fmt.Sprintf("%s (%s -> %s)", kind, releaseVersion, next),
			Value: string(kind),
		})
	}
	return choices
}

// normalizeVersion ensures version has 'v' prefix for semver compatibility
func normalizeVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// ValidateVersion checks that version is a semantic version.
func ValidateVersion(version string) error {
	if _, err := semver.NewVersion(version); err != nil {
		return fmt.Errorf("%w: invalid version %q: %w", ErrConfiguration, version, err)
	}
	return nil
}

// HasRef reports whether refs contains the exact ref name.
func HasRef(refs []string, ref string) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}
