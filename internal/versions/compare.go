package versions

import "github.com/Masterminds/semver/v3"

// IsNewerVersion reports whether newVersion is strictly greater than oldVersion.
// Semantic versioning is used when both strings are valid semver. Loose versions
// such as "V0_0_53" are parsed with Parse and compared numerically. Anything else
// falls back to lexicographic string comparison.
func IsNewerVersion(newVersion, oldVersion string) bool {
	newSemver, errNew := semver.NewVersion(newVersion)
	oldSemver, errOld := semver.NewVersion(oldVersion)
	if errNew == nil && errOld == nil {
		return newSemver.GreaterThan(oldSemver)
	}

	newLoose, errNew := Parse(newVersion)
	oldLoose, errOld := Parse(oldVersion)
	if errNew == nil && errOld == nil {
		return Compare(newLoose, oldLoose) > 0
	}

	return newVersion > oldVersion
}

// Compare returns -1, 0 or 1 depending on whether a is lower, equal or greater than b
func Compare(a, b Version) int {
	switch {
	case a.Major != b.Major:
		return sign(a.Major - b.Major)
	case a.Minor != b.Minor:
		return sign(a.Minor - b.Minor)
	default:
		return sign(a.Fix - b.Fix)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
