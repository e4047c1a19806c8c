// Package versions parses the loose version strings found in download file names
// and compares versions of tracked components. It also reports the build version
// of superscript itself.
package versions

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidVersion is returned when a string does not contain a version
var ErrInvalidVersion = errors.New("invalid version string")

// versionPattern matches an optional v prefix followed by up to three numbers joined
// by one of . , - _
var versionPattern = regexp.MustCompile(
	`^([vV]?)(?P<major>[0-9]+)([.,_-]?)(?P<minor>[0-9]*)[.,_-]?(?P<fix>[0-9]*)`)

// Version is a three part version parsed from a free form string
type Version struct {
	Major int
	Minor int
	Fix   int

	// Prefix is the leading "v" or "V" of the parsed string, if any
	Prefix string

	// Separator joins the parts in the parsed string
	Separator string

	// Parts is the number of numeric parts present in the parsed string
	Parts int
}

// Parse converts a version string such as "V0_0_53", "v1" or "1-2" into a Version.
// Missing parts are zero; minor and fix are only read when the preceding part exists.
func Parse(versionString string) (Version, error) {
	trimmed := strings.TrimSpace(versionString)
	match := versionPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, versionString)
	}

	v := Version{Prefix: match[1], Separator: match[3], Parts: 1}

	// The major group always matches at least one digit.
	major, err := strconv.Atoi(match[2])
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, versionString)
	}
	v.Major = major

	if match[4] != "" {
		if v.Minor, err = strconv.Atoi(match[4]); err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, versionString)
		}
		v.Parts = 2
		if match[5] != "" {
			if v.Fix, err = strconv.Atoi(match[5]); err != nil {
				return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, versionString)
			}
			v.Parts = 3
		}
	}

	if v.Separator == "" {
		v.Separator = "."
	}

	return v, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(versionString string) Version {
	v, err := Parse(versionString)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the canonical "v<major>.<minor>.<fix>" form
func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Fix)
}

// Semver returns the version without prefix, suitable for semantic comparison
func (v Version) Semver() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Fix)
}

// Render formats the version in the style it was parsed from, so "V0_0_53"
// bumped by one fix renders as "V0_0_54".
func (v Version) Render() string {
	sep := v.Separator
	if sep == "" {
		sep = "."
	}
	parts := []string{strconv.Itoa(v.Major)}
	if v.Parts >= 2 || v.Minor != 0 || v.Fix != 0 {
		parts = append(parts, strconv.Itoa(v.Minor))
	}
	if v.Parts >= 3 || v.Fix != 0 {
		parts = append(parts, strconv.Itoa(v.Fix))
	}
	return v.Prefix + strings.Join(parts, sep)
}

// NextMajor returns the following major number
func (v Version) NextMajor() int {
	return v.Major + 1
}

// NextMinor returns the following minor number
func (v Version) NextMinor() int {
	return v.Minor + 1
}

// NextFix returns the following fix number
func (v Version) NextFix() int {
	return v.Fix + 1
}

// BumpFix returns the version with the fix number incremented
func (v Version) BumpFix() Version {
	v.Fix = v.NextFix()
	return v
}

// BumpMinor returns the version with the minor number incremented and fix reset
func (v Version) BumpMinor() Version {
	v.Minor = v.NextMinor()
	v.Fix = 0
	return v
}

// BumpMajor returns the version with the major number incremented and the rest reset
func (v Version) BumpMajor() Version {
	v.Major = v.NextMajor()
	v.Minor = 0
	v.Fix = 0
	return v
}

// Candidates returns the versions tried when looking for an update, in order:
// next fix, next minor, next major.
func (v Version) Candidates() []Version {
	return []Version{v.BumpFix(), v.BumpMinor(), v.BumpMajor()}
}

// compoundExtensions are multi part extensions kept whole by SplitFileName
var compoundExtensions = []string{"tar.gz", "tar.xz", "tar.bz2", "tar.zst", "tar.lz"}

// SplitFileName splits a download file name of the form "<name>_<version>.<ext>".
// A name without an underscore yields an empty version; a name without an
// extension yields an empty ext. Compound extensions such as "tar.gz" stay in ext.
func SplitFileName(fileName string) (name, version, ext string) {
	stem := fileName
	lower := strings.ToLower(fileName)
	for _, compound := range compoundExtensions {
		if strings.HasSuffix(lower, "."+compound) && len(fileName) > len(compound)+1 {
			cut := len(fileName) - len(compound)
			stem, ext = fileName[:cut-1], fileName[cut:]
			break
		}
	}
	if ext == "" {
		if idx := strings.LastIndex(fileName, "."); idx > 0 {
			stem, ext = fileName[:idx], fileName[idx+1:]
		}
	}

	name, version, found := strings.Cut(stem, "_")
	if !found {
		return stem, "", ext
	}
	return name, version, ext
}

// JoinFileName is the inverse of SplitFileName
func JoinFileName(name, version, ext string) string {
	fileName := name
	if version != "" {
		fileName += "_" + version
	}
	if ext != "" {
		fileName += "." + ext
	}
	return fileName
}
