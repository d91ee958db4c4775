package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// versionPattern matches a semantic version triple with an optional
// leading "v", anywhere inside a larger string (tag URLs, CLI output).
var versionPattern = regexp.MustCompile(`v?(\d+)\.(\d+)\.(\d+)`)

// Version is a released plugin version. Versions are compared by exact
// equality only: the tool installs whatever the release host calls
// latest and never reasons about ordering.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a bare version string like "1.18.2" or "v1.18.2".
// The whole input must be a version; use FindVersion to scan free text.
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "v")
	parts := strings.Split(trimmed, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version %q: want major.minor.patch", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// FindVersion scans free text for the first version triple.
// Returns false if the text contains none.
func FindVersion(text string) (Version, bool) {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return Version{}, false
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])
	return Version{Major: major, Minor: minor, Patch: patch}, true
}

// String returns the bare triple, e.g. "1.18.2".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Tag returns the release-host tag form, e.g. "v1.18.2".
func (v Version) Tag() string {
	return "v" + v.String()
}

// Equal reports exact triple equality.
func (v Version) Equal(o Version) bool {
	return v == o
}
