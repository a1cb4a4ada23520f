// Package pyver extracts semantic versions from the output of Python
// tooling. Commands like `poetry --version` wrap the number in banner
// text, so callers extract the first version rather than parse the
// whole string.
package pyver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// versionRegex matches version numbers like 1.8.3 or 3.11 inside tool output.
var versionRegex = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

// Extract finds and parses the first version number in a string.
func Extract(s string) (*semver.Version, error) {
	match := versionRegex.FindString(s)
	if match == "" {
		return nil, fmt.Errorf("no version found in: %q", s)
	}
	return semver.NewVersion(match)
}

// Parse parses a bare version string like "1.2.0" or "1.2".
func Parse(s string) (*semver.Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty version string")
	}
	return semver.NewVersion(s)
}

// ParseOptional parses a version string, treating the empty string as no
// constraint rather than an error.
func ParseOptional(s string) (*semver.Version, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return Parse(s)
}
