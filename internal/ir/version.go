package ir

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ModuleVersion is the idsgo release version.
const ModuleVersion = "0.1.0"

// Conventions is the value of the global "Conventions" attribute of every
// tensor set written by idsgo.
const Conventions = "IMAS"

// DDVersion is a Data Dictionary version such as "3.38.1".
type DDVersion string

// canonical returns the semver form ("v3.38.1") or "" when invalid.
func (v DDVersion) canonical() string {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	if !semver.IsValid(s) {
		return ""
	}
	return semver.Canonical(s)
}

// Valid reports whether v parses as a version.
func (v DDVersion) Valid() bool {
	return v.canonical() != ""
}

// Compare returns -1, 0 or +1. Invalid versions sort before valid ones.
func (v DDVersion) Compare(other DDVersion) int {
	return semver.Compare(v.canonical(), other.canonical())
}

// AtMost reports whether v <= other.
func (v DDVersion) AtMost(other DDVersion) bool {
	return v.Compare(other) <= 0
}

// ParseDDVersion validates s as a Data Dictionary version.
func ParseDDVersion(s string) (DDVersion, error) {
	v := DDVersion(strings.TrimSpace(s))
	if !v.Valid() {
		return "", fmt.Errorf("invalid data dictionary version %q", s)
	}
	return v, nil
}

func (v DDVersion) String() string {
	return string(v)
}
