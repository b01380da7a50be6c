package vcs

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// RefKind tells a tag from a commit hash.
type RefKind int

const (
	RefCommit RefKind = iota
	RefTag
)

// Ref is a version to check out.
type Ref struct {
	Kind  RefKind
	Value string
	// Semver is set for tags that parse as semantic versions.
	Semver *semver.Version
}

// ParseRef classifies version. A leading "v" marks a release tag; anything
// else is taken as a commit hash.
func ParseRef(version string) Ref {
	if !strings.HasPrefix(version, "v") {
		return Ref{Kind: RefCommit, Value: version}
	}
	ref := Ref{Kind: RefTag, Value: version}
	if v, err := parseSemver(version); err == nil {
		ref.Semver = v
	}
	return ref
}

// IsTag reports whether the ref names a release tag.
func (r Ref) IsTag() bool {
	return r.Kind == RefTag
}

// Describe returns "version v1.2.0" or "commit hash abc123".
func (r Ref) Describe() string {
	if r.IsTag() {
		return "version " + r.Value
	}
	return "commit hash " + r.Value
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.StrictNewVersion(version)
}
