// Package version implements the semantic version model used by changelog
// headings: strict parsing, precedence ordering, and major/minor/patch bumps.
// It has no dependencies on other internal packages and can be imported from
// anywhere without creating cycles.
package version

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrNoVersions is returned when a version is required but the set is empty.
var ErrNoVersions = errors.New("this changelog has no versions currently")

// ParseError reports a string that is not a valid semantic version.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid semantic version %q (expected: X.Y.Z[-prerelease][+build])", e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Info is an immutable semantic version. The zero value is not a valid
// version: it renders as "", reports 0 for every component, and sorts before
// all parsed versions.
type Info struct {
	v *semver.Version
}

// Parse parses a strict semantic version such as "1.2.3" or "2.0.0-rc.1+b5".
// A leading "v" and partial versions like "1.2" are rejected so that the
// rendered form always equals the input.
func Parse(s string) (Info, error) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return Info{}, &ParseError{Input: s, Err: err}
	}
	return Info{v: v}, nil
}

// MustParse is like Parse but panics on invalid input.
func MustParse(s string) Info {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsValid reports whether s parses as a strict semantic version.
func IsValid(s string) bool {
	_, err := semver.StrictNewVersion(s)
	return err == nil
}

// New builds a version from its numeric components.
func New(major, minor, patch uint64) Info {
	return Info{v: semver.New(major, minor, patch, "", "")}
}

// IsZero reports whether the receiver is the zero value.
func (i Info) IsZero() bool {
	return i.v == nil
}

func (i Info) Major() uint64 {
	if i.v == nil {
		return 0
	}
	return i.v.Major()
}

func (i Info) Minor() uint64 {
	if i.v == nil {
		return 0
	}
	return i.v.Minor()
}

func (i Info) Patch() uint64 {
	if i.v == nil {
		return 0
	}
	return i.v.Patch()
}

// Prerelease returns the prerelease identifier without the leading dash.
func (i Info) Prerelease() string {
	if i.v == nil {
		return ""
	}
	return i.v.Prerelease()
}

// Metadata returns the build metadata without the leading plus.
func (i Info) Metadata() string {
	if i.v == nil {
		return ""
	}
	return i.v.Metadata()
}

// String renders the version in canonical form.
func (i Info) String() string {
	if i.v == nil {
		return ""
	}
	return i.v.String()
}

// BumpMajor increments major and zeroes minor and patch.
func (i Info) BumpMajor() Info {
	return New(i.Major()+1, 0, 0)
}

// BumpMinor increments minor and zeroes patch.
func (i Info) BumpMinor() Info {
	return New(i.Major(), i.Minor()+1, 0)
}

// BumpPatch increments patch only.
func (i Info) BumpPatch() Info {
	return New(i.Major(), i.Minor(), i.Patch()+1)
}

// Bump applies the given bump kind.
func (i Info) Bump(kind BumpKind) Info {
	switch kind {
	case Major:
		return i.BumpMajor()
	case Minor:
		return i.BumpMinor()
	default:
		return i.BumpPatch()
	}
}

// Compare returns -1, 0 or 1 following semver precedence. Build metadata is
// ignored.
func (i Info) Compare(o Info) int {
	switch {
	case i.v == nil && o.v == nil:
		return 0
	case i.v == nil:
		return -1
	case o.v == nil:
		return 1
	}
	return i.v.Compare(o.v)
}

// LessThan reports whether i precedes o.
func (i Info) LessThan(o Info) bool {
	return i.Compare(o) < 0
}

// Equal reports whether i and o have the same precedence.
func (i Info) Equal(o Info) bool {
	return i.Compare(o) == 0
}

// MarshalText implements encoding.TextMarshaler.
func (i Info) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Info) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Sort returns a copy of versions in ascending order.
func Sort(versions []Info) []Info {
	sorted := make([]Info, len(versions))
	copy(sorted, versions)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].LessThan(sorted[b])
	})
	return sorted
}

// Max returns the highest version in the set.
func Max(versions []Info) (Info, error) {
	if len(versions) == 0 {
		return Info{}, ErrNoVersions
	}
	highest := versions[0]
	for _, v := range versions[1:] {
		if highest.LessThan(v) {
			highest = v
		}
	}
	return highest, nil
}

// Strings renders each version.
func Strings(versions []Info) []string {
	out := make([]string, len(versions))
	for i, v := range versions {
		out[i] = v.String()
	}
	return out
}

// BumpKind selects which component a bump increments.
type BumpKind string

const (
	Major BumpKind = "major"
	Minor BumpKind = "minor"
	Patch BumpKind = "patch"
)

// BumpKinds lists the accepted bump kinds in order of magnitude.
func BumpKinds() []BumpKind {
	return []BumpKind{Major, Minor, Patch}
}

// ParseBumpKind converts a user-supplied string into a BumpKind.
func ParseBumpKind(s string) (BumpKind, error) {
	switch BumpKind(strings.ToLower(strings.TrimSpace(s))) {
	case Major:
		return Major, nil
	case Minor:
		return Minor, nil
	case Patch:
		return Patch, nil
	}
	return "", fmt.Errorf("invalid bump %q (expected: major, minor, or patch)", s)
}
