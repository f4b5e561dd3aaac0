package changelog

import (
	"github.com/ariel-frischer/changelogger/internal/version"
)

// UnreleasedNotes returns the notes between the Unreleased heading and the
// topmost version heading (or the end of the partition when there are no
// versions yet).
func (d *Document) UnreleasedNotes() (ReleaseNotes, error) {
	versions, err := d.AllVersions()
	if err != nil {
		return ReleaseNotes{}, err
	}

	until := ""
	if len(versions) > 0 {
		until = versions[0].String()
	}
	return d.ReleaseNotes(Unreleased, until)
}

// NotesForVersion returns the notes recorded for v, reading up to the next
// version heading in document order.
// Returns VersionNotFoundError if v has no heading.
func (d *Document) NotesForVersion(v version.Info) (ReleaseNotes, error) {
	versions, err := d.AllVersions()
	if err != nil {
		return ReleaseNotes{}, err
	}

	for i, candidate := range versions {
		if candidate.String() != v.String() {
			continue
		}
		until := ""
		if i+1 < len(versions) {
			until = versions[i+1].String()
		}
		return d.ReleaseNotes(v.String(), until)
	}

	return ReleaseNotes{}, &VersionNotFoundError{
		Version:           v.String(),
		AvailableVersions: version.Strings(versions),
	}
}

// TopVersion returns the first version heading in document order. ok is
// false when the document has none.
func (d *Document) TopVersion() (version.Info, bool, error) {
	versions, err := d.AllVersions()
	if err != nil {
		return version.Info{}, false, err
	}
	if len(versions) == 0 {
		return version.Info{}, false, nil
	}
	return versions[0], true, nil
}

// IsOrdered reports whether document order is newest first, i.e. strictly
// descending precedence.
func (d *Document) IsOrdered() (bool, error) {
	versions, err := d.AllVersions()
	if err != nil {
		return false, err
	}
	for i := 1; i < len(versions); i++ {
		if !versions[i].LessThan(versions[i-1]) {
			return false, nil
		}
	}
	return true, nil
}

// HasUnreleased reports whether the document has an Unreleased heading.
func (d *Document) HasUnreleased() (bool, error) {
	_, ok, err := d.Heading(Unreleased)
	return ok, err
}

// Window returns versions[start:start+count] in document order, clamped to
// the available range.
func (d *Document) Window(start, count int) ([]version.Info, error) {
	versions, err := d.AllVersions()
	if err != nil {
		return nil, err
	}
	if start < 0 {
		start = 0
	}
	if start >= len(versions) || count <= 0 {
		return []version.Info{}, nil
	}
	if count > len(versions)-start {
		count = len(versions) - start
	}
	return versions[start : start+count], nil
}
