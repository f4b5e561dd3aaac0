package changelog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ariel-frischer/changelogger/internal/version"
)

// Validate checks that the whole document is parsable and updatable:
//   - the release-notes and links partitions exist
//   - there is at least one version and versions are listed newest first
//   - notes parse for Unreleased and for every adjacent pair of versions
//   - every version has a comparison link against its predecessor
//   - the Unreleased link compares the top version against HEAD
//
// Every problem found is collected into a single ValidationErrors.
func (d *Document) Validate() error {
	result := &ValidationErrors{Path: d.path}

	if _, err := d.ReleaseNotesPartition(); err != nil {
		result.Errors = append(result.Errors, err)
	}
	if _, err := d.LinksPartition(); err != nil {
		result.Errors = append(result.Errors, err)
	}
	if len(result.Errors) > 0 {
		return result
	}

	all, err := d.AllVersions()
	if err != nil {
		result.Errors = append(result.Errors, err)
		return result
	}
	if len(all) == 0 {
		result.add("expected there to be at least 1 version; none found")
		return result
	}

	d.validateOrder(all, result)
	d.validateNotes(all, result)
	d.validateLinks(all, result)

	return result.errOrNil()
}

func (d *Document) validateOrder(all []version.Info, result *ValidationErrors) {
	for i := 1; i < len(all); i++ {
		if !all[i].LessThan(all[i-1]) {
			result.add("versions are out of order: [%s] is listed below [%s]", all[i-1], all[i])
		}
	}
}

func (d *Document) validateNotes(all []version.Info, result *ValidationErrors) {
	labels := []string{Unreleased}
	labels = append(labels, version.Strings(all)...)

	for i, label := range labels {
		until := ""
		if i+1 < len(labels) {
			until = labels[i+1]
		}
		if _, err := d.ReleaseNotes(label, until); err != nil {
			result.add("failed to validate notes for version %s: %s", label, describe(err))
		}
	}
}

func (d *Document) validateLinks(all []version.Info, result *ValidationErrors) {
	links, err := d.AllLinks()
	if err != nil {
		result.Errors = append(result.Errors, err)
		return
	}

	sorted := version.Sort(all)
	for i := 1; i < len(sorted); i++ {
		prev, current := sorted[i-1].String(), sorted[i].String()
		link, ok := links[current]
		if !ok {
			result.add("could not find the link for version %s", current)
			continue
		}
		if !strings.Contains(link, prev+"..."+current) {
			result.add("link is incorrect for version %s: expected a comparison of %s...%s", current, prev, current)
		}
	}

	if _, ok := links[sorted[0].String()]; !ok {
		result.add("could not find the link for version %s", sorted[0])
	}

	unreleased, ok := links[Unreleased]
	if !ok {
		result.add("could not find the link for unreleased changes")
		return
	}
	if top := all[0].String(); !strings.Contains(unreleased, top+"...HEAD") {
		result.add("link is incorrect for the unreleased changes: expected a comparison of %s...HEAD", top)
	}
}

// describe renders extraction failures with the headings involved.
func describe(err error) string {
	var extraction *ExtractionError
	if errors.As(err, &extraction) {
		return fmt.Sprintf("%s (%s)", extraction.Error(), extraction.Detail())
	}
	return err.Error()
}
