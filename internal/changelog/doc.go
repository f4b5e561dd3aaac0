// Package changelog reads and models a Keep a Changelog formatted CHANGELOG.md.
//
// This package implements:
//   - Partition lookup between the BEGIN/END marker comments
//   - Version, link, and release-notes extraction via regular expressions
//   - The ReleaseNotes model and its markdown rendering
//   - Whole-document validation used by `changelogger check`
//   - Terminal formatting for `changelogger notes`
//   - Embedded default templates for new changelogs and the built-in
//     overview/links segments
//
// The document is never rewritten here; writes go through the templating and
// update packages so that every edit is covered by rollback.
package changelog
