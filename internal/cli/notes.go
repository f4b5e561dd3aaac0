package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelogger/internal/changelog"
	"github.com/ariel-frischer/changelogger/internal/version"
)

func newNotesCmd(a *app) *cobra.Command {
	var (
		plain    bool
		markdown bool
	)

	cmd := &cobra.Command{
		Use:   "notes [version|latest|unreleased]",
		Short: "Print the release notes of a version",
		Long: `Print the release notes recorded for a version.

Shortcuts:
  unreleased  notes under the Unreleased heading (default)
  latest      notes of the latest version`,
		Example: `  changelogger notes
  changelogger notes latest
  changelogger notes 1.2.0 --markdown   # raw markdown, e.g. for a GitHub release`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "unreleased"
			if len(args) == 1 {
				target = args[0]
			}
			return runNotes(cmd, a, target, changelog.FormatOptions{Plain: plain}, markdown)
		},
	}
	cmd.GroupID = GroupInspection
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain text output (no colors/icons)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print the notes as Keep a Changelog markdown")
	return cmd
}

func runNotes(cmd *cobra.Command, a *app, target string, opts changelog.FormatOptions, markdown bool) error {
	doc, err := a.loadChangelog()
	if err != nil {
		return err
	}

	var (
		label string
		date  string
		notes changelog.ReleaseNotes
		empty string
	)

	switch strings.ToLower(target) {
	case "unreleased":
		label = changelog.Unreleased
		empty = "There are no unreleased changes."
		notes, err = doc.UnreleasedNotes()
	default:
		var v version.Info
		if strings.EqualFold(target, "latest") {
			v, err = doc.LatestVersion()
		} else {
			v, err = version.Parse(strings.TrimPrefix(target, "v"))
		}
		if err != nil {
			return err
		}
		label = v.String()
		empty = fmt.Sprintf("There are no notes for version %s.", v)
		notes, err = doc.NotesForVersion(v)
		if heading, ok, herr := doc.Heading(label); herr == nil && ok {
			date = heading.Date
		}
	}
	if err != nil {
		var notFound *changelog.VersionNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Version %q not found.\n\n", target)
			fmt.Fprintf(cmd.ErrOrStderr(), "Available versions:\n")
			for _, v := range notFound.AvailableVersions {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", v)
			}
			return NewExitError(ExitInvalidArguments)
		}
		return err
	}

	if !notes.HasNotes() {
		fmt.Fprintln(cmd.OutOrStdout(), empty)
		return nil
	}

	if markdown {
		fmt.Fprint(cmd.OutOrStdout(), notes.Markdown())
		return nil
	}
	return changelog.FormatNotes(label, date, notes, cmd.OutOrStdout(), opts)
}
