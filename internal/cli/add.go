package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelogger/internal/changelog"
	"github.com/ariel-frischer/changelogger/internal/output"
	"github.com/ariel-frischer/changelogger/internal/prompt"
)

func newAddCmd(a *app) *cobra.Command {
	flagNotes := make(map[changelog.Category]*[]string, len(changelog.Categories()))

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add release notes under the Unreleased heading",
		Long: `Add release notes under the Unreleased heading of the changelog.

Without flags, prompts for notes in each Keep a Changelog category; an empty
line moves on to the next category. With flags, appends the given notes
without prompting. Only the release notes section of the changelog is
rewritten; no version changes.`,
		Example: `  # Prompt for notes
  changelogger add

  # Add notes directly
  changelogger add --added "Dark mode" --fixed "Crash on startup" --fixed "Typo in help"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fromFlags changelog.ReleaseNotes
			for c, entries := range flagNotes {
				fromFlags.Append(c, *entries...)
			}
			return runAdd(cmd, a, fromFlags)
		},
	}
	cmd.GroupID = GroupReleases

	for _, c := range changelog.Categories() {
		entries := []string{}
		flagNotes[c] = &entries
		cmd.Flags().StringArrayVar(&entries, c.String(), nil, fmt.Sprintf("%s note (repeatable). %s", c.Title(), c.Help()))
	}

	return cmd
}

func runAdd(cmd *cobra.Command, a *app, fromFlags changelog.ReleaseNotes) error {
	doc, err := a.loadChangelog()
	if err != nil {
		return err
	}

	oldVersion, hasVersion, err := doc.TopVersion()
	if err != nil {
		return err
	}
	notes, err := doc.UnreleasedNotes()
	if err != nil {
		return err
	}

	if fromFlags.HasNotes() {
		notes.Merge(fromFlags)
	} else {
		notes, err = prompt.NewNotesCollector(cmd.OutOrStdout(), notes).Run(a.stdin(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	update := changelog.ChangelogUpdate{ReleaseNotes: notes}
	if hasVersion {
		update.OldVersion = &oldVersion
	}

	// Only the overview segment; the links do not change until a release.
	overview := a.settings.ChangelogFiles(nil)[:1]
	if err := a.orchestrator().Apply(update, overview); err != nil {
		return err
	}

	output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Updated the unreleased notes in %s", a.settings.Config.Changelog.RelPath))
	return nil
}
