package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelogger/internal/changelog"
	clierrors "github.com/ariel-frischer/changelogger/internal/errors"
	"github.com/ariel-frischer/changelogger/internal/output"
	"github.com/ariel-frischer/changelogger/internal/prompt"
	"github.com/ariel-frischer/changelogger/internal/version"
)

// releaseOptions are shared by upgrade and force.
type releaseOptions struct {
	confirm         bool
	promptChangelog bool
}

func (o *releaseOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.confirm, "confirm", true, "Confirm the release notes before applying them (--confirm=false to skip)")
	cmd.Flags().BoolVar(&o.promptChangelog, "prompt-changelog", true, "Prompt for additional release notes before applying them")
}

func newUpgradeCmd(a *app) *cobra.Command {
	var opts releaseOptions

	kinds := make([]string, 0, len(version.BumpKinds()))
	for _, k := range version.BumpKinds() {
		kinds = append(kinds, string(k))
	}

	cmd := &cobra.Command{
		Use:     "upgrade <" + strings.Join(kinds, "|") + ">",
		Aliases: []string{"up"},
		Short:   "Release a new version by bumping the latest one (up)",
		Long: `Release a new version by bumping the latest version in the changelog.

The unreleased notes move under a new version heading, the comparison links
are updated and every versioned file is rewritten. If any file fails to
update, the files already written are restored.`,
		Example: `  changelogger upgrade minor
  changelogger up patch --prompt-changelog=false --confirm=false`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := version.ParseBumpKind(args[0])
			if err != nil {
				return clierrors.InvalidBumpKind(args[0], kinds)
			}
			return runRelease(cmd, a, opts, func(latest version.Info) (version.Info, error) {
				return latest.Bump(kind), nil
			})
		},
	}
	cmd.GroupID = GroupReleases
	opts.addFlags(cmd)
	return cmd
}

func newForceCmd(a *app) *cobra.Command {
	var opts releaseOptions

	cmd := &cobra.Command{
		Use:   "force <version>",
		Short: "Release an explicit version",
		Long: `Release an explicit version instead of bumping the latest one.

The version must be greater than the latest version in the changelog.`,
		Example: `  changelogger force 2.0.0-rc.1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			forced, err := version.Parse(args[0])
			if err != nil {
				return clierrors.InvalidVersion(args[0])
			}
			return runRelease(cmd, a, opts, func(latest version.Info) (version.Info, error) {
				if !latest.LessThan(forced) {
					return version.Info{}, clierrors.VersionNotGreater(forced.String(), latest.String())
				}
				return forced, nil
			})
		},
	}
	cmd.GroupID = GroupReleases
	opts.addFlags(cmd)
	return cmd
}

func runRelease(cmd *cobra.Command, a *app, opts releaseOptions, next func(version.Info) (version.Info, error)) error {
	out := cmd.OutOrStdout()

	doc, err := a.loadChangelog()
	if err != nil {
		return err
	}

	oldVersion, err := doc.LatestVersion()
	if errors.Is(err, changelog.ErrNoVersions) {
		return clierrors.NoVersions(a.settings.Config.Changelog.RelPath)
	}
	if err != nil {
		return err
	}
	newVersion, err := next(oldVersion)
	if err != nil {
		return err
	}

	notes, err := doc.ReleaseNotes(changelog.Unreleased, oldVersion.String())
	if err != nil {
		return err
	}

	// Resolve the links context before prompting so a missing remote fails fast.
	gitContext, err := a.gitContext()
	if err != nil {
		return err
	}

	if opts.promptChangelog {
		notes, err = prompt.NewNotesCollector(out, notes).Run(a.stdin(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	update := changelog.ChangelogUpdate{
		OldVersion:   &oldVersion,
		NewVersion:   &newVersion,
		ReleaseNotes: notes,
	}

	output.PrintUpgradeHeader(out, oldVersion.String(), newVersion.String())
	preview := notes.Markdown()
	if preview == "" {
		preview = "*No notes found or added*"
	}
	fmt.Fprint(out, output.Panel(fmt.Sprintf("Changelog updates for [%s]", newVersion), preview, false))

	if opts.confirm {
		ok, err := prompt.Confirm(a.stdin(cmd), out, "Do these changes look correct?", false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted.")
			return NewExitError(ExitFailure)
		}
	}

	files := a.settings.AllVersionedFiles(gitContext)
	if err := a.orchestrator().Apply(update, files); err != nil {
		return err
	}

	output.PrintSuccess(out, fmt.Sprintf("Released %s (%d file update(s))", newVersion, len(files)))
	return nil
}
