package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

func newPrecommitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "precommit [files...]",
		Short: "Check the versioned files touched by a commit",
		Long: `Run 'check --fail' on the staged files that are configured as versioned
files, for use as a pre-commit hook. Does nothing when no versioned file is
staged.`,
		Example: `  # .pre-commit-config.yaml
  - repo: local
    hooks:
      - id: changelogger
        name: changelogger
        entry: changelogger precommit
        language: system`,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			staged := stagedVersionedFiles(a, args)
			if len(staged) == 0 {
				a.logf("precommit: no versioned files staged")
				return nil
			}
			return runCheckCmd(cmd, a, checkOptions{fail: true, files: staged})
		},
	}
	cmd.GroupID = GroupInternal
	return cmd
}

// stagedVersionedFiles returns the staged paths that are configured as
// versioned files, including the changelog.
func stagedVersionedFiles(a *app, files []string) []string {
	configured := map[string]bool{}
	for _, f := range a.settings.AllVersionedFiles(nil) {
		configured[filepath.ToSlash(filepath.Clean(f.RelPath))] = true
	}

	var staged []string
	for _, f := range files {
		path := filepath.ToSlash(filepath.Clean(f))
		if configured[path] {
			staged = append(staged, path)
		}
	}
	return staged
}
