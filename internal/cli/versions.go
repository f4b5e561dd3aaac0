package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/changelogger/internal/errors"
	"github.com/ariel-frischer/changelogger/internal/version"
)

func newVersionsCmd(a *app) *cobra.Command {
	var (
		latest  bool
		showAll bool
		start   int
		offset  int
	)

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List the versions in the changelog",
		Long: `List the versions found in the changelog in document order, newest first.

By default prints the first 10; use --start and --offset to page through
them or --all for every version.`,
		Example: `  changelogger versions
  changelogger versions --latest
  changelogger versions --start 10 --offset 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if latest && showAll {
				return clierrors.InvalidFlagCombination("--latest and --all", "Pick one of --latest or --all")
			}
			if start < 0 || offset < 0 {
				return clierrors.NewArgumentError("--start and --offset must not be negative")
			}

			doc, err := a.loadChangelog()
			if err != nil {
				return err
			}

			var versions []version.Info
			switch {
			case latest:
				v, err := doc.LatestVersion()
				if err != nil {
					return err
				}
				versions = []version.Info{v}
			case showAll:
				versions, err = doc.AllVersions()
			default:
				versions, err = doc.Window(start, offset)
			}
			if err != nil {
				return err
			}

			for _, v := range versions {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
	cmd.GroupID = GroupInspection
	cmd.Flags().BoolVarP(&latest, "latest", "l", false, "Print only the latest version")
	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "Print every version")
	cmd.Flags().IntVarP(&start, "start", "s", 0, "Index of the first version to print")
	cmd.Flags().IntVarP(&offset, "offset", "o", 10, "Number of versions to print")
	return cmd
}
