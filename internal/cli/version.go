package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelogger/internal/build"
	"github.com/ariel-frischer/changelogger/internal/output"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/ariel-frischer/changelogger"

func newVersionCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for changelogger",
		Example: `  # Show version info
  changelogger version

  # Plain output (for scripts)
  changelogger version --plain`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipSettings: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			if plain {
				printPlainVersion(cmd.OutOrStdout())
				return
			}
			printPrettyVersion(cmd.OutOrStdout())
		},
	}
	cmd.GroupID = GroupGettingStarted
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")
	return cmd
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	v, commit, date := build.Info()
	fmt.Fprintf(w, "changelogger %s\n", v)
	fmt.Fprintf(w, "commit: %s\n", commit)
	fmt.Fprintf(w, "built: %s\n", date)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printPrettyVersion prints the same information in a panel
func printPrettyVersion(w io.Writer) {
	v, commit, date := build.Info()
	info := []struct {
		label string
		value string
	}{
		{"Version", v},
		{"Commit", truncateCommit(commit)},
		{"Built", date},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
		{"Source", SourceURL},
	}

	var body strings.Builder
	for _, item := range info {
		fmt.Fprintf(&body, "%-9s %s\n", item.label+":", item.value)
	}
	fmt.Fprint(w, output.Panel("changelogger", body.String(), false))
}

// truncateCommit shortens a commit hash to 8 characters
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
