// Package cli implements the changelogger command tree.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelogger/internal/changelog"
	"github.com/ariel-frischer/changelogger/internal/config"
	clierrors "github.com/ariel-frischer/changelogger/internal/errors"
	"github.com/ariel-frischer/changelogger/internal/git"
	"github.com/ariel-frischer/changelogger/internal/prompt"
	"github.com/ariel-frischer/changelogger/internal/templating"
	"github.com/ariel-frischer/changelogger/internal/update"
)

// Command group IDs for organizing help output.
const (
	GroupGettingStarted = "getting-started"
	GroupReleases       = "releases"
	GroupInspection     = "inspection"
	GroupInternal       = "internal"
)

// Command annotations controlling how settings are loaded before RunE.
const (
	annotationSkipSettings      = "changelogger/skip-settings"
	annotationChangelogOptional = "changelogger/changelog-optional"
)

// app holds the per-invocation state shared by every command.
type app struct {
	// root overrides the repository root; empty means the git root of the
	// working directory.
	root          string
	configPath    string
	changelogPath string
	debug         bool
	noColor       bool

	settings *config.Settings
	patterns *changelog.PatternCache
	now      func() time.Time
	// repoContext returns the .context.git map for the default templates.
	repoContext func(root string) (map[string]any, error)
	debugf      func(format string, args ...any)
	// editor runs $VISUAL/$EDITOR; nil uses the terminal.
	editor prompt.Editor

	in *bufio.Reader
}

func newApp() *app {
	return &app{
		patterns:    changelog.DefaultPatterns(),
		now:         time.Now,
		repoContext: git.RepoContext,
	}
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "changelogger",
		Short: "Keep a Changelog release automation",
		Long: `changelogger keeps CHANGELOG.md and every other version-tagged file in a
repository in step.

It reads the Keep a Changelog formatted changelog, adds release notes under
the Unreleased heading, bumps the version and rewrites each configured file
from its template. If any file cannot be updated, every file already written
is restored.`,
		Example: `  # Add release notes interactively
  changelogger add

  # Add a note without prompting
  changelogger add --fixed "Crash on empty input"

  # Release a new minor version
  changelogger upgrade minor

  # Check that every versioned file can be updated
  changelogger check --fail`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupGettingStarted, Title: "Getting Started:"},
		&cobra.Group{ID: GroupReleases, Title: "Releases:"},
		&cobra.Group{ID: GroupInspection, Title: "Inspection:"},
		&cobra.Group{ID: GroupInternal, Title: "Internal:"},
	)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: .changelogger.yml, .changelogger/.changelogger.yml or .github/.changelogger.yml)")
	flags.StringVar(&a.changelogPath, "changelog", "", "Changelog path relative to the repository root (overrides changelog.rel_path)")
	flags.BoolVar(&a.debug, "debug", false, "Print debug logs to stderr")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newInitCmd(a),
		newVersionCmd(),
		newAddCmd(a),
		newUpgradeCmd(a),
		newForceCmd(a),
		newNotesCmd(a),
		newVersionsCmd(a),
		newCheckCmd(a),
		newPrecommitCmd(a),
	)

	return rootCmd
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	return handleError(rootCmd.ErrOrStderr(), err)
}

// handleError prints err and maps it to an exit code.
func handleError(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	cliErr := toCLIError(err)
	clierrors.FprintError(w, cliErr)
	return exitCodeFor(cliErr)
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
	if a.debug {
		a.debugf = func(format string, args ...any) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[debug] "+format+"\n", args...)
		}
		git.SetDebugLogger(a.debugf)
	}

	if hasAnnotation(cmd, annotationSkipSettings) || isBuiltin(cmd) {
		return nil
	}

	root, err := a.resolveRoot()
	if err != nil {
		return err
	}

	settings, err := config.LoadWithOptions(config.LoadOptions{
		Root:          root,
		ConfigPath:    a.configPath,
		ChangelogPath: a.changelogPath,
	})
	if err != nil {
		return configError(err)
	}
	a.settings = settings
	a.logf("loaded settings: root=%s config=%q changelog=%s", settings.Root, settings.ConfigPath, settings.Config.Changelog.RelPath)

	if hasAnnotation(cmd, annotationChangelogOptional) {
		return nil
	}
	if _, err := os.Stat(settings.ChangelogPath()); err != nil {
		return clierrors.ChangelogNotFound(settings.Config.Changelog.RelPath)
	}
	return nil
}

func (a *app) resolveRoot() (string, error) {
	if a.root != "" {
		return a.root, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	if root, err := git.GetRepositoryRoot(wd); err == nil {
		return root, nil
	}
	a.logf("not inside a git repository; using %s as the root", wd)
	return wd, nil
}

func (a *app) logf(format string, args ...any) {
	if a.debugf != nil {
		a.debugf(format, args...)
	}
}

// stdin returns one buffered reader shared by every prompt of the
// invocation so that no prompt swallows input meant for the next one.
func (a *app) stdin(cmd *cobra.Command) *bufio.Reader {
	if a.in == nil {
		a.in = bufio.NewReader(cmd.InOrStdin())
	}
	return a.in
}

// filesystem is rooted at the repository root; versioned file paths are
// relative to it.
func (a *app) filesystem() billy.Filesystem {
	return osfs.New(a.settings.Root)
}

func (a *app) updater(fs billy.Filesystem) *templating.Updater {
	return templating.New(
		templating.WithFilesystem(fs),
		templating.WithClock(a.now),
		templating.WithPatternCache(a.patterns),
	)
}

func (a *app) orchestrator() *update.Orchestrator {
	fs := a.filesystem()
	o := update.New(fs, a.updater(fs))
	o.Debugf = a.debugf
	return o
}

func (a *app) loadChangelog() (*changelog.Document, error) {
	doc, err := changelog.Load(a.settings.ChangelogPath(),
		changelog.WithPatternCache(a.patterns),
		changelog.WithStrictSections(a.settings.Config.Changelog.StrictSections),
	)
	if err != nil {
		return nil, clierrors.ChangelogNotFound(a.settings.Config.Changelog.RelPath)
	}
	return doc, nil
}

// gitContext returns the .context.git map, or nil when no default template
// needs it.
func (a *app) gitContext() (map[string]any, error) {
	if !a.settings.UsesDefaultTemplates() {
		return nil, nil
	}
	ctx, err := a.repoContext(a.settings.Root)
	if err != nil {
		return nil, clierrors.NewPrerequisiteError(
			fmt.Sprintf("reading the origin remote for changelog links: %v", err),
			"Add a remote with: git remote add origin https://github.com/<owner>/<repo>",
			"Or configure changelog.links with your own template in .changelogger.yml",
		)
	}
	return ctx, nil
}

func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[key] == "true" {
			return true
		}
	}
	return false
}

func isBuiltin(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}
