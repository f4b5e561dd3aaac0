package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/changelogger/internal/changelog"
	"github.com/ariel-frischer/changelogger/internal/config"
	clierrors "github.com/ariel-frischer/changelogger/internal/errors"
	"github.com/ariel-frischer/changelogger/internal/output"
	"github.com/ariel-frischer/changelogger/internal/progress"
	"github.com/ariel-frischer/changelogger/internal/templating"
	"github.com/ariel-frischer/changelogger/internal/version"
)

// checkConcurrency bounds the number of files read at once.
const checkConcurrency = 8

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

type checkOptions struct {
	fail  bool
	files []string
	watch bool
}

// checkResult is the outcome of one check, in configuration order.
type checkResult struct {
	name string
	err  error
}

func newCheckCmd(a *app) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:     "check",
		Aliases: []string{"ch"},
		Short:   "Check that every versioned file can be updated (ch)",
		Long: `Check the versioned files for sections that no longer match the
changelogger configuration.

Each file's pattern is rendered against a contrived minor release of the
latest version and must match the file's content. The changelog itself is
validated too: it needs at least one version, parseable notes for every
version, comparison links for every version and newest-first ordering.
Every failure is reported, not just the first.`,
		Example: `  changelogger check
  changelogger check --fail --file 'CHANGELOG.md' --file 'src/**/version.go'
  changelogger check --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckCmd(cmd, a, opts)
		},
	}
	cmd.GroupID = GroupInspection

	cmd.Flags().BoolVar(&opts.fail, "fail", false, "Exit with status 2 if any check fails")
	cmd.Flags().BoolVar(&opts.fail, "sys-exit", false, "Alias of --fail")
	cmd.Flags().StringArrayVar(&opts.files, "file", nil, "Only check files matching this glob (repeatable)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-run the checks whenever a checked file changes")
	return cmd
}

func runCheckCmd(cmd *cobra.Command, a *app, opts checkOptions) error {
	matchers, err := compileGlobs(opts.files)
	if err != nil {
		return err
	}

	failures, err := runCheck(cmd.Context(), cmd.OutOrStdout(), a, matchers)
	if err != nil {
		return err
	}

	if opts.watch {
		return watchCheck(cmd.Context(), cmd.OutOrStdout(), a, matchers)
	}
	if failures > 0 && opts.fail {
		return NewExitError(ExitValidationFailed)
	}
	return nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(filepath.ToSlash(p), '/')
		if err != nil {
			return nil, clierrors.NewArgumentError(
				fmt.Sprintf("invalid --file pattern %q: %v", p, err),
				"Use shell-style globs such as 'docs/*.md' or '**/version.go'",
			)
		}
		matchers = append(matchers, g)
	}
	return matchers, nil
}

// selected reports whether a repository-relative path passes the --file
// filters. No filters selects everything.
func selected(matchers []glob.Glob, relPath string) bool {
	if len(matchers) == 0 {
		return true
	}
	path := filepath.ToSlash(filepath.Clean(relPath))
	for _, m := range matchers {
		if m.Match(path) {
			return true
		}
	}
	return false
}

// checkUpdate contrives a minor release of the latest version so patterns
// can be rendered the same way an upgrade would render them.
func checkUpdate(doc *changelog.Document) changelog.ChangelogUpdate {
	notes, _ := doc.UnreleasedNotes()
	latest, err := doc.LatestVersion()
	if err != nil {
		initial := version.New(0, 1, 0)
		return changelog.ChangelogUpdate{NewVersion: &initial, ReleaseNotes: notes}
	}
	next := latest.BumpMinor()
	return changelog.ChangelogUpdate{OldVersion: &latest, NewVersion: &next, ReleaseNotes: notes}
}

// runCheck runs every selected check concurrently, prints the results in
// configuration order and returns the number of failures.
func runCheck(ctx context.Context, out io.Writer, a *app, matchers []glob.Glob) (int, error) {
	doc, err := a.loadChangelog()
	if err != nil {
		return 0, err
	}
	update := checkUpdate(doc)

	// Only patterns are rendered, so the git context is not needed.
	files := checkedFiles(a.settings, matchers)
	changelogSelected := selected(matchers, a.settings.Config.Changelog.RelPath)

	total := len(files)
	if changelogSelected {
		total++
	}
	if total == 0 {
		output.PrintWarning(out, "No configured files match the --file filters.")
		return 0, nil
	}

	display := newDisplay(out)
	display.Start(fmt.Sprintf("Checking %d file(s)", total))

	results := make([]checkResult, total)
	fs := a.filesystem()
	updater := a.updater(fs)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checkResult{name: f.name, err: checkFile(fs, updater, f.file, update)}
			return nil
		})
	}
	if changelogSelected {
		g.Go(func() error {
			results[total-1] = checkResult{
				name: a.settings.Config.Changelog.RelPath + " (structure)",
				err:  doc.Validate(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		display.Stop()
		return 0, err
	}
	display.Stop()

	failures := 0
	for _, r := range results {
		if r.err != nil {
			failures++
			display.Fail(r.name, r.err)
			continue
		}
		display.Succeed(r.name)
	}

	if failures > 0 {
		output.PrintFailure(out, fmt.Sprintf("%d of %d check(s) failed", failures, total))
	} else {
		output.PrintSuccess(out, "Versioned files are valid!")
	}
	return failures, nil
}

type namedFile struct {
	name string
	file config.VersionedFile
}

// checkedFiles returns the selected versioned files, naming repeated paths
// by their position so every result is distinguishable.
func checkedFiles(settings *config.Settings, matchers []glob.Glob) []namedFile {
	all := settings.AllVersionedFiles(nil)
	counts := make(map[string]int, len(all))
	for _, f := range all {
		counts[f.RelPath]++
	}

	seen := make(map[string]int, len(all))
	var files []namedFile
	for _, f := range all {
		if !selected(matchers, f.RelPath) {
			continue
		}
		seen[f.RelPath]++
		name := f.RelPath
		if counts[f.RelPath] > 1 {
			name = fmt.Sprintf("%s (pattern %d of %d)", f.RelPath, seen[f.RelPath], counts[f.RelPath])
		}
		files = append(files, namedFile{name: name, file: f})
	}
	return files
}

func checkFile(fs billy.Filesystem, updater *templating.Updater, file config.VersionedFile, update changelog.ChangelogUpdate) error {
	data, err := util.ReadFile(fs, file.RelPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file.RelPath, err)
	}

	m, found, err := updater.Find(file, update, string(data))
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("could not find the pattern `%s` in %q\nrendered pattern used when searching: `%s`",
			file.Pattern, file.RelPath, m.Pattern)
	}
	return nil
}

func newDisplay(out io.Writer) *progress.Display {
	caps := progress.TerminalCapabilities{}
	if out == io.Writer(os.Stdout) {
		caps = progress.DetectTerminalCapabilities(os.Stdout)
	}
	return progress.NewDisplay(out, caps)
}

// watchCheck re-runs the checks whenever one of the checked files (or a
// template they use) changes, until ctx is cancelled.
func watchCheck(ctx context.Context, out io.Writer, a *app, matchers []glob.Glob) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	targets := watchTargets(a.settings, matchers)
	dirs := make(map[string]bool)
	for path := range targets {
		dirs[filepath.Dir(path)] = true
	}
	// Directories rather than files, so editors that save by renaming a
	// temporary file keep being observed.
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		a.logf("watching %s", dir)
	}

	fmt.Fprintln(out, "\nWatching for changes (Ctrl+C to stop)...")

	var rerun <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				a.logf("change detected: %s", event)
				rerun = time.After(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logf("watch error: %v", err)
		case <-rerun:
			rerun = nil
			output.PrintSeparator(out, time.Now().Format(time.TimeOnly))
			if _, err := runCheck(ctx, out, a, matchers); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				output.PrintFailure(out, err.Error())
			}
		}
	}
}

// watchTargets returns the absolute paths whose changes trigger a re-run.
func watchTargets(settings *config.Settings, matchers []glob.Glob) map[string]bool {
	targets := map[string]bool{
		filepath.Clean(settings.ChangelogPath()): true,
	}
	for _, f := range checkedFiles(settings, matchers) {
		targets[filepath.Clean(settings.Abs(f.file.RelPath))] = true
		if f.file.Template != "" {
			targets[filepath.Clean(settings.Abs(f.file.Template))] = true
		}
	}
	return targets
}
