package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/changelogger/internal/changelog"
	"github.com/ariel-frischer/changelogger/internal/config"
	clierrors "github.com/ariel-frischer/changelogger/internal/errors"
	"github.com/ariel-frischer/changelogger/internal/git"
	"github.com/ariel-frischer/changelogger/internal/output"
	"github.com/ariel-frischer/changelogger/internal/prompt"
	"github.com/ariel-frischer/changelogger/internal/templating"
	"github.com/ariel-frischer/changelogger/internal/version"
)

// defaultInitialVersion seeds a new changelog when the repository has no
// version tags.
const defaultInitialVersion = "0.1.0"

const contextMarker = `
# Provide any context in the above context object to make it available
# in your template as .context.
#
# -- EXAMPLE --
# context:
#   pet_names:
#   - friday
#   - lucy
#
# -- USAGE --
# {{ range .context.pet_names }}
# ...
# {{ end }}
`

type initOptions struct {
	promptChangelog      bool
	promptVersionedFiles bool
	printConfig          bool
}

// initConfigFile is the subset of the configuration written by init.
type initConfigFile struct {
	Changelog      *initChangelogSection  `yaml:"changelog,omitempty"`
	VersionedFiles []config.VersionedFile `yaml:"versioned_files"`
}

type initChangelogSection struct {
	RelPath string `yaml:"rel_path"`
}

func newInitCmd(a *app) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a changelog and a .changelogger.yml",
		Long: `Set up a repository to work with changelogger, or reinitialize an
existing one.

Creates CHANGELOG.md from the built-in Keep a Changelog template, seeded with
the latest version tag, and then walks through adding versioned files: files
such as package.json whose version fragment changelogger should rewrite on
every release.`,
		Example: `  changelogger init
  changelogger init --prompt-versioned-files=false
  changelogger init --print-config > .changelogger.yml`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationChangelogOptional: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.printConfig {
				return nil
			}
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.printConfig {
				fmt.Fprint(cmd.OutOrStdout(), config.GetDefaultConfigTemplate())
				return nil
			}
			return runInit(cmd, a, opts)
		},
	}
	cmd.GroupID = GroupGettingStarted

	cmd.Flags().BoolVar(&opts.promptChangelog, "prompt-changelog", true, "Offer to create the changelog")
	cmd.Flags().BoolVar(&opts.promptVersionedFiles, "prompt-versioned-files", true, "Offer to configure versioned files")
	cmd.Flags().BoolVar(&opts.printConfig, "print-config", false, "Print a commented .changelogger.yml template and exit")
	return cmd
}

func runInit(cmd *cobra.Command, a *app, opts initOptions) error {
	if opts.promptChangelog {
		if err := initChangelog(cmd, a); err != nil {
			return err
		}
	}
	if opts.promptVersionedFiles {
		if err := initConfig(cmd, a); err != nil {
			return err
		}
	}
	return nil
}

func initChangelog(cmd *cobra.Command, a *app) error {
	in, out := a.stdin(cmd), cmd.OutOrStdout()
	relPath := a.settings.Config.Changelog.RelPath

	question := fmt.Sprintf("Would you like to generate a %q file?", relPath)
	defaultYes := true
	if fileExists(a.settings.ChangelogPath()) {
		question = fmt.Sprintf("It looks like you've already specified your changelog as %q; are you sure you want to create a new one?", relPath)
		defaultYes = false
	}
	ok, err := prompt.Confirm(in, out, question, defaultYes)
	if err != nil || !ok {
		return err
	}

	gitContext, err := initGitContext(in, out, a)
	if err != nil {
		return err
	}

	initial, err := initialVersion(in, out, a)
	if err != nil {
		return err
	}

	fs := a.filesystem()
	updater := a.updater(fs)
	vars := updater.Variables(
		config.VersionedFile{RelPath: relPath, Context: map[string]any{"git": gitContext}},
		changelog.ChangelogUpdate{NewVersion: &initial},
	)
	content, err := templating.Render(relPath, changelog.NewChangelogTemplate(), vars)
	if err != nil {
		return err
	}

	if err := changelog.NewDocument(content, changelog.WithPatternCache(a.patterns)).Validate(); err != nil {
		return fmt.Errorf("generated changelog is invalid: %w", err)
	}

	if err := writeFile(fs, relPath, content); err != nil {
		return err
	}
	output.PrintSuccess(out, fmt.Sprintf("%q successfully created!", relPath))
	return nil
}

// initGitContext reads the origin remote, asking for the repository URL
// when there is none.
func initGitContext(in *bufio.Reader, out io.Writer, a *app) (map[string]any, error) {
	ctx, err := a.repoContext(a.settings.Root)
	if err == nil {
		return ctx, nil
	}
	a.logf("reading origin remote: %v", err)

	raw, err := prompt.Ask(in, out, "Repository URL (e.g. https://github.com/owner/repo)", "")
	if err != nil {
		return nil, err
	}
	remote, err := git.ParseRemote(raw)
	if err != nil {
		return nil, clierrors.NewArgumentError(err.Error(),
			"Enter an https URL such as https://github.com/owner/repo",
			"Or add a remote first: git remote add origin <url>")
	}
	return remote.Context(), nil
}

// initialVersion proposes the latest version tag, or 0.1.0.
func initialVersion(in *bufio.Reader, out io.Writer, a *app) (version.Info, error) {
	def := defaultInitialVersion
	if tag, ok, err := git.LatestTag(a.settings.Root); err == nil && ok {
		def = tag
	}

	answer, err := prompt.Ask(in, out, "Initial version", def)
	if err != nil {
		return version.Info{}, err
	}
	v, err := version.Parse(strings.TrimPrefix(answer, "v"))
	if err != nil {
		return version.Info{}, clierrors.InvalidVersion(answer)
	}
	return v, nil
}

func initConfig(cmd *cobra.Command, a *app) error {
	in, out := a.stdin(cmd), cmd.OutOrStdout()

	path := a.settings.ConfigPath
	if path == "" {
		path = filepath.Join(a.settings.Root, config.ConfigFileName)
	}

	if fileExists(path) {
		ok, err := prompt.Confirm(in, out, fmt.Sprintf("It looks like you've already specified your config as %q; are you sure you want to replace it?", path), false)
		if err != nil || !ok {
			return err
		}
	}

	ok, err := prompt.Confirm(in, out, fmt.Sprintf("Would you like changelogger to monitor and update any files in addition to %q?", a.settings.Config.Changelog.RelPath), false)
	if err != nil || !ok {
		return err
	}

	var files []config.VersionedFile
	for {
		file, err := promptVersionedFile(in, out, a)
		if err != nil {
			return err
		}
		if file != nil {
			files = append(files, *file)
		}

		more, err := prompt.Confirm(in, out, "Any other versioned files?", false)
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	doc := initConfigFile{VersionedFiles: files}
	if rel := a.settings.Config.Changelog.RelPath; rel != config.DefaultChangelogPath {
		doc.Changelog = &initChangelogSection{RelPath: rel}
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return clierrors.FileNotWritable(path)
	}

	if _, err := config.LoadWithOptions(config.LoadOptions{Root: a.settings.Root, ConfigPath: path, SkipEnv: true}); err != nil {
		return configError(err)
	}

	output.PrintSuccess(out, fmt.Sprintf("%q successfully created!", path))
	return nil
}

// promptVersionedFile walks through one versioned file. It returns nil when
// the user skips it.
func promptVersionedFile(in *bufio.Reader, out io.Writer, a *app) (*config.VersionedFile, error) {
	fs := a.filesystem()

	relPath, err := prompt.Ask(in, out, "What is the relative path of this versioned file?", "")
	if err != nil {
		return nil, err
	}
	relPath = filepath.ToSlash(filepath.Clean(relPath))
	data, err := util.ReadFile(fs, relPath)
	if relPath == "." || err != nil {
		fmt.Fprintf(out, "Could not find %q; skipping this file.\n", relPath)
		return nil, nil
	}
	content := string(data)

	pattern, err := prompt.Ask(in, out, "What pattern should changelogger use to find and replace the versioned information?", "")
	if err != nil {
		return nil, err
	}
	if pattern == "" {
		fmt.Fprintln(out, "No pattern entered; skipping this file.")
		return nil, nil
	}

	rendered, matches, err := previewMatches(a, relPath, pattern, content)
	if err != nil {
		fmt.Fprintf(out, "Could not use the pattern: %v; skipping this file.\n", err)
		return nil, nil
	}
	if len(matches) == 0 {
		fmt.Fprintf(out, "Could not find a match in %q using the rendered pattern %s; skipping this file.\n", relPath, rendered)
		return nil, nil
	}
	title := fmt.Sprintf("%d Match Found!", len(matches))
	if len(matches) > 1 {
		title = fmt.Sprintf("%d Matches Found!", len(matches))
	}
	fmt.Fprint(out, output.Panel(title+" (first match)", matches[0], false))

	ctx, err := promptContext(in, out, a)
	if err != nil {
		return nil, err
	}

	file := config.VersionedFile{RelPath: relPath, Pattern: pattern, Context: ctx}
	metadata, err := yaml.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}
	fmt.Fprint(out, output.Panel(relPath+" Metadata", string(metadata), false))

	ok, err := prompt.Confirm(in, out, "Does everything look good? If so, we'll open an editor for the replacement template.", true)
	if err != nil {
		return nil, err
	}
	if !ok {
		fmt.Fprintln(out, "Skipping this file.")
		return nil, nil
	}

	replacement, err := promptReplacement(file, a)
	if err != nil {
		return nil, err
	}
	if replacement == "" {
		fmt.Fprintln(out, "No template entered; skipping this file.")
		return nil, nil
	}

	if !strings.Contains(replacement, "\n") {
		file.Jinja = replacement
		return &file, nil
	}

	separate, err := prompt.Confirm(in, out, "It looks like your template is multiple lines; do you want to save it in its own file?", true)
	if err != nil {
		return nil, err
	}
	if !separate {
		file.Jinja = replacement
		return &file, nil
	}

	def := filepath.ToSlash(filepath.Join(a.settings.Config.TemplatesDir, filepath.Base(relPath)+".tmpl"))
	templatePath, err := prompt.Ask(in, out, "Where do you want to save the template?", def)
	if err != nil {
		return nil, err
	}
	if err := writeFile(fs, templatePath, replacement); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Successfully saved the template to %q!\n", templatePath)
	file.Template = templatePath
	return &file, nil
}

// previewMatches renders pattern against the current changelog version and
// returns every match in content.
func previewMatches(a *app, relPath, pattern, content string) (string, []string, error) {
	var update changelog.ChangelogUpdate
	if doc, err := a.loadChangelog(); err == nil {
		if latest, err := doc.LatestVersion(); err == nil {
			update.OldVersion = &latest
		}
	}

	updater := a.updater(a.filesystem())
	rendered, err := updater.RenderPattern(config.VersionedFile{RelPath: relPath, Pattern: pattern}, update)
	if err != nil {
		return "", nil, err
	}
	re, err := a.patterns.Compile(rendered)
	if err != nil {
		return rendered, nil, err
	}
	return rendered, re.FindAllString(content, -1), nil
}

func promptContext(in *bufio.Reader, out io.Writer, a *app) (map[string]any, error) {
	ok, err := prompt.Confirm(in, out, "Do you want to add context to use in your template?", false)
	if err != nil || !ok {
		return nil, err
	}

	edited, err := prompt.Edit("context:\n\n"+contextMarker, ".yml", a.editor)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Context map[string]any `yaml:"context"`
	}
	if err := yaml.Unmarshal([]byte(edited), &parsed); err != nil {
		fmt.Fprintln(out, "Unable to extract context; skipping context.")
		return nil, nil
	}
	return parsed.Context, nil
}

// promptReplacement opens the editor for the replacement template. The
// instructions sit in a template comment below the cursor and are cut off
// on save.
func promptReplacement(file config.VersionedFile, a *app) (string, error) {
	meta, err := yaml.Marshal(map[string]any{"context": file.Context})
	if err != nil {
		return "", fmt.Errorf("encoding context: %w", err)
	}
	marker := fmt.Sprintf("\n{{/*\nEnter the replacement template above.\n\nrel_path: %s\npattern: %s\n%s*/}}", file.RelPath, file.Pattern, meta)

	edited, err := prompt.Edit("\n"+marker, ".tmpl", a.editor)
	if err != nil {
		return "", err
	}
	replacement, _, _ := strings.Cut(edited, marker)
	return strings.TrimRight(replacement, " \t\r\n"), nil
}

func writeFile(fs billy.Filesystem, path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := util.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		return clierrors.FileNotWritable(path)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
