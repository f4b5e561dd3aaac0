// Package config loads the changelogger settings for one invocation.
// Values are layered with koanf: built-in defaults, then the first
// .changelogger.yml found (repository root, .changelogger/, .github/), then
// CHANGELOGGER_* environment variables. No settings are kept in globals;
// every command gets its own Settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/changelogger/internal/changelog"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// separates nested keys, e.g. CHANGELOGGER_CHANGELOG__REL_PATH.
const EnvPrefix = "CHANGELOGGER_"

// Segment configures how one region of the changelog is rewritten. When
// neither Jinja nor Template is set the embedded default is used.
type Segment struct {
	Pattern  string `koanf:"pattern" yaml:"pattern,omitempty" validate:"required"`
	Jinja    string `koanf:"jinja" yaml:"jinja,omitempty" validate:"excluded_with=Template"`
	Template string `koanf:"template" yaml:"template,omitempty"`
}

// IsDefault reports whether the segment renders with an embedded template.
func (s Segment) IsDefault() bool {
	return s.Jinja == "" && s.Template == ""
}

// ChangelogConfig describes the changelog file itself.
type ChangelogConfig struct {
	RelPath string `koanf:"rel_path" yaml:"rel_path" validate:"required,relpath"`
	// StrictSections reports unknown release notes categories instead of
	// dropping them.
	StrictSections bool    `koanf:"strict_sections" yaml:"strict_sections,omitempty"`
	Overview       Segment `koanf:"overview" yaml:"overview,omitempty"`
	Links          Segment `koanf:"links" yaml:"links,omitempty"`
}

// VersionedFile is a file whose content carries a version-dependent fragment.
// Pattern is a template that renders to a regular expression; the first
// match is replaced by the rendered Jinja (inline) or Template (file)
// replacement. Exactly one of Jinja and Template is set.
type VersionedFile struct {
	RelPath  string         `koanf:"rel_path" yaml:"rel_path" validate:"required,relpath"`
	Pattern  string         `koanf:"pattern" yaml:"pattern" validate:"required"`
	Jinja    string         `koanf:"jinja" yaml:"jinja,omitempty" validate:"required_without=Template,excluded_with=Template"`
	Template string         `koanf:"template" yaml:"template,omitempty" validate:"required_without=Jinja"`
	Context  map[string]any `koanf:"context" yaml:"context,omitempty"`
}

// Configuration mirrors the .changelogger.yml schema.
type Configuration struct {
	Changelog      ChangelogConfig `koanf:"changelog" yaml:"changelog"`
	TemplatesDir   string          `koanf:"templates_dir" yaml:"templates_dir,omitempty"`
	VersionedFiles []VersionedFile `koanf:"versioned_files" yaml:"versioned_files" validate:"dive"`
}

// Settings is the resolved configuration for one invocation.
type Settings struct {
	// Root is the repository root all relative paths are resolved against.
	Root string
	// ConfigPath is the config file that was loaded, or "" for defaults only.
	ConfigPath string
	Config     Configuration
}

// LoadOptions configures how settings are loaded.
type LoadOptions struct {
	// Root is the repository root. Defaults to the working directory.
	Root string
	// ConfigPath overrides the config file search.
	ConfigPath string
	// ChangelogPath overrides changelog.rel_path.
	ChangelogPath string
	// SkipEnv ignores CHANGELOGGER_* environment variables.
	SkipEnv bool
}

// Load loads settings rooted at the working directory.
func Load() (*Settings, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions loads settings with custom options.
// Priority: flags > environment variables > config file > defaults.
func LoadWithOptions(opts LoadOptions) (*Settings, error) {
	root, err := resolveRoot(opts.Root)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	loadDefaults(k)

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = FindConfigFile(root)
	} else if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(root, configPath)
	}

	if configPath != "" {
		if opts.ConfigPath != "" && !fileExists(configPath) {
			return nil, &ValidationError{FilePath: configPath, Message: "config file not found"}
		}
		if err := loadYAMLConfig(k, configPath); err != nil {
			return nil, err
		}
	}

	if !opts.SkipEnv {
		if err := loadEnvironmentConfig(k); err != nil {
			return nil, err
		}
	}

	if opts.ChangelogPath != "" {
		if err := k.Set("changelog.rel_path", opts.ChangelogPath); err != nil {
			return nil, fmt.Errorf("setting changelog path: %w", err)
		}
	}

	cfg, err := finalizeConfig(k, configPath)
	if err != nil {
		return nil, err
	}

	return &Settings{Root: root, ConfigPath: configPath, Config: *cfg}, nil
}

func resolveRoot(root string) (string, error) {
	if root != "" {
		return root, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return wd, nil
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		_ = k.Set(key, value)
	}
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: CHANGELOGGER_CHANGELOG__REL_PATH -> changelog.rel_path
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// finalizeConfig unmarshals and validates the merged values.
func finalizeConfig(k *koanf.Koanf, configPath string) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	source := configPath
	if source == "" {
		source = "defaults"
	}
	if err := ValidateConfigValues(&cfg, source); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// ChangelogPath returns the absolute path of the changelog.
func (s *Settings) ChangelogPath() string {
	return s.Abs(s.Config.Changelog.RelPath)
}

// Abs resolves a repository-relative path.
func (s *Settings) Abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(s.Root, rel)
}

// TemplatePath resolves a template reference relative to the repository
// root. Bare file names are looked up in templates_dir.
func (s *Settings) TemplatePath(ref string) string {
	if ref == "" || filepath.IsAbs(ref) || strings.ContainsAny(ref, `/\`) {
		return ref
	}
	if s.Config.TemplatesDir == "" {
		return ref
	}
	return filepath.Join(s.Config.TemplatesDir, ref)
}

// UsesDefaultTemplates reports whether either changelog segment renders with
// an embedded template, which needs the git context.
func (s *Settings) UsesDefaultTemplates() bool {
	return s.Config.Changelog.Overview.IsDefault() || s.Config.Changelog.Links.IsDefault()
}

// ChangelogFiles returns the overview and links segments of the changelog as
// versioned files. gitContext is exposed to their templates as
// .context.git when the defaults are in use.
func (s *Settings) ChangelogFiles(gitContext map[string]any) []VersionedFile {
	cl := s.Config.Changelog

	ctx := map[string]any{}
	if s.UsesDefaultTemplates() && gitContext != nil {
		ctx["git"] = gitContext
	}

	return []VersionedFile{
		s.segmentFile(cl.Overview, changelog.OverviewTemplateName, ctx),
		s.segmentFile(cl.Links, changelog.LinksTemplateName, ctx),
	}
}

func (s *Settings) segmentFile(seg Segment, embedded string, ctx map[string]any) VersionedFile {
	f := VersionedFile{
		RelPath:  s.Config.Changelog.RelPath,
		Pattern:  seg.Pattern,
		Jinja:    seg.Jinja,
		Template: s.TemplatePath(seg.Template),
		Context:  copyContext(ctx),
	}
	if seg.IsDefault() {
		f.Jinja = changelog.MustEmbeddedTemplate(embedded)
	}
	return f
}

// AllVersionedFiles returns the configured versioned files followed by the
// changelog segments, in the order they are updated.
func (s *Settings) AllVersionedFiles(gitContext map[string]any) []VersionedFile {
	files := make([]VersionedFile, 0, len(s.Config.VersionedFiles)+2)
	for _, f := range s.Config.VersionedFiles {
		f.Template = s.TemplatePath(f.Template)
		f.Context = copyContext(f.Context)
		files = append(files, f)
	}
	return append(files, s.ChangelogFiles(gitContext)...)
}

func copyContext(ctx map[string]any) map[string]any {
	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}
