package config

import "github.com/ariel-frischer/changelogger/internal/changelog"

// Default values used when no config file overrides them.
const (
	DefaultChangelogPath = "CHANGELOG.md"
	DefaultTemplatesDir  = ".changelogger/templates"
)

// GetDefaultConfigTemplate returns a commented config template written by
// `changelogger init --versioned-files` before any files are added.
func GetDefaultConfigTemplate() string {
	return `# changelogger configuration
# See 'changelogger --help' for commands.

changelog:
  rel_path: CHANGELOG.md              # Path to the changelog, relative to the repository root
  strict_sections: false              # Treat unknown release notes sections as errors
  # overview:                         # Override how the Unreleased block is rewritten
  #   pattern: ""
  #   template: overview.md.tmpl
  # links:                            # Override how the links block is rewritten
  #   pattern: ""
  #   template: links.md.tmpl

templates_dir: .changelogger/templates  # Where bare template file names are looked up

# Other files whose content carries the current version.
versioned_files: []
#  - rel_path: package.json
#    pattern: '"version": "{{ .old_version }}"'
#    jinja: '"version": "{{ .new_version }}"'
`
}

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"changelog": map[string]interface{}{
			"rel_path":        DefaultChangelogPath,
			"strict_sections": false,
			"overview": map[string]interface{}{
				"pattern": changelog.DefaultOverviewPattern,
			},
			"links": map[string]interface{}{
				"pattern": changelog.DefaultLinksPattern,
			},
		},
		"templates_dir":   DefaultTemplatesDir,
		"versioned_files": []interface{}{},
	}
}
