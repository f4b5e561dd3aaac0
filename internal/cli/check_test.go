package cli

import (
	"testing"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/changelogger/internal/config"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		version  string
		args     []string
		wantCode int
		contains []string
		excludes []string
	}{
		"all valid": {
			version:  "4.2.0\n",
			args:     []string{"check", "--fail"},
			contains: []string{"[OK] VERSION\n", "[OK] CHANGELOG.md (pattern 1 of 2)\n", "[OK] CHANGELOG.md (pattern 2 of 2)\n", "[OK] CHANGELOG.md (structure)\n", "Versioned files are valid!"},
		},
		"stale file without --fail": {
			version:  "1.0.0\n",
			args:     []string{"check"},
			contains: []string{"[FAIL] VERSION\n", "could not find the pattern `{{ .old_version }}` in \"VERSION\"", "rendered pattern used when searching: `4.2.0`", "1 of 4 check(s) failed"},
		},
		"stale file with --fail": {
			version:  "1.0.0\n",
			args:     []string{"check", "--fail"},
			wantCode: ExitValidationFailed,
			contains: []string{"[FAIL] VERSION\n"},
		},
		"sys-exit alias": {
			version:  "1.0.0\n",
			args:     []string{"ch", "--sys-exit"},
			wantCode: ExitValidationFailed,
		},
		"file filter": {
			version:  "1.0.0\n",
			args:     []string{"check", "--fail", "--file", "CHANGELOG.md"},
			contains: []string{"[OK] CHANGELOG.md (structure)\n"},
			excludes: []string{"VERSION"},
		},
		"file filter matching nothing": {
			version:  "1.0.0\n",
			args:     []string{"check", "--fail", "--file", "docs/*.md"},
			contains: []string{"No configured files match the --file filters."},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cli := newTestCLI(t, map[string]string{
				"CHANGELOG.md":      fixtureChangelog,
				"VERSION":           tt.version,
				".changelogger.yml": versionFileConfig,
			})
			res := cli.run("", tt.args...)

			assert.Equal(t, tt.wantCode, res.code, res.stderr)
			for _, s := range tt.contains {
				assert.Contains(t, res.stdout, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, res.stdout, s)
			}
			// check never writes.
			assert.Equal(t, tt.version, cli.read("VERSION"))
			assert.Equal(t, fixtureChangelog, cli.read("CHANGELOG.md"))
		})
	}
}

func TestCheck_InvalidChangelogStructure(t *testing.T) {
	t.Parallel()

	broken := fixtureChangelog[:len(fixtureChangelog)-len("[4.0.0]: https://github.com/owner/repo/releases/tag/4.0.0\n<!-- END LINKS -->\n")] +
		"<!-- END LINKS -->\n"
	cli := newTestCLI(t, map[string]string{"CHANGELOG.md": broken})

	res := cli.run("", "check", "--fail")
	assert.Equal(t, ExitValidationFailed, res.code)
	assert.Contains(t, res.stdout, "[FAIL] CHANGELOG.md (structure)\n")
	assert.Contains(t, res.stdout, "4.0.0")
}

func TestCompileGlobs(t *testing.T) {
	t.Parallel()

	matchers, err := compileGlobs([]string{"*.md", "src/**/version.go"})
	require.NoError(t, err)

	tests := map[string]struct {
		path string
		want bool
	}{
		"root markdown":     {path: "CHANGELOG.md", want: true},
		"nested markdown":   {path: "docs/install.md", want: false},
		"deep version file": {path: "src/pkg/sub/version.go", want: true},
		"cleaned path":      {path: "./CHANGELOG.md", want: true},
		"unrelated":         {path: "VERSION", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, selected(matchers, tt.path))
		})
	}

	assert.True(t, selected(nil, "anything"))
	assert.True(t, selected([]glob.Glob{}, "anything"))
}

func TestCheckedFiles_NamesRepeatedPaths(t *testing.T) {
	t.Parallel()

	settings := &config.Settings{Config: config.Configuration{
		Changelog: config.ChangelogConfig{RelPath: "CHANGELOG.md"},
		VersionedFiles: []config.VersionedFile{
			{RelPath: "package.json", Pattern: "a", Jinja: "b"},
			{RelPath: "VERSION", Pattern: "a", Jinja: "b"},
			{RelPath: "package.json", Pattern: "c", Jinja: "d"},
		},
	}}

	var names []string
	for _, f := range checkedFiles(settings, nil) {
		names = append(names, f.name)
	}
	assert.Equal(t, []string{
		"package.json (pattern 1 of 2)",
		"VERSION",
		"package.json (pattern 2 of 2)",
		"CHANGELOG.md (pattern 1 of 2)",
		"CHANGELOG.md (pattern 2 of 2)",
	}, names)
}

func TestPrecommit(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		version  string
		args     []string
		wantCode int
		wantOut  string
	}{
		"no versioned file staged": {
			version: "1.0.0\n",
			args:    []string{"precommit", "README.md", "main.go"},
		},
		"valid staged file": {
			version: "4.2.0\n",
			args:    []string{"precommit", "VERSION"},
			wantOut: "[OK] VERSION\n",
		},
		"stale staged file": {
			version:  "1.0.0\n",
			args:     []string{"precommit", "./VERSION", "README.md"},
			wantCode: ExitValidationFailed,
			wantOut:  "[FAIL] VERSION\n",
		},
		"staged changelog": {
			version: "1.0.0\n",
			args:    []string{"precommit", "CHANGELOG.md"},
			wantOut: "[OK] CHANGELOG.md (structure)\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cli := newTestCLI(t, map[string]string{
				"CHANGELOG.md":      fixtureChangelog,
				"VERSION":           tt.version,
				".changelogger.yml": versionFileConfig,
			})
			res := cli.run("", tt.args...)

			assert.Equal(t, tt.wantCode, res.code, res.stderr)
			if tt.wantOut == "" {
				assert.Empty(t, res.stdout)
			} else {
				assert.Contains(t, res.stdout, tt.wantOut)
			}
		})
	}
}
