package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/changelogger/internal/changelog"
	"github.com/ariel-frischer/changelogger/internal/version"
)

const fixtureChangelog = `# Changelog

All notable changes to this project will be documented in this file.

<!-- BEGIN RELEASE NOTES -->
### [Unreleased]

#### Added

- Pending feature

### [4.2.0] - 2024-03-01

#### Added

- New thing

#### Fixed

- Broken thing

### [4.1.0] - 2024-02-01

#### Changed

- Changed thing

### [4.0.0] - 2024-01-01

#### Removed

- Old thing

<!-- END RELEASE NOTES -->

<!-- BEGIN LINKS -->
[Unreleased]: https://github.com/owner/repo/compare/4.2.0...HEAD
[4.2.0]: https://github.com/owner/repo/compare/4.1.0...4.2.0
[4.1.0]: https://github.com/owner/repo/compare/4.0.0...4.1.0
[4.0.0]: https://github.com/owner/repo/releases/tag/4.0.0
<!-- END LINKS -->
`

// versionFileConfig tracks a plain VERSION file next to the changelog.
const versionFileConfig = `versioned_files:
  - rel_path: VERSION
    pattern: '{{ .old_version }}'
    jinja: '{{ .new_version }}'
`

// jinjaVersionFileConfig is versionFileConfig in the jinja style, with bare
// variable names.
const jinjaVersionFileConfig = `versioned_files:
  - rel_path: VERSION
    pattern: '{{ old_version }}'
    jinja: '{{ new_version }}'
`

var frozenNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func stubRepoContext(string) (map[string]any, error) {
	return map[string]any{
		"repo":        "owner/repo",
		"url":         "https://github.com/owner/repo",
		"compare_url": "https://github.com/owner/repo/compare",
	}, nil
}

func noRemote(string) (map[string]any, error) {
	return nil, errors.New("remote origin not found")
}

// testCLI runs the command tree against a temporary repository.
type testCLI struct {
	t         *testing.T
	root      string
	configure func(a *app)
}

type cliResult struct {
	stdout string
	stderr string
	code   int
	err    error
}

func newTestCLI(t *testing.T, files map[string]string) *testCLI {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return &testCLI{t: t, root: root}
}

func (c *testCLI) run(stdin string, args ...string) cliResult {
	c.t.Helper()

	a := newApp()
	a.root = c.root
	a.now = func() time.Time { return frozenNow }
	a.repoContext = stubRepoContext
	if c.configure != nil {
		c.configure(a)
	}

	cmd := newRootCmd(a)
	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	code := handleError(&stderr, err)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), code: code, err: err}
}

func (c *testCLI) read(rel string) string {
	c.t.Helper()
	data, err := os.ReadFile(filepath.Join(c.root, filepath.FromSlash(rel)))
	require.NoError(c.t, err)
	return string(data)
}

func (c *testCLI) document() *changelog.Document {
	c.t.Helper()
	return changelog.NewDocument(c.read("CHANGELOG.md"))
}

func mustVersion(t *testing.T, s string) version.Info {
	t.Helper()
	v, err := version.Parse(s)
	require.NoError(t, err)
	return v
}
