package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/changelogger/internal/changelog"
	"github.com/ariel-frischer/changelogger/internal/config"
	clierrors "github.com/ariel-frischer/changelogger/internal/errors"
	"github.com/ariel-frischer/changelogger/internal/update"
	"github.com/ariel-frischer/changelogger/internal/version"
)

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()
	assert.Equal(t, "changelogger", root.Use)
	assert.True(t, root.SilenceUsage)
	assert.True(t, root.SilenceErrors)

	tests := map[string]struct {
		group  string
		hidden bool
	}{
		"init":      {group: GroupGettingStarted},
		"version":   {group: GroupGettingStarted},
		"add":       {group: GroupReleases},
		"upgrade":   {group: GroupReleases},
		"force":     {group: GroupReleases},
		"notes":     {group: GroupInspection},
		"versions":  {group: GroupInspection},
		"check":     {group: GroupInspection},
		"precommit": {group: GroupInternal, hidden: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cmd, _, err := NewRootCmd().Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
			assert.Equal(t, tt.group, cmd.GroupID)
			assert.Equal(t, tt.hidden, cmd.Hidden)
		})
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	t.Parallel()

	flags := NewRootCmd().PersistentFlags()
	for _, name := range []string{"config", "changelog", "debug", "no-color"} {
		assert.NotNil(t, flags.Lookup(name), "missing --%s", name)
	}
}

func TestRootCmd_Aliases(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"up": "upgrade",
		"ch": "check",
		"v":  "version",
	}

	for alias, want := range tests {
		t.Run(alias, func(t *testing.T) {
			t.Parallel()
			cmd, _, err := NewRootCmd().Find([]string{alias})
			require.NoError(t, err)
			assert.Equal(t, want, cmd.Name())
		})
	}
}

func TestSetup_MissingChangelog(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t, nil)
	res := cli.run("", "versions")

	assert.Equal(t, ExitMissingPrerequisites, res.code)
	assert.Contains(t, res.stderr, "changelog not found: CHANGELOG.md")
	assert.Contains(t, res.stderr, "changelogger init")
}

func TestSetup_ChangelogFlag(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t, map[string]string{"docs/CHANGES.md": fixtureChangelog})
	res := cli.run("", "versions", "--latest", "--changelog", "docs/CHANGES.md")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "4.2.0\n", res.stdout)
}

func TestSetup_InvalidConfig(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t, map[string]string{
		"CHANGELOG.md":      fixtureChangelog,
		".changelogger.yml": "versioned_files:\n  - rel_path: VERSION\n",
	})
	res := cli.run("", "versions")

	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "invalid configuration")
}

func TestSetup_MissingConfigFlag(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t, map[string]string{"CHANGELOG.md": fixtureChangelog})
	res := cli.run("", "versions", "--config", "missing.yml")

	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "config file not found")
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err      error
		wantCode int
		wantOut  string
	}{
		"nil": {
			wantCode: ExitSuccess,
		},
		"exit error is silent": {
			err:      NewExitError(ExitValidationFailed),
			wantCode: ExitValidationFailed,
		},
		"wrapped exit error": {
			err:      fmt.Errorf("check: %w", NewExitError(ExitInvalidArguments)),
			wantCode: ExitInvalidArguments,
		},
		"argument error": {
			err:      clierrors.InvalidVersion("abc"),
			wantCode: ExitInvalidArguments,
			wantOut:  "invalid version: abc",
		},
		"prerequisite error": {
			err:      clierrors.ChangelogNotFound("CHANGELOG.md"),
			wantCode: ExitMissingPrerequisites,
			wantOut:  "changelog not found",
		},
		"plain error": {
			err:      errors.New("boom"),
			wantCode: ExitFailure,
			wantOut:  "boom",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := handleError(&buf, tt.err)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantOut == "" {
				assert.Empty(t, buf.String())
			} else {
				assert.Contains(t, buf.String(), tt.wantOut)
			}
		})
	}
}

func TestToCLIError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err          error
		wantCategory clierrors.ErrorCategory
		wantMessage  string
	}{
		"version parse error": {
			err:          &version.ParseError{Input: "1.x"},
			wantCategory: clierrors.Argument,
			wantMessage:  "invalid version: 1.x",
		},
		"unknown section": {
			err:          &changelog.UnknownSectionError{Name: "Improved"},
			wantCategory: clierrors.Argument,
			wantMessage:  "Improved",
		},
		"version not found": {
			err:          &changelog.VersionNotFoundError{Version: "9.9.9"},
			wantCategory: clierrors.Argument,
			wantMessage:  "9.9.9",
		},
		"no versions": {
			err:          fmt.Errorf("latest: %w", changelog.ErrNoVersions),
			wantCategory: clierrors.Prerequisite,
		},
		"rollback failed": {
			err:          &update.RollbackFailedError{Cause: errors.New("disk full")},
			wantCategory: clierrors.Runtime,
			wantMessage:  "MANUAL INTERVENTION REQUIRED",
		},
		"update failed": {
			err:          &update.UpdateFailedError{Path: "VERSION", Cause: errors.New("no match")},
			wantCategory: clierrors.Runtime,
			wantMessage:  "Failed to update",
		},
		"config validation": {
			err:          &config.ValidationError{FilePath: "x.yml", Message: "config file not found"},
			wantCategory: clierrors.Configuration,
			wantMessage:  "config file not found: x.yml",
		},
		"passes CLI errors through": {
			err:          fmt.Errorf("upgrade: %w", clierrors.NoVersions("CHANGELOG.md")),
			wantCategory: clierrors.Prerequisite,
			wantMessage:  "no versions found in CHANGELOG.md",
		},
		"other": {
			err:          errors.New("boom"),
			wantCategory: clierrors.Runtime,
			wantMessage:  "boom",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := toCLIError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCategory, got.Category)
			if tt.wantMessage != "" {
				assert.Contains(t, clierrors.FormatErrorPlain(got), tt.wantMessage)
			}
		})
	}
}
