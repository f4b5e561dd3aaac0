package changelog

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Fixture(t *testing.T) {
	t.Parallel()

	require.NoError(t, loadFixture(t).Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	fixture, err := os.ReadFile(fixturePath)
	require.NoError(t, err)
	valid := string(fixture)

	tests := map[string]struct {
		content  string
		contains []string
	}{
		"missing partitions": {
			content:  "# Changelog\n",
			contains: []string{"release notes partition", "links partition"},
		},
		"no versions": {
			content:  releaseNotesDoc("### [Unreleased]\n"),
			contains: []string{"at least 1 version"},
		},
		"out of order": {
			content:  strings.Replace(valid, "### [4.1.0] - 2024-02-01", "### [4.3.0] - 2024-02-01", 1),
			contains: []string{"out of order"},
		},
		"missing version link": {
			content:  strings.Replace(valid, "[4.1.0]: https://github.com/owner/repo/compare/4.0.0...4.1.0\n", "", 1),
			contains: []string{"could not find the link for version 4.1.0"},
		},
		"wrong comparison": {
			content:  strings.Replace(valid, "compare/4.1.0...4.2.0", "compare/4.0.0...4.2.0", 1),
			contains: []string{"link is incorrect for version 4.2.0"},
		},
		"missing first version link": {
			content:  strings.Replace(valid, "[4.0.0]: https://github.com/owner/repo/releases/tag/4.0.0\n", "", 1),
			contains: []string{"could not find the link for version 4.0.0"},
		},
		"stale unreleased link": {
			content:  strings.Replace(valid, "4.2.0...HEAD", "4.1.0...HEAD", 1),
			contains: []string{"unreleased changes: expected a comparison of 4.2.0...HEAD"},
		},
		"missing unreleased link": {
			content:  strings.Replace(valid, "[Unreleased]: https://github.com/owner/repo/compare/4.2.0...HEAD\n", "", 1),
			contains: []string{"could not find the link for unreleased changes"},
		},
		"missing unreleased heading": {
			content:  strings.Replace(valid, "### [Unreleased]\n", "", 1),
			contains: []string{"failed to validate notes for version Unreleased", "Could not extract release notes."},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := NewDocument(tt.content).Validate()
			require.Error(t, err)

			var validation *ValidationErrors
			require.True(t, errors.As(err, &validation))
			assert.NotEmpty(t, validation.Errors)
			for _, want := range tt.contains {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	t.Parallel()

	fixture, err := os.ReadFile(fixturePath)
	require.NoError(t, err)

	content := strings.Replace(string(fixture), "4.2.0...HEAD", "4.1.0...HEAD", 1)
	content = strings.Replace(content, "[4.1.0]: https://github.com/owner/repo/compare/4.0.0...4.1.0\n", "", 1)

	err = NewDocument(content).Validate()
	var validation *ValidationErrors
	require.ErrorAs(t, err, &validation)
	assert.Len(t, validation.Errors, 2)
	assert.Contains(t, err.Error(), "2 validation error(s)")
}

func TestValidate_ReportsPath(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/CHANGELOG.md"
	require.NoError(t, os.WriteFile(path, []byte(releaseNotesDoc("### [Unreleased]\n")), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)

	err = doc.Validate()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), path+": "))
}
