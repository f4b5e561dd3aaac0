package templating

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/changelogger/internal/changelog"
	"github.com/ariel-frischer/changelogger/internal/config"
	"github.com/ariel-frischer/changelogger/internal/version"
)

var frozen = func() time.Time { return time.Date(2012, time.January, 14, 10, 0, 0, 0, time.UTC) }

func release(oldV, newV string, notes changelog.ReleaseNotes) changelog.ChangelogUpdate {
	u := changelog.ChangelogUpdate{ReleaseNotes: notes}
	if oldV != "" {
		v := version.MustParse(oldV)
		u.OldVersion = &v
	}
	if newV != "" {
		v := version.MustParse(newV)
		u.NewVersion = &v
	}
	return u
}

func TestVariables(t *testing.T) {
	t.Parallel()

	u := New(WithClock(frozen))
	file := config.VersionedFile{RelPath: "a.txt", Context: map[string]any{"k": "v"}}
	vars := u.Variables(file, release("1.0.0", "1.1.0", changelog.ReleaseNotes{Fixed: []string{"f"}}))

	assert.Equal(t, "1.0.0", vars["old_version"])
	assert.Equal(t, "1.1.0", vars["new_version"])
	assert.Equal(t, "2012-01-14", vars["today"])
	assert.Equal(t, map[string]any{"k": "v"}, vars["context"])

	sections, ok := vars["sections"].(map[string][]string)
	require.True(t, ok)
	assert.Equal(t, []string{"f"}, sections["fixed"])
	assert.Empty(t, sections["added"])

	vars = u.Variables(config.VersionedFile{}, changelog.ChangelogUpdate{})
	assert.Equal(t, "", vars["old_version"])
	assert.Equal(t, "", vars["new_version"])
	assert.NotNil(t, vars["context"])
}

func TestRender(t *testing.T) {
	t.Parallel()

	vars := Variables{
		"new_version": "2.0.0",
		"old_version": "1.9.0",
		"sections":    changelog.ReleaseNotes{Added: []string{"a", "b"}}.Sections(),
		"context":     map[string]any{"name": "tool"},
	}

	tests := map[string]struct {
		tmpl    string
		want    string
		wantErr bool
	}{
		"plain text":        {tmpl: "no variables", want: "no variables"},
		"variable":          {tmpl: "v{{ .new_version }}", want: "v2.0.0"},
		"bare variable":     {tmpl: "v{{ new_version }}", want: "v2.0.0"},
		"bare old version":  {tmpl: "### [{{ old_version }}]", want: "### [1.9.0]"},
		"context":           {tmpl: "{{ .context.name }}", want: "tool"},
		"bare context":      {tmpl: "{{ context.name }}", want: "tool"},
		"bare with filter":  {tmpl: "{{ context.name | upper }}", want: "TOOL"},
		"quote":             {tmpl: `{{ quote .old_version }}`, want: `1\.9\.0`},
		"quote bare":        {tmpl: `{{ quote old_version }}`, want: `1\.9\.0`},
		"reverse list":      {tmpl: `{{ .sections.added | reverse | join "," }}`, want: "b,a"},
		"upper":             {tmpl: `{{ upper .context.name }}`, want: "TOOL"},
		"title":             {tmpl: `{{ title "hello big-world" }}`, want: "Hello Big-World"},
		"join":              {tmpl: `{{ .sections.added | join ", " }}`, want: "a, b"},
		"trim":              {tmpl: `[{{ trim "  x  " }}]`, want: "[x]"},
		"default on empty":  {tmpl: `{{ "" | default "none" }}`, want: "none"},
		"default passes":    {tmpl: `{{ .new_version | default "none" }}`, want: "2.0.0"},
		"markdown":          {tmpl: `{{ markdown .sections }}`, want: "#### Added\n\n- a\n- b\n\n"},
		"markdown bare":     {tmpl: `{{ markdown sections }}`, want: "#### Added\n\n- a\n- b\n\n"},
		"missing variable":  {tmpl: "{{ .nope }}", wantErr: true},
		"missing bare name": {tmpl: "{{ nope }}", wantErr: true},
		"missing ctx key":   {tmpl: "{{ .context.nope }}", wantErr: true},
		"missing bare ctx":  {tmpl: "{{ context.nope }}", wantErr: true},
		"malformed":         {tmpl: "{{ .new_version ", wantErr: true},
		"unknown function":  {tmpl: "{{ frobnicate 1 }}", wantErr: true},
		"reverse bad input": {tmpl: "{{ mustReverse 3 }}", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := Render(name, tt.tmpl, vars)
			if tt.wantErr {
				var renderErr *RenderError
				require.ErrorAs(t, err, &renderErr)
				assert.Equal(t, name, renderErr.Name)
				assert.Equal(t, tt.tmpl, renderErr.Template)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarkdownFunc_GenericSections(t *testing.T) {
	t.Parallel()

	got, err := markdown(map[string]any{"security": []any{"s"}})
	require.NoError(t, err)
	assert.Equal(t, "#### Security\n\n- s\n\n", got)

	_, err = markdown(map[string]any{"security": "s"})
	require.Error(t, err)

	got, err = markdown(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplacement(t *testing.T) {
	t.Parallel()

	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "tmpl/version.tmpl", []byte("v{{ .new_version }}\n"), 0o644))
	u := New(WithFilesystem(fs))

	got, err := u.Replacement(config.VersionedFile{Jinja: "inline"})
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	got, err = u.Replacement(config.VersionedFile{Template: "tmpl/version.tmpl"})
	require.NoError(t, err)
	assert.Equal(t, "v{{ .new_version }}", got)

	_, err = u.Replacement(config.VersionedFile{Template: "tmpl/missing.tmpl"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening template")
}
