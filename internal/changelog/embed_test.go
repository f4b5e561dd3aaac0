package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTemplate(t *testing.T) {
	t.Parallel()

	for _, name := range []string{OverviewTemplateName, LinksTemplateName, NewChangelogTemplateName} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tmpl, err := EmbeddedTemplate(name)
			require.NoError(t, err)
			assert.NotEmpty(t, tmpl)
			assert.False(t, strings.HasSuffix(tmpl, "\n"), "segment templates must not end with a newline")
		})
	}

	_, err := EmbeddedTemplate("missing.tmpl")
	require.Error(t, err)
	assert.Panics(t, func() { MustEmbeddedTemplate("missing.tmpl") })
}

func TestNewChangelogTemplate(t *testing.T) {
	t.Parallel()

	tmpl := NewChangelogTemplate()
	for _, marker := range []string{BeginReleaseNotes, EndReleaseNotes, BeginLinks, EndLinks} {
		assert.Contains(t, tmpl, marker)
	}
	assert.True(t, strings.HasSuffix(tmpl, EndLinks+"\n"))
}
