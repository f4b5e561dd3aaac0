package changelog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNotes_Plain(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		header string
		date   string
		notes  ReleaseNotes
		want   string
	}{
		"version with date": {
			header: "1.2.0",
			date:   "2024-05-01",
			notes:  ReleaseNotes{Added: []string{"a"}, Fixed: []string{"f"}},
			want:   "## v1.2.0 (2024-05-01)\n\n### Added\n  - a\n\n### Fixed\n  - f\n",
		},
		"unreleased": {
			header: "unreleased",
			notes:  ReleaseNotes{Security: []string{"s"}},
			want:   "## Unreleased\n\n### Security\n  - s\n",
		},
		"no header": {
			notes: ReleaseNotes{Changed: []string{"c"}},
			want:  "\n### Changed\n  - c\n",
		},
		"empty notes": {
			header: "1.0.0",
			want:   "## v1.0.0\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			err := FormatNotes(tt.header, tt.date, tt.notes, &buf, FormatOptions{Plain: true, MaxWidth: 80})
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWrapText(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text  string
		width int
		want  string
	}{
		"fits":          {text: "short", width: 10, want: "short"},
		"wraps at word": {text: "one two three", width: 8, want: "one two\n  three"},
		"no width":      {text: "anything goes", width: 0, want: "anything goes"},
		"hard break":    {text: "abcdefghij", width: 4, want: "abcd\n  efgh\n  ij"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, wrapText(tt.text, tt.width, "  "))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no notes", FormatSummary(ReleaseNotes{}))
	assert.Equal(t, "2 added, 1 fixed", FormatSummary(ReleaseNotes{
		Fixed: []string{"f"},
		Added: []string{"a", "b"},
	}))
}
