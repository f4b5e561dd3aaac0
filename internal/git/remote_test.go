package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemote(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		url     string
		want    Remote
		wantErr bool
	}{
		"https with .git": {
			url:  "https://github.com/owner/repo.git",
			want: Remote{Host: "github.com", Owner: "owner", Name: "repo"},
		},
		"https without .git": {
			url:  "https://github.com/owner/repo",
			want: Remote{Host: "github.com", Owner: "owner", Name: "repo"},
		},
		"https with credentials and trailing slash": {
			url:  "https://token@gitlab.com/group/project/",
			want: Remote{Host: "gitlab.com", Owner: "group", Name: "project"},
		},
		"scp-style ssh": {
			url:  "git@github.com:owner/repo.git",
			want: Remote{Host: "github.com", Owner: "owner", Name: "repo"},
		},
		"ssh scheme": {
			url:  "ssh://git@github.com/owner/repo.git",
			want: Remote{Host: "github.com", Owner: "owner", Name: "repo"},
		},
		"empty":           {url: "", wantErr: true},
		"local path":      {url: "/srv/git/repo", wantErr: true},
		"missing owner":   {url: "https://github.com/repo", wantErr: true},
		"nested subgroup": {url: "https://gitlab.com/a/b/c.git", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRemote(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemoteURLs(t *testing.T) {
	t.Parallel()

	r := Remote{Host: "github.com", Owner: "o", Name: "r"}
	assert.Equal(t, "o/r", r.Slug())
	assert.Equal(t, "https://github.com/o/r", r.URL())
	assert.Equal(t, "https://github.com/o/r/compare", r.CompareURL())
}
