package git

import (
	"fmt"
	"net/url"
	"strings"
)

// Remote identifies a hosted repository.
type Remote struct {
	Host  string
	Owner string
	Name  string
}

// ParseRemote parses an https or scp-style ssh remote URL, e.g.
// https://github.com/owner/repo.git or git@github.com:owner/repo.git.
func ParseRemote(raw string) (Remote, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Remote{}, fmt.Errorf("empty remote URL")
	}

	var host, path string
	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return Remote{}, fmt.Errorf("parsing remote URL %q: %w", raw, err)
		}
		host, path = u.Hostname(), u.Path
	case strings.Contains(raw, ":"):
		// scp-like syntax: [user@]host:path
		hostPart, pathPart, _ := strings.Cut(raw, ":")
		if i := strings.LastIndex(hostPart, "@"); i >= 0 {
			hostPart = hostPart[i+1:]
		}
		host, path = hostPart, pathPart
	default:
		return Remote{}, fmt.Errorf("unsupported remote URL %q", raw)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	owner, name, ok := strings.Cut(path, "/")
	if !ok || host == "" || owner == "" || name == "" || strings.Contains(name, "/") {
		return Remote{}, fmt.Errorf("remote URL %q does not name an owner/repository", raw)
	}

	return Remote{Host: host, Owner: owner, Name: name}, nil
}

// Slug returns "owner/name".
func (r Remote) Slug() string {
	return r.Owner + "/" + r.Name
}

// URL returns the web URL of the repository.
func (r Remote) URL() string {
	return "https://" + r.Host + "/" + r.Slug()
}

// CompareURL returns the base URL of version comparisons; a comparison is
// CompareURL() + "/1.0.0...1.1.0".
func (r Remote) CompareURL() string {
	return r.URL() + "/compare"
}

// Context returns the template context exposed as .context.git.
func (r Remote) Context() map[string]any {
	return map[string]any{
		"repo":        r.Slug(),
		"url":         r.URL(),
		"compare_url": r.CompareURL(),
	}
}

// RepoContext reads the origin remote of the repository at path and returns
// its template context, plus "branch" when a branch is checked out.
func RepoContext(path string) (map[string]any, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}
	raw, err := remoteURL(repo, DefaultRemote)
	if err != nil {
		return nil, err
	}
	remote, err := ParseRemote(raw)
	if err != nil {
		return nil, err
	}

	ctx := remote.Context()
	if branch, err := currentBranch(repo); err == nil && branch != "" {
		ctx["branch"] = branch
	}
	return ctx, nil
}
