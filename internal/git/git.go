// Package git reads the repository metadata changelogger needs: the
// repository root, the origin remote (to build comparison links for the
// default changelog templates), the current branch and the latest release
// tag. It uses go-git so no git binary is required.
package git

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"golang.org/x/mod/semver"
)

// DefaultRemote is the remote whose URL seeds the link templates.
const DefaultRemote = "origin"

// ErrNoRemote is returned when the repository has no usable remote.
var ErrNoRemote = errors.New("repository has no origin remote")

var debugLogger func(format string, args ...any)

// SetDebugLogger routes the package's debug messages to logger; nil
// silences them.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger("[git] "+format, args...)
	}
}

// openRepo finds the repository containing path, walking up to the .git
// directory. An empty path means the working directory.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		path = wd
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		logDebug("no repository at %s: %v", path, err)
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// GetRepositoryRoot returns the worktree root of the repository containing
// path.
func GetRepositoryRoot(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := wt.Filesystem.Root()
	logDebug("repository root: %s", root)
	return root, nil
}

// CurrentBranch returns the checked out branch, or "" on a detached HEAD
// or an unborn branch.
func CurrentBranch(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}
	return currentBranch(repo)
}

func currentBranch(repo *git.Repository) (string, error) {
	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", nil
	}
	return head.Name().Short(), nil
}

// RemoteURL returns the first URL configured for the named remote.
func RemoteURL(path, name string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}
	return remoteURL(repo, name)
}

func remoteURL(repo *git.Repository, name string) (string, error) {
	remote, err := repo.Remote(name)
	if errors.Is(err, git.ErrRemoteNotFound) {
		return "", ErrNoRemote
	}
	if err != nil {
		return "", fmt.Errorf("getting remote %s: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", ErrNoRemote
	}
	logDebug("remote %s: %s", name, urls[0])
	return urls[0], nil
}

// LatestTag returns the highest semantic version among the repository's
// tags, without any leading "v". ok is false when no tag is a version.
func LatestTag(path string) (tag string, ok bool, err error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", false, err
	}

	refs, err := repo.Tags()
	if err != nil {
		return "", false, fmt.Errorf("listing tags: %w", err)
	}

	best := ""
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		canonical := "v" + strings.TrimPrefix(ref.Name().Short(), "v")
		if semver.IsValid(canonical) && (best == "" || semver.Compare(canonical, best) > 0) {
			best = canonical
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("reading tags: %w", err)
	}
	if best == "" {
		return "", false, nil
	}

	logDebug("latest version tag: %s", best)
	return strings.TrimPrefix(best, "v"), true, nil
}
