// Package gitrepo reads commit history from git repositories with go-git.
package gitrepo

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/matzehuels/gittrophy/pkg/errors"
	"github.com/matzehuels/gittrophy/pkg/history"
)

// Repo is an opened git repository.
type Repo struct {
	path string
	repo *git.Repository
}

// Open opens the repository containing path. Parent directories are
// searched for a .git directory.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRepository, err, "resolve %s", path)
	}
	r, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRepository, err, "open repository %s", path)
	}
	return &Repo{path: abs, repo: r}, nil
}

// OpenAll opens every path, failing on the first unopenable one.
func OpenAll(paths []string) ([]history.Repository, error) {
	repos := make([]history.Repository, 0, len(paths))
	for _, p := range paths {
		r, err := Open(p)
		if err != nil {
			return nil, err
		}
		repos = append(repos, r)
	}
	return repos, nil
}

// Path returns the absolute path the repository was opened with.
func (r *Repo) Path() string { return r.path }

// refs returns "name=hash" for every direct reference, sorted by name.
func (r *Repo) refs() ([]string, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() == plumbing.HashReference {
			out = append(out, ref.Name().String()+"="+ref.Hash().String())
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

// Fingerprint identifies the current state of all references.
func (r *Repo) Fingerprint(ctx context.Context) (string, error) {
	refs, err := r.refs()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeRepository, err, "list references of %s", r.path)
	}
	return strings.Join(refs, "\n"), nil
}

// WalkCommits visits every commit reachable from any reference, each once.
// Errors returned by fn are passed through unchanged.
func (r *Repo) WalkCommits(ctx context.Context, fn func(history.Commit) error) error {
	refs, err := r.refs()
	if err != nil {
		return errors.Wrap(errors.ErrCodeRepository, err, "list references of %s", r.path)
	}
	if len(refs) == 0 {
		return nil
	}

	iter, err := r.repo.Log(&git.LogOptions{All: true})
	if err != nil {
		return errors.Wrap(errors.ErrCodeRepository, err, "walk %s", r.path)
	}
	defer iter.Close()

	var fnErr error
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			fnErr = err
			return err
		}
		if err := fn(history.Commit{When: c.Committer.When, Committer: c.Committer.Name}); err != nil {
			fnErr = err
			return err
		}
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeRepository, err, "walk %s", r.path)
	}
	return nil
}

var (
	_ history.Repository   = (*Repo)(nil)
	_ history.Identifiable = (*Repo)(nil)
)
