// Package snapshot keeps git change history for a data file, so a bad
// save (the store overwrites in place, non-atomically) can be recovered
// from a previous commit.
package snapshot

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo wraps a git repository rooted at the data file's directory.
type Repo struct {
	dir   string
	name  string
	email string

	mu   sync.Mutex
	repo *gogit.Repository
}

// Open opens the git repository at dir, initializing it on first use.
// name and email identify the commit author; empty values get defaults.
func Open(dir, name, email string) (*Repo, error) {
	if name == "" {
		name = "jsonstore"
	}
	if email == "" {
		email = "jsonstore@localhost"
	}
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		// Not a repo yet — initialize.
		repo, err = gogit.PlainInit(dir, false)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize git repo in %q: %w", dir, err)
		}
		cfg, err := repo.Config()
		if err != nil {
			return nil, fmt.Errorf("failed to read git config: %w", err)
		}
		cfg.User.Name = name
		cfg.User.Email = email
		if err := repo.SetConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to write git config: %w", err)
		}
	}
	return &Repo{dir: dir, name: name, email: email, repo: repo}, nil
}

// Commit stages path (which must live under the repo directory) and
// commits it with msg. Returns the commit hash, or "" when the file is
// unchanged since the last commit.
func (r *Repo) Commit(path, msg string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absDir, err := filepath.Abs(r.dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q is not under snapshot dir %q", path, r.dir)
	}

	w, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}
	if _, err := w.Add(rel); err != nil {
		return "", fmt.Errorf("failed to stage %q: %w", rel, err)
	}
	status, err := w.Status()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree status: %w", err)
	}
	if status.IsClean() {
		return "", nil
	}

	now := time.Now()
	hash, err := w.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  r.name,
			Email: r.email,
			When:  now,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return hash.String(), nil
}

// Count returns the total number of commits. A repository with no commits
// yet counts as zero, not an error.
func (r *Repo) Count() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iter, err := r.repo.Log(&gogit.LogOptions{})
	if err != nil {
		return 0, nil
	}
	defer iter.Close()
	n := 0
	for {
		if _, err := iter.Next(); err != nil {
			break
		}
		n++
	}
	return n, nil
}
