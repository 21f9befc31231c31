// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gitstore provides the git object, ref, index and working tree operations a rebase needs, backed by go-git.
// Each operation documents the git plumbing command it is equivalent to.
package gitstore

import (
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/gitrebase/libraries/merge"
)

const defaultTreeCacheSize = 256

var (
	// ErrUnmergedEntries is returned when a tree is requested from an index which still has conflicts.
	ErrUnmergedEntries = goerrors.NewKind("index has unmerged entries: %v")
	// ErrRefMoved is returned when a compare-and-swap ref update finds the ref at an unexpected commit.
	ErrRefMoved = goerrors.NewKind("ref %s was expected at %s but is at %s")
	// ErrNoWorktree is returned for worktree operations on a bare repository.
	ErrNoWorktree = goerrors.NewKind("repository has no working tree")
	// ErrNotACommit is returned when a revision does not resolve to a commit.
	ErrNotACommit = goerrors.NewKind("%s is not a commit")
)

// Repo wraps a go-git repository with the operations a rebase performs on it.
type Repo struct {
	repo  *git.Repository
	trees *lru.Cache[plumbing.Hash, merge.Tree]
	lgr   *logrus.Entry
}

// Open opens the repository containing |path|.
func Open(path string) (*Repo, error) {
	r, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	return Wrap(r)
}

// Wrap returns a Repo for an already opened repository.
func Wrap(r *git.Repository) (*Repo, error) {
	trees, err := lru.New[plumbing.Hash, merge.Tree](defaultTreeCacheSize)
	if err != nil {
		return nil, err
	}
	return &Repo{
		repo:  r,
		trees: trees,
		lgr:   logrus.NewEntry(logrus.StandardLogger()),
	}, nil
}

// WithLogger sets the logger used for ref and worktree updates.
func (r *Repo) WithLogger(lgr *logrus.Entry) *Repo {
	r.lgr = lgr
	return r
}

// Repository returns the underlying go-git repository.
func (r *Repo) Repository() *git.Repository {
	return r.repo
}

// Identity returns the user.name and user.email from the repository's config merged over the user's global config.
// Either may be empty.
// Equivalent plumbing:
//
//	git config user.name && git config user.email
func (r *Repo) Identity() (name, email string, err error) {
	cfg, err := r.repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		return "", "", err
	}
	return cfg.User.Name, cfg.User.Email, nil
}

func (r *Repo) worktree() (*git.Worktree, error) {
	wt, err := r.repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return nil, ErrNoWorktree.New()
	}
	return wt, err
}
