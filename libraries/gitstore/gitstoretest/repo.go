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

// Package gitstoretest builds in memory repositories for tests.
package gitstoretest

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/gitrebase/libraries/gitstore"
)

const (
	TestName  = "billy bob"
	TestEmail = "bigbillieb@fake.horse"
	// DefaultBranch is the branch HEAD points at in a new test repository.
	DefaultBranch = "main"
)

// TestRepo is an in memory repository with a memfs working tree.
type TestRepo struct {
	t    testing.TB
	Git  *git.Repository
	Repo *gitstore.Repo
	FS   billy.Filesystem

	clock time.Time
}

// New creates an empty repository with HEAD on DefaultBranch.
func New(t testing.TB) *TestRepo {
	fs := memfs.New()
	r, err := git.InitWithOptions(memory.NewStorage(), fs, git.InitOptions{
		DefaultBranch: plumbing.NewBranchReferenceName(DefaultBranch),
	})
	require.NoError(t, err)
	repo, err := gitstore.Wrap(r)
	require.NoError(t, err)

	return &TestRepo{
		t:     t,
		Git:   r,
		Repo:  repo,
		FS:    fs,
		clock: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Signature returns the test identity with a timestamp one minute after the previous signature.
func (tr *TestRepo) Signature() object.Signature {
	tr.clock = tr.clock.Add(time.Minute)
	return object.Signature{Name: TestName, Email: TestEmail, When: tr.clock}
}

// Commit writes |files|, removes |deleted|, and commits everything on the current HEAD.
func (tr *TestRepo) Commit(msg string, files map[string]string, deleted ...string) plumbing.Hash {
	for _, p := range sortedKeys(files) {
		tr.WriteFile(p, files[p])
	}

	wt, err := tr.Git.Worktree()
	require.NoError(tr.t, err)
	for _, p := range deleted {
		_, err := wt.Remove(p)
		require.NoError(tr.t, err)
	}
	require.NoError(tr.t, wt.AddWithOptions(&git.AddOptions{All: true}))

	sig := tr.Signature()
	h, err := wt.Commit(msg, &git.CommitOptions{Author: &sig, Committer: &sig, AllowEmptyCommits: true})
	require.NoError(tr.t, err)
	return h
}

// Checkout switches HEAD to |branch|, creating it at the current HEAD if |create| is set.
func (tr *TestRepo) Checkout(branch string, create bool) {
	wt, err := tr.Git.Worktree()
	require.NoError(tr.t, err)
	require.NoError(tr.t, wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	}))
}

// BranchHead returns the commit |branch| points at.
func (tr *TestRepo) BranchHead(branch string) plumbing.Hash {
	ref, err := tr.Git.Reference(plumbing.NewBranchReferenceName(branch), true)
	require.NoError(tr.t, err)
	return ref.Hash()
}

// Head returns the commit HEAD resolves to.
func (tr *TestRepo) Head() plumbing.Hash {
	h, err := tr.Repo.Head(context.Background())
	require.NoError(tr.t, err)
	return h
}

func (tr *TestRepo) WriteFile(p, content string) {
	require.NoError(tr.t, util.WriteFile(tr.FS, p, []byte(content), 0644))
}

// ReadFile returns the working tree contents of |p|.
func (tr *TestRepo) ReadFile(p string) string {
	data, err := util.ReadFile(tr.FS, p)
	require.NoError(tr.t, err)
	return string(data)
}

// Exists returns whether |p| exists in the working tree.
func (tr *TestRepo) Exists(p string) bool {
	_, err := tr.FS.Lstat(p)
	return err == nil
}

// Files returns the contents of every file in |commit|'s tree.
func (tr *TestRepo) Files(commit plumbing.Hash) map[string]string {
	c, err := tr.Git.CommitObject(commit)
	require.NoError(tr.t, err)
	tree, err := c.Tree()
	require.NoError(tr.t, err)

	files := make(map[string]string)
	require.NoError(tr.t, tree.Files().ForEach(func(f *object.File) error {
		contents, err := f.Contents()
		if err != nil {
			return err
		}
		files[f.Name] = contents
		return nil
	}))
	return files
}

// Messages returns the commit messages from |tip| back to, but not including, |stop|, newest first.
func (tr *TestRepo) Messages(tip, stop plumbing.Hash) []string {
	var msgs []string
	for h := tip; h != stop; {
		c, err := tr.Git.CommitObject(h)
		require.NoError(tr.t, err)
		msgs = append(msgs, c.Message)
		if c.NumParents() == 0 {
			break
		}
		h = c.ParentHashes[0]
	}
	return msgs
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
