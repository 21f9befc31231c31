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

package gitstore

import (
	"context"
	"errors"
	"os"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"

	"github.com/dolthub/gitrebase/libraries/merge"
)

// MaterializeOptions controls how a merge result is written to the working tree.
type MaterializeOptions struct {
	Markers merge.MarkerOptions
	// Force rewrites every path in the result, not only the paths which differ from the current tree.
	Force bool
}

// ResetHard points the current HEAD at |h| and makes the index and working tree match it. Files from the previous
// index which are not part of |h| are removed. If HEAD is attached, the branch it points to is moved.
// Equivalent plumbing:
//
//	git reset --hard <h>
func (r *Repo) ResetHard(ctx context.Context, h plumbing.Hash) error {
	wt, err := r.worktree()
	if err != nil {
		return err
	}
	c, err := r.repo.CommitObject(h)
	if err != nil {
		return err
	}
	target, err := r.CommitTree(ctx, c)
	if err != nil {
		return err
	}
	before, err := r.indexPaths(ctx)
	if err != nil {
		return err
	}

	// conflict stages are dropped before go-git compares the index with the target tree
	if err := r.WriteTreeToIndex(ctx, target); err != nil {
		return err
	}
	if err := wt.Reset(&git.ResetOptions{Commit: h, Mode: git.HardReset}); err != nil {
		return err
	}

	var stale []string
	for p := range before {
		if _, ok := target[p]; !ok {
			stale = append(stale, p)
		}
	}
	return removePaths(wt.Filesystem, stale)
}

// IsClean returns true if the index and working tree match HEAD. Untracked files are ignored.
// Equivalent plumbing:
//
//	git status --porcelain --untracked-files=no
func (r *Repo) IsClean(ctx context.Context) (bool, error) {
	wt, err := r.worktree()
	if err != nil {
		return false, err
	}
	status, err := wt.Status()
	if err != nil {
		return false, err
	}
	for _, s := range status {
		if s.Staging == git.Untracked && s.Worktree == git.Untracked {
			continue
		}
		if s.Staging != git.Unmodified || s.Worktree != git.Unmodified {
			return false, nil
		}
	}
	return true, nil
}

// Materialize writes |res| to the working tree, which is assumed to hold |current|. Changed paths are rewritten,
// conflicts are written with conflict markers, and paths absent from the result are removed.
func (r *Repo) Materialize(ctx context.Context, current merge.Tree, res *merge.Result, opts MaterializeOptions) error {
	wt, err := r.worktree()
	if err != nil {
		return err
	}
	fs := wt.Filesystem

	conflicted := make(map[string]merge.Conflict, len(res.Conflicts))
	for _, c := range res.Conflicts {
		conflicted[c.Path] = c
	}

	var removed []string
	for p := range current {
		_, merged := res.Tree[p]
		_, conflict := conflicted[p]
		if !merged && !conflict {
			removed = append(removed, p)
		}
	}
	if err := removePaths(fs, removed); err != nil {
		return err
	}

	written := make([]string, 0, len(res.Tree))
	for p, e := range res.Tree {
		if cur, ok := current[p]; ok && cur == e && !opts.Force {
			continue
		}
		written = append(written, p)
	}
	sort.Strings(written)
	for _, p := range written {
		e := res.Tree[p]
		data, err := r.ReadBlob(ctx, e.Hash)
		if err != nil {
			return err
		}
		if err := writeFile(fs, p, data, e.Mode); err != nil {
			return err
		}
	}

	for _, c := range res.Conflicts {
		data, err := merge.RenderConflict(ctx, r, c, opts.Markers)
		if err != nil {
			return err
		}
		mode := filemode.Regular
		if c.Ours != nil {
			mode = c.Ours.Mode
		} else if c.Theirs != nil {
			mode = c.Theirs.Mode
		}
		if mode == filemode.Symlink {
			mode = filemode.Regular
		}
		if err := writeFile(fs, c.Path, data, mode); err != nil {
			return err
		}
	}

	r.lgr.Tracef("gitstore: materialized %d changed, %d removed, %d conflicted paths", len(written), len(removed), len(res.Conflicts))
	return nil
}

// MarkResolved stages the working tree contents of |paths|, replacing any conflict stages.
// Equivalent plumbing:
//
//	git add <paths>
func (r *Repo) MarkResolved(ctx context.Context, paths ...string) error {
	wt, err := r.worktree()
	if err != nil {
		return err
	}
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return err
	}

	for _, p := range paths {
		kept := idx.Entries[:0]
		for _, e := range idx.Entries {
			if e.Name != p {
				kept = append(kept, e)
			}
		}
		idx.Entries = kept

		fi, err := wt.Filesystem.Lstat(p)
		if errors.Is(err, os.ErrNotExist) {
			// resolved by deletion
			continue
		}
		if err != nil {
			return err
		}
		data, err := util.ReadFile(wt.Filesystem, p)
		if err != nil {
			return err
		}
		h, err := r.WriteBlob(ctx, data)
		if err != nil {
			return err
		}
		mode, err := filemode.NewFromOSFileMode(fi.Mode())
		if err != nil {
			return err
		}
		idx.Entries = append(idx.Entries, &index.Entry{
			Name:       p,
			Hash:       h,
			Mode:       mode,
			Size:       uint32(fi.Size()),
			ModifiedAt: fi.ModTime(),
		})
	}

	sort.Slice(idx.Entries, func(i, j int) bool {
		a, b := idx.Entries[i], idx.Entries[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Stage < b.Stage
	})
	return r.repo.Storer.SetIndex(idx)
}

func writeFile(fs billy.Filesystem, p string, data []byte, mode filemode.FileMode) error {
	if dir := path.Dir(p); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if _, err := fs.Lstat(p); err == nil {
		if err := fs.Remove(p); err != nil {
			return err
		}
	}

	if mode == filemode.Symlink {
		return fs.Symlink(string(data), p)
	}
	perm := os.FileMode(0644)
	if mode == filemode.Executable {
		perm = 0755
	}
	return util.WriteFile(fs, p, data, perm)
}

// removePaths removes files and then any directories they leave empty.
func removePaths(fs billy.Filesystem, paths []string) error {
	dirs := make(map[string]struct{})
	for _, p := range paths {
		if err := fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		for _, d := range parentDirs(p) {
			dirs[d] = struct{}{}
		}
	}

	// deepest first, so that parents are only checked once their children are gone
	ordered := make([]string, 0, len(dirs))
	for d := range dirs {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })
	for _, d := range ordered {
		entries, err := fs.ReadDir(d)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			if err := fs.Remove(d); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
		}
	}
	return nil
}
