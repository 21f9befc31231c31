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
	"sort"

	"github.com/go-git/go-git/v5/plumbing/format/index"

	"github.com/dolthub/gitrebase/libraries/merge"
)

const indexVersion = 2

// stageMerged is the stage of a merged entry as read and written by go-git. index.Merged is 1, the same value as
// index.AncestorMode, and does not match the on-disk encoding.
const stageMerged index.Stage = 0

// WriteMergeResult replaces the index with |res|. Merged paths are written at stage 0 and every conflict is written
// as its base, ours and theirs stages.
// Equivalent plumbing:
//
//	git read-tree -m <base> <ours> <theirs>
func (r *Repo) WriteMergeResult(ctx context.Context, res *merge.Result) error {
	idx := &index.Index{Version: indexVersion}
	for p, e := range res.Tree {
		idx.Entries = append(idx.Entries, &index.Entry{Name: p, Hash: e.Hash, Mode: e.Mode, Stage: stageMerged})
	}
	for _, c := range res.Conflicts {
		for _, st := range []struct {
			e     *merge.Entry
			stage index.Stage
		}{
			{c.Base, index.AncestorMode},
			{c.Ours, index.OurMode},
			{c.Theirs, index.TheirMode},
		} {
			if st.e == nil {
				continue
			}
			idx.Entries = append(idx.Entries, &index.Entry{Name: c.Path, Hash: st.e.Hash, Mode: st.e.Mode, Stage: st.stage})
		}
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

// WriteTreeToIndex replaces the index with the fully merged tree |t|.
// Equivalent plumbing:
//
//	git read-tree <tree>
func (r *Repo) WriteTreeToIndex(ctx context.Context, t merge.Tree) error {
	return r.WriteMergeResult(ctx, &merge.Result{Tree: t})
}

// UnmergedPaths returns the sorted, distinct paths with entries at a non-zero stage.
// Equivalent plumbing:
//
//	git diff --name-only --diff-filter=U
func (r *Repo) UnmergedPaths(ctx context.Context) ([]string, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, err
	}

	var paths []string
	seen := make(map[string]struct{})
	for _, e := range idx.Entries {
		if e.Stage == stageMerged {
			continue
		}
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		paths = append(paths, e.Name)
	}
	sort.Strings(paths)
	return paths, nil
}

// IndexTree returns the stage 0 entries of the index as a tree. It returns ErrUnmergedEntries if any path still has
// conflict stages.
func (r *Repo) IndexTree(ctx context.Context) (merge.Tree, error) {
	unmerged, err := r.UnmergedPaths(ctx)
	if err != nil {
		return nil, err
	}
	if len(unmerged) > 0 {
		return nil, ErrUnmergedEntries.New(unmerged)
	}

	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, err
	}
	t := make(merge.Tree, len(idx.Entries))
	for _, e := range idx.Entries {
		if e.Stage != stageMerged {
			continue
		}
		t[e.Name] = merge.Entry{Hash: e.Hash, Mode: e.Mode}
	}
	return t, nil
}

// indexPaths returns every path in the index at any stage.
func (r *Repo) indexPaths(ctx context.Context) (map[string]struct{}, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, err
	}
	paths := make(map[string]struct{}, len(idx.Entries))
	for _, e := range idx.Entries {
		paths[e.Name] = struct{}{}
	}
	return paths, nil
}
