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

// Package merge implements a three-way merge of flattened git trees. Paths merge independently; a path changed
// differently on both sides is merged line by line when all versions are text, and is a conflict otherwise.
package merge

import (
	"context"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// Entry is a blob in a tree.
type Entry struct {
	Hash plumbing.Hash
	Mode filemode.FileMode
}

func (e *Entry) equal(o *Entry) bool {
	if e == nil || o == nil {
		return e == nil && o == nil
	}
	return e.Hash == o.Hash && e.Mode == o.Mode
}

func (e *Entry) isText() bool {
	return e != nil && (e.Mode == filemode.Regular || e.Mode == filemode.Executable || e.Mode == filemode.Deprecated)
}

// Tree maps slash separated paths to the blobs at those paths. Directories are implied by their contents.
type Tree map[string]Entry

func (t Tree) lookup(path string) *Entry {
	if e, ok := t[path]; ok {
		return &e
	}
	return nil
}

// BlobStore reads and writes blob content.
type BlobStore interface {
	ReadBlob(ctx context.Context, h plumbing.Hash) ([]byte, error)
	WriteBlob(ctx context.Context, data []byte) (plumbing.Hash, error)
}

// Conflict is a path which could not be merged. Each side is nil if the path does not exist on that side.
type Conflict struct {
	Path   string
	Base   *Entry
	Ours   *Entry
	Theirs *Entry
}

// Result is a merged tree. Conflicting paths are absent from Tree and listed in Conflicts, sorted by path.
type Result struct {
	Tree      Tree
	Conflicts []Conflict
}

func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// ConflictPaths returns the sorted paths of every conflict.
func (r *Result) ConflictPaths() []string {
	paths := make([]string, len(r.Conflicts))
	for i, c := range r.Conflicts {
		paths[i] = c.Path
	}
	return paths
}

// Trees merges the changes from |base| to |theirs| into |ours|. Clean line merges write new blobs to |blobs|.
func Trees(ctx context.Context, blobs BlobStore, base, ours, theirs Tree) (*Result, error) {
	all := make(map[string]struct{}, len(base)+len(ours)+len(theirs))
	for _, t := range []Tree{base, ours, theirs} {
		for p := range t {
			all[p] = struct{}{}
		}
	}

	res := &Result{Tree: make(Tree, len(all))}
	for p := range all {
		b, o, t := base.lookup(p), ours.lookup(p), theirs.lookup(p)

		if o.equal(t) {
			if o != nil {
				res.Tree[p] = *o
			}
			continue
		}
		if o.equal(b) {
			if t != nil {
				res.Tree[p] = *t
			}
			continue
		}
		if t.equal(b) {
			if o != nil {
				res.Tree[p] = *o
			}
			continue
		}

		merged, ok, err := mergeBlobs(ctx, blobs, b, o, t)
		if err != nil {
			return nil, err
		}
		if ok {
			res.Tree[p] = merged
		} else {
			res.Conflicts = append(res.Conflicts, Conflict{Path: p, Base: b, Ours: o, Theirs: t})
		}
	}

	res.resolveDirectoryCollisions()
	sort.Slice(res.Conflicts, func(i, j int) bool { return res.Conflicts[i].Path < res.Conflicts[j].Path })
	return res, nil
}

// mergeBlobs attempts a line merge of a path both sides changed. It returns false if the path conflicts.
func mergeBlobs(ctx context.Context, blobs BlobStore, base, ours, theirs *Entry) (Entry, bool, error) {
	if !ours.isText() || !theirs.isText() || (base != nil && !base.isText()) {
		return Entry{}, false, nil
	}

	mode, ok := mergeModes(base, ours, theirs)
	if !ok {
		return Entry{}, false, nil
	}

	var baseData []byte
	var err error
	if base != nil {
		baseData, err = blobs.ReadBlob(ctx, base.Hash)
		if err != nil {
			return Entry{}, false, err
		}
	}
	oursData, err := blobs.ReadBlob(ctx, ours.Hash)
	if err != nil {
		return Entry{}, false, err
	}
	theirsData, err := blobs.ReadBlob(ctx, theirs.Hash)
	if err != nil {
		return Entry{}, false, err
	}
	if IsBinary(baseData) || IsBinary(oursData) || IsBinary(theirsData) {
		return Entry{}, false, nil
	}

	tr := Text(baseData, oursData, theirsData, MarkerOptions{})
	if tr.Conflicted {
		return Entry{}, false, nil
	}

	h, err := blobs.WriteBlob(ctx, tr.Merged)
	if err != nil {
		return Entry{}, false, err
	}
	return Entry{Hash: h, Mode: mode}, true, nil
}

func mergeModes(base, ours, theirs *Entry) (filemode.FileMode, bool) {
	switch {
	case ours.Mode == theirs.Mode:
		return ours.Mode, true
	case base != nil && ours.Mode == base.Mode:
		return theirs.Mode, true
	case base != nil && theirs.Mode == base.Mode:
		return ours.Mode, true
	}
	return 0, false
}

// resolveDirectoryCollisions turns merged files which collide with a merged directory into conflicts.
func (r *Result) resolveDirectoryCollisions() {
	paths := make([]string, 0, len(r.Tree))
	for p := range r.Tree {
		paths = append(paths, p)
	}
	for _, c := range r.Conflicts {
		paths = append(paths, c.Path)
	}
	sort.Strings(paths)

	for i := 0; i+1 < len(paths); i++ {
		file := paths[i]
		if !strings.HasPrefix(paths[i+1], file+"/") {
			continue
		}
		e, ok := r.Tree[file]
		if !ok {
			continue
		}
		delete(r.Tree, file)
		r.Conflicts = append(r.Conflicts, Conflict{Path: file, Ours: &e})
	}
}

// RenderConflict returns the content to place in the working tree for |c|. Text conflicts get conflict markers
// around each region both sides changed. Other conflicts keep our version if there is one and theirs otherwise.
func RenderConflict(ctx context.Context, blobs BlobStore, c Conflict, opts MarkerOptions) ([]byte, error) {
	read := func(e *Entry) ([]byte, error) {
		if e == nil {
			return nil, nil
		}
		return blobs.ReadBlob(ctx, e.Hash)
	}

	base, err := read(c.Base)
	if err != nil {
		return nil, err
	}
	ours, err := read(c.Ours)
	if err != nil {
		return nil, err
	}
	theirs, err := read(c.Theirs)
	if err != nil {
		return nil, err
	}

	if c.Ours.isText() && c.Theirs.isText() && !IsBinary(base) && !IsBinary(ours) && !IsBinary(theirs) {
		return Text(base, ours, theirs, opts).Merged, nil
	}
	if c.Ours != nil {
		return ours, nil
	}
	return theirs, nil
}
