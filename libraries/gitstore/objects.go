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
	"io"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/dolthub/gitrebase/libraries/merge"
)

// ResolveCommit resolves the revision |rev| to a commit hash.
// Equivalent plumbing:
//
//	git rev-parse --verify <rev>^{commit}
func (r *Repo) ResolveCommit(ctx context.Context, rev string) (plumbing.Hash, error) {
	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if _, err := r.repo.CommitObject(*h); err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return plumbing.ZeroHash, ErrNotACommit.New(rev)
		}
		return plumbing.ZeroHash, err
	}
	return *h, nil
}

// Commit returns the commit object |h|.
func (r *Repo) Commit(ctx context.Context, h plumbing.Hash) (*object.Commit, error) {
	return r.repo.CommitObject(h)
}

// HasCommit returns whether |h| names a commit in the object database.
func (r *Repo) HasCommit(ctx context.Context, h plumbing.Hash) (bool, error) {
	_, ok, err := r.CommitParentCount(ctx, h)
	return ok, err
}

// CommitParentCount returns the number of parents of commit |h|. |ok| is false if |h| names no commit in the object
// database.
func (r *Repo) CommitParentCount(ctx context.Context, h plumbing.Hash) (parents int, ok bool, err error) {
	c, err := r.repo.CommitObject(h)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return c.NumParents(), true, nil
}

// ReadBlob returns the contents of blob |h|.
// Equivalent plumbing:
//
//	git cat-file blob <h>
func (r *Repo) ReadBlob(ctx context.Context, h plumbing.Hash) ([]byte, error) {
	blob, err := r.repo.BlobObject(h)
	if err != nil {
		return nil, err
	}
	rd, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	return io.ReadAll(rd)
}

// WriteBlob writes |data| as a blob object and returns its hash.
// Equivalent plumbing:
//
//	git hash-object -w --stdin
func (r *Repo) WriteBlob(ctx context.Context, data []byte) (plumbing.Hash, error) {
	obj := r.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return plumbing.ZeroHash, err
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, err
	}
	return r.repo.Storer.SetEncodedObject(obj)
}

// FlattenTree returns every blob reachable from tree |h| keyed by its full path. The zero hash is the empty tree.
// Returned trees are cached and shared, callers must not modify them.
// Equivalent plumbing:
//
//	git ls-tree -r <h>
func (r *Repo) FlattenTree(ctx context.Context, h plumbing.Hash) (merge.Tree, error) {
	if h.IsZero() {
		return merge.Tree{}, nil
	}
	if t, ok := r.trees.Get(h); ok {
		return t, nil
	}

	tree, err := r.repo.TreeObject(h)
	if err != nil {
		return nil, err
	}
	flat := make(merge.Tree)
	err = tree.Files().ForEach(func(f *object.File) error {
		flat[f.Name] = merge.Entry{Hash: f.Hash, Mode: f.Mode}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.trees.Add(h, flat)
	return flat, nil
}

// CommitTree returns the flattened tree of commit |c|.
func (r *Repo) CommitTree(ctx context.Context, c *object.Commit) (merge.Tree, error) {
	return r.FlattenTree(ctx, c.TreeHash)
}

type dirNode struct {
	files map[string]merge.Entry
	dirs  map[string]*dirNode
}

func newDirNode() *dirNode {
	return &dirNode{files: make(map[string]merge.Entry), dirs: make(map[string]*dirNode)}
}

// WriteTree writes the tree objects for |t| and returns the hash of the root tree.
// Equivalent plumbing:
//
//	git write-tree
func (r *Repo) WriteTree(ctx context.Context, t merge.Tree) (plumbing.Hash, error) {
	root := newDirNode()
	for p, e := range t {
		dir := root
		parts := strings.Split(p, "/")
		for _, part := range parts[:len(parts)-1] {
			child, ok := dir.dirs[part]
			if !ok {
				child = newDirNode()
				dir.dirs[part] = child
			}
			dir = child
		}
		dir.files[parts[len(parts)-1]] = e
	}

	return r.writeDir(ctx, root)
}

func (r *Repo) writeDir(ctx context.Context, dir *dirNode) (plumbing.Hash, error) {
	entries := make([]object.TreeEntry, 0, len(dir.files)+len(dir.dirs))
	for name, e := range dir.files {
		entries = append(entries, object.TreeEntry{Name: name, Mode: e.Mode, Hash: e.Hash})
	}
	for name, child := range dir.dirs {
		h, err := r.writeDir(ctx, child)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		entries = append(entries, object.TreeEntry{Name: name, Mode: filemode.Dir, Hash: h})
	}

	// git orders tree entries as if directory names had a trailing slash
	sortKey := func(e object.TreeEntry) string {
		if e.Mode == filemode.Dir {
			return e.Name + "/"
		}
		return e.Name
	}
	sort.Slice(entries, func(i, j int) bool { return sortKey(entries[i]) < sortKey(entries[j]) })

	tree := &object.Tree{Entries: entries}
	obj := r.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, err
	}
	return r.repo.Storer.SetEncodedObject(obj)
}

// CreateCommit writes a commit object and returns its hash. No refs are updated.
// Equivalent plumbing:
//
//	git commit-tree <tree> [-p <parent>...] -m <message>
func (r *Repo) CreateCommit(ctx context.Context, tree plumbing.Hash, parents []plumbing.Hash, author, committer object.Signature, message string) (plumbing.Hash, error) {
	c := &object.Commit{
		Author:       author,
		Committer:    committer,
		Message:      message,
		TreeHash:     tree,
		ParentHashes: parents,
	}
	obj := r.repo.Storer.NewEncodedObject()
	if err := c.Encode(obj); err != nil {
		return plumbing.ZeroHash, err
	}
	return r.repo.Storer.SetEncodedObject(obj)
}

// ParentTree returns the flattened tree of |c|'s only parent, or the empty tree for a root commit.
func (r *Repo) ParentTree(ctx context.Context, c *object.Commit) (merge.Tree, error) {
	if c.NumParents() == 0 {
		return merge.Tree{}, nil
	}
	parent, err := r.repo.CommitObject(c.ParentHashes[0])
	if err != nil {
		return nil, err
	}
	return r.CommitTree(ctx, parent)
}

func parentDirs(p string) []string {
	var dirs []string
	for d := path.Dir(p); d != "." && d != "/"; d = path.Dir(d) {
		dirs = append(dirs, d)
	}
	return dirs
}
