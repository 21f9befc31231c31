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

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage"
)

// OrigHead is the ref recording the branch tip from before a history rewriting command.
const OrigHead plumbing.ReferenceName = "ORIG_HEAD"

// Head returns the commit HEAD resolves to.
// Equivalent plumbing:
//
//	git rev-parse HEAD
func (r *Repo) Head(ctx context.Context) (plumbing.Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return ref.Hash(), nil
}

// HeadBranch returns the branch HEAD points at. It returns ok=false if HEAD is detached.
// Equivalent plumbing:
//
//	git symbolic-ref -q HEAD
func (r *Repo) HeadBranch(ctx context.Context) (branch plumbing.ReferenceName, ok bool, err error) {
	ref, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", false, err
	}
	if ref.Type() != plumbing.SymbolicReference {
		return "", false, nil
	}
	return ref.Target(), true, nil
}

// DetachHead points HEAD directly at |h|.
// Equivalent plumbing:
//
//	git update-ref --no-deref HEAD <h>
func (r *Repo) DetachHead(ctx context.Context, h plumbing.Hash) error {
	r.lgr.Tracef("gitstore: detaching HEAD at %s", h)
	return r.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, h))
}

// AttachHead points HEAD at |branch|.
// Equivalent plumbing:
//
//	git symbolic-ref HEAD <branch>
func (r *Repo) AttachHead(ctx context.Context, branch plumbing.ReferenceName) error {
	r.lgr.Tracef("gitstore: attaching HEAD to %s", branch)
	return r.repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branch))
}

// ResolveRef returns the commit |name| points at. It returns ok=false if the ref does not exist.
// Equivalent plumbing:
//
//	git rev-parse -q --verify <name>
func (r *Repo) ResolveRef(ctx context.Context, name plumbing.ReferenceName) (h plumbing.Hash, ok bool, err error) {
	ref, err := r.repo.Reference(name, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, false, nil
	}
	if err != nil {
		return plumbing.ZeroHash, false, err
	}
	return ref.Hash(), true, nil
}

// SetRef points |name| at |h| without a compare-and-swap.
// Equivalent plumbing:
//
//	git update-ref <name> <h>
func (r *Repo) SetRef(ctx context.Context, name plumbing.ReferenceName, h plumbing.Hash) error {
	r.lgr.Tracef("gitstore: setting %s to %s", name, h)
	return r.repo.Storer.SetReference(plumbing.NewHashReference(name, h))
}

// UpdateRefCAS atomically moves |name| from |oldHash| to |newHash|. A zero |oldHash| requires the ref to not exist.
// Returns ErrRefMoved if the ref is not at |oldHash|.
// Equivalent plumbing:
//
//	git update-ref <name> <new> <old>
func (r *Repo) UpdateRefCAS(ctx context.Context, name plumbing.ReferenceName, newHash, oldHash plumbing.Hash) error {
	current, exists, err := r.ResolveRef(ctx, name)
	if err != nil {
		return err
	}
	if exists != !oldHash.IsZero() || current != oldHash {
		return ErrRefMoved.New(name, oldHash, current)
	}

	newRef := plumbing.NewHashReference(name, newHash)
	if !exists {
		return r.repo.Storer.SetReference(newRef)
	}

	r.lgr.Tracef("gitstore: moving %s from %s to %s", name, oldHash, newHash)
	err = r.repo.Storer.CheckAndSetReference(newRef, plumbing.NewHashReference(name, oldHash))
	if errors.Is(err, storage.ErrReferenceHasChanged) {
		return ErrRefMoved.New(name, oldHash, "a concurrently updated commit")
	}
	return err
}

// RemoveRef deletes |name|. Removing a ref which does not exist is not an error.
// Equivalent plumbing:
//
//	git update-ref -d <name>
func (r *Repo) RemoveRef(ctx context.Context, name plumbing.ReferenceName) error {
	return r.repo.Storer.RemoveReference(name)
}
