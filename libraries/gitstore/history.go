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

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CommitsBetween returns the commits reachable from |tip| but not from |upstream|, parents before children. Merge
// commits are skipped, the same as a rebase without --rebase-merges.
// Equivalent plumbing:
//
//	git rev-list --reverse --topo-order --no-merges <upstream>..<tip>
func (r *Repo) CommitsBetween(ctx context.Context, upstream, tip plumbing.Hash) ([]*object.Commit, error) {
	upstreamCommit, err := r.repo.CommitObject(upstream)
	if err != nil {
		return nil, err
	}
	tipCommit, err := r.repo.CommitObject(tip)
	if err != nil {
		return nil, err
	}

	excluded := make(map[plumbing.Hash]bool)
	err = object.NewCommitPreorderIter(upstreamCommit, nil, nil).ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		excluded[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	candidates := make(map[plumbing.Hash]*object.Commit)
	err = object.NewCommitPreorderIter(tipCommit, excluded, nil).ForEach(func(c *object.Commit) error {
		candidates[c.Hash] = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	// depth first from the tip, emitting each commit after all of its candidate parents
	var commits []*object.Commit
	visited := make(map[plumbing.Hash]bool, len(candidates))
	type frame struct {
		c    *object.Commit
		next int
	}
	stack := []frame{{c: tipCommit}}
	if _, ok := candidates[tip]; !ok {
		stack = nil
	}
	visited[tip] = true
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.c.ParentHashes) {
			ph := top.c.ParentHashes[top.next]
			top.next++
			if p, ok := candidates[ph]; ok && !visited[ph] {
				visited[ph] = true
				stack = append(stack, frame{c: p})
			}
			continue
		}
		if top.c.NumParents() <= 1 {
			commits = append(commits, top.c)
		}
		stack = stack[:len(stack)-1]
	}
	return commits, nil
}

// IsAncestor returns whether |ancestor| is reachable from |descendant|.
// Equivalent plumbing:
//
//	git merge-base --is-ancestor <ancestor> <descendant>
func (r *Repo) IsAncestor(ctx context.Context, ancestor, descendant plumbing.Hash) (bool, error) {
	a, err := r.repo.CommitObject(ancestor)
	if err != nil {
		return false, err
	}
	d, err := r.repo.CommitObject(descendant)
	if err != nil {
		return false, err
	}
	return a.IsAncestor(d)
}
