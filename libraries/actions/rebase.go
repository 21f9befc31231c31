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

package actions

import (
	"context"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/gitrebase/libraries/gitstore"
	"github.com/dolthub/gitrebase/libraries/rebase"
	"github.com/dolthub/gitrebase/libraries/sequencer"
)

const (
	SuccessfulRebaseMessage = "Successfully rebased and updated "
	RebaseAbortedMessage    = "Rebase aborted"
)

// ErrEmptyPlan is returned when an edited plan has no steps left. The rebase is not started.
var ErrEmptyPlan = goerrors.NewKind("nothing to do: the rebase plan is empty")

// ErrBranchNotFound is returned when the branch to rebase does not exist.
var ErrBranchNotFound = goerrors.NewKind("branch not found: %s")

// PlanEditor lets a user edit todo text before a rebase starts.
type PlanEditor func(ctx context.Context, todo string) (string, error)

// StartOptions describes a rebase to start.
type StartOptions struct {
	// Upstream is the revision whose history the rebased commits are replayed past. Required.
	Upstream string
	// Onto is the revision the commits are replayed on. Defaults to Upstream.
	Onto string
	// Branch is the branch to rebase. Defaults to the branch HEAD is on, or the detached HEAD.
	Branch string
	// Plan replaces the default plan of picking every commit in Upstream..Branch.
	Plan *rebase.Plan
	// EditPlan, if set, is given the todo text of the plan and returns the plan to run.
	EditPlan PlanEditor
	Run      rebase.Options
}

// StartRebase begins a rebase of the commits reachable from the branch but not from the upstream, replaying them on
// the onto commit, and runs it until it completes or halts. State is persisted to |fs| so the rebase can be continued
// or aborted by a later call.
func StartRebase(ctx context.Context, repo *gitstore.Repo, fs billy.Filesystem, committer object.Signature, opts StartOptions) (*rebase.Result, error) {
	inProgress, err := sequencer.InProgress(fs)
	if err != nil {
		return nil, err
	}
	if inProgress {
		return nil, sequencer.ErrRebaseInProgress.New()
	}

	upstream, err := repo.ResolveCommit(ctx, opts.Upstream)
	if err != nil {
		return nil, err
	}
	onto := upstream
	if opts.Onto != "" {
		if onto, err = repo.ResolveCommit(ctx, opts.Onto); err != nil {
			return nil, err
		}
	}
	branch, tip, err := resolveBranch(ctx, repo, opts.Branch)
	if err != nil {
		return nil, err
	}

	plan := opts.Plan
	if plan == nil {
		commits, err := repo.CommitsBetween(ctx, upstream, tip)
		if err != nil {
			return nil, err
		}
		planCommits := make([]rebase.PlanCommit, len(commits))
		for i, c := range commits {
			planCommits[i] = rebase.PlanCommit{Hash: c.Hash, Message: c.Message}
		}
		plan = rebase.NewDefaultPlan(planCommits)
	}

	if opts.EditPlan != nil {
		edited, err := opts.EditPlan(ctx, rebase.BuildEditableTodo(plan, upstream, tip, onto))
		if err != nil {
			return nil, err
		}
		if plan, err = rebase.ParseTodo(edited); err != nil {
			return nil, err
		}
		if len(plan.Steps) == 0 {
			return nil, ErrEmptyPlan.New()
		}
	}

	if err := rebase.ValidatePlan(ctx, plan, repo); err != nil {
		return nil, err
	}

	seq, err := sequencer.Init(ctx, repo, fs, sequencer.InitOptions{
		Branch:   branch,
		OrigHead: tip,
		Onto:     onto,
		Plan:     plan,
		Logger:   opts.Run.Logger,
	})
	if err != nil {
		return nil, err
	}
	return rebase.Run(ctx, seq, committer, opts.Run, seq.Entry())
}

func resolveBranch(ctx context.Context, repo *gitstore.Repo, name string) (plumbing.ReferenceName, plumbing.Hash, error) {
	if name == "" {
		branch, attached, err := repo.HeadBranch(ctx)
		if err != nil {
			return "", plumbing.ZeroHash, err
		}
		head, err := repo.Head(ctx)
		if err != nil {
			return "", plumbing.ZeroHash, err
		}
		if !attached {
			branch = ""
		}
		return branch, head, nil
	}

	branch := plumbing.NewBranchReferenceName(name)
	tip, ok, err := repo.ResolveRef(ctx, branch)
	if err != nil {
		return "", plumbing.ZeroHash, err
	}
	if !ok {
		return "", plumbing.ZeroHash, ErrBranchNotFound.New(name)
	}
	return branch, tip, nil
}

// ContinueRebase resumes the rebase in progress. A step halted on conflicts is committed once its conflicts are
// resolved. If conflicts remain, a conflicts result is returned and nothing changes.
func ContinueRebase(ctx context.Context, repo *gitstore.Repo, fs billy.Filesystem, committer object.Signature, opts rebase.Options) (*rebase.Result, error) {
	seq, err := sequencer.Open(ctx, repo, fs, opts.Logger)
	if err != nil {
		return nil, err
	}

	if seq.Phase() == sequencer.PhaseApplied {
		cur, err := seq.Current(ctx)
		if err != nil {
			return nil, err
		}
		total, err := seq.Total(ctx)
		if err != nil {
			return nil, err
		}
		conflicts, err := seq.Conflicts(ctx)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return &rebase.Result{Status: rebase.StatusConflicts, CurrentStep: cur, TotalSteps: total, Conflicts: conflicts}, nil
		}

		step, err := seq.StepAt(ctx, cur)
		if err != nil {
			return nil, err
		}
		outcome, err := seq.Commit(ctx, opts.Author, committer)
		if err != nil {
			return nil, err
		}
		if opts.StepCompleted != nil {
			opts.StepCompleted(rebase.StepProgress{Step: step, Current: cur, Total: total}, outcome.NewCommit)
		}
	}

	return rebase.Run(ctx, seq, committer, opts, seq.Entry())
}

// AbortRebase restores the branch, index and working tree to their state before the rebase and discards it.
func AbortRebase(ctx context.Context, repo *gitstore.Repo, fs billy.Filesystem, lgr *logrus.Entry) error {
	seq, err := sequencer.Open(ctx, repo, fs, lgr)
	if err != nil {
		return err
	}
	return seq.Abort(ctx)
}

// Status describes the rebase in progress.
type Status struct {
	InProgress bool
	ID         uuid.UUID
	StartedAt  time.Time
	// Branch is empty when a detached HEAD is being rebased.
	Branch   plumbing.ReferenceName
	Onto     plumbing.Hash
	OrigHead plumbing.Hash
	Current  int
	Total    int
	Phase    sequencer.Phase
	// Step is the step under the cursor, if there is one.
	Step      *rebase.Step
	Conflicts []string
	Rewritten []sequencer.Rewrite
}

// RebaseStatus returns the status of the rebase in progress, or a Status with InProgress unset if there is none.
func RebaseStatus(ctx context.Context, repo *gitstore.Repo, fs billy.Filesystem) (*Status, error) {
	seq, err := sequencer.Open(ctx, repo, fs, nil)
	if sequencer.ErrNoRebaseInProgress.Is(err) {
		return &Status{}, nil
	}
	if err != nil {
		return nil, err
	}

	st := &Status{
		InProgress: true,
		ID:         seq.ID(),
		StartedAt:  seq.StartedAt(),
		Onto:       seq.Onto(),
		OrigHead:   seq.OrigHead(),
		Phase:      seq.Phase(),
		Rewritten:  seq.Rewritten(),
	}
	st.Branch, _ = seq.Branch()
	if st.Current, err = seq.Current(ctx); err != nil {
		return nil, err
	}
	if st.Total, err = seq.Total(ctx); err != nil {
		return nil, err
	}
	if st.Current < st.Total {
		step, err := seq.StepAt(ctx, st.Current)
		if err != nil {
			return nil, err
		}
		st.Step = &step
	}
	if st.Conflicts, err = seq.Conflicts(ctx); err != nil {
		return nil, err
	}
	return st, nil
}
