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

// Package sequencer persists an in progress rebase and implements the primitives the rebase driver calls to apply,
// commit, and finish its steps against a git repository.
package sequencer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/gitrebase/libraries/gitstore"
	"github.com/dolthub/gitrebase/libraries/merge"
	"github.com/dolthub/gitrebase/libraries/rebase"
)

var _ rebase.Operation = (*Sequencer)(nil)

// Sequencer is a rebase in progress. Every change to its cursor is persisted to the state directory before the
// repository is touched, so a rebase can be resumed by a later process with Open.
type Sequencer struct {
	repo *gitstore.Repo
	fs   billy.Filesystem
	st   *state
	lgr  *logrus.Entry
}

// InitOptions describes a new rebase.
type InitOptions struct {
	// Branch is the branch being rebased. If empty, the detached HEAD is rebased.
	Branch plumbing.ReferenceName
	// OrigHead is the commit the rebased history currently ends at.
	OrigHead plumbing.Hash
	// Onto is the commit the steps are replayed on.
	Onto plumbing.Hash
	Plan *rebase.Plan
	// Now is the start time recorded in the state. Defaults to time.Now.
	Now    func() time.Time
	Logger *logrus.Entry
}

// Init starts a rebase. The state is written to |fs|, which should be rooted at the repository's git dir, and HEAD
// is detached at the onto commit. The working tree must be clean.
func Init(ctx context.Context, repo *gitstore.Repo, fs billy.Filesystem, opts InitOptions) (*Sequencer, error) {
	inProgress, err := InProgress(fs)
	if err != nil {
		return nil, err
	}
	if inProgress {
		return nil, ErrRebaseInProgress.New()
	}
	clean, err := repo.IsClean(ctx)
	if err != nil {
		return nil, err
	}
	if !clean {
		return nil, ErrUncommittedChanges.New()
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	s := &Sequencer{
		repo: repo,
		fs:   fs,
		lgr:  loggerOrDefault(opts.Logger),
		st: &state{
			headName:  opts.Branch,
			onto:      opts.Onto,
			origHead:  opts.OrigHead,
			plan:      opts.Plan,
			phase:     PhasePending,
			id:        uuid.New(),
			startedAt: now(),
		},
	}
	s.lgr = s.lgr.WithField("rebase_id", s.st.id.String())

	if opts.Branch != "" {
		branch, attached, err := repo.HeadBranch(ctx)
		if err != nil {
			return nil, err
		}
		if !attached || branch != opts.Branch {
			if err := repo.AttachHead(ctx, opts.Branch); err != nil {
				return nil, err
			}
			if err := repo.ResetHard(ctx, opts.OrigHead); err != nil {
				return nil, err
			}
		}
	}

	if err := repo.DetachHead(ctx, opts.OrigHead); err != nil {
		return nil, err
	}
	if err := repo.ResetHard(ctx, opts.Onto); err != nil {
		s.rollbackInit(ctx, err)
		return nil, err
	}
	// The state is written last so a failure above never leaves a rebase that claims to be in progress.
	if err := s.st.save(fs); err != nil {
		s.rollbackInit(ctx, err)
		return nil, err
	}

	s.lgr.WithFields(logrus.Fields{
		"branch": opts.Branch.Short(),
		"onto":   opts.Onto.String(),
		"steps":  len(opts.Plan.Steps),
	}).Debug("sequencer: rebase started")
	return s, nil
}

// rollbackInit puts HEAD back where Init found it and removes any partially written state.
func (s *Sequencer) rollbackInit(ctx context.Context, cause error) {
	lgr := s.lgr.WithError(cause)
	var err error
	if s.st.headName != "" {
		err = s.repo.AttachHead(ctx, s.st.headName)
	} else {
		err = s.repo.DetachHead(ctx, s.st.origHead)
	}
	if err == nil {
		err = s.repo.ResetHard(ctx, s.st.origHead)
	}
	if rmErr := removeState(s.fs); err == nil {
		err = rmErr
	}
	if err != nil {
		lgr.WithField("rollback_error", err.Error()).Warn("sequencer: could not roll back failed start")
		return
	}
	lgr.Debug("sequencer: start failed, rolled back")
}

// Open loads the rebase in progress from |fs|. It returns ErrNoRebaseInProgress if there is none.
func Open(ctx context.Context, repo *gitstore.Repo, fs billy.Filesystem, lgr *logrus.Entry) (*Sequencer, error) {
	st, err := loadState(fs)
	if err != nil {
		return nil, err
	}
	return &Sequencer{
		repo: repo,
		fs:   fs,
		st:   st,
		lgr:  loggerOrDefault(lgr).WithField("rebase_id", st.id.String()),
	}, nil
}

func loggerOrDefault(lgr *logrus.Entry) *logrus.Entry {
	if lgr != nil {
		return lgr
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func (s *Sequencer) ID() uuid.UUID {
	return s.st.id
}

func (s *Sequencer) StartedAt() time.Time {
	return s.st.startedAt
}

// Branch returns the branch being rebased, or ok=false if a detached HEAD is being rebased.
func (s *Sequencer) Branch() (plumbing.ReferenceName, bool) {
	return s.st.headName, s.st.headName != ""
}

func (s *Sequencer) Onto() plumbing.Hash {
	return s.st.onto
}

func (s *Sequencer) OrigHead() plumbing.Hash {
	return s.st.origHead
}

func (s *Sequencer) Plan() *rebase.Plan {
	return s.st.plan
}

func (s *Sequencer) Phase() Phase {
	return s.st.phase
}

// Rewritten returns the commits created so far, in the order they were created.
func (s *Sequencer) Rewritten() []Rewrite {
	return append([]Rewrite(nil), s.st.rewritten...)
}

// Entry returns how a run resuming this rebase should treat the cursor.
func (s *Sequencer) Entry() rebase.Entry {
	if s.st.phase == PhasePending {
		return rebase.ContinuingEntry
	}
	return rebase.FreshEntry
}

func (s *Sequencer) Current(ctx context.Context) (int, error) {
	return s.st.cursor, nil
}

func (s *Sequencer) Total(ctx context.Context) (int, error) {
	return len(s.st.plan.Steps), nil
}

func (s *Sequencer) StepAt(ctx context.Context, i int) (rebase.Step, error) {
	if i < 0 || i >= len(s.st.plan.Steps) {
		return rebase.Step{}, ErrStepOutOfRange.New(i, len(s.st.plan.Steps))
	}
	return s.st.plan.Steps[i], nil
}

// ApplyNext applies the step under the cursor if it is pending, otherwise it advances the cursor and applies that
// step. Picks are three-way merged into the index and working tree. Other actions are reported without touching
// the tree.
func (s *Sequencer) ApplyNext(ctx context.Context, opts rebase.CheckoutOptions) (rebase.ApplyReport, error) {
	target := s.st.cursor
	switch s.st.phase {
	case PhaseApplied:
		return rebase.ApplyReport{}, ErrStepPending.New(s.st.cursor)
	case PhaseSettled:
		target++
	}
	if target >= len(s.st.plan.Steps) {
		return rebase.ApplyReport{}, ErrNoMoreSteps.New()
	}
	step := s.st.plan.Steps[target]

	if !opts.Force {
		clean, err := s.repo.IsClean(ctx)
		if err != nil {
			return rebase.ApplyReport{}, err
		}
		if !clean {
			return rebase.ApplyReport{}, ErrUncommittedChanges.New()
		}
	}

	// The step is recorded as applied only once the index and working tree hold its result. Until then the cursor
	// stays pending so a failed or interrupted apply is retried rather than committed.
	if s.st.cursor != target || s.st.phase != PhasePending {
		s.st.cursor = target
		s.st.phase = PhasePending
		if err := s.st.saveCursor(s.fs); err != nil {
			return rebase.ApplyReport{}, err
		}
	}

	report := rebase.ApplyReport{Commit: step.Commit, Action: step.Action}
	if step.Action == rebase.ActionPick {
		if err := s.applyPick(ctx, step, opts); err != nil {
			s.restoreHead(ctx, err)
			return rebase.ApplyReport{}, err
		}
	}

	s.st.phase = PhaseApplied
	if err := s.st.saveCursor(s.fs); err != nil {
		return rebase.ApplyReport{}, err
	}
	return report, nil
}

// restoreHead resets the index and working tree to HEAD after a failed apply. |cause| is logged along with any
// error from the reset, which is otherwise dropped so the caller sees the original failure.
func (s *Sequencer) restoreHead(ctx context.Context, cause error) {
	lgr := s.lgr.WithField("step", s.st.cursor).WithError(cause)
	head, err := s.repo.Head(ctx)
	if err == nil {
		err = s.repo.ResetHard(ctx, head)
	}
	if err != nil {
		lgr.WithField("reset_error", err.Error()).Warn("sequencer: could not restore HEAD after failed apply")
		return
	}
	lgr.Debug("sequencer: apply failed, restored HEAD")
}

func (s *Sequencer) applyPick(ctx context.Context, step rebase.Step, opts rebase.CheckoutOptions) error {
	commit, err := s.repo.Commit(ctx, step.Commit)
	if err != nil {
		return err
	}
	if commit.NumParents() > 1 {
		return ErrMergeCommit.New(step.Commit)
	}

	base, err := s.repo.ParentTree(ctx, commit)
	if err != nil {
		return err
	}
	theirs, err := s.repo.CommitTree(ctx, commit)
	if err != nil {
		return err
	}
	head, err := s.repo.Head(ctx)
	if err != nil {
		return err
	}
	headCommit, err := s.repo.Commit(ctx, head)
	if err != nil {
		return err
	}
	ours, err := s.repo.CommitTree(ctx, headCommit)
	if err != nil {
		return err
	}

	res, err := merge.Trees(ctx, s.repo, base, ours, theirs)
	if err != nil {
		return err
	}
	if err := s.repo.Materialize(ctx, ours, res, gitstore.MaterializeOptions{
		Markers: markerOptions(opts, commit),
		Force:   opts.Force,
	}); err != nil {
		return err
	}
	if err := s.repo.WriteMergeResult(ctx, res); err != nil {
		return err
	}

	s.lgr.WithFields(logrus.Fields{
		"step":      s.st.cursor,
		"commit":    step.Commit.String(),
		"conflicts": len(res.Conflicts),
	}).Trace("sequencer: applied pick")
	return nil
}

func markerOptions(opts rebase.CheckoutOptions, c *object.Commit) merge.MarkerOptions {
	label := fmt.Sprintf("%s (%s)", c.Hash.String()[:7], subject(c.Message))
	mo := merge.MarkerOptions{
		Style:       merge.StyleMerge,
		OursLabel:   "HEAD",
		BaseLabel:   "parent of " + label,
		TheirsLabel: label,
	}
	if opts.ConflictStyle == rebase.ConflictStyleDiff3 {
		mo.Style = merge.StyleDiff3
	}
	if opts.OursLabel != "" {
		mo.OursLabel = opts.OursLabel
	}
	if opts.TheirsLabel != "" {
		mo.TheirsLabel = opts.TheirsLabel
	}
	return mo
}

func subject(msg string) string {
	msg = strings.TrimSpace(msg)
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return strings.TrimSpace(msg)
}

// Conflicts returns the paths the index still has unmerged entries for.
func (s *Sequencer) Conflicts(ctx context.Context) ([]string, error) {
	return s.repo.UnmergedPaths(ctx)
}

// Commit records the applied step as a new commit on the detached HEAD. The original commit's message is kept, as
// is its author unless |author| is given. If the index matches HEAD, the step's changes were already present, no
// commit is created, and the returned outcome has a zero hash.
func (s *Sequencer) Commit(ctx context.Context, author *object.Signature, committer object.Signature) (rebase.CommitOutcome, error) {
	if s.st.phase != PhaseApplied {
		return rebase.CommitOutcome{}, ErrNothingApplied.New()
	}
	step := s.st.plan.Steps[s.st.cursor]
	if step.Action != rebase.ActionPick {
		return rebase.CommitOutcome{}, rebase.ErrUnsupportedAction.New(step.Action)
	}

	idxTree, err := s.repo.IndexTree(ctx)
	if err != nil {
		return rebase.CommitOutcome{}, err
	}
	treeHash, err := s.repo.WriteTree(ctx, idxTree)
	if err != nil {
		return rebase.CommitOutcome{}, err
	}
	head, err := s.repo.Head(ctx)
	if err != nil {
		return rebase.CommitOutcome{}, err
	}
	headCommit, err := s.repo.Commit(ctx, head)
	if err != nil {
		return rebase.CommitOutcome{}, err
	}

	lgr := s.lgr.WithFields(logrus.Fields{"step": s.st.cursor, "commit": step.Commit.String()})
	if treeHash == headCommit.TreeHash {
		lgr.Debug("sequencer: changes already present, skipping commit")
		return rebase.CommitOutcome{}, s.settle()
	}

	orig, err := s.repo.Commit(ctx, step.Commit)
	if err != nil {
		return rebase.CommitOutcome{}, err
	}
	a := orig.Author
	if author != nil {
		a = *author
	}
	newHash, err := s.repo.CreateCommit(ctx, treeHash, []plumbing.Hash{head}, a, committer, orig.Message)
	if err != nil {
		return rebase.CommitOutcome{}, err
	}
	if err := s.repo.DetachHead(ctx, newHash); err != nil {
		return rebase.CommitOutcome{}, err
	}

	s.st.rewritten = append(s.st.rewritten, Rewrite{Old: step.Commit, New: newHash})
	if err := s.st.saveRewritten(s.fs); err != nil {
		return rebase.CommitOutcome{}, err
	}
	if err := s.settle(); err != nil {
		return rebase.CommitOutcome{}, err
	}

	lgr.WithField("new_commit", newHash.String()).Debug("sequencer: committed step")
	return rebase.CommitOutcome{NewCommit: newHash}, nil
}

func (s *Sequencer) settle() error {
	s.st.phase = PhaseSettled
	return s.st.saveCursor(s.fs)
}

// Finish moves the rebased branch to the new history, reattaches HEAD, and removes the rebase state. The branch is
// moved with a compare-and-swap against the original head, failing with ErrBranchMoved if it was updated elsewhere.
func (s *Sequencer) Finish(ctx context.Context, committer object.Signature, opts rebase.FinishOptions) error {
	total := len(s.st.plan.Steps)
	consumed := s.st.cursor
	if s.st.phase == PhaseSettled {
		consumed++
	}
	if total > 0 && consumed < total {
		return ErrStepsRemaining.New(total-consumed, total)
	}

	head, err := s.repo.Head(ctx)
	if err != nil {
		return err
	}

	if branch, ok := s.Branch(); ok {
		err := s.repo.UpdateRefCAS(ctx, branch, head, s.st.origHead)
		if gitstore.ErrRefMoved.Is(err) {
			return ErrBranchMoved.Wrap(err, branch.Short(), s.st.origHead)
		}
		if err != nil {
			return err
		}
		if err := s.repo.AttachHead(ctx, branch); err != nil {
			return err
		}
	}

	if opts.RecordOrigHead {
		if err := s.repo.SetRef(ctx, gitstore.OrigHead, s.st.origHead); err != nil {
			return err
		}
	}
	if err := removeState(s.fs); err != nil {
		return err
	}

	s.lgr.WithFields(logrus.Fields{
		"head":      head.String(),
		"rewritten": len(s.st.rewritten),
		"committer": committer.Name,
	}).Debug("sequencer: rebase finished")
	return nil
}

// Abort returns HEAD, the index, and the working tree to where they were before the rebase started, and removes
// the rebase state.
func (s *Sequencer) Abort(ctx context.Context) error {
	if branch, ok := s.Branch(); ok {
		if err := s.repo.AttachHead(ctx, branch); err != nil {
			return err
		}
	} else if err := s.repo.DetachHead(ctx, s.st.origHead); err != nil {
		return err
	}
	if err := s.repo.ResetHard(ctx, s.st.origHead); err != nil {
		return err
	}
	if err := removeState(s.fs); err != nil {
		return err
	}
	s.lgr.Debug("sequencer: rebase aborted")
	return nil
}
