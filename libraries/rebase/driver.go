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

package rebase

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus"
)

// StepStore holds the plan of a rebase and its persisted cursor.
type StepStore interface {
	// Current returns the index of the step currently being applied, or about to be applied.
	Current(ctx context.Context) (int, error)
	// Total returns the number of steps in the plan.
	Total(ctx context.Context) (int, error)
	// StepAt returns the step at |idx|. It fails if |idx| is out of range.
	StepAt(ctx context.Context, idx int) (Step, error)
}

// Applier performs the repository mutations of a rebase.
type Applier interface {
	// ApplyNext materializes the next step's changes into the index and working tree and reports which step it
	// applied. Conflicts are not failures, they are left in the index.
	ApplyNext(ctx context.Context, opts CheckoutOptions) (ApplyReport, error)
	// Commit commits the conflict free index. The outcome has a zero commit hash when the step's changes were
	// already present.
	Commit(ctx context.Context, author *object.Signature, committer object.Signature) (CommitOutcome, error)
	// Finish completes the rebase once every step has been consumed.
	Finish(ctx context.Context, committer object.Signature, opts FinishOptions) error
}

// ConflictChecker inspects the index after a step has been applied.
type ConflictChecker interface {
	// Conflicts returns the paths with unresolved conflicts in the index. An empty result means the index is fully
	// merged.
	Conflicts(ctx context.Context) ([]string, error)
}

// Operation is everything the driver needs from an in progress rebase.
type Operation interface {
	StepStore
	Applier
	ConflictChecker
}

// Options configures a run. The zero value is valid.
type Options struct {
	Checkout CheckoutOptions
	Finish   FinishOptions

	// Author overrides the author of rewritten commits. When nil, the original author is kept.
	Author *object.Signature

	// StepStarting, if set, is called before a step is applied.
	StepStarting func(progress StepProgress)
	// StepCompleted, if set, is called after a step has been committed. |newCommit| is the zero hash if the step's
	// changes were already present and no commit was created.
	StepCompleted func(progress StepProgress, newCommit plumbing.Hash)

	Logger *logrus.Entry
}

func (o Options) logger() *logrus.Entry {
	if o.Logger != nil {
		return o.Logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// Run drives the rebase |op| forward one step at a time until it completes, a step leaves conflicts, or |ctx| is
// done at a step boundary. Once no steps remain the rebase is finished even if |ctx| is done, so a cancelled run
// never stops with every step consumed. Expected halts are reported in the returned Result. Errors are returned
// only for unsupported steps, consistency violations, and failures of |op|, which are returned unchanged.
//
// |entry| governs only the first step of the run. Every later step is the one after the cursor.
func Run(ctx context.Context, op Operation, committer object.Signature, opts Options, entry Entry) (*Result, error) {
	lgr := opts.logger()

	var result *Result
	for e := entry; result == nil; e = FreshEntry {
		next, err := decideNext(ctx, op, e)
		if err != nil {
			return nil, err
		}

		stepLgr := lgr.WithFields(logrus.Fields{"step": next.progress.Current, "total": next.progress.Total})
		if next.finish {
			stepLgr.Trace("rebase: plan exhausted, finishing")
			if err := op.Finish(ctx, committer, opts.Finish); err != nil {
				return nil, err
			}
			result = &Result{Status: StatusComplete, CurrentStep: next.progress.Total, TotalSteps: next.progress.Total}
			continue
		}

		if ctx.Err() != nil {
			stepLgr.Debugf("rebase: stopping before step: %v", ctx.Err())
			result = &Result{Status: StatusStop, CurrentStep: next.progress.Current, TotalSteps: next.progress.Total}
			continue
		}

		result, err = runStep(ctx, op, committer, opts, next.progress, stepLgr)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// runStep applies a single step, returning a nil Result if the run should continue with the next step.
func runStep(ctx context.Context, op Operation, committer object.Signature, opts Options, progress StepProgress, lgr *logrus.Entry) (*Result, error) {
	step := progress.Step
	lgr = lgr.WithFields(logrus.Fields{"action": step.Action.String(), "commit": step.Commit.String()})

	if opts.StepStarting != nil {
		opts.StepStarting(progress)
	}

	handler, err := handlerFor(step.Action)
	if err != nil {
		return nil, err
	}

	lgr.Trace("rebase: applying step")
	report, err := op.ApplyNext(ctx, opts.Checkout)
	if err != nil {
		return nil, err
	}
	if err := verifyApplied(progress, report); err != nil {
		lgr.Errorf("rebase: %v", err)
		return nil, err
	}

	return handler(ctx, op, committer, opts, progress, lgr)
}

// stepHandler completes a step after it has been applied and verified.
type stepHandler func(ctx context.Context, op Operation, committer object.Signature, opts Options, progress StepProgress, lgr *logrus.Entry) (*Result, error)

// handlerFor returns the handler for |action|. Adding support for a new action means adding a case here.
func handlerFor(action Action) (stepHandler, error) {
	switch action {
	case ActionPick:
		return pick, nil
	case ActionSquash, ActionEdit, ActionExec, ActionFixup, ActionReword:
		return nil, ErrUnsupportedAction.New(action)
	default:
		return nil, ErrUnknownAction.New(action)
	}
}

func pick(ctx context.Context, op Operation, committer object.Signature, opts Options, progress StepProgress, lgr *logrus.Entry) (*Result, error) {
	conflicts, err := op.Conflicts(ctx)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		lgr.Debugf("rebase: step left %d conflicts", len(conflicts))
		return &Result{
			Status:      StatusConflicts,
			CurrentStep: progress.Current,
			TotalSteps:  progress.Total,
			Conflicts:   conflicts,
		}, nil
	}

	outcome, err := op.Commit(ctx, opts.Author, committer)
	if err != nil {
		return nil, err
	}

	if outcome.AlreadyApplied() {
		lgr.Debug("rebase: changes already present, no commit created")
	} else {
		lgr.WithField("new_commit", outcome.NewCommit.String()).Debug("rebase: committed step")
	}

	if opts.StepCompleted != nil {
		opts.StepCompleted(progress, outcome.NewCommit)
	}
	return nil, nil
}

// nextAction is the next thing a run must do: apply the step described by progress, or finish.
type nextAction struct {
	finish   bool
	progress StepProgress
}

func decideNext(ctx context.Context, store StepStore, entry Entry) (nextAction, error) {
	cursor, err := store.Current(ctx)
	if err != nil {
		return nextAction{}, err
	}
	total, err := store.Total(ctx)
	if err != nil {
		return nextAction{}, err
	}
	if cursor < 0 || total < 0 {
		return nextAction{}, ErrCursorOutOfRange.New(cursor, total)
	}

	target := entry.target(cursor)
	switch {
	case target < total:
		step, err := store.StepAt(ctx, target)
		if err != nil {
			return nextAction{}, err
		}
		return nextAction{progress: StepProgress{Step: step, Current: target, Total: total}}, nil
	case target == total:
		return nextAction{finish: true, progress: StepProgress{Current: total, Total: total}}, nil
	default:
		return nextAction{}, ErrCursorOutOfRange.New(target, total)
	}
}

// verifyApplied confirms that the step the sequencer applied is the step the driver expected it to apply.
func verifyApplied(progress StepProgress, report ApplyReport) error {
	expected := progress.Step
	if report.Commit != expected.Commit || report.Action != expected.Action {
		return ErrStepMismatch.New(progress.Current, expected.Action, expected.Commit, report.Action, report.Commit)
	}
	return nil
}
