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

package sequencer

import (
	goerrors "gopkg.in/src-d/go-errors.v1"
)

var (
	ErrRebaseInProgress   = goerrors.NewKind("a rebase is already in progress; use --continue or --abort")
	ErrNoRebaseInProgress = goerrors.NewKind("no rebase in progress")
	// ErrUncommittedChanges is returned when a step would be applied over local changes.
	ErrUncommittedChanges = goerrors.NewKind("cannot rebase: you have uncommitted changes; commit or stash them first")
	ErrStepOutOfRange     = goerrors.NewKind("step %d is out of range for a plan with %d steps")
	// ErrNoMoreSteps is returned when asked to apply a step after the last one was settled.
	ErrNoMoreSteps = goerrors.NewKind("every step of the plan has already been applied")
	// ErrStepPending is returned when a step is applied while the previous one is still waiting to be committed.
	ErrStepPending = goerrors.NewKind("step %d has been applied but not committed")
	// ErrNothingApplied is returned when asked to commit a step that has not been applied.
	ErrNothingApplied = goerrors.NewKind("no step is waiting to be committed")
	// ErrStepsRemaining is returned when asked to finish a rebase before every step was consumed.
	ErrStepsRemaining = goerrors.NewKind("cannot finish: %d of %d steps remain")
	ErrMergeCommit    = goerrors.NewKind("commit %s is a merge commit and cannot be picked")
	// ErrBranchMoved is returned when the branch being rebased was updated by something else during the rebase.
	ErrBranchMoved = goerrors.NewKind("branch %s was moved during the rebase; it is no longer at %s")
	// ErrCorruptState is returned when a file in the rebase state directory is missing or malformed.
	ErrCorruptState = goerrors.NewKind("rebase state is corrupt: %s")
)
