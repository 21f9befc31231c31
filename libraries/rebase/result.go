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
	"github.com/go-git/go-git/v5/plumbing"
)

// Status is the terminal state of a single call to Run.
type Status int

const (
	// StatusComplete means every step of the plan was applied and the rebase was finished.
	StatusComplete Status = iota
	// StatusConflicts means a step left unresolved conflicts in the index. The caller must resolve them and continue.
	StatusConflicts
	// StatusStop means the run was halted at a step boundary before the plan was exhausted.
	StatusStop
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusConflicts:
		return "conflicts"
	case StatusStop:
		return "stop"
	}
	return "unknown"
}

// Result is the outcome of a call to Run. A Result is created exactly once per run and is never reused.
type Result struct {
	Status      Status
	CurrentStep int
	TotalSteps  int
	// Conflicts lists the paths left unmerged when Status is StatusConflicts.
	Conflicts []string
}

// NeedsAttention returns true when the caller must act before the rebase can continue.
func (r *Result) NeedsAttention() bool {
	return r.Status == StatusConflicts || r.Status == StatusStop
}

// StepProgress describes a step and its position in the plan. It is passed to progress callbacks and never persisted.
type StepProgress struct {
	Step    Step
	Current int
	Total   int
}

// ApplyReport identifies the step the sequencer actually applied.
type ApplyReport struct {
	Commit plumbing.Hash
	Action Action
}

// CommitOutcome is the result of committing an applied step.
type CommitOutcome struct {
	// NewCommit is the commit created for the step, or the zero hash if the step's changes were already present and no
	// commit was created.
	NewCommit plumbing.Hash
}

// AlreadyApplied returns true if committing the step was a no-op.
func (co CommitOutcome) AlreadyApplied() bool {
	return co.NewCommit.IsZero()
}

// Entry selects how the first iteration of a run interprets the persisted cursor.
type Entry int

const (
	// FreshEntry means the step under the cursor has already been handled. The first step applied is the one after it.
	FreshEntry Entry = iota
	// ContinuingEntry means the cursor is positioned at a step which has not been applied yet. The first step
	// applied is the one under the cursor.
	ContinuingEntry
)

func (e Entry) String() string {
	if e == ContinuingEntry {
		return "continuing"
	}
	return "fresh"
}

func (e Entry) target(cursor int) int {
	if e == ContinuingEntry {
		return cursor
	}
	return cursor + 1
}

// ConflictStyle selects how conflicting content is written into the working tree.
type ConflictStyle int

const (
	ConflictStyleMerge ConflictStyle = iota
	ConflictStyleDiff3
)

// CheckoutOptions controls how an applied step is materialized into the working tree. It is passed by value to
// every apply so that a run never observes it changing.
type CheckoutOptions struct {
	ConflictStyle ConflictStyle
	// Force overwrites working tree files even if they differ from the index.
	Force bool
	// OursLabel and TheirsLabel name the two sides in conflict markers.
	OursLabel   string
	TheirsLabel string
}

// FinishOptions controls the bookkeeping done once every step has been consumed.
type FinishOptions struct {
	// RecordOrigHead writes ORIG_HEAD pointing at the branch tip from before the rebase.
	RecordOrigHead bool
}
