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
	goerrors "gopkg.in/src-d/go-errors.v1"
)

// ErrUnsupportedAction is returned when a plan contains a step kind the driver cannot perform. Only whole commit
// picks are supported; every other kind fails the run rather than being skipped.
var ErrUnsupportedAction = goerrors.NewKind("unsupported rebase action: %s")

// ErrUnknownAction is returned when todo text names an action that does not exist.
var ErrUnknownAction = goerrors.NewKind("unknown action in rebase plan: %s")

// ErrStepMismatch is returned when the step the sequencer applied is not the step the driver expected. The working
// tree is of unknown provenance once this happens, so the run is aborted.
var ErrStepMismatch = goerrors.NewKind("rebase step %d mismatch: expected %s %s, but %s %s was applied")

// ErrCursorOutOfRange is returned when the persisted cursor points past the end of the plan.
var ErrCursorOutOfRange = goerrors.NewKind("rebase cursor at step %d is past the end of a plan with %d steps")

// ErrInvalidRebasePlanSquashFixupWithoutPick is returned when a rebase plan attempts to squash or
// fixup a commit without first picking or rewording a commit.
var ErrInvalidRebasePlanSquashFixupWithoutPick = goerrors.NewKind("invalid rebase plan: squash and fixup actions must appear after a pick or reword action")

// ErrInvalidRebasePlanMergeCommit is returned when a rebase plan names a merge commit, which cannot be replayed.
var ErrInvalidRebasePlanMergeCommit = goerrors.NewKind("invalid rebase plan: %s %s is a merge commit")

// ErrInvalidTodoLine is returned for todo text lines which cannot be parsed into a step.
var ErrInvalidTodoLine = goerrors.NewKind("invalid line %d: %s")
