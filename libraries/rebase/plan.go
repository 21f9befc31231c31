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
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"golang.org/x/sync/errgroup"
)

// maxParallelCommitLookups bounds the number of concurrent commit lookups during plan validation.
const maxParallelCommitLookups = 8

// Plan describes the ordered steps of a rebase, where commits are replayed on top of a base commit to form a new
// commit history.
type Plan struct {
	Steps []Step
}

// Step describes a single step in a rebase plan. Steps are immutable once read from a plan.
type Step struct {
	Action Action
	// Commit is the commit the step targets. It is zero for exec steps.
	Commit plumbing.Hash
	// Message is the commit's subject line, for display only.
	Message string
	// Payload holds free-text arguments, such as the command for an exec step.
	Payload string
}

func (s Step) String() string {
	if !s.Action.takesCommit() {
		return fmt.Sprintf("%s %s", s.Action, s.Payload)
	}
	return fmt.Sprintf("%s %s %s", s.Action, s.Commit, s.Message)
}

// CommitResolver looks up commits named by a plan. |ok| is false if |h| names no commit.
type CommitResolver interface {
	CommitParentCount(ctx context.Context, h plumbing.Hash) (parents int, ok bool, err error)
}

// NewDefaultPlan creates the default plan for |commits|, which must be ordered oldest first. Each step picks the
// commit, the same order they were originally applied.
func NewDefaultPlan(commits []PlanCommit) *Plan {
	plan := &Plan{Steps: make([]Step, 0, len(commits))}
	for _, c := range commits {
		plan.Steps = append(plan.Steps, Step{
			Action:  ActionPick,
			Commit:  c.Hash,
			Message: subjectLine(c.Message),
		})
	}
	return plan
}

// PlanCommit is the commit information needed to build a default plan.
type PlanCommit struct {
	Hash    plumbing.Hash
	Message string
}

// ValidatePlan returns a validation error for invalid states in a rebase plan, such as squash or fixup actions
// appearing in the plan before a pick or reword action, or steps naming merge commits or commits |resolver| cannot
// find.
func ValidatePlan(ctx context.Context, plan *Plan, resolver CommitResolver) error {
	seenPick := false
	seenReword := false
	for _, step := range plan.Steps {
		switch step.Action {
		case ActionPick:
			seenPick = true
		case ActionReword:
			seenReword = true
		case ActionFixup, ActionSquash:
			if !seenPick && !seenReword {
				return ErrInvalidRebasePlanSquashFixupWithoutPick.New()
			}
		case ActionDrop:
			return fmt.Errorf("invalid rebase plan: dropped commit %s must be removed from the plan", step.Commit)
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelCommitLookups)
	for _, step := range plan.Steps {
		if !step.Action.takesCommit() {
			continue
		}
		eg.Go(func() error {
			h := step.Commit
			parents, ok, err := resolver.CommitParentCount(egCtx, h)
			if err != nil {
				return fmt.Errorf("unable to resolve commit hash %s: %w", h, err)
			}
			if !ok {
				return fmt.Errorf("invalid commit hash: %s", h)
			}
			if parents > 1 {
				return ErrInvalidRebasePlanMergeCommit.New(step.Action, h)
			}
			return nil
		})
	}
	return eg.Wait()
}

// ParseTodo parses todo text, adding every uncommented line as a step in the plan. Dropped commits are removed.
func ParseTodo(todo string) (*Plan, error) {
	plan := &Plan{}
	for i, line := range strings.Split(todo, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.Fields(trimmed)
		action, err := ParseAction(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		if !action.takesCommit() {
			cmd := strings.TrimSpace(strings.TrimPrefix(trimmed, fields[0]))
			if cmd == "" {
				return nil, ErrInvalidTodoLine.New(i+1, line)
			}
			plan.Steps = append(plan.Steps, Step{Action: action, Payload: cmd})
			continue
		}

		if len(fields) < 2 || !plumbing.IsHash(fields[1]) {
			return nil, ErrInvalidTodoLine.New(i+1, line)
		}
		if action == ActionDrop {
			continue
		}

		step := Step{Action: action, Commit: plumbing.NewHash(fields[1])}
		if len(fields) > 2 {
			// the message keeps its inner spacing
			rest := strings.TrimSpace(trimmed[len(fields[0]):])
			step.Message = strings.TrimSpace(rest[len(fields[1]):])
		}
		plan.Steps = append(plan.Steps, step)
	}

	return plan, nil
}

// FormatTodo renders the steps of |plan| in todo text form, one step per line.
func FormatTodo(plan *Plan) string {
	var buffer bytes.Buffer
	for _, step := range plan.Steps {
		buffer.WriteString(step.String())
		buffer.WriteString("\n")
	}
	return buffer.String()
}

// BuildEditableTodo builds the message shown to users editing a plan, including the formatted plan and help text.
func BuildEditableTodo(plan *Plan, upstream, head, onto plumbing.Hash) string {
	var buffer bytes.Buffer
	buffer.WriteString(FormatTodo(plan))
	buffer.WriteString("\n")

	buffer.WriteString(fmt.Sprintf("# Rebase %s..%s onto %s (%d commands)\n#\n", short(upstream), short(head), short(onto), len(plan.Steps)))
	buffer.WriteString("# Commands:\n")
	buffer.WriteString("# p, pick <commit> = use commit\n")
	buffer.WriteString("# d, drop <commit> = remove commit\n")
	buffer.WriteString("# These lines can be re-ordered; they are executed from top to bottom.\n")
	buffer.WriteString("#\n")
	buffer.WriteString("# If you remove a line here THAT COMMIT WILL BE LOST.\n")
	buffer.WriteString("#\n")
	buffer.WriteString("# However, if you remove everything, the rebase will be aborted.\n")
	buffer.WriteString("#\n")

	return buffer.String()
}

func short(h plumbing.Hash) string {
	return h.String()[:7]
}

// subjectLine returns the first line of a commit message. Match Git's behavior and keep plans one step per line.
func subjectLine(msg string) string {
	msg = strings.TrimSpace(msg)
	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		msg = msg[:idx]
	}
	return strings.TrimSpace(msg)
}
