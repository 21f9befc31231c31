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
	"fmt"
	"sync"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setResolver knows the commits in |known|, mapped to their parent counts.
type setResolver struct {
	mu    sync.Mutex
	known map[plumbing.Hash]int
	seen  int
}

func (r *setResolver) CommitParentCount(_ context.Context, h plumbing.Hash) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen++
	parents, ok := r.known[h]
	return parents, ok, nil
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input    string
		expected Action
	}{
		{"p", ActionPick},
		{"pick", ActionPick},
		{"PICK", ActionPick},
		{"s", ActionSquash},
		{"squash", ActionSquash},
		{"e", ActionEdit},
		{"x", ActionExec},
		{"f", ActionFixup},
		{"r", ActionReword},
		{"reword", ActionReword},
		{"d", ActionDrop},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			a, err := ParseAction(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.expected, a)
		})
	}

	_, err := ParseAction("merge")
	require.Error(t, err)
	assert.True(t, ErrUnknownAction.Is(err))
}

func TestParseTodo(t *testing.T) {
	c1, c2, c3 := hashOf("c1"), hashOf("c2"), hashOf("c3")
	todo := fmt.Sprintf(`pick %s add users table
# a comment
p %s second commit

drop %s dropped commit
exec make test
reword %s
`, c1, c2, c3, c3)

	plan, err := ParseTodo(todo)
	require.NoError(t, err)
	require.Len(t, plan.Steps, 4)
	assert.Equal(t, Step{Action: ActionPick, Commit: c1, Message: "add users table"}, plan.Steps[0])
	assert.Equal(t, Step{Action: ActionPick, Commit: c2, Message: "second commit"}, plan.Steps[1])
	assert.Equal(t, Step{Action: ActionExec, Payload: "make test"}, plan.Steps[2])
	assert.Equal(t, Step{Action: ActionReword, Commit: c3}, plan.Steps[3])
}

func TestParseTodoWhitespace(t *testing.T) {
	c1, c2, c3 := hashOf("c1"), hashOf("c2"), hashOf("c3")
	todo := fmt.Sprintf("pick  %s  spaced   message \n\tp\t%s\ttabbed\n  exec\t make  test\nreword %s\t\n", c1, c2, c3)

	plan, err := ParseTodo(todo)
	require.NoError(t, err)
	assert.Equal(t, []Step{
		{Action: ActionPick, Commit: c1, Message: "spaced   message"},
		{Action: ActionPick, Commit: c2, Message: "tabbed"},
		{Action: ActionExec, Payload: "make  test"},
		{Action: ActionReword, Commit: c3},
	}, plan.Steps)
}

func TestParseTodoErrors(t *testing.T) {
	tests := []struct {
		name string
		todo string
	}{
		{name: "unknown action", todo: "merge " + hashOf("c1").String()},
		{name: "missing hash", todo: "pick"},
		{name: "abbreviated hash", todo: "pick abc1234 message"},
		{name: "exec without command", todo: "exec"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseTodo(test.todo)
			assert.Error(t, err)
		})
	}
}

func TestFormatTodoRoundTrip(t *testing.T) {
	plan := &Plan{Steps: []Step{
		{Action: ActionPick, Commit: hashOf("c1"), Message: "first"},
		{Action: ActionExec, Payload: "go test ./..."},
		{Action: ActionPick, Commit: hashOf("c2"), Message: "second"},
	}}

	parsed, err := ParseTodo(FormatTodo(plan))
	require.NoError(t, err)
	assert.Equal(t, plan, parsed)
}

func TestBuildEditableTodo(t *testing.T) {
	plan := NewDefaultPlan([]PlanCommit{
		{Hash: hashOf("c1"), Message: "first line\n\nbody text"},
		{Hash: hashOf("c2"), Message: "  second  "},
	})
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, "first line", plan.Steps[0].Message)
	assert.Equal(t, "second", plan.Steps[1].Message)

	msg := BuildEditableTodo(plan, hashOf("upstream"), hashOf("head"), hashOf("onto"))
	assert.Contains(t, msg, "(2 commands)")
	assert.Contains(t, msg, "# p, pick <commit> = use commit")

	parsed, err := ParseTodo(msg)
	require.NoError(t, err)
	assert.Equal(t, plan, parsed)
}

func TestValidatePlan(t *testing.T) {
	ctx := context.Background()
	c1, c2, m := hashOf("c1"), hashOf("c2"), hashOf("merge")
	resolver := &setResolver{known: map[plumbing.Hash]int{c1: 1, c2: 1, m: 2}}

	tests := []struct {
		name        string
		steps       []Step
		expectedErr bool
	}{
		{name: "picks", steps: []Step{{Action: ActionPick, Commit: c1}, {Action: ActionPick, Commit: c2}}},
		{name: "fixup after pick", steps: []Step{{Action: ActionPick, Commit: c1}, {Action: ActionFixup, Commit: c2}}},
		{name: "squash after reword", steps: []Step{{Action: ActionReword, Commit: c1}, {Action: ActionSquash, Commit: c2}}},
		{name: "exec needs no commit", steps: []Step{{Action: ActionExec, Payload: "true"}, {Action: ActionPick, Commit: c1}}},
		{name: "squash first", steps: []Step{{Action: ActionSquash, Commit: c1}, {Action: ActionPick, Commit: c2}}, expectedErr: true},
		{name: "fixup first", steps: []Step{{Action: ActionFixup, Commit: c1}}, expectedErr: true},
		{name: "unknown commit", steps: []Step{{Action: ActionPick, Commit: hashOf("nope")}}, expectedErr: true},
		{name: "drop left in plan", steps: []Step{{Action: ActionDrop, Commit: c1}}, expectedErr: true},
		{name: "merge commit", steps: []Step{{Action: ActionPick, Commit: c1}, {Action: ActionPick, Commit: m}}, expectedErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidatePlan(ctx, &Plan{Steps: test.steps}, resolver)
			if test.expectedErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	err := ValidatePlan(ctx, &Plan{Steps: []Step{{Action: ActionSquash, Commit: c1}}}, resolver)
	assert.True(t, ErrInvalidRebasePlanSquashFixupWithoutPick.Is(err))
	err = ValidatePlan(ctx, &Plan{Steps: []Step{{Action: ActionPick, Commit: m}}}, resolver)
	assert.True(t, ErrInvalidRebasePlanMergeCommit.Is(err), "unexpected error: %v", err)
}
