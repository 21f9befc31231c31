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
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/gitrebase/libraries/gitstore"
	"github.com/dolthub/gitrebase/libraries/gitstore/gitstoretest"
	"github.com/dolthub/gitrebase/libraries/rebase"
)

const featureBranch = "feature"

var featureRef = plumbing.NewBranchReferenceName(featureBranch)

var startTime = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

type fixture struct {
	tr      *gitstoretest.TestRepo
	stateFS billy.Filesystem
	// picks are the feature commits, oldest first
	picks    []plumbing.Hash
	upstream plumbing.Hash
}

// newFixture creates a feature branch with |feature| commits forked from a base commit, and an upstream commit on
// the default branch. HEAD is left on the feature branch.
func newFixture(t *testing.T, baseFiles, upstreamFiles map[string]string, feature ...map[string]string) *fixture {
	tr := gitstoretest.New(t)
	tr.Commit("base", baseFiles)
	tr.Checkout(featureBranch, true)

	fx := &fixture{tr: tr, stateFS: memfs.New()}
	for i, files := range feature {
		fx.picks = append(fx.picks, tr.Commit(featureMessage(i), files))
	}

	tr.Checkout(gitstoretest.DefaultBranch, false)
	fx.upstream = tr.Commit("upstream", upstreamFiles)
	tr.Checkout(featureBranch, false)
	return fx
}

func featureMessage(i int) string {
	return []string{"first feature", "second feature", "third feature"}[i]
}

func (fx *fixture) plan() *rebase.Plan {
	var commits []rebase.PlanCommit
	for i, h := range fx.picks {
		commits = append(commits, rebase.PlanCommit{Hash: h, Message: featureMessage(i)})
	}
	return rebase.NewDefaultPlan(commits)
}

func (fx *fixture) init(t *testing.T, plan *rebase.Plan) *Sequencer {
	seq, err := Init(context.Background(), fx.tr.Repo, fx.stateFS, InitOptions{
		Branch:   featureRef,
		OrigHead: fx.tr.BranchHead(featureBranch),
		Onto:     fx.upstream,
		Plan:     plan,
		Now:      func() time.Time { return startTime },
	})
	require.NoError(t, err)
	return seq
}

func cleanFixture(t *testing.T) *fixture {
	return newFixture(t,
		map[string]string{"a.txt": "one\ntwo\nthree\n"},
		map[string]string{"a.txt": "ONE\ntwo\nthree\n"},
		map[string]string{"b.txt": "b\n"},
		map[string]string{"a.txt": "one\ntwo\nTHREE\n"},
	)
}

func conflictFixture(t *testing.T) *fixture {
	return newFixture(t,
		map[string]string{"a.txt": "one\ntwo\nthree\n"},
		map[string]string{"a.txt": "ONE\ntwo\nthree\n"},
		map[string]string{"a.txt": "uno\ntwo\nthree\n"},
	)
}

func TestInit(t *testing.T) {
	ctx := context.Background()
	fx := cleanFixture(t)
	origHead := fx.tr.BranchHead(featureBranch)
	seq := fx.init(t, fx.plan())

	assert.Equal(t, fx.upstream, fx.tr.Head())
	_, attached, err := fx.tr.Repo.HeadBranch(ctx)
	require.NoError(t, err)
	assert.False(t, attached)
	assert.Equal(t, origHead, fx.tr.BranchHead(featureBranch))
	assert.Equal(t, "ONE\ntwo\nthree\n", fx.tr.ReadFile("a.txt"))
	assert.False(t, fx.tr.Exists("b.txt"))

	inProgress, err := InProgress(fx.stateFS)
	require.NoError(t, err)
	assert.True(t, inProgress)

	cur, err := seq.Current(ctx)
	require.NoError(t, err)
	total, err := seq.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, cur)
	assert.Equal(t, 2, total)
	assert.Equal(t, PhasePending, seq.Phase())
	assert.Equal(t, rebase.ContinuingEntry, seq.Entry())

	msgNum, err := util.ReadFile(fx.stateFS, "rebase-merge/msgnum")
	require.NoError(t, err)
	assert.Equal(t, "1\n", string(msgNum))
	headName, err := util.ReadFile(fx.stateFS, "rebase-merge/head-name")
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/feature\n", string(headName))
}

func TestInitErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("uncommitted changes", func(t *testing.T) {
		fx := cleanFixture(t)
		fx.tr.WriteFile("a.txt", "dirty\n")
		_, err := Init(ctx, fx.tr.Repo, fx.stateFS, InitOptions{
			Branch:   featureRef,
			OrigHead: fx.tr.BranchHead(featureBranch),
			Onto:     fx.upstream,
			Plan:     fx.plan(),
		})
		assert.True(t, ErrUncommittedChanges.Is(err), "unexpected error: %v", err)
		inProgress, err := InProgress(fx.stateFS)
		require.NoError(t, err)
		assert.False(t, inProgress)
	})

	t.Run("already in progress", func(t *testing.T) {
		fx := cleanFixture(t)
		fx.init(t, fx.plan())
		_, err := Init(ctx, fx.tr.Repo, fx.stateFS, InitOptions{
			Branch:   featureRef,
			OrigHead: fx.picks[1],
			Onto:     fx.upstream,
			Plan:     fx.plan(),
		})
		assert.True(t, ErrRebaseInProgress.Is(err), "unexpected error: %v", err)
	})

	t.Run("unknown onto commit", func(t *testing.T) {
		fx := cleanFixture(t)
		origHead := fx.tr.BranchHead(featureBranch)
		_, err := Init(ctx, fx.tr.Repo, fx.stateFS, InitOptions{
			Branch:   featureRef,
			OrigHead: origHead,
			Onto:     missingCommit,
			Plan:     fx.plan(),
		})
		require.Error(t, err)

		inProgress, err := InProgress(fx.stateFS)
		require.NoError(t, err)
		assert.False(t, inProgress)
		assert.Equal(t, origHead, fx.tr.Head())
		branch, attached, err := fx.tr.Repo.HeadBranch(ctx)
		require.NoError(t, err)
		assert.True(t, attached)
		assert.Equal(t, featureRef, branch)
	})
}

func TestApplyCommitFinish(t *testing.T) {
	ctx := context.Background()
	fx := cleanFixture(t)
	seq := fx.init(t, fx.plan())
	committer := fx.tr.Signature()

	report, err := seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	require.NoError(t, err)
	assert.Equal(t, rebase.ApplyReport{Commit: fx.picks[0], Action: rebase.ActionPick}, report)
	assert.Equal(t, PhaseApplied, seq.Phase())
	assert.Equal(t, "b\n", fx.tr.ReadFile("b.txt"))
	conflicts, err := seq.Conflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	first, err := seq.Commit(ctx, nil, committer)
	require.NoError(t, err)
	assert.False(t, first.AlreadyApplied())
	assert.Equal(t, PhaseSettled, seq.Phase())
	assert.Equal(t, rebase.FreshEntry, seq.Entry())
	assert.Equal(t, first.NewCommit, fx.tr.Head())

	report, err = seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	require.NoError(t, err)
	assert.Equal(t, fx.picks[1], report.Commit)
	cur, err := seq.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cur)

	second, err := seq.Commit(ctx, nil, committer)
	require.NoError(t, err)

	require.NoError(t, seq.Finish(ctx, committer, rebase.FinishOptions{RecordOrigHead: true}))

	assert.Equal(t, second.NewCommit, fx.tr.BranchHead(featureBranch))
	branch, attached, err := fx.tr.Repo.HeadBranch(ctx)
	require.NoError(t, err)
	assert.True(t, attached)
	assert.Equal(t, featureRef, branch)

	assert.Equal(t, map[string]string{
		"a.txt": "ONE\ntwo\nTHREE\n",
		"b.txt": "b\n",
	}, fx.tr.Files(second.NewCommit))
	assert.Equal(t, []string{"second feature", "first feature"}, fx.tr.Messages(second.NewCommit, fx.upstream))

	origHead, ok, err := fx.tr.Repo.ResolveRef(ctx, gitstore.OrigHead)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fx.picks[1], origHead)

	inProgress, err := InProgress(fx.stateFS)
	require.NoError(t, err)
	assert.False(t, inProgress)

	assert.Equal(t, []Rewrite{
		{Old: fx.picks[0], New: first.NewCommit},
		{Old: fx.picks[1], New: second.NewCommit},
	}, seq.Rewritten())
}

func TestCommitKeepsAuthor(t *testing.T) {
	ctx := context.Background()
	fx := cleanFixture(t)
	seq := fx.init(t, fx.plan())
	orig, err := fx.tr.Repo.Commit(ctx, fx.picks[0])
	require.NoError(t, err)

	_, err = seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	require.NoError(t, err)
	committer := fx.tr.Signature()
	outcome, err := seq.Commit(ctx, nil, committer)
	require.NoError(t, err)

	c, err := fx.tr.Repo.Commit(ctx, outcome.NewCommit)
	require.NoError(t, err)
	assert.Equal(t, orig.Author.Name, c.Author.Name)
	assert.True(t, orig.Author.When.Equal(c.Author.When))
	assert.True(t, committer.When.Equal(c.Committer.When))
	assert.Equal(t, orig.Message, c.Message)
	assert.Equal(t, []plumbing.Hash{fx.upstream}, c.ParentHashes)

	_, err = seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	require.NoError(t, err)
	override := fx.tr.Signature()
	override.Name = "someone else"
	outcome, err = seq.Commit(ctx, &override, committer)
	require.NoError(t, err)
	c, err = fx.tr.Repo.Commit(ctx, outcome.NewCommit)
	require.NoError(t, err)
	assert.Equal(t, "someone else", c.Author.Name)
}

func TestResume(t *testing.T) {
	ctx := context.Background()
	fx := cleanFixture(t)
	seq := fx.init(t, fx.plan())

	_, err := seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	require.NoError(t, err)
	outcome, err := seq.Commit(ctx, nil, fx.tr.Signature())
	require.NoError(t, err)

	reopened, err := Open(ctx, fx.tr.Repo, fx.stateFS, nil)
	require.NoError(t, err)
	assert.Equal(t, seq.ID(), reopened.ID())
	assert.True(t, startTime.Equal(reopened.StartedAt()))
	assert.Equal(t, fx.plan(), reopened.Plan())
	assert.Equal(t, PhaseSettled, reopened.Phase())
	assert.Equal(t, rebase.FreshEntry, reopened.Entry())
	assert.Equal(t, fx.upstream, reopened.Onto())
	assert.Equal(t, fx.picks[1], reopened.OrigHead())
	assert.Equal(t, []Rewrite{{Old: fx.picks[0], New: outcome.NewCommit}}, reopened.Rewritten())
	branch, ok := reopened.Branch()
	assert.True(t, ok)
	assert.Equal(t, featureRef, branch)

	report, err := reopened.ApplyNext(ctx, rebase.CheckoutOptions{})
	require.NoError(t, err)
	assert.Equal(t, fx.picks[1], report.Commit)
}

func TestConflicts(t *testing.T) {
	ctx := context.Background()
	fx := conflictFixture(t)
	seq := fx.init(t, fx.plan())

	_, err := seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	require.NoError(t, err)
	conflicts, err := seq.Conflicts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, conflicts)

	label := fx.picks[0].String()[:7] + " (first feature)"
	assert.Equal(t, "<<<<<<< HEAD\nONE\n=======\nuno\n>>>>>>> "+label+"\ntwo\nthree\n", fx.tr.ReadFile("a.txt"))

	_, err = seq.Commit(ctx, nil, fx.tr.Signature())
	assert.True(t, gitstore.ErrUnmergedEntries.Is(err), "unexpected error: %v", err)
	assert.Equal(t, PhaseApplied, seq.Phase())

	fx.tr.WriteFile("a.txt", "Uno\ntwo\nthree\n")
	require.NoError(t, fx.tr.Repo.MarkResolved(ctx, "a.txt"))
	conflicts, err = seq.Conflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	outcome, err := seq.Commit(ctx, nil, fx.tr.Signature())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.txt": "Uno\ntwo\nthree\n"}, fx.tr.Files(outcome.NewCommit))
}

func TestConflictLabels(t *testing.T) {
	ctx := context.Background()
	fx := conflictFixture(t)
	seq := fx.init(t, fx.plan())

	_, err := seq.ApplyNext(ctx, rebase.CheckoutOptions{
		ConflictStyle: rebase.ConflictStyleDiff3,
		OursLabel:     "upstream",
		TheirsLabel:   "mine",
	})
	require.NoError(t, err)

	base := "parent of " + fx.picks[0].String()[:7] + " (first feature)"
	assert.Equal(t, "<<<<<<< upstream\nONE\n||||||| "+base+"\none\n=======\nuno\n>>>>>>> mine\ntwo\nthree\n", fx.tr.ReadFile("a.txt"))
}

func TestAlreadyApplied(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t,
		map[string]string{"a.txt": "one\n"},
		map[string]string{"a.txt": "two\n"},
		map[string]string{"a.txt": "two\n"},
	)
	seq := fx.init(t, fx.plan())

	_, err := seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	require.NoError(t, err)
	outcome, err := seq.Commit(ctx, nil, fx.tr.Signature())
	require.NoError(t, err)
	assert.True(t, outcome.AlreadyApplied())
	assert.Equal(t, PhaseSettled, seq.Phase())
	assert.Equal(t, fx.upstream, fx.tr.Head())
	assert.Empty(t, seq.Rewritten())
}

func TestAbort(t *testing.T) {
	ctx := context.Background()
	fx := conflictFixture(t)
	origHead := fx.tr.BranchHead(featureBranch)
	seq := fx.init(t, fx.plan())

	_, err := seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	require.NoError(t, err)
	require.NoError(t, seq.Abort(ctx))

	assert.Equal(t, origHead, fx.tr.Head())
	branch, attached, err := fx.tr.Repo.HeadBranch(ctx)
	require.NoError(t, err)
	assert.True(t, attached)
	assert.Equal(t, featureRef, branch)
	assert.Equal(t, "uno\ntwo\nthree\n", fx.tr.ReadFile("a.txt"))

	unmerged, err := fx.tr.Repo.UnmergedPaths(ctx)
	require.NoError(t, err)
	assert.Empty(t, unmerged)
	clean, err := fx.tr.Repo.IsClean(ctx)
	require.NoError(t, err)
	assert.True(t, clean)

	inProgress, err := InProgress(fx.stateFS)
	require.NoError(t, err)
	assert.False(t, inProgress)
}

var missingCommit = plumbing.NewHash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

func TestFailedApplyStaysPending(t *testing.T) {
	ctx := context.Background()
	fx := cleanFixture(t)
	origHead := fx.tr.BranchHead(featureBranch)
	plan := &rebase.Plan{Steps: []rebase.Step{
		{Action: rebase.ActionPick, Commit: fx.picks[0], Message: featureMessage(0)},
		{Action: rebase.ActionPick, Commit: missingCommit, Message: "missing"},
	}}
	seq := fx.init(t, plan)
	committer := fx.tr.Signature()

	_, err := seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	require.NoError(t, err)
	first, err := seq.Commit(ctx, nil, committer)
	require.NoError(t, err)

	_, err = seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	require.Error(t, err)
	assert.Equal(t, PhasePending, seq.Phase())
	assert.Equal(t, rebase.ContinuingEntry, seq.Entry())
	_, err = seq.Commit(ctx, nil, committer)
	assert.True(t, ErrNothingApplied.Is(err), "unexpected error: %v", err)
	assert.Equal(t, first.NewCommit, fx.tr.Head())
	clean, err := fx.tr.Repo.IsClean(ctx)
	require.NoError(t, err)
	assert.True(t, clean)

	reopened, err := Open(ctx, fx.tr.Repo, fx.stateFS, nil)
	require.NoError(t, err)
	cur, err := reopened.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cur)
	assert.Equal(t, PhasePending, reopened.Phase())
	assert.Equal(t, rebase.ContinuingEntry, reopened.Entry())
	assert.Equal(t, []Rewrite{{Old: fx.picks[0], New: first.NewCommit}}, reopened.Rewritten())

	// retrying applies the same step again
	_, err = reopened.ApplyNext(ctx, rebase.CheckoutOptions{})
	require.Error(t, err)
	cur, err = reopened.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cur)
	err = reopened.Finish(ctx, committer, rebase.FinishOptions{})
	assert.True(t, ErrStepsRemaining.Is(err), "unexpected error: %v", err)

	require.NoError(t, reopened.Abort(ctx))
	assert.Equal(t, origHead, fx.tr.Head())
	inProgress, err := InProgress(fx.stateFS)
	require.NoError(t, err)
	assert.False(t, inProgress)
}

func TestFinishBranchMoved(t *testing.T) {
	ctx := context.Background()
	fx := cleanFixture(t)
	seq := fx.init(t, &rebase.Plan{})

	require.NoError(t, fx.tr.Repo.SetRef(ctx, featureRef, fx.picks[0]))
	err := seq.Finish(ctx, fx.tr.Signature(), rebase.FinishOptions{})
	assert.True(t, ErrBranchMoved.Is(err), "unexpected error: %v", err)

	inProgress, err := InProgress(fx.stateFS)
	require.NoError(t, err)
	assert.True(t, inProgress)
}

func TestStepErrors(t *testing.T) {
	ctx := context.Background()
	fx := cleanFixture(t)
	seq := fx.init(t, fx.plan())
	committer := fx.tr.Signature()

	_, err := seq.Commit(ctx, nil, committer)
	assert.True(t, ErrNothingApplied.Is(err), "unexpected error: %v", err)
	err = seq.Finish(ctx, committer, rebase.FinishOptions{})
	assert.True(t, ErrStepsRemaining.Is(err), "unexpected error: %v", err)

	_, err = seq.StepAt(ctx, -1)
	assert.True(t, ErrStepOutOfRange.Is(err))
	_, err = seq.StepAt(ctx, 2)
	assert.True(t, ErrStepOutOfRange.Is(err))
	step, err := seq.StepAt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, fx.picks[1], step.Commit)

	_, err = seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	require.NoError(t, err)
	_, err = seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	assert.True(t, ErrStepPending.Is(err), "unexpected error: %v", err)

	for i := 0; i < 2; i++ {
		if i > 0 {
			_, err = seq.ApplyNext(ctx, rebase.CheckoutOptions{})
			require.NoError(t, err)
		}
		_, err = seq.Commit(ctx, nil, committer)
		require.NoError(t, err)
	}
	_, err = seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	assert.True(t, ErrNoMoreSteps.Is(err), "unexpected error: %v", err)
}

func TestApplyRequiresCleanWorktree(t *testing.T) {
	ctx := context.Background()
	fx := cleanFixture(t)
	seq := fx.init(t, fx.plan())

	fx.tr.WriteFile("a.txt", "local edit\n")
	_, err := seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	assert.True(t, ErrUncommittedChanges.Is(err), "unexpected error: %v", err)
	assert.Equal(t, PhasePending, seq.Phase())

	_, err = seq.ApplyNext(ctx, rebase.CheckoutOptions{Force: true})
	require.NoError(t, err)
	assert.Equal(t, "ONE\ntwo\nthree\n", fx.tr.ReadFile("a.txt"))
	assert.Equal(t, "b\n", fx.tr.ReadFile("b.txt"))
}

func TestNonPickStepLeavesTree(t *testing.T) {
	ctx := context.Background()
	fx := cleanFixture(t)
	seq := fx.init(t, &rebase.Plan{Steps: []rebase.Step{{Action: rebase.ActionExec, Payload: "make test"}}})

	report, err := seq.ApplyNext(ctx, rebase.CheckoutOptions{})
	require.NoError(t, err)
	assert.Equal(t, rebase.ApplyReport{Action: rebase.ActionExec}, report)
	assert.Equal(t, fx.upstream, fx.tr.Head())

	_, err = seq.Commit(ctx, nil, fx.tr.Signature())
	assert.True(t, rebase.ErrUnsupportedAction.Is(err), "unexpected error: %v", err)
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	fx := cleanFixture(t)

	_, err := Open(ctx, fx.tr.Repo, fx.stateFS, nil)
	assert.True(t, ErrNoRebaseInProgress.Is(err), "unexpected error: %v", err)

	fx.init(t, fx.plan())
	require.NoError(t, util.WriteFile(fx.stateFS, "rebase-merge/phase", []byte("sideways\n"), 0644))
	_, err = Open(ctx, fx.tr.Repo, fx.stateFS, nil)
	assert.True(t, ErrCorruptState.Is(err), "unexpected error: %v", err)

	require.NoError(t, fx.stateFS.Remove("rebase-merge/phase"))
	_, err = Open(ctx, fx.tr.Repo, fx.stateFS, nil)
	assert.True(t, ErrCorruptState.Is(err), "unexpected error: %v", err)
}

func TestRunDrivesSequencer(t *testing.T) {
	ctx := context.Background()

	t.Run("completes", func(t *testing.T) {
		fx := cleanFixture(t)
		seq := fx.init(t, fx.plan())

		var completed []plumbing.Hash
		res, err := rebase.Run(ctx, seq, fx.tr.Signature(), rebase.Options{
			StepCompleted: func(_ rebase.StepProgress, h plumbing.Hash) { completed = append(completed, h) },
		}, seq.Entry())
		require.NoError(t, err)
		assert.Equal(t, rebase.StatusComplete, res.Status)
		assert.Len(t, completed, 2)
		assert.Equal(t, completed[1], fx.tr.BranchHead(featureBranch))
	})

	t.Run("halts on conflicts and continues", func(t *testing.T) {
		fx := conflictFixture(t)
		seq := fx.init(t, fx.plan())
		committer := fx.tr.Signature()

		res, err := rebase.Run(ctx, seq, committer, rebase.Options{}, seq.Entry())
		require.NoError(t, err)
		assert.Equal(t, rebase.StatusConflicts, res.Status)
		assert.Equal(t, []string{"a.txt"}, res.Conflicts)
		assert.Equal(t, 0, res.CurrentStep)

		fx.tr.WriteFile("a.txt", "ONE\ntwo\nthree\nuno\n")
		require.NoError(t, fx.tr.Repo.MarkResolved(ctx, "a.txt"))
		_, err = seq.Commit(ctx, nil, committer)
		require.NoError(t, err)

		res, err = rebase.Run(ctx, seq, committer, rebase.Options{}, seq.Entry())
		require.NoError(t, err)
		assert.Equal(t, rebase.StatusComplete, res.Status)
		assert.Equal(t, "ONE\ntwo\nthree\nuno\n", fx.tr.Files(fx.tr.BranchHead(featureBranch))["a.txt"])
	})

	t.Run("empty plan", func(t *testing.T) {
		fx := cleanFixture(t)
		seq := fx.init(t, &rebase.Plan{})

		res, err := rebase.Run(ctx, seq, fx.tr.Signature(), rebase.Options{}, seq.Entry())
		require.NoError(t, err)
		assert.Equal(t, rebase.StatusComplete, res.Status)
		assert.Equal(t, fx.upstream, fx.tr.BranchHead(featureBranch))
	})
}
