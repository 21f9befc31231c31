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

package commands

import (
	"context"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/dolthub/gitrebase/cmd/gitrebase/cli"
	"github.com/dolthub/gitrebase/cmd/gitrebase/errhand"
	"github.com/dolthub/gitrebase/libraries/actions"
	"github.com/dolthub/gitrebase/libraries/config"
	"github.com/dolthub/gitrebase/libraries/env"
	"github.com/dolthub/gitrebase/libraries/rebase"
	"github.com/dolthub/gitrebase/libraries/utils/argparser"
	"github.com/dolthub/gitrebase/libraries/utils/editor"
)

const (
	interactiveFlag   = "interactive"
	continueFlag      = "continue"
	abortFlag         = "abort"
	ontoParam         = "onto"
	conflictStyleParm = "conflict-style"
)

var rebaseDocs = cli.CommandDocumentationContent{
	ShortDesc: "Reapplies commits on top of another base tip",
	LongDesc: `Rewrites the history of a branch by replaying its commits on a new base. The commits replayed are the ones
reachable from the branch but not from the upstream, oldest first. Each commit keeps its author and message.

If a commit does not apply cleanly the rebase halts with conflict markers in the working tree. Resolve the conflicts,
mark the files resolved with "gitrebase add", then run "gitrebase rebase --continue". "gitrebase rebase --abort"
restores the branch to where it was before the rebase started.

With --interactive the plan is opened in an editor before the rebase starts. Lines may be reordered or removed.
Removing every line cancels the rebase.
`,
	Synopsis: []string{
		`[-i | --interactive] [--onto <newbase>] <upstream> [<branch>]`,
		`(--continue | --abort)`,
	},
}

type RebaseCmd struct{}

var _ cli.Command = RebaseCmd{}

func (cmd RebaseCmd) Name() string {
	return "rebase"
}

func (cmd RebaseCmd) Description() string {
	return rebaseDocs.ShortDesc
}

func (cmd RebaseCmd) ArgParser() *argparser.ArgParser {
	ap := argparser.NewArgParserWithMaxArgs(cmd.Name(), 2)
	ap.ArgListHelp = append(ap.ArgListHelp,
		[2]string{"upstream", "The commits not reachable from upstream are replayed."},
		[2]string{"branch", "The branch to rebase. Defaults to the current branch."})
	ap.SupportsFlag(interactiveFlag, "i", "Edit the list of commits to replay before the rebase starts.")
	ap.SupportsFlag(continueFlag, "", "Continue a rebase halted on conflicts once they are resolved.")
	ap.SupportsFlag(abortFlag, "", "Abort the rebase in progress and restore the original branch.")
	ap.SupportsString(ontoParam, "", "newbase", "Replay the commits on newbase instead of upstream.")
	ap.SupportsValidatedString(conflictStyleParm, "", "style", "Conflict marker style, merge or diff3. Overrides checkout.conflict_style.",
		argparser.ValidatorFromStrList(conflictStyleParm, []string{config.ConflictStyleMerge, config.ConflictStyleDiff3}))
	return ap
}

func (cmd RebaseCmd) Exec(ctx context.Context, commandStr string, args []string, rEnv *env.RebaseEnv) int {
	ap := cmd.ArgParser()
	apr, exitCode, done := cli.ParseArgs(ap, commandStr, args, rebaseDocs)
	if done {
		return exitCode
	}

	if apr.Contains(continueFlag) && apr.Contains(abortFlag) {
		return HandleVErrAndExitCode(errhand.BuildDError("error: --continue and --abort are mutually exclusive").Build())
	}
	if apr.ContainsAny(continueFlag, abortFlag) && (apr.NArg() > 0 || apr.ContainsAny(interactiveFlag, ontoParam)) {
		return HandleVErrAndExitCode(errhand.BuildDError("error: --%s takes no other arguments", flagName(apr)).Build())
	}
	if !apr.ContainsAny(continueFlag, abortFlag) && apr.NArg() == 0 {
		cli.PrintErrln(color.RedString("error: missing upstream"))
		cli.PrintUsage(commandStr, rebaseDocs, ap)
		return 1
	}

	verr := withLock(ctx, rEnv, func() errhand.VerboseError {
		switch {
		case apr.Contains(abortFlag):
			return abortRebase(ctx, rEnv)
		case apr.Contains(continueFlag):
			return continueRebase(ctx, rEnv, apr)
		default:
			return startRebase(ctx, rEnv, apr)
		}
	})
	return HandleVErrAndExitCode(verr)
}

func flagName(apr *argparser.ArgParseResults) string {
	if apr.Contains(abortFlag) {
		return abortFlag
	}
	return continueFlag
}

func runOptions(rEnv *env.RebaseEnv, apr *argparser.ArgParseResults) rebase.Options {
	opts := rEnv.RunOptions()
	if style, ok := apr.GetValue(conflictStyleParm); ok && strings.EqualFold(style, config.ConflictStyleDiff3) {
		opts.Checkout.ConflictStyle = rebase.ConflictStyleDiff3
	} else if ok {
		opts.Checkout.ConflictStyle = rebase.ConflictStyleMerge
	}
	opts.StepStarting = func(p rebase.StepProgress) {
		cli.Printf("Rebasing (%d/%d) %s\n", p.Current+1, p.Total, stepSummary(p.Step))
	}
	opts.StepCompleted = func(p rebase.StepProgress, newCommit plumbing.Hash) {
		if newCommit.IsZero() {
			cli.Println(color.YellowString("  already applied, no commit created"))
		}
	}
	return opts
}

func stepSummary(step rebase.Step) string {
	if step.Commit.IsZero() {
		return step.String()
	}
	return step.Action.String() + " " + shortHash(step.Commit) + " " + firstLine(step.Message)
}

func firstLine(msg string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(msg), "\n")
	return line
}

func startRebase(ctx context.Context, rEnv *env.RebaseEnv, apr *argparser.ArgParseResults) errhand.VerboseError {
	committer, err := rEnv.Committer(time.Now())
	if err != nil {
		return errhand.VerboseErrorFromError(err)
	}

	branch, err := branchToRebase(ctx, rEnv, apr.Arg(1))
	if err != nil {
		return errhand.VerboseErrorFromError(err)
	}

	opts := actions.StartOptions{
		Upstream: apr.Arg(0),
		Onto:     apr.GetValueOrDefault(ontoParam, ""),
		Branch:   apr.Arg(1),
		Run:      runOptions(rEnv, apr),
	}
	if apr.Contains(interactiveFlag) {
		if !cli.IsTerminal() {
			cli.PrintErrln(color.YellowString("warning: not a terminal, using the default plan"))
		} else {
			editorStr := rEnv.Config.Editor()
			opts.EditPlan = func(ctx context.Context, todo string) (string, error) {
				return editor.OpenTempEditor(editorStr, todo, "")
			}
		}
	}

	res, err := actions.StartRebase(ctx, rEnv.Repo, rEnv.FS, committer, opts)
	if actions.ErrEmptyPlan.Is(err) {
		cli.Println(actions.RebaseAbortedMessage)
		return nil
	}
	if err != nil {
		return errhand.BuildDError("error: rebase failed").AddCause(err).Build()
	}
	return reportResult(res, branch)
}

// branchToRebase returns the branch a new rebase will update, or an empty name for a detached HEAD.
func branchToRebase(ctx context.Context, rEnv *env.RebaseEnv, name string) (plumbing.ReferenceName, error) {
	if name != "" {
		return plumbing.NewBranchReferenceName(name), nil
	}
	branch, attached, err := rEnv.Repo.HeadBranch(ctx)
	if err != nil || !attached {
		return "", err
	}
	return branch, nil
}

func continueRebase(ctx context.Context, rEnv *env.RebaseEnv, apr *argparser.ArgParseResults) errhand.VerboseError {
	st, err := actions.RebaseStatus(ctx, rEnv.Repo, rEnv.FS)
	if err != nil {
		return errhand.VerboseErrorFromError(err)
	}
	if !st.InProgress {
		return errhand.BuildDError("error: no rebase in progress").Build()
	}

	committer, err := rEnv.Committer(time.Now())
	if err != nil {
		return errhand.VerboseErrorFromError(err)
	}
	res, err := actions.ContinueRebase(ctx, rEnv.Repo, rEnv.FS, committer, runOptions(rEnv, apr))
	if err != nil {
		return errhand.BuildDError("error: rebase failed").AddCause(err).Build()
	}
	return reportResult(res, st.Branch)
}

func abortRebase(ctx context.Context, rEnv *env.RebaseEnv) errhand.VerboseError {
	if err := actions.AbortRebase(ctx, rEnv.Repo, rEnv.FS, rEnv.Logger); err != nil {
		return errhand.BuildDError("error: failed to abort the rebase").AddCause(err).Build()
	}
	cli.Println(actions.RebaseAbortedMessage)
	return nil
}

func reportResult(res *rebase.Result, branch plumbing.ReferenceName) errhand.VerboseError {
	switch res.Status {
	case rebase.StatusComplete:
		cli.Println(actions.SuccessfulRebaseMessage + displayBranch(branch))
	case rebase.StatusConflicts:
		cli.PrintErrln(color.RedString("CONFLICT: could not apply step %d/%d", res.CurrentStep+1, res.TotalSteps))
		for _, path := range res.Conflicts {
			cli.PrintErrln("\tunmerged:   " + path)
		}
		cli.PrintErrln(`Resolve all conflicts manually, mark them as resolved with "gitrebase add <path>...",
then run "gitrebase rebase --continue". To abort and get back to the state before the rebase, run
"gitrebase rebase --abort".`)
	case rebase.StatusStop:
		cli.Printf("Rebase stopped before step %d/%d. Run \"gitrebase rebase --continue\" to resume.\n", res.CurrentStep+1, res.TotalSteps)
	}
	return nil
}
