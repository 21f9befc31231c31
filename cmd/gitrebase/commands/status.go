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

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/dolthub/gitrebase/cmd/gitrebase/cli"
	"github.com/dolthub/gitrebase/cmd/gitrebase/errhand"
	"github.com/dolthub/gitrebase/libraries/actions"
	"github.com/dolthub/gitrebase/libraries/env"
	"github.com/dolthub/gitrebase/libraries/sequencer"
	"github.com/dolthub/gitrebase/libraries/utils/argparser"
)

var statusDocs = cli.CommandDocumentationContent{
	ShortDesc: "Shows the state of the rebase in progress",
	Synopsis:  []string{""},
}

type StatusCmd struct{}

var _ cli.Command = StatusCmd{}

func (cmd StatusCmd) Name() string {
	return "status"
}

func (cmd StatusCmd) Description() string {
	return statusDocs.ShortDesc
}

func (cmd StatusCmd) ArgParser() *argparser.ArgParser {
	return argparser.NewArgParserWithMaxArgs(cmd.Name(), 0)
}

func (cmd StatusCmd) Exec(ctx context.Context, commandStr string, args []string, rEnv *env.RebaseEnv) int {
	_, exitCode, done := cli.ParseArgs(cmd.ArgParser(), commandStr, args, statusDocs)
	if done {
		return exitCode
	}

	st, err := actions.RebaseStatus(ctx, rEnv.Repo, rEnv.FS)
	if err != nil {
		return HandleVErrAndExitCode(errhand.BuildDError("error: failed to read rebase state").AddCause(err).Build())
	}
	printStatus(st)
	return 0
}

func printStatus(st *actions.Status) {
	if !st.InProgress {
		cli.Println("No rebase in progress.")
		return
	}

	cli.Printf("Rebasing %s onto %s, started %s (%s)\n",
		color.CyanString(displayBranch(st.Branch)), shortHash(st.Onto), humanize.Time(st.StartedAt), st.ID)

	switch {
	case st.Step == nil:
		cli.Printf("All %s applied; run \"gitrebase rebase --continue\" to finish.\n", pluralize(st.Total, "step", "steps"))
	case st.Phase == sequencer.PhaseApplied:
		cli.Printf("Stopped at step %d/%d: %s\n", st.Current+1, st.Total, stepSummary(*st.Step))
	default:
		cli.Printf("Next step %d/%d: %s\n", st.Current+1, st.Total, stepSummary(*st.Step))
	}

	if len(st.Rewritten) > 0 {
		cli.Printf("%s rewritten so far.\n", pluralize(len(st.Rewritten), "commit", "commits"))
	}

	if len(st.Conflicts) > 0 {
		cli.Println("Unmerged paths:")
		cli.Println(`  (use "gitrebase add <path>..." to mark resolution)`)
		for _, path := range st.Conflicts {
			cli.Println(color.RedString("\t" + path))
		}
	}
}
