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

	"github.com/fatih/color"

	"github.com/dolthub/gitrebase/cmd/gitrebase/cli"
	"github.com/dolthub/gitrebase/cmd/gitrebase/errhand"
	"github.com/dolthub/gitrebase/libraries/env"
	"github.com/dolthub/gitrebase/libraries/utils/argparser"
)

var addDocs = cli.CommandDocumentationContent{
	ShortDesc: "Marks conflicted files as resolved",
	LongDesc: `Stages the working tree copy of each path, replacing the conflicting versions recorded in the index. Once
every conflict is resolved the rebase can be continued.`,
	Synopsis: []string{`<path>...`},
}

type AddCmd struct{}

var _ cli.Command = AddCmd{}

func (cmd AddCmd) Name() string {
	return "add"
}

func (cmd AddCmd) Description() string {
	return addDocs.ShortDesc
}

func (cmd AddCmd) ArgParser() *argparser.ArgParser {
	ap := argparser.NewArgParserWithVariableArgs(cmd.Name())
	ap.ArgListHelp = append(ap.ArgListHelp, [2]string{"path", "A file to mark as resolved."})
	return ap
}

func (cmd AddCmd) Exec(ctx context.Context, commandStr string, args []string, rEnv *env.RebaseEnv) int {
	ap := cmd.ArgParser()
	apr, exitCode, done := cli.ParseArgs(ap, commandStr, args, addDocs)
	if done {
		return exitCode
	}
	if apr.NArg() == 0 {
		cli.PrintErrln(color.RedString("Nothing specified, nothing added."))
		cli.PrintUsage(commandStr, addDocs, ap)
		return 1
	}

	verr := withLock(ctx, rEnv, func() errhand.VerboseError {
		err := rEnv.Repo.MarkResolved(ctx, apr.Args()...)
		return errhand.BuildIf(err, "error: failed to mark paths as resolved").Build()
	})
	return HandleVErrAndExitCode(verr)
}
