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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/gitrebase/cmd/gitrebase/cli"
	"github.com/dolthub/gitrebase/cmd/gitrebase/commands"
	"github.com/dolthub/gitrebase/libraries/env"
)

const Version = "0.1.0"

var gitrebaseCommand = cli.NewSubCommandHandler("gitrebase", "Replays commits on a new base, one resumable step at a time.", []cli.Command{
	commands.RebaseCmd{},
	commands.AddCmd{},
	commands.StatusCmd{},
	commands.VersionCmd{VersionStr: Version},
})

func main() {
	os.Exit(runMain())
}

func runMain() int {
	dir, cfgPath, args, err := parseGlobalArgs(os.Args[1:])
	if err != nil {
		cli.PrintErrln(color.RedString(err.Error()))
		return 1
	}

	// An interrupt halts a rebase at the next step boundary. A second one kills the process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	lgr := logrus.New()
	lgr.SetOutput(os.Stderr)
	return gitrebaseCommand.Exec(ctx, "gitrebase", args, func() (*env.RebaseEnv, error) {
		return env.Load(dir, cfgPath, lgr)
	})
}

// parseGlobalArgs consumes the options which precede the command name.
func parseGlobalArgs(args []string) (dir, cfgPath string, rest []string, err error) {
	dir = "."
	for len(args) > 0 {
		switch arg := args[0]; {
		case arg == "-C" || arg == "--config":
			if len(args) < 2 {
				return "", "", nil, fmt.Errorf("error: no value for option `%s'", strings.TrimLeft(arg, "-"))
			}
			if arg == "-C" {
				dir = args[1]
			} else {
				cfgPath = args[1]
			}
			args = args[2:]
		case strings.HasPrefix(arg, "--config="):
			cfgPath = strings.TrimPrefix(arg, "--config=")
			args = args[1:]
		default:
			return dir, cfgPath, args, nil
		}
	}
	return dir, cfgPath, args, nil
}
