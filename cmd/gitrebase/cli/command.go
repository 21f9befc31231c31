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

package cli

import (
	"context"
	"strings"

	"github.com/fatih/color"

	"github.com/dolthub/gitrebase/libraries/env"
)

func isHelp(str string) bool {
	switch {
	case str == "-h":
		return true
	case strings.TrimLeft(str, "- ") == "help":
		return true
	}
	return false
}

// Command is the interface which defines a gitrebase cli command
type Command interface {
	// Name returns the name used on the command line to invoke the command
	Name() string
	// Description returns a one line description of the command
	Description() string
	// Exec executes the command and returns the process exit code
	Exec(ctx context.Context, commandStr string, args []string, rEnv *env.RebaseEnv) int
}

// RepoNotRequiredCommand is an optional interface for commands which run without a repository. Commands not
// implementing it are given a loaded environment.
type RepoNotRequiredCommand interface {
	RequiresRepo() bool
}

// EnvLoader loads the environment for commands which need a repository.
type EnvLoader func() (*env.RebaseEnv, error)

// SubCommandHandler dispatches to one of its subcommands by name
type SubCommandHandler struct {
	name        string
	description string
	Subcommands []Command
}

func NewSubCommandHandler(name, description string, subcommands []Command) SubCommandHandler {
	return SubCommandHandler{name, description, subcommands}
}

func (hc SubCommandHandler) Name() string {
	return hc.name
}

func (hc SubCommandHandler) Description() string {
	return hc.description
}

// Exec runs the subcommand named by args[0]. The environment is only loaded for commands which require a repository.
func (hc SubCommandHandler) Exec(ctx context.Context, commandStr string, args []string, load EnvLoader) int {
	if len(args) < 1 {
		hc.printUsage(commandStr)
		return 1
	}

	subCommandStr := strings.ToLower(strings.TrimSpace(args[0]))
	for _, cmd := range hc.Subcommands {
		if strings.ToLower(cmd.Name()) != subCommandStr {
			continue
		}

		cmdRequiresRepo := true
		if rnrCmd, ok := cmd.(RepoNotRequiredCommand); ok {
			cmdRequiresRepo = rnrCmd.RequiresRepo()
		}

		var rEnv *env.RebaseEnv
		if cmdRequiresRepo {
			var err error
			if rEnv, err = load(); err != nil {
				PrintErrln(color.RedString("Failed to load the repository."))
				PrintErrln(err.Error())
				return 1
			}
		}
		return cmd.Exec(ctx, commandStr+" "+subCommandStr, args[1:], rEnv)
	}

	if !isHelp(subCommandStr) {
		PrintErrln(color.RedString("Unknown Command " + subCommandStr))
		hc.printUsage(commandStr)
		return 1
	}
	hc.printUsage(commandStr)
	return 0
}

func (hc SubCommandHandler) printUsage(commandStr string) {
	Println("Valid commands for", commandStr, "are")
	for _, cmd := range hc.Subcommands {
		Printf("    %16s - %s\n", cmd.Name(), cmd.Description())
	}
}
