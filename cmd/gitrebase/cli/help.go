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
	"strings"

	"github.com/fatih/color"

	"github.com/dolthub/gitrebase/libraries/utils/argparser"
)

// CommandDocumentationContent is the help text of a command.
type CommandDocumentationContent struct {
	ShortDesc string
	LongDesc  string
	Synopsis  []string
}

// PrintHelp prints the help text of a command along with its options.
func PrintHelp(commandStr string, docs CommandDocumentationContent, ap *argparser.ArgParser) {
	Println(color.New(color.Bold).Sprint("NAME"))
	Printf("\t%s - %s\n\n", commandStr, docs.ShortDesc)
	PrintUsage(commandStr, docs, ap)
	if docs.LongDesc != "" {
		Println()
		Println(color.New(color.Bold).Sprint("DESCRIPTION"))
		Println(indent(strings.TrimSpace(docs.LongDesc), "\t"))
	}
}

// PrintUsage prints the synopsis and options of a command.
func PrintUsage(commandStr string, docs CommandDocumentationContent, ap *argparser.ArgParser) {
	Println(color.New(color.Bold).Sprint("SYNOPSIS"))
	for _, s := range docs.Synopsis {
		Printf("\t%s %s\n", commandStr, s)
	}

	if len(ap.Supported) == 0 && len(ap.ArgListHelp) == 0 {
		return
	}
	Println()
	Println(color.New(color.Bold).Sprint("OPTIONS"))
	for _, arg := range ap.ArgListHelp {
		Printf("\t<%s>\n\t  %s\n\n", arg[0], arg[1])
	}
	for _, opt := range ap.Supported {
		Printf("\t%s\n\t  %s\n\n", optionString(opt), opt.Desc)
	}
}

func optionString(opt *argparser.Option) string {
	var sb strings.Builder
	if opt.Abbrev != "" {
		sb.WriteString("-" + opt.Abbrev + ", ")
	}
	sb.WriteString("--" + opt.Name)
	if opt.OptType == argparser.OptionalValue {
		sb.WriteString("=<" + opt.ValDesc + ">")
	}
	return sb.String()
}

func indent(str, indentStr string) string {
	lines := strings.Split(str, "\n")
	return indentStr + strings.Join(lines, "\n"+indentStr)
}

// ParseArgs parses |args|. When |done| is true the command should return |exitCode| immediately: help was printed
// for --help, or an error and usage for invalid arguments.
func ParseArgs(ap *argparser.ArgParser, commandStr string, args []string, docs CommandDocumentationContent) (apr *argparser.ArgParseResults, exitCode int, done bool) {
	apr, err := ap.Parse(args)
	if err == argparser.ErrHelp {
		PrintHelp(commandStr, docs, ap)
		return nil, 0, true
	}
	if err != nil {
		PrintErrln(color.RedString(err.Error()))
		PrintUsage(commandStr, docs, ap)
		return nil, 1, true
	}
	return apr, 0, false
}
