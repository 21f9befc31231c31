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

package argparser

import (
	"errors"
	"fmt"
	"strings"
)

const (
	helpFlag       = "help"
	helpFlagAbbrev = "h"
)

// ErrHelp is returned by Parse when --help or -h is given.
var ErrHelp = errors.New("help")

// UnknownArgumentParam is returned for options the parser does not support.
type UnknownArgumentParam struct {
	name string
}

func (unk UnknownArgumentParam) Error() string {
	return "error: unknown option `" + unk.name + "'"
}

type ArgParser struct {
	Name      string
	MaxArgs   int
	Supported []*Option
	// ArgListHelp describes positional arguments as name, description pairs.
	ArgListHelp       [][2]string
	nameOrAbbrevToOpt map[string]*Option
}

// NewArgParserWithMaxArgs creates a new ArgParser for a named command that limits how many positional arguments it
// will accept.
func NewArgParserWithMaxArgs(name string, maxArgs int) *ArgParser {
	return &ArgParser{
		Name:              name,
		MaxArgs:           maxArgs,
		nameOrAbbrevToOpt: make(map[string]*Option),
	}
}

// NewArgParserWithVariableArgs creates a new ArgParser for a named command that accepts any number of positional
// arguments.
func NewArgParserWithVariableArgs(name string) *ArgParser {
	return NewArgParserWithMaxArgs(name, -1)
}

// SupportOption adds support for a new argument with the option given. Options must have a unique name and abbreviated name.
func (ap *ArgParser) SupportOption(opt *Option) {
	_, nameExist := ap.nameOrAbbrevToOpt[opt.Name]
	_, abbrevExist := ap.nameOrAbbrevToOpt[opt.Abbrev]

	switch {
	case opt.Name == "":
		panic("Name is required")
	case opt.Name == helpFlag || opt.Abbrev == helpFlag || opt.Name == helpFlagAbbrev || opt.Abbrev == helpFlagAbbrev:
		panic(`"help" and "h" are both reserved`)
	case nameExist || (opt.Abbrev != "" && abbrevExist):
		panic("There is a bug.  Two supported arguments have the same name or abbreviation")
	case strings.HasPrefix(opt.Name, "-") || strings.HasPrefix(opt.Abbrev, "-"):
		panic("There is a bug. Option names, and abbreviations should not start with -")
	case strings.ContainsAny(opt.Name, " =\t\r\n"):
		panic("There is a bug.  Option name contains an invalid character")
	}

	ap.Supported = append(ap.Supported, opt)
	ap.nameOrAbbrevToOpt[opt.Name] = opt
	if opt.Abbrev != "" {
		ap.nameOrAbbrevToOpt[opt.Abbrev] = opt
	}
}

// SupportsFlag adds support for a new flag (argument with no value).
func (ap *ArgParser) SupportsFlag(name, abbrev, desc string) *ArgParser {
	ap.SupportOption(&Option{Name: name, Abbrev: abbrev, OptType: OptionalFlag, Desc: desc})
	return ap
}

// SupportsString adds support for a new string argument with the description given.
func (ap *ArgParser) SupportsString(name, abbrev, valDesc, desc string) *ArgParser {
	ap.SupportOption(&Option{Name: name, Abbrev: abbrev, ValDesc: valDesc, OptType: OptionalValue, Desc: desc})
	return ap
}

// SupportsValidatedString adds support for a new string argument checked by |validator|.
func (ap *ArgParser) SupportsValidatedString(name, abbrev, valDesc, desc string, validator ValidationFunc) *ArgParser {
	ap.SupportOption(&Option{Name: name, Abbrev: abbrev, ValDesc: valDesc, OptType: OptionalValue, Desc: desc, Validator: validator})
	return ap
}

// SupportsUint adds support for a new uint argument with the description given.
func (ap *ArgParser) SupportsUint(name, abbrev, valDesc, desc string) *ArgParser {
	ap.SupportOption(&Option{Name: name, Abbrev: abbrev, ValDesc: valDesc, OptType: OptionalValue, Desc: desc, Validator: isUintStr})
	return ap
}

// Parse parses |args| using the options previously configured with the Supports* methods. Values are given as
// "--name value", "--name=value", or "-n value". Short flags may be combined, as in "-ab". Everything after "--" is
// positional. Returns ErrHelp if --help or -h is found.
func (ap *ArgParser) Parse(args []string) (*ArgParseResults, error) {
	positional := make([]string, 0, len(args))
	named := make(map[string]string)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			positional = append(positional, arg)
			continue
		}

		isLong := strings.HasPrefix(arg, "--")
		name := strings.TrimLeft(arg, "-")
		if name == helpFlag || name == helpFlagAbbrev {
			return nil, ErrHelp
		}

		var value *string
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			v := name[eq+1:]
			name, value = name[:eq], &v
		}

		opt, ok := ap.nameOrAbbrevToOpt[name]
		if !ok && !isLong && value == nil {
			if err := ap.parseShortFlags(name, named); err != nil {
				return nil, err
			}
			continue
		}
		if !ok {
			return nil, UnknownArgumentParam{name: name}
		}
		if _, exists := named[opt.Name]; exists {
			return nil, fmt.Errorf("error: multiple values provided for `%s'", opt.Name)
		}

		if opt.OptType == OptionalFlag {
			if value != nil {
				return nil, fmt.Errorf("error: option `%s' does not take a value", opt.Name)
			}
			named[opt.Name] = ""
			continue
		}

		if value == nil {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("error: no value for option `%s'", opt.Name)
			}
			i++
			value = &args[i]
		}
		if opt.Validator != nil {
			if err := opt.Validator(*value); err != nil {
				return nil, err
			}
		}
		named[opt.Name] = *value
	}

	if ap.MaxArgs != -1 && len(positional) > ap.MaxArgs {
		if ap.MaxArgs == 0 {
			return nil, fmt.Errorf("error: %s does not take positional arguments, but found %d: %s", ap.Name, len(positional), strings.Join(positional, ", "))
		}
		return nil, fmt.Errorf("error: %s has too many positional arguments. Expected at most %d, found %d: %s", ap.Name, ap.MaxArgs, len(positional), strings.Join(positional, ", "))
	}

	return &ArgParseResults{options: named, args: positional, parser: ap}, nil
}

// parseShortFlags parses combined single letter flags such as "-ia".
func (ap *ArgParser) parseShortFlags(letters string, named map[string]string) error {
	for _, r := range letters {
		opt, ok := ap.nameOrAbbrevToOpt[string(r)]
		if !ok || opt.OptType != OptionalFlag {
			return UnknownArgumentParam{name: letters}
		}
		named[opt.Name] = ""
	}
	return nil
}
