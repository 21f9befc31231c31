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

import "strconv"

type ArgParseResults struct {
	options map[string]string
	args    []string
	parser  *ArgParser
}

// Contains returns true if |name| was given.
func (res *ArgParseResults) Contains(name string) bool {
	_, ok := res.options[name]
	return ok
}

// ContainsAny returns true if any of |names| was given.
func (res *ArgParseResults) ContainsAny(names ...string) bool {
	for _, name := range names {
		if res.Contains(name) {
			return true
		}
	}
	return false
}

func (res *ArgParseResults) GetValue(name string) (string, bool) {
	val, ok := res.options[name]
	return val, ok
}

func (res *ArgParseResults) GetValueOrDefault(name, defVal string) string {
	if val, ok := res.options[name]; ok {
		return val
	}
	return defVal
}

// GetUint returns the value of a uint option. Options registered with SupportsUint are validated during parsing.
func (res *ArgParseResults) GetUint(name string) (uint64, bool) {
	val, ok := res.options[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(val, 10, 64)
	return n, err == nil
}

func (res *ArgParseResults) NArg() int {
	return len(res.args)
}

// Arg returns the positional argument at |idx|, or "" if there are not that many.
func (res *ArgParseResults) Arg(idx int) string {
	if idx < len(res.args) {
		return res.args[idx]
	}
	return ""
}

func (res *ArgParseResults) Args() []string {
	return res.args
}
