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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRebaseParser() *ArgParser {
	return NewArgParserWithMaxArgs("rebase", 2).
		SupportsFlag("interactive", "i", "edit the plan").
		SupportsFlag("continue", "", "continue").
		SupportsFlag("abort", "", "abort").
		SupportsString("onto", "", "newbase", "replay onto newbase").
		SupportsValidatedString("conflict-style", "", "style", "marker style", ValidatorFromStrList("conflict-style", []string{"merge", "diff3"})).
		SupportsUint("timeout", "t", "millis", "lock timeout")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		expectedOpts  map[string]string
		expectedArgs  []string
		expectedError bool
	}{
		{
			name:         "positional only",
			args:         []string{"main", "feature"},
			expectedOpts: map[string]string{},
			expectedArgs: []string{"main", "feature"},
		},
		{
			name:         "flag and string",
			args:         []string{"-i", "--onto", "next", "main"},
			expectedOpts: map[string]string{"interactive": "", "onto": "next"},
			expectedArgs: []string{"main"},
		},
		{
			name:         "equals value",
			args:         []string{"--onto=next", "main"},
			expectedOpts: map[string]string{"onto": "next"},
			expectedArgs: []string{"main"},
		},
		{
			name:         "validated value ignores case",
			args:         []string{"--conflict-style", "DIFF3"},
			expectedOpts: map[string]string{"conflict-style": "DIFF3"},
			expectedArgs: []string{},
		},
		{
			name:         "uint abbrev",
			args:         []string{"-t", "250"},
			expectedOpts: map[string]string{"timeout": "250"},
			expectedArgs: []string{},
		},
		{
			name:         "double dash",
			args:         []string{"--", "--abort"},
			expectedOpts: map[string]string{},
			expectedArgs: []string{"--abort"},
		},
		{name: "unknown long", args: []string{"--bogus"}, expectedError: true},
		{name: "unknown short", args: []string{"-x"}, expectedError: true},
		{name: "missing value", args: []string{"--onto"}, expectedError: true},
		{name: "flag with value", args: []string{"--abort=yes"}, expectedError: true},
		{name: "invalid choice", args: []string{"--conflict-style", "zdiff3"}, expectedError: true},
		{name: "invalid uint", args: []string{"--timeout", "-5"}, expectedError: true},
		{name: "repeated option", args: []string{"--onto", "a", "--onto", "b"}, expectedError: true},
		{name: "too many args", args: []string{"a", "b", "c"}, expectedError: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, err := newRebaseParser().Parse(test.args)
			if test.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedOpts, res.options)
			assert.Equal(t, test.expectedArgs, res.Args())
		})
	}
}

func TestParseHelp(t *testing.T) {
	_, err := newRebaseParser().Parse([]string{"main", "--help"})
	assert.Equal(t, ErrHelp, err)
	_, err = newRebaseParser().Parse([]string{"-h"})
	assert.Equal(t, ErrHelp, err)
}

func TestUnknownArgumentParam(t *testing.T) {
	_, err := newRebaseParser().Parse([]string{"--nope"})
	assert.Equal(t, UnknownArgumentParam{name: "nope"}, err)
	assert.Equal(t, "error: unknown option `nope'", err.Error())
}

func TestResults(t *testing.T) {
	res, err := newRebaseParser().Parse([]string{"-i", "--timeout=10", "main"})
	require.NoError(t, err)

	assert.True(t, res.Contains("interactive"))
	assert.False(t, res.Contains("abort"))
	assert.True(t, res.ContainsAny("abort", "continue", "interactive"))
	assert.Equal(t, "fallback", res.GetValueOrDefault("onto", "fallback"))

	n, ok := res.GetUint("timeout")
	assert.True(t, ok)
	assert.Equal(t, uint64(10), n)
	_, ok = res.GetUint("onto")
	assert.False(t, ok)

	assert.Equal(t, 1, res.NArg())
	assert.Equal(t, "main", res.Arg(0))
	assert.Equal(t, "", res.Arg(1))
}

func TestZeroArgParser(t *testing.T) {
	ap := NewArgParserWithMaxArgs("status", 0)
	_, err := ap.Parse([]string{"extra"})
	assert.Error(t, err)

	res, err := ap.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.NArg())
}
