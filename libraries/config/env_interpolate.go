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

package config

import (
	"bytes"
	"fmt"
	"os"
)

// interpolateEnv expands environment variable placeholders in |data| using |lookup|.
//
//	${VAR}          VAR's value; an error if it is unset or empty
//	${VAR:-default} VAR's value if it is set and non-empty, otherwise default, which may itself contain placeholders
//	$$              a literal '$'
//
// Any other '$' is left as is. Variable values are inserted literally.
func interpolateEnv(data []byte, lookup func(string) (string, bool)) ([]byte, error) {
	var out bytes.Buffer
	for len(data) > 0 {
		i := bytes.IndexByte(data, '$')
		if i < 0 || i+1 >= len(data) {
			out.Write(data)
			break
		}
		out.Write(data[:i])
		data = data[i:]

		switch data[1] {
		case '$':
			out.WriteByte('$')
			data = data[2:]
			continue
		case '{':
		default:
			out.WriteByte('$')
			data = data[1:]
			continue
		}

		end := bytes.IndexByte(data, '}')
		if end < 0 {
			return nil, fmt.Errorf("unterminated environment placeholder: %q", data)
		}
		name, def, hasDefault := bytes.Cut(data[2:end], []byte(":-"))
		if !validEnvName(name) {
			return nil, fmt.Errorf("invalid environment variable name %q", name)
		}

		if val, ok := lookup(string(name)); ok && val != "" {
			out.WriteString(val)
		} else if hasDefault {
			expanded, err := interpolateEnv(def, lookup)
			if err != nil {
				return nil, err
			}
			out.Write(expanded)
		} else {
			return nil, fmt.Errorf("environment variable %q is not set", name)
		}
		data = data[end+1:]
	}
	return out.Bytes(), nil
}

func osLookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

func validEnvName(name []byte) bool {
	if len(name) == 0 {
		return false
	}
	for i, c := range name {
		letter := (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_'
		digit := c >= '0' && c <= '9'
		if !letter && (i == 0 || !digit) {
			return false
		}
	}
	return true
}
