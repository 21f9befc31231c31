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

package editor

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/google/shlex"
)

// getCmdNameAndArgsForEditor splits an editor setting, such as "subl -n -w", into a command and its arguments using
// shell quoting rules.
func getCmdNameAndArgsForEditor(es string) (string, []string) {
	words, err := shlex.Split(es)
	if err != nil || len(words) == 0 {
		return es, []string{}
	}
	return words[0], words[1:]
}

// OpenTempEditor writes |initialContents| to a temporary file with the extension |fileExt|, opens it with
// |editorStr| attached to the terminal, and returns the file's contents once the editor exits.
func OpenTempEditor(editorStr string, initialContents string, fileExt string) (string, error) {
	f, err := os.CreateTemp("", "gitrebase-*"+fileExt)
	if err != nil {
		return "", err
	}
	filename := f.Name()
	defer os.Remove(filename)

	_, err = f.WriteString(initialContents)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}

	cmdName, cmdArgs := getCmdNameAndArgsForEditor(editorStr)
	cmd := exec.Command(cmdName, append(cmdArgs, filename)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %q failed: %w", editorStr, err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
