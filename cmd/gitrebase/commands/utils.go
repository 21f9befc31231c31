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
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/dolthub/gitrebase/cmd/gitrebase/cli"
	"github.com/dolthub/gitrebase/cmd/gitrebase/errhand"
	"github.com/dolthub/gitrebase/libraries/env"
)

// HandleVErrAndExitCode prints |verr| and returns the exit code for it, 0 for a nil error.
func HandleVErrAndExitCode(verr errhand.VerboseError) int {
	if verr == nil {
		return 0
	}
	if msg := verr.Verbose(); msg != "" {
		cli.PrintErrln(msg)
	}
	return 1
}

// withLock runs |f| while holding the repository lock.
func withLock(ctx context.Context, rEnv *env.RebaseEnv, f func() errhand.VerboseError) (verr errhand.VerboseError) {
	if err := rEnv.Lock(ctx); err != nil {
		return errhand.BuildDError("error: unable to lock the repository").AddCause(err).Build()
	}
	defer func() {
		if err := rEnv.Unlock(); err != nil && verr == nil {
			verr = errhand.BuildDError("error: failed to release the repository lock").AddCause(err).Build()
		}
	}()
	return f()
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:7]
}

// displayBranch returns the short name of |branch|, or "detached HEAD" for an empty name.
func displayBranch(branch plumbing.ReferenceName) string {
	if branch == "" {
		return "detached HEAD"
	}
	return branch.Short()
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
