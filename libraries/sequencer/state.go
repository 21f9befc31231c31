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

package sequencer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/google/uuid"

	"github.com/dolthub/gitrebase/libraries/rebase"
)

// StateDir is the directory, relative to the git dir, holding the state of an in progress rebase. The file names
// inside it match the ones git uses for an interactive rebase.
const StateDir = "rebase-merge"

const (
	headNameFile      = "head-name"
	ontoFile          = "onto"
	origHeadFile      = "orig-head"
	todoFile          = "git-rebase-todo"
	endFile           = "end"
	msgNumFile        = "msgnum"
	phaseFile         = "phase"
	rewrittenListFile = "rewritten-list"
	rebaseIDFile      = "rebase-id"
	startedAtFile     = "started-at"

	detachedHeadName = "detached HEAD"
)

// Phase is the progress of the step under the cursor.
type Phase string

const (
	// PhasePending means the step under the cursor has not been applied.
	PhasePending Phase = "pending"
	// PhaseApplied means the step under the cursor was applied to the index and working tree but not yet committed.
	PhaseApplied Phase = "applied"
	// PhaseSettled means the step under the cursor was committed, or found to already be present.
	PhaseSettled Phase = "settled"
)

func parsePhase(s string) (Phase, error) {
	switch p := Phase(s); p {
	case PhasePending, PhaseApplied, PhaseSettled:
		return p, nil
	}
	return "", fmt.Errorf("unknown phase %q", s)
}

// Rewrite records the commit a step created for an original commit.
type Rewrite struct {
	Old plumbing.Hash
	New plumbing.Hash
}

type state struct {
	// headName is the branch being rebased, or empty for a detached HEAD.
	headName  plumbing.ReferenceName
	onto      plumbing.Hash
	origHead  plumbing.Hash
	plan      *rebase.Plan
	cursor    int
	phase     Phase
	rewritten []Rewrite
	id        uuid.UUID
	startedAt time.Time
}

func statePath(name string) string {
	return path.Join(StateDir, name)
}

// InProgress returns whether |fs| holds the state of a rebase.
func InProgress(fs billy.Filesystem) (bool, error) {
	_, err := fs.Stat(StateDir)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// writeStateFile replaces |name| by writing a temporary file and renaming it over the old one.
func writeStateFile(fs billy.Filesystem, name, contents string) error {
	final := statePath(name)
	tmp := final + ".tmp"
	if err := util.WriteFile(fs, tmp, []byte(contents), 0644); err != nil {
		return err
	}
	return fs.Rename(tmp, final)
}

func readStateFile(fs billy.Filesystem, name string) (string, error) {
	data, err := util.ReadFile(fs, statePath(name))
	if err != nil {
		return "", ErrCorruptState.Wrap(err, name)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func (s *state) save(fs billy.Filesystem) error {
	if err := fs.MkdirAll(StateDir, 0755); err != nil {
		return err
	}

	headName := detachedHeadName
	if s.headName != "" {
		headName = s.headName.String()
	}

	files := []struct {
		name, contents string
	}{
		{headNameFile, headName + "\n"},
		{ontoFile, s.onto.String() + "\n"},
		{origHeadFile, s.origHead.String() + "\n"},
		{todoFile, rebase.FormatTodo(s.plan)},
		{endFile, strconv.Itoa(len(s.plan.Steps)) + "\n"},
		{rebaseIDFile, s.id.String() + "\n"},
		{startedAtFile, s.startedAt.UTC().Format(time.RFC3339Nano) + "\n"},
		{rewrittenListFile, formatRewritten(s.rewritten)},
	}
	for _, f := range files {
		if err := writeStateFile(fs, f.name, f.contents); err != nil {
			return err
		}
	}
	return s.saveCursor(fs)
}

// saveCursor persists the cursor and phase. The phase is written first: if only the phase survives a crash while
// moving to the next step, the settled step under the old cursor is applied again, which finds nothing new.
func (s *state) saveCursor(fs billy.Filesystem) error {
	if err := writeStateFile(fs, phaseFile, string(s.phase)+"\n"); err != nil {
		return err
	}
	return writeStateFile(fs, msgNumFile, strconv.Itoa(s.cursor+1)+"\n")
}

func (s *state) saveRewritten(fs billy.Filesystem) error {
	return writeStateFile(fs, rewrittenListFile, formatRewritten(s.rewritten))
}

func loadState(fs billy.Filesystem) (*state, error) {
	ok, err := InProgress(fs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoRebaseInProgress.New()
	}

	read := func(name string) string {
		if err != nil {
			return ""
		}
		var contents string
		contents, err = readStateFile(fs, name)
		return contents
	}
	headName := read(headNameFile)
	onto := read(ontoFile)
	origHead := read(origHeadFile)
	todo := read(todoFile)
	end := read(endFile)
	msgNum := read(msgNumFile)
	phase := read(phaseFile)
	rewritten := read(rewrittenListFile)
	id := read(rebaseIDFile)
	startedAt := read(startedAtFile)
	if err != nil {
		return nil, err
	}

	s := &state{
		onto:     plumbing.NewHash(onto),
		origHead: plumbing.NewHash(origHead),
	}
	if headName != detachedHeadName {
		s.headName = plumbing.ReferenceName(headName)
	}
	if !plumbing.IsHash(onto) || !plumbing.IsHash(origHead) {
		return nil, ErrCorruptState.New(ontoFile)
	}

	if s.plan, err = rebase.ParseTodo(todo); err != nil {
		return nil, ErrCorruptState.Wrap(err, todoFile)
	}
	total, err := strconv.Atoi(end)
	if err != nil || total != len(s.plan.Steps) {
		return nil, ErrCorruptState.New(endFile)
	}
	num, err := strconv.Atoi(msgNum)
	if err != nil || num < 1 || (total > 0 && num > total) {
		return nil, ErrCorruptState.New(msgNumFile)
	}
	s.cursor = num - 1
	if s.phase, err = parsePhase(phase); err != nil {
		return nil, ErrCorruptState.Wrap(err, phaseFile)
	}
	if s.rewritten, err = parseRewritten(rewritten); err != nil {
		return nil, ErrCorruptState.Wrap(err, rewrittenListFile)
	}
	if s.id, err = uuid.Parse(id); err != nil {
		return nil, ErrCorruptState.Wrap(err, rebaseIDFile)
	}
	if s.startedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, ErrCorruptState.Wrap(err, startedAtFile)
	}
	return s, nil
}

func formatRewritten(rewritten []Rewrite) string {
	var buf bytes.Buffer
	for _, rw := range rewritten {
		fmt.Fprintf(&buf, "%s %s\n", rw.Old, rw.New)
	}
	return buf.String()
}

func parseRewritten(s string) ([]Rewrite, error) {
	var rewritten []Rewrite
	for _, line := range strings.Split(s, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 || !plumbing.IsHash(fields[0]) || !plumbing.IsHash(fields[1]) {
			return nil, fmt.Errorf("invalid line: %q", line)
		}
		rewritten = append(rewritten, Rewrite{Old: plumbing.NewHash(fields[0]), New: plumbing.NewHash(fields[1])})
	}
	return rewritten, nil
}

func removeState(fs billy.Filesystem) error {
	return util.RemoveAll(fs, StateDir)
}
