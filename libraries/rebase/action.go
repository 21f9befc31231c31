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

package rebase

import "strings"

// Action is the kind of operation a rebase step performs.
type Action uint8

const (
	ActionPick Action = iota + 1
	ActionSquash
	ActionEdit
	ActionExec
	ActionFixup
	ActionReword
	// ActionDrop only exists in the editable todo text. Dropped steps are removed from the plan when it is parsed.
	ActionDrop
)

const (
	RebaseActionPick   = "pick"
	RebaseActionSquash = "squash"
	RebaseActionEdit   = "edit"
	RebaseActionExec   = "exec"
	RebaseActionFixup  = "fixup"
	RebaseActionReword = "reword"
	RebaseActionDrop   = "drop"
)

var actionNames = map[Action]string{
	ActionPick:   RebaseActionPick,
	ActionSquash: RebaseActionSquash,
	ActionEdit:   RebaseActionEdit,
	ActionExec:   RebaseActionExec,
	ActionFixup:  RebaseActionFixup,
	ActionReword: RebaseActionReword,
	ActionDrop:   RebaseActionDrop,
}

// rebaseActionMap maps short action forms, and full names, to actions
var rebaseActionMap = map[string]Action{
	"p": ActionPick,
	"s": ActionSquash,
	"e": ActionEdit,
	"x": ActionExec,
	"f": ActionFixup,
	"r": ActionReword,
	"d": ActionDrop,

	RebaseActionPick:   ActionPick,
	RebaseActionSquash: ActionSquash,
	RebaseActionEdit:   ActionEdit,
	RebaseActionExec:   ActionExec,
	RebaseActionFixup:  ActionFixup,
	RebaseActionReword: ActionReword,
	RebaseActionDrop:   ActionDrop,
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction returns the Action for |s|, which may be a full action name or its one letter abbreviation.
func ParseAction(s string) (Action, error) {
	if a, ok := rebaseActionMap[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a, nil
	}
	return 0, ErrUnknownAction.New(s)
}

// takesCommit returns whether steps with this action name a target commit.
func (a Action) takesCommit() bool {
	return a != ActionExec
}
