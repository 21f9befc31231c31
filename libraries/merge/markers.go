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

package merge

import (
	"bytes"
	"strings"
)

const markerLen = 7

// Style selects the layout of conflict markers.
type Style int

const (
	// StyleMerge shows our and their versions of a conflicting region.
	StyleMerge Style = iota
	// StyleDiff3 additionally shows the base version between them.
	StyleDiff3
)

// MarkerOptions controls how conflicting regions are rendered.
type MarkerOptions struct {
	Style       Style
	OursLabel   string
	BaseLabel   string
	TheirsLabel string
}

func (o MarkerOptions) withDefaults() MarkerOptions {
	if o.OursLabel == "" {
		o.OursLabel = "ours"
	}
	if o.BaseLabel == "" {
		o.BaseLabel = "base"
	}
	if o.TheirsLabel == "" {
		o.TheirsLabel = "theirs"
	}
	return o
}

func writeConflict(buf *bytes.Buffer, ours, base, theirs []string, opts MarkerOptions) {
	writeMarker(buf, '<', opts.OursLabel)
	writeSide(buf, ours)
	if opts.Style == StyleDiff3 {
		writeMarker(buf, '|', opts.BaseLabel)
		writeSide(buf, base)
	}
	writeMarker(buf, '=', "")
	writeSide(buf, theirs)
	writeMarker(buf, '>', opts.TheirsLabel)
}

func writeMarker(buf *bytes.Buffer, c byte, label string) {
	buf.WriteString(strings.Repeat(string(c), markerLen))
	if label != "" {
		buf.WriteByte(' ')
		buf.WriteString(label)
	}
	buf.WriteByte('\n')
}

// writeSide writes |lines| so that the following marker starts on its own line.
func writeSide(buf *bytes.Buffer, lines []string) {
	writeLines(buf, lines)
	if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
		buf.WriteByte('\n')
	}
}

// WholeFileConflict renders |ours| and |theirs| as a single conflicting region. It is used for content which cannot
// be merged line by line.
func WholeFileConflict(ours, base, theirs []byte, opts MarkerOptions) []byte {
	var buf bytes.Buffer
	writeConflict(&buf, splitLines(string(ours)), splitLines(string(base)), splitLines(string(theirs)), opts.withDefaults())
	return buf.Bytes()
}
