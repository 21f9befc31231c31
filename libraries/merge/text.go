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
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// binarySniffLen is how much of a blob is inspected when deciding whether it is binary, the same amount git uses.
const binarySniffLen = 8000

// IsBinary returns true if |data| looks like binary content and should not be merged line by line.
func IsBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// hunk replaces the base lines [start, end) with lines.
type hunk struct {
	start, end int
	lines      []string
}

// lineCoder assigns each distinct line a rune so that line sequences can be diffed as rune sequences.
type lineCoder struct {
	codes map[string]rune
	lines map[rune]string
	next  rune
}

func newLineCoder() *lineCoder {
	return &lineCoder{codes: make(map[string]rune), lines: make(map[rune]string), next: 1}
}

func (lc *lineCoder) encode(lines []string) []rune {
	out := make([]rune, len(lines))
	for i, l := range lines {
		r, ok := lc.codes[l]
		if !ok {
			r = lc.next
			lc.codes[l] = r
			lc.lines[r] = l
			lc.next++
			// surrogates do not survive a round trip through a string
			for !utf8.ValidRune(lc.next) {
				lc.next++
			}
		}
		out[i] = r
	}
	return out
}

func (lc *lineCoder) decode(r rune) string {
	return lc.lines[r]
}

// diffHunks returns the hunks which turn |base| into |other|, ordered by base position.
func diffHunks(dmp *diffmatchpatch.DiffMatchPatch, lc *lineCoder, base, other []string) []hunk {
	diffs := dmp.DiffMainRunes(lc.encode(base), lc.encode(other), false)

	var hunks []hunk
	var cur *hunk
	pos := 0
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			if cur != nil {
				hunks = append(hunks, *cur)
				cur = nil
			}
			pos += utf8.RuneCountInString(d.Text)
		case diffmatchpatch.DiffDelete:
			if cur == nil {
				cur = &hunk{start: pos, end: pos}
			}
			n := utf8.RuneCountInString(d.Text)
			cur.end += n
			pos += n
		case diffmatchpatch.DiffInsert:
			if cur == nil {
				cur = &hunk{start: pos, end: pos}
			}
			for _, r := range d.Text {
				cur.lines = append(cur.lines, lc.decode(r))
			}
		}
	}
	if cur != nil {
		hunks = append(hunks, *cur)
	}
	return hunks
}

// splitLines splits |s| after every newline. The final line has no terminator if |s| does not end with one.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func newDiffer() *diffmatchpatch.DiffMatchPatch {
	dmp := diffmatchpatch.New()
	// results must not depend on how fast the machine is
	dmp.DiffTimeout = 0
	return dmp
}

// TextResult is the outcome of a line based three-way merge.
type TextResult struct {
	// Merged is the merged content. When Conflicted is true it contains conflict markers around every region both
	// sides changed differently.
	Merged     []byte
	Conflicted bool
}

// Text merges the changes made to |base| by |ours| and |theirs|. Changes to the same or adjacent base lines conflict
// unless both sides made the identical change.
func Text(base, ours, theirs []byte, opts MarkerOptions) TextResult {
	opts = opts.withDefaults()
	baseLines := splitLines(string(base))
	oursLines := splitLines(string(ours))
	theirsLines := splitLines(string(theirs))

	dmp := newDiffer()
	lc := newLineCoder()
	oursHunks := diffHunks(dmp, lc, baseLines, oursLines)
	theirsHunks := diffHunks(dmp, lc, baseLines, theirsLines)

	var out bytes.Buffer
	conflicted := false
	pos := 0
	i, j := 0, 0
	for i < len(oursHunks) || j < len(theirsHunks) {
		var start, end int
		switch {
		case j >= len(theirsHunks) || (i < len(oursHunks) && oursHunks[i].start <= theirsHunks[j].start):
			start, end = oursHunks[i].start, oursHunks[i].end
		default:
			start, end = theirsHunks[j].start, theirsHunks[j].end
		}

		// grow the region until no hunk from either side touches it
		oi, tj := i, j
		for {
			grew := false
			for oi < len(oursHunks) && oursHunks[oi].start <= end {
				end = max(end, oursHunks[oi].end)
				oi++
				grew = true
			}
			for tj < len(theirsHunks) && theirsHunks[tj].start <= end {
				end = max(end, theirsHunks[tj].end)
				tj++
				grew = true
			}
			if !grew {
				break
			}
		}

		writeLines(&out, baseLines[pos:start])
		oursRegion := applyHunks(baseLines, start, end, oursHunks[i:oi])
		theirsRegion := applyHunks(baseLines, start, end, theirsHunks[j:tj])
		switch {
		case oi == i:
			writeLines(&out, theirsRegion)
		case tj == j:
			writeLines(&out, oursRegion)
		case equalLines(oursRegion, theirsRegion):
			writeLines(&out, oursRegion)
		default:
			conflicted = true
			writeConflict(&out, oursRegion, baseLines[start:end], theirsRegion, opts)
		}

		pos = end
		i, j = oi, tj
	}
	writeLines(&out, baseLines[pos:])

	return TextResult{Merged: out.Bytes(), Conflicted: conflicted}
}

func applyHunks(base []string, start, end int, hunks []hunk) []string {
	var out []string
	pos := start
	for _, h := range hunks {
		out = append(out, base[pos:h.start]...)
		out = append(out, h.lines...)
		pos = h.end
	}
	return append(out, base[pos:end]...)
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func writeLines(buf *bytes.Buffer, lines []string) {
	for _, l := range lines {
		buf.WriteString(l)
	}
}
