// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import (
	"fmt"
	"sort"
)

// PositionTracker maps byte indexes of an immutable input to line and
// column positions. Lookups are incremental: the input is scanned forward
// at most once, recording where each line starts, and any index at or
// below the furthest position reached so far is answered from that line
// table without scanning.
//
// Results may be shifted by an offset position, for inputs that are
// embedded at a known position of a larger document. The offset is only
// applied on the way out; everything cached is relative to the input.
type PositionTracker struct {
	input     string
	offset    Position
	hasOffset bool

	cache  map[int]Position
	latest Position
	// byte index of the start of every line up to latest
	lines []int

	// number of bytes walked so far, for tests
	scanned int
}

// NewPositionTracker creates a tracker for input. If offset is not nil,
// every returned position is shifted so that index zero of input maps to
// *offset.
func NewPositionTracker(input string, offset *Position) *PositionTracker {
	t := &PositionTracker{
		input:  input,
		cache:  map[int]Position{0: StartPosition},
		latest: StartPosition,
		lines:  []int{0},
	}
	if offset != nil {
		t.offset = *offset
		t.hasOffset = true
	}
	return t
}

// PositionFromIndex returns the position of the given byte index. Indexes
// at or beyond the end of the input are valid; they continue the last
// line, which is what an EOF token needs.
func (t *PositionTracker) PositionFromIndex(index int) Position {
	return t.applyOffset(t.lookup(index))
}

func (t *PositionTracker) lookup(index int) Position {
	if index < 0 {
		panic(fmt.Sprintf("bug: invalid index: %d must not be negative", index))
	}
	if pos, ok := t.cache[index]; ok {
		return pos
	}

	var pos Position
	if index <= t.latest.Index {
		line := sort.Search(len(t.lines), func(i int) bool {
			return t.lines[i] > index
		}) - 1
		pos = Position{Index: index, Line: line + 1, Column: index - t.lines[line]}
	} else {
		pos = t.latest
		for pos.Index < index {
			if pos.Index < len(t.input) && t.input[pos.Index] == '\n' {
				pos.Line++
				pos.Column = 0
				t.lines = append(t.lines, pos.Index+1)
			} else {
				pos.Column++
			}
			pos.Index++
			t.scanned++
		}
		t.latest = pos
	}

	t.cache[index] = pos
	return pos
}

func (t *PositionTracker) applyOffset(pos Position) Position {
	if !t.hasOffset {
		return pos
	}
	if pos.Line == 1 {
		pos.Column += t.offset.Column
	}
	pos.Line += t.offset.Line - 1
	pos.Index += t.offset.Index
	return pos
}
