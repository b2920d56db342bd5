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

import "fmt"

// Position identifies a location in a source file.
type Position struct {
	// The offset, in bytes, from the beginning of the file. This is
	// zero-based: the first character in the file is index zero.
	Index int
	// The line number, one-based.
	Line int
	// The column, zero-based, counted in bytes from the start of the line.
	Column int
}

// StartPosition is the position of the first byte of any file.
var StartPosition = Position{Index: 0, Line: 1, Column: 0}

// IsValid returns false for the zero value, which has no line.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before reports whether p comes strictly before other. Positions are
// ordered by index only.
func (p Position) Before(other Position) bool {
	return p.Index < other.Index
}

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column+1)
}

// SourceLocation is the span of some region of source, such as a single
// token, a comment, or a sub-tree of the AST. End is exclusive.
type SourceLocation struct {
	Filename string
	Start    Position
	End      Position
}

// NewSourceLocation returns a location spanning start to end. It panics if
// end comes before start.
func NewSourceLocation(filename string, start, end Position) SourceLocation {
	if end.Before(start) {
		panic(fmt.Sprintf("bug: location end %d is before start %d", end.Index, start.Index))
	}
	return SourceLocation{Filename: filename, Start: start, End: end}
}

// IsValid returns false for the zero value.
func (l SourceLocation) IsValid() bool {
	return l.Start.IsValid()
}

// Contains reports whether other lies entirely within l.
func (l SourceLocation) Contains(other SourceLocation) bool {
	return l.Start.Index <= other.Start.Index && other.End.Index <= l.End.Index
}

func (l SourceLocation) String() string {
	if !l.IsValid() {
		return l.Filename
	}
	if l.Start.Line == l.End.Line {
		if l.Start.Column == l.End.Column {
			return fmt.Sprintf("%s:%d:%d", l.Filename, l.Start.Line, l.Start.Column+1)
		}
		return fmt.Sprintf("%s:%d:%d-%d", l.Filename, l.Start.Line, l.Start.Column+1, l.End.Column+1)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", l.Filename, l.Start.Line, l.Start.Column+1, l.End.Line, l.End.Column+1)
}
