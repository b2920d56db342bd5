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

// CommentID identifies a comment within the comment list of a single
// parsed file. IDs are assigned in the order comments are scanned,
// starting at zero.
type CommentID int

// CommentKind distinguishes line comments from block comments.
type CommentKind int

const (
	CommentBlock CommentKind = iota
	CommentLine
)

func (k CommentKind) String() string {
	switch k {
	case CommentLine:
		return "line"
	case CommentBlock:
		return "block"
	default:
		return fmt.Sprintf("CommentKind(%d)", int(k))
	}
}

// Comment represents a single comment in a source file. A single comment
// means one line-style comment or one block comment; a run of line
// comments is a run of separate comments.
//
// Comments are owned by the root of the file they were found in. Nodes
// refer to them by ID, see NodeBase.
type Comment struct {
	ID    CommentID
	Kind  CommentKind
	Value string
	Loc   SourceLocation
}

func (c Comment) String() string {
	return fmt.Sprintf("%s: %s comment %q", c.Loc, c.Kind, c.Value)
}

// Comments is the list of all comments of a file, indexed by CommentID.
type Comments []Comment

// Get returns the comment with the given ID. It panics if the ID is not
// from this list.
func (c Comments) Get(id CommentID) Comment {
	if id < 0 || int(id) >= len(c) {
		panic(fmt.Sprintf("comment id %d out of range (len = %d)", id, len(c)))
	}
	return c[id]
}

// Resolve returns the comments for the given IDs, in order.
func (c Comments) Resolve(ids []CommentID) []Comment {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Comment, len(ids))
	for i, id := range ids {
		out[i] = c.Get(id)
	}
	return out
}
