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

package parser

import (
	"slices"

	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/internal/persist"
)

// RegisterComment records a comment spanning the byte range [start, end)
// of the input and queues it for attachment to the next node finished
// after it. Tokenize hooks call it when they skip over a comment.
//
// A comment that starts on the line where the current token ends is
// queued as trailing, any other as leading. A trailing comment can attach
// to a node that ends before it on the same line; leading comments only
// attach to nodes that end after them.
func (p *Parser[V, S]) RegisterComment(kind ast.CommentKind, value string, start, end int) ast.CommentID {
	st := p.active()
	c := ast.Comment{
		ID:    ast.CommentID(st.comments.Len()),
		Kind:  kind,
		Value: value,
		Loc: ast.NewSourceLocation(p.path,
			p.tracker.PositionFromIndex(start),
			p.tracker.PositionFromIndex(end)),
	}
	st.comments = st.comments.Push(c)

	prev := p.currentToken
	if prev.Type != SOF && p.tracker.PositionFromIndex(prev.End).Line == c.Loc.Start.Line {
		st.trailing = st.trailing.Push(c)
	} else {
		st.leading = st.leading.Push(c)
	}
	return c.ID
}

// attachComments moves the queued comments that belong to a node spanning
// [start, end) onto it. Comments that end before the node are leading,
// comments inside it trailing. Other comments found after the node end
// were scanned by lookahead and wait for a later node.
func (p *Parser[V, S]) attachComments(n *ast.NodeBase, start, end ast.Position) {
	st := &p.state
	if st.leading.Len() == 0 && st.trailing.Len() == 0 {
		return
	}
	attach := func(c ast.Comment, sameLine bool) bool {
		switch {
		case c.Loc.Start.Index >= end.Index && c.Loc.End.Index > start.Index:
			if sameLine && c.Loc.Start.Line == end.Line {
				n.TrailingComments = append(n.TrailingComments, c.ID)
				return false
			}
			return true
		case c.Loc.End.Index <= start.Index:
			n.LeadingComments = append(n.LeadingComments, c.ID)
		default:
			n.TrailingComments = append(n.TrailingComments, c.ID)
		}
		return false
	}
	st.leading = st.leading.Filter(func(c ast.Comment) bool { return attach(c, false) })
	// a comment after the node on the line it ends on belongs to it
	st.trailing = st.trailing.Filter(func(c ast.Comment) bool { return attach(c, true) })
	slices.Sort(n.LeadingComments)
	slices.Sort(n.TrailingComments)
}

// takePendingComments empties both queues and returns the IDs they held,
// in scan order.
func (p *Parser[V, S]) takePendingComments() []ast.CommentID {
	var ids []ast.CommentID
	for _, c := range p.state.leading.Slice() {
		ids = append(ids, c.ID)
	}
	for _, c := range p.state.trailing.Slice() {
		ids = append(ids, c.ID)
	}
	p.state.leading = persist.List[ast.Comment]{}
	p.state.trailing = persist.List[ast.Comment]{}
	slices.Sort(ids)
	return ids
}
