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
	"time"

	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/reporter"
)

// RootBase holds what every grammar's root node carries besides its own
// contents. Grammar roots embed it and implement Root.
type RootBase struct {
	ast.NodeBase
	Filename    string
	Mtime       time.Time
	Diagnostics []reporter.Diagnostic
	Comments    ast.Comments
	// Corrupt is true if a fatal diagnostic was recorded, in which case the
	// tree is a best-effort result and may be missing parts of the input.
	Corrupt bool
}

// Root implements Root.
func (r *RootBase) Root() *RootBase {
	return r
}

// Root is implemented by the root node of every grammar.
type Root interface {
	ast.Node
	Root() *RootBase
}

// FinishLoc returns the location from start to the end of the previous
// token, i.e. of everything consumed since start.
func (p *Parser[V, S]) FinishLoc(start ast.Position) ast.SourceLocation {
	return p.FinishLocAt(start, p.GetLastEndPosition())
}

// FinishLocAt returns the location from start to end. An end before start
// is moved to start, so nodes that consumed nothing get an empty location.
func (p *Parser[V, S]) FinishLocAt(start, end ast.Position) ast.SourceLocation {
	if end.Before(start) {
		end = start
	}
	return ast.NewSourceLocation(p.path, start, end)
}

// FinishNode stamps n with the location from start to the end of the
// previous token and attaches queued comments to it.
func (p *Parser[V, S]) FinishNode(start ast.Position, n ast.Node) {
	p.FinishNodeAt(start, p.GetLastEndPosition(), n)
}

// FinishNodeAt stamps n with the location from start to end and attaches
// queued comments to it.
func (p *Parser[V, S]) FinishNodeAt(start, end ast.Position, n ast.Node) {
	if ast.IsNil(n) {
		panic("bug: finishing a nil node")
	}
	loc := p.FinishLocAt(start, end)
	base := n.Base()
	base.Loc = loc
	p.attachComments(base, loc.Start, loc.End)
}

// FinishRoot stamps root with the location of the whole input, the
// diagnostics, every comment and the corrupt flag. Comments still queued
// are attached to the root as trailing comments.
func (p *Parser[V, S]) FinishRoot(root Root) {
	rb := root.Root()
	rb.Loc = ast.NewSourceLocation(p.path,
		p.tracker.PositionFromIndex(0),
		p.tracker.PositionFromIndex(p.length))
	rb.TrailingComments = append(rb.TrailingComments, p.takePendingComments()...)
	rb.Filename = p.path
	rb.Mtime = p.mtime
	rb.Diagnostics = p.GetDiagnostics()
	rb.Comments = p.state.comments.Slice()
	rb.Corrupt = p.state.corrupt
}

// Finalize raises a fatal diagnostic unless the whole input has been
// consumed.
func (p *Parser[V, S]) Finalize() {
	if !p.MatchToken(EOF) {
		panic(p.Unexpected(WithDescription(ExpectedEOF())))
	}
}

// ParseRoot runs parse, checks that it consumed the whole input and
// finishes root. A fatal diagnostic raised on the way is recorded and
// marks the root corrupt; whatever parse had built into root by then is
// kept.
func (p *Parser[V, S]) ParseRoot(root Root, parse func()) {
	if fatal := p.Catch(func() {
		parse()
		p.Finalize()
	}); fatal != nil {
		p.recordFatal(fatal)
	}
	p.FinishRoot(root)
}

// TokenizeAll consumes the input and returns every token up to, but not
// including, EOF. If tokenizing raises a fatal diagnostic, it is recorded
// and a single Invalid token covering the rest of the input ends the list.
func (p *Parser[V, S]) TokenizeAll() []Token[V] {
	var tokens []Token[V]
	fatal := p.Catch(func() {
		for !p.MatchToken(EOF) {
			tokens = append(tokens, p.GetToken())
			p.NextToken()
		}
	})
	if fatal != nil {
		p.recordFatal(fatal)
		tokens = append(tokens, Token[V]{
			Type:  Invalid,
			Start: p.nextTokenIndex,
			End:   p.length,
		})
	}
	return tokens
}
