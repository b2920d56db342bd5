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

import "github.com/kralicky/parsekit/ast"

// Snapshot is a saved position of a parser's token stream, for speculative
// parsing. It belongs to the parser that created it.
type Snapshot[V, S any] struct {
	owner          *Parser[V, S]
	nextTokenIndex int
	currentToken   Token[V]
	prevToken      Token[V]
	currentPos     ast.Position
	state          State[S]
}

// Save captures the stream position and state. Diagnostics, comments and
// filters added after Save are discarded by a later Restore.
func (p *Parser[V, S]) Save() Snapshot[V, S] {
	if p.tokenizing != nil {
		panic("bug: can't save while tokenizing")
	}
	return Snapshot[V, S]{
		owner:          p,
		nextTokenIndex: p.nextTokenIndex,
		currentToken:   p.currentToken,
		prevToken:      p.prevToken,
		currentPos:     p.currentPos,
		state:          p.state,
	}
}

// Restore puts the parser back to where it was when s was saved. It
// panics if s was not created by this parser.
func (p *Parser[V, S]) Restore(s Snapshot[V, S]) {
	if s.owner != p {
		panic("bug: restoring a snapshot created by a different parser")
	}
	if p.tokenizing != nil {
		panic("bug: can't restore while tokenizing")
	}
	p.nextTokenIndex = s.nextTokenIndex
	p.currentToken = s.currentToken
	p.prevToken = s.prevToken
	p.currentPos = s.currentPos
	p.state = s.state
}

// Try runs fn speculatively. If fn returns false or raises a fatal
// diagnostic, the parser is restored to where it was before the call and
// Try returns false.
func (p *Parser[V, S]) Try(fn func() bool) bool {
	snapshot := p.Save()
	ok := false
	if fatal := p.Catch(func() { ok = fn() }); fatal != nil {
		ok = false
	}
	if !ok {
		p.Restore(snapshot)
	}
	return ok
}
