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

package regex

import (
	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/parser"
)

// Pattern is the root of a parsed regular expression.
type Pattern struct {
	parser.RootBase
	// Source is the text the pattern was parsed from.
	Source string
	// Body is nil only if parsing was aborted before anything was built.
	Body Expr
	// Groups is the number of capturing groups, named ones included.
	Groups int
}

func (p *Pattern) Children() []ast.Node {
	return []ast.Node{p.Body}
}

// Expr is either an *Alternation or an *Expression.
type Expr interface {
	ast.Node
	expr()
}

// Term is an element of an Expression.
type Term interface {
	ast.Node
	term()
}

// CharSetItem is an element of a CharSet: a *Character, a *CharSetRange
// or a *CharacterClass.
type CharSetItem interface {
	ast.Node
	charSetItem()
}

// Alternation matches any one of its alternatives: a|b|c.
type Alternation struct {
	ast.NodeBase
	Alternatives []*Expression
}

func (n *Alternation) Children() []ast.Node {
	out := make([]ast.Node, len(n.Alternatives))
	for i, alt := range n.Alternatives {
		out[i] = alt
	}
	return out
}

// Expression is a sequence of terms, matched one after the other. It may
// be empty.
type Expression struct {
	ast.NodeBase
	Body []Term
}

func (n *Expression) Children() []ast.Node {
	out := make([]ast.Node, len(n.Body))
	for i, t := range n.Body {
		out[i] = t
	}
	return out
}

// Character matches a single character.
type Character struct {
	ast.NodeBase
	Value rune
	// Escaped is true if the character was written as an escape sequence.
	Escaped bool
}

// AnyCharacter is '.'.
type AnyCharacter struct {
	ast.NodeBase
}

// StartOfLine is '^'.
type StartOfLine struct {
	ast.NodeBase
}

// EndOfLine is '$'.
type EndOfLine struct {
	ast.NodeBase
}

// CharacterClass is one of \d \D \w \W \s \S.
type CharacterClass struct {
	ast.NodeBase
	// Kind is the class letter, e.g. 'd'. Upper case letters negate.
	Kind rune
}

// WordBoundary is \b, or \B if Negate is set.
type WordBoundary struct {
	ast.NodeBase
	Negate bool
}

// Backreference refers back to a capturing group by index: \1.
type Backreference struct {
	ast.NodeBase
	Index int
}

// CharSet is a bracketed character set: [abc], [^a-z].
type CharSet struct {
	ast.NodeBase
	Invert bool
	Body   []CharSetItem
}

func (n *CharSet) Children() []ast.Node {
	out := make([]ast.Node, len(n.Body))
	for i, item := range n.Body {
		out[i] = item
	}
	return out
}

// CharSetRange is a range inside a character set: a-z. Start is never
// greater than End.
type CharSetRange struct {
	ast.NodeBase
	Start *Character
	End   *Character
}

func (n *CharSetRange) Children() []ast.Node {
	return []ast.Node{n.Start, n.End}
}

// GroupKind distinguishes the different kinds of parenthesized groups.
type GroupKind int

const (
	GroupCapture GroupKind = iota
	GroupNamed
	GroupNonCapture
	GroupLookahead
	GroupNegativeLookahead
	GroupLookbehind
	GroupNegativeLookbehind
)

func (k GroupKind) String() string {
	switch k {
	case GroupCapture:
		return "capture"
	case GroupNamed:
		return "named"
	case GroupNonCapture:
		return "non-capture"
	case GroupLookahead:
		return "lookahead"
	case GroupNegativeLookahead:
		return "negative lookahead"
	case GroupLookbehind:
		return "lookbehind"
	case GroupNegativeLookbehind:
		return "negative lookbehind"
	}
	return "unknown"
}

// Capturing reports whether groups of this kind capture.
func (k GroupKind) Capturing() bool {
	return k == GroupCapture || k == GroupNamed
}

// Group is a parenthesized expression.
type Group struct {
	ast.NodeBase
	Kind GroupKind
	// Name is set for named groups.
	Name string
	Body Expr
}

func (n *Group) Children() []ast.Node {
	return []ast.Node{n.Body}
}

// Quantified repeats its target between Min and Max times. Max is -1 if
// there is no upper bound. Min is never greater than a bounded Max.
type Quantified struct {
	ast.NodeBase
	Target Term
	Min    int
	Max    int
	Lazy   bool
}

func (n *Quantified) Children() []ast.Node {
	return []ast.Node{n.Target}
}

func (*Alternation) expr() {}
func (*Expression) expr()  {}

func (*Character) term()      {}
func (*AnyCharacter) term()   {}
func (*StartOfLine) term()    {}
func (*EndOfLine) term()      {}
func (*CharacterClass) term() {}
func (*WordBoundary) term()   {}
func (*Backreference) term()  {}
func (*CharSet) term()        {}
func (*Group) term()          {}
func (*Quantified) term()     {}

func (*Character) charSetItem()      {}
func (*CharSetRange) charSetItem()   {}
func (*CharacterClass) charSetItem() {}

var (
	_ parser.Root = (*Pattern)(nil)
	_ ast.Parent  = (*Pattern)(nil)
	_ ast.Parent  = (*Alternation)(nil)
	_ ast.Parent  = (*Expression)(nil)
	_ ast.Parent  = (*CharSet)(nil)
	_ ast.Parent  = (*CharSetRange)(nil)
	_ ast.Parent  = (*Group)(nil)
	_ ast.Parent  = (*Quantified)(nil)
)
