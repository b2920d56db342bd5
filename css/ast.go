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

package css

import (
	"slices"

	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/parser"
)

// Stylesheet is the root of a parsed CSS file.
type Stylesheet struct {
	parser.RootBase
	Rules []Rule
}

func (s *Stylesheet) Children() []ast.Node {
	return rulesToNodes(s.Rules)
}

// Rule is an *AtRule or a *QualifiedRule.
type Rule interface {
	ast.Node
	rule()
}

// ComponentValue is an element of a rule prelude or a declaration value.
type ComponentValue interface {
	ast.Node
	componentValue()
}

// AtRule is a rule introduced by an at-keyword, like @media or @import.
type AtRule struct {
	ast.NodeBase
	// Name is the at-keyword without the '@', case folded.
	Name    string
	Prelude []ComponentValue
	// Block is nil for statement at-rules ending in ';'.
	Block *Block
}

func (n *AtRule) Children() []ast.Node {
	out := valuesToNodes(n.Prelude)
	if n.Block != nil {
		out = append(out, n.Block)
	}
	return out
}

// QualifiedRule is a style rule: a selector prelude followed by a block.
type QualifiedRule struct {
	ast.NodeBase
	Prelude []ComponentValue
	Block   *Block
}

func (n *QualifiedRule) Children() []ast.Node {
	return append(valuesToNodes(n.Prelude), n.Block)
}

// Block is the {}-block of a rule. It holds declarations and nested rules.
type Block struct {
	ast.NodeBase
	Declarations []*Declaration
	Rules        []Rule
}

func (n *Block) Children() []ast.Node {
	out := make([]ast.Node, 0, len(n.Declarations)+len(n.Rules))
	for _, d := range n.Declarations {
		out = append(out, d)
	}
	out = append(out, rulesToNodes(n.Rules)...)
	// source order
	slices.SortStableFunc(out, func(a, b ast.Node) int {
		return a.Base().Loc.Start.Index - b.Base().Loc.Start.Index
	})
	return out
}

// Declaration is a property: value pair.
type Declaration struct {
	ast.NodeBase
	// Name is case folded unless it is a custom property (--name).
	Name string
	// Value has no leading or trailing whitespace, and no !important.
	Value     []ComponentValue
	Important bool
}

func (n *Declaration) Children() []ast.Node {
	return valuesToNodes(n.Value)
}

// IdentValue is an identifier, e.g. a keyword value like "bold".
type IdentValue struct {
	ast.NodeBase
	Value string
}

// NumberValue is a number without a unit.
type NumberValue struct {
	ast.NodeBase
	Value   float64
	Integer bool
}

// PercentageValue is a number followed by '%'.
type PercentageValue struct {
	ast.NodeBase
	Value float64
}

// DimensionValue is a number followed by a unit, e.g. 12px.
type DimensionValue struct {
	ast.NodeBase
	Value   float64
	Integer bool
	Unit    string
}

// StringValue is a quoted string. Bad is set if the string was cut off by
// a line break.
type StringValue struct {
	ast.NodeBase
	Value string
	Bad   bool
}

// URLValue is an unquoted url(...). Bad is set if it contained characters
// that are not allowed unquoted.
type URLValue struct {
	ast.NodeBase
	Value string
	Bad   bool
}

// HashValue is '#' followed by a name, e.g. a color or an id selector.
type HashValue struct {
	ast.NodeBase
	Value string
	// ID is set if the name is a valid identifier.
	ID bool
}

// FunctionValue is a function call like rgb(0 0 0).
type FunctionValue struct {
	ast.NodeBase
	// Name is case folded.
	Name string
	Args []ComponentValue
}

func (n *FunctionValue) Children() []ast.Node {
	return valuesToNodes(n.Args)
}

// SimpleBlock is a (), [] or {} block inside a component value list.
type SimpleBlock struct {
	ast.NodeBase
	// Open is the opening bracket.
	Open rune
	Body []ComponentValue
}

func (n *SimpleBlock) Children() []ast.Node {
	return valuesToNodes(n.Body)
}

// Raw is any other token: delimiters, punctuation and whitespace.
type Raw struct {
	ast.NodeBase
	Kind parser.TokenType
	Text string
}

func (*AtRule) rule()        {}
func (*QualifiedRule) rule() {}

func (*IdentValue) componentValue()      {}
func (*NumberValue) componentValue()     {}
func (*PercentageValue) componentValue() {}
func (*DimensionValue) componentValue()  {}
func (*StringValue) componentValue()     {}
func (*URLValue) componentValue()        {}
func (*HashValue) componentValue()       {}
func (*FunctionValue) componentValue()   {}
func (*SimpleBlock) componentValue()     {}
func (*Raw) componentValue()             {}

func rulesToNodes(rules []Rule) []ast.Node {
	out := make([]ast.Node, len(rules))
	for i, r := range rules {
		out[i] = r
	}
	return out
}

func valuesToNodes(values []ComponentValue) []ast.Node {
	out := make([]ast.Node, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

var (
	_ parser.Root = (*Stylesheet)(nil)
	_ ast.Parent  = (*Stylesheet)(nil)
	_ ast.Parent  = (*AtRule)(nil)
	_ ast.Parent  = (*QualifiedRule)(nil)
	_ ast.Parent  = (*Block)(nil)
	_ ast.Parent  = (*Declaration)(nil)
	_ ast.Parent  = (*FunctionValue)(nil)
	_ ast.Parent  = (*SimpleBlock)(nil)
)
