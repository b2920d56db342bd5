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
	"strings"

	"golang.org/x/text/cases"

	"github.com/kralicky/parsekit/parser"
	"github.com/kralicky/parsekit/reporter"
)

type cssParser struct {
	p *parser.Parser[Value, struct{}]
	// CSS names are ASCII case-insensitive; fold compares them the way
	// Unicode case folding does, which agrees on ASCII.
	fold cases.Caser
}

func newParser(in parser.Input, opts parser.Options) *cssParser {
	// whitespace separates selector parts, so the grammar sees it
	opts.IgnoreWhitespaceTokens = false
	c := &cssParser{fold: cases.Fold()}
	c.p = parser.New(in, parser.Hooks[Value, struct{}]{
		Tokenize: c.tokenize,
	}, opts)
	return c
}

// Parse parses a stylesheet. It never fails: problems are reported as
// diagnostics on the returned stylesheet. Invalid declarations and rules
// are dropped, and parsing resumes at the next ';' or '}'.
func Parse(in parser.Input, opts parser.Options) *Stylesheet {
	c := newParser(in, opts)
	root := &Stylesheet{}
	c.p.ParseRoot(root, func() {
		root.Rules = c.parseRules()
	})
	return root
}

// Tokenize returns the tokens of a stylesheet, and the diagnostics raised
// while tokenizing it.
func Tokenize(in parser.Input, opts parser.Options) ([]parser.TokenInfo, []reporter.Diagnostic) {
	c := newParser(in, opts)
	tokens := c.p.TokenizeAll()
	return parser.DescribeTokens(c.p, tokens), c.p.GetDiagnostics()
}

func (c *cssParser) parseRules() []Rule {
	p := c.p
	var rules []Rule
	for {
		switch p.GetToken().Type {
		case parser.EOF:
			return rules
		case Whitespace, CDO, CDC:
			p.NextToken()
		case AtKeyword:
			rules = append(rules, c.parseAtRule(false))
		default:
			if rule := c.parseQualifiedRule(false); rule != nil {
				rules = append(rules, rule)
			}
		}
	}
}

func (c *cssParser) parseAtRule(nested bool) *AtRule {
	p := c.p
	start := p.GetPosition()
	rule := &AtRule{Name: c.fold.String(p.GetToken().Value.Text)}
	p.NextToken()
	for {
		tok := p.GetToken()
		switch {
		case tok.Type == Semicolon:
			p.NextToken()
		case tok.Type == RightCurly && nested:
			// the end of the enclosing block ends the rule too
		case tok.Type == parser.EOF:
			p.UnexpectedDiagnostic(
				parser.WithDescription(unterminatedRule()),
				parser.WithStart(start),
				parser.WithEnd(p.GetLastEndPosition()),
			)
		case tok.Type == LeftCurly:
			rule.Block = c.parseBlock()
		default:
			rule.Prelude = append(rule.Prelude, c.parseComponentValue())
			continue
		}
		rule.Prelude = trimWhitespace(rule.Prelude)
		p.FinishNode(start, rule)
		return rule
	}
}

// parseQualifiedRule parses a rule with a selector prelude. It returns nil
// if the rule has no block, after reporting it.
func (c *cssParser) parseQualifiedRule(nested bool) *QualifiedRule {
	p := c.p
	start := p.GetPosition()
	rule := &QualifiedRule{}
	for {
		tok := p.GetToken()
		switch {
		case tok.Type == parser.EOF:
			p.UnexpectedDiagnostic(
				parser.WithDescription(unterminatedRule()),
				parser.WithStart(start),
				parser.WithEnd(p.GetLastEndPosition()),
			)
			return nil
		case nested && (tok.Type == RightCurly || tok.Type == Semicolon):
			p.UnexpectedDiagnostic(
				parser.WithDescription(missingBlock()),
				parser.WithStart(start),
				parser.WithEnd(p.GetLastEndPosition()),
			)
			if tok.Type == Semicolon {
				p.NextToken()
			}
			return nil
		case tok.Type == LeftCurly:
			rule.Prelude = trimWhitespace(rule.Prelude)
			rule.Block = c.parseBlock()
			p.FinishNode(start, rule)
			return rule
		}
		rule.Prelude = append(rule.Prelude, c.parseComponentValue())
	}
}

// parseBlock parses a {}-block of declarations and nested rules. The
// current token is the '{'.
func (c *cssParser) parseBlock() *Block {
	p := c.p
	start := p.GetPosition()
	p.NextToken()
	block := &Block{}
	for {
		switch p.GetToken().Type {
		case Whitespace, Semicolon:
			p.NextToken()
			continue
		case RightCurly:
			p.NextToken()
		case parser.EOF:
			p.UnexpectedDiagnostic(
				parser.WithDescription(unclosedBlock('}')),
				parser.WithStart(start),
				parser.WithEnd(p.GetLastEndPosition()),
			)
		case AtKeyword:
			block.Rules = append(block.Rules, c.parseAtRule(true))
			continue
		case Ident:
			var decl *Declaration
			if p.Try(func() bool {
				var ok bool
				decl, ok = c.parseDeclaration()
				return ok
			}) {
				if decl != nil {
					block.Declarations = append(block.Declarations, decl)
				}
				continue
			}
			fallthrough
		default:
			if rule := c.parseQualifiedRule(true); rule != nil {
				block.Rules = append(block.Rules, rule)
			}
			continue
		}
		p.FinishNode(start, block)
		return block
	}
}

// parseDeclaration parses a declaration starting at an identifier. It
// returns false if the tokens are a nested rule instead, e.g. "a:hover {".
// It returns a nil declaration if the declaration is invalid; it has been
// reported and skipped then.
func (c *cssParser) parseDeclaration() (*Declaration, bool) {
	p := c.p
	start := p.GetPosition()
	nameTok := p.GetToken()
	p.NextToken()
	name := nameTok.Value.Text
	custom := strings.HasPrefix(name, "--")
	if !custom {
		name = c.fold.String(name)
	}
	c.skipWhitespace()

	if !p.MatchToken(Colon) {
		if c.blockFollows() {
			return nil, false
		}
		p.UnexpectedDiagnostic(
			parser.WithDescription(expectedColon(nameTok.Value.Text)),
			parser.WithToken(p.GetToken()),
		)
		c.skipDeclaration()
		return nil, true
	}
	p.NextToken()

	decl := &Declaration{Name: name}
	end := p.GetLastEndPosition()
	bad := false
	for {
		tok := p.GetToken()
		if tok.Type == Semicolon || tok.Type == RightCurly || tok.Type == parser.EOF {
			break
		}
		if tok.Type == LeftCurly && !custom {
			return nil, false
		}
		if tok.Type == BadString || tok.Type == BadURL {
			// already reported by the tokenizer
			bad = true
		}
		v := c.parseComponentValue()
		if !isWhitespaceValue(v) {
			end = v.Base().Loc.End
		}
		decl.Value = append(decl.Value, v)
	}
	if bad {
		return nil, true
	}
	decl.Value, decl.Important = trimImportant(c.fold, trimWhitespace(decl.Value))
	p.FinishNodeAt(start, end, decl)
	return decl, true
}

// blockFollows reports whether a '{' comes before the end of the current
// statement, leaving the stream unchanged.
func (c *cssParser) blockFollows() bool {
	p := c.p
	s := p.Save()
	defer p.Restore(s)
	for {
		switch p.GetToken().Type {
		case LeftCurly:
			return true
		case Semicolon, RightCurly, parser.EOF:
			return false
		}
		p.NextToken()
	}
}

// skipDeclaration skips to the end of the current declaration. The ';'
// is consumed, a '}' is left for the enclosing block.
func (c *cssParser) skipDeclaration() {
	p := c.p
	for {
		switch p.GetToken().Type {
		case Semicolon:
			p.NextToken()
			return
		case RightCurly, parser.EOF:
			return
		}
		c.parseComponentValue()
	}
}

func (c *cssParser) skipWhitespace() {
	for c.p.MatchToken(Whitespace) {
		c.p.NextToken()
	}
}

func (c *cssParser) parseComponentValue() ComponentValue {
	p := c.p
	start := p.GetPosition()
	tok := p.GetToken()
	var n ComponentValue
	switch tok.Type {
	case LeftCurly, LeftSquare, LeftParen:
		return c.parseSimpleBlock()
	case Function:
		return c.parseFunction()
	case Ident:
		n = &IdentValue{Value: tok.Value.Text}
	case Number:
		n = &NumberValue{Value: tok.Value.Number, Integer: tok.Value.Integer}
	case Percentage:
		n = &PercentageValue{Value: tok.Value.Number}
	case Dimension:
		n = &DimensionValue{Value: tok.Value.Number, Integer: tok.Value.Integer, Unit: tok.Value.Unit}
	case String, BadString:
		n = &StringValue{Value: tok.Value.Text, Bad: tok.Type == BadString}
	case URL, BadURL:
		n = &URLValue{Value: tok.Value.Text, Bad: tok.Type == BadURL}
	case Hash:
		n = &HashValue{Value: tok.Value.Text, ID: tok.Value.ID}
	default:
		n = &Raw{Kind: tok.Type, Text: p.Input()[tok.Start:tok.End]}
	}
	p.NextToken()
	p.FinishNode(start, n)
	return n
}

var closingBrackets = map[parser.TokenType]parser.TokenType{
	LeftCurly:  RightCurly,
	LeftSquare: RightSquare,
	LeftParen:  RightParen,
}

func (c *cssParser) parseSimpleBlock() *SimpleBlock {
	p := c.p
	start := p.GetPosition()
	open := p.GetToken()
	p.NextToken()
	closing := closingBrackets[open.Type]
	block := &SimpleBlock{Open: rune(p.Input()[open.Start])}
	for {
		tok := p.GetToken()
		if tok.Type == closing {
			p.NextToken()
			break
		}
		if tok.Type == parser.EOF {
			p.UnexpectedDiagnostic(
				parser.WithDescription(unclosedBlock(closingRune(block.Open))),
				parser.WithStart(start),
				parser.WithEnd(p.GetLastEndPosition()),
			)
			break
		}
		block.Body = append(block.Body, c.parseComponentValue())
	}
	p.FinishNode(start, block)
	return block
}

func closingRune(open rune) rune {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	}
	return '}'
}

func (c *cssParser) parseFunction() *FunctionValue {
	p := c.p
	start := p.GetPosition()
	fn := &FunctionValue{Name: c.fold.String(p.GetToken().Value.Text)}
	p.NextToken()
	for {
		tok := p.GetToken()
		if tok.Type == RightParen {
			p.NextToken()
			break
		}
		if tok.Type == parser.EOF {
			p.UnexpectedDiagnostic(
				parser.WithDescription(unclosedFunction(fn.Name)),
				parser.WithStart(start),
				parser.WithEnd(p.GetLastEndPosition()),
			)
			break
		}
		fn.Args = append(fn.Args, c.parseComponentValue())
	}
	p.FinishNode(start, fn)
	return fn
}

func isWhitespaceValue(v ComponentValue) bool {
	raw, ok := v.(*Raw)
	return ok && raw.Kind == Whitespace
}

func trimWhitespace(values []ComponentValue) []ComponentValue {
	for len(values) > 0 && isWhitespaceValue(values[0]) {
		values = values[1:]
	}
	for len(values) > 0 && isWhitespaceValue(values[len(values)-1]) {
		values = values[:len(values)-1]
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

// trimImportant removes a trailing "!important" from a declaration value.
func trimImportant(fold cases.Caser, values []ComponentValue) ([]ComponentValue, bool) {
	n := len(values)
	if n < 2 {
		return values, false
	}
	ident, ok := values[n-1].(*IdentValue)
	if !ok || fold.String(ident.Value) != "important" {
		return values, false
	}
	i := n - 2
	for i >= 0 && isWhitespaceValue(values[i]) {
		i--
	}
	if i < 0 {
		return values, false
	}
	if bang, ok := values[i].(*Raw); !ok || bang.Kind != Delim || bang.Text != "!" {
		return values, false
	}
	return trimWhitespace(values[:i]), true
}
