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
	"unicode"

	"github.com/kralicky/parsekit/parser"
	"github.com/kralicky/parsekit/reporter"
)

type regexParser struct {
	p     *parser.Parser[Value, lexState]
	depth int

	groups         int
	backreferences []*Backreference
}

func newParser(in parser.Input, opts parser.Options) *regexParser {
	// whitespace is significant in patterns
	opts.IgnoreWhitespaceTokens = false
	r := &regexParser{}
	r.p = parser.New(in, parser.Hooks[Value, lexState]{
		TokenizeWithState: r.tokenize,
	}, opts)
	return r
}

// Parse parses an ECMAScript regular expression pattern, without the
// surrounding slashes and flags. It never fails: problems are reported as
// diagnostics on the returned pattern, which is marked corrupt if parsing
// had to stop early.
func Parse(in parser.Input, opts parser.Options) *Pattern {
	r := newParser(in, opts)
	root := &Pattern{Source: in.Input}
	r.p.ParseRoot(root, func() {
		root.Body = r.parseAlternation()
		root.Groups = r.groups
		r.checkBackreferences()
	})
	return root
}

// Tokenize returns the tokens of a pattern, and the diagnostics of a
// failure to tokenize it.
func Tokenize(in parser.Input, opts parser.Options) ([]parser.TokenInfo, []reporter.Diagnostic) {
	r := newParser(in, opts)
	tokens := r.p.TokenizeAll()
	return parser.DescribeTokens(r.p, tokens), r.p.GetDiagnostics()
}

func (r *regexParser) parseAlternation() Expr {
	p := r.p
	start := p.GetPosition()
	first := r.parseExpression()
	if !p.MatchToken(Pipe) {
		return first
	}
	alt := &Alternation{Alternatives: []*Expression{first}}
	for {
		if _, ok := p.EatToken(Pipe); !ok {
			break
		}
		alt.Alternatives = append(alt.Alternatives, r.parseExpression())
	}
	p.FinishNode(start, alt)
	return alt
}

func (r *regexParser) parseExpression() *Expression {
	p := r.p
	start := p.GetPosition()
	expr := &Expression{}
	for {
		tok := p.GetToken()
		switch tok.Type {
		case parser.EOF, Pipe:
			p.FinishNode(start, expr)
			return expr
		case RightParen:
			if r.depth > 0 {
				p.FinishNode(start, expr)
				return expr
			}
			p.UnexpectedDiagnostic(parser.WithDescription(unopenedGroup()), parser.WithToken(tok))
			p.NextToken()
			continue
		}
		if term := r.parseTerm(); term != nil {
			expr.Body = append(expr.Body, term)
		}
	}
}

// parseTerm parses an atom and the quantifier following it. It returns
// nil if there was nothing but a quantifier.
func (r *regexParser) parseTerm() Term {
	p := r.p
	var atom Term
	if p.MatchToken(LeftCurly) && r.isBraceQuantifier() {
		// a valid {n,m} with nothing before it
		atom = nil
	} else {
		atom = r.parseAtom()
	}

	for {
		tok := p.GetToken()
		var lo, hi int
		switch tok.Type {
		case Star:
			lo, hi = 0, -1
			p.NextToken()
		case Plus:
			lo, hi = 1, -1
			p.NextToken()
		case Question:
			lo, hi = 0, 1
			p.NextToken()
		case LeftCurly:
			var ok bool
			lo, hi, ok = r.parseBraceQuantifier()
			if !ok {
				return atom
			}
		default:
			return atom
		}

		if atom == nil {
			p.UnexpectedDiagnostic(
				parser.WithDescription(nothingToRepeat()),
				parser.WithStart(p.GetPositionFromIndex(tok.Start)),
				parser.WithEnd(p.GetLastEndPosition()),
			)
			continue
		}
		q := &Quantified{Target: atom, Min: lo, Max: hi}
		if _, ok := p.EatToken(Question); ok {
			q.Lazy = true
		}
		p.FinishNode(atom.Base().Loc.Start, q)
		atom = q
	}
}

func (r *regexParser) isBraceQuantifier() bool {
	s := r.p.Save()
	defer r.p.Restore(s)
	_, _, ok := r.parseBraceQuantifier()
	return ok
}

// parseBraceQuantifier consumes {n}, {n,} or {n,m} if the stream is at
// one. Otherwise it consumes nothing and the '{' is a literal character.
// Reversed bounds are reported and swapped.
func (r *regexParser) parseBraceQuantifier() (lo, hi int, ok bool) {
	p := r.p
	s := p.Save()
	open := p.GetToken()
	p.NextToken()

	lo, ok = r.parseNumber()
	if !ok {
		p.Restore(s)
		return 0, 0, false
	}
	hi = lo
	if _, comma := p.EatToken(Comma); comma {
		if hi, ok = r.parseNumber(); !ok {
			hi = -1
		}
	}
	if _, closed := p.EatToken(RightCurly); !closed {
		p.Restore(s)
		return 0, 0, false
	}
	if hi >= 0 && hi < lo {
		p.UnexpectedDiagnostic(
			parser.WithDescription(reversedQuantifier(lo, hi)),
			parser.WithStart(p.GetPositionFromIndex(open.Start)),
			parser.WithEnd(p.GetLastEndPosition()),
		)
		lo, hi = hi, lo
	}
	return lo, hi, true
}

func (r *regexParser) parseNumber() (int, bool) {
	p := r.p
	n, digits := 0, 0
	for {
		tok := p.GetToken()
		if tok.Type != Text || tok.Value.Escaped || tok.Value.Char < '0' || tok.Value.Char > '9' {
			break
		}
		if n < 1<<20 {
			n = n*10 + int(tok.Value.Char-'0')
		}
		digits++
		p.NextToken()
	}
	return n, digits > 0
}

func (r *regexParser) parseAtom() Term {
	p := r.p
	start := p.GetPosition()
	tok := p.GetToken()
	var n Term
	switch tok.Type {
	case Star, Plus, Question:
		return nil
	case LeftSquare:
		return r.parseCharSet()
	case LeftParen:
		return r.parseGroup()
	case Dot:
		n = &AnyCharacter{}
	case Caret:
		n = &StartOfLine{}
	case Dollar:
		n = &EndOfLine{}
	case CharacterClassEscape:
		n = &CharacterClass{Kind: tok.Value.Char}
	case WordBoundaryEscape:
		n = &WordBoundary{Negate: tok.Value.Char == 'B'}
	case BackreferenceEscape:
		ref := &Backreference{Index: tok.Value.Number}
		r.backreferences = append(r.backreferences, ref)
		n = ref
	default:
		// Text, and operators that are literal where they appear
		n = &Character{Value: tok.Value.Char, Escaped: tok.Value.Escaped}
	}
	p.NextToken()
	p.FinishNode(start, n)
	return n
}

func (r *regexParser) parseCharSet() *CharSet {
	p := r.p
	start := p.GetPosition()
	p.NextToken() // [
	set := &CharSet{}
	if _, ok := p.EatToken(Caret); ok {
		set.Invert = true
	}
	for {
		tok := p.GetToken()
		switch tok.Type {
		case RightSquare:
			p.NextToken()
			p.FinishNode(start, set)
			return set
		case parser.EOF:
			p.UnexpectedDiagnostic(
				parser.WithDescription(unclosedCharSet()),
				parser.WithStart(start),
				parser.WithEnd(p.GetLastEndPosition()),
			)
			p.FinishNode(start, set)
			return set
		}
		set.Body = append(set.Body, r.parseCharSetItem()...)
	}
}

// parseCharSetItem parses a character or class, and a range if a '-'
// follows that isn't the last character of the set.
func (r *regexParser) parseCharSetItem() []CharSetItem {
	p := r.p
	first := r.parseCharSetAtom()
	if !p.MatchToken(Minus) {
		return []CharSetItem{first}
	}
	if next := p.LookaheadToken(); next.Type == RightSquare || next.Type == parser.EOF {
		return []CharSetItem{first}
	}
	minus := r.parseCharSetAtom()
	last := r.parseCharSetAtom()

	lo, okLo := first.(*Character)
	hi, okHi := last.(*Character)
	if !okLo || !okHi {
		p.UnexpectedDiagnostic(
			parser.WithDescription(invalidCharSetRange()),
			parser.WithStart(first.Base().Loc.Start),
			parser.WithEnd(last.Base().Loc.End),
		)
		return []CharSetItem{first, minus, last}
	}
	rng := &CharSetRange{Start: lo, End: hi}
	p.FinishNode(first.Base().Loc.Start, rng)
	if lo.Value > hi.Value {
		p.UnexpectedDiagnostic(
			parser.WithDescription(reversedCharSetRange(lo.Value, hi.Value)),
			parser.WithLoc(rng.Loc),
		)
		rng.Start, rng.End = hi, lo
	}
	return []CharSetItem{rng}
}

func (r *regexParser) parseCharSetAtom() CharSetItem {
	p := r.p
	start := p.GetPosition()
	tok := p.GetToken()
	var n CharSetItem
	if tok.Type == CharacterClassEscape {
		n = &CharacterClass{Kind: tok.Value.Char}
	} else {
		n = &Character{Value: tok.Value.Char, Escaped: tok.Value.Escaped}
	}
	p.NextToken()
	p.FinishNode(start, n)
	return n
}

func (r *regexParser) parseGroup() *Group {
	p := r.p
	start := p.GetPosition()
	p.NextToken() // (
	group := &Group{Kind: GroupCapture}

	if p.MatchToken(Question) {
		r.parseGroupModifier(group)
	}
	if group.Kind.Capturing() {
		r.groups++
	}

	r.depth++
	group.Body = r.parseAlternation()
	r.depth--

	if _, ok := p.EatToken(RightParen); !ok {
		p.UnexpectedDiagnostic(
			parser.WithDescription(unclosedGroup()),
			parser.WithStart(start),
			parser.WithEnd(p.GetLastEndPosition()),
		)
	}
	p.FinishNode(start, group)
	return group
}

// parseGroupModifier parses what follows "(?". The stream is at the '?'.
func (r *regexParser) parseGroupModifier(group *Group) {
	p := r.p
	question := p.GetToken()
	next := p.LookaheadToken()
	if next.Type == parser.EOF {
		p.UnexpectedDiagnostic(parser.WithDescription(unexpectedEnd()), parser.WithToken(question))
		p.NextToken()
		group.Kind = GroupNonCapture
		return
	}
	if next.Type != Text || next.Value.Escaped {
		p.NextToken()
		p.UnexpectedDiagnostic(parser.WithDescription(unknownGroupModifier(next.Value.Char)), parser.WithToken(next))
		group.Kind = GroupNonCapture
		return
	}

	switch next.Value.Char {
	case ':':
		group.Kind = GroupNonCapture
	case '=':
		group.Kind = GroupLookahead
	case '!':
		group.Kind = GroupNegativeLookahead
	case '<':
		// (?<= and (?<! are lookbehinds, anything else starts a name
		switch after := p.LookaheadToken(next.End); {
		case after.Type == Text && !after.Value.Escaped && after.Value.Char == '=':
			group.Kind = GroupLookbehind
			p.NextToken()
		case after.Type == Text && !after.Value.Escaped && after.Value.Char == '!':
			group.Kind = GroupNegativeLookbehind
			p.NextToken()
		default:
			group.Kind = GroupNamed
			p.NextToken() // ?
			p.NextToken() // <
			group.Name = r.parseGroupName(question.Start)
			return
		}
	default:
		p.NextToken()
		p.UnexpectedDiagnostic(parser.WithDescription(unknownGroupModifier(next.Value.Char)), parser.WithToken(next))
		p.NextToken()
		group.Kind = GroupNonCapture
		return
	}
	p.NextToken()
	p.NextToken()
}

// parseGroupName parses a group name up to and including the closing '>'.
func (r *regexParser) parseGroupName(start int) string {
	p := r.p
	nameStart := p.GetToken().Start
	var name []rune
	for {
		tok := p.GetToken()
		if tok.Type == Text && !tok.Value.Escaped && tok.Value.Char == '>' {
			p.NextToken()
			break
		}
		if tok.Type == parser.EOF || tok.Type == RightParen {
			p.UnexpectedDiagnostic(
				parser.WithDescription(invalidGroupName(string(name))),
				parser.WithIndexRange(start, tok.Start),
			)
			return string(name)
		}
		name = append(name, tok.Value.Char)
		p.NextToken()
	}
	if !isIdentifier(name) {
		p.UnexpectedDiagnostic(
			parser.WithDescription(invalidGroupName(string(name))),
			parser.WithIndexRange(nameStart, p.PrevToken().Start),
		)
	}
	return string(name)
}

func isIdentifier(name []rune) bool {
	if len(name) == 0 {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_' || c == '$' || unicode.IsLetter(c):
		case i > 0 && unicode.IsDigit(c):
		default:
			return false
		}
	}
	return true
}

func (r *regexParser) checkBackreferences() {
	for _, ref := range r.backreferences {
		if ref.Index > r.groups {
			r.p.UnexpectedDiagnostic(
				parser.WithDescription(backreferenceOutOfRange(ref.Index, r.groups)),
				parser.WithLoc(ref.Loc),
			)
		}
	}
}
