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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/parser"
	"github.com/kralicky/parsekit/reporter"
)

func parse(t *testing.T, pattern string) *Pattern {
	t.Helper()
	return Parse(parser.Input{Path: "test.regex", Input: pattern}, parser.Options{})
}

func categories(diags []reporter.Diagnostic) []reporter.Category {
	var out []reporter.Category
	for _, d := range diags {
		out = append(out, d.Category)
	}
	return out
}

func terms(t *testing.T, p *Pattern) []Term {
	t.Helper()
	expr, ok := p.Body.(*Expression)
	require.True(t, ok, "expected a single expression, got %T", p.Body)
	return expr.Body
}

func TestGroupModifierAtEnd(t *testing.T) {
	t.Parallel()
	p := parse(t, "a(?")
	assert.False(t, p.Corrupt)
	require.Equal(t, []reporter.Category{CategoryUnexpectedEnd, CategoryUnclosedGroup}, categories(p.Diagnostics))
	d := p.Diagnostics[0]
	assert.Equal(t, "unexpected end of pattern after `(?`", d.Message)
	assert.Equal(t, 2, d.Location.Start.Index)
	assert.Equal(t, 3, d.Location.End.Index)

	body := terms(t, p)
	require.Len(t, body, 2)
	group, ok := body[1].(*Group)
	require.True(t, ok)
	assert.Equal(t, GroupNonCapture, group.Kind)
	assert.Equal(t, 0, p.Groups)
}

func TestReversedQuantifierRange(t *testing.T) {
	t.Parallel()
	p := parse(t, "a{2,1}")
	assert.False(t, p.Corrupt)

	body := terms(t, p)
	require.Len(t, body, 1)
	q, ok := body[0].(*Quantified)
	require.True(t, ok)
	assert.Equal(t, 1, q.Min)
	assert.Equal(t, 2, q.Max)
	assert.Equal(t, 'a', q.Target.(*Character).Value)
	assert.Equal(t, 0, q.Loc.Start.Index)
	assert.Equal(t, 6, q.Loc.End.Index)

	require.Len(t, p.Diagnostics, 1)
	d := p.Diagnostics[0]
	assert.Equal(t, CategoryReversedQuantifier, d.Category)
	assert.False(t, d.Fatal)
	assert.Equal(t, 1, d.Location.Start.Index)
	assert.Equal(t, 6, d.Location.End.Index)
	assert.Equal(t, []string{"did you mean {1,2}?"}, d.Advice)
}

func TestReversedCharSetRange(t *testing.T) {
	t.Parallel()
	p := parse(t, "[z-a]")
	assert.False(t, p.Corrupt)

	body := terms(t, p)
	require.Len(t, body, 1)
	set, ok := body[0].(*CharSet)
	require.True(t, ok)
	assert.False(t, set.Invert)
	require.Len(t, set.Body, 1)
	rng, ok := set.Body[0].(*CharSetRange)
	require.True(t, ok)
	assert.Equal(t, 'a', rng.Start.Value)
	assert.Equal(t, 'z', rng.End.Value)
	assert.Equal(t, 1, rng.Loc.Start.Index)
	assert.Equal(t, 4, rng.Loc.End.Index)

	require.Len(t, p.Diagnostics, 1)
	d := p.Diagnostics[0]
	assert.Equal(t, CategoryReversedCharSetRange, d.Category)
	assert.Equal(t, "test.regex:1:2-5", d.Location.String())
	assert.Equal(t, []string{"did you mean a-z?"}, d.Advice)
}

func TestRecoverableDiagnostics(t *testing.T) {
	t.Parallel()
	testCases := map[string]struct {
		pattern    string
		category   reporter.Category
		start, end int
	}{
		"unclosed group": {
			pattern:  "(ab",
			category: CategoryUnclosedGroup,
			start:    0, end: 3,
		},
		"unopened group": {
			pattern:  "a)b",
			category: CategoryUnopenedGroup,
			start:    1, end: 2,
		},
		"unclosed char set": {
			pattern:  "[ab",
			category: CategoryUnclosedCharSet,
			start:    0, end: 3,
		},
		"nothing to repeat": {
			pattern:  "*a",
			category: CategoryNothingToRepeat,
			start:    0, end: 1,
		},
		"leading brace quantifier": {
			pattern:  "{2}a",
			category: CategoryNothingToRepeat,
			start:    0, end: 3,
		},
		"invalid group name": {
			pattern:  "(?<1a>x)",
			category: CategoryInvalidGroupName,
			start:    3, end: 5,
		},
		"unknown group modifier": {
			pattern:  "(?x)",
			category: CategoryUnknownGroupModifier,
			start:    2, end: 3,
		},
		"class as range bound": {
			pattern:  "[\\d-z]",
			category: CategoryInvalidCharSetRange,
			start:    1, end: 5,
		},
		"backreference out of range": {
			pattern:  "(a)\\1\\2",
			category: CategoryBackreferenceOutOfRange,
			start:    5, end: 7,
		},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p := parse(t, tc.pattern)
			assert.False(t, p.Corrupt)
			require.Equal(t, []reporter.Category{tc.category}, categories(p.Diagnostics))
			d := p.Diagnostics[0]
			assert.False(t, d.Fatal)
			assert.Equal(t, tc.start, d.Location.Start.Index)
			assert.Equal(t, tc.end, d.Location.End.Index)
		})
	}
}

func TestUnopenedGroupIsSkipped(t *testing.T) {
	t.Parallel()
	p := parse(t, "a)b")
	body := terms(t, p)
	require.Len(t, body, 2)
	assert.Equal(t, 'a', body[0].(*Character).Value)
	assert.Equal(t, 'b', body[1].(*Character).Value)
}

func TestDanglingBackslash(t *testing.T) {
	t.Parallel()
	p := parse(t, "ab\\")
	assert.True(t, p.Corrupt)
	assert.Nil(t, p.Body)
	require.Len(t, p.Diagnostics, 1)
	d := p.Diagnostics[0]
	assert.True(t, d.Fatal)
	assert.Equal(t, CategoryDanglingBackslash, d.Category)
	assert.Equal(t, 2, d.Location.Start.Index)
	assert.Equal(t, 3, d.Location.End.Index)
	assert.Equal(t, 0, p.Loc.Start.Index)
	assert.Equal(t, 3, p.Loc.End.Index)
}

func TestGroups(t *testing.T) {
	t.Parallel()
	testCases := map[string]struct {
		pattern string
		kind    GroupKind
		name    string
		groups  int
	}{
		"capture":             {pattern: "(a)", kind: GroupCapture, groups: 1},
		"named":               {pattern: "(?<word>a)", kind: GroupNamed, name: "word", groups: 1},
		"non-capture":         {pattern: "(?:a)", kind: GroupNonCapture},
		"lookahead":           {pattern: "(?=a)", kind: GroupLookahead},
		"negative lookahead":  {pattern: "(?!a)", kind: GroupNegativeLookahead},
		"lookbehind":          {pattern: "(?<=a)", kind: GroupLookbehind},
		"negative lookbehind": {pattern: "(?<!a)", kind: GroupNegativeLookbehind},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p := parse(t, tc.pattern)
			require.Empty(t, p.Diagnostics)
			assert.Equal(t, tc.groups, p.Groups)

			body := terms(t, p)
			require.Len(t, body, 1)
			g, ok := body[0].(*Group)
			require.True(t, ok)
			assert.Equal(t, tc.kind, g.Kind)
			assert.Equal(t, tc.name, g.Name)
			assert.Equal(t, len(tc.pattern), g.Loc.End.Index)

			inner := g.Body.(*Expression).Body
			require.Len(t, inner, 1)
			assert.Equal(t, 'a', inner[0].(*Character).Value)
		})
	}
}

func TestAlternation(t *testing.T) {
	t.Parallel()
	p := parse(t, "ab|c|")
	require.Empty(t, p.Diagnostics)
	alt, ok := p.Body.(*Alternation)
	require.True(t, ok)
	require.Len(t, alt.Alternatives, 3)
	assert.Len(t, alt.Alternatives[0].Body, 2)
	assert.Len(t, alt.Alternatives[1].Body, 1)
	assert.Empty(t, alt.Alternatives[2].Body)
	assert.Equal(t, 5, alt.Loc.End.Index)
}

func TestEscapes(t *testing.T) {
	t.Parallel()
	p := parse(t, "\\n\\x41\\u{1F600}\\cJ\\.\\d\\b")
	require.Empty(t, p.Diagnostics)
	body := terms(t, p)
	require.Len(t, body, 7)
	for i, want := range []rune{'\n', 'A', 0x1F600, '\n', '.'} {
		c, ok := body[i].(*Character)
		require.True(t, ok, "term %d is %T", i, body[i])
		assert.Equal(t, want, c.Value)
		assert.True(t, c.Escaped)
	}
	assert.Equal(t, 'd', body[5].(*CharacterClass).Kind)
	assert.False(t, body[6].(*WordBoundary).Negate)
}

func TestString(t *testing.T) {
	t.Parallel()
	testCases := map[string]struct {
		pattern, want string
	}{
		"plain":        {pattern: "abc", want: "abc"},
		"alternation":  {pattern: "a|b", want: "a|b"},
		"quantifiers":  {pattern: "a*?b+c??d{2,}e{3}", want: "a*?b+c??d{2,}e{3}"},
		"char set":     {pattern: "[^a-z\\d\\]]", want: "[^a-z\\d\\]]"},
		"groups":       {pattern: "(?<n>x)(?:y)\\1", want: "(?<n>x)(?:y)\\1"},
		"reversed":     {pattern: "x{3,1}[9-0]", want: "x{1,3}[0-9]"},
		"unclosed":     {pattern: "(a[b", want: "(a[b])"},
		"escapes":      {pattern: "\\.\\n", want: "\\.\\u000a"},
		"literal curl": {pattern: "a{b}", want: "a\\{b\\}"},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, parse(t, tc.pattern).String())
		})
	}
}

func TestInspect(t *testing.T) {
	t.Parallel()
	p := parse(t, "a(b|[c-d])*")
	var chars []rune
	var tracker ast.AncestorTracker
	var groupDepth int
	err := ast.Inspect(p, func(n ast.Node) bool {
		if c, ok := n.(*Character); ok {
			chars = append(chars, c.Value)
			if c.Value == 'b' {
				groupDepth = len(tracker.Path())
			}
		}
		return true
	}, tracker.AsWalkOptions()...)
	require.NoError(t, err)
	assert.Equal(t, []rune{'a', 'b', 'c', 'd'}, chars)
	// Pattern, Expression, Quantified, Group, Alternation, Expression, Character
	assert.Equal(t, 7, groupDepth)
}

func TestTokenize(t *testing.T) {
	t.Parallel()
	tokens, diags := Tokenize(parser.Input{Input: "a\\d[b-c]"}, parser.Options{})
	assert.Empty(t, diags)
	var types []parser.TokenType
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []parser.TokenType{Text, CharacterClassEscape, LeftSquare, Text, Minus, Text, RightSquare}, types)
	assert.Equal(t, "\\d", tokens[1].Text)
	assert.Equal(t, Value{Char: 'a'}, tokens[0].Value)
	assert.Equal(t, 3, tokens[2].Loc.Start.Column)

	tokens, diags = Tokenize(parser.Input{Input: "a\\"}, parser.Options{})
	require.Len(t, tokens, 2)
	assert.Equal(t, parser.Invalid, tokens[1].Type)
	assert.Equal(t, "\\", tokens[1].Text)
	assert.Nil(t, tokens[1].Value)
	require.Len(t, diags, 1)
	assert.True(t, diags[0].Fatal)
}

func TestCompile(t *testing.T) {
	t.Parallel()
	re, err := parse(t, "a{2,1}$").Compile("")
	require.NoError(t, err)
	ok, err := re.MatchString("baa")
	require.NoError(t, err)
	assert.True(t, ok)

	re, err = parse(t, "^[z-a]+$").Compile("i")
	require.NoError(t, err)
	ok, err = re.MatchString("Hello")
	require.NoError(t, err)
	assert.True(t, ok)

	re, err = parse(t, "^b").Compile("gm")
	require.NoError(t, err)
	ok, err = re.MatchString("a\nb")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = parse(t, "a").Compile("s")
	assert.ErrorContains(t, err, "unsupported regular expression flag")

	_, err = parse(t, "a\\").Compile("")
	assert.ErrorIs(t, err, ErrCorrupt)
}
