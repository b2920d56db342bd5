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
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/reporter"
)

const (
	letterToken TokenType = "letter"
	digitToken  TokenType = "digit"
	punctToken  TokenType = "punct"
)

// newCharParser returns a parser for a grammar where every character is a
// token, '#' starts a comment running to the end of the line, and '!'
// can't be tokenized.
func newCharParser(input string, opts Options) *Parser[rune, struct{}] {
	return newCharParserFor(Input{Path: "test.txt", Input: input}, opts)
}

func newCharParserFor(in Input, opts Options) *Parser[rune, struct{}] {
	input := in.Input
	var p *Parser[rune, struct{}]
	p = New(in, Hooks[rune, struct{}]{
		Tokenize: func(index int) (Token[rune], bool) {
			for {
				if p.IsEOF(index) {
					return p.EOFToken(), true
				}
				switch c := input[index]; c {
				case ' ', '\t', '\n':
					index++
					continue
				case '#':
					end := strings.IndexByte(input[index:], '\n')
					if end < 0 {
						end = len(input)
					} else {
						end += index
					}
					p.RegisterComment(ast.CommentLine, input[index:end], index, end)
					index = end
					continue
				case '!':
					return Token[rune]{}, false
				}
				r, size := utf8.DecodeRuneInString(input[index:])
				typ := punctToken
				switch {
				case unicode.IsLetter(r):
					typ = letterToken
				case unicode.IsDigit(r):
					typ = digitToken
				}
				return Token[rune]{Type: typ, Start: index, End: index + size, Value: r}, true
			}
		},
	}, opts)
	return p
}

func TestTokenizeAllSingleCharacters(t *testing.T) {
	t.Parallel()
	p := newCharParser("abc", Options{})
	tokens := p.TokenizeAll()
	require.Len(t, tokens, 3)
	for i, r := range "abc" {
		assert.Equal(t, Token[rune]{Type: letterToken, Start: i, End: i + 1, Value: r}, tokens[i])
	}
	assert.True(t, p.MatchToken(EOF))
	assert.Empty(t, p.GetDiagnostics())
	assert.False(t, p.State().Corrupt())
	assert.Equal(t, ast.Position{Index: 2, Line: 1, Column: 2}, p.GetPositionFromIndex(2))
}

func TestPositionOnSecondLine(t *testing.T) {
	t.Parallel()
	p := newCharParser("ab\ncd", Options{})
	assert.Equal(t, ast.Position{Index: 4, Line: 2, Column: 1}, p.GetPositionFromIndex(4))

	tokens := p.TokenizeAll()
	require.Len(t, tokens, 4)
	assert.Equal(t, 'c', tokens[2].Value)
	assert.Equal(t, 3, tokens[2].Start)
}

func TestMonotonicProgress(t *testing.T) {
	t.Parallel()
	input := "a1 b2\n#c\n d3"
	p := newCharParser(input, Options{IgnoreWhitespaceTokens: true})
	require.Equal(t, SOF, p.CurrentToken().Type)

	var prev Token[rune]
	steps := 0
	for tok := p.GetToken(); tok.Type != EOF; tok = p.NextToken() {
		if steps > 0 {
			assert.NotEqual(t, prev.End, tok.End)
			assert.GreaterOrEqual(t, tok.Start, prev.End)
		}
		prev = tok
		steps++
		require.Less(t, steps, len(input)+1)
	}
	assert.Equal(t, 6, steps)
}

func TestPositionsAreMonotonic(t *testing.T) {
	t.Parallel()
	input := "a\nbb\n\nccc\n"
	p := newCharParser(input, Options{})
	prev := p.GetPositionFromIndex(0)
	for i := 1; i <= len(input)+2; i++ {
		pos := p.GetPositionFromIndex(i)
		assert.LessOrEqual(t, prev.Line, pos.Line)
		assert.Equal(t, pos, p.GetPositionFromIndex(i))
		prev = pos
	}
}

func TestLookaheadIsPure(t *testing.T) {
	t.Parallel()
	p := newCharParser("ab # comment\ncd", Options{})
	p.GetToken()
	p.NextToken()
	tok, pos := p.GetToken(), p.GetPosition()
	state := p.State()

	for i := 0; i < 3; i++ {
		next := p.LookaheadToken()
		assert.Equal(t, 'c', next.Value)
		assert.Equal(t, 'd', p.LookaheadToken(next.End).Value)
		assert.Equal(t, EOF, p.LookaheadToken(100).Type)
	}
	assert.Equal(t, tok, p.GetToken())
	assert.Equal(t, pos, p.GetPosition())
	assert.Equal(t, state.Comments(), p.State().Comments())
	assert.Empty(t, p.State().Comments())

	// the comment is only registered once the stream commits past it
	assert.Equal(t, 'c', p.NextToken().Value)
	assert.Len(t, p.State().Comments(), 1)
}

func TestLookaheadReturnsNextState(t *testing.T) {
	t.Parallel()
	p := newCharParser("a # one\nb", Options{})
	p.GetToken()
	tok, state := p.Lookahead(p.NextTokenIndex())
	assert.Equal(t, 'b', tok.Value)
	assert.Len(t, state.Comments(), 1)
	assert.Equal(t, 1, state.PendingComments())
	assert.Empty(t, p.State().Comments())
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()
	p := newCharParser("abc # x\nde", Options{})
	p.GetToken()
	p.NextToken()
	p.UnexpectedDiagnostic(WithDescription(UnexpectedEOF()))

	tok, pos := p.GetToken(), p.GetPosition()
	count := p.State().DiagnosticCount()

	s := p.Save()
	p.Restore(s)
	assert.Equal(t, tok, p.GetToken())
	assert.Equal(t, pos, p.GetPosition())
	assert.Equal(t, count, p.State().DiagnosticCount())

	s = p.Save()
	p.NextToken()
	p.NextToken()
	p.UnexpectedDiagnostic()
	p.AddFilter(filterNothing{})
	p.MarkCorrupt()
	assert.Len(t, p.State().Comments(), 1)

	p.Restore(s)
	assert.Equal(t, tok, p.GetToken())
	assert.Equal(t, pos, p.GetPosition())
	assert.Equal(t, count, p.State().DiagnosticCount())
	assert.Empty(t, p.State().Filters())
	assert.Empty(t, p.State().Comments())
	assert.False(t, p.State().Corrupt())

	// the stream continues as if nothing happened
	assert.Equal(t, 'c', p.NextToken().Value)
	assert.Equal(t, 'd', p.NextToken().Value)
	assert.Len(t, p.State().Comments(), 1)
}

type filterNothing struct{}

func (filterNothing) Suppress(reporter.Diagnostic) bool { return false }

func TestRestoreForeignSnapshotPanics(t *testing.T) {
	t.Parallel()
	p1 := newCharParser("ab", Options{})
	p2 := newCharParser("ab", Options{})
	s := p1.Save()
	assert.PanicsWithValue(t, "bug: restoring a snapshot created by a different parser", func() {
		p2.Restore(s)
	})
}

func TestTry(t *testing.T) {
	t.Parallel()
	p := newCharParser("ab1", Options{})
	p.GetToken()

	ok := p.Try(func() bool {
		p.ExpectToken(letterToken)
		p.ExpectToken(letterToken)
		p.ExpectToken(letterToken) // fails on the digit
		return true
	})
	assert.False(t, ok)
	assert.Equal(t, 'a', p.GetToken().Value)
	assert.Zero(t, p.State().DiagnosticCount())

	ok = p.Try(func() bool {
		p.NextToken()
		return false
	})
	assert.False(t, ok)
	assert.Equal(t, 'a', p.GetToken().Value)

	ok = p.Try(func() bool {
		p.ExpectToken(letterToken)
		p.ExpectToken(letterToken)
		return true
	})
	assert.True(t, ok)
	assert.Equal(t, '1', p.GetToken().Value)
}

func TestEOFIsFinal(t *testing.T) {
	t.Parallel()
	p := newCharParser("a", Options{})
	assert.Equal(t, 'a', p.GetToken().Value)
	eof := p.NextToken()
	assert.Equal(t, Token[rune]{Type: EOF, Start: 1, End: 1}, eof)
	for i := 0; i < 3; i++ {
		assert.Equal(t, eof, p.NextToken())
		assert.Equal(t, eof, p.GetToken())
	}
	assert.Nil(t, p.Catch(p.Finalize))
}

func TestFinalizeRequiresEOF(t *testing.T) {
	t.Parallel()
	p := newCharParser("ab", Options{})
	p.GetToken()
	fatal := p.Catch(p.Finalize)
	require.NotNil(t, fatal)
	assert.True(t, fatal.Diagnostic.Fatal)
	assert.Equal(t, ExpectedEOF(), fatal.Diagnostic.Description)
	assert.Equal(t, "test.txt:1:1: expected end of file", fatal.Error())
}

func TestTokenizeAllStopsAtFatal(t *testing.T) {
	t.Parallel()
	p := newCharParser("ab!cd", Options{})
	tokens := p.TokenizeAll()
	require.Len(t, tokens, 3)
	assert.Equal(t, 'a', tokens[0].Value)
	assert.Equal(t, 'b', tokens[1].Value)
	assert.Equal(t, Token[rune]{Type: Invalid, Start: 2, End: 5}, tokens[2])

	diags := p.GetDiagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "unexpected character `!`", diags[0].Message)
	assert.Equal(t, 2, diags[0].Location.Start.Index)
	assert.True(t, diags[0].Fatal)
	assert.True(t, p.State().Corrupt())
}

func TestStuckTokenizerPanics(t *testing.T) {
	t.Parallel()
	p := New(Input{Input: "aaa"}, Hooks[rune, struct{}]{
		Tokenize: func(int) (Token[rune], bool) {
			return Token[rune]{Type: letterToken, Start: 0, End: 1, Value: 'a'}, true
		},
	}, Options{})
	p.GetToken()
	assert.PanicsWithValue(t,
		"bug: tokenizer returned letter[0:1] at the same position as the previous token letter[0:1]",
		func() { p.NextToken() })
}

func TestNextTokenWhileTokenizingPanics(t *testing.T) {
	t.Parallel()
	var p *Parser[rune, struct{}]
	p = New(Input{Input: "aaa"}, Hooks[rune, struct{}]{
		Tokenize: func(index int) (Token[rune], bool) {
			p.NextToken()
			return Token[rune]{Type: letterToken, Start: index, End: index + 1}, true
		},
	}, Options{})
	assert.PanicsWithValue(t, "bug: can't call NextToken while tokenizing", func() { p.GetToken() })

	p = New(Input{Input: "aaa"}, Hooks[rune, struct{}]{
		Tokenize: func(index int) (Token[rune], bool) {
			p.LookaheadToken(index + 1)
			return Token[rune]{Type: letterToken, Start: index, End: index + 1}, true
		},
	}, Options{})
	assert.PanicsWithValue(t, "bug: can't look ahead while tokenizing", func() { p.GetToken() })
}

func TestNonFatalPanicsPropagate(t *testing.T) {
	t.Parallel()
	p := newCharParser("a", Options{})
	assert.PanicsWithValue(t, "boom", func() {
		p.Catch(func() { panic("boom") })
	})
}

func TestIgnoreWhitespaceTokens(t *testing.T) {
	t.Parallel()
	var seen []int
	var p *Parser[rune, struct{}]
	p = New(Input{Input: " a \n\tb  "}, Hooks[rune, struct{}]{
		Tokenize: func(index int) (Token[rune], bool) {
			seen = append(seen, index)
			if p.Input()[index] == ' ' {
				return Token[rune]{}, false
			}
			return Token[rune]{Type: letterToken, Start: index, End: index + 1}, true
		},
	}, Options{IgnoreWhitespaceTokens: true})
	tokens := p.TokenizeAll()
	require.Len(t, tokens, 2)
	assert.Equal(t, []int{1, 5}, seen)
	assert.Empty(t, p.GetDiagnostics())
	assert.Equal(t, EOF, p.GetToken().Type)
}

type lexState struct {
	depth int
}

func TestTokenizeWithState(t *testing.T) {
	t.Parallel()
	input := "(()a)"
	p := New(Input{Input: input}, Hooks[rune, lexState]{
		TokenizeWithState: func(index int, st lexState) (Token[rune], lexState, bool) {
			switch input[index] {
			case '(':
				st.depth++
			case ')':
				st.depth--
			}
			return Token[rune]{Type: punctToken, Start: index, End: index + 1, Value: rune(st.depth)}, st, true
		},
	}, Options{})

	p.GetToken()
	assert.Equal(t, 1, p.Extra().depth)
	s := p.Save()
	p.NextToken()
	assert.Equal(t, 2, p.Extra().depth)
	next, state := p.Lookahead(p.NextTokenIndex())
	assert.Equal(t, rune(1), next.Value)
	assert.Equal(t, 1, state.Extra.depth)
	assert.Equal(t, 2, p.Extra().depth)
	p.Restore(s)
	assert.Equal(t, 1, p.Extra().depth)

	var depths []rune
	for _, tok := range p.TokenizeAll() {
		depths = append(depths, tok.Value)
	}
	assert.Equal(t, []rune{1, 2, 1, 1, 0}, depths)
	assert.Equal(t, 0, p.State().Extra.depth)
}

func TestOffsetPosition(t *testing.T) {
	t.Parallel()
	var p *Parser[rune, struct{}]
	p = New(Input{
		Path:           "package.json",
		Input:          "ab\nc",
		OffsetPosition: &ast.Position{Index: 10, Line: 3, Column: 4},
	}, Hooks[rune, struct{}]{
		Tokenize: func(index int) (Token[rune], bool) {
			if p.Input()[index] == '\n' {
				index++
			}
			return Token[rune]{Type: letterToken, Start: index, End: index + 1}, true
		},
	}, Options{})

	assert.Equal(t, ast.Position{Index: 11, Line: 3, Column: 5}, p.GetPositionFromIndex(1))
	assert.Equal(t, ast.Position{Index: 13, Line: 4, Column: 0}, p.GetPositionFromIndex(3))

	p.GetToken()
	assert.Equal(t, ast.Position{Index: 10, Line: 3, Column: 4}, p.GetPosition())
	d := p.CreateDiagnostic()
	assert.Equal(t, "unexpected token `letter`", d.Message)
	assert.Equal(t, "ab\nc", d.SourceText)
}
