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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/reporter"
)

func TestDiagnosticLocation(t *testing.T) {
	t.Parallel()
	pos := func(p *Parser[rune, struct{}], i int) ast.Position {
		return p.GetPositionFromIndex(i)
	}
	testCases := map[string]struct {
		opts       func(p *Parser[rune, struct{}]) []DiagnosticOption
		filename   string
		start, end int
		message    string
	}{
		"fallback": {
			opts:  func(*Parser[rune, struct{}]) []DiagnosticOption { return nil },
			start: 1, end: 1,
			message: "unexpected token `letter`",
		},
		"index_range": {
			opts: func(*Parser[rune, struct{}]) []DiagnosticOption {
				return []DiagnosticOption{WithIndexRange(3, 5)}
			},
			start: 3, end: 5,
			message: "unexpected character `c`",
		},
		"index_at_eof": {
			opts: func(*Parser[rune, struct{}]) []DiagnosticOption {
				return []DiagnosticOption{WithIndex(5)}
			},
			start: 5, end: 5,
			message: "unexpected end of file",
		},
		"reversed_range_is_clamped": {
			opts: func(*Parser[rune, struct{}]) []DiagnosticOption {
				return []DiagnosticOption{WithIndexRange(4, 2)}
			},
			start: 4, end: 4,
			message: "unexpected character `d`",
		},
		"token_beats_index": {
			opts: func(*Parser[rune, struct{}]) []DiagnosticOption {
				return []DiagnosticOption{
					WithIndexRange(3, 5),
					WithToken(Token[rune]{Type: letterToken, Start: 1, End: 2}),
				}
			},
			start: 1, end: 2,
			message: "unexpected token `letter`",
		},
		"location_beats_token": {
			opts: func(p *Parser[rune, struct{}]) []DiagnosticOption {
				return []DiagnosticOption{
					WithToken(Token[rune]{Type: letterToken, Start: 1, End: 2}),
					WithLocation(ast.SourceLocation{Filename: "other.txt", Start: pos(p, 0), End: pos(p, 2)}),
				}
			},
			filename: "other.txt",
			start:    0, end: 2,
			message: "unexpected character `a`",
		},
		"index_beats_positions": {
			opts: func(p *Parser[rune, struct{}]) []DiagnosticOption {
				return []DiagnosticOption{WithStart(pos(p, 0)), WithEnd(pos(p, 1)), WithIndex(4)}
			},
			start: 4, end: 4,
			message: "unexpected character `d`",
		},
		"start_only": {
			opts: func(p *Parser[rune, struct{}]) []DiagnosticOption {
				return []DiagnosticOption{WithStart(pos(p, 3))}
			},
			start: 3, end: 3,
			message: "unexpected character `c`",
		},
		"positions_beat_loc": {
			opts: func(p *Parser[rune, struct{}]) []DiagnosticOption {
				return []DiagnosticOption{
					WithLoc(ast.SourceLocation{Start: pos(p, 0), End: pos(p, 5)}),
					WithStart(pos(p, 3)), WithEnd(pos(p, 4)),
				}
			},
			start: 3, end: 4,
			message: "unexpected character `c`",
		},
		"loc": {
			opts: func(p *Parser[rune, struct{}]) []DiagnosticOption {
				return []DiagnosticOption{WithLoc(ast.SourceLocation{Start: pos(p, 0), End: pos(p, 5)})}
			},
			start: 0, end: 5,
			message: "unexpected character `a`",
		},
		"description": {
			opts: func(*Parser[rune, struct{}]) []DiagnosticOption {
				return []DiagnosticOption{WithDescription(ExpectedToken(digitToken, letterToken))}
			},
			start: 1, end: 1,
			message: "expected `digit` but found `letter`",
		},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p := newCharParser("ab\ncd", Options{})
			p.GetToken()
			p.NextToken()

			d := p.CreateDiagnostic(tc.opts(p)...)
			filename := tc.filename
			if filename == "" {
				filename = "test.txt"
			}
			assert.Equal(t, filename, d.Location.Filename)
			assert.Equal(t, tc.start, d.Location.Start.Index)
			assert.Equal(t, tc.end, d.Location.End.Index)
			assert.Equal(t, tc.message, d.Message)
			assert.False(t, d.Fatal)
			assert.Zero(t, p.State().DiagnosticCount())
		})
	}
}

func TestDiagnosticLines(t *testing.T) {
	t.Parallel()
	p := newCharParser("ab\ncd", Options{})
	p.GetToken()
	d := p.UnexpectedDiagnostic(WithIndexRange(1, 4))
	assert.Equal(t, ast.Position{Index: 1, Line: 1, Column: 1}, d.Location.Start)
	assert.Equal(t, ast.Position{Index: 4, Line: 2, Column: 1}, d.Location.End)
	assert.Equal(t, "test.txt:1:2-2:2: unexpected character `b`", d.Error())
	assert.Equal(t, 1, p.State().DiagnosticCount())
}

func TestUnexpectedIsFatal(t *testing.T) {
	t.Parallel()
	p := newCharParser("a", Options{})
	p.GetToken()
	p.NextToken()
	fatal := p.Catch(func() {
		panic(p.Unexpected())
	})
	require.NotNil(t, fatal)
	assert.True(t, fatal.Diagnostic.Fatal)
	assert.Equal(t, reporter.CategoryUnexpectedEOF, fatal.Diagnostic.Category)

	var d reporter.Diagnostic
	require.True(t, errors.As(error(fatal), &d))
	var withPos reporter.ErrorWithPos
	require.True(t, errors.As(error(fatal), &withPos))
	assert.Equal(t, 1, withPos.GetPosition().Start.Index)

	// raising doesn't collect
	assert.Zero(t, p.State().DiagnosticCount())
}

func TestExpectToken(t *testing.T) {
	t.Parallel()
	p := newCharParser("a1", Options{})
	assert.Equal(t, 'a', p.ExpectToken(letterToken).Value)

	_, ok := p.EatToken(letterToken)
	assert.False(t, ok)

	fatal := p.Catch(func() { p.ExpectToken(letterToken) })
	require.NotNil(t, fatal)
	assert.Equal(t, ExpectedToken(letterToken, digitToken), fatal.Diagnostic.Description)
	assert.Equal(t, 1, fatal.Diagnostic.Location.Start.Index)
	assert.Equal(t, 2, fatal.Diagnostic.Location.End.Index)
	assert.Equal(t, '1', p.GetToken().Value)
}

func TestGetDiagnostics(t *testing.T) {
	t.Parallel()
	desc := func(c reporter.Category) DiagnosticOption {
		return WithDescription(reporter.Description{Category: c, Message: string(c)})
	}
	newParser := func(opts Options) *Parser[rune, struct{}] {
		p := newCharParser("abc\ndef\nghi", opts)
		p.UnexpectedDiagnostic(desc("parse/test/one"), WithIndex(0))
		p.UnexpectedDiagnostic(desc("parse/test/one"), WithIndex(0)) // duplicate
		p.UnexpectedDiagnostic(desc("parse/test/hidden/two"), WithIndex(1))
		p.UnexpectedDiagnostic(desc("parse/test/three"), WithIndex(4))
		p.UnexpectedDiagnostic(desc("parse/test/three"), WithIndex(5))
		p.UnexpectedDiagnostic(desc("parse/test/four"), WithIndex(8))
		return p
	}
	messages := func(diags []reporter.Diagnostic) []string {
		var out []string
		for _, d := range diags {
			out = append(out, d.Message)
		}
		return out
	}

	p := newParser(Options{})
	assert.Equal(t, []string{
		"parse/test/one", "parse/test/hidden/two", "parse/test/three", "parse/test/three", "parse/test/four",
	}, messages(p.GetDiagnostics()))
	assert.Equal(t, 6, p.State().DiagnosticCount())

	p = newParser(Options{Filters: []reporter.Filter{reporter.NewCategoryFilter("parse/test/hidden")}})
	p.AddFilter(reporter.LineFilter{Category: "parse/test", Line: 2})
	assert.Equal(t, []string{"parse/test/one", "parse/test/four"}, messages(p.GetDiagnostics()))
	// extracting twice gives the same result
	assert.Equal(t, []string{"parse/test/one", "parse/test/four"}, messages(p.GetDiagnostics()))

	p = newParser(Options{MaxDiagnostics: 2})
	assert.Equal(t, []string{"parse/test/one", "parse/test/hidden/two"}, messages(p.GetDiagnostics()))
}

func TestOnlyFirstFatalIsReported(t *testing.T) {
	t.Parallel()
	p := newCharParser("ab", Options{})
	p.AddDiagnostic(p.Unexpected(WithIndex(0)).Diagnostic)
	p.AddDiagnostic(p.Unexpected(WithIndex(1)).Diagnostic)
	p.UnexpectedDiagnostic(WithIndex(2))
	diags := p.GetDiagnostics()
	require.Len(t, diags, 2)
	assert.True(t, diags[0].Fatal)
	assert.Equal(t, 0, diags[0].Location.Start.Index)
	assert.False(t, diags[1].Fatal)
}
