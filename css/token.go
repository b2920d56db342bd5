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
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/parser"
	"github.com/kralicky/parsekit/reporter"
)

// Token types of the CSS grammar, after CSS Syntax Level 3. Comments are
// not tokens: the tokenizer registers them with the parser and skips them.
const (
	Whitespace  parser.TokenType = "Whitespace"
	Ident       parser.TokenType = "Ident"
	Function    parser.TokenType = "Function"
	AtKeyword   parser.TokenType = "AtKeyword"
	Hash        parser.TokenType = "Hash"
	String      parser.TokenType = "String"
	BadString   parser.TokenType = "BadString"
	URL         parser.TokenType = "URL"
	BadURL      parser.TokenType = "BadURL"
	Number      parser.TokenType = "Number"
	Percentage  parser.TokenType = "Percentage"
	Dimension   parser.TokenType = "Dimension"
	Delim       parser.TokenType = "Delim"
	Colon       parser.TokenType = "Colon"
	Semicolon   parser.TokenType = "Semicolon"
	Comma       parser.TokenType = "Comma"
	LeftSquare  parser.TokenType = "LeftSquare"
	RightSquare parser.TokenType = "RightSquare"
	LeftParen   parser.TokenType = "LeftParen"
	RightParen  parser.TokenType = "RightParen"
	LeftCurly   parser.TokenType = "LeftCurly"
	RightCurly  parser.TokenType = "RightCurly"
	CDO         parser.TokenType = "CDO"
	CDC         parser.TokenType = "CDC"
)

// Value is the payload of CSS tokens.
type Value struct {
	// Text is the unescaped name of an Ident, Function, AtKeyword or Hash,
	// or the contents of a String or URL.
	Text string
	// Number, Integer and Unit are set on Number, Percentage and Dimension
	// tokens.
	Number  float64
	Integer bool
	Unit    string
	// Delim is the character of a Delim token.
	Delim rune
	// ID is set on a Hash whose name would be a valid identifier.
	ID bool
}

// Token is a token of the CSS grammar.
type Token = parser.Token[Value]

// IgnorePragma names the pragma comment that suppresses diagnostics of a
// category, and the categories below it, on the line after the comment:
//
//	/* parsekit-ignore parse/css/unterminatedString */
const IgnorePragma = "ignore"

var punctuation = map[byte]parser.TokenType{
	':': Colon,
	';': Semicolon,
	',': Comma,
	'[': LeftSquare,
	']': RightSquare,
	'(': LeftParen,
	')': RightParen,
	'{': LeftCurly,
	'}': RightCurly,
}

func (c *cssParser) tokenize(index int) (Token, bool) {
	index = c.skipComments(index)
	input := c.p.Input()
	if index >= len(input) {
		return c.p.EOFToken(), true
	}
	ch, size := utf8.DecodeRuneInString(input[index:])
	if ch == utf8.RuneError && size == 1 {
		c.failEncoding(index)
	}

	switch {
	case isWhitespace(ch):
		end := index
		for end < len(input) && isWhitespace(rune(input[end])) {
			end++
		}
		return Token{Type: Whitespace, Start: index, End: end}, true
	case ch == '"' || ch == '\'':
		return c.consumeString(index, ch), true
	case isDigit(ch):
		return c.consumeNumeric(index), true
	case isNameStart(ch):
		return c.consumeIdentLike(index), true
	}
	if typ, ok := punctuation[input[index]]; ok {
		return Token{Type: typ, Start: index, End: index + 1}, true
	}

	switch ch {
	case '#':
		if index+1 < len(input) && (isName(c.runeAt(index+1)) || c.validEscape(index+1)) {
			id := c.startsIdent(index + 1)
			name, end := c.consumeName(index + 1)
			return Token{Type: Hash, Start: index, End: end, Value: Value{Text: name, ID: id}}, true
		}
	case '+', '.':
		if c.startsNumber(index) {
			return c.consumeNumeric(index), true
		}
	case '-':
		if c.startsNumber(index) {
			return c.consumeNumeric(index), true
		}
		if strings.HasPrefix(input[index:], "-->") {
			return Token{Type: CDC, Start: index, End: index + 3}, true
		}
		if c.startsIdent(index) {
			return c.consumeIdentLike(index), true
		}
	case '<':
		if strings.HasPrefix(input[index:], "<!--") {
			return Token{Type: CDO, Start: index, End: index + 4}, true
		}
	case '@':
		if c.startsIdent(index + 1) {
			name, end := c.consumeName(index + 1)
			return Token{Type: AtKeyword, Start: index, End: end, Value: Value{Text: name}}, true
		}
	case '\\':
		if c.validEscape(index) {
			return c.consumeIdentLike(index), true
		}
		c.p.UnexpectedDiagnostic(
			parser.WithDescription(invalidEscape()),
			parser.WithIndexRange(index, index+1),
		)
	}
	return Token{Type: Delim, Start: index, End: index + size, Value: Value{Delim: ch}}, true
}

// skipComments registers the comments starting at index and returns the
// index after them.
func (c *cssParser) skipComments(index int) int {
	input := c.p.Input()
	for strings.HasPrefix(input[index:], "/*") {
		end := len(input)
		if i := strings.Index(input[index+2:], "*/"); i >= 0 {
			end = index + 2 + i + 2
		} else {
			c.p.UnexpectedDiagnostic(
				parser.WithDescription(unterminatedComment()),
				parser.WithIndexRange(index, end),
			)
		}
		c.p.RegisterComment(ast.CommentBlock, input[index:end], index, end)
		c.maybeIgnore(input[index:end], end)
		index = end
	}
	return index
}

// maybeIgnore installs a line filter for an ignore comment.
func (c *cssParser) maybeIgnore(text string, end int) {
	name, category, ok := ast.ParsePragma(text)
	if !ok || name != IgnorePragma || category == "" {
		return
	}
	c.p.AddFilter(reporter.LineFilter{
		Category: reporter.Category(category),
		Line:     c.p.GetPositionFromIndex(end).Line + 1,
	})
}

func (c *cssParser) consumeString(index int, quote rune) Token {
	input := c.p.Input()
	var sb strings.Builder
	i := index + 1
	for {
		if i >= len(input) {
			c.p.UnexpectedDiagnostic(
				parser.WithDescription(unterminatedString()),
				parser.WithIndexRange(index, i),
			)
			return Token{Type: String, Start: index, End: i, Value: Value{Text: sb.String()}}
		}
		ch, size := utf8.DecodeRuneInString(input[i:])
		switch {
		case ch == utf8.RuneError && size == 1:
			c.failEncoding(i)
		case ch == quote:
			return Token{Type: String, Start: index, End: i + 1, Value: Value{Text: sb.String()}}
		case isNewline(ch):
			c.p.UnexpectedDiagnostic(
				parser.WithDescription(unterminatedString()),
				parser.WithIndexRange(index, i),
			)
			return Token{Type: BadString, Start: index, End: i, Value: Value{Text: sb.String()}}
		case ch == '\\':
			switch {
			case i+1 >= len(input):
				i++
			case isNewline(rune(input[i+1])):
				i = skipNewline(input, i+1)
			default:
				var r rune
				r, i = c.consumeEscape(i + 1)
				sb.WriteRune(r)
			}
			continue
		default:
			sb.WriteRune(ch)
		}
		i += size
	}
}

func (c *cssParser) consumeNumeric(index int) Token {
	input := c.p.Input()
	num, integer, end := consumeNumber(input, index)
	switch {
	case c.startsIdent(end):
		unit, unitEnd := c.consumeName(end)
		return Token{Type: Dimension, Start: index, End: unitEnd, Value: Value{Number: num, Integer: integer, Unit: unit}}
	case end < len(input) && input[end] == '%':
		return Token{Type: Percentage, Start: index, End: end + 1, Value: Value{Number: num, Integer: integer}}
	}
	return Token{Type: Number, Start: index, End: end, Value: Value{Number: num, Integer: integer}}
}

func consumeNumber(input string, index int) (num float64, integer bool, end int) {
	end = index
	if end < len(input) && (input[end] == '+' || input[end] == '-') {
		end++
	}
	end = skipDigits(input, end)
	integer = true
	if end+1 < len(input) && input[end] == '.' && isDigit(rune(input[end+1])) {
		end = skipDigits(input, end+1)
		integer = false
	}
	if end+1 < len(input) && (input[end] == 'e' || input[end] == 'E') {
		exp := end + 1
		if input[exp] == '+' || input[exp] == '-' {
			exp++
		}
		if exp < len(input) && isDigit(rune(input[exp])) {
			end = skipDigits(input, exp)
			integer = false
		}
	}
	num, err := strconv.ParseFloat(input[index:end], 64)
	if err != nil {
		// out of range; ParseFloat returns the nearest infinity
		integer = false
	}
	return num, integer, end
}

func skipDigits(input string, i int) int {
	for i < len(input) && isDigit(rune(input[i])) {
		i++
	}
	return i
}

func (c *cssParser) consumeIdentLike(index int) Token {
	input := c.p.Input()
	name, end := c.consumeName(index)
	if end >= len(input) || input[end] != '(' {
		return Token{Type: Ident, Start: index, End: end, Value: Value{Text: name}}
	}
	end++
	if !strings.EqualFold(name, "url") {
		return Token{Type: Function, Start: index, End: end, Value: Value{Text: name}}
	}
	i := end
	for i < len(input) && isWhitespace(rune(input[i])) {
		i++
	}
	if i < len(input) && (input[i] == '"' || input[i] == '\'') {
		// url("...") is an ordinary function taking a string
		return Token{Type: Function, Start: index, End: end, Value: Value{Text: name}}
	}
	return c.consumeURL(index, i)
}

// consumeURL consumes the rest of an unquoted url(...) token. The
// whitespace after the opening parenthesis has been skipped already.
func (c *cssParser) consumeURL(start, index int) Token {
	input := c.p.Input()
	var sb strings.Builder
	i := index
	for {
		if i >= len(input) {
			c.p.UnexpectedDiagnostic(
				parser.WithDescription(unterminatedURL()),
				parser.WithIndexRange(start, i),
			)
			return Token{Type: URL, Start: start, End: i, Value: Value{Text: sb.String()}}
		}
		ch, size := utf8.DecodeRuneInString(input[i:])
		switch {
		case ch == utf8.RuneError && size == 1:
			c.failEncoding(i)
		case ch == ')':
			return Token{Type: URL, Start: start, End: i + 1, Value: Value{Text: sb.String()}}
		case isWhitespace(ch):
			j := i
			for j < len(input) && isWhitespace(rune(input[j])) {
				j++
			}
			if j >= len(input) || input[j] == ')' {
				i = j
				continue
			}
			return c.consumeBadURL(start, j)
		case ch == '"' || ch == '\'' || ch == '(' || isNonPrintable(ch):
			return c.consumeBadURL(start, i)
		case ch == '\\':
			if !c.validEscape(i) {
				return c.consumeBadURL(start, i)
			}
			var r rune
			r, i = c.consumeEscape(i + 1)
			sb.WriteRune(r)
			continue
		default:
			sb.WriteRune(ch)
		}
		i += size
	}
}

func (c *cssParser) consumeBadURL(start, index int) Token {
	input := c.p.Input()
	i := index
	for i < len(input) {
		if input[i] == ')' {
			i++
			break
		}
		if c.validEscape(i) {
			_, i = c.consumeEscape(i + 1)
			continue
		}
		if c.runeAt(i) < 0 {
			c.failEncoding(i)
		}
		i++
	}
	c.p.UnexpectedDiagnostic(
		parser.WithDescription(badURL()),
		parser.WithIndexRange(start, i),
	)
	return Token{Type: BadURL, Start: start, End: i}
}

// consumeName consumes a run of name characters and escapes.
func (c *cssParser) consumeName(index int) (string, int) {
	input := c.p.Input()
	var sb strings.Builder
	i := index
	for i < len(input) {
		ch, size := utf8.DecodeRuneInString(input[i:])
		switch {
		case ch == utf8.RuneError && size == 1:
			return sb.String(), i
		case isName(ch):
			sb.WriteRune(ch)
			i += size
		case c.validEscape(i):
			var r rune
			r, i = c.consumeEscape(i + 1)
			sb.WriteRune(r)
		default:
			return sb.String(), i
		}
	}
	return sb.String(), i
}

// consumeEscape decodes the escape whose backslash is just before index.
func (c *cssParser) consumeEscape(index int) (rune, int) {
	input := c.p.Input()
	if index >= len(input) {
		return utf8.RuneError, index
	}
	if !isHexDigit(input[index]) {
		r, size := utf8.DecodeRuneInString(input[index:])
		if r == utf8.RuneError && size == 1 {
			c.failEncoding(index)
		}
		return r, index + size
	}
	var v rune
	i := index
	for i < len(input) && i-index < 6 && isHexDigit(input[i]) {
		v = v<<4 | hexDigit(input[i])
		i++
	}
	if i < len(input) && isWhitespace(rune(input[i])) {
		i = skipNewline(input, i)
	}
	if v == 0 || (v >= 0xD800 && v <= 0xDFFF) || v > utf8.MaxRune {
		v = utf8.RuneError
	}
	return v, i
}

// runeAt returns the rune at index, or -1 past the end of the input or
// where the input is not valid UTF-8.
func (c *cssParser) runeAt(index int) rune {
	input := c.p.Input()
	if index >= len(input) {
		return -1
	}
	r, size := utf8.DecodeRuneInString(input[index:])
	if r == utf8.RuneError && size == 1 {
		return -1
	}
	return r
}

// validEscape reports whether a backslash at index starts an escape.
func (c *cssParser) validEscape(index int) bool {
	input := c.p.Input()
	if index+1 >= len(input) || input[index] != '\\' {
		return false
	}
	next := c.runeAt(index + 1)
	return next >= 0 && !isNewline(next)
}

// failEncoding raises a fatal diagnostic for the byte at index, which
// does not start a valid UTF-8 sequence.
func (c *cssParser) failEncoding(index int) {
	panic(c.p.Unexpected(
		parser.WithDescription(invalidEncoding()),
		parser.WithIndexRange(index, index+1),
	))
}

// startsIdent reports whether an identifier starts at index.
func (c *cssParser) startsIdent(index int) bool {
	input := c.p.Input()
	if index >= len(input) {
		return false
	}
	switch ch := c.runeAt(index); {
	case ch == '-':
		next := c.runeAt(index + 1)
		return isNameStart(next) || next == '-' || c.validEscape(index+1)
	case isNameStart(ch):
		return true
	case ch == '\\':
		return c.validEscape(index)
	}
	return false
}

// startsNumber reports whether a number starts at index.
func (c *cssParser) startsNumber(index int) bool {
	input := c.p.Input()
	at := func(i int) byte {
		if i < len(input) {
			return input[i]
		}
		return 0
	}
	switch ch := at(index); {
	case ch == '+' || ch == '-':
		return isDigit(rune(at(index+1))) || (at(index+1) == '.' && isDigit(rune(at(index+2))))
	case ch == '.':
		return isDigit(rune(at(index + 1)))
	default:
		return isDigit(rune(ch))
	}
}

// skipNewline skips one whitespace character, treating CRLF as one.
func skipNewline(input string, i int) int {
	if strings.HasPrefix(input[i:], "\r\n") {
		return i + 2
	}
	return i + 1
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexDigit(c byte) rune {
	switch {
	case c >= 'a':
		return rune(c-'a') + 10
	case c >= 'A':
		return rune(c-'A') + 10
	}
	return rune(c - '0')
}

func isNameStart(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch >= utf8.RuneSelf
}

func isName(ch rune) bool {
	return isNameStart(ch) || isDigit(ch) || ch == '-'
}

func isNewline(ch rune) bool {
	return ch == '\n' || ch == '\r' || ch == '\f'
}

func isWhitespace(ch rune) bool {
	return isNewline(ch) || ch == ' ' || ch == '\t'
}

func isNonPrintable(ch rune) bool {
	return (ch >= 0 && ch <= 8) || ch == 0x0B || (ch >= 0x0E && ch <= 0x1F) || ch == 0x7F
}
