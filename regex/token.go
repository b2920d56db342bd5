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
	"strings"
	"unicode/utf8"

	"github.com/kralicky/parsekit/parser"
)

// Token types of the regular expression grammar.
const (
	Text                 parser.TokenType = "Text"
	Pipe                 parser.TokenType = "Pipe"
	Star                 parser.TokenType = "Star"
	Plus                 parser.TokenType = "Plus"
	Question             parser.TokenType = "Question"
	LeftParen            parser.TokenType = "LeftParen"
	RightParen           parser.TokenType = "RightParen"
	LeftSquare           parser.TokenType = "LeftSquare"
	RightSquare          parser.TokenType = "RightSquare"
	LeftCurly            parser.TokenType = "LeftCurly"
	RightCurly           parser.TokenType = "RightCurly"
	Caret                parser.TokenType = "Caret"
	Dollar               parser.TokenType = "Dollar"
	Dot                  parser.TokenType = "Dot"
	Comma                parser.TokenType = "Comma"
	Minus                parser.TokenType = "Minus"
	CharacterClassEscape parser.TokenType = "CharacterClassEscape"
	WordBoundaryEscape   parser.TokenType = "WordBoundary"
	BackreferenceEscape  parser.TokenType = "Backreference"
)

// Value is the payload of every regex token. Char is the character the
// token stands for when used literally: the decoded character of a Text
// token, the class letter of a CharacterClassEscape ('d', 'W', ...) and
// the operator character of the others. Number is the group index of a
// Backreference.
type Value struct {
	Char    rune
	Escaped bool
	Number  int
}

// Token is a token of the regex grammar.
type Token = parser.Token[Value]

// lexState tracks whether the tokenizer is inside a character set, where
// almost every character is literal.
type lexState struct {
	inCharSet bool
}

var operators = map[rune]parser.TokenType{
	'|': Pipe,
	'*': Star,
	'+': Plus,
	'?': Question,
	'(': LeftParen,
	')': RightParen,
	'[': LeftSquare,
	']': RightSquare,
	'{': LeftCurly,
	'}': RightCurly,
	'^': Caret,
	'$': Dollar,
	'.': Dot,
	',': Comma,
}

func (r *regexParser) tokenize(index int, st lexState) (Token, lexState, bool) {
	input := r.p.Input()
	c, size := utf8.DecodeRuneInString(input[index:])
	if c == utf8.RuneError && size <= 1 {
		return Token{}, st, false
	}
	end := index + size
	if c == '\\' {
		return r.tokenizeEscape(index, st), st, true
	}

	if st.inCharSet {
		typ := Text
		switch c {
		case ']':
			typ = RightSquare
			st.inCharSet = false
		case '-':
			typ = Minus
		case '^':
			typ = Caret
		}
		return Token{Type: typ, Start: index, End: end, Value: Value{Char: c}}, st, true
	}

	typ, ok := operators[c]
	if !ok {
		typ = Text
	}
	if typ == LeftSquare {
		st.inCharSet = true
	}
	return Token{Type: typ, Start: index, End: end, Value: Value{Char: c}}, st, true
}

func (r *regexParser) tokenizeEscape(index int, st lexState) Token {
	input := r.p.Input()
	if index+1 >= len(input) {
		panic(r.p.Unexpected(
			parser.WithDescription(danglingBackslash()),
			parser.WithIndexRange(index, index+1),
		))
	}
	c, size := utf8.DecodeRuneInString(input[index+1:])
	end := index + 1 + size
	text := func(ch rune, end int) Token {
		return Token{Type: Text, Start: index, End: end, Value: Value{Char: ch, Escaped: true}}
	}

	switch c {
	case 'd', 'D', 'w', 'W', 's', 'S':
		return Token{Type: CharacterClassEscape, Start: index, End: end, Value: Value{Char: c, Escaped: true}}
	case 'b':
		if st.inCharSet {
			return text('\b', end)
		}
		return Token{Type: WordBoundaryEscape, Start: index, End: end, Value: Value{Char: c, Escaped: true}}
	case 'B':
		if !st.inCharSet {
			return Token{Type: WordBoundaryEscape, Start: index, End: end, Value: Value{Char: c, Escaped: true}}
		}
	case 'n':
		return text('\n', end)
	case 'r':
		return text('\r', end)
	case 't':
		return text('\t', end)
	case 'f':
		return text('\f', end)
	case 'v':
		return text('\v', end)
	case '0':
		return text(0, end)
	case 'c':
		if end < len(input) && isASCIILetter(input[end]) {
			return text(rune(input[end])%32, end+1)
		}
	case 'x':
		if v, ok := hexValue(input, end, 2); ok {
			return text(v, end+2)
		}
	case 'u':
		if end < len(input) && input[end] == '{' {
			if closing := strings.IndexByte(input[end:], '}'); closing > 1 {
				if v, ok := hexValue(input, end+1, closing-1); ok && v <= utf8.MaxRune {
					return text(v, end+closing+1)
				}
			}
		} else if v, ok := hexValue(input, end, 4); ok {
			return text(v, end+4)
		}
	}

	if c >= '1' && c <= '9' && !st.inCharSet {
		n := 0
		for end = index + 1; end < len(input) && isDigit(input[end]); end++ {
			if n < 1<<20 {
				n = n*10 + int(input[end]-'0')
			}
		}
		return Token{Type: BackreferenceEscape, Start: index, End: end, Value: Value{Char: c, Escaped: true, Number: n}}
	}
	return text(c, end)
}

func hexValue(input string, start, n int) (rune, bool) {
	if n <= 0 || start+n > len(input) {
		return 0, false
	}
	var v rune
	for i := start; i < start+n; i++ {
		c := input[i]
		switch {
		case c >= '0' && c <= '9':
			v = v<<4 | rune(c-'0')
		case c >= 'a' && c <= 'f':
			v = v<<4 | rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			v = v<<4 | rune(c-'A'+10)
		default:
			return 0, false
		}
		if v > utf8.MaxRune {
			return 0, false
		}
	}
	return v, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
