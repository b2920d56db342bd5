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
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/reporter"
)

// Input describes the text a parser works on.
type Input struct {
	// Path of the file the input was read from, used in locations. May be
	// empty.
	Path string
	// Modification time of the file, stamped onto the root.
	Mtime time.Time
	// The text to parse.
	Input string
	// If not nil, Input is embedded in a larger document starting at this
	// position, and every position reported is relative to that document.
	OffsetPosition *ast.Position
	// The text of the whole document, for diagnostics that render source
	// context. Defaults to Input.
	SourceText string
}

// Hooks connect a grammar to the core. Exactly one of the functions must
// be set. They are called with the byte index to tokenize from and return
// the token found there, or false if no token can start at index, which
// raises a fatal diagnostic.
//
// While a hook runs the core is "tokenizing": the hook may register
// comments, add diagnostics and inspect the parser, but must not advance
// the stream, look ahead, save or restore.
type Hooks[V, S any] struct {
	Tokenize func(index int) (Token[V], bool)
	// TokenizeWithState threads the grammar's lexer state (State.Extra)
	// through tokenizing. It takes precedence over Tokenize.
	TokenizeWithState func(index int, state S) (Token[V], S, bool)
}

// Options configure a parser.
type Options struct {
	// If true, whitespace is skipped before the tokenize hook is called, so
	// the grammar never sees it.
	IgnoreWhitespaceTokens bool
	// Caps the number of diagnostics returned by GetDiagnostics. Zero
	// means no cap.
	MaxDiagnostics int
	// Filters applied to diagnostics when they are extracted, in addition
	// to any the grammar installs with AddFilter.
	Filters []reporter.Filter
	// Logger receives debug output. Defaults to discarding everything.
	Logger *slog.Logger
}

// Parser is the grammar-independent parsing engine. A grammar supplies a
// tokenize hook and drives the parser with GetToken, NextToken,
// LookaheadToken, EatToken, ExpectToken, Save and Restore, reporting
// problems with Unexpected and UnexpectedDiagnostic, and building nodes
// with FinishNode and FinishRoot.
//
// A Parser is used for a single parse of a single input and is not safe
// for concurrent use.
type Parser[V, S any] struct {
	path        string
	mtime       time.Time
	input       string
	sourceText  string
	length      int
	offsetIndex int

	hooks   Hooks[V, S]
	opts    Options
	logger  *slog.Logger
	tracker *ast.PositionTracker

	nextTokenIndex int
	currentToken   Token[V]
	prevToken      Token[V]
	currentPos     ast.Position
	state          State[S]
	eof            Token[V]

	// non-nil while a tokenize hook runs; the hook's view of the state
	tokenizing *State[S]
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// New creates a parser for the given input.
func New[V, S any](in Input, hooks Hooks[V, S], opts Options) *Parser[V, S] {
	if hooks.Tokenize == nil && hooks.TokenizeWithState == nil {
		panic("bug: parser requires a tokenize hook")
	}
	sourceText := in.SourceText
	if sourceText == "" {
		sourceText = in.Input
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger
	}
	p := &Parser[V, S]{
		path:       in.Path,
		mtime:      in.Mtime,
		input:      in.Input,
		sourceText: sourceText,
		length:     len(in.Input),
		hooks:      hooks,
		opts:       opts,
		logger:     logger.With("path", in.Path),
		tracker:    ast.NewPositionTracker(in.Input, in.OffsetPosition),
	}
	if in.OffsetPosition != nil {
		p.offsetIndex = in.OffsetPosition.Index
	}
	p.currentToken = Token[V]{Type: SOF}
	p.prevToken = p.currentToken
	p.eof = Token[V]{Type: EOF, Start: p.length, End: p.length}
	p.currentPos = p.tracker.PositionFromIndex(0)
	return p
}

func (p *Parser[V, S]) Path() string       { return p.path }
func (p *Parser[V, S]) Input() string      { return p.input }
func (p *Parser[V, S]) SourceText() string { return p.sourceText }
func (p *Parser[V, S]) Length() int        { return p.length }

// Logger returns the logger the parser was configured with.
func (p *Parser[V, S]) Logger() *slog.Logger {
	return p.logger
}

// State returns a copy of the committed state.
func (p *Parser[V, S]) State() State[S] {
	return p.state
}

// Extra returns the grammar's part of the active state: the state being
// built by a running tokenize hook, or else the committed state.
func (p *Parser[V, S]) Extra() *S {
	return &p.active().Extra
}

func (p *Parser[V, S]) active() *State[S] {
	if p.tokenizing != nil {
		return p.tokenizing
	}
	return &p.state
}

// IsEOF reports whether index is at or past the end of the input.
func (p *Parser[V, S]) IsEOF(index int) bool {
	return index >= p.length
}

// NextTokenIndex returns the index the next token will be tokenized from.
func (p *Parser[V, S]) NextTokenIndex() int {
	return p.nextTokenIndex
}

// CurrentToken returns the current token without starting the stream.
func (p *Parser[V, S]) CurrentToken() Token[V] {
	return p.currentToken
}

// PrevToken returns the token that was current before the current one.
func (p *Parser[V, S]) PrevToken() Token[V] {
	return p.prevToken
}

// EOFToken returns the synthetic end of file token. Tokenize hooks that
// reach the end of the input (for example after skipping a trailing
// comment) return it.
func (p *Parser[V, S]) EOFToken() Token[V] {
	return p.eof
}

// GetToken returns the current token. The first call tokenizes the first
// token of the input.
func (p *Parser[V, S]) GetToken() Token[V] {
	if p.currentToken.Type == SOF {
		p.NextToken()
	}
	return p.currentToken
}

// NextToken commits to the next token of the input and returns it. Once
// the current token is EOF, it keeps returning the same EOF token.
func (p *Parser[V, S]) NextToken() Token[V] {
	if p.tokenizing != nil {
		panic("bug: can't call NextToken while tokenizing")
	}
	if p.currentToken.Type == EOF {
		return p.currentToken
	}

	next, state := p.Lookahead(p.nextTokenIndex)
	if next.Type != EOF {
		if next.End == p.currentToken.End {
			panic(fmt.Sprintf("bug: tokenizer returned %s at the same position as the previous token %s", next, p.currentToken))
		}
		if next.End < p.currentToken.End {
			panic(fmt.Sprintf("bug: tokenizer returned %s which ends before the previous token %s", next, p.currentToken))
		}
	}

	p.currentPos = p.tracker.PositionFromIndex(next.Start)
	p.prevToken = p.currentToken
	p.currentToken = next
	p.nextTokenIndex = next.End
	p.state = state
	return next
}

// Lookahead tokenizes from index without committing to anything, and
// returns the token together with the state the stream would have after
// committing to it. The committed state of the parser is never changed.
func (p *Parser[V, S]) Lookahead(index int) (Token[V], State[S]) {
	if p.tokenizing != nil {
		panic("bug: can't look ahead while tokenizing")
	}
	if p.opts.IgnoreWhitespaceTokens {
		for index < p.length && isWhitespace(p.input[index]) {
			index++
		}
	}
	if p.IsEOF(index) {
		return p.eof, p.state
	}

	prevNextTokenIndex := p.nextTokenIndex
	state := p.state
	p.nextTokenIndex = index
	p.tokenizing = &state
	defer func() {
		p.tokenizing = nil
		p.nextTokenIndex = prevNextTokenIndex
	}()

	var tok Token[V]
	var ok bool
	if p.hooks.TokenizeWithState != nil {
		var extra S
		tok, extra, ok = p.hooks.TokenizeWithState(index, state.Extra)
		state.Extra = extra
	} else {
		tok, ok = p.hooks.Tokenize(index)
	}
	if !ok {
		panic(p.Unexpected(WithIndex(index)))
	}
	if tok.Type == EOF {
		return p.eof, state
	}
	if tok.Start < 0 || tok.End < tok.Start || tok.End > p.length {
		panic(fmt.Sprintf("bug: tokenizer returned %s which is outside of the input (len = %d)", tok, p.length))
	}
	return tok, state
}

// LookaheadToken returns the token at the given index, or at the next
// token index if none is given, without committing to it.
func (p *Parser[V, S]) LookaheadToken(index ...int) Token[V] {
	i := p.nextTokenIndex
	if len(index) > 0 {
		i = index[0]
	}
	tok, _ := p.Lookahead(i)
	return tok
}

// MatchToken reports whether the current token has type t.
func (p *Parser[V, S]) MatchToken(t TokenType) bool {
	return p.GetToken().Type == t
}

// EatToken consumes the current token if it has type t.
func (p *Parser[V, S]) EatToken(t TokenType) (Token[V], bool) {
	tok := p.GetToken()
	if tok.Type != t {
		return Token[V]{}, false
	}
	p.NextToken()
	return tok, true
}

// ExpectToken consumes the current token if it has type t, and otherwise
// raises a fatal diagnostic.
func (p *Parser[V, S]) ExpectToken(t TokenType) Token[V] {
	if tok, ok := p.EatToken(t); ok {
		return tok
	}
	tok := p.GetToken()
	panic(p.Unexpected(
		WithDescription(ExpectedToken(t, tok.Type)),
		WithToken(tok),
	))
}

// GetPosition returns the position of the start of the current token.
func (p *Parser[V, S]) GetPosition() ast.Position {
	return p.currentPos
}

// GetLastEndPosition returns the position just after the previous token,
// which is where a node built from the tokens consumed so far ends.
func (p *Parser[V, S]) GetLastEndPosition() ast.Position {
	return p.tracker.PositionFromIndex(p.prevToken.End)
}

// GetPositionFromIndex returns the position of a byte index of the input.
func (p *Parser[V, S]) GetPositionFromIndex(index int) ast.Position {
	return p.tracker.PositionFromIndex(index)
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
