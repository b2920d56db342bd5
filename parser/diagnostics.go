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
	"unicode/utf8"

	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/reporter"
)

// FatalError carries a diagnostic that aborts the current parse attempt.
// Parsers raise it with panic and it is recovered by Catch, Try,
// TokenizeAll and ParseRoot; no other value is ever recovered.
type FatalError struct {
	Diagnostic reporter.Diagnostic
}

func (e *FatalError) Error() string {
	return e.Diagnostic.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Diagnostic
}

// Descriptions used by the core.

func UnexpectedToken(t TokenType) reporter.Description {
	return reporter.Description{
		Category: reporter.CategoryUnexpectedToken,
		Message:  fmt.Sprintf("unexpected token `%s`", t),
	}
}

func UnexpectedEOF() reporter.Description {
	return reporter.Description{
		Category: reporter.CategoryUnexpectedEOF,
		Message:  "unexpected end of file",
	}
}

func UnexpectedCharacter(r rune) reporter.Description {
	return reporter.Description{
		Category: reporter.CategoryUnexpectedCharacter,
		Message:  fmt.Sprintf("unexpected character `%c`", r),
	}
}

func ExpectedToken(expected, found TokenType) reporter.Description {
	return reporter.Description{
		Category: reporter.CategoryExpectedToken,
		Message:  fmt.Sprintf("expected `%s` but found `%s`", expected, found),
	}
}

func ExpectedEOF() reporter.Description {
	return reporter.Description{
		Category: reporter.CategoryExpectedEOF,
		Message:  "expected end of file",
	}
}

// DiagnosticOption describes a diagnostic being created. When more than
// one option sets the location, the first of these wins, whatever order
// they are given in: WithLocation, WithToken, WithIndexRange/WithIndex,
// WithStart/WithEnd, WithLoc. Without any of them the diagnostic spans
// from the start of the current token to the end of the previous one.
type DiagnosticOption func(*diagnosticOptions)

type diagnosticOptions struct {
	description *reporter.Description
	location    *ast.SourceLocation
	token       *[2]int
	startIndex  *int
	endIndex    *int
	start       *ast.Position
	end         *ast.Position
	loc         *ast.SourceLocation
}

// WithDescription sets what the diagnostic says. Without it, a message
// is derived from what is found where the diagnostic starts.
func WithDescription(d reporter.Description) DiagnosticOption {
	return func(o *diagnosticOptions) {
		o.description = &d
	}
}

// WithLocation sets the complete location, file name included.
func WithLocation(loc ast.SourceLocation) DiagnosticOption {
	return func(o *diagnosticOptions) {
		o.location = &loc
	}
}

// WithToken places the diagnostic on a token.
func WithToken[V any](tok Token[V]) DiagnosticOption {
	return func(o *diagnosticOptions) {
		o.token = &[2]int{tok.Start, tok.End}
	}
}

// WithIndexRange places the diagnostic on a byte range of the input.
func WithIndexRange(start, end int) DiagnosticOption {
	return func(o *diagnosticOptions) {
		o.startIndex = &start
		o.endIndex = &end
	}
}

// WithIndex places the diagnostic at a single byte index of the input.
func WithIndex(index int) DiagnosticOption {
	return WithIndexRange(index, index)
}

// WithStart sets the start position. Without WithEnd, the diagnostic is
// empty.
func WithStart(pos ast.Position) DiagnosticOption {
	return func(o *diagnosticOptions) {
		o.start = &pos
	}
}

// WithEnd sets the end position. Without WithStart, the diagnostic is
// empty.
func WithEnd(pos ast.Position) DiagnosticOption {
	return func(o *diagnosticOptions) {
		o.end = &pos
	}
}

// WithLoc places the diagnostic on the location of a node.
func WithLoc(loc ast.SourceLocation) DiagnosticOption {
	return func(o *diagnosticOptions) {
		o.loc = &loc
	}
}

// CreateDiagnostic builds a diagnostic without raising or collecting it.
func (p *Parser[V, S]) CreateDiagnostic(opts ...DiagnosticOption) reporter.Diagnostic {
	var o diagnosticOptions
	for _, opt := range opts {
		opt(&o)
	}

	filename := p.path
	var start, end ast.Position
	switch {
	case o.location != nil:
		filename = o.location.Filename
		start, end = o.location.Start, o.location.End
	case o.token != nil:
		start = p.tracker.PositionFromIndex(o.token[0])
		end = p.tracker.PositionFromIndex(o.token[1])
	case o.startIndex != nil || o.endIndex != nil:
		startIndex, endIndex := o.startIndex, o.endIndex
		if startIndex == nil {
			startIndex = endIndex
		}
		if endIndex == nil {
			endIndex = startIndex
		}
		start = p.tracker.PositionFromIndex(*startIndex)
		end = p.tracker.PositionFromIndex(*endIndex)
	case o.start != nil || o.end != nil:
		s, e := o.start, o.end
		if s == nil {
			s = e
		}
		if e == nil {
			e = s
		}
		start, end = *s, *e
	case o.loc != nil:
		start, end = o.loc.Start, o.loc.End
	default:
		start = p.GetPosition()
		end = p.GetLastEndPosition()
	}
	if end.Before(start) {
		end = start
	}

	var desc reporter.Description
	if o.description != nil {
		desc = *o.description
	} else {
		desc = p.describeAt(start.Index - p.offsetIndex)
	}

	return reporter.Diagnostic{
		Description: desc,
		Location:    ast.SourceLocation{Filename: filename, Start: start, End: end},
		SourceText:  p.sourceText,
	}
}

func (p *Parser[V, S]) describeAt(index int) reporter.Description {
	tok := p.currentToken
	switch {
	case tok.Type != SOF && tok.Type != EOF && index == tok.Start:
		return UnexpectedToken(tok.Type)
	case index < 0 || p.IsEOF(index):
		return UnexpectedEOF()
	default:
		r, _ := utf8.DecodeRuneInString(p.input[index:])
		return UnexpectedCharacter(r)
	}
}

// Unexpected creates a fatal diagnostic. The caller raises it with panic,
// which abandons the current parse attempt up to the nearest Catch:
//
//	panic(p.Unexpected(parser.WithDescription(unterminatedString)))
func (p *Parser[V, S]) Unexpected(opts ...DiagnosticOption) *FatalError {
	d := p.CreateDiagnostic(opts...)
	d.Fatal = true
	return &FatalError{Diagnostic: d}
}

// UnexpectedDiagnostic creates a diagnostic and collects it. Parsing
// continues; the caller substitutes a best-effort node or value.
func (p *Parser[V, S]) UnexpectedDiagnostic(opts ...DiagnosticOption) reporter.Diagnostic {
	d := p.CreateDiagnostic(opts...)
	p.AddDiagnostic(d)
	return d
}

// AddDiagnostic collects d.
func (p *Parser[V, S]) AddDiagnostic(d reporter.Diagnostic) {
	st := p.active()
	st.diagnostics = st.diagnostics.Push(d)
}

// AddFilter installs a filter applied when diagnostics are extracted.
// Like diagnostics, filters are part of the state and are rolled back by
// Restore.
func (p *Parser[V, S]) AddFilter(f reporter.Filter) {
	st := p.active()
	st.filters = st.filters.Push(f)
}

// MarkCorrupt flags the parse result as not structurally trustworthy.
func (p *Parser[V, S]) MarkCorrupt() {
	p.active().corrupt = true
}

// GetDiagnostics returns the collected diagnostics after applying the
// configured and installed filters, removing duplicates and capping them
// according to Options.MaxDiagnostics. The raw diagnostics are kept, so
// calling this again gives the same result.
func (p *Parser[V, S]) GetDiagnostics() []reporter.Diagnostic {
	filters := append(p.opts.Filters[:len(p.opts.Filters):len(p.opts.Filters)], p.state.filters.Slice()...)
	policy := reporter.Policy{
		Filters:        filters,
		MaxDiagnostics: p.opts.MaxDiagnostics,
	}
	return policy.Collect(p.state.diagnostics.Slice())
}

// Catch runs fn and returns the fatal diagnostic it raised, if any. Any
// other panic is propagated.
func (p *Parser[V, S]) Catch(fn func()) (fatal *FatalError) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*FatalError)
			if !ok {
				panic(r)
			}
			fatal = fe
		}
	}()
	fn()
	return nil
}

// recordFatal keeps a caught fatal diagnostic and marks the parse corrupt.
func (p *Parser[V, S]) recordFatal(fatal *FatalError) {
	p.logger.Debug("parse aborted by fatal diagnostic",
		"category", fatal.Diagnostic.Category,
		"message", fatal.Diagnostic.Message,
		"location", fatal.Diagnostic.Location.String(),
	)
	p.state.diagnostics = p.state.diagnostics.Push(fatal.Diagnostic)
	p.state.corrupt = true
}
