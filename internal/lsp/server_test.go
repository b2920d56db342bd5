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

package lsp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/parser"
	"github.com/kralicky/parsekit/regex"
)

type notifications struct {
	mu     sync.Mutex
	params []protocol.PublishDiagnosticsParams
}

func (n *notifications) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method != protocol.ServerTextDocumentPublishDiagnostics {
				return
			}
			n.mu.Lock()
			defer n.mu.Unlock()
			n.params = append(n.params, params.(protocol.PublishDiagnosticsParams))
		},
	}
}

func (n *notifications) last(t *testing.T) protocol.PublishDiagnosticsParams {
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.params)
	return n.params[len(n.params)-1]
}

func TestPublishDiagnostics(t *testing.T) {
	t.Parallel()
	s := NewServer("test", parser.Options{})
	var n notifications
	ctx := n.context()
	uri := "file:///work/p.regex"

	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "regex", Text: "(ab"},
	})
	require.NoError(t, err)
	published := n.last(t)
	assert.Equal(t, uri, published.URI)
	require.Len(t, published.Diagnostics, 1)
	d := published.Diagnostics[0]
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 3},
	}, d.Range)
	require.NotNil(t, d.Code)
	assert.Equal(t, string(regex.CategoryUnclosedGroup), d.Code.Value)
	require.NotNil(t, d.Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)

	err = s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "(ab)"}},
	})
	require.NoError(t, err)
	assert.Empty(t, n.last(t).Diagnostics)

	err = s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	assert.NotNil(t, n.last(t).Diagnostics)
	assert.Empty(t, n.last(t).Diagnostics)
}

func TestUnknownLanguageIgnored(t *testing.T) {
	t.Parallel()
	s := NewServer("test", parser.Options{})
	var n notifications
	err := s.textDocumentDidOpen(n.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///notes.txt", Text: "("},
	})
	require.NoError(t, err)
	assert.Empty(t, n.params)
}

func TestHover(t *testing.T) {
	t.Parallel()
	s := NewServer("test", parser.Options{})
	var n notifications
	uri := "file:///work/site.css"
	err := s.textDocumentDidOpen(n.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "a {\n  color: red\n}"},
	})
	require.NoError(t, err)

	hover, err := s.textDocumentHover(n.context(), &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 1, Character: 10},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)
	content, ok := hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Contains(t, content.Value, "Stylesheet > QualifiedRule > Block > Declaration > IdentValue")
	require.NotNil(t, hover.Range)
	assert.Equal(t, protocol.Position{Line: 1, Character: 9}, hover.Range.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 12}, hover.Range.End)

	hover, err = s.textDocumentHover(n.context(), &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/other.css"},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, hover)
}

func TestPositionConversion(t *testing.T) {
	t.Parallel()
	text := "a\U0001F600b\nc"
	tracker := ast.NewPositionTracker(text, nil)

	b := tracker.PositionFromIndex(5)
	assert.Equal(t, protocol.Position{Line: 0, Character: 3}, lspPosition(text, b))
	c := tracker.PositionFromIndex(7)
	assert.Equal(t, protocol.Position{Line: 1, Character: 0}, lspPosition(text, c))
	assert.Equal(t, protocol.Position{}, lspPosition(text, ast.Position{}))

	testCases := map[string]struct {
		pos  protocol.Position
		want int
	}{
		"start":            {pos: protocol.Position{}, want: 0},
		"after surrogates": {pos: protocol.Position{Line: 0, Character: 3}, want: 5},
		"second line":      {pos: protocol.Position{Line: 1, Character: 0}, want: 7},
		"past line end":    {pos: protocol.Position{Line: 0, Character: 99}, want: 6},
		"past last line":   {pos: protocol.Position{Line: 5, Character: 0}, want: len(text)},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, byteIndex(text, tc.pos))
		})
	}
}
