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

// Package lsp serves parse diagnostics to editors over the Language Server
// Protocol.
package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/kralicky/parsekit"
	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/parser"
)

const lsName = "parsekit"

// Server keeps the latest parse of every open document and publishes its
// diagnostics whenever the document changes.
type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string
	opts    parser.Options
	log     commonlog.Logger

	mu   sync.Mutex
	docs map[protocol.DocumentUri]*document
}

type document struct {
	path string
	text string
	root parser.Root
}

// NewServer creates a server that parses documents with the given options.
func NewServer(version string, opts parser.Options) *Server {
	s := &Server{
		version: version,
		opts:    opts,
		log:     commonlog.GetLogger(lsName + ".lsp"),
		docs:    map[protocol.DocumentUri]*document{},
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentHover:     s.textDocumentHover,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.update(ctx, params.TextDocument.URI, textChange.Text)
		}
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()
	s.publish(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.update(ctx, params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	s.mu.Lock()
	doc := s.docs[params.TextDocument.URI]
	s.mu.Unlock()
	if doc == nil || doc.root == nil {
		return nil, nil
	}

	index := byteIndex(doc.text, params.Position)
	var tracker ast.AncestorTracker
	var path []ast.Node
	err := ast.Inspect(doc.root, func(n ast.Node) bool {
		loc := n.Base().Loc
		if loc.Start.Index <= index && index < loc.End.Index {
			path = append(path[:0], tracker.Path()...)
		}
		return true
	}, tracker.AsWalkOptions()...)
	if err != nil || len(path) == 0 {
		return nil, err
	}

	names := make([]string, len(path))
	for i, n := range path {
		names[i] = nodeName(n)
	}
	innermost := path[len(path)-1].Base().Loc
	rng := lspRange(doc.text, innermost)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindPlainText,
			Value: fmt.Sprintf("%s\n%s", strings.Join(names, " > "), innermost),
		},
		Range: &rng,
	}, nil
}

// update parses text and publishes its diagnostics. Documents in unknown
// languages are ignored.
func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	path := uriToPath(uri)
	lang, ok := parsekit.LanguageForPath(path)
	if !ok {
		s.log.Debugf("ignoring %s: unknown language", path)
		return
	}
	root := lang.Parse(parser.Input{Path: path, Input: text}, s.opts)

	s.mu.Lock()
	s.docs[uri] = &document{path: path, text: text, root: root}
	s.mu.Unlock()

	diags := root.Root().Diagnostics
	out := make([]protocol.Diagnostic, len(diags))
	for i, d := range diags {
		message := d.Message
		if len(d.Advice) > 0 {
			message += "\n" + strings.Join(d.Advice, "\n")
		}
		out[i] = protocol.Diagnostic{
			Range:    lspRange(text, d.Location),
			Severity: severityPtr(protocol.DiagnosticSeverityError),
			Code:     &protocol.IntegerOrString{Value: string(d.Category)},
			Source:   stringPtr(lsName),
			Message:  message,
		}
	}
	s.log.Debugf("%s: %d diagnostics", path, len(out))
	s.publish(ctx, uri, out)
}

func (s *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, diags []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

func nodeName(n ast.Node) string {
	t := reflect.TypeOf(n)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func uriToPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err == nil {
			return filepath.Clean(parsed.Path)
		}
	}
	return uri
}

func boolPtr(b bool) *bool {
	return &b
}

func stringPtr(s string) *string {
	return &s
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

func severityPtr(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}
