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
	"reflect"

	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/reporter"
)

// TokenInfo describes a token independently of its grammar, for tools
// that display token streams.
type TokenInfo struct {
	Type TokenType          `json:"type"`
	Loc  ast.SourceLocation `json:"-"`
	Text string             `json:"text"`
	// Value is the token's payload, or nil for tokens without one.
	Value any `json:"value,omitempty"`
}

// DescribeTokens returns a TokenInfo for each of the given tokens, which
// must have been produced by p.
func DescribeTokens[V, S any](p *Parser[V, S], tokens []Token[V]) []TokenInfo {
	out := make([]TokenInfo, len(tokens))
	for i, tok := range tokens {
		info := TokenInfo{
			Type: tok.Type,
			Loc: ast.NewSourceLocation(p.path,
				p.tracker.PositionFromIndex(tok.Start),
				p.tracker.PositionFromIndex(tok.End)),
			Text: p.input[tok.Start:tok.End],
		}
		if v := reflect.ValueOf(tok.Value); v.IsValid() && !v.IsZero() {
			info.Value = tok.Value
		}
		out[i] = info
	}
	return out
}

// Report passes the diagnostics of a finished root to h. It returns the
// handler's error, which is reporter.ErrInvalidSource if any diagnostics
// were reported and the handler's reporter accepted all of them.
func Report(root Root, h *reporter.Handler) error {
	if err := h.HandleDiagnostics(root.Root().Diagnostics); err != nil {
		return err
	}
	return h.Error()
}
