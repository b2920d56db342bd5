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
	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/internal/persist"
	"github.com/kralicky/parsekit/reporter"
)

// State is everything about a parse that a snapshot rolls back: collected
// diagnostics, diagnostic filters installed by the grammar, scanned
// comments and those not yet attached to a node, the corrupt flag, and
// the grammar's own lexer state in Extra.
//
// State is a value. Its collections share structure between copies, so
// copying a State is cheap and each copy can grow independently. Extra
// should be a value type too; if it holds slices or maps the grammar must
// not mutate them in place.
type State[S any] struct {
	diagnostics persist.List[reporter.Diagnostic]
	filters     persist.List[reporter.Filter]
	comments    persist.List[ast.Comment]
	// comments that are not attached yet. Comments on the same line as the
	// end of the previous token go to trailing, the others to leading.
	leading  persist.List[ast.Comment]
	trailing persist.List[ast.Comment]
	corrupt  bool

	Extra S
}

// Diagnostics returns the raw diagnostics collected so far, unfiltered,
// in the order they were raised.
func (s State[S]) Diagnostics() []reporter.Diagnostic {
	return s.diagnostics.Slice()
}

// DiagnosticCount returns the number of raw diagnostics.
func (s State[S]) DiagnosticCount() int {
	return s.diagnostics.Len()
}

// Filters returns the filters installed by the grammar.
func (s State[S]) Filters() []reporter.Filter {
	return s.filters.Slice()
}

// Comments returns every comment registered so far, indexed by ID.
func (s State[S]) Comments() ast.Comments {
	return s.comments.Slice()
}

// PendingComments returns the number of comments not yet attached to a node.
func (s State[S]) PendingComments() int {
	return s.leading.Len() + s.trailing.Len()
}

// Corrupt reports whether a fatal diagnostic was recorded.
func (s State[S]) Corrupt() bool {
	return s.corrupt
}
