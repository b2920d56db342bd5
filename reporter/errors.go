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

package reporter

import (
	"errors"
	"fmt"

	"github.com/kralicky/parsekit/ast"
)

// ErrInvalidSource is a sentinel error that is returned by parsing and
// compilation steps when one or more diagnostics are reported but the
// configured Reporter always returns nil.
var ErrInvalidSource = errors.New("parse failed: invalid source")

// ErrorWithPos is an error about a source file that adds information
// about the location in the file that caused the error.
type ErrorWithPos interface {
	error
	// GetPosition returns the source location that caused the underlying error.
	GetPosition() ast.SourceLocation
	// Unwrap returns the underlying error.
	Unwrap() error
}

// Error creates a new ErrorWithPos from the given error and source location.
func Error(loc ast.SourceLocation, err error) ErrorWithPos {
	return errorWithSourcePos{loc: loc, underlying: err}
}

// Errorf creates a new ErrorWithPos whose underlying error is created using the
// given message format and arguments (via fmt.Errorf).
func Errorf(loc ast.SourceLocation, format string, args ...interface{}) ErrorWithPos {
	return errorWithSourcePos{loc: loc, underlying: fmt.Errorf(format, args...)}
}

type errorWithSourcePos struct {
	underlying error
	loc        ast.SourceLocation
}

func (e errorWithSourcePos) Error() string {
	return fmt.Sprintf("%s: %v", e.loc, e.underlying)
}

func (e errorWithSourcePos) GetPosition() ast.SourceLocation {
	return e.loc
}

func (e errorWithSourcePos) Unwrap() error {
	return e.underlying
}

var (
	_ ErrorWithPos = errorWithSourcePos{}
	_ ErrorWithPos = Diagnostic{}
)
