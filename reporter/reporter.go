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

// Package reporter contains the types used for reporting diagnostics from
// parsers built on the parser core, and the handler hosts use to gather
// them across many files.
package reporter

import (
	"sync"

	"github.com/kralicky/parsekit/ast"
)

// Reporter is responsible for reporting diagnostics. Hosts that parse
// files supply one to decide whether a reported error aborts the whole
// operation.
type Reporter interface {
	// Error is called when the given error is encountered and will result
	// in the operation failing. If the returned error is not nil, the
	// operation aborts immediately with it. If it returns nil, the
	// operation continues, so more errors can be reported, and finally
	// fails with ErrInvalidSource.
	Error(ErrorWithPos) error
	// Warning is called when the given problem is encountered that is
	// not fatal to the operation.
	Warning(ErrorWithPos)
}

// ErrorReporter is a function that handles errors, see Reporter.Error.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter is a function that handles warnings, see Reporter.Warning.
type WarningReporter func(err ErrorWithPos)

// NewReporter creates a new reporter that invokes the given functions on
// error or warning. Either may be nil; a nil error reporter keeps going on
// every error, a nil warning reporter drops warnings.
func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	if errs == nil {
		errs = func(ErrorWithPos) error { return nil }
	}
	if warnings == nil {
		warnings = func(ErrorWithPos) {}
	}
	return reporterFuncs{errs: errs, warnings: warnings}
}

type reporterFuncs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) error {
	return r.errs(err)
}

func (r reporterFuncs) Warning(err ErrorWithPos) {
	r.warnings(err)
}

// Handler is used by hosts to report diagnostics. It is safe for
// concurrent use and remembers the first error returned by its Reporter.
type Handler struct {
	parent   *Handler
	reporter Reporter

	mu           sync.Mutex
	errsReported bool
	err          error
}

// NewHandler creates a new Handler that reports errors and warnings using
// the given reporter. If rep is nil, a reporter that never aborts and
// drops warnings is used.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

// SubHandler returns a handler sharing this handler's reporter whose
// ErrInvalidSource state is tracked separately, for reporting the
// diagnostics of a single file. An error returned by the reporter is
// recorded by both handlers.
func (h *Handler) SubHandler() *Handler {
	return &Handler{parent: h, reporter: h.reporter}
}

// HandleError handles the given error. If the given err is an ErrorWithPos,
// it is reported, and this function returns the error returned by the
// reporter. If the given err is NOT an ErrorWithPos, the current operation
// will abort immediately.
//
// If the handler has already aborted (by returning a non-nil error from a
// prior call to HandleError), this returns that same error.
func (h *Handler) HandleError(err error) error {
	if h.parent != nil {
		_, isErrWithPos := err.(ErrorWithPos)
		err = h.parent.HandleError(err)

		h.mu.Lock()
		defer h.mu.Unlock()
		if isErrWithPos {
			h.errsReported = true
		}
		h.err = err
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	if ewp, ok := err.(ErrorWithPos); ok {
		h.errsReported = true
		err = h.reporter.Error(ewp)
	}
	h.err = err
	return err
}

// HandleErrorf handles an error with the given source location, creating
// the error from the given format and arguments.
func (h *Handler) HandleErrorf(loc ast.SourceLocation, format string, args ...interface{}) error {
	return h.HandleError(Errorf(loc, format, args...))
}

// HandleDiagnostics reports every diagnostic, in order, stopping at the
// first non-nil error returned by the reporter.
func (h *Handler) HandleDiagnostics(diags []Diagnostic) error {
	for _, d := range diags {
		if err := h.HandleError(d); err != nil {
			return err
		}
	}
	return nil
}

// HandleWarning handles the given warning. This will delegate to the
// handler's configured reporter.
func (h *Handler) HandleWarning(err ErrorWithPos) {
	h.reporter.Warning(err)
}

// Error returns the handler result. If any errors have been reported then
// this returns a non-nil error. If the reporter never returned a non-nil
// error then ErrInvalidSource is returned. Otherwise, this returns the
// error returned by the handler's reporter (the same value returned by
// ReporterError).
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.errsReported && h.err == nil {
		return ErrInvalidSource
	}
	return h.err
}

// ReporterError returns the error returned by the handler's reporter. If
// the reporter has either not been invoked (no errors handled) or has
// always returned nil, this returns nil.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}
