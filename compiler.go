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

package parsekit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/kralicky/parsekit/parser"
	"github.com/kralicky/parsekit/reporter"
)

// Compiler parses a set of source files concurrently, choosing a grammar
// for each file by its extension, and reports their diagnostics through a
// single reporter.
type Compiler struct {
	// Resolves paths into source code. This is how the compiler loads the
	// files to be parsed. This field is the only required field.
	Resolver Resolver
	// The maximum parallelism to use when compiling. If unspecified or set to
	// a non-positive value, then min(runtime.NumCPU(), runtime.GOMAXPROCS(-1))
	// will be used.
	MaxParallelism int
	// A custom error and warning reporter. If unspecified a default reporter
	// is used, which never aborts: every file is parsed and the compile
	// fails with reporter.ErrInvalidSource if any diagnostics were found.
	Reporter reporter.Reporter
	// Options passed to every parser. If Options.Logger is nil, Logger is
	// used.
	Options parser.Options
	// Receives progress and panic logs. Defaults to slog.Default().
	Logger *slog.Logger

	Hooks CompilerHooks
}

type CompilerHooks struct {
	// If not nil, called before a file is parsed.
	PreCompile func(path string)
	// If not nil, called after a file has been parsed, whether or not it
	// contained errors.
	PostCompile func(path string)
}

// Result is the outcome of compiling one requested path.
type Result struct {
	// The path as it was requested.
	Path string
	// The path the resolver resolved it to.
	ResolvedPath string
	Language     Language
	// The parsed file. Nil if the file could not be resolved or read.
	Root parser.Root
	// Non-nil if the file could not be resolved, read or parsed, or if the
	// reporter aborted while handling its diagnostics. A file with
	// diagnostics that the reporter accepted has reporter.ErrInvalidSource.
	Err error
}

// Results holds one Result per requested path, in request order.
type Results []Result

// Roots returns the parsed roots of all results that have one.
func (rs Results) Roots() []parser.Root {
	out := make([]parser.Root, 0, len(rs))
	for _, r := range rs {
		if r.Root != nil {
			out = append(out, r.Root)
		}
	}
	return out
}

// Compile parses the files with the given paths. Paths requested more than
// once are parsed once.
//
// The returned error is the reporter's error if it aborted the compile,
// reporter.ErrInvalidSource if diagnostics were found but the reporter
// accepted all of them, or the first error any file failed with otherwise.
// Results are returned in all of these cases, except when ctx is canceled.
func (c *Compiler) Compile(ctx context.Context, paths ...string) (Results, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	par := c.MaxParallelism
	if par <= 0 {
		par = runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if par > cpus {
			par = cpus
		}
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := reporter.NewHandler(c.Reporter)
	e := &executor{
		c:       c,
		h:       h,
		s:       semaphore.NewWeighted(int64(par)),
		cancel:  cancel,
		logger:  logger,
		results: map[string]*result{},
	}

	// Create all results under lock, so duplicate paths share one result.
	e.mu.Lock()
	results := make([]*result, len(paths))
	for i, path := range paths {
		results[i] = e.compileLocked(ctx, path)
	}
	e.mu.Unlock()

	out := make(Results, len(results))
	var firstError error
	for i, r := range results {
		select {
		case <-r.ready:
		case <-ctx.Done():
			if err := h.ReporterError(); err != nil {
				return nil, err
			}
			return nil, ctx.Err()
		}
		if r.err != nil && firstError == nil {
			firstError = r.err
		}
		out[i] = Result{
			Path:         paths[i],
			ResolvedPath: r.resolvedPath,
			Language:     r.lang,
			Root:         r.root,
			Err:          r.err,
		}
	}

	if err := h.Error(); err != nil {
		return out, err
	}
	return out, firstError
}

type result struct {
	path string

	ready chan struct{}

	// only available when ready is closed
	resolvedPath string
	lang         Language
	root         parser.Root
	err          error
}

func (r *result) fail(err error) {
	r.err = err
	close(r.ready)
}

func (r *result) complete(root parser.Root, err error) {
	r.root = root
	r.err = err
	close(r.ready)
}

type executor struct {
	c      *Compiler
	h      *reporter.Handler
	s      *semaphore.Weighted
	cancel context.CancelFunc
	logger *slog.Logger

	mu      sync.Mutex
	results map[string]*result
}

func (e *executor) compileLocked(ctx context.Context, path string) *result {
	if r := e.results[path]; r != nil {
		return r
	}
	r := &result{
		path:  path,
		ready: make(chan struct{}),
	}
	e.results[path] = r
	go e.doCompile(ctx, r)
	return r
}

// PanicError is an error value that represents a recovered panic. It includes
// the value returned by recover() as well as the stack trace.
//
// This should generally only be seen if a Resolver implementation panics.
//
// An error returned by a Compiler may wrap a PanicError, so you may need to
// use errors.As(...) to access panic details.
type PanicError struct {
	// The file that was being processed when the panic occurred
	File string
	// The value returned by recover()
	Value interface{}
	// A formatted stack trace
	Stack string
}

// Error implements the error interface. It does NOT include the stack trace.
// Use a type assertion and query the Stack field directly to access that.
func (p PanicError) Error() string {
	return fmt.Sprintf("panic handling %q: %v", p.File, p.Value)
}

type errFailedToResolve struct {
	err  error
	path string
}

func (e errFailedToResolve) Error() string {
	errMsg := e.err.Error()
	if strings.Contains(errMsg, e.path) {
		// underlying error already refers to path in question, so we don't need to add more context
		return errMsg
	}
	return fmt.Sprintf("could not resolve path %q: %s", e.path, errMsg)
}

func (e errFailedToResolve) Unwrap() error {
	return e.err
}

// ErrUnknownLanguage is returned for files whose language cannot be
// determined.
var ErrUnknownLanguage = errors.New("unknown language")

func (e *executor) doCompile(ctx context.Context, r *result) {
	if err := e.s.Acquire(ctx, 1); err != nil {
		r.fail(err)
		return
	}
	defer e.s.Release(1)

	defer func() {
		if p := recover(); p != nil {
			stack := string(debug.Stack())
			e.logger.Error("recovered panic", "path", r.path, "panic", p)
			r.fail(PanicError{File: r.path, Value: p, Stack: stack})
		}
	}()

	if e.c.Hooks.PreCompile != nil {
		e.c.Hooks.PreCompile(r.path)
	}
	if e.c.Hooks.PostCompile != nil {
		defer e.c.Hooks.PostCompile(r.path)
	}

	start := time.Now()
	root, err := e.parse(r)
	if err != nil && !errors.Is(err, reporter.ErrInvalidSource) {
		// the reporter aborted, or the file could not be read
		if e.h.ReporterError() != nil {
			e.cancel()
		}
	}
	e.logger.Debug("parsed file",
		"path", r.path,
		"resolved", r.resolvedPath,
		"duration", time.Since(start),
		"error", err,
	)
	r.complete(root, err)
}

func (e *executor) parse(r *result) (parser.Root, error) {
	sr, err := e.c.Resolver.FindFileByPath(r.path)
	if err != nil {
		return nil, errFailedToResolve{err: err, path: r.path}
	}
	if c, ok := sr.Source.(io.Closer); ok {
		defer c.Close()
	}
	r.resolvedPath = sr.ResolvedPath
	if r.resolvedPath == "" {
		r.resolvedPath = r.path
	}

	lang := sr.Language
	if lang == nil {
		var ok bool
		if lang, ok = LanguageForPath(r.resolvedPath); !ok {
			return nil, fmt.Errorf("%s: %w", r.resolvedPath, ErrUnknownLanguage)
		}
	}
	r.lang = lang

	if sr.Source == nil {
		return nil, fmt.Errorf("search result for %q has no source", r.path)
	}
	data, err := io.ReadAll(sr.Source)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.resolvedPath, err)
	}

	opts := e.c.Options
	if opts.Logger == nil {
		opts.Logger = e.logger
	}
	root := lang.Parse(parser.Input{
		Path:  r.resolvedPath,
		Mtime: sr.Mtime,
		Input: string(data),
	}, opts)
	return root, parser.Report(root, e.h.SubHandler())
}
