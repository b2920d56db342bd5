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
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Resolver is used by the compiler to locate the files it is asked to
// parse.
type Resolver interface {
	// FindFileByPath searches for the file with the given path. It returns
	// an error wrapping fs.ErrNotExist if no such file exists.
	FindFileByPath(path string) (SearchResult, error)
}

// SearchResult represents information about a file that the resolver
// found.
type SearchResult struct {
	// The canonical path of the file, used in locations. If empty, the
	// path the compiler asked for is used.
	ResolvedPath string
	// The contents of the file. If it implements io.Closer, the compiler
	// closes it once it has been read.
	Source io.Reader
	// The modification time of the file, if known.
	Mtime time.Time
	// The language of the file. If nil, the language is chosen from the
	// extension of the path.
	Language Language
}

// ResolverFunc is a simple function type that implements Resolver.
type ResolverFunc func(string) (SearchResult, error)

var _ Resolver = ResolverFunc(nil)

func (f ResolverFunc) FindFileByPath(path string) (SearchResult, error) {
	return f(path)
}

// CompositeResolver is a slice of resolvers, which are consulted in order
// until one can find the requested file. If none can, the error of the
// first resolver is returned.
type CompositeResolver []Resolver

var _ Resolver = CompositeResolver(nil)

func (f CompositeResolver) FindFileByPath(path string) (SearchResult, error) {
	if len(f) == 0 {
		return SearchResult{}, fs.ErrNotExist
	}
	var firstErr error
	for _, res := range f {
		r, err := res.FindFileByPath(path)
		if err == nil {
			return r, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return SearchResult{}, firstErr
}

// SourceResolver can resolve file names by returning source code. It uses
// an optional list of import paths to search. By default, it searches the
// file system.
type SourceResolver struct {
	// Optional list of import paths. If present and not empty, then all
	// file paths to find are assumed to be relative to one of these paths.
	// If nil or empty, all file paths to find are assumed to be relative to
	// the current working directory.
	ImportPaths []string
	// Optional function for returning a file's contents. If nil, then
	// os.Open is used to open files on the file system.
	//
	// The function must return an error wrapping fs.ErrNotExist for
	// missing files, so the next import path is tried.
	Accessor func(path string) (io.ReadCloser, error)
}

var _ Resolver = (*SourceResolver)(nil)

func (r *SourceResolver) FindFileByPath(path string) (SearchResult, error) {
	if len(r.ImportPaths) == 0 {
		return r.open(path)
	}

	var e error
	for _, importPath := range r.ImportPaths {
		res, err := r.open(filepath.Join(importPath, path))
		if errors.Is(err, fs.ErrNotExist) {
			e = err
			continue
		} else if err != nil {
			return SearchResult{}, err
		}
		return res, nil
	}
	return SearchResult{}, e
}

func (r *SourceResolver) open(path string) (SearchResult, error) {
	accessor := r.Accessor
	if accessor == nil {
		accessor = func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		}
	}
	rc, err := accessor(path)
	if err != nil {
		return SearchResult{}, err
	}
	res := SearchResult{ResolvedPath: path, Source: rc}
	if st, ok := rc.(interface{ Stat() (fs.FileInfo, error) }); ok {
		if info, err := st.Stat(); err == nil {
			res.Mtime = info.ModTime()
		}
	}
	return res, nil
}

// SourceAccessorFromMap returns a function that can be used as the Accessor
// field of a SourceResolver that uses the given map to load source. The map
// keys are file names and the values are the corresponding file contents.
//
// The given map is used directly and not copied. Since accessor functions
// must be thread-safe, this means that the provided map must not be mutated
// once this accessor is provided to a compile operation.
func SourceAccessorFromMap(srcs map[string]string) func(string) (io.ReadCloser, error) {
	return func(path string) (io.ReadCloser, error) {
		src, ok := srcs[path]
		if !ok {
			return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
		}
		return io.NopCloser(strings.NewReader(src)), nil
	}
}
