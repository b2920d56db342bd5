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
	art "github.com/plar/go-adaptive-radix-tree"
)

// Filter decides whether a diagnostic is kept when diagnostics are
// extracted from a parse.
type Filter interface {
	// Suppress returns true if d must not be reported.
	Suppress(d Diagnostic) bool
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(Diagnostic) bool

func (f FilterFunc) Suppress(d Diagnostic) bool {
	return f(d)
}

// CategoryFilter suppresses every diagnostic whose category is, or is
// below, one of a set of category prefixes.
type CategoryFilter struct {
	prefixes art.Tree
}

// NewCategoryFilter returns a filter suppressing the given categories and
// everything below them.
func NewCategoryFilter(categories ...Category) *CategoryFilter {
	f := &CategoryFilter{prefixes: art.New()}
	for _, c := range categories {
		f.Add(c)
	}
	return f
}

// Add suppresses c and every category below it.
func (f *CategoryFilter) Add(c Category) {
	if c == "" {
		return
	}
	f.prefixes.Insert(art.Key(c), c)
}

// Categories returns the suppressed category prefixes in sorted order.
func (f *CategoryFilter) Categories() []Category {
	out := make([]Category, 0, f.prefixes.Size())
	f.prefixes.ForEach(func(node art.Node) bool {
		out = append(out, node.Value().(Category))
		return true
	})
	return out
}

// Covers returns the suppressed categories that lie at or below c.
func (f *CategoryFilter) Covers(c Category) []Category {
	var out []Category
	f.prefixes.ForEachPrefix(art.Key(c), func(node art.Node) bool {
		// inner nodes are visited too and carry no value
		if node.Kind() != art.Leaf {
			return true
		}
		if candidate := node.Value().(Category); candidate.HasPrefix(c) {
			out = append(out, candidate)
		}
		return true
	})
	return out
}

func (f *CategoryFilter) Suppress(d Diagnostic) bool {
	for _, segment := range d.Category.Segments() {
		if _, found := f.prefixes.Search(art.Key(segment)); found {
			return true
		}
	}
	return false
}

// LineFilter suppresses diagnostics of a category (or below it) that
// start on a single line. Grammars install these for suppression comments.
type LineFilter struct {
	Category Category
	Line     int
}

func (f LineFilter) Suppress(d Diagnostic) bool {
	return d.Location.Start.Line == f.Line && d.Category.HasPrefix(f.Category)
}

var (
	_ Filter = (*CategoryFilter)(nil)
	_ Filter = LineFilter{}
	_ Filter = FilterFunc(nil)
)
