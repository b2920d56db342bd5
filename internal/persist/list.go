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

// Package persist adapts immutable collections for values that are copied
// wholesale, such as parser state: copies share structure and each copy
// can be extended independently.
package persist

import "github.com/benbjohnson/immutable"

// List is an immutable, append-only list. The zero value is an empty list.
// Push returns a new list and never modifies the receiver, so any number
// of versions of a list can be held at once.
type List[T any] struct {
	l *immutable.List[T]
}

// Push returns a copy of l with v appended.
func (l List[T]) Push(v T) List[T] {
	if l.l == nil {
		return List[T]{l: immutable.NewList(v)}
	}
	return List[T]{l: l.l.Append(v)}
}

// Len returns the number of elements in l.
func (l List[T]) Len() int {
	if l.l == nil {
		return 0
	}
	return l.l.Len()
}

// Slice returns the elements of l in the order they were pushed.
func (l List[T]) Slice() []T {
	if l.Len() == 0 {
		return nil
	}
	out := make([]T, 0, l.l.Len())
	for itr := l.l.Iterator(); !itr.Done(); {
		_, v := itr.Next()
		out = append(out, v)
	}
	return out
}

// Filter returns a list containing only the elements for which keep
// returns true, preserving order. keep is called once per element, in
// order. If every element is kept, l itself is returned and nothing is
// copied.
func (l List[T]) Filter(keep func(T) bool) List[T] {
	if l.Len() == 0 {
		return l
	}
	var b *immutable.ListBuilder[T]
	for itr := l.l.Iterator(); !itr.Done(); {
		i, v := itr.Next()
		switch {
		case b != nil:
			if keep(v) {
				b.Append(v)
			}
		case !keep(v):
			// first removal: copy the prefix kept so far
			b = immutable.NewListBuilder[T]()
			for j := 0; j < i; j++ {
				b.Append(l.l.Get(j))
			}
		}
	}
	if b == nil {
		return l
	}
	if b.Len() == 0 {
		return List[T]{}
	}
	return List[T]{l: b.List()}
}
