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

package ast

import "errors"

// Parent is implemented by nodes that have child nodes. Children returns
// them in source order; nil entries are skipped by Inspect.
type Parent interface {
	Node
	Children() []Node
}

// ErrSkip may be returned by a before hook to skip a node and its
// descendants without aborting the walk.
var ErrSkip = errors.New("skip node")

// WalkOption represents an option used with the Inspect function.
type WalkOption func(*walkOptions)

type walkOptions struct {
	before func(Node) error
	after  func(Node) error

	hasRangeRequirement bool
	start, end          int
	depthLimit          int

	hasIntersectionRequirement bool
	intersects                 int
}

// WithBefore returns a WalkOption that will cause the given function to be
// invoked before a node is visited during a walk operation. If this hook
// returns ErrSkip, the node and its descendants are skipped; any other
// error aborts the walk.
func WithBefore(fn func(Node) error) WalkOption {
	return func(options *walkOptions) {
		options.before = fn
	}
}

// WithAfter returns a WalkOption that will cause the given function to be
// invoked after a node (as well as any descendants) is visited during a walk
// operation. If this hook returns an error, the walk operation is aborted.
func WithAfter(fn func(Node) error) WalkOption {
	return func(options *walkOptions) {
		options.after = fn
	}
}

// WithRange restricts visiting to nodes that overlap the byte range
// [start, end]. Their ancestors are still walked but not visited.
func WithRange(start, end int) WalkOption {
	return func(options *walkOptions) {
		options.hasRangeRequirement = true
		options.start = start
		options.end = end
	}
}

// WithIntersection restricts visiting to nodes that contain the given
// byte index.
func WithIntersection(index int) WalkOption {
	return func(options *walkOptions) {
		options.hasIntersectionRequirement = true
		options.intersects = index
	}
}

func WithDepthLimit(limit int) WalkOption {
	return func(options *walkOptions) {
		options.depthLimit = limit
	}
}

// Inspect traverses an AST in depth-first order: It starts by calling
// visit(node); node must not be nil. If visit returns true, Inspect invokes
// visit recursively for each of the non-nil children of node. It returns
// the first error returned by a hook.
func Inspect(node Node, visit func(Node) bool, opts ...WalkOption) error {
	wOpts := walkOptions{
		depthLimit: 64,
	}
	for _, opt := range opts {
		opt(&wOpts)
	}
	_, err := wOpts.inspect(node, visit, 0)
	return err
}

func (o *walkOptions) inspect(node Node, visit func(Node) bool, depth int) (cont bool, err error) {
	if depth > o.depthLimit {
		return true, nil
	}
	if o.before != nil {
		if err := o.before(node); err != nil {
			if errors.Is(err, ErrSkip) {
				return true, nil
			}
			return false, err
		}
	}
	if o.after != nil {
		defer func() {
			if afterErr := o.after(node); afterErr != nil && err == nil {
				cont, err = false, afterErr
			}
		}()
	}

	loc := node.Base().Loc
	canVisit := true
	if o.hasRangeRequirement {
		if loc.Start.Index > o.end || loc.End.Index < o.start {
			canVisit = false
		}
	}
	if canVisit && o.hasIntersectionRequirement {
		if loc.Start.Index > o.intersects || loc.End.Index < o.intersects {
			canVisit = false
		}
	}
	if canVisit && !visit(node) {
		return true, nil
	}

	parent, ok := node.(Parent)
	if !ok {
		return true, nil
	}
	for _, child := range parent.Children() {
		if IsNil(child) {
			continue
		}
		if cont, err := o.inspect(child, visit, depth+1); !cont || err != nil {
			return cont, err
		}
	}
	return true, nil
}

// AncestorTracker is used to track the path of nodes during a walk operation.
// By passing AsWalkOptions to a call to Inspect, a visitor can inspect the
// path to the node being visited using this tracker.
type AncestorTracker struct {
	ancestors []Node
}

// AsWalkOptions returns WalkOption values that will cause this ancestor tracker
// to track the path through the AST during the walk operation.
func (t *AncestorTracker) AsWalkOptions() []WalkOption {
	return []WalkOption{
		WithBefore(func(n Node) error {
			t.ancestors = append(t.ancestors, n)
			return nil
		}),
		WithAfter(func(Node) error {
			t.ancestors = t.ancestors[:len(t.ancestors)-1]
			return nil
		}),
	}
}

// Path returns a slice of nodes that represents the path from the root of the
// walk operation to the currently visited node. The first element in the path
// is the root supplied to Inspect. The last element in the path is the
// currently visited node.
//
// The returned slice is not a defensive copy; so callers should NOT mutate it.
func (t *AncestorTracker) Path() []Node {
	return t.ancestors
}
