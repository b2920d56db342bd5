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

// Package ast defines the grammar-independent pieces of the syntax trees
// produced by parsers built on the parser core: source positions and
// locations, the incremental position tracker, comments, and the base
// embedded by every node.
//
// Positions carry a byte index, a one-based line and a zero-based column,
// also counted in bytes. Locations are half-open: End is the position just
// after the last byte of the element.
//
// Comments are not stored on nodes directly. Every comment of a file lives
// in the file's comment list (see Comments) and nodes refer to the
// comments attributed to them by CommentID. Comments whose text starts
// with PragmaKey carry directives for tools, see ParsePragma.
//
// Inspect walks a tree through the Children of its Parent nodes. Walk
// options restrict the walk to a range or depth, and an AncestorTracker
// records the path to the node being visited.
package ast
