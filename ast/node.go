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

import "reflect"

// Node is the interface implemented by all nodes of every grammar built on
// the parser core. It provides information about the span of the node in
// the source file and about the comments attributed to it, either before
// it (leading comments) or after or inside it (trailing comments).
//
// Grammar node types implement Node by embedding NodeBase.
type Node interface {
	Base() *NodeBase
}

// NodeBase contains bookkeeping shared by all node implementations. It is
// filled in by the parser core when the node is finished.
type NodeBase struct {
	Loc              SourceLocation
	LeadingComments  []CommentID
	TrailingComments []CommentID
}

// Base implements Node.
func (n *NodeBase) Base() *NodeBase {
	return n
}

// Location returns the span of the node.
func (n *NodeBase) Location() SourceLocation {
	return n.Loc
}

func IsNil(n Node) bool {
	return n == nil || reflect.ValueOf(n).IsNil()
}
