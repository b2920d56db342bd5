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

package lsp

import (
	"strings"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/kralicky/parsekit/ast"
)

// Editors count columns in UTF-16 code units, the parser counts bytes.

func lspRange(text string, loc ast.SourceLocation) protocol.Range {
	return protocol.Range{
		Start: lspPosition(text, loc.Start),
		End:   lspPosition(text, loc.End),
	}
}

func lspPosition(text string, pos ast.Position) protocol.Position {
	if !pos.IsValid() {
		return protocol.Position{}
	}
	end := min(pos.Index, len(text))
	lineStart := max(end-pos.Column, 0)
	return protocol.Position{
		Line:      protocol.UInteger(pos.Line - 1),
		Character: protocol.UInteger(utf16Len(text[lineStart:end])),
	}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// byteIndex converts an editor position back to a byte index into text.
// Positions past the end of a line are clamped to the line's end.
func byteIndex(text string, pos protocol.Position) int {
	index := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		nl := strings.IndexByte(text[index:], '\n')
		if nl < 0 {
			return len(text)
		}
		index += nl + 1
	}
	units := protocol.UInteger(0)
	for index < len(text) && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[index:])
		if r == '\n' {
			break
		}
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		index += size
	}
	return index
}
