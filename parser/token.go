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

package parser

import "fmt"

// TokenType names a kind of token. Each grammar declares its own token
// types; the core reserves SOF, EOF and Invalid.
type TokenType string

const (
	// SOF is the synthetic token the stream starts on, before anything
	// has been tokenized.
	SOF TokenType = "SOF"
	// EOF is the synthetic token at the end of the input.
	EOF TokenType = "EOF"
	// Invalid spans the rest of the input after tokenizing was aborted by
	// a fatal diagnostic.
	Invalid TokenType = "Invalid"
)

// Token is a lexed token spanning the byte range [Start, End) of the input.
//
// A grammar picks one payload type V for all its tokens. Simple tokens
// leave Value as the zero value; tokens with an atomic payload (an operator
// kind, a numeric value) store it in Value; tokens with several fields use
// a struct for V.
type Token[V any] struct {
	Type  TokenType
	Start int
	End   int
	Value V
}

// Len returns the number of input bytes the token covers.
func (t Token[V]) Len() int {
	return t.End - t.Start
}

func (t Token[V]) String() string {
	return fmt.Sprintf("%s[%d:%d]", t.Type, t.Start, t.End)
}
