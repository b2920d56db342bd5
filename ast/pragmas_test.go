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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePragma(t *testing.T) {
	t.Parallel()
	testCases := map[string]struct {
		raw   string
		name  string
		value string
		ok    bool
	}{
		"block": {
			raw:  "/* parsekit-ignore parse/css/badURL */",
			name: "ignore", value: "parse/css/badURL", ok: true,
		},
		"line": {
			raw:  "// parsekit-flags  gi ",
			name: "flags", value: "gi", ok: true,
		},
		"no value": {
			raw:  "/*parsekit-strict*/",
			name: "strict", ok: true,
		},
		"unterminated block": {
			raw:  "/* parsekit-ignore parse/css",
			name: "ignore", value: "parse/css", ok: true,
		},
		"plain comment": {raw: "/* just a comment */"},
		"missing name":  {raw: "/* parsekit- x */"},
		"wrong prefix":  {raw: "/* parsekit:ignore x */"},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			gotName, gotValue, ok := ParsePragma(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.name, gotName)
			assert.Equal(t, tc.value, gotValue)
		})
	}
}

func TestCommentsPragmas(t *testing.T) {
	t.Parallel()
	comments := Comments{
		{ID: 0, Kind: CommentBlock, Value: "/* parsekit-ignore a */"},
		{ID: 1, Kind: CommentLine, Value: "// hello"},
		{ID: 2, Kind: CommentLine, Value: "// parsekit-ignore b"},
		{ID: 3, Kind: CommentLine, Value: "// parsekit-strict"},
	}
	assert.Equal(t, map[string]string{"ignore": "b", "strict": ""}, comments.Pragmas())
	assert.Nil(t, comments[1:2].Pragmas())
}
