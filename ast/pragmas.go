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

import "strings"

// PragmaKey prefixes the text of pragma comments, which carry directives
// for tools rather than documentation:
//
//	/* parsekit-ignore parse/css/unterminatedString */
//	// parsekit-name value
const PragmaKey = "parsekit-"

// ParsePragma returns the name and value of the pragma in a comment's raw
// text, delimiters included. The value is everything after the name, with
// surrounding whitespace removed, and may be empty.
func ParsePragma(raw string) (name, value string, ok bool) {
	text := raw
	switch {
	case strings.HasPrefix(text, "//"):
		text = text[2:]
	case strings.HasPrefix(text, "/*"):
		text = strings.TrimSuffix(text[2:], "*/")
	}
	text = strings.TrimSpace(text)
	text, ok = strings.CutPrefix(text, PragmaKey)
	if !ok {
		return "", "", false
	}
	name, value, _ = strings.Cut(text, " ")
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(value), true
}

// Pragmas returns the pragmas found in the given comments, keyed by name.
// If a name appears more than once, the last value wins.
func (c Comments) Pragmas() map[string]string {
	var pragmas map[string]string
	for _, comment := range c {
		name, value, ok := ParsePragma(comment.Value)
		if !ok {
			continue
		}
		if pragmas == nil {
			pragmas = make(map[string]string)
		}
		pragmas[name] = value
	}
	return pragmas
}
