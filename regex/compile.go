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

package regex

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
)

// ErrCorrupt is returned when compiling a pattern whose parse was aborted.
var ErrCorrupt = errors.New("pattern could not be parsed")

// Compile returns a matcher for the pattern with ECMAScript semantics.
// flags are ECMAScript flags: 'i' and 'm' change how the pattern matches,
// 'g', 'y' and 'u' are accepted and left to the caller.
//
// Patterns with collected diagnostics still compile; the matcher follows
// the best-effort tree, e.g. a reversed range matches as if written in
// order.
func (p *Pattern) Compile(flags string) (*regexp2.Regexp, error) {
	if p.Corrupt {
		return nil, ErrCorrupt
	}
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 'g', 'y', 'u':
		default:
			return nil, fmt.Errorf("unsupported regular expression flag %q", f)
		}
	}
	return regexp2.Compile(p.String(), opts)
}
