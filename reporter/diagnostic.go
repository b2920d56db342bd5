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
	"errors"
	"fmt"
	"strings"

	"github.com/kralicky/parsekit/ast"
)

// Category classifies a diagnostic. Categories are hierarchical, with
// segments separated by '/', e.g. "parse/regex/reversedRange". Filters
// that match a category also match every category below it.
type Category string

// Core categories. Grammars define their own below CategoryParse.
const (
	CategoryParse               Category = "parse"
	CategoryUnexpectedToken     Category = "parse/unexpectedToken"
	CategoryUnexpectedEOF       Category = "parse/unexpectedEOF"
	CategoryUnexpectedCharacter Category = "parse/unexpectedCharacter"
	CategoryExpectedToken       Category = "parse/expectedToken"
	CategoryExpectedEOF         Category = "parse/expectedEOF"
)

// Segments returns the prefixes of c that filters match against, from
// the shortest to c itself.
func (c Category) Segments() []Category {
	if c == "" {
		return nil
	}
	var out []Category
	s := string(c)
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			out = append(out, Category(s[:i]))
		}
	}
	return append(out, c)
}

// HasPrefix reports whether prefix is c or one of its ancestors.
func (c Category) HasPrefix(prefix Category) bool {
	if prefix == "" || c == prefix {
		return true
	}
	return strings.HasPrefix(string(c), string(prefix)+"/")
}

// Description is what a diagnostic says, independent of where.
type Description struct {
	Category Category
	Message  string
	// Advice holds optional follow-up hints, rendered after the message.
	Advice []string
}

// Diagnostic is a problem found in a source file. Diagnostics are values:
// once created they are only ever collected, never modified.
type Diagnostic struct {
	Description
	Location ast.SourceLocation
	// SourceText is the text of the document the location refers to,
	// for hosts that render a code frame. It may differ from the parsed
	// input when only part of a document was parsed.
	SourceText string
	// Fatal is true if the diagnostic aborted the parse attempt that
	// raised it.
	Fatal bool
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Location, d.Message)
}

// GetPosition implements ErrorWithPos.
func (d Diagnostic) GetPosition() ast.SourceLocation {
	return d.Location
}

// Unwrap implements ErrorWithPos.
func (d Diagnostic) Unwrap() error {
	return errors.New(d.Message)
}

// Format renders the diagnostic on one line, followed by one indented line
// per advice entry.
func (d Diagnostic) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s: %s", d.Location, d.Category, d.Message)
	for _, advice := range d.Advice {
		sb.WriteString("\n    ")
		sb.WriteString(advice)
	}
	return sb.String()
}

type diagnosticKey struct {
	category   Category
	message    string
	start, end int
}

func (d Diagnostic) key() diagnosticKey {
	return diagnosticKey{
		category: d.Category,
		message:  d.Message,
		start:    d.Location.Start.Index,
		end:      d.Location.End.Index,
	}
}
