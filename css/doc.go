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

// Package css implements a CSS Syntax Level 3 tokenizer and stylesheet
// parser on top of the parser core.
//
// # Tokens
//
// The tokenizer produces the token kinds of CSS Syntax Level 3. Whitespace
// is kept as tokens, since it separates the parts of a selector. Comments
// are registered with the parser and attached to the nodes around them.
// A comment of the form
//
//	/* parsekit-ignore <category> */
//
// suppresses diagnostics of that category, or of any category below it,
// on the next line.
//
// # Stylesheets
//
// A Stylesheet is a list of Rules, each an AtRule or a QualifiedRule. The
// {}-block of a rule holds Declarations and nested rules. Rule preludes
// and declaration values are lists of ComponentValues: simple blocks,
// functions and single tokens. The parser does not know the grammar of
// selectors, media queries or property values.
//
// Parsing never stops at a malformed declaration or rule: it is reported,
// dropped, and parsing resumes at the next ';' or '}'.
package css
