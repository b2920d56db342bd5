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

package css

import (
	"fmt"

	"github.com/kralicky/parsekit/reporter"
)

// Diagnostic categories reported by the CSS grammar.
const (
	CategoryCSS                 reporter.Category = "parse/css"
	CategoryUnterminatedString  reporter.Category = "parse/css/unterminatedString"
	CategoryUnterminatedComment reporter.Category = "parse/css/unterminatedComment"
	CategoryUnterminatedURL     reporter.Category = "parse/css/unterminatedURL"
	CategoryBadURL              reporter.Category = "parse/css/badURL"
	CategoryInvalidEscape       reporter.Category = "parse/css/invalidEscape"
	CategoryExpectedColon       reporter.Category = "parse/css/expectedColon"
	CategoryUnclosedBlock       reporter.Category = "parse/css/unclosedBlock"
	CategoryUnclosedFunction    reporter.Category = "parse/css/unclosedFunction"
	CategoryUnterminatedRule    reporter.Category = "parse/css/unterminatedRule"
	CategoryMissingBlock        reporter.Category = "parse/css/missingBlock"
	CategoryInvalidEncoding     reporter.Category = "parse/css/invalidEncoding"
)

func unterminatedString() reporter.Description {
	return reporter.Description{
		Category: CategoryUnterminatedString,
		Message:  "unterminated string",
		Advice:   []string{"strings can't span lines unless the line break is escaped with `\\`"},
	}
}

func unterminatedComment() reporter.Description {
	return reporter.Description{
		Category: CategoryUnterminatedComment,
		Message:  "unterminated comment",
		Advice:   []string{"add a closing `*/`"},
	}
}

func unterminatedURL() reporter.Description {
	return reporter.Description{
		Category: CategoryUnterminatedURL,
		Message:  "unterminated url",
		Advice:   []string{"add a closing `)`"},
	}
}

func badURL() reporter.Description {
	return reporter.Description{
		Category: CategoryBadURL,
		Message:  "invalid character in unquoted url",
		Advice:   []string{"quote the url"},
	}
}

func invalidEncoding() reporter.Description {
	return reporter.Description{
		Category: CategoryInvalidEncoding,
		Message:  "invalid UTF-8 encoding",
	}
}

func invalidEscape() reporter.Description {
	return reporter.Description{
		Category: CategoryInvalidEscape,
		Message:  "invalid escape",
	}
}

func expectedColon(name string) reporter.Description {
	return reporter.Description{
		Category: CategoryExpectedColon,
		Message:  fmt.Sprintf("expected `:` after property name %q", name),
	}
}

func unclosedBlock(closing rune) reporter.Description {
	return reporter.Description{
		Category: CategoryUnclosedBlock,
		Message:  "unclosed block",
		Advice:   []string{fmt.Sprintf("add a closing `%c`", closing)},
	}
}

func unclosedFunction(name string) reporter.Description {
	return reporter.Description{
		Category: CategoryUnclosedFunction,
		Message:  fmt.Sprintf("unclosed function %s()", name),
		Advice:   []string{"add a closing `)`"},
	}
}

func unterminatedRule() reporter.Description {
	return reporter.Description{
		Category: CategoryUnterminatedRule,
		Message:  "unexpected end of file in rule",
	}
}

func missingBlock() reporter.Description {
	return reporter.Description{
		Category: CategoryMissingBlock,
		Message:  "rule has no block",
		Advice:   []string{"add a `{ ... }` block after the selector"},
	}
}
