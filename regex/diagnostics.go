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
	"fmt"

	"github.com/kralicky/parsekit/reporter"
)

// Diagnostic categories reported by the regex grammar.
const (
	CategoryRegex                   reporter.Category = "parse/regex"
	CategoryReversedQuantifier      reporter.Category = "parse/regex/reversedQuantifierRange"
	CategoryReversedCharSetRange    reporter.Category = "parse/regex/reversedCharSetRange"
	CategoryUnclosedGroup           reporter.Category = "parse/regex/unclosedGroup"
	CategoryUnopenedGroup           reporter.Category = "parse/regex/unopenedGroup"
	CategoryUnclosedCharSet         reporter.Category = "parse/regex/unclosedCharSet"
	CategoryNothingToRepeat         reporter.Category = "parse/regex/nothingToRepeat"
	CategoryInvalidGroupName        reporter.Category = "parse/regex/invalidGroupName"
	CategoryUnknownGroupModifier    reporter.Category = "parse/regex/unknownGroupModifier"
	CategoryInvalidCharSetRange     reporter.Category = "parse/regex/invalidCharSetRange"
	CategoryDanglingBackslash       reporter.Category = "parse/regex/danglingBackslash"
	CategoryBackreferenceOutOfRange reporter.Category = "parse/regex/backreferenceOutOfRange"
	CategoryUnexpectedEnd           reporter.Category = "parse/regex/unexpectedEnd"
)

func reversedQuantifier(lo, hi int) reporter.Description {
	return reporter.Description{
		Category: CategoryReversedQuantifier,
		Message:  "reversed quantifier range",
		Advice:   []string{fmt.Sprintf("did you mean {%d,%d}?", hi, lo)},
	}
}

func reversedCharSetRange(start, end rune) reporter.Description {
	return reporter.Description{
		Category: CategoryReversedCharSetRange,
		Message:  "reversed character set range",
		Advice:   []string{fmt.Sprintf("did you mean %c-%c?", end, start)},
	}
}

func unclosedGroup() reporter.Description {
	return reporter.Description{
		Category: CategoryUnclosedGroup,
		Message:  "unclosed group",
		Advice:   []string{"add a closing `)`"},
	}
}

func unopenedGroup() reporter.Description {
	return reporter.Description{
		Category: CategoryUnopenedGroup,
		Message:  "unmatched `)`",
		Advice:   []string{"escape it as `\\)` to match a parenthesis"},
	}
}

func unclosedCharSet() reporter.Description {
	return reporter.Description{
		Category: CategoryUnclosedCharSet,
		Message:  "unclosed character set",
		Advice:   []string{"add a closing `]`"},
	}
}

func nothingToRepeat() reporter.Description {
	return reporter.Description{
		Category: CategoryNothingToRepeat,
		Message:  "nothing to repeat",
	}
}

func invalidGroupName(name string) reporter.Description {
	return reporter.Description{
		Category: CategoryInvalidGroupName,
		Message:  fmt.Sprintf("invalid group name %q", name),
	}
}

func unknownGroupModifier(c rune) reporter.Description {
	return reporter.Description{
		Category: CategoryUnknownGroupModifier,
		Message:  fmt.Sprintf("unknown group modifier `%c`", c),
	}
}

func unexpectedEnd() reporter.Description {
	return reporter.Description{
		Category: CategoryUnexpectedEnd,
		Message:  "unexpected end of pattern after `(?`",
		Advice:   []string{"add a group modifier such as `:`, `=` or `!`"},
	}
}

func invalidCharSetRange() reporter.Description {
	return reporter.Description{
		Category: CategoryInvalidCharSetRange,
		Message:  "character class escapes can't be range bounds",
	}
}

func danglingBackslash() reporter.Description {
	return reporter.Description{
		Category: CategoryDanglingBackslash,
		Message:  "dangling backslash at end of pattern",
	}
}

func backreferenceOutOfRange(n, groups int) reporter.Description {
	return reporter.Description{
		Category: CategoryBackreferenceOutOfRange,
		Message:  fmt.Sprintf("backreference \\%d but the pattern has %d capturing groups", n, groups),
	}
}
