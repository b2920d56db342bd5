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
	"strconv"
	"strings"
	"unicode"
)

// String prints the pattern's tree back as ECMAScript source. The result
// matches the same strings as Source, except where the parser repaired the
// tree: reversed ranges come out in order, and unclosed groups and sets
// come out closed.
func (p *Pattern) String() string {
	if p.Body == nil {
		return ""
	}
	var sb strings.Builder
	printExpr(&sb, p.Body)
	return sb.String()
}

func printExpr(sb *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *Alternation:
		for i, alt := range e.Alternatives {
			if i > 0 {
				sb.WriteByte('|')
			}
			printExpr(sb, alt)
		}
	case *Expression:
		for i, t := range e.Body {
			if i > 0 {
				if _, ok := e.Body[i-1].(*Backreference); ok && startsWithDigit(t) {
					sb.WriteString("(?:)")
				}
			}
			printTerm(sb, t)
		}
	}
}

func startsWithDigit(t Term) bool {
	for {
		switch n := t.(type) {
		case *Quantified:
			t = n.Target
		case *Character:
			return n.Value >= '0' && n.Value <= '9'
		default:
			return false
		}
	}
}

func printTerm(sb *strings.Builder, t Term) {
	switch n := t.(type) {
	case *Character:
		printChar(sb, n.Value, false)
	case *AnyCharacter:
		sb.WriteByte('.')
	case *StartOfLine:
		sb.WriteByte('^')
	case *EndOfLine:
		sb.WriteByte('$')
	case *CharacterClass:
		sb.WriteByte('\\')
		sb.WriteRune(n.Kind)
	case *WordBoundary:
		if n.Negate {
			sb.WriteString(`\B`)
		} else {
			sb.WriteString(`\b`)
		}
	case *Backreference:
		sb.WriteByte('\\')
		sb.WriteString(strconv.Itoa(n.Index))
	case *CharSet:
		printCharSet(sb, n)
	case *Group:
		sb.WriteString(groupPrefix(n))
		if n.Body != nil {
			printExpr(sb, n.Body)
		}
		sb.WriteByte(')')
	case *Quantified:
		if _, nested := n.Target.(*Quantified); nested {
			sb.WriteString("(?:")
			printTerm(sb, n.Target)
			sb.WriteByte(')')
		} else {
			printTerm(sb, n.Target)
		}
		switch {
		case n.Min == 0 && n.Max == -1:
			sb.WriteByte('*')
		case n.Min == 1 && n.Max == -1:
			sb.WriteByte('+')
		case n.Min == 0 && n.Max == 1:
			sb.WriteByte('?')
		case n.Max == -1:
			fmt.Fprintf(sb, "{%d,}", n.Min)
		case n.Min == n.Max:
			fmt.Fprintf(sb, "{%d}", n.Min)
		default:
			fmt.Fprintf(sb, "{%d,%d}", n.Min, n.Max)
		}
		if n.Lazy {
			sb.WriteByte('?')
		}
	}
}

func groupPrefix(g *Group) string {
	switch g.Kind {
	case GroupNamed:
		return "(?<" + g.Name + ">"
	case GroupNonCapture:
		return "(?:"
	case GroupLookahead:
		return "(?="
	case GroupNegativeLookahead:
		return "(?!"
	case GroupLookbehind:
		return "(?<="
	case GroupNegativeLookbehind:
		return "(?<!"
	}
	return "("
}

func printCharSet(sb *strings.Builder, set *CharSet) {
	sb.WriteByte('[')
	if set.Invert {
		sb.WriteByte('^')
	}
	for _, item := range set.Body {
		switch n := item.(type) {
		case *Character:
			printChar(sb, n.Value, true)
		case *CharacterClass:
			sb.WriteByte('\\')
			sb.WriteRune(n.Kind)
		case *CharSetRange:
			printChar(sb, n.Start.Value, true)
			sb.WriteByte('-')
			printChar(sb, n.End.Value, true)
		}
	}
	sb.WriteByte(']')
}

func printChar(sb *strings.Builder, c rune, inCharSet bool) {
	var special string
	if inCharSet {
		special = `\]-^[`
	} else {
		special = `\^$.|?*+()[]{}`
	}
	switch {
	case strings.ContainsRune(special, c) || c == '/':
		sb.WriteByte('\\')
		sb.WriteRune(c)
	case c < 0x10000 && !unicode.IsPrint(c):
		fmt.Fprintf(sb, `\u%04x`, c)
	default:
		sb.WriteRune(c)
	}
}
