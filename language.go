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

package parsekit

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/kralicky/parsekit/css"
	"github.com/kralicky/parsekit/parser"
	"github.com/kralicky/parsekit/regex"
	"github.com/kralicky/parsekit/reporter"
)

// Language is a grammar the compiler can parse files with.
type Language interface {
	// Name identifies the language, e.g. on the command line.
	Name() string
	// Extensions lists the file extensions, with the leading dot, of files
	// written in the language.
	Extensions() []string
	// Parse parses a file. It never fails; problems are reported on the
	// returned root.
	Parse(in parser.Input, opts parser.Options) parser.Root
	// Tokenize returns the tokens of a file without parsing it.
	Tokenize(in parser.Input, opts parser.Options) ([]parser.TokenInfo, []reporter.Diagnostic)
}

var languages = []Language{
	css.Language{},
	regex.Language{},
}

// Languages returns every known language.
func Languages() []Language {
	return slices.Clone(languages)
}

// LanguageByName returns the language with the given name.
func LanguageByName(name string) (Language, bool) {
	for _, l := range languages {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}

// LanguageForPath returns the language of a file, according to its
// extension.
func LanguageForPath(path string) (Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}
	for _, l := range languages {
		if slices.Contains(l.Extensions(), ext) {
			return l, true
		}
	}
	return nil, false
}
