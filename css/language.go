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
	"github.com/kralicky/parsekit/parser"
	"github.com/kralicky/parsekit/reporter"
)

// Language exposes the CSS grammar to the compiler driver.
type Language struct{}

func (Language) Name() string {
	return "css"
}

func (Language) Extensions() []string {
	return []string{".css"}
}

func (Language) Parse(in parser.Input, opts parser.Options) parser.Root {
	return Parse(in, opts)
}

func (Language) Tokenize(in parser.Input, opts parser.Options) ([]parser.TokenInfo, []reporter.Diagnostic) {
	return Tokenize(in, opts)
}
