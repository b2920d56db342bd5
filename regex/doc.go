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

// Package regex implements a parser for ECMAScript regular expression
// patterns on top of the parser core.
//
// Parse returns the pattern's tree along with its diagnostics. Mistakes
// that have an obvious repair, such as a reversed range in {2,1} or [z-a],
// are reported and repaired in the tree, so that Pattern.String and
// Pattern.Compile work with what the author most likely meant.
package regex
