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

// Package parser contains the grammar-independent parsing engine that
// concrete grammars are built on.
//
// A grammar creates a Parser with a tokenize hook and walks its grammar
// with recursive descent, using the token stream primitives (GetToken,
// NextToken, LookaheadToken, EatToken, ExpectToken), speculative parsing
// (Save, Restore, Try), diagnostics (Unexpected for problems that abort
// the parse, UnexpectedDiagnostic for those it can recover from) and node
// finishing (FinishNode, FinishRoot). ParseRoot and TokenizeAll tie these
// together into a whole-file parse that never fails: fatal problems are
// recorded on the result, which is then marked corrupt.
//
// Positions follow the ast package: lines are 1-based, columns are 0-based
// and count bytes.
package parser
