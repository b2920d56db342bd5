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

// Policy controls how raw diagnostics are reduced when they are extracted.
type Policy struct {
	// Filters drop matching diagnostics.
	Filters []Filter
	// MaxDiagnostics caps the number of diagnostics returned. Zero or a
	// negative value means no cap.
	MaxDiagnostics int
}

// Collect reduces raw, in the order the diagnostics were raised:
//  1. diagnostics suppressed by any filter are dropped;
//  2. duplicates (same category, message and span) are dropped;
//  3. only the first fatal diagnostic is kept, since everything after a
//     fatal diagnostic on the same run of input is noise;
//  4. the result is truncated to MaxDiagnostics.
//
// The earliest diagnostic always wins, so the result is deterministic for
// identical input. raw is not modified.
func (p Policy) Collect(raw []Diagnostic) []Diagnostic {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Diagnostic, 0, len(raw))
	seen := make(map[diagnosticKey]struct{}, len(raw))
	seenFatal := false
	for _, d := range raw {
		if p.suppressed(d) {
			continue
		}
		key := d.key()
		if _, ok := seen[key]; ok {
			continue
		}
		if d.Fatal {
			if seenFatal {
				continue
			}
			seenFatal = true
		}
		seen[key] = struct{}{}
		out = append(out, d)
		if p.MaxDiagnostics > 0 && len(out) == p.MaxDiagnostics {
			break
		}
	}
	return out
}

func (p Policy) suppressed(d Diagnostic) bool {
	for _, f := range p.Filters {
		if f.Suppress(d) {
			return true
		}
	}
	return false
}
