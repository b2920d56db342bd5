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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kralicky/parsekit"
	"github.com/kralicky/parsekit/reporter"
)

type jsonDiagnostic struct {
	File      string   `json:"file"`
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	EndLine   int      `json:"endLine"`
	EndColumn int      `json:"endColumn"`
	Category  string   `json:"category"`
	Message   string   `json:"message"`
	Advice    []string `json:"advice,omitempty"`
	Fatal     bool     `json:"fatal,omitempty"`
}

func toJSONDiagnostic(d reporter.Diagnostic) jsonDiagnostic {
	return jsonDiagnostic{
		File:      d.Location.Filename,
		Line:      d.Location.Start.Line,
		Column:    d.Location.Start.Column + 1,
		EndLine:   d.Location.End.Line,
		EndColumn: d.Location.End.Column + 1,
		Category:  string(d.Category),
		Message:   d.Message,
		Advice:    d.Advice,
		Fatal:     d.Fatal,
	}
}

// errProblems is returned by check when any file has diagnostics or
// failed to parse, so the command exits non-zero.
type errProblems struct {
	count int
}

func (e errProblems) Error() string {
	if e.count == 1 {
		return "1 problem found"
	}
	return fmt.Sprintf("%d problems found", e.count)
}

func newCheckCmd(g *globalFlags) *cobra.Command {
	var lang string
	var maxDiagnostics int
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse files and report their diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat != "text" && outputFormat != "json" {
				return fmt.Errorf("unknown format: %s (expected text or json)", outputFormat)
			}
			cfg, err := loadConfig(g.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-diagnostics") {
				cfg.MaxDiagnostics = maxDiagnostics
			}
			logger := g.logger(cmd)

			var resolver parsekit.Resolver = &parsekit.SourceResolver{}
			if lang != "" {
				l, err := languageFor(lang, "")
				if err != nil {
					return err
				}
				inner := resolver
				resolver = parsekit.ResolverFunc(func(path string) (parsekit.SearchResult, error) {
					res, err := inner.FindFileByPath(path)
					res.Language = l
					return res, err
				})
			}

			c := parsekit.Compiler{
				Resolver:       resolver,
				MaxParallelism: cfg.Parallelism,
				Options:        cfg.parserOptions(logger),
				Logger:         logger,
			}
			results, err := c.Compile(context.Background(), args...)
			if results == nil && err != nil {
				return err
			}

			problems := 0
			var out []jsonDiagnostic
			for _, r := range results {
				if r.Err != nil && !errors.Is(r.Err, reporter.ErrInvalidSource) {
					problems++
					fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", r.Err)
					continue
				}
				for _, d := range r.Root.Root().Diagnostics {
					problems++
					if outputFormat == "json" {
						out = append(out, toJSONDiagnostic(d))
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), d.Format())
					}
				}
			}
			if outputFormat == "json" {
				if out == nil {
					out = []jsonDiagnostic{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			}
			if problems > 0 {
				return errProblems{count: problems}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language of all files (default: by extension)")
	cmd.Flags().IntVar(&maxDiagnostics, "max-diagnostics", 0, "maximum diagnostics per file (0 for no limit)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")

	return cmd
}
