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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kralicky/parsekit/parser"
)

func newTokensCmd(g *globalFlags) *cobra.Command {
	var lang string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the tokens of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			l, err := languageFor(lang, filename)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", filename, err)
			}
			cfg, err := loadConfig(g.configPath)
			if err != nil {
				return err
			}

			tokens, diags := l.Tokenize(parser.Input{Path: filename, Input: string(data)}, cfg.parserOptions(g.logger(cmd)))

			switch outputFormat {
			case "json":
				type jsonToken struct {
					Loc string `json:"loc"`
					parser.TokenInfo
				}
				out := make([]jsonToken, len(tokens))
				for i, tok := range tokens {
					out[i] = jsonToken{Loc: tok.Loc.String(), TokenInfo: tok}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "text":
				for _, tok := range tokens {
					fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-14s %q", tok.Loc.Start, tok.Type, tok.Text)
					if tok.Value != nil {
						fmt.Fprintf(cmd.OutOrStdout(), " %+v", tok.Value)
					}
					fmt.Fprintln(cmd.OutOrStdout())
				}
			default:
				return fmt.Errorf("unknown format: %s (expected text or json)", outputFormat)
			}

			for _, d := range diags {
				fmt.Fprintln(cmd.ErrOrStderr(), d.Format())
			}
			if len(diags) > 0 {
				return errProblems{count: len(diags)}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language of the file (default: by extension)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")

	return cmd
}
