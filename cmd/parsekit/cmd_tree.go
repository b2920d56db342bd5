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
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kralicky/parsekit/ast"
	"github.com/kralicky/parsekit/parser"
)

func newTreeCmd(g *globalFlags) *cobra.Command {
	var lang string
	var depth int
	var at int

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the syntax tree of a file",
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

			root := l.Parse(parser.Input{Path: filename, Input: string(data)}, cfg.parserOptions(g.logger(cmd)))
			var opts []ast.WalkOption
			if depth > 0 {
				opts = append(opts, ast.WithDepthLimit(depth))
			}
			if at >= 0 {
				opts = append(opts, ast.WithIntersection(at))
			}
			if err := printTree(cmd.OutOrStdout(), root, opts...); err != nil {
				return err
			}
			for _, d := range root.Root().Diagnostics {
				fmt.Fprintln(cmd.ErrOrStderr(), d.Format())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language of the file (default: by extension)")
	cmd.Flags().IntVar(&depth, "depth", 0, "maximum depth to print (0 for no limit)")
	cmd.Flags().IntVar(&at, "at", -1, "only print nodes containing this byte offset")

	return cmd
}

// printTree writes one line per node, indented by depth, with the node's
// type, location and comment counts.
func printTree(w io.Writer, root ast.Node, opts ...ast.WalkOption) error {
	var tracker ast.AncestorTracker
	opts = append(opts, tracker.AsWalkOptions()...)
	return ast.Inspect(root, func(n ast.Node) bool {
		base := n.Base()
		t := reflect.TypeOf(n)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		indent := strings.Repeat("  ", len(tracker.Path())-1)
		fmt.Fprintf(w, "%s%s %s-%s", indent, t.Name(), base.Loc.Start, base.Loc.End)
		if c := len(base.LeadingComments); c > 0 {
			fmt.Fprintf(w, " leading=%d", c)
		}
		if c := len(base.TrailingComments); c > 0 {
			fmt.Fprintf(w, " trailing=%d", c)
		}
		fmt.Fprintln(w)
		return true
	}, opts...)
}
