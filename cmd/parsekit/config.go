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
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kralicky/parsekit"
	"github.com/kralicky/parsekit/parser"
	"github.com/kralicky/parsekit/reporter"
)

const defaultConfigFile = ".parsekit.yaml"

// config is the contents of a .parsekit.yaml file.
type config struct {
	// Caps the number of diagnostics reported per file.
	MaxDiagnostics int `yaml:"maxDiagnostics,omitempty"`
	// Number of files parsed at once.
	Parallelism int `yaml:"parallelism,omitempty"`
	// Diagnostic categories to suppress, along with everything below them.
	Suppress []string `yaml:"suppress,omitempty"`
}

// loadConfig reads the config file at path. If path is empty the default
// config file is read if it exists.
func loadConfig(path string) (*config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &config{}, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("%s: maxDiagnostics must not be negative", path)
	}
	return &cfg, nil
}

func (c *config) parserOptions(logger *slog.Logger) parser.Options {
	opts := parser.Options{
		MaxDiagnostics: c.MaxDiagnostics,
		Logger:         logger,
	}
	if len(c.Suppress) > 0 {
		categories := make([]reporter.Category, len(c.Suppress))
		for i, s := range c.Suppress {
			categories[i] = reporter.Category(s)
		}
		filter := reporter.NewCategoryFilter(categories...)
		for _, c := range categories {
			for _, covered := range filter.Covers(c) {
				if covered != c {
					logger.Warn("redundant suppress entry", "category", covered, "coveredBy", c)
				}
			}
		}
		opts.Filters = []reporter.Filter{filter}
	}
	return opts
}

// languageFor returns the language named by the --lang flag, or the one
// matching the file's extension if the flag is empty.
func languageFor(name, path string) (parsekit.Language, error) {
	if name != "" {
		lang, ok := parsekit.LanguageByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", parsekit.ErrUnknownLanguage, name)
		}
		return lang, nil
	}
	lang, ok := parsekit.LanguageForPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w (use --lang)", path, parsekit.ErrUnknownLanguage)
	}
	return lang, nil
}
