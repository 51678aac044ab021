/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"io"
	"os"
	"strings"

	"viajeia/internal/export"
	applog "viajeia/internal/log"
	"viajeia/internal/planner"
	"viajeia/internal/store"
	"viajeia/internal/textlayout"
)

// newExporter builds the exporter from config. TTFs in export.font_dir
// extend the bundled Go fonts.
func newExporter(outDir string) (*export.Exporter, error) {
	ec := env.cfg.Export
	f, err := export.FormatByName(ec.PageFormat)
	if err != nil {
		return nil, err
	}
	if outDir == "" {
		outDir = ec.OutDir
	}
	lib := textlayout.GoFonts()
	if ec.FontDir != "" {
		n, err := lib.LoadDir(ec.FontDir)
		if err != nil {
			return nil, err
		}
		applog.WithComponent("cli").Debug("fonts loaded", "dir", ec.FontDir, "count", n)
	}
	return export.NewExporter(export.Options{
		Format:     f,
		Scale:      ec.Scale,
		PhotoLimit: ec.PhotoLimit,
		OutDir:     outDir,
		Loader:     export.ImageLoader{Timeout: ec.ImageTimeout()},
		Provider:   textlayout.NewGoProvider(72, lib),
	}), nil
}

func newPlanner() *planner.Client {
	return planner.New(env.cfg.Planner.BaseURL, env.token, env.cfg.Planner.Timeout())
}

func openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, env.cfg.Store, env.dataDir)
}

// readAnswer reads a file, or stdin for "-".
func readAnswer(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(b), "\r\n", "\n"), nil
}
