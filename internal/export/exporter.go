/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	applog "viajeia/internal/log"
	"viajeia/internal/textlayout"
)

// ErrBusy is returned when an export is requested while another one runs.
var ErrBusy = errors.New("an export is already in progress")

// Request describes one export.
type Request struct {
	Meta   Meta
	Turns  []TurnContent
	Single bool
}

// Result describes a finished export.
type Result struct {
	Path     string
	Filename string
	Pages    int
	Bytes    int64
	Elapsed  time.Duration
}

// Options configure an Exporter.
type Options struct {
	Format     PageFormat
	Scale      float64
	PhotoLimit int
	OutDir     string
	Loader     ImageLoader
	Provider   textlayout.Provider
	Now        func() time.Time
}

// Exporter runs at most one export at a time. A second request made while
// one is in flight fails fast with ErrBusy.
type Exporter struct {
	opt  Options
	busy atomic.Bool
}

// NewExporter returns an Exporter with defaults filled in.
func NewExporter(opt Options) *Exporter {
	if opt.Format.WidthMM == 0 {
		opt.Format = A4
	}
	if opt.Scale <= 0 {
		opt.Scale = 2
	}
	if opt.Provider == nil {
		opt.Provider = textlayout.NewGoProvider(72, nil)
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	return &Exporter{opt: opt}
}

// Busy reports whether an export is running.
func (e *Exporter) Busy() bool { return e.busy.Load() }

// Filename is the download name for req.
func (e *Exporter) Filename(req Request) string {
	return Filename(req.Meta.Destination, e.opt.Now())
}

// Export renders req into OutDir. The file is written under a temporary
// name and renamed on success, so a failed export leaves nothing behind.
func (e *Exporter) Export(ctx context.Context, req Request) (Result, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer e.busy.Store(false)

	lg := applog.WithOperation(applog.WithComponent("export"), "export")
	name := e.Filename(req)
	dir := e.opt.OutDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("ensure out dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".viajeia-export-*.pdf")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	res, err := e.render(ctx, req, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close pdf: %w", cerr)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		lg.Error("export failed", "err", err)
		return Result{}, err
	}
	final := filepath.Join(dir, name)
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)
		lg.Error("export failed", "err", err)
		return Result{}, fmt.Errorf("finalize pdf: %w", err)
	}
	res.Path = final
	res.Filename = name
	lg.Info("export written", "path", final, "pages", res.Pages, "bytes", res.Bytes, "elapsed", res.Elapsed)
	return res, nil
}

// WriteTo renders req straight into w, e.g. an HTTP response. Nothing is
// written to w unless rendering succeeds.
func (e *Exporter) WriteTo(ctx context.Context, req Request, w io.Writer) (Result, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer e.busy.Store(false)
	var buf bytes.Buffer
	res, err := e.render(ctx, req, &buf)
	if err != nil {
		applog.WithOperation(applog.WithComponent("export"), "write").Error("export failed", "err", err)
		return Result{}, err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return Result{}, fmt.Errorf("send pdf: %w", err)
	}
	res.Filename = e.Filename(req)
	return res, nil
}

func (e *Exporter) render(ctx context.Context, req Request, w io.Writer) (Result, error) {
	start := time.Now()
	doc := Compose(req.Meta, req.Turns, ComposeOptions{Single: req.Single, PhotoLimit: e.opt.PhotoLimit})
	imgs := e.opt.Loader.Load(ctx, doc.Photos)
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("export canceled: %w", err)
	}
	surface, err := Rasterize(doc, imgs, RasterOptions{Format: e.opt.Format, Scale: e.opt.Scale, Provider: e.opt.Provider})
	if err != nil {
		return Result{}, fmt.Errorf("rasterize: %w", err)
	}
	pages := SlicePages(surface, e.opt.Format)
	cw := &countingWriter{w: w}
	title := ProductName + " - " + req.Meta.Destination
	if err := WritePDF(cw, pages, e.opt.Format, PDFOptions{Title: title}); err != nil {
		return Result{}, err
	}
	return Result{Pages: len(pages), Bytes: cw.n, Elapsed: time.Since(start)}, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
