/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"image"
	"image/color"
	"math"
	"testing"
	"time"
)

func TestPaginateCounts(t *testing.T) {
	// 210px wide on A4 gives an exact 297px page.
	cases := []struct{ h, want int }{
		{0, 1},
		{1, 1},
		{296, 1},
		{297, 1},
		{298, 2},
		{594, 2},
		{595, 3},
		{2970, 10},
	}
	for _, c := range cases {
		got := Paginate(210, c.h, A4)
		if len(got) != c.want {
			t.Fatalf("Paginate(210,%d) = %d pages, want %d", c.h, len(got), c.want)
		}
		for k, s := range got {
			if s.Index != k || s.Offset != k*297 || s.Height != 297 {
				t.Fatalf("slice %d = %+v", k, s)
			}
		}
	}
}

func TestPaginateMatchesCeilAtExportWidth(t *testing.T) {
	w := A4.SurfaceWidth(2)
	p := int(math.Round(A4.PageHeightPx(w)))
	if p != 2244 {
		t.Fatalf("A4 page height at 2x = %d, want 2244", p)
	}
	for _, h := range []int{100, 2244, 2245, 4488, 4489, 5000, 12345, 44920} {
		got := len(Paginate(w, h, A4))
		want := int(math.Ceil(float64(h) / float64(p)))
		if got != want {
			t.Fatalf("H=%d: pages = %d, want %d", h, got, want)
		}
	}
}

func TestPaginateCoversEveryRowOnceAtExportWidth(t *testing.T) {
	w, h := A4.SurfaceWidth(2), 8000
	seen := make([]int, h)
	slices := Paginate(w, h, A4)
	for k, s := range slices {
		if k > 0 && s.Offset != slices[k-1].Offset+slices[k-1].Height {
			t.Fatalf("slice %d starts at %d, previous ends at %d", k, s.Offset, slices[k-1].Offset+slices[k-1].Height)
		}
		for y := s.Offset; y < s.Offset+s.Height && y < h; y++ {
			seen[y]++
		}
	}
	for y, n := range seen {
		if n != 1 {
			t.Fatalf("surface row %d appears on %d pages, want 1", y, n)
		}
	}

	// Encode each row index in its pixels and read it back off the pages.
	surface := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := color.RGBA{R: uint8(y >> 8), G: uint8(y), B: 7, A: 255}
		for x := 0; x < w; x += 97 {
			surface.SetRGBA(x, y, c)
		}
	}
	got := make([]int, h)
	for _, pg := range SlicePages(surface, A4) {
		for y := 0; y < pg.Image.Bounds().Dy(); y++ {
			c := pg.Image.RGBAAt(0, y)
			if c.B != 7 {
				continue
			}
			got[int(c.R)<<8|int(c.G)]++
		}
	}
	for y, n := range got {
		if n != 1 {
			t.Fatalf("row-coded surface row %d found on %d pages, want 1", y, n)
		}
	}
}

func TestSlicePagesCoverSurfaceInOrder(t *testing.T) {
	w, h := 210, 700
	surface := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			surface.SetRGBA(x, y, color.RGBA{R: uint8(y % 251), G: uint8(y / 251), B: 1, A: 255})
		}
	}
	pages := SlicePages(surface, A4)
	if len(pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(pages))
	}
	for k, pg := range pages {
		if pg.Image.Bounds().Dy() != 297 || pg.Image.Bounds().Dx() != w {
			t.Fatalf("page %d size = %v", k, pg.Image.Bounds())
		}
		for y := 0; y < 297; y++ {
			src := k*297 + y
			got := pg.Image.RGBAAt(5, y)
			if src < h {
				want := surface.RGBAAt(5, src)
				if got != want {
					t.Fatalf("page %d row %d = %v, want surface row %d %v", k, y, got, src, want)
				}
			} else if got != (color.RGBA{255, 255, 255, 255}) {
				t.Fatalf("page %d row %d past the end should be blank, got %v", k, y, got)
			}
		}
	}
}

func TestFormats(t *testing.T) {
	if f, err := FormatByName(""); err != nil || f != A4 {
		t.Fatalf("default format = %+v, %v", f, err)
	}
	if f, err := FormatByName("Letter"); err != nil || f != Letter {
		t.Fatalf("letter = %+v, %v", f, err)
	}
	if _, err := FormatByName("a5"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if got := A4.SurfaceWidth(2); got != 1587 {
		t.Fatalf("A4 surface width at 2x = %d, want 1587", got)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 10, 18, 23, 30, 0, 0, time.FixedZone("x", -5*3600))
	if got, want := Filename("Buenos  Aires\tArgentina", now), "ViajeIA_Buenos_Aires_Argentina_2026-10-19.pdf"; got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}
	if got := Filename("", now); got != "ViajeIA_Destino_no_especificado_2026-10-19.pdf" {
		t.Fatalf("Filename(empty) = %q", got)
	}
}
