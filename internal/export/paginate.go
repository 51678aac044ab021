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
	"math"

	xdraw "golang.org/x/image/draw"
)

// Slice is one page window over the tall surface, in surface pixels.
type Slice struct {
	Index  int
	Offset int // top of the page on the surface
	Height int // page height; the part past the surface end stays blank
}

// Page is one fixed-size page image.
type Page struct {
	Index int
	Image *image.RGBA
}

// Paginate cuts a surface of surfaceW x surfaceH pixels into pages of f.
// The page height is the format's aspect ratio applied to surfaceW, rounded
// once to whole pixels, so slice k starts at k*pageHeight and consecutive
// slices tile the surface without gaps or overlap. There are
// ceil(surfaceH/pageHeight) slices, never fewer than one.
func Paginate(surfaceW, surfaceH int, f PageFormat) []Slice {
	if f.WidthMM <= 0 || f.HeightMM <= 0 {
		f = A4
	}
	pagePx := int(math.Round(f.PageHeightPx(surfaceW)))
	if pagePx < 1 {
		pagePx = 1
	}
	n := 1
	if surfaceW > 0 && surfaceH > pagePx {
		n = (surfaceH + pagePx - 1) / pagePx
	}
	out := make([]Slice, n)
	for k := range out {
		out[k] = Slice{Index: k, Offset: k * pagePx, Height: pagePx}
	}
	return out
}

// SlicePages copies each slice of surface into its own white page image.
func SlicePages(surface *image.RGBA, f PageFormat) []Page {
	b := surface.Bounds()
	slices := Paginate(b.Dx(), b.Dy(), f)
	pages := make([]Page, 0, len(slices))
	for _, s := range slices {
		pg := image.NewRGBA(image.Rect(0, 0, b.Dx(), s.Height))
		xdraw.Draw(pg, pg.Bounds(), image.White, image.Point{}, xdraw.Src)
		xdraw.Draw(pg, pg.Bounds(), surface, image.Point{X: b.Min.X, Y: b.Min.Y + s.Offset}, xdraw.Src)
		pages = append(pages, Page{Index: s.Index, Image: pg})
	}
	return pages
}
