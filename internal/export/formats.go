/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"math"
	"strings"
)

// PageFormat is a physical page size in millimetres.
type PageFormat struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

var (
	A4     = PageFormat{Name: "a4", WidthMM: 210, HeightMM: 297}
	Letter = PageFormat{Name: "letter", WidthMM: 215.9, HeightMM: 279.4}
)

// FormatByName resolves "a4" or "letter"; empty means A4.
func FormatByName(name string) (PageFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "a4":
		return A4, nil
	case "letter":
		return Letter, nil
	}
	return PageFormat{}, fmt.Errorf("unknown page format: %s", name)
}

// cssDPI is the reference resolution the layout sizes are expressed in.
const cssDPI = 96.0

// SurfaceWidth is the pixel width of the export surface for f at scale.
func (f PageFormat) SurfaceWidth(scale float64) int {
	if scale <= 0 {
		scale = 1
	}
	return int(math.Round(f.WidthMM / 25.4 * cssDPI * scale))
}

// PageHeightPx is the page height in pixels of a surface surfaceW wide.
func (f PageFormat) PageHeightPx(surfaceW int) float64 {
	return float64(surfaceW) * f.HeightMM / f.WidthMM
}
