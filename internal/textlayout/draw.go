/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Draw paints a laid out box with its top-left corner at (x, y).
func Draw(dst draw.Image, p Provider, box TextBox, x, y float64) {
	if p == nil {
		p = BasicProvider{}
	}
	top := y
	for _, ln := range box.Lines {
		baseline := top + ln.Ascent
		dot := x
		for _, sp := range ln.Spans {
			face, _ := p.Resolve(sp.Font)
			d := &font.Drawer{Dst: dst, Src: image.NewUniform(colorOr(sp.Color)), Face: face}
			d.Dot = fixed.Point26_6{X: fixed.Int26_6(dot * 64), Y: fixed.Int26_6(baseline * 64)}
			d.DrawString(sp.Text)
			dot += advance(d, sp.Text)
		}
		top += ln.Height()
	}
}

func colorOr(c color.Color) color.Color {
	if c == nil {
		return color.Black
	}
	return c
}
