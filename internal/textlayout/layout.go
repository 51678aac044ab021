/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Text measurement and line breaking behind small interfaces, so the export
// rasterizer and the tests can swap font engines.

import (
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name, "go" for the bundled fonts
	SizePt float64
	Bold   bool
	Italic bool
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// Span is a run of text with the same font and color.
type Span struct {
	Text  string
	Font  FontSpec
	Color color.Color // nil draws black
}

// Line is a single laid out line.
type Line struct {
	Spans   []Span
	Width   float64
	Ascent  float64
	Descent float64
	Gap     float64
}

// Height is the vertical advance of the line.
func (l Line) Height() float64 { return l.Ascent + l.Descent + l.Gap }

// TextBox is the result of laying out text into a box width.
type TextBox struct {
	Lines  []Line
	Width  float64
	Height float64
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// Layouter performs line-breaking and measurement.
type Layouter interface {
	Layout(spans []Span, maxWidth float64) (TextBox, error)
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	return basicfont.Face7x13, metricsOf(basicfont.Face7x13)
}

// WordWrapLayouter breaks on spaces and explicit newlines. It does not
// shape or hyphenate; a word wider than the box overflows on its own line.
type WordWrapLayouter struct {
	Provider    Provider
	LineSpacing float64 // multiplier on the line gap plus descent; 0 means 1
}

func NewWordWrap(provider Provider) *WordWrapLayouter { return &WordWrapLayouter{Provider: provider} }

func (l *WordWrapLayouter) Layout(spans []Span, maxWidth float64) (TextBox, error) {
	p := l.Provider
	if p == nil {
		p = BasicProvider{}
	}
	spacing := l.LineSpacing
	if spacing <= 0 {
		spacing = 1
	}
	var box TextBox
	var cur Line
	grow := func(m Metrics) {
		cur.Ascent = max(cur.Ascent, m.Ascent)
		cur.Descent = max(cur.Descent, m.Descent)
		cur.Gap = max(cur.Gap, m.LineGap+(spacing-1)*(m.Ascent+m.Descent))
	}
	addLine := func(m Metrics) {
		if cur.Ascent == 0 {
			grow(m)
		}
		box.Lines = append(box.Lines, cur)
		box.Width = max(box.Width, cur.Width)
		box.Height += cur.Height()
		cur = Line{}
	}
	last := Metrics{}
	for _, sp := range spans {
		if sp.Text == "" {
			continue
		}
		face, met := p.Resolve(sp.Font)
		last = met
		d := &font.Drawer{Face: face}
		start := 0
		for i := 0; i <= len(sp.Text); i++ {
			if i < len(sp.Text) && sp.Text[i] != ' ' && sp.Text[i] != '\n' {
				continue
			}
			word := sp.Text[start:i]
			w := advance(d, word)
			if cur.Width > 0 && maxWidth > 0 && cur.Width+w > maxWidth {
				trimTrailingSpace(&cur, d)
				addLine(met)
			}
			if word != "" {
				cur.Spans = append(cur.Spans, Span{Text: word, Font: sp.Font, Color: sp.Color})
				cur.Width += w
				grow(met)
			}
			if i < len(sp.Text) {
				switch sp.Text[i] {
				case ' ':
					cur.Spans = append(cur.Spans, Span{Text: " ", Font: sp.Font, Color: sp.Color})
					cur.Width += advance(d, " ")
				case '\n':
					addLine(met)
				}
			}
			start = i + 1
		}
	}
	if len(cur.Spans) > 0 || len(box.Lines) == 0 {
		if last == (Metrics{}) {
			_, last = p.Resolve(FontSpec{})
		}
		addLine(last)
	}
	return box, nil
}

func trimTrailingSpace(l *Line, d *font.Drawer) {
	if n := len(l.Spans); n > 0 && l.Spans[n-1].Text == " " {
		l.Spans = l.Spans[:n-1]
		l.Width -= advance(d, " ")
	}
}

func advance(d *font.Drawer, s string) float64 {
	return float64(d.MeasureString(s)) / 64 // fixed.Int26_6 to px
}

// Measure returns the unbroken width of spans and the height of one line.
func Measure(provider Provider, spans []Span) (w, h float64) {
	if provider == nil {
		provider = BasicProvider{}
	}
	_, met := provider.Resolve(FontSpec{})
	h = met.Ascent + met.Descent
	for _, sp := range spans {
		face, m := provider.Resolve(sp.Font)
		w += advance(&font.Drawer{Face: face}, sp.Text)
		h = max(h, m.Ascent+m.Descent)
	}
	return w, h
}
