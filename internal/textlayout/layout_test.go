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
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestWordWrap_Naive(t *testing.T) {
	l := NewWordWrap(BasicProvider{})
	box, err := l.Layout([]Span{{Text: "Hello world from Go"}}, 50)
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if len(box.Lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(box.Lines))
	}
	if box.Width <= 0 || box.Height <= 0 {
		t.Fatalf("expected positive box size: %+v", box)
	}
}

func TestWordWrapBreaksBeforeOverflow(t *testing.T) {
	// Face7x13 advances 7px per glyph: "hello " is 42px, "world" would end at 77.
	box, _ := NewWordWrap(BasicProvider{}).Layout([]Span{{Text: "hello world"}}, 40)
	if len(box.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(box.Lines))
	}
	if got := box.Lines[0].Width; got != 35 {
		t.Fatalf("first line width = %v, want 35 (trailing space trimmed)", got)
	}
}

func TestWordWrapKeepsSpanStyles(t *testing.T) {
	spans := []Span{{Text: "Hotel "}, {Text: "Miraflores", Font: FontSpec{Bold: true}}, {Text: " cerca"}}
	box, _ := NewWordWrap(BasicProvider{}).Layout(spans, 0)
	if len(box.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(box.Lines))
	}
	var bold int
	for _, sp := range box.Lines[0].Spans {
		if sp.Font.Bold {
			bold++
			if sp.Text != "Miraflores" {
				t.Fatalf("bold span = %q", sp.Text)
			}
		}
	}
	if bold != 1 {
		t.Fatalf("bold spans = %d, want 1", bold)
	}
}

func TestNewlineStartsLine(t *testing.T) {
	box, _ := NewWordWrap(BasicProvider{}).Layout([]Span{{Text: "a\nb"}}, 0)
	if len(box.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(box.Lines))
	}
}

func TestEmptyInputHasOneLine(t *testing.T) {
	box, _ := NewWordWrap(BasicProvider{}).Layout(nil, 100)
	if len(box.Lines) != 1 || box.Height <= 0 {
		t.Fatalf("empty layout = %+v", box)
	}
}

func TestMeasure_Deterministic(t *testing.T) {
	w1, h1 := Measure(BasicProvider{}, []Span{{Text: "ABC"}})
	w2, h2 := Measure(BasicProvider{}, []Span{{Text: "A"}, {Text: "BC"}})
	if w1 != w2 || h1 != h2 {
		t.Fatalf("expected same measure, got w1=%v h1=%v vs w2=%v h2=%v", w1, h1, w2, h2)
	}
}

func TestGoProviderResolvesBundledFonts(t *testing.T) {
	p := NewGoProvider(96, nil)
	face, met := p.Resolve(FontSpec{SizePt: 11})
	if face == nil || met.Ascent <= 0 {
		t.Fatalf("regular face not resolved: %+v", met)
	}
	bface, _ := p.Resolve(FontSpec{SizePt: 11, Bold: true})
	if bface == nil || bface == face {
		t.Fatalf("bold should resolve to its own face")
	}
	again, _ := p.Resolve(FontSpec{SizePt: 11})
	if again != face {
		t.Fatalf("faces should be cached")
	}
	w, _ := Measure(p, []Span{{Text: "Lima", Font: FontSpec{SizePt: 11}}})
	if w <= 0 {
		t.Fatalf("width = %v", w)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Brand-Regular.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	fl := NewFontLibrary()
	n, err := fl.LoadDir(dir)
	if err != nil || n != 1 {
		t.Fatalf("LoadDir = %d, %v", n, err)
	}
	if fl.find(FontSpec{Family: "brand", Bold: true}) == nil {
		t.Fatalf("bold lookup should fall back to the regular face")
	}
}

func TestDrawPaintsPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 30))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	box, _ := NewWordWrap(BasicProvider{}).Layout([]Span{{Text: "Viaje", Color: color.Black}}, 0)
	Draw(img, BasicProvider{}, box, 2, 2)
	dark := 0
	for y := 0; y < 30; y++ {
		for x := 0; x < 120; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r < 0x8000 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Fatalf("expected glyph pixels to be drawn")
	}
}

func TestStripEmoji(t *testing.T) {
	cases := map[string]string{
		"🏨 Alojamiento":            "Alojamiento",
		"🌡️ Clima actual: 20°C":     "Clima actual: 20°C",
		"• sin cambios":             "• sin cambios",
		"❓ ¿Qué comer?":             "¿Qué comer?",
		"  espacios  se  conservan": "  espacios  se  conservan",
	}
	for in, want := range cases {
		if got := StripEmoji(in); got != want {
			t.Fatalf("StripEmoji(%q) = %q, want %q", in, got, want)
		}
	}
}
