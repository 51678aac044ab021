/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontLibrary stores parsed OpenType fonts keyed by family/bold/italic.
type FontLibrary struct {
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	bold   bool
	italic bool
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[fontKey]*opentype.Font)} }

// GoFonts returns a library holding the bundled Go fonts under family "go".
func GoFonts() *FontLibrary {
	fl := NewFontLibrary()
	for _, f := range []struct {
		bold, italic bool
		ttf          []byte
	}{
		{false, false, goregular.TTF},
		{true, false, gobold.TTF},
		{false, true, goitalic.TTF},
		{true, true, gobolditalic.TTF},
	} {
		// The bundled fonts are known-good; Add cannot fail on them.
		_ = fl.Add("go", f.bold, f.italic, f.ttf)
	}
	return fl
}

// Add parses TTF/OTF bytes into the library.
func (fl *FontLibrary) Add(family string, bold, italic bool, data []byte) error {
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	fl.fonts[fontKey{family: family, bold: bold, italic: italic}] = f
	return nil
}

// LoadTTF loads a font file into the library.
func (fl *FontLibrary) LoadTTF(family string, bold, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return fl.Add(family, bold, italic, data)
}

// LoadDir loads "<family>-Regular.ttf" and "<family>-Bold.ttf" style files
// from dir. Files that do not follow the naming are skipped.
func (fl *FontLibrary) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read font dir %s: %w", dir, err)
	}
	n := 0
	for _, e := range entries {
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		family, style, ok := strings.Cut(strings.TrimSuffix(name, filepath.Ext(name)), "-")
		if !ok {
			continue
		}
		style = strings.ToLower(style)
		bold := strings.Contains(style, "bold")
		italic := strings.Contains(style, "italic")
		if !bold && !italic && style != "regular" {
			continue
		}
		if err := fl.LoadTTF(strings.ToLower(family), bold, italic, filepath.Join(dir, name)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (fl *FontLibrary) find(spec FontSpec) *opentype.Font {
	if fl == nil || fl.fonts == nil {
		return nil
	}
	if f, ok := fl.fonts[fontKey{family: spec.Family, bold: spec.Bold, italic: spec.Italic}]; ok {
		return f
	}
	// Same family, keep the weight if possible.
	if f, ok := fl.fonts[fontKey{family: spec.Family, bold: spec.Bold}]; ok {
		return f
	}
	if f, ok := fl.fonts[fontKey{family: spec.Family}]; ok {
		return f
	}
	return nil
}

// OTProvider resolves FontSpec using a FontLibrary and falls back to another
// Provider. Faces are cached per spec; it is safe for concurrent use.
type OTProvider struct {
	Lib      *FontLibrary
	DPI      float64 // default 72 if zero
	Fallback Provider

	mu    sync.Mutex
	faces map[FontSpec]resolved
}

type resolved struct {
	face font.Face
	met  Metrics
}

// NewGoProvider returns an OTProvider over the bundled Go fonts, with lib's
// fonts (if any) taking precedence for their families.
func NewGoProvider(dpi float64, lib *FontLibrary) *OTProvider {
	merged := GoFonts()
	if lib != nil {
		for k, f := range lib.fonts {
			merged.fonts[k] = f
		}
	}
	return &OTProvider{Lib: merged, DPI: dpi}
}

func (p *OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.SizePt <= 0 {
		spec.SizePt = 12
	}
	if spec.Family == "" {
		spec.Family = "go"
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := p.faces[spec]; ok {
		return r.face, r.met
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}
	f := p.Lib.find(spec)
	if f == nil && spec.Family != "go" {
		f = p.Lib.find(FontSpec{Family: "go", Bold: spec.Bold, Italic: spec.Italic})
	}
	if f != nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: spec.SizePt, DPI: dpi, Hinting: font.HintingFull})
		if err == nil {
			r := resolved{face: face, met: metricsOf(face)}
			if p.faces == nil {
				p.faces = make(map[FontSpec]resolved)
			}
			p.faces[spec] = r
			return r.face, r.met
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}

func metricsOf(face font.Face) Metrics {
	m := face.Metrics()
	return Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}
