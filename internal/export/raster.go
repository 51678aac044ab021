/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"unicode"

	xdraw "golang.org/x/image/draw"

	"viajeia/internal/answer"
	"viajeia/internal/textlayout"
)

// Palette of the export surface.
var (
	colorPrimary = color.RGBA{0x66, 0x7e, 0xea, 0xff}
	colorText    = color.RGBA{0x2d, 0x37, 0x48, 0xff}
	colorMuted   = color.RGBA{0x71, 0x80, 0x96, 0xff}
	colorQText   = color.RGBA{0x4a, 0x55, 0x68, 0xff}
	colorInfoBg  = color.RGBA{0xf7, 0xfa, 0xfc, 0xff}
	colorQBg     = color.RGBA{0xed, 0xf2, 0xf7, 0xff}
	colorBorder  = color.RGBA{0xe2, 0xe8, 0xf0, 0xff}
	colorTile    = color.RGBA{0xcb, 0xd5, 0xe0, 0xff}
)

// MaxSurfaceHeight bounds the rasterized surface to keep memory in check.
const MaxSurfaceHeight = 200_000

// ErrSurfaceTooTall is returned when the composed document would exceed MaxSurfaceHeight.
var ErrSurfaceTooTall = errors.New("export surface too tall")

// RasterOptions control Rasterize.
type RasterOptions struct {
	Format   PageFormat
	Scale    float64             // device pixels per layout pixel; 0 means 2
	Provider textlayout.Provider // nil uses the bundled Go fonts
}

// Rasterize paints doc onto one tall white surface of the page width.
// Photos come from imgs in order; a missing or failed photo becomes a
// placeholder tile.
func Rasterize(doc Document, imgs []LoadedImage, opt RasterOptions) (*image.RGBA, error) {
	if opt.Format.WidthMM == 0 {
		opt.Format = A4
	}
	if opt.Scale <= 0 {
		opt.Scale = 2
	}
	if opt.Provider == nil {
		opt.Provider = textlayout.NewGoProvider(72, nil)
	}
	w := opt.Format.SurfaceWidth(opt.Scale)

	measure := newPainter(nil, w, opt)
	measure.document(doc, imgs)
	h := int(math.Ceil(measure.y + measure.margin))
	if h > MaxSurfaceHeight {
		return nil, ErrSurfaceTooTall
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), image.White, image.Point{}, xdraw.Src)
	p := newPainter(dst, w, opt)
	p.document(doc, imgs)
	return dst, nil
}

// painter walks the document once to measure (dst == nil) and once to draw.
type painter struct {
	dst      *image.RGBA
	scale    float64
	margin   float64
	contentW float64
	y        float64
	prov     textlayout.Provider
	wrap     *textlayout.WordWrapLayouter
}

func newPainter(dst *image.RGBA, w int, opt RasterOptions) *painter {
	margin := float64(w) * 20 / opt.Format.WidthMM // 20mm padding
	wrap := textlayout.NewWordWrap(opt.Provider)
	wrap.LineSpacing = 1.3
	return &painter{
		dst:      dst,
		scale:    opt.Scale,
		margin:   margin,
		contentW: float64(w) - 2*margin,
		y:        margin,
		prov:     opt.Provider,
		wrap:     wrap,
	}
}

func (p *painter) px(v float64) float64 { return v * p.scale }

func (p *painter) font(size float64, bold bool) textlayout.FontSpec {
	return textlayout.FontSpec{SizePt: p.px(size), Bold: bold}
}

func (p *painter) plain(s string, size float64, bold bool, c color.Color) []textlayout.Span {
	return []textlayout.Span{{Text: textlayout.StripEmoji(s), Font: p.font(size, bold), Color: c}}
}

func (p *painter) frags(frags []answer.Fragment, size float64, c color.Color) []textlayout.Span {
	out := make([]textlayout.Span, 0, len(frags))
	for _, f := range frags {
		out = append(out, textlayout.Span{Text: stripFragment(f.Text), Font: p.font(size, f.Bold), Color: c})
	}
	return out
}

// stripFragment drops emoji like plain does but keeps the spaces at the
// fragment edges, which separate it from its neighbours.
func stripFragment(s string) string {
	out := textlayout.StripEmoji(s)
	if out == s || out == "" {
		return out
	}
	if strings.TrimLeftFunc(s, unicode.IsSpace) != s {
		out = " " + out
	}
	if strings.TrimRightFunc(s, unicode.IsSpace) != s {
		out += " "
	}
	return out
}

func (p *painter) layout(spans []textlayout.Span, width float64) textlayout.TextBox {
	box, _ := p.wrap.Layout(spans, width)
	return box
}

func (p *painter) text(box textlayout.TextBox, x, y float64) {
	if p.dst != nil {
		textlayout.Draw(p.dst, p.prov, box, x, y)
	}
}

func (p *painter) fill(x, y, w, h float64, c color.Color) {
	if p.dst == nil {
		return
	}
	r := image.Rect(int(math.Round(x)), int(math.Round(y)), int(math.Round(x+w)), int(math.Round(y+h)))
	xdraw.Draw(p.dst, r, image.NewUniform(c), image.Point{}, xdraw.Src)
}

func (p *painter) stroke(x, y, w, h float64, c color.Color) {
	t := math.Max(1, math.Round(p.scale))
	p.fill(x, y, w, t, c)
	p.fill(x, y+h-t, w, t, c)
	p.fill(x, y, t, h, c)
	p.fill(x+w-t, y, t, h, c)
}

func (p *painter) document(doc Document, imgs []LoadedImage) {
	p.header(doc)
	p.info(doc.Info)
	for _, t := range doc.Turns {
		p.turn(t)
	}
	if len(doc.Photos) > 0 {
		p.photos(doc.Photos, imgs)
	}
}

func (p *painter) header(doc Document) {
	pad := p.px(20)
	inner := p.contentW - 2*pad
	title := p.layout(p.plain(doc.Title, 28, true, color.White), inner)
	tag := p.layout(p.plain(doc.Tagline, 14, false, color.White), inner)
	h := pad + title.Height + p.px(5) + tag.Height + pad
	p.fill(p.margin, p.y, p.contentW, h, colorPrimary)
	p.text(title, p.margin+pad, p.y+pad)
	p.text(tag, p.margin+pad, p.y+pad+title.Height+p.px(5))
	p.y += h + p.px(20)
}

func (p *painter) info(lines []string) {
	if len(lines) == 0 {
		return
	}
	pad := p.px(15)
	bar := p.px(4)
	inner := p.contentW - 2*pad - bar
	boxes := make([]textlayout.TextBox, len(lines))
	h := 2 * pad
	for i, ln := range lines {
		size, bold, c := 13.0, false, color.Color(colorText)
		if i == 0 {
			size, bold, c = 18, true, colorPrimary
		}
		boxes[i] = p.layout(p.plain(ln, size, bold, c), inner)
		h += boxes[i].Height
	}
	h += p.px(6) * float64(len(lines)-1)
	p.fill(p.margin, p.y, p.contentW, h, colorInfoBg)
	p.fill(p.margin, p.y, bar, h, colorPrimary)
	y := p.y + pad
	for _, b := range boxes {
		p.text(b, p.margin+bar+pad, y)
		y += b.Height + p.px(6)
	}
	p.y += h + p.px(20)
}

func (p *painter) turn(t TurnBlock) {
	if t.Question != "" {
		pad := p.px(10)
		q := p.layout(p.plain(t.Question, 14, true, colorQText), p.contentW-2*pad-p.px(4))
		h := q.Height + 2*pad
		p.fill(p.margin, p.y, p.contentW, h, colorQBg)
		p.fill(p.margin, p.y, p.px(4), h, colorPrimary)
		p.text(q, p.margin+p.px(4)+pad, p.y+pad)
		p.y += h + p.px(15)
	}
	for _, b := range t.Blocks {
		switch v := b.(type) {
		case *SectionTable:
			p.section(v)
		case *Paragraph:
			box := p.layout(p.frags(v.Fragments, 13, colorText), p.contentW)
			p.text(box, p.margin, p.y)
			p.y += box.Height + p.px(10)
		case *Prose:
			var spans []textlayout.Span
			for i, ln := range v.Lines {
				if i > 0 {
					spans = append(spans, textlayout.Span{Text: "\n", Font: p.font(13, false)})
				}
				spans = append(spans, p.frags(ln, 13, colorText)...)
			}
			box := p.layout(spans, p.contentW)
			p.text(box, p.margin, p.y)
			p.y += box.Height + p.px(15)
		}
	}
}

func (p *painter) section(s *SectionTable) {
	pad := p.px(10)
	head := p.layout(p.plain(s.Emoji+" "+s.Title, 15, true, color.White), p.contentW-2*pad)
	headH := head.Height + 2*pad

	cpad := p.px(12)
	indent := p.px(18)
	items := make([]textlayout.TextBox, len(s.Items))
	bodyH := 2 * cpad
	for i, it := range s.Items {
		items[i] = p.layout(p.frags(it, 13, colorText), p.contentW-2*cpad-indent)
		bodyH += items[i].Height + p.px(4)
	}
	dot := p.layout(p.plain(bulletGlyph, 13, true, colorPrimary), indent)

	top := p.y
	p.fill(p.margin, top, p.contentW, headH, colorPrimary)
	p.text(head, p.margin+pad, top+pad)
	y := top + headH + cpad
	for _, it := range items {
		p.text(dot, p.margin+cpad, y)
		p.text(it, p.margin+cpad+indent, y)
		y += it.Height + p.px(4)
	}
	p.stroke(p.margin, top, p.contentW, headH+bodyH, colorBorder)
	p.y = top + headH + bodyH + p.px(15)
}

const bulletGlyph = "•"

func (p *painter) photos(caps []Caption, imgs []LoadedImage) {
	p.y += p.px(10)
	heading := p.layout(p.plain("📸 Fotos del Destino", 18, true, colorPrimary), p.contentW)
	p.text(heading, p.margin, p.y)
	p.y += heading.Height + p.px(20)

	gap := p.px(15)
	cellW := (p.contentW - gap) / 2
	for row := 0; row*2 < len(caps); row++ {
		rowH := 0.0
		for col := 0; col < 2; col++ {
			i := row*2 + col
			if i >= len(caps) {
				break
			}
			var li LoadedImage
			if i < len(imgs) {
				li = imgs[i]
			}
			x := p.margin + float64(col)*(cellW+gap)
			rowH = math.Max(rowH, p.photo(caps[i], li, x, p.y, cellW))
		}
		p.y += rowH + gap
	}
}

// photo draws one grid cell and returns its height.
func (p *painter) photo(c Caption, li LoadedImage, x, y, w float64) float64 {
	imgH := w * 2 / 3
	if li.Img != nil && li.Err == nil {
		b := li.Img.Bounds()
		if b.Dx() > 0 {
			imgH = w * float64(b.Dy()) / float64(b.Dx())
		}
		if p.dst != nil {
			r := image.Rect(int(math.Round(x)), int(math.Round(y)), int(math.Round(x+w)), int(math.Round(y+imgH)))
			xdraw.CatmullRom.Scale(p.dst, r, li.Img, b, xdraw.Src, nil)
		}
	} else {
		p.fill(x, y, w, imgH, colorTile)
		note := p.layout(p.plain("Imagen no disponible", 11, false, colorMuted), w-p.px(16))
		p.text(note, x+p.px(8), y+imgH/2-note.Height/2)
	}
	h := imgH
	if c.Text != "" {
		capBox := p.layout(p.plain(c.Text, 9, false, colorMuted), w-p.px(16))
		p.text(capBox, x+p.px(8), y+imgH+p.px(8))
		h += capBox.Height + p.px(16)
	}
	p.stroke(x, y, w, h, colorBorder)
	return h
}
