/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"strings"

	"viajeia/internal/answer"
	"viajeia/internal/domain"
)

// Product strings printed in the title band.
const (
	ProductName    = "ViajeIA"
	ProductTagline = "Tu Asistente Personal de Viajes"
	NoDestination  = "Destino no especificado"
)

// Meta is the header metadata of an export.
type Meta struct {
	Destination string
	DateRange   string
	Weather     *domain.Weather
	Photos      []domain.Photo
}

// TurnContent is one question/answer pair to print.
type TurnContent struct {
	Question string
	Answer   string
}

// ComposeOptions tune Compose.
type ComposeOptions struct {
	// Single marks an export of one specific turn; weather and photos are left out.
	Single     bool
	PhotoLimit int // 0 means 3
}

// Block is a printable unit of an answer: *SectionTable, *Paragraph or *Prose.
type Block interface{ isBlock() }

// SectionTable is a bordered two-row table: header row, then a bullet list.
type SectionTable struct {
	Emoji string
	Title string
	Items [][]answer.Fragment
}

// Paragraph is one top-level line outside any section.
type Paragraph struct {
	Fragments []answer.Fragment
}

// Prose is an answer without section markers: its non-blank lines joined
// with explicit breaks.
type Prose struct {
	Lines [][]answer.Fragment
}

func (*SectionTable) isBlock() {}
func (*Paragraph) isBlock()    {}
func (*Prose) isBlock()        {}

// TurnBlock is one printed turn.
type TurnBlock struct {
	Question string
	Blocks   []Block
}

// Caption is a photo with its optional caption.
type Caption struct {
	Photo domain.Photo
	Text  string
}

// Document is the composed, print-oriented export.
type Document struct {
	Title   string
	Tagline string
	Info    []string
	Turns   []TurnBlock
	Photos  []Caption
}

// Compose maps answers onto the export layout. Answers carrying one of the
// section markers go through the parsed section path; the rest become a
// single prose block.
func Compose(meta Meta, turns []TurnContent, opt ComposeOptions) Document {
	doc := Document{Title: ProductName, Tagline: ProductTagline}

	dest := strings.TrimSpace(meta.Destination)
	if dest == "" {
		dest = NoDestination
	}
	doc.Info = append(doc.Info, "📍 Destino: "+dest)
	if meta.DateRange != "" {
		doc.Info = append(doc.Info, "📅 Fechas: "+meta.DateRange)
	}
	if meta.Weather != nil && !opt.Single {
		doc.Info = append(doc.Info, "🌡️ Clima actual: "+meta.Weather.Line())
	}

	for _, t := range turns {
		tb := TurnBlock{Question: t.Question}
		if t.Answer != "" {
			tb.Blocks = composeAnswer(t.Answer)
		}
		doc.Turns = append(doc.Turns, tb)
	}

	if !opt.Single {
		limit := opt.PhotoLimit
		if limit <= 0 {
			limit = 3
		}
		for i, p := range meta.Photos {
			if i == limit {
				break
			}
			doc.Photos = append(doc.Photos, Caption{Photo: p, Text: p.Caption})
		}
	}
	return doc
}

func composeAnswer(text string) []Block {
	if !answer.ContainsMarker(text) {
		prose := &Prose{}
		for _, ln := range answer.Lines(text) {
			if ln.Trimmed != "" {
				prose.Lines = append(prose.Lines, answer.Tokenize(ln.Trimmed))
			}
		}
		if len(prose.Lines) == 0 {
			return nil
		}
		return []Block{prose}
	}

	var out []Block
	for _, n := range answer.Parse(text).Nodes {
		switch v := n.(type) {
		case *answer.Section:
			tbl := &SectionTable{Emoji: v.Emoji, Title: v.Title}
			for _, c := range v.Children {
				if c.Kind != answer.BlankLine {
					tbl.Items = append(tbl.Items, c.Fragments)
				}
			}
			out = append(out, tbl)
		case answer.ContentLine:
			if v.Kind != answer.BlankLine {
				out = append(out, &Paragraph{Fragments: v.Fragments})
			}
		}
	}
	return out
}
