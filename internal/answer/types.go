/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package answer

// SectionKind identifies one of the five recognized section headers.
type SectionKind int

const (
	Lodging SectionKind = iota + 1
	LocalFood
	MustSeePlaces
	LocalTips
	CostEstimate
)

// Vocab binds a section kind to its emoji and label. The pairing is shared
// with the upstream answer generator and must change in lockstep with it.
type Vocab struct {
	Kind  SectionKind
	Emoji string
	Label string
}

// Vocabulary is the closed set of section headers, in display order.
var Vocabulary = []Vocab{
	{Lodging, "🏨", "Alojamiento"},
	{LocalFood, "🍽️", "Comida Local"},
	{MustSeePlaces, "📍", "Lugares Imperdibles"},
	{LocalTips, "💡", "Consejos Locales"},
	{CostEstimate, "💰", "Estimación de Costos"},
}

func (k SectionKind) String() string {
	switch k {
	case Lodging:
		return "lodging"
	case LocalFood:
		return "local-food"
	case MustSeePlaces:
		return "must-see-places"
	case LocalTips:
		return "local-tips"
	case CostEstimate:
		return "cost-estimate"
	}
	return "unknown"
}

// Vocab returns the vocabulary entry of k.
func (k SectionKind) Vocab() (Vocab, bool) {
	for _, v := range Vocabulary {
		if v.Kind == k {
			return v, true
		}
	}
	return Vocab{}, false
}

// Line is one newline-delimited unit of the input.
type Line struct {
	Raw     string
	Trimmed string
	Index   int
}

// Fragment is a run of inline text; Bold marks a `**…**` span.
// Pos is the fragment's slot in the delimiter split (even plain, odd bold)
// and stays stable even when neighbouring fragments are empty.
type Fragment struct {
	Bold bool
	Text string
	Pos  int
}

// LineKind classifies a ContentLine.
type LineKind int

const (
	TextLine LineKind = iota
	BulletLine
	BlankLine
)

func (k LineKind) String() string {
	switch k {
	case BulletLine:
		return "bullet"
	case BlankLine:
		return "blank"
	}
	return "text"
}

// ContentLine is a bullet, a prose line, or a blank marker.
type ContentLine struct {
	Kind      LineKind
	Marker    string // source bullet marker, "" unless Kind == BulletLine
	Fragments []Fragment
	Line      int // zero-based source line index
}

// Text returns the line content with emphasis removed.
func (c ContentLine) Text() string { return PlainText(c.Fragments) }

// Section groups the content lines that follow a header.
type Section struct {
	Kind     SectionKind
	Emoji    string
	Title    string
	Line     int
	Children []ContentLine
}

// Node is either a *Section or a ContentLine at the top level.
type Node interface{ isNode() }

func (*Section) isNode()    {}
func (ContentLine) isNode() {}

// Document is the renderer-agnostic result of Parse.
type Document struct {
	Nodes []Node
}

// Empty reports whether the document has no nodes.
func (d Document) Empty() bool { return len(d.Nodes) == 0 }

// Sections returns the sections in order.
func (d Document) Sections() []*Section {
	var out []*Section
	for _, n := range d.Nodes {
		if s, ok := n.(*Section); ok {
			out = append(out, s)
		}
	}
	return out
}

// LineIndices lists the distinct source line indices covered by the
// document, in order. For a parsed input it equals 0..n-1.
func (d Document) LineIndices() []int {
	var out []int
	add := func(i int) {
		if len(out) == 0 || out[len(out)-1] != i {
			out = append(out, i)
		}
	}
	for _, n := range d.Nodes {
		switch v := n.(type) {
		case *Section:
			add(v.Line)
			for _, c := range v.Children {
				add(c.Line)
			}
		case ContentLine:
			add(v.Line)
		}
	}
	return out
}
