//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fyne.io/fyne/v2/widget"

	"viajeia/internal/view"
)

// Segments converts a rendered turn into rich-text segments. Bold spans
// become strong inline runs, section headers become sub-headings and
// every line ends its paragraph on its last run.
func Segments(turn *view.Element) []widget.RichTextSegment {
	var out []widget.RichTextSegment
	var walk func(e *view.Element)
	walk = func(e *view.Element) {
		switch e.Kind {
		case view.KindQuestion:
			out = append(out, &widget.TextSegment{Text: e.Text, Style: blockOf(widget.RichTextStyleStrong)})
		case view.KindSectionHeader:
			out = append(out, &widget.TextSegment{Text: e.Emoji + " " + e.Text, Style: widget.RichTextStyleSubHeading})
		case view.KindBreak:
			out = append(out, &widget.TextSegment{Style: widget.RichTextStyleParagraph})
		case view.KindBullet:
			out = append(out, line(view.BulletGlyph+" ", e.Children)...)
		case view.KindLine:
			out = append(out, line("", e.Children)...)
		default:
			for _, c := range e.Children {
				walk(c)
			}
		}
	}
	walk(turn)
	return out
}

func line(lead string, runs []*view.Element) []widget.RichTextSegment {
	segs := make([]widget.RichTextSegment, 0, len(runs)+1)
	if lead != "" {
		segs = append(segs, &widget.TextSegment{Text: lead, Style: widget.RichTextStyleInline})
	}
	for _, r := range runs {
		style := widget.RichTextStyleInline
		if r.Kind == view.KindBold {
			style = widget.RichTextStyleStrong
		}
		segs = append(segs, &widget.TextSegment{Text: r.Text, Style: style})
	}
	if len(segs) == 0 {
		return []widget.RichTextSegment{&widget.TextSegment{Style: widget.RichTextStyleParagraph}}
	}
	last := segs[len(segs)-1].(*widget.TextSegment)
	last.Style = blockOf(last.Style)
	return segs
}

func blockOf(s widget.RichTextStyle) widget.RichTextStyle {
	s.Inline = false
	return s
}
