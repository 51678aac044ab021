/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package answer

import "strings"

// Lines splits text on "\n" into Line values. The empty string has no lines.
func Lines(text string) []Line {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "\n")
	out := make([]Line, len(parts))
	for i, raw := range parts {
		out[i] = Line{Raw: raw, Trimmed: strings.TrimSpace(raw), Index: i}
	}
	return out
}

// Parse builds a Document in one pass. It never fails: anything outside the
// grammar becomes plain text.
func Parse(text string) Document {
	doc := Document{}
	var open *Section

	emit := func(c ContentLine) {
		if open != nil {
			open.Children = append(open.Children, c)
			return
		}
		doc.Nodes = append(doc.Nodes, c)
	}
	flush := func() {
		if open != nil {
			doc.Nodes = append(doc.Nodes, open)
			open = nil
		}
	}

	for _, ln := range Lines(text) {
		c := Classify(ln.Trimmed, open != nil)
		switch c.Kind {
		case ClassSectionHeader:
			flush()
			open = &Section{Kind: c.Section, Emoji: c.Emoji, Title: c.Title, Line: ln.Index}
			if c.Trailing != "" {
				open.Children = append(open.Children, ContentLine{Kind: TextLine, Fragments: Tokenize(c.Trailing), Line: ln.Index})
			}
		case ClassBlank:
			emit(ContentLine{Kind: BlankLine, Line: ln.Index})
		case ClassBullet:
			emit(ContentLine{Kind: BulletLine, Marker: c.Marker, Fragments: Tokenize(c.Content), Line: ln.Index})
		default:
			emit(ContentLine{Kind: TextLine, Fragments: Tokenize(c.Content), Line: ln.Index})
		}
	}
	flush()
	return doc
}
