/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package view

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLNodes converts elements into an x/net/html fragment. Class names
// follow the chat stylesheet served by the web UI.
func HTMLNodes(elems []*Element) []*html.Node {
	out := make([]*html.Node, 0, len(elems))
	for _, e := range elems {
		out = append(out, htmlNode(e))
	}
	return out
}

// RenderHTML writes elements as an HTML fragment.
func RenderHTML(w io.Writer, elems []*Element) error {
	for _, n := range HTMLNodes(elems) {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

func elem(a atom.Atom, key, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if key != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "data-key", Val: key})
	}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	return n
}

func text(s string) *html.Node { return &html.Node{Type: html.TextNode, Data: s} }

func htmlNode(e *Element) *html.Node {
	var n *html.Node
	switch e.Kind {
	case KindTurn:
		n = elem(atom.Div, e.Key, "turn")
	case KindQuestion:
		n = elem(atom.Div, e.Key, "question")
		n.AppendChild(text(e.Text))
	case KindSection:
		n = elem(atom.Div, e.Key, "response-section")
	case KindSectionHeader:
		n = elem(atom.Div, e.Key, "section-header")
		icon := elem(atom.Span, "", "section-icon")
		icon.AppendChild(text(e.Emoji))
		title := elem(atom.Span, "", "section-title")
		title.AppendChild(text(e.Text))
		n.AppendChild(icon)
		n.AppendChild(title)
	case KindSectionContent:
		n = elem(atom.Div, e.Key, "section-content")
	case KindBullet:
		n = elem(atom.Div, e.Key, "bullet-item")
		glyph := elem(atom.Span, "", "bullet")
		glyph.AppendChild(text(e.Text))
		n.AppendChild(glyph)
		n.AppendChild(text(" "))
	case KindLine:
		n = elem(atom.Div, e.Key, "content-line")
	case KindBreak:
		return elem(atom.Br, e.Key, "")
	case KindBold:
		n = elem(atom.Strong, e.Key, "")
		n.AppendChild(text(e.Text))
		return n
	default:
		return text(e.Text)
	}
	for _, c := range e.Children {
		n.AppendChild(htmlNode(c))
	}
	return n
}
