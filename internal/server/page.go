/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package server

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"viajeia/internal/domain"
	"viajeia/internal/export"
	"viajeia/internal/view"
)

const pageStyle = `
body{font-family:sans-serif;margin:0;background:#f5f7fa;color:#333}
header{background:#667eea;color:#fff;padding:16px 24px}
header p{margin:4px 0 0;opacity:.85}
.layout{display:flex;gap:16px;padding:16px}
.chat{flex:3}.side-panel{flex:1;background:#fff;border-radius:8px;padding:12px}
.turn{background:#fff;border-radius:8px;padding:12px;margin-bottom:12px}
.question{font-weight:bold;color:#667eea;margin-bottom:8px}
.response-section{border:1px solid #e2e8f0;border-radius:6px;margin:8px 0}
.section-header{display:block;background:#667eea;color:#fff;padding:6px 10px}
.section-icon{margin-right:6px}.section-content{padding:6px 10px}
.bullet-item{display:block;margin:2px 0}.side-panel img{max-width:100%;border-radius:6px}
`

func node(a atom.Atom, class string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func textNode(s string) *html.Node { return &html.Node{Type: html.TextNode, Data: s} }

func attr(n *html.Node, key, val string) *html.Node {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	return n
}

// sidePanel lists the pinned destination data.
func sidePanel(side domain.SideData, now time.Time) *html.Node {
	panel := node(atom.Aside, "side-panel")
	if side.Empty() {
		panel.AppendChild(node(atom.P, "side-empty", textNode("Sin destino todavía")))
		return panel
	}
	dest := side.Destination
	if dest == "" {
		dest = export.NoDestination
	}
	panel.AppendChild(node(atom.H2, "side-destination", textNode(dest)))
	if side.Weather != nil {
		panel.AppendChild(node(atom.P, "side-weather", textNode("🌡️ "+side.Weather.Line())))
	}
	if side.Aux != nil && side.Aux.Timezone != nil {
		if t, diff, ok := side.Aux.Timezone.DestinationClock(now); ok {
			line := fmt.Sprintf("🕐 %s (%s)", t.Format("15:04"), domain.FormatHourDiff(diff))
			panel.AppendChild(node(atom.P, "side-clock", textNode(line)))
		}
	}
	if side.Aux != nil && side.Aux.ExchangeRate != nil {
		panel.AppendChild(node(atom.P, "side-rate", textNode("💱 "+side.Aux.ExchangeRate.Line())))
	}
	for _, p := range side.Photos {
		src := p.SmallURL
		if src == "" {
			src = p.URL
		}
		img := attr(attr(node(atom.Img, ""), "src", src), "alt", p.Caption)
		panel.AppendChild(node(atom.Figure, "side-photo", img))
	}
	return panel
}

// handlePage renders the whole conversation as a static chat page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	side, _ := s.conv.Pinned()
	chat := node(atom.Main, "chat")
	for _, t := range s.conv.Turns() {
		for _, n := range view.HTMLNodes([]*view.Element{view.BuildTurn(t.Key(), t.Question(), t.Document())}) {
			chat.AppendChild(n)
		}
	}

	title := node(atom.Title, "", textNode(export.ProductName))
	meta := attr(node(atom.Meta, ""), "charset", "utf-8")
	style := node(atom.Style, "", textNode(pageStyle))
	head := node(atom.Head, "", meta, title, style)
	header := node(atom.Header, "",
		node(atom.H1, "", textNode("✈️ "+export.ProductName)),
		node(atom.P, "", textNode(export.ProductTagline)))
	body := node(atom.Body, "", header, node(atom.Div, "layout", chat, sidePanel(side, time.Now())))
	root := attr(node(atom.Html, "", head, body), "lang", "es")

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := html.Render(w, doc); err != nil {
		s.log.Warn("render page failed", "err", err)
	}
}
