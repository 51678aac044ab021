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
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal styles.
var (
	ColorAccent = lipgloss.Color("#00AFAF")
	ColorMuted  = lipgloss.Color("#888888")

	QuestionStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorMuted)
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	BoldStyle     = lipgloss.NewStyle().Bold(true)
	BulletStyle   = lipgloss.NewStyle().Foreground(ColorAccent)
	ContentStyle  = lipgloss.NewStyle().PaddingLeft(2)
)

// RenderTerminal writes elements as styled text. width <= 0 disables wrapping.
func RenderTerminal(w io.Writer, elems []*Element, width int) error {
	var b strings.Builder
	for _, e := range elems {
		termElement(&b, e, width)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func termElement(b *strings.Builder, e *Element, width int) {
	switch e.Kind {
	case KindTurn:
		for _, c := range e.Children {
			termElement(b, c, width)
		}
		b.WriteString("\n")
	case KindQuestion:
		b.WriteString(QuestionStyle.Render("> "+e.Text) + "\n\n")
	case KindSection:
		for _, c := range e.Children {
			termElement(b, c, width)
		}
	case KindSectionHeader:
		b.WriteString(HeaderStyle.Render(e.Emoji+" "+e.Text) + "\n")
	case KindSectionContent:
		var inner strings.Builder
		for _, c := range e.Children {
			termElement(&inner, c, width-2)
		}
		style := ContentStyle
		if width > 2 {
			style = style.Width(width)
		}
		b.WriteString(style.Render(strings.TrimRight(inner.String(), "\n")) + "\n")
	case KindBullet:
		b.WriteString(wrap(BulletStyle.Render(e.Text)+" "+inlineText(e.Children), width) + "\n")
	case KindLine:
		b.WriteString(wrap(inlineText(e.Children), width) + "\n")
	case KindBreak:
		b.WriteString("\n")
	default:
		b.WriteString(e.Text)
	}
}

func inlineText(children []*Element) string {
	var b strings.Builder
	for _, c := range children {
		if c.Kind == KindBold {
			b.WriteString(BoldStyle.Render(c.Text))
			continue
		}
		b.WriteString(c.Text)
	}
	return b.String()
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
