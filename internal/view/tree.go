/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package view

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"viajeia/internal/answer"
)

// BulletGlyph replaces every source bullet marker on screen.
const BulletGlyph = "•"

// Kind is the role of an Element.
type Kind int

const (
	KindTurn Kind = iota
	KindQuestion
	KindSection
	KindSectionHeader
	KindSectionContent
	KindBullet
	KindLine
	KindBreak
	KindText
	KindBold
)

var kindNames = [...]string{"turn", "question", "section", "section-header", "section-content", "bullet", "line", "br", "text", "bold"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Element is one node of the interactive tree. Key is stable across
// re-renders of the same content at the same position.
type Element struct {
	Key      string
	Kind     Kind
	Text     string // leaf text, header title, or the bullet glyph
	Emoji    string // section header only
	Children []*Element
}

// FirstTurnKey derives the first turn's key from the answer's opening text.
func FirstTurnKey(answerText string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prefix(answerText, 50)))
	return fmt.Sprintf("first-%08x", h.Sum32())
}

// FollowUpTurnKey derives a follow-up key from its position and question.
func FollowUpTurnKey(index int, question string) string {
	return fmt.Sprintf("follow-%d-%s", index, slug(prefix(question, 15)))
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

func slug(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, s)
}

// Build maps a parsed answer to display elements. An empty document yields
// no elements.
func Build(turnKey string, doc answer.Document) []*Element {
	var out []*Element
	for _, n := range doc.Nodes {
		switch v := n.(type) {
		case *answer.Section:
			out = append(out, buildSection(turnKey, v))
		case answer.ContentLine:
			out = append(out, buildLine(turnKey, v))
		}
	}
	return out
}

// BuildTurn wraps a turn's answer with its question marker, if any.
func BuildTurn(turnKey, question string, doc answer.Document) *Element {
	turn := &Element{Key: turnKey, Kind: KindTurn}
	if question != "" {
		turn.Children = append(turn.Children, &Element{Key: turnKey + "/question", Kind: KindQuestion, Text: question})
	}
	turn.Children = append(turn.Children, Build(turnKey, doc)...)
	return turn
}

func buildSection(turnKey string, s *answer.Section) *Element {
	key := fmt.Sprintf("%s/section-%d", turnKey, s.Line)
	content := &Element{Key: key + "/content", Kind: KindSectionContent}
	for _, c := range s.Children {
		content.Children = append(content.Children, buildLine(turnKey, c))
	}
	return &Element{
		Key:  key,
		Kind: KindSection,
		Children: []*Element{
			{Key: key + "/header", Kind: KindSectionHeader, Emoji: s.Emoji, Text: s.Title},
			content,
		},
	}
}

func buildLine(turnKey string, c answer.ContentLine) *Element {
	switch c.Kind {
	case answer.BlankLine:
		return &Element{Key: fmt.Sprintf("%s/br-%d", turnKey, c.Line), Kind: KindBreak}
	case answer.BulletLine:
		key := fmt.Sprintf("%s/bullet-%d", turnKey, c.Line)
		return &Element{Key: key, Kind: KindBullet, Text: BulletGlyph, Children: inline(key, c.Fragments)}
	}
	key := fmt.Sprintf("%s/line-%d", turnKey, c.Line)
	return &Element{Key: key, Kind: KindLine, Children: inline(key, c.Fragments)}
}

// inline keeps empty bold fragments; their Pos keeps later keys stable.
func inline(parent string, frags []answer.Fragment) []*Element {
	out := make([]*Element, 0, len(frags))
	for _, f := range frags {
		if f.Bold {
			out = append(out, &Element{Key: fmt.Sprintf("%s/bold-%d", parent, f.Pos), Kind: KindBold, Text: f.Text})
			continue
		}
		out = append(out, &Element{Key: fmt.Sprintf("%s/text-%d", parent, f.Pos), Kind: KindText, Text: f.Text})
	}
	return out
}

// Walk visits e and its descendants depth-first.
func Walk(e *Element, fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		Walk(c, fn)
	}
}
