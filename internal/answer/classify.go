/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package answer

import (
	"regexp"
	"strings"
)

// ClassKind is the outcome of Classify.
type ClassKind int

const (
	ClassPlain ClassKind = iota
	ClassSectionHeader
	ClassBullet
	ClassBlank
)

// Classification is the result for a single trimmed line.
type Classification struct {
	Kind      ClassKind
	Section   SectionKind // ClassSectionHeader only
	Emoji     string      // ClassSectionHeader only
	Title     string      // ClassSectionHeader only
	Trailing  string      // header text after the closing "**"
	Marker    string      // ClassBullet only
	Content   string      // bullet text without marker, or the plain line
	InSection bool
}

var (
	// The food emoji may arrive with or without its variation selector.
	reHeader = regexp.MustCompile(`^(🏨|🍽\x{FE0F}?|📍|💡|💰)\s+\*\*(.+?):\*\*\s*(.*)$`)
	reBullet = regexp.MustCompile(`^([•\-\*]|\d+\.)\s+(.+)$`)
)

var emojiKinds = map[string]SectionKind{
	"🏨":       Lodging,
	"🍽\uFE0F": LocalFood,
	"🍽":       LocalFood,
	"📍":       MustSeePlaces,
	"💡":       LocalTips,
	"💰":       CostEstimate,
}

// Classify classifies a trimmed line. Precedence is header, blank, bullet,
// plain. Every rule applies regardless of inSection, so a header may open a
// new section while another is open; the flag is only recorded.
func Classify(trimmed string, inSection bool) Classification {
	c := Classification{InSection: inSection}
	if m := reHeader.FindStringSubmatch(trimmed); m != nil {
		kind := emojiKinds[m[1]]
		v, _ := kind.Vocab()
		c.Kind = ClassSectionHeader
		c.Section = kind
		c.Emoji = v.Emoji
		c.Title = m[2]
		c.Trailing = strings.TrimSpace(m[3])
		return c
	}
	if trimmed == "" {
		c.Kind = ClassBlank
		return c
	}
	if m := reBullet.FindStringSubmatch(trimmed); m != nil {
		c.Kind = ClassBullet
		c.Marker = m[1]
		c.Content = m[2]
		return c
	}
	c.Kind = ClassPlain
	c.Content = trimmed
	return c
}

// ContainsMarker reports whether text has at least one recognized section
// emoji or an upper-case section label such as "ALOJAMIENTO:".
func ContainsMarker(text string) bool {
	for _, v := range Vocabulary {
		if strings.Contains(text, strings.TrimSuffix(v.Emoji, "\uFE0F")) {
			return true
		}
		if strings.Contains(text, strings.ToUpper(v.Label)+":") {
			return true
		}
	}
	return false
}
