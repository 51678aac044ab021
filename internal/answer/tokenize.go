/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package answer

import "strings"

const delim = "**"

// Tokenize splits a line into plain and bold fragments. Delimiters pair up
// left to right with the shortest match; an unpaired "**" stays literal.
// Empty plain runs are omitted, empty bold spans are kept.
func Tokenize(line string) []Fragment {
	var out []Fragment
	pos := 0
	rest := line
	for {
		open := strings.Index(rest, delim)
		if open < 0 {
			break
		}
		closeAt := strings.Index(rest[open+len(delim):], delim)
		if closeAt < 0 {
			break
		}
		if open > 0 {
			out = append(out, Fragment{Text: rest[:open], Pos: pos})
		}
		inner := rest[open+len(delim) : open+len(delim)+closeAt]
		out = append(out, Fragment{Bold: true, Text: inner, Pos: pos + 1})
		pos += 2
		rest = rest[open+2*len(delim)+closeAt:]
	}
	if rest != "" {
		out = append(out, Fragment{Text: rest, Pos: pos})
	}
	return out
}

// PlainText concatenates fragment texts.
func PlainText(frags []Fragment) string {
	var b strings.Builder
	for _, f := range frags {
		b.WriteString(f.Text)
	}
	return b.String()
}

// HasEmphasis reports whether any fragment is bold.
func HasEmphasis(frags []Fragment) bool {
	for _, f := range frags {
		if f.Bold {
			return true
		}
	}
	return false
}
