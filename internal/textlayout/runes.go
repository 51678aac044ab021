/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import "strings"

// StripEmoji removes pictographs, variation selectors and joiners that the
// bundled fonts cannot draw, then collapses the spaces left behind.
func StripEmoji(s string) string {
	out := strings.Map(func(r rune) rune {
		switch {
		case r >= 0x1F000 && r <= 0x1FAFF,
			r >= 0x2600 && r <= 0x27BF,
			r >= 0x2B00 && r <= 0x2BFF,
			r >= 0xFE00 && r <= 0xFE0F,
			r == 0x200D:
			return -1
		}
		return r
	}, s)
	if out == s {
		return s
	}
	return strings.Join(strings.Fields(out), " ")
}
