/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var reSpaces = regexp.MustCompile(`\s+`)

// Filename returns "ViajeIA_<destination>_<YYYY-MM-DD>.pdf" with whitespace
// runs in the destination replaced by "_" and the date taken in UTC.
func Filename(destination string, now time.Time) string {
	dest := strings.TrimSpace(destination)
	if dest == "" {
		dest = NoDestination
	}
	return fmt.Sprintf("%s_%s_%s.pdf", ProductName, reSpaces.ReplaceAllString(dest, "_"), now.UTC().Format("2006-01-02"))
}
