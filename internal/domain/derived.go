/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

var reOffset = regexp.MustCompile(`([+-])(\d{2}):(\d{2})`)

// ParseUTCOffset converts "+05:30" style offsets into seconds east of UTC.
func ParseUTCOffset(s string) (int, bool) {
	m := reOffset.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[2])
	mm, _ := strconv.Atoi(m[3])
	secs := (h*60 + mm) * 60
	if m[1] == "-" {
		secs = -secs
	}
	return secs, true
}

// DestinationClock returns the wall time at the destination for now, and the
// rounded hour difference between destination and now's own zone.
// Without a parsable offset it returns now unchanged and ok=false.
func (t TimezoneOffset) DestinationClock(now time.Time) (dest time.Time, diffHours int, ok bool) {
	secs, ok := ParseUTCOffset(t.UTCOffset)
	if !ok {
		return now, 0, false
	}
	zone := time.FixedZone("UTC"+t.UTCOffset, secs)
	_, local := now.Zone()
	diff := float64(secs-local) / 3600
	return now.In(zone), int(math.Round(diff)), true
}

// FormatHourDiff renders a difference as "+3h", "-5h" or "0h".
func FormatHourDiff(h int) string {
	if h > 0 {
		return fmt.Sprintf("+%dh", h)
	}
	return fmt.Sprintf("%dh", h)
}

// Line renders the rate as "1 USD = 0.92 EUR".
func (e ExchangeRate) Line() string {
	return fmt.Sprintf("1 %s = %s %s", e.Base, strconv.FormatFloat(e.Rate, 'f', -1, 64), e.Target)
}

// Line renders the compact weather summary used in exports, "21.5°C - cielo claro".
func (w Weather) Line() string {
	return fmt.Sprintf("%s°C - %s", strconv.FormatFloat(math.Round(w.Temperature*10)/10, 'f', -1, 64), w.Description)
}
