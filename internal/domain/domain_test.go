/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseUTCOffset(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"+01:00", 3600, true},
		{"-05:00", -5 * 3600, true},
		{"+05:30", 5*3600 + 1800, true},
		{"UTC", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseUTCOffset(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseUTCOffset(%q) = %d,%v want %d,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestDestinationClock(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("local", -3*3600))
	dest, diff, ok := TimezoneOffset{UTCOffset: "+01:00", City: "Madrid"}.DestinationClock(now)
	if !ok {
		t.Fatalf("expected ok")
	}
	if dest.Hour() != 16 {
		t.Fatalf("dest hour = %d, want 16", dest.Hour())
	}
	if diff != 4 || FormatHourDiff(diff) != "+4h" {
		t.Fatalf("diff = %d (%s), want +4h", diff, FormatHourDiff(diff))
	}
	if FormatHourDiff(-5) != "-5h" || FormatHourDiff(0) != "0h" {
		t.Fatalf("unexpected FormatHourDiff output")
	}
	if _, _, ok := (TimezoneOffset{UTCOffset: "bogus"}).DestinationClock(now); ok {
		t.Fatalf("bogus offset should not be ok")
	}
}

func TestExchangeAndWeatherLines(t *testing.T) {
	if got, want := (ExchangeRate{Base: "USD", Rate: 0.92, Target: "EUR"}).Line(), "1 USD = 0.92 EUR"; got != want {
		t.Fatalf("Line() = %q, want %q", got, want)
	}
	if got, want := (Weather{Temperature: 21.46, Description: "cielo claro"}).Line(), "21.5°C - cielo claro"; got != want {
		t.Fatalf("Line() = %q, want %q", got, want)
	}
}

func TestSideDataEmpty(t *testing.T) {
	if !(SideData{}).Empty() {
		t.Fatalf("zero SideData should be empty")
	}
	sd := SideDataFrom(Response{AnswerText: "x", Destination: "Lima"})
	if sd.Empty() || sd.Destination != "Lima" {
		t.Fatalf("unexpected side data: %+v", sd)
	}
}

func TestFavoriteJSONRoundTrip(t *testing.T) {
	f := Favorite{ID: 7, Destination: "Kyoto", Photo: &Photo{URL: "https://img/1.jpg"}, SavedAt: "2026-01-02"}
	b, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Favorite
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Destination != "Kyoto" || got.Photo == nil || got.Photo.URL != f.Photo.URL {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
