/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the data exchanged between the planner collaborator, the
// conversation state and the renderers. Field names are English; the planner
// client maps the backend's Spanish JSON keys onto them.

// Weather is a current-conditions snapshot for the destination.
type Weather struct {
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	FeelsLike   float64 `json:"feelsLike"`
	Humidity    int     `json:"humidity"`
	Wind        float64 `json:"wind"` // m/s
	City        string  `json:"city"`
	Country     string  `json:"country,omitempty"`
	Icon        string  `json:"icon,omitempty"`
}

// Photo is one destination photo with optional attribution.
type Photo struct {
	URL          string `json:"url"`
	SmallURL     string `json:"smallUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Caption      string `json:"caption,omitempty"`
	Author       string `json:"author,omitempty"`
	AuthorURL    string `json:"authorUrl,omitempty"`
}

// TimezoneOffset carries the destination's UTC offset ("±HH:MM").
type TimezoneOffset struct {
	Timezone  string `json:"timezone,omitempty"`
	UTCOffset string `json:"utcOffset"`
	City      string `json:"city"`
}

// ExchangeRate is "1 Base = Rate Target".
type ExchangeRate struct {
	Base   string  `json:"base"`
	Rate   float64 `json:"rate"`
	Target string  `json:"target"`
	Date   string  `json:"date,omitempty"`
}

// AuxInfo groups the optional auxiliary panels.
type AuxInfo struct {
	Timezone     *TimezoneOffset `json:"timezone,omitempty"`
	ExchangeRate *ExchangeRate   `json:"exchangeRate,omitempty"`
}

// Exchange is one persisted question/answer pair of the backend history.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Response is one planner reply as seen by the core.
type Response struct {
	AnswerText  string     `json:"answerText"`
	Weather     *Weather   `json:"weather,omitempty"`
	Photos      []Photo    `json:"photos,omitempty"`
	Destination string     `json:"destination,omitempty"`
	Aux         *AuxInfo   `json:"aux,omitempty"`
	SessionID   string     `json:"sessionId,omitempty"`
	First       bool       `json:"first,omitempty"`
	History     []Exchange `json:"history,omitempty"`
}

// SideData is the side-panel information pinned from the first turn.
type SideData struct {
	Destination string   `json:"destination,omitempty"`
	Weather     *Weather `json:"weather,omitempty"`
	Photos      []Photo  `json:"photos,omitempty"`
	Aux         *AuxInfo `json:"aux,omitempty"`
}

// SideDataFrom extracts the pinnable parts of a response.
func SideDataFrom(r Response) SideData {
	return SideData{Destination: r.Destination, Weather: r.Weather, Photos: r.Photos, Aux: r.Aux}
}

// Empty reports whether nothing would be shown in the side panel.
func (s SideData) Empty() bool {
	return s.Destination == "" && s.Weather == nil && len(s.Photos) == 0 && s.Aux == nil
}

// Favorite is a saved destination with the side data it was saved with.
type Favorite struct {
	ID          int64    `json:"id"`
	Destination string   `json:"destination"`
	Weather     *Weather `json:"weather,omitempty"`
	Photo       *Photo   `json:"photo,omitempty"` // first photo only
	Aux         *AuxInfo `json:"aux,omitempty"`
	SavedAt     string   `json:"savedAt"`
}
