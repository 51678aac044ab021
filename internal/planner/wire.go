/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package planner

import "viajeia/internal/domain"

// Wire types mirror the backend's JSON. Optional objects are pointers so a
// JSON null and a missing key both decode to nil.

type askRequest struct {
	Question  string `json:"pregunta"`
	SessionID string `json:"session_id,omitempty"`
}

type wireWeather struct {
	Temperature float64 `json:"temperatura"`
	Description string  `json:"descripcion"`
	FeelsLike   float64 `json:"sensacion_termica"`
	Humidity    float64 `json:"humedad"`
	Wind        float64 `json:"viento"`
	City        string  `json:"ciudad"`
	Country     string  `json:"pais"`
	Icon        string  `json:"icono"`
}

type wirePhoto struct {
	URL         string  `json:"url"`
	SmallURL    string  `json:"url_small"`
	ThumbURL    string  `json:"url_thumb"`
	Author      *string `json:"autor"`
	AuthorURL   *string `json:"autor_url"`
	Description *string `json:"descripcion"`
}

type wireRate struct {
	Base   string  `json:"base"`
	Target string  `json:"target"`
	Rate   float64 `json:"rate"`
	Date   string  `json:"fecha"`
}

type wireTZ struct {
	Timezone  string `json:"timezone"`
	UTCOffset string `json:"utc_offset"`
	City      string `json:"ciudad"`
}

type wireAux struct {
	Rate *wireRate `json:"tipo_cambio"`
	TZ   *wireTZ   `json:"diferencia_horaria"`
}

type wireExchange struct {
	Question string `json:"pregunta"`
	Answer   string `json:"respuesta"`
}

type wireResponse struct {
	Answer      string         `json:"respuesta"`
	Destination *string        `json:"destino"`
	SessionID   *string        `json:"session_id"`
	First       *bool          `json:"es_primera_pregunta"`
	Weather     *wireWeather   `json:"clima"`
	Photos      []wirePhoto    `json:"fotos"`
	Aux         *wireAux       `json:"info_adicional"`
	History     []wireExchange `json:"historial"`
}

type wireError struct {
	Error string `json:"error"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (w wireResponse) toDomain() domain.Response {
	r := domain.Response{
		AnswerText:  w.Answer,
		Destination: str(w.Destination),
		SessionID:   str(w.SessionID),
		First:       w.First != nil && *w.First,
	}
	if w.Weather != nil {
		r.Weather = &domain.Weather{
			Temperature: w.Weather.Temperature,
			Description: w.Weather.Description,
			FeelsLike:   w.Weather.FeelsLike,
			Humidity:    int(w.Weather.Humidity),
			Wind:        w.Weather.Wind,
			City:        w.Weather.City,
			Country:     w.Weather.Country,
			Icon:        w.Weather.Icon,
		}
	}
	for _, p := range w.Photos {
		r.Photos = append(r.Photos, domain.Photo{
			URL:          p.URL,
			SmallURL:     p.SmallURL,
			ThumbnailURL: p.ThumbURL,
			Caption:      str(p.Description),
			Author:       str(p.Author),
			AuthorURL:    str(p.AuthorURL),
		})
	}
	if w.Aux != nil && (w.Aux.Rate != nil || w.Aux.TZ != nil) {
		r.Aux = &domain.AuxInfo{}
		if w.Aux.Rate != nil {
			r.Aux.ExchangeRate = &domain.ExchangeRate{Base: w.Aux.Rate.Base, Rate: w.Aux.Rate.Rate, Target: w.Aux.Rate.Target, Date: w.Aux.Rate.Date}
		}
		if w.Aux.TZ != nil {
			r.Aux.Timezone = &domain.TimezoneOffset{Timezone: w.Aux.TZ.Timezone, UTCOffset: w.Aux.TZ.UTCOffset, City: w.Aux.TZ.City}
		}
	}
	for _, h := range w.History {
		r.History = append(r.History, domain.Exchange{Question: h.Question, Answer: h.Answer})
	}
	return r
}
