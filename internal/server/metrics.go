/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are registered on a private registry so several servers (and
// tests) can coexist in one process.
type Metrics struct {
	reg            *prometheus.Registry
	requests       *prometheus.CounterVec
	askDuration    prometheus.Histogram
	exports        *prometheus.CounterVec
	exportDuration prometheus.Histogram
	exportPages    prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "viajeia_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"route", "status"}),
		askDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "viajeia_planner_ask_seconds",
			Help:    "Planner round-trip latency.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "viajeia_exports_total",
			Help: "PDF exports by result.",
		}, []string{"result"}),
		exportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "viajeia_export_seconds",
			Help:    "Time to render and encode an export.",
			Buckets: prometheus.DefBuckets,
		}),
		exportPages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "viajeia_export_pages",
			Help:    "Pages per exported PDF.",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
	}
	m.reg.MustRegister(m.requests, m.askDuration, m.exports, m.exportDuration, m.exportPages)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) observeExport(result string, d time.Duration, pages int) {
	m.exports.WithLabelValues(result).Inc()
	if result == "ok" {
		m.exportDuration.Observe(d.Seconds())
		m.exportPages.Observe(float64(pages))
	}
}

// requestLogger logs each request and counts it by route pattern.
func requestLogger(log *slog.Logger, m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			m.requests.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
