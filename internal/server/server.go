/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package server exposes a conversation over HTTP: a chat page built from
// the rendered tree, a JSON API, PDF export and favorites.
package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"viajeia/internal/export"
	applog "viajeia/internal/log"
	"viajeia/internal/planner"
	"viajeia/internal/session"
	"viajeia/internal/store"
)

// Deps are the collaborators a Server needs. Store may be nil, in which
// case history is not persisted and the favorites routes answer 503.
type Deps struct {
	Planner  planner.Asker
	Exporter *export.Exporter
	Store    store.Store
	Metrics  *Metrics
}

// Server holds one conversation and serves it.
type Server struct {
	router chi.Router
	deps   Deps
	conv   *session.Conversation
	log    *slog.Logger

	mu        sync.Mutex
	dateRange string
	historyID string // last session persisted to the store
}

// New builds a Server and its routes.
func New(deps Deps) *Server {
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	s := &Server{
		deps: deps,
		conv: session.New(),
		log:  applog.WithComponent("server"),
	}
	s.setupRoutes()
	return s
}

// Conversation exposes the served conversation.
func (s *Server) Conversation() *session.Conversation { return s.conv }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.log, s.deps.Metrics))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.deps.Metrics.Handler())

	r.Get("/", s.handlePage)
	r.Route("/api", func(r chi.Router) {
		r.Post("/ask", s.handleAsk)
		r.Post("/turns", s.handleInjectTurn)
		r.Get("/conversation", s.handleConversation)
		r.Delete("/conversation", s.handleClear)
		r.Get("/export", s.handleExport)
		r.Get("/history", s.handleHistory)

		r.Get("/favorites", s.handleListFavorites)
		r.Post("/favorites", s.handleSaveFavorite)
		r.Delete("/favorites/{destination}", s.handleDeleteFavorite)
		r.Post("/favorites/{destination}/load", s.handleLoadFavorite)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) setDateRange(v string) {
	s.mu.Lock()
	s.dateRange = v
	s.mu.Unlock()
}

func (s *Server) currentDateRange() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dateRange
}
