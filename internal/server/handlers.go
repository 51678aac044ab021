/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"viajeia/internal/domain"
	"viajeia/internal/export"
	"viajeia/internal/planner"
	"viajeia/internal/session"
	"viajeia/internal/store"
	"viajeia/internal/view"
)

// ExportErrorMessage is shown when a PDF could not be produced.
const ExportErrorMessage = "Error al generar el PDF. Por favor, intenta de nuevo."

// localSession keys persisted history until the planner hands out an id.
const localSession = "local"

type turnView struct {
	Index    int    `json:"index"`
	Key      string `json:"key"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	HTML     string `json:"html"`
}

type conversationView struct {
	SessionID string          `json:"sessionId,omitempty"`
	DateRange string          `json:"dateRange,omitempty"`
	Side      domain.SideData `json:"side"`
	Turns     []turnView      `json:"turns"`
}

func renderTurn(t session.Turn) turnView {
	var buf bytes.Buffer
	_ = view.RenderHTML(&buf, []*view.Element{view.BuildTurn(t.Key(), t.Question(), t.Document())})
	return turnView{Index: t.Index(), Key: t.Key(), Question: t.Question(), Answer: t.Answer(), HTML: buf.String()}
}

func (s *Server) snapshot() conversationView {
	side, _ := s.conv.Pinned()
	out := conversationView{SessionID: s.conv.SessionID(), DateRange: s.currentDateRange(), Side: side, Turns: []turnView{}}
	for _, t := range s.conv.Turns() {
		out.Turns = append(out.Turns, renderTurn(t))
	}
	return out
}

type askBody struct {
	Question string            `json:"question"`
	Form     *session.TripForm `json:"form,omitempty"`
}

// handleAsk sends a question (or a filled trip form) to the planner and
// appends the reply as the next turn.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var body askBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	question, display := strings.TrimSpace(body.Question), ""
	if body.Form != nil {
		if err := body.Form.Validate(); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		question, display = body.Form.Question(), body.Form.DisplayQuestion()
		s.setDateRange(body.Form.DateRange())
	}
	if question == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}
	if display == "" {
		display = question
	}
	if s.deps.Planner == nil {
		jsonError(w, "planner not configured", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	resp, err := s.deps.Planner.Ask(r.Context(), question, s.conv.SessionID())
	s.deps.Metrics.askDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		msg := planner.DefaultErrorMessage
		var apiErr *planner.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.Message
		}
		s.log.Warn("ask failed", "err", err)
		jsonError(w, msg, http.StatusBadGateway)
		return
	}
	t := s.conv.Append(display, resp)
	s.persist(r.Context(), t)
	writeJSON(w, http.StatusOK, renderTurn(t))
}

type injectBody struct {
	Question string          `json:"question"`
	Response domain.Response `json:"response"`
}

// handleInjectTurn appends an already decoded planner response.
func (s *Server) handleInjectTurn(w http.ResponseWriter, r *http.Request) {
	var body injectBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	t := s.conv.Append(body.Question, body.Response)
	s.persist(r.Context(), t)
	writeJSON(w, http.StatusCreated, renderTurn(t))
}

func (s *Server) persist(ctx context.Context, t session.Turn) {
	if s.deps.Store == nil {
		return
	}
	sid := s.conv.SessionID()
	if sid == "" {
		sid = localSession
	}
	if err := s.deps.Store.AppendExchange(ctx, sid, domain.Exchange{Question: t.Question(), Answer: t.Answer()}); err != nil {
		s.log.Warn("persist history failed", "err", err)
		return
	}
	s.mu.Lock()
	s.historyID = sid
	s.mu.Unlock()
}

// historySession picks the session whose persisted history a request reads:
// an explicit ?session=, the live conversation's id, the last session that
// was persisted, and finally the local key.
func (s *Server) historySession(r *http.Request) string {
	if v := strings.TrimSpace(r.URL.Query().Get("session")); v != "" {
		return v
	}
	if sid := s.conv.SessionID(); sid != "" {
		return sid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.historyID != "" {
		return s.historyID
	}
	return localSession
}

// handleHistory lists the exchanges persisted for a session, oldest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		jsonError(w, "history not configured", http.StatusServiceUnavailable)
		return
	}
	sid := s.historySession(r)
	hist, err := s.deps.Store.History(r.Context(), sid)
	if err != nil {
		jsonError(w, "failed to load history: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if hist == nil {
		hist = []domain.Exchange{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessionId": sid, "history": hist})
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sid := s.historySession(r)
	s.conv.Clear()
	s.setDateRange("")
	s.mu.Lock()
	s.historyID = ""
	s.mu.Unlock()
	if s.deps.Store != nil {
		if err := s.deps.Store.ClearHistory(r.Context(), sid); err != nil {
			s.log.Warn("clear history failed", "err", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport streams the conversation, or one turn with ?turn=N, as PDF.
// An empty conversation falls back to the persisted history.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.deps.Exporter == nil {
		jsonError(w, "export not configured", http.StatusServiceUnavailable)
		return
	}
	turn := -1
	if v := r.URL.Query().Get("turn"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "turn must be a non-negative integer", http.StatusBadRequest)
			return
		}
		turn = n
	}
	var hist export.HistorySource
	if s.deps.Store != nil {
		hist = s.deps.Store
	}
	req, err := export.RequestWithHistory(r.Context(), s.conv, s.currentDateRange(), turn, hist, s.historySession(r))
	if errors.Is(err, export.ErrNothingToExport) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Warn("export request failed", "err", err)
		jsonError(w, ExportErrorMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": s.deps.Exporter.Filename(req)}))
	res, err := s.deps.Exporter.WriteTo(r.Context(), req, w)
	if err != nil {
		w.Header().Del("Content-Disposition")
		if errors.Is(err, export.ErrBusy) {
			s.deps.Metrics.observeExport("busy", 0, 0)
			jsonError(w, err.Error(), http.StatusConflict)
			return
		}
		s.deps.Metrics.observeExport("error", 0, 0)
		jsonError(w, ExportErrorMessage, http.StatusInternalServerError)
		return
	}
	s.deps.Metrics.observeExport("ok", res.Elapsed, res.Pages)
}

func (s *Server) favorites(w http.ResponseWriter) (store.Store, bool) {
	if s.deps.Store == nil {
		jsonError(w, "favorites not configured", http.StatusServiceUnavailable)
		return nil, false
	}
	return s.deps.Store, true
}

func destinationParam(r *http.Request) string {
	v := chi.URLParam(r, "destination")
	if d, err := url.PathUnescape(v); err == nil {
		return d
	}
	return v
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	st, ok := s.favorites(w)
	if !ok {
		return
	}
	favs, err := st.Favorites(r.Context())
	if err != nil {
		jsonError(w, "failed to list favorites: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if favs == nil {
		favs = []domain.Favorite{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"favorites": favs})
}

// handleSaveFavorite saves the pinned side data. Saving a destination that
// already exists returns the stored favorite with 200 instead of 201.
func (s *Server) handleSaveFavorite(w http.ResponseWriter, r *http.Request) {
	st, ok := s.favorites(w)
	if !ok {
		return
	}
	side, _ := s.conv.Pinned()
	f, err := store.NewFavorite(side, time.Now())
	if err != nil {
		jsonError(w, "no destination to save", http.StatusBadRequest)
		return
	}
	saved, created, err := st.SaveFavorite(r.Context(), f)
	if err != nil {
		jsonError(w, "failed to save favorite: "+err.Error(), http.StatusInternalServerError)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"favorite": saved, "created": created})
}

func (s *Server) handleDeleteFavorite(w http.ResponseWriter, r *http.Request) {
	st, ok := s.favorites(w)
	if !ok {
		return
	}
	err := st.DeleteFavorite(r.Context(), destinationParam(r))
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, "favorite not found", http.StatusNotFound)
	case err != nil:
		jsonError(w, "failed to delete favorite: "+err.Error(), http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleLoadFavorite starts a fresh conversation around a saved destination.
func (s *Server) handleLoadFavorite(w http.ResponseWriter, r *http.Request) {
	st, ok := s.favorites(w)
	if !ok {
		return
	}
	f, err := st.Favorite(r.Context(), destinationParam(r))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "favorite not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load favorite: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.conv.Restore(f)
	s.setDateRange("")
	writeJSON(w, http.StatusOK, s.snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
