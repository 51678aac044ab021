/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"viajeia/internal/domain"
	"viajeia/internal/export"
	applog "viajeia/internal/log"
	"viajeia/internal/planner"
	"viajeia/internal/session"
	"viajeia/internal/store"
)

// ErrNoStore is returned by favorites actions when no store is configured.
var ErrNoStore = errors.New("favorites are not available without a store")

// Options wire the desktop app to its collaborators. Store may be nil.
type Options struct {
	Planner  planner.Asker
	Exporter *export.Exporter
	Store    store.Store
	DataDir  string
}

// Controller holds the UI state that does not depend on a toolkit, so the
// window code stays thin and the behavior is testable headless.
type Controller struct {
	opt  Options
	conv *session.Conversation

	mu        sync.Mutex
	dateRange string
	historyID string // last session persisted to the store
}

func NewController(opt Options) *Controller {
	return &Controller{opt: opt, conv: session.New()}
}

func (c *Controller) Conversation() *session.Conversation { return c.conv }

func (c *Controller) DateRange() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dateRange
}

// StartTrip sends the trip form as the first question.
func (c *Controller) StartTrip(ctx context.Context, f session.TripForm) (session.Turn, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	t, err := c.ask(ctx, f.Question(), f.DisplayQuestion())
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.dateRange = f.DateRange()
	c.mu.Unlock()
	return t, nil
}

// Ask sends a follow-up question.
func (c *Controller) Ask(ctx context.Context, question string) (session.Turn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("empty question")
	}
	return c.ask(ctx, question, question)
}

func (c *Controller) ask(ctx context.Context, question, display string) (session.Turn, error) {
	if c.opt.Planner == nil {
		return nil, errors.New("planner not configured")
	}
	resp, err := c.opt.Planner.Ask(ctx, question, c.conv.SessionID())
	if err != nil {
		return nil, err
	}
	t := c.conv.Append(display, resp)
	if c.opt.Store != nil {
		sid := c.conv.SessionID()
		if sid == "" {
			sid = localSession
		}
		if err := c.opt.Store.AppendExchange(ctx, sid, domain.Exchange{Question: t.Question(), Answer: t.Answer()}); err != nil {
			applog.WithComponent("ui").Warn("persist history failed", "err", err)
		} else {
			c.mu.Lock()
			c.historyID = sid
			c.mu.Unlock()
		}
	}
	return t, nil
}

// localSession keys persisted history until the planner hands out an id.
const localSession = "local"

// historySession is the session whose persisted history backs the chat.
func (c *Controller) historySession() string {
	if sid := c.conv.SessionID(); sid != "" {
		return sid
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.historyID != "" {
		return c.historyID
	}
	return localSession
}

// History returns the exchanges persisted for the current session.
func (c *Controller) History(ctx context.Context) ([]domain.Exchange, error) {
	if c.opt.Store == nil {
		return nil, ErrNoStore
	}
	return c.opt.Store.History(ctx, c.historySession())
}

// Export writes the PDF for every turn (turn < 0) or a single turn. With no
// turns on screen, the whole-conversation export uses the persisted history.
func (c *Controller) Export(ctx context.Context, turn int) (export.Result, error) {
	if c.opt.Exporter == nil {
		return export.Result{}, errors.New("export not configured")
	}
	var hist export.HistorySource
	if c.opt.Store != nil {
		hist = c.opt.Store
	}
	req, err := export.RequestWithHistory(ctx, c.conv, c.DateRange(), turn, hist, c.historySession())
	if err != nil {
		return export.Result{}, err
	}
	return c.opt.Exporter.Export(ctx, req)
}

// Clear starts a new conversation and drops its persisted history.
func (c *Controller) Clear(ctx context.Context) {
	sid := c.historySession()
	c.reset()
	c.mu.Lock()
	c.historyID = ""
	c.mu.Unlock()
	if c.opt.Store != nil {
		if err := c.opt.Store.ClearHistory(ctx, sid); err != nil {
			applog.WithComponent("ui").Warn("clear history failed", "err", err)
		}
	}
}

func (c *Controller) reset() {
	c.conv.Clear()
	c.mu.Lock()
	c.dateRange = ""
	c.mu.Unlock()
}

func (c *Controller) SaveFavorite(ctx context.Context) (domain.Favorite, bool, error) {
	if c.opt.Store == nil {
		return domain.Favorite{}, false, ErrNoStore
	}
	side, _ := c.conv.Pinned()
	f, err := store.NewFavorite(side, time.Now())
	if err != nil {
		return domain.Favorite{}, false, err
	}
	return c.opt.Store.SaveFavorite(ctx, f)
}

func (c *Controller) Favorites(ctx context.Context) ([]domain.Favorite, error) {
	if c.opt.Store == nil {
		return nil, ErrNoStore
	}
	return c.opt.Store.Favorites(ctx)
}

// LoadFavorite clears the chat and pins the favorite's side data.
func (c *Controller) LoadFavorite(ctx context.Context, destination string) error {
	if c.opt.Store == nil {
		return ErrNoStore
	}
	f, err := c.opt.Store.Favorite(ctx, destination)
	if err != nil {
		return err
	}
	c.reset()
	c.conv.Restore(f)
	return nil
}

func (c *Controller) DeleteFavorite(ctx context.Context, destination string) error {
	if c.opt.Store == nil {
		return ErrNoStore
	}
	return c.opt.Store.DeleteFavorite(ctx, destination)
}
