/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session holds the chat log and the side data pinned by its first turn.
package session

import (
	"sync"

	"viajeia/internal/answer"
	"viajeia/internal/domain"
	"viajeia/internal/log"
	"viajeia/internal/view"
)

// Turn is one immutable question/answer exchange. It is either a *FirstTurn
// or a *FollowUpTurn.
type Turn interface {
	Index() int
	Question() string
	Answer() string
	Document() answer.Document
	Key() string
	isTurn()
}

type turn struct {
	index    int
	question string
	answer   string
	doc      answer.Document
}

func (t *turn) Index() int                { return t.index }
func (t *turn) Question() string          { return t.question }
func (t *turn) Answer() string            { return t.answer }
func (t *turn) Document() answer.Document { return t.doc }

// FirstTurn opens a conversation and is the only turn that carries side data.
type FirstTurn struct {
	turn
	side domain.SideData
}

// SideData returns the side data that arrived with this turn.
func (t *FirstTurn) SideData() domain.SideData { return t.side }

func (t *FirstTurn) Key() string { return view.FirstTurnKey(t.answer) }
func (*FirstTurn) isTurn()       {}

// FollowUpTurn never carries side data, whatever the backend sent with it.
type FollowUpTurn struct {
	turn
}

func (t *FollowUpTurn) Key() string { return view.FollowUpTurnKey(t.index, t.question) }
func (*FollowUpTurn) isTurn()       {}

// Conversation is the append-only turn log plus set-once pinned side data.
// It is safe for concurrent use.
type Conversation struct {
	mu        sync.RWMutex
	turns     []Turn
	pinned    *domain.SideData
	sessionID string
}

// New returns an empty conversation.
func New() *Conversation { return &Conversation{} }

// Append records a reply for question. The first turn pins the response's
// side data; later turns drop it.
func (c *Conversation) Append(question string, resp domain.Response) Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	base := turn{index: len(c.turns), question: question, answer: resp.AnswerText, doc: answer.Parse(resp.AnswerText)}
	if c.sessionID == "" && resp.SessionID != "" {
		c.sessionID = resp.SessionID
	}
	var t Turn
	if len(c.turns) == 0 {
		ft := &FirstTurn{turn: base, side: domain.SideDataFrom(resp)}
		if c.pinned == nil {
			side := ft.side
			c.pinned = &side
		}
		t = ft
	} else {
		if resp.Weather != nil || len(resp.Photos) > 0 || resp.Aux != nil {
			log.WithOperation(log.WithComponent("session"), "append").
				Debug("follow-up side data ignored", "turn", base.index)
		}
		t = &FollowUpTurn{turn: base}
	}
	c.turns = append(c.turns, t)
	return t
}

// Turns returns a snapshot of the log in append order.
func (c *Conversation) Turns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Turn returns the turn at index i.
func (c *Conversation) Turn(i int) (Turn, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.turns) {
		return nil, false
	}
	return c.turns[i], true
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// Pinned returns the pinned side data, if any.
func (c *Conversation) Pinned() (domain.SideData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.pinned == nil {
		return domain.SideData{}, false
	}
	return *c.pinned, true
}

// SessionID returns the backend session id seen so far.
func (c *Conversation) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// Clear drops all turns, the pinned data and the session id.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
	c.pinned = nil
	c.sessionID = ""
}

// Restore starts over from a saved favorite: turns are cleared and the
// favorite's side data becomes the pinned data.
func (c *Conversation) Restore(f domain.Favorite) {
	side := domain.SideData{Destination: f.Destination, Weather: f.Weather, Aux: f.Aux}
	if f.Photo != nil {
		side.Photos = []domain.Photo{*f.Photo}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = nil
	c.sessionID = ""
	c.pinned = &side
}

// History returns the turns as question/answer pairs.
func (c *Conversation) History() []domain.Exchange {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Exchange, 0, len(c.turns))
	for _, t := range c.turns {
		out = append(out, domain.Exchange{Question: t.Question(), Answer: t.Answer()})
	}
	return out
}
