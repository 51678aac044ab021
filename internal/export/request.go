/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"errors"
	"fmt"

	"viajeia/internal/domain"
	"viajeia/internal/session"
)

// ErrNothingToExport is returned for a conversation without turns and
// without persisted history.
var ErrNothingToExport = errors.New("nothing to export")

// RequestFor builds an export request from a conversation. turn < 0 exports
// every turn; otherwise only that turn, without weather and photos.
func RequestFor(c *session.Conversation, dateRange string, turn int) (Request, error) {
	side, _ := c.Pinned()
	req := Request{Meta: Meta{Destination: side.Destination, DateRange: dateRange, Weather: side.Weather, Photos: side.Photos}}
	if turn >= 0 {
		t, ok := c.Turn(turn)
		if !ok {
			return Request{}, fmt.Errorf("turn %d: %w", turn, ErrNothingToExport)
		}
		req.Single = true
		req.Turns = []TurnContent{{Question: t.Question(), Answer: t.Answer()}}
		return req, nil
	}
	for _, t := range c.Turns() {
		req.Turns = append(req.Turns, TurnContent{Question: t.Question(), Answer: t.Answer()})
	}
	if len(req.Turns) == 0 {
		return Request{}, ErrNothingToExport
	}
	return req, nil
}

// HistorySource reads the exchanges persisted for a session.
type HistorySource interface {
	History(ctx context.Context, sessionID string) ([]domain.Exchange, error)
}

// RequestWithHistory is RequestFor with a fallback for whole-conversation
// exports: when c has no turns, the exchanges src holds for sessionID are
// exported instead. ErrNothingToExport is returned only when both are empty.
func RequestWithHistory(ctx context.Context, c *session.Conversation, dateRange string, turn int, src HistorySource, sessionID string) (Request, error) {
	req, err := RequestFor(c, dateRange, turn)
	if turn >= 0 || src == nil || !errors.Is(err, ErrNothingToExport) {
		return req, err
	}
	hist, err := src.History(ctx, sessionID)
	if err != nil {
		return Request{}, fmt.Errorf("load history %s: %w", sessionID, err)
	}
	if len(hist) == 0 {
		return Request{}, ErrNothingToExport
	}
	side, _ := c.Pinned()
	req = Request{Meta: Meta{Destination: side.Destination, DateRange: dateRange, Weather: side.Weather, Photos: side.Photos}}
	for _, ex := range hist {
		req.Turns = append(req.Turns, TurnContent{Question: ex.Question, Answer: ex.Answer})
	}
	return req, nil
}
