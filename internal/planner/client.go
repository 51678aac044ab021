/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package planner talks to the trip-planning backend over HTTP.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"viajeia/internal/domain"
	applog "viajeia/internal/log"
)

// AskPath is the backend endpoint for questions.
const AskPath = "/api/planificar"

// DefaultErrorMessage is shown when the backend gives no usable error text.
const DefaultErrorMessage = "Lo siento, hubo un error al procesar tu solicitud. Por favor, intenta de nuevo."

// APIError is a non-2xx reply from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("planner: status %d: %s", e.Status, e.Message)
}

// Asker is what the rest of the app needs from the planner.
type Asker interface {
	Ask(ctx context.Context, question, sessionID string) (domain.Response, error)
}

// Client calls the planner backend.
type Client struct {
	BaseURL string
	Token   string // sent as a bearer token when set
	HTTP    *http.Client
}

// New returns a Client with its own timeout.
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Ask sends one question and returns the validated, decoded reply.
func (c *Client) Ask(ctx context.Context, question, sessionID string) (domain.Response, error) {
	lg := applog.WithOperation(applog.WithComponent("planner"), "ask")
	if strings.TrimSpace(question) == "" {
		return domain.Response{}, fmt.Errorf("empty question")
	}
	payload, err := json.Marshal(askRequest{Question: question, SessionID: sessionID})
	if err != nil {
		return domain.Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+AskPath, bytes.NewReader(payload))
	if err != nil {
		return domain.Response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		lg.Warn("planner unreachable", "err", err)
		return domain.Response{}, fmt.Errorf("planner request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return domain.Response{}, fmt.Errorf("read planner response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := DefaultErrorMessage
		var we wireError
		if json.Unmarshal(body, &we) == nil && strings.TrimSpace(we.Error) != "" {
			msg = we.Error
		}
		lg.Warn("planner error", "status", resp.StatusCode, "msg", msg)
		return domain.Response{}, &APIError{Status: resp.StatusCode, Message: msg}
	}
	if err := Validate(body); err != nil {
		lg.Warn("planner response rejected", "err", err)
		return domain.Response{}, err
	}
	var wr wireResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return domain.Response{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	out := wr.toDomain()
	lg.Debug("planner answered", "elapsed", time.Since(start), "chars", len(out.AnswerText), "photos", len(out.Photos))
	return out, nil
}
