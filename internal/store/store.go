/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package store persists per-session chat history and saved destinations.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"viajeia/internal/config"
	"viajeia/internal/domain"
)

// HistoryLimit is how many exchanges are kept per session.
const HistoryLimit = 10

// ErrNotFound is returned when a favorite does not exist.
var ErrNotFound = errors.New("not found")

// Store is implemented by the SQL and Redis backends.
type Store interface {
	// AppendExchange records one exchange, keeping the newest HistoryLimit.
	AppendExchange(ctx context.Context, sessionID string, ex domain.Exchange) error
	History(ctx context.Context, sessionID string) ([]domain.Exchange, error)
	ClearHistory(ctx context.Context, sessionID string) error

	// SaveFavorite stores f unless a favorite with the same destination
	// (compared case-insensitively) exists; then the existing one is
	// returned with created=false.
	SaveFavorite(ctx context.Context, f domain.Favorite) (saved domain.Favorite, created bool, err error)
	Favorites(ctx context.Context) ([]domain.Favorite, error)
	Favorite(ctx context.Context, destination string) (domain.Favorite, error)
	// DeleteFavorite removes the favorite whose destination matches exactly.
	DeleteFavorite(ctx context.Context, destination string) error

	Close() error
}

// NewFavorite captures side data as a favorite; only the first photo is kept.
func NewFavorite(side domain.SideData, now time.Time) (domain.Favorite, error) {
	if strings.TrimSpace(side.Destination) == "" {
		return domain.Favorite{}, errors.New("favorite needs a destination")
	}
	f := domain.Favorite{
		Destination: side.Destination,
		Weather:     side.Weather,
		Aux:         side.Aux,
		SavedAt:     now.UTC().Format(time.RFC3339),
	}
	if len(side.Photos) > 0 {
		p := side.Photos[0]
		f.Photo = &p
	}
	return f, nil
}

func destinationKey(dest string) string { return strings.ToLower(strings.TrimSpace(dest)) }

// Open opens the backend named by cfg.Driver. dataDir holds the default
// SQLite file when no DSN is configured.
func Open(ctx context.Context, cfg config.StoreConfig, dataDir string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch strings.ToLower(cfg.Driver) {
	case "", "sqlite":
		path := cfg.DSN
		if path == "" {
			path = filepath.Join(dataDir, "viajeia.sqlite")
		}
		s, err = OpenSQLite(ctx, path)
	case "postgres", "pgx":
		if cfg.DSN == "" {
			return nil, errors.New("postgres store needs a dsn")
		}
		s, err = OpenPostgres(ctx, cfg.DSN)
	case "redis":
		s, err = OpenRedis(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
