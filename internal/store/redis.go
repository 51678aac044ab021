/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	backend "github.com/redis/go-redis/v9"

	"viajeia/internal/domain"
)

// RedisStore implements Store on Redis. History is a capped list per
// session; favorites live in one hash keyed by lower-cased destination.
type RedisStore struct {
	client *backend.Client
	prefix string
}

type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// OpenRedis connects to dsn, a redis:// URL or a plain host:port.
func OpenRedis(ctx context.Context, dsn string, opts ...RedisOption) (*RedisStore, error) {
	var o *backend.Options
	if strings.HasPrefix(dsn, "redis://") || strings.HasPrefix(dsn, "rediss://") {
		parsed, err := backend.ParseURL(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		o = parsed
	} else {
		if dsn == "" {
			dsn = "localhost:6379"
		}
		o = &backend.Options{Addr: dsn}
	}
	client := backend.NewClient(o)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisFromClient(client, opts...), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: "viajeia:"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) historyKey(sessionID string) string { return s.prefix + "history:" + sessionID }
func (s *RedisStore) favoritesKey() string                { return s.prefix + "favorites" }
func (s *RedisStore) seqKey() string                      { return s.prefix + "favorites:seq" }

func (s *RedisStore) AppendExchange(ctx context.Context, sessionID string, ex domain.Exchange) error {
	data, err := json.Marshal(ex)
	if err != nil {
		return err
	}
	key := s.historyKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -HistoryLimit, -1)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) History(ctx context.Context, sessionID string) ([]domain.Exchange, error) {
	vals, err := s.client.LRange(ctx, s.historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Exchange, 0, len(vals))
	for _, v := range vals {
		var ex domain.Exchange
		if err := json.Unmarshal([]byte(v), &ex); err != nil {
			return nil, fmt.Errorf("decode history: %w", err)
		}
		out = append(out, ex)
	}
	return out, nil
}

func (s *RedisStore) ClearHistory(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.historyKey(sessionID)).Err()
}

func (s *RedisStore) SaveFavorite(ctx context.Context, f domain.Favorite) (domain.Favorite, bool, error) {
	key := destinationKey(f.Destination)
	if existing, err := s.Favorite(ctx, f.Destination); err == nil {
		return existing, false, nil
	} else if err != ErrNotFound {
		return domain.Favorite{}, false, err
	}
	id, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return domain.Favorite{}, false, err
	}
	f.ID = id
	data, err := json.Marshal(f)
	if err != nil {
		return domain.Favorite{}, false, err
	}
	ok, err := s.client.HSetNX(ctx, s.favoritesKey(), key, data).Result()
	if err != nil {
		return domain.Favorite{}, false, err
	}
	if !ok {
		// Lost a race with a concurrent save of the same destination.
		existing, err := s.Favorite(ctx, f.Destination)
		return existing, false, err
	}
	return f, true, nil
}

func (s *RedisStore) Favorites(ctx context.Context) ([]domain.Favorite, error) {
	vals, err := s.client.HVals(ctx, s.favoritesKey()).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Favorite, 0, len(vals))
	for _, v := range vals {
		var f domain.Favorite
		if err := json.Unmarshal([]byte(v), &f); err != nil {
			return nil, fmt.Errorf("decode favorite: %w", err)
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *RedisStore) Favorite(ctx context.Context, destination string) (domain.Favorite, error) {
	v, err := s.client.HGet(ctx, s.favoritesKey(), destinationKey(destination)).Result()
	if err == backend.Nil {
		return domain.Favorite{}, ErrNotFound
	}
	if err != nil {
		return domain.Favorite{}, err
	}
	var f domain.Favorite
	if err := json.Unmarshal([]byte(v), &f); err != nil {
		return domain.Favorite{}, fmt.Errorf("decode favorite: %w", err)
	}
	return f, nil
}

func (s *RedisStore) DeleteFavorite(ctx context.Context, destination string) error {
	f, err := s.Favorite(ctx, destination)
	if err != nil {
		return err
	}
	if f.Destination != destination {
		return ErrNotFound
	}
	return s.client.HDel(ctx, s.favoritesKey(), destinationKey(destination)).Err()
}

func (s *RedisStore) Close() error { return s.client.Close() }
