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
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viajeia/internal/config"
	"viajeia/internal/domain"
)

// runContract exercises behavior every backend must share.
func runContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("history keeps newest entries in order", func(t *testing.T) {
		for i := range HistoryLimit + 3 {
			require.NoError(t, s.AppendExchange(ctx, "s1", domain.Exchange{Question: fmt.Sprintf("q%d", i), Answer: "a"}))
		}
		require.NoError(t, s.AppendExchange(ctx, "s2", domain.Exchange{Question: "other", Answer: "b"}))

		h, err := s.History(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, h, HistoryLimit)
		assert.Equal(t, "q3", h[0].Question)
		assert.Equal(t, fmt.Sprintf("q%d", HistoryLimit+2), h[len(h)-1].Question)

		require.NoError(t, s.ClearHistory(ctx, "s1"))
		h, err = s.History(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, h)

		h, err = s.History(ctx, "s2")
		require.NoError(t, err)
		assert.Len(t, h, 1)
	})

	t.Run("favorites dedupe case-insensitively", func(t *testing.T) {
		side := domain.SideData{
			Destination: "Lima",
			Weather:     &domain.Weather{Temperature: 19, Description: "nublado", City: "Lima"},
			Photos:      []domain.Photo{{URL: "https://img/1.jpg"}, {URL: "https://img/2.jpg"}},
		}
		f, err := NewFavorite(side, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		saved, created, err := s.SaveFavorite(ctx, f)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotZero(t, saved.ID)

		again, created, err := s.SaveFavorite(ctx, domain.Favorite{Destination: "LIMA", SavedAt: "x"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, saved.ID, again.ID)
		assert.Equal(t, "Lima", again.Destination)

		_, _, err = s.SaveFavorite(ctx, domain.Favorite{Destination: "Cusco", SavedAt: "y"})
		require.NoError(t, err)

		all, err := s.Favorites(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Lima", all[0].Destination)
		require.NotNil(t, all[0].Photo)
		assert.Equal(t, "https://img/1.jpg", all[0].Photo.URL)
		require.NotNil(t, all[0].Weather)
		assert.Equal(t, 19.0, all[0].Weather.Temperature)

		got, err := s.Favorite(ctx, "lima")
		require.NoError(t, err)
		assert.Equal(t, saved.ID, got.ID)
	})

	t.Run("delete matches the exact destination", func(t *testing.T) {
		assert.ErrorIs(t, s.DeleteFavorite(ctx, "cusco"), ErrNotFound)
		require.NoError(t, s.DeleteFavorite(ctx, "Cusco"))
		_, err := s.Favorite(ctx, "Cusco")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeleteFavorite(ctx, "Nowhere"), ErrNotFound)
	})
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "db", "v.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	runContract(t, s)
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "v.sqlite")
	s, err := OpenSQLite(ctx, file)
	require.NoError(t, err)
	_, _, err = s.SaveFavorite(ctx, domain.Favorite{Destination: "Roma", SavedAt: "now"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, file)
	require.NoError(t, err)
	defer s.Close()
	all, err := s.Favorites(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Roma", all[0].Destination)
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	s := NewRedisFromClient(client, WithPrefix("test:"))
	t.Cleanup(func() { _ = s.Close() })
	runContract(t, s)

	assert.True(t, mr.Exists("test:favorites"))
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("VIAJEIA_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("VIAJEIA_TEST_POSTGRES_DSN not set")
	}
	s, err := OpenPostgres(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	_, _ = s.db.Exec(`DELETE FROM history`)
	_, _ = s.db.Exec(`DELETE FROM favorites`)
	runContract(t, s)
}

func TestRebind(t *testing.T) {
	s := &SQLStore{dialect: dialectPostgres}
	assert.Equal(t, "a = $1 AND b = $2", s.rebind("a = ? AND b = ?"))
	s.dialect = dialectSQLite
	assert.Equal(t, "a = ?", s.rebind("a = ?"))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(ctx, config.StoreConfig{Driver: "sqlite"}, dir)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, filepath.Join(dir, "viajeia.sqlite"))

	mr := miniredis.RunT(t)
	s, err = Open(ctx, config.StoreConfig{Driver: "redis", DSN: "redis://" + mr.Addr() + "/0"}, dir)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(ctx, config.StoreConfig{Driver: "postgres"}, dir)
	assert.Error(t, err)
	_, err = Open(ctx, config.StoreConfig{Driver: "mongo"}, dir)
	assert.Error(t, err)
}

func TestNewFavorite(t *testing.T) {
	_, err := NewFavorite(domain.SideData{Destination: "  "}, time.Now())
	assert.Error(t, err)

	f, err := NewFavorite(domain.SideData{Destination: "Tokio"}, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, f.Photo)
	assert.Equal(t, "2025-01-02T03:04:05Z", f.SavedAt)
}
