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
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"viajeia/internal/domain"
	applog "viajeia/internal/log"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

func (d dialect) String() string {
	if d == dialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// SQLStore implements Store on database/sql with SQLite or PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// OpenSQLite opens (creating if needed) an embedded database at path.
func OpenSQLite(ctx context.Context, file string) (*SQLStore, error) {
	l := applog.WithOperation(applog.WithComponent("store"), "open_sqlite").With(slog.String("path", file))
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(file))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	s := &SQLStore{db: db, dialect: dialectSQLite}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		l.Error("migrate failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("store ready")
	return s, nil
}

// OpenPostgres connects through the pgx stdlib driver.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	l := applog.WithOperation(applog.WithComponent("store"), "open_postgres")
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	s := &SQLStore{db: db, dialect: dialectPostgres}
	if err := s.migrate(pctx); err != nil {
		_ = db.Close()
		l.Error("migrate failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("store ready")
	return s, nil
}

// rebind turns "?" placeholders into "$n" for PostgreSQL.
func (s *SQLStore) rebind(q string) string {
	if s.dialect != dialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) migrate(ctx context.Context) error {
	dir := path.Join("migrations", s.dialect.String())
	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	applied := map[int64]bool{}
	rows, err := s.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("select schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			_ = rows.Close()
			return err
		}
		applied[v] = true
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for _, name := range files {
		prefix, _, _ := strings.Cut(name, "_")
		ver, err := strconv.ParseInt(prefix, 10, 64)
		if err != nil {
			return fmt.Errorf("migration %s: bad version prefix", name)
		}
		if applied[ver] {
			continue
		}
		body, err := migrationsFS.ReadFile(path.Join(dir, name))
		if err != nil {
			return err
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", ver, err)
		}
		for _, stmt := range strings.Split(string(body), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %s: %w", name, err)
			}
		}
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`),
			ver, name, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", ver, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", ver, err)
		}
	}
	return nil
}

func (s *SQLStore) AppendExchange(ctx context.Context, sessionID string, ex domain.Exchange) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO history (session_id, question, answer, created_at) VALUES (?, ?, ?, ?)`),
		sessionID, ex.Question, ex.Answer, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM history WHERE session_id = ? AND id NOT IN (
		SELECT id FROM history WHERE session_id = ? ORDER BY id DESC LIMIT ?)`),
		sessionID, sessionID, HistoryLimit); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("trim history: %w", err)
	}
	return tx.Commit()
}

func (s *SQLStore) History(ctx context.Context, sessionID string) ([]domain.Exchange, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT question, answer FROM history WHERE session_id = ? ORDER BY id`), sessionID)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()
	var out []domain.Exchange
	for rows.Next() {
		var ex domain.Exchange
		if err := rows.Scan(&ex.Question, &ex.Answer); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (s *SQLStore) ClearHistory(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM history WHERE session_id = ?`), sessionID)
	return err
}

// favoriteData is the JSON column payload.
type favoriteData struct {
	Weather *domain.Weather `json:"weather,omitempty"`
	Photo   *domain.Photo   `json:"photo,omitempty"`
	Aux     *domain.AuxInfo `json:"aux,omitempty"`
}

func (s *SQLStore) SaveFavorite(ctx context.Context, f domain.Favorite) (domain.Favorite, bool, error) {
	data, err := json.Marshal(favoriteData{Weather: f.Weather, Photo: f.Photo, Aux: f.Aux})
	if err != nil {
		return domain.Favorite{}, false, err
	}
	var id int64
	err = s.db.QueryRowContext(ctx, s.rebind(`INSERT INTO favorites (destination, destination_key, data, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (destination_key) DO NOTHING RETURNING id`),
		f.Destination, destinationKey(f.Destination), string(data), f.SavedAt).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		existing, err := s.Favorite(ctx, f.Destination)
		return existing, false, err
	case err != nil:
		return domain.Favorite{}, false, fmt.Errorf("insert favorite: %w", err)
	}
	f.ID = id
	return f, true, nil
}

func (s *SQLStore) scanFavorites(rows *sql.Rows) ([]domain.Favorite, error) {
	defer rows.Close()
	var out []domain.Favorite
	for rows.Next() {
		var f domain.Favorite
		var data string
		if err := rows.Scan(&f.ID, &f.Destination, &data, &f.SavedAt); err != nil {
			return nil, err
		}
		var fd favoriteData
		if err := json.Unmarshal([]byte(data), &fd); err != nil {
			return nil, fmt.Errorf("decode favorite %d: %w", f.ID, err)
		}
		f.Weather, f.Photo, f.Aux = fd.Weather, fd.Photo, fd.Aux
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLStore) Favorites(ctx context.Context) ([]domain.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, destination, data, saved_at FROM favorites ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select favorites: %w", err)
	}
	return s.scanFavorites(rows)
}

func (s *SQLStore) Favorite(ctx context.Context, destination string) (domain.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT id, destination, data, saved_at FROM favorites WHERE destination_key = ?`), destinationKey(destination))
	if err != nil {
		return domain.Favorite{}, fmt.Errorf("select favorite: %w", err)
	}
	favs, err := s.scanFavorites(rows)
	if err != nil {
		return domain.Favorite{}, err
	}
	if len(favs) == 0 {
		return domain.Favorite{}, ErrNotFound
	}
	return favs[0], nil
}

func (s *SQLStore) DeleteFavorite(ctx context.Context, destination string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM favorites WHERE destination = ?`), destination)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Close() error { return s.db.Close() }
