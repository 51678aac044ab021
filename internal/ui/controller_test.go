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
	"os"
	"path/filepath"
	"testing"
	"time"

	"viajeia/internal/domain"
	"viajeia/internal/export"
	"viajeia/internal/session"
	"viajeia/internal/store"
)

type scriptedPlanner struct{ replies []domain.Response }

func (p *scriptedPlanner) Ask(_ context.Context, _, _ string) (domain.Response, error) {
	if len(p.replies) == 0 {
		return domain.Response{}, errors.New("no reply")
	}
	r := p.replies[0]
	p.replies = p.replies[1:]
	return r, nil
}

func newController(t *testing.T, replies ...domain.Response) (*Controller, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.OpenSQLite(context.Background(), filepath.Join(dir, "v.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	out := filepath.Join(dir, "out")
	exp := export.NewExporter(export.Options{Scale: 1, OutDir: out, Now: func() time.Time { return time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) }})
	return NewController(Options{Planner: &scriptedPlanner{replies: replies}, Exporter: exp, Store: st, DataDir: dir}), out
}

var tripForm = session.TripForm{Destination: "Kioto", StartDate: "2026-04-01", EndDate: "2026-04-08", Budget: "2000 EUR", Preference: "cultura"}

func TestControllerTripThenFollowUp(t *testing.T) {
	c, _ := newController(t,
		domain.Response{AnswerText: "📍 **Lugares Imperdibles:** Fushimi Inari", Destination: "Kioto", SessionID: "s"},
		domain.Response{AnswerText: "Más templos", Destination: "Osaka"},
	)
	if _, err := c.StartTrip(context.Background(), session.TripForm{Destination: "Kioto"}); err == nil {
		t.Fatal("expected incomplete form error")
	}
	first, err := c.StartTrip(context.Background(), tripForm)
	if err != nil {
		t.Fatalf("StartTrip: %v", err)
	}
	if got, want := first.Question(), "Quiero planear un viaje a Kioto"; got != want {
		t.Fatalf("display question = %q, want %q", got, want)
	}
	if c.DateRange() == "" {
		t.Fatal("date range not recorded")
	}
	if _, err := c.Ask(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank question")
	}
	if _, err := c.Ask(context.Background(), "¿Y de noche?"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	side, _ := c.Conversation().Pinned()
	if side.Destination != "Kioto" {
		t.Fatalf("pinned destination = %q, want Kioto", side.Destination)
	}
}

func TestControllerExportAndFavorites(t *testing.T) {
	c, out := newController(t, domain.Response{AnswerText: "💰 **Estimación de Costos:** 900 EUR", Destination: "Kioto"})
	ctx := context.Background()
	if _, err := c.Export(ctx, -1); !errors.Is(err, export.ErrNothingToExport) {
		t.Fatalf("export on empty chat: got %v", err)
	}
	if _, err := c.StartTrip(ctx, tripForm); err != nil {
		t.Fatal(err)
	}
	res, err := c.Export(ctx, 0)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got, want := res.Path, filepath.Join(out, "ViajeIA_Kioto_2026-01-05.pdf"); got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Fatalf("pdf missing: %v", err)
	}

	if _, created, err := c.SaveFavorite(ctx); err != nil || !created {
		t.Fatalf("SaveFavorite: created=%v err=%v", created, err)
	}
	favs, err := c.Favorites(ctx)
	if err != nil || len(favs) != 1 {
		t.Fatalf("Favorites: %v %v", favs, err)
	}
	if err := c.LoadFavorite(ctx, "kioto"); err != nil {
		t.Fatalf("LoadFavorite: %v", err)
	}
	if c.Conversation().Len() != 0 || c.DateRange() != "" {
		t.Fatal("loading a favorite should start a fresh conversation")
	}
	if err := c.DeleteFavorite(ctx, "Kioto"); err != nil {
		t.Fatalf("DeleteFavorite: %v", err)
	}
}

func TestControllerHistoryBacksExportAfterFavoriteLoad(t *testing.T) {
	c, out := newController(t,
		domain.Response{AnswerText: "🏨 **Alojamiento:** Ryokan", Destination: "Kioto", SessionID: "s-7"},
		domain.Response{AnswerText: "Arashiyama"},
	)
	ctx := context.Background()
	if _, err := c.StartTrip(ctx, tripForm); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Ask(ctx, "¿Algo más?"); err != nil {
		t.Fatal(err)
	}
	hist, err := c.History(ctx)
	if err != nil || len(hist) != 2 || hist[1].Answer != "Arashiyama" {
		t.Fatalf("History = %+v, %v", hist, err)
	}
	if _, _, err := c.SaveFavorite(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.LoadFavorite(ctx, "Kioto"); err != nil {
		t.Fatal(err)
	}
	if c.Conversation().Len() != 0 {
		t.Fatal("favorite load should leave no turns")
	}
	res, err := c.Export(ctx, -1)
	if err != nil {
		t.Fatalf("Export from history: %v", err)
	}
	if res.Path != filepath.Join(out, "ViajeIA_Kioto_2026-01-05.pdf") || res.Pages < 1 {
		t.Fatalf("res = %+v", res)
	}

	c.Clear(ctx)
	if hist, err := c.History(ctx); err != nil || len(hist) != 0 {
		t.Fatalf("History after Clear = %+v, %v", hist, err)
	}
	if _, err := c.Export(ctx, -1); !errors.Is(err, export.ErrNothingToExport) {
		t.Fatalf("export after Clear: got %v", err)
	}
}

func TestControllerWithoutStore(t *testing.T) {
	c := NewController(Options{})
	if _, _, err := c.SaveFavorite(context.Background()); !errors.Is(err, ErrNoStore) {
		t.Fatalf("got %v, want ErrNoStore", err)
	}
	if _, err := c.History(context.Background()); !errors.Is(err, ErrNoStore) {
		t.Fatalf("History: got %v, want ErrNoStore", err)
	}
	if _, err := c.Ask(context.Background(), "hola"); err == nil {
		t.Fatal("expected error without planner")
	}
}
