/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"viajeia/internal/answer"
	"viajeia/internal/domain"
	"viajeia/internal/session"
	"viajeia/internal/textlayout"
)

const plan = "🏨 **Alojamiento:** Hotel **Sol**\n- Opción 1\n- Opción 2\n🍽️ **Comida Local:**\nPrueba el ceviche\n💰 **Estimación de Costos:** 900 EUR"

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func fixedNow() time.Time { return time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC) }

func TestImageLoaderMixedResults(t *testing.T) {
	body := pngBytes(t, 40, 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			_, _ = w.Write(body)
		case "/slow.png":
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	caps := []Caption{
		{Photo: domain.Photo{URL: srv.URL + "/ok.png"}},
		{Photo: domain.Photo{URL: srv.URL + "/missing.png"}},
		{Photo: domain.Photo{URL: srv.URL + "/slow.png"}},
	}
	start := time.Now()
	got := ImageLoader{Client: srv.Client(), Timeout: 200 * time.Millisecond}.Load(context.Background(), caps)
	if time.Since(start) > time.Second {
		t.Fatalf("loader did not honor its timeout")
	}
	if len(got) != 3 {
		t.Fatalf("results = %d", len(got))
	}
	if got[0].Err != nil || got[0].Img == nil || got[0].Img.Bounds().Dx() != 40 {
		t.Fatalf("ok image = %+v", got[0])
	}
	if got[1].Err == nil || got[2].Err == nil {
		t.Fatalf("missing and slow photos must report errors: %v / %v", got[1].Err, got[2].Err)
	}
}

func TestRasterizeWithPlaceholders(t *testing.T) {
	doc := Compose(Meta{Destination: "Lima", Photos: []domain.Photo{{URL: "x", Caption: "Plaza"}, {URL: "y"}, {URL: "z"}}},
		[]TurnContent{{Question: "¿Qué hago?", Answer: plan}}, ComposeOptions{})
	imgs := []LoadedImage{
		{Caption: doc.Photos[0], Img: image.NewRGBA(image.Rect(0, 0, 30, 20))},
		{Caption: doc.Photos[1], Err: errors.New("boom")},
	}
	surface, err := Rasterize(doc, imgs, RasterOptions{Format: A4, Scale: 1})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if surface.Bounds().Dx() != A4.SurfaceWidth(1) {
		t.Fatalf("surface width = %d", surface.Bounds().Dx())
	}
	if surface.Bounds().Dy() < 300 {
		t.Fatalf("surface too short: %d", surface.Bounds().Dy())
	}
	// The title band starts at the 20mm margin in the primary color.
	m := int(float64(surface.Bounds().Dx())*20/210) + 3
	if got := surface.RGBAAt(m, m); got != colorPrimary {
		t.Fatalf("title band pixel = %v, want %v", got, colorPrimary)
	}
}

func TestRasterizeGrowsWithContent(t *testing.T) {
	short, _ := Rasterize(Compose(Meta{}, []TurnContent{{Answer: "uno"}}, ComposeOptions{}), nil, RasterOptions{Scale: 1})
	long := strings.Repeat("línea de texto bastante larga para ocupar espacio\n", 120)
	tall, _ := Rasterize(Compose(Meta{}, []TurnContent{{Answer: long}}, ComposeOptions{}), nil, RasterOptions{Scale: 1})
	if tall.Bounds().Dy() <= short.Bounds().Dy() {
		t.Fatalf("tall=%d short=%d", tall.Bounds().Dy(), short.Bounds().Dy())
	}
	if n := len(SlicePages(tall, A4)); n < 2 {
		t.Fatalf("long answer should span pages, got %d", n)
	}
}

func TestFragmentsDropEmoji(t *testing.T) {
	p := newPainter(nil, A4.SurfaceWidth(1), RasterOptions{Format: A4, Scale: 1, Provider: textlayout.NewGoProvider(72, nil)})
	spans := p.frags([]answer.Fragment{
		{Text: "Prueba el "},
		{Text: "🌮 taco", Bold: true},
		{Text: " en 🇲🇽 Coyoacán"},
		{Text: "✈️"},
	}, 12, colorText)
	want := []string{"Prueba el ", "taco", " en Coyoacán", ""}
	if len(spans) != len(want) {
		t.Fatalf("spans = %d, want %d", len(spans), len(want))
	}
	for i, s := range spans {
		if s.Text != want[i] {
			t.Fatalf("span %d = %q, want %q", i, s.Text, want[i])
		}
	}
	if !spans[1].Font.Bold || spans[0].Font.Bold {
		t.Fatalf("bold flags lost: %+v", spans)
	}
}

func TestExportWritesPDF(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(Options{Format: A4, Scale: 1, OutDir: dir, Now: fixedNow})
	res, err := e.Export(context.Background(), Request{
		Meta:  Meta{Destination: "Ciudad de México"},
		Turns: []TurnContent{{Question: "Quiero planear un viaje a Ciudad de México", Answer: plan}},
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Filename != "ViajeIA_Ciudad_de_México_2026-05-02.pdf" || res.Pages < 1 {
		t.Fatalf("result = %+v", res)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) || int64(len(data)) != res.Bytes {
		t.Fatalf("unexpected pdf output (%d bytes, reported %d)", len(data), res.Bytes)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("out dir should hold only the pdf, got %d entries", len(entries))
	}
}

func TestExportFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(Options{Scale: 1, OutDir: dir})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Export(ctx, Request{Meta: Meta{Destination: "X"}, Turns: []TurnContent{{Answer: "a"}}})
	if err == nil {
		t.Fatalf("expected error for canceled context")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("failed export left %d files", len(entries))
	}
	if e.Busy() {
		t.Fatalf("busy flag must be released after failure")
	}
}

func TestSecondExportWhileBusy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_, _ = w.Write(pngBytes(t, 4, 4))
	}))
	defer srv.Close()

	e := NewExporter(Options{Scale: 1, OutDir: t.TempDir(), Loader: ImageLoader{Client: srv.Client(), Timeout: 5 * time.Second}})
	req := Request{Meta: Meta{Destination: "Roma", Photos: []domain.Photo{{URL: srv.URL + "/p.png"}}}, Turns: []TurnContent{{Answer: "ciao"}}}

	done := make(chan error, 1)
	go func() {
		_, err := e.Export(context.Background(), req)
		done <- err
	}()
	<-started
	if _, err := e.Export(context.Background(), req); !errors.Is(err, ErrBusy) {
		t.Fatalf("second export error = %v, want ErrBusy", err)
	}
	var buf bytes.Buffer
	if _, err := e.WriteTo(context.Background(), req, &buf); !errors.Is(err, ErrBusy) || buf.Len() != 0 {
		t.Fatalf("WriteTo while busy = %v (%d bytes)", err, buf.Len())
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first export: %v", err)
	}
	if e.Busy() {
		t.Fatalf("exporter still busy")
	}
}

func TestWriteToStreamsPDF(t *testing.T) {
	e := NewExporter(Options{Scale: 1, Now: fixedNow})
	var buf bytes.Buffer
	res, err := e.WriteTo(context.Background(), Request{Turns: []TurnContent{{Answer: "Hola"}}}, &buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) || res.Pages != 1 {
		t.Fatalf("res=%+v prefix=%q", res, buf.Bytes()[:min(8, buf.Len())])
	}
	if filepath.Ext(res.Filename) != ".pdf" {
		t.Fatalf("filename = %q", res.Filename)
	}
}

func TestRequestFor(t *testing.T) {
	c := session.New()
	if _, err := RequestFor(c, "", -1); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("empty conversation err = %v", err)
	}
	c.Append("q1", domain.Response{AnswerText: "a1", Destination: "Quito", Weather: &domain.Weather{Temperature: 15}})
	c.Append("q2", domain.Response{AnswerText: "a2"})
	all, err := RequestFor(c, "1-2 mayo", -1)
	if err != nil || len(all.Turns) != 2 || all.Single || all.Meta.Destination != "Quito" || all.Meta.Weather == nil {
		t.Fatalf("all = %+v, %v", all, err)
	}
	one, err := RequestFor(c, "", 1)
	if err != nil || !one.Single || len(one.Turns) != 1 || one.Turns[0].Answer != "a2" {
		t.Fatalf("one = %+v, %v", one, err)
	}
	if _, err := RequestFor(c, "", 5); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("out of range err = %v", err)
	}
}

type historyFunc func(ctx context.Context, sessionID string) ([]domain.Exchange, error)

func (f historyFunc) History(ctx context.Context, sessionID string) ([]domain.Exchange, error) {
	return f(ctx, sessionID)
}

func TestRequestWithHistoryFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	var asked string
	stored := historyFunc(func(_ context.Context, sid string) ([]domain.Exchange, error) {
		asked = sid
		return []domain.Exchange{{Question: "q1", Answer: "a1"}, {Question: "q2", Answer: "a2"}}, nil
	})
	empty := historyFunc(func(context.Context, string) ([]domain.Exchange, error) { return nil, nil })

	c := session.New()
	c.Restore(domain.Favorite{Destination: "Cusco"})
	req, err := RequestWithHistory(ctx, c, "", -1, stored, "sess-9")
	if err != nil || asked != "sess-9" {
		t.Fatalf("fallback: err=%v asked=%q", err, asked)
	}
	if len(req.Turns) != 2 || req.Turns[1].Answer != "a2" || req.Single || req.Meta.Destination != "Cusco" {
		t.Fatalf("fallback request = %+v", req)
	}
	if _, err := RequestWithHistory(ctx, c, "", -1, empty, "sess-9"); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("empty history err = %v", err)
	}
	if _, err := RequestWithHistory(ctx, c, "", -1, nil, "sess-9"); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("no source err = %v", err)
	}
	// A single-turn export never reads the history.
	asked = ""
	if _, err := RequestWithHistory(ctx, c, "", 0, stored, "sess-9"); !errors.Is(err, ErrNothingToExport) || asked != "" {
		t.Fatalf("single turn: err=%v asked=%q", err, asked)
	}

	failing := historyFunc(func(context.Context, string) ([]domain.Exchange, error) { return nil, errors.New("db down") })
	if _, err := RequestWithHistory(ctx, c, "", -1, failing, "x"); err == nil || errors.Is(err, ErrNothingToExport) {
		t.Fatalf("store failure err = %v", err)
	}

	// Live turns win over the store.
	c.Append("en vivo", domain.Response{AnswerText: "respuesta"})
	asked = ""
	req, err = RequestWithHistory(ctx, c, "", -1, stored, "sess-9")
	if err != nil || len(req.Turns) != 1 || req.Turns[0].Question != "en vivo" || asked != "" {
		t.Fatalf("live request = %+v, err=%v asked=%q", req, err, asked)
	}
}
