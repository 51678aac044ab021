/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package view

import (
	"bytes"
	"strings"
	"testing"

	"viajeia/internal/answer"
)

const sample = "🏨 **Lodging:** Hotel A\n- Option 1\n* Option 2\n🍽️ **Food:** \nTry the **market**"

func keys(elems []*Element) []string {
	var out []string
	for _, e := range elems {
		Walk(e, func(x *Element) { out = append(out, x.Key) })
	}
	return out
}

func TestBuildSectionsAndBullets(t *testing.T) {
	elems := Build("t0", answer.Parse(sample))
	if len(elems) != 2 {
		t.Fatalf("top-level elements = %d, want 2", len(elems))
	}
	sec := elems[0]
	if sec.Kind != KindSection || len(sec.Children) != 2 {
		t.Fatalf("unexpected section element: %+v", sec)
	}
	hdr := sec.Children[0]
	if hdr.Kind != KindSectionHeader || hdr.Emoji != "🏨" || hdr.Text != "Lodging" {
		t.Fatalf("header = %+v", hdr)
	}
	content := sec.Children[1]
	if len(content.Children) != 3 {
		t.Fatalf("content children = %d, want 3", len(content.Children))
	}
	for _, b := range content.Children[1:] {
		if b.Kind != KindBullet || b.Text != BulletGlyph {
			t.Fatalf("bullet = %+v", b)
		}
	}
}

func TestBulletMarkersNormalize(t *testing.T) {
	for _, in := range []string{"- x", "* x", "• x", "3. x"} {
		elems := Build("k", answer.Parse(in))
		if len(elems) != 1 || elems[0].Kind != KindBullet || elems[0].Text != BulletGlyph {
			t.Fatalf("%q did not normalize: %+v", in, elems)
		}
		if got := elems[0].Children[0].Text; got != "x" {
			t.Fatalf("%q content = %q", in, got)
		}
	}
}

func TestKeysStableAndUnique(t *testing.T) {
	a := keys(Build("t1", answer.Parse(sample)))
	b := keys(Build("t1", answer.Parse(sample)))
	if strings.Join(a, ",") != strings.Join(b, ",") {
		t.Fatalf("keys differ across builds:\n%v\n%v", a, b)
	}
	seen := map[string]bool{}
	for _, k := range a {
		if seen[k] {
			t.Fatalf("duplicate key %q", k)
		}
		seen[k] = true
	}
}

func TestEmptyBoldKeepsPosition(t *testing.T) {
	elems := Build("k", answer.Parse("a****b"))
	line := elems[0]
	if len(line.Children) != 3 || line.Children[1].Kind != KindBold || line.Children[1].Text != "" {
		t.Fatalf("empty bold fragment should render as an element: %+v", line.Children)
	}
	if !strings.HasSuffix(line.Children[2].Key, "text-2") {
		t.Fatalf("key after empty bold = %q", line.Children[2].Key)
	}
}

func TestTurnKeys(t *testing.T) {
	if FirstTurnKey("same answer") != FirstTurnKey("same answer") {
		t.Fatalf("first turn key must be deterministic")
	}
	if FirstTurnKey("one") == FirstTurnKey("two") {
		t.Fatalf("different answers should get different keys")
	}
	if got, want := FollowUpTurnKey(2, "¿Qué comer en Lima hoy?"), "follow-2-¿Qué-comer-en-L"; got != want {
		t.Fatalf("FollowUpTurnKey = %q, want %q", got, want)
	}
}

func TestEmptyAnswerRendersNothing(t *testing.T) {
	if elems := Build("k", answer.Parse("")); len(elems) != 0 {
		t.Fatalf("expected no elements, got %d", len(elems))
	}
	turn := BuildTurn("k", "", answer.Parse(""))
	if len(turn.Children) != 0 {
		t.Fatalf("empty turn should have no children")
	}
	var buf bytes.Buffer
	if err := RenderHTML(&buf, nil); err != nil || buf.Len() != 0 {
		t.Fatalf("RenderHTML(nil) = %q, %v", buf.String(), err)
	}
}

func TestRenderHTML(t *testing.T) {
	turn := BuildTurn("t0", "Quiero planear un viaje a Lima", answer.Parse(sample))
	var buf bytes.Buffer
	if err := RenderHTML(&buf, []*Element{turn}); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`<div data-key="t0" class="turn">`,
		`class="question">Quiero planear un viaje a Lima</div>`,
		`<span class="section-icon">🏨</span><span class="section-title">Lodging</span>`,
		`<span class="bullet">•</span> Option 1`,
		`<strong data-key="t0/line-4/bold-1">market</strong>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("html missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "**") || strings.Contains(out, "* Option") {
		t.Fatalf("raw markers leaked into html:\n%s", out)
	}
}

func TestRenderTerminal(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTerminal(&buf, Build("t0", answer.Parse(sample)), 0); err != nil {
		t.Fatalf("RenderTerminal: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Lodging", "Hotel A", "• Option 1", "• Option 2", "Food", "market"} {
		if !strings.Contains(out, want) {
			t.Fatalf("terminal output missing %q:\n%s", want, out)
		}
	}
}
