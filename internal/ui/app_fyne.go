//go:build fyne && cgo

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
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"viajeia/internal/crash"
	"viajeia/internal/domain"
	"viajeia/internal/export"
	applog "viajeia/internal/log"
	"viajeia/internal/session"
	"viajeia/internal/version"
	"viajeia/internal/view"
)

// Run starts the Fyne desktop chat: trip form, conversation, side panel
// and favorites.
func Run(opt Options) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	ctrl := NewController(opt)
	defer crash.Recover(opt.DataDir, ctrl.Conversation())

	fyneApp := app.NewWithID("viajeia")
	w := fyneApp.NewWindow("ViajeIA " + version.String())
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1100)
	winH := prefs.IntWithFallback("window.height", 760)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Listo")
	chat := container.NewVBox()
	chatScroll := container.NewVScroll(chat)
	side := container.NewVBox()

	refreshSide := func() {
		side.Objects = nil
		pinned, _ := ctrl.Conversation().Pinned()
		if pinned.Empty() {
			side.Add(widget.NewLabel("Sin destino todavía"))
			side.Refresh()
			return
		}
		side.Add(widget.NewLabelWithStyle("📍 "+pinned.Destination, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		if pinned.Weather != nil {
			side.Add(widget.NewLabel("🌡️ " + pinned.Weather.Line()))
		}
		if pinned.Aux != nil && pinned.Aux.Timezone != nil {
			if t, diff, ok := pinned.Aux.Timezone.DestinationClock(time.Now()); ok {
				side.Add(widget.NewLabel(fmt.Sprintf("🕐 %s (%s)", t.Format("15:04"), domain.FormatHourDiff(diff))))
			}
		}
		if pinned.Aux != nil && pinned.Aux.ExchangeRate != nil {
			side.Add(widget.NewLabel("💱 " + pinned.Aux.ExchangeRate.Line()))
		}
		for _, p := range pinned.Photos {
			if p.Caption != "" {
				side.Add(widget.NewLabel("📷 " + p.Caption))
			}
		}
		side.Refresh()
	}

	showResult := func(res export.Result, err error) {
		switch {
		case errors.Is(err, export.ErrBusy):
			status.SetText("Ya hay una exportación en curso")
		case err != nil:
			l.Error("export failed", "err", err)
			dialog.ShowInformation("Error", "Error al generar el PDF. Por favor, intenta de nuevo.", w)
		default:
			status.SetText(fmt.Sprintf("PDF guardado: %s (%d páginas)", res.Path, res.Pages))
		}
	}

	appendTurn := func(t session.Turn) {
		rt := widget.NewRichText(Segments(view.BuildTurn(t.Key(), t.Question(), t.Document()))...)
		rt.Wrapping = fyne.TextWrapWord
		idx := t.Index()
		exportBtn := widget.NewButton("📄 Exportar respuesta", func() {
			go func() {
				res, err := ctrl.Export(context.Background(), idx)
				fyne.Do(func() { showResult(res, err) })
			}()
		})
		chat.Add(container.NewVBox(rt, container.NewHBox(exportBtn), widget.NewSeparator()))
		chatScroll.ScrollToBottom()
		refreshSide()
	}

	rebuildChat := func() {
		chat.Objects = nil
		chat.Refresh()
		for _, t := range ctrl.Conversation().Turns() {
			appendTurn(t)
		}
		refreshSide()
	}

	askAsync := func(run func(ctx context.Context) (session.Turn, error)) {
		status.SetText("Pensando…")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			t, err := run(ctx)
			fyne.Do(func() {
				if err != nil {
					l.Warn("ask failed", "err", err)
					dialog.ShowError(err, w)
					status.SetText("Listo")
					return
				}
				appendTurn(t)
				status.SetText("Listo")
			})
		}()
	}

	// Trip form
	destEntry := widget.NewEntry()
	destEntry.SetPlaceHolder("Ej: París, Francia")
	startEntry := widget.NewEntry()
	startEntry.SetPlaceHolder("AAAA-MM-DD")
	endEntry := widget.NewEntry()
	endEntry.SetPlaceHolder("AAAA-MM-DD")
	budgetSelect := widget.NewSelect(session.BudgetRanges, nil)
	budgetSelect.PlaceHolder = "Selecciona un rango"
	prefRadio := widget.NewRadioGroup(session.Preferences, nil)
	prefRadio.Horizontal = true

	tripForm := widget.NewForm(
		widget.NewFormItem("¿A dónde quieres viajar?", destEntry),
		widget.NewFormItem("Fecha de ida", startEntry),
		widget.NewFormItem("Fecha de regreso", endEntry),
		widget.NewFormItem("Presupuesto", budgetSelect),
		widget.NewFormItem("Preferencia", prefRadio),
	)
	tripForm.SubmitText = "🚀 Planificar mi viaje"
	tripForm.OnSubmit = func() {
		f := session.TripForm{
			Destination: destEntry.Text,
			StartDate:   startEntry.Text,
			EndDate:     endEntry.Text,
			Budget:      budgetSelect.Selected,
			Preference:  prefRadio.Selected,
		}
		if err := f.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		askAsync(func(ctx context.Context) (session.Turn, error) { return ctrl.StartTrip(ctx, f) })
	}

	// Follow-up input
	input := widget.NewEntry()
	input.SetPlaceHolder("Escribe tu pregunta…")
	send := func() {
		q := input.Text
		if q == "" {
			return
		}
		input.SetText("")
		askAsync(func(ctx context.Context) (session.Turn, error) { return ctrl.Ask(ctx, q) })
	}
	input.OnSubmitted = func(string) { send() }
	sendBtn := widget.NewButton("Enviar", send)

	exportAll := widget.NewButton("📄 Exportar conversación", func() {
		go func() {
			res, err := ctrl.Export(context.Background(), -1)
			fyne.Do(func() { showResult(res, err) })
		}()
	})
	newChat := widget.NewButton("Nueva conversación", func() {
		ctrl.Clear(context.Background())
		rebuildChat()
	})

	// Favorites
	var favs []domain.Favorite
	favList := widget.NewList(
		func() int { return len(favs) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText("⭐ " + favs[i].Destination) },
	)
	reloadFavs := func() {
		list, err := ctrl.Favorites(context.Background())
		if err != nil && !errors.Is(err, ErrNoStore) {
			l.Warn("list favorites failed", "err", err)
		}
		favs = list
		favList.Refresh()
	}
	favList.OnSelected = func(i widget.ListItemID) {
		dest := favs[i].Destination
		favList.UnselectAll()
		if err := ctrl.LoadFavorite(context.Background(), dest); err != nil {
			dialog.ShowError(err, w)
			return
		}
		destEntry.SetText(dest)
		rebuildChat()
		status.SetText("Favorito cargado: " + dest)
	}
	saveFav := widget.NewButton("⭐ Guardar destino", func() {
		_, created, err := ctrl.SaveFavorite(context.Background())
		switch {
		case err != nil:
			dialog.ShowError(err, w)
		case !created:
			status.SetText("Este destino ya está en favoritos")
		default:
			status.SetText("Destino guardado en favoritos")
		}
		reloadFavs()
	})
	delFav := widget.NewButton("Eliminar destino", func() {
		pinned, _ := ctrl.Conversation().Pinned()
		if err := ctrl.DeleteFavorite(context.Background(), pinned.Destination); err != nil {
			dialog.ShowError(err, w)
			return
		}
		reloadFavs()
	})

	left := container.NewBorder(
		container.NewVBox(widget.NewLabelWithStyle("Planifica tu viaje", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), tripForm, widget.NewSeparator()),
		nil, nil, nil, chatScroll,
	)
	bottom := container.NewBorder(nil, container.NewHBox(exportAll, newChat, status), nil, sendBtn, input)
	right := container.NewBorder(
		container.NewVBox(side, container.NewHBox(saveFav, delFav), widget.NewSeparator(), widget.NewLabel("Favoritos")),
		nil, nil, nil, favList,
	)
	split := container.NewHSplit(container.NewBorder(nil, bottom, nil, nil, left), right)
	split.Offset = 0.72
	w.SetContent(split)

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	reloadFavs()
	refreshSide()
	w.ShowAndRun()
	return nil
}
