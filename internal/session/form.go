/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"fmt"
	"strings"
	"time"
)

// BudgetRanges are the budget choices offered by the trip form.
var BudgetRanges = []string{
	"Económico (menos de $500 USD)",
	"Moderado ($500 - $1,500 USD)",
	"Comfortable ($1,500 - $3,000 USD)",
	"Lujo (más de $3,000 USD)",
}

// Preferences are the experience types offered by the trip form.
var Preferences = []string{"aventura", "relajación", "cultura"}

// TripForm is the initial planning form. Every field is required.
type TripForm struct {
	Destination string `json:"destino"`
	StartDate   string `json:"fechaInicio"`
	EndDate     string `json:"fechaFin"`
	Budget      string `json:"presupuesto"`
	Preference  string `json:"preferencia"`
}

// ErrIncompleteForm is the user-facing message for a form with missing fields.
type ErrIncompleteForm struct {
	Missing []string
}

func (e *ErrIncompleteForm) Error() string {
	return "Por favor, completa todos los campos del formulario"
}

// Validate reports which fields are empty.
func (f TripForm) Validate() error {
	var missing []string
	for _, fld := range []struct{ name, v string }{
		{"destino", f.Destination},
		{"fechaInicio", f.StartDate},
		{"fechaFin", f.EndDate},
		{"presupuesto", f.Budget},
		{"preferencia", f.Preference},
	} {
		if strings.TrimSpace(fld.v) == "" {
			missing = append(missing, fld.name)
		}
	}
	if len(missing) > 0 {
		return &ErrIncompleteForm{Missing: missing}
	}
	return nil
}

// Question builds the opening question sent to the planner.
func (f TripForm) Question() string {
	return fmt.Sprintf("Quiero planear un viaje a %s desde %s hasta %s. Mi presupuesto aproximado es %s y prefiero %s. ¿Puedes ayudarme a planificar este viaje?",
		f.Destination, f.StartDate, f.EndDate, f.Budget, f.Preference)
}

// DisplayQuestion is the short form shown above the first turn.
func (f TripForm) DisplayQuestion() string {
	return DestinationQuestion(f.Destination)
}

// DestinationQuestion is the prompt used when a trip starts from a destination alone.
func DestinationQuestion(destination string) string {
	if destination == "" {
		return ""
	}
	return "Quiero planear un viaje a " + destination
}

// DateRange formats the trip dates for the export info band as long Spanish
// dates, "1 de junio de 2026 - 10 de junio de 2026". A missing date reads
// "No especificada"; with neither date the band line is omitted.
func (f TripForm) DateRange() string {
	if f.StartDate == "" && f.EndDate == "" {
		return ""
	}
	return LongDate(f.StartDate) + " - " + LongDate(f.EndDate)
}

const dateUnset = "No especificada"

var monthsES = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// LongDate renders an ISO date (2006-01-02) as "2 de enero de 2006".
// Empty input gives "No especificada"; anything unparseable is returned as is.
func LongDate(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return dateUnset
	}
	d, err := time.Parse(time.DateOnly, iso)
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%d de %s de %d", d.Day(), monthsES[d.Month()-1], d.Year())
}
