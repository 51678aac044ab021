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
	"fmt"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDFOptions carry document properties.
type PDFOptions struct {
	Title  string
	Author string
}

// WritePDF writes one PDF page per page image, each stretched to the full
// page size of f, in order.
func WritePDF(w io.Writer, pages []Page, f PageFormat, opt PDFOptions) error {
	if len(pages) == 0 {
		return fmt.Errorf("write pdf: no pages")
	}
	size := gofpdf.SizeType{Wd: f.WidthMM, Ht: f.HeightMM}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "mm",
		Size:           size,
		OrientationStr: "P",
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if opt.Title != "" {
		pdf.SetTitle(opt.Title, true)
	}
	author := opt.Author
	if author == "" {
		author = ProductName
	}
	pdf.SetAuthor(author, true)
	pdf.SetCreator(ProductName, true)

	for _, pg := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, pg.Image); err != nil {
			return fmt.Errorf("encode page %d: %w", pg.Index+1, err)
		}
		name := fmt.Sprintf("page-%d", pg.Index)
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.AddPageFormat("P", size)
		pdf.ImageOptions(name, 0, 0, f.WidthMM, f.HeightMM, false, opts, 0, "")
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("add page %d: %w", pg.Index+1, err)
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
