/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	applog "viajeia/internal/log"
)

// maxPhotoBytes caps a single downloaded photo.
const maxPhotoBytes = 16 << 20

// LoadedImage is the outcome of loading one photo. Err is set when the photo
// failed or missed the deadline; the rasterizer then draws a placeholder.
type LoadedImage struct {
	Caption
	Img image.Image
	Err error
}

// ImageLoader fetches photos over HTTP, or from disk for file:// and bare paths.
type ImageLoader struct {
	Client  *http.Client
	Timeout time.Duration // overall bound for the batch; 0 means 4s
}

// Load fetches every photo concurrently and waits until each one has either
// loaded or failed, or the timeout expires. It never returns an error for a
// single photo; results keep the input order.
func (l ImageLoader) Load(ctx context.Context, photos []Caption) []LoadedImage {
	out := make([]LoadedImage, len(photos))
	if len(photos) == 0 {
		return out
	}
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lg := applog.WithOperation(applog.WithComponent("export"), "load_images")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, p := range photos {
		out[i].Caption = p
		g.Go(func() error {
			img, err := l.fetch(gctx, p.Photo.URL)
			if err != nil {
				lg.Warn("photo unavailable", "url", p.Photo.URL, "err", err)
				out[i].Err = err
				return nil
			}
			out[i].Img = img
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (l ImageLoader) fetch(ctx context.Context, src string) (image.Image, error) {
	if src == "" {
		return nil, errors.New("empty photo url")
	}
	var rc io.ReadCloser
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		client := l.Client
		if client == nil {
			client = http.DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("get photo: status %d", resp.StatusCode)
		}
		rc = resp.Body
	default:
		f, err := os.Open(strings.TrimPrefix(src, "file://"))
		if err != nil {
			return nil, err
		}
		rc = f
	}
	defer rc.Close()

	type result struct {
		img image.Image
		err error
	}
	done := make(chan result, 1)
	go func() {
		img, _, err := image.Decode(io.LimitReader(rc, maxPhotoBytes))
		done <- result{img, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("decode photo: %w", r.err)
		}
		return r.img, nil
	}
}
