/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package telemetry uploads crash reports to an operator-provided endpoint.
// Nothing is sent unless the user opts in and a URL is configured.
package telemetry

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"viajeia/internal/version"
)

const (
	EnvOptIn     = "VIAJEIA_TELEMETRY_OPT_IN"
	EnvCrashURL  = "VIAJEIA_CRASH_UPLOAD_URL"
	EnvTimeoutMs = "VIAJEIA_TELEMETRY_TIMEOUT_MS"
)

type Config struct {
	OptIn    bool
	CrashURL string
	Timeout  time.Duration
}

// Enabled reports whether uploads would be attempted.
func (c Config) Enabled() bool { return c.OptIn && c.CrashURL != "" }

func FromEnv() Config {
	cfg := Config{
		OptIn:    parseBool(os.Getenv(EnvOptIn)),
		CrashURL: strings.TrimSpace(os.Getenv(EnvCrashURL)),
		Timeout:  1500 * time.Millisecond,
	}
	if ms, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvTimeoutMs))); err == nil && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// UploadCrash posts report synchronously; the caller is about to exit, so
// a background send would be lost. A disabled config is a no-op.
func UploadCrash(ctx context.Context, cfg Config, report []byte) error {
	if !cfg.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.CrashURL, bytes.NewReader(report))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("X-ViajeIA-Version", version.String())
	req.Header.Set("X-ViajeIA-Platform", runtime.GOOS+"/"+runtime.GOARCH)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload crash report: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("upload crash report: status %d", resp.StatusCode)
	}
	return nil
}
