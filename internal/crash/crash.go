/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a report file and a transcript dump.
package crash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "viajeia/internal/log"
	"viajeia/internal/session"
	"viajeia/internal/telemetry"
	"viajeia/internal/version"
)

// ReportsDirName is the sub-directory of the data dir holding reports.
const ReportsDirName = "crash"

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Recover captures a panic, logs it with the stack, writes a report under
// dataDir and, if conv is non-nil, saves the conversation so far next to it.
//
// Usage: defer crash.Recover(dataDir, conv)
func Recover(dataDir string, conv *session.Conversation) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, err := writeReport(dataDir, r, stack)
		if err != nil {
			l.Error("write crash report failed", slog.Any("err", err))
		}
		if conv != nil && conv.Len() > 0 {
			if path, err := writeTranscript(dataDir, conv); err != nil {
				l.Error("transcript dump failed", slog.Any("err", err))
			} else {
				l.Info("transcript dump written", slog.String("path", path))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		exitFn(2)
	}
}

func reportsDir(dataDir string) string {
	if dataDir == "" {
		return os.TempDir()
	}
	dir := filepath.Join(dataDir, ReportsDirName)
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

func writeReport(dataDir string, panicVal any, stack []byte) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(reportsDir(dataDir), fmt.Sprintf("crash-%s.log", stamp))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "ViajeIA Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	if err := telemetry.UploadCrash(context.Background(), telemetry.FromEnv(), buf.Bytes()); err != nil {
		applog.WithComponent("crash").Warn("crash upload failed", slog.Any("err", err))
	}
	return path, nil
}

type transcript struct {
	SessionID string           `json:"sessionId,omitempty"`
	Pinned    any              `json:"pinned,omitempty"`
	Turns     []map[string]any `json:"turns"`
}

func writeTranscript(dataDir string, conv *session.Conversation) (string, error) {
	t := transcript{SessionID: conv.SessionID()}
	if side, ok := conv.Pinned(); ok {
		t.Pinned = side
	}
	for _, ex := range conv.History() {
		t.Turns = append(t.Turns, map[string]any{"question": ex.Question, "answer": ex.Answer})
	}
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(reportsDir(dataDir), fmt.Sprintf("conversation-%s.json", time.Now().Format("20060102-150405")))
	return path, os.WriteFile(path, b, 0o644)
}
