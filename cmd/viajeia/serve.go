/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	applog "viajeia/internal/log"
	"viajeia/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat page and JSON API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		l := applog.WithOperation(applog.WithComponent("cli"), "serve")
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = env.cfg.Server.Addr
		}
		exp, err := newExporter("")
		if err != nil {
			return err
		}
		deps := server.Deps{Planner: newPlanner(), Exporter: exp}
		if st, err := openStore(cmd.Context()); err != nil {
			l.Warn("store unavailable, history and favorites disabled", "err", err)
		} else {
			defer st.Close()
			deps.Store = st
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           server.New(deps),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			l.Info("listening", "addr", addr, "planner", env.cfg.Planner.BaseURL)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			l.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				l.Warn("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
}
