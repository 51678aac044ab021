/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"viajeia/internal/config"
	applog "viajeia/internal/log"
)

// runtimeEnv is what every command gets after config and logging are set up.
type runtimeEnv struct {
	cfg     config.AppConfig
	token   string
	dataDir string
}

var env runtimeEnv

var rootCmd = &cobra.Command{
	Use:   "viajeia",
	Short: "ViajeIA is a travel-planning chat client",
	Long: `ViajeIA talks to a travel planner backend, renders its structured answers
in the terminal, a browser or a desktop window, and exports conversations as PDF.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, token, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if v, _ := cmd.Flags().GetString("planner-url"); v != "" {
			cfg.Planner.BaseURL = v
		}
		applog.Init(applog.Options{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.Source,
			File:      cfg.Logging.File,
		})
		dir, err := config.Dir()
		if err != nil {
			dir = os.TempDir()
		}
		env = runtimeEnv{cfg: cfg, token: token, dataDir: dir}
		applog.WithComponent("cli").Debug("start", slog.String("cmd", cmd.CommandPath()), slog.Int("args", len(args)))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("planner-url", "", "Planner backend base URL (overrides config)")
}
