/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"github.com/spf13/cobra"

	applog "viajeia/internal/log"
	"viajeia/internal/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the desktop UI (build with -tags fyne)",
	RunE: func(cmd *cobra.Command, args []string) error {
		exp, err := newExporter("")
		if err != nil {
			return err
		}
		opt := ui.Options{Planner: newPlanner(), Exporter: exp, DataDir: env.dataDir}
		if st, err := openStore(cmd.Context()); err != nil {
			applog.WithComponent("cli").Warn("store unavailable, favorites disabled", "err", err)
		} else {
			defer st.Close()
			opt.Store = st
		}
		return ui.Run(opt)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
