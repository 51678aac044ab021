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

	"github.com/spf13/cobra"

	"viajeia/internal/answer"
	"viajeia/internal/view"
)

var renderCmd = &cobra.Command{
	Use:   "render <file|->",
	Short: "Render a planner answer as a tree in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readAnswer(args[0])
		if err != nil {
			return err
		}
		width, _ := cmd.Flags().GetInt("width")
		asHTML, _ := cmd.Flags().GetBool("html")
		elems := view.Build("cli", answer.Parse(text))
		if asHTML {
			if err := view.RenderHTML(cmd.OutOrStdout(), elems); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		}
		return view.RenderTerminal(cmd.OutOrStdout(), elems, width)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Int("width", 80, "Wrap width")
	renderCmd.Flags().Bool("html", false, "Emit the HTML fragment instead")
}
