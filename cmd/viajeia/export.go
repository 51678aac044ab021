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

	"viajeia/internal/domain"
	"viajeia/internal/export"
	"viajeia/internal/session"
)

var exportCmd = &cobra.Command{
	Use:   "export <file|->",
	Short: "Export a planner answer as a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readAnswer(args[0])
		if err != nil {
			return err
		}
		dest, _ := cmd.Flags().GetString("destination")
		dates, _ := cmd.Flags().GetString("dates")
		question, _ := cmd.Flags().GetString("question")
		photos, _ := cmd.Flags().GetStringSlice("photo")
		out, _ := cmd.Flags().GetString("out")
		if question == "" && dest != "" {
			question = session.DestinationQuestion(dest)
		}

		resp := domain.Response{AnswerText: text, Destination: dest}
		for _, p := range photos {
			resp.Photos = append(resp.Photos, domain.Photo{URL: p})
		}
		conv := session.New()
		conv.Append(question, resp)
		req, err := export.RequestFor(conv, dates, -1)
		if err != nil {
			return err
		}
		exp, err := newExporter(out)
		if err != nil {
			return err
		}
		res, err := exp.Export(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d pages, %d bytes)\n", res.Path, res.Pages, res.Bytes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("destination", "", "Trip destination")
	exportCmd.Flags().String("dates", "", "Trip dates shown in the header")
	exportCmd.Flags().String("question", "", "Question shown above the answer")
	exportCmd.Flags().StringSlice("photo", nil, "Photo URL or path (repeatable)")
	exportCmd.Flags().String("out", "", "Output directory (overrides config)")
}
