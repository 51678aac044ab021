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
	"strings"

	"github.com/spf13/cobra"

	"viajeia/internal/answer"
	"viajeia/internal/domain"
	"viajeia/internal/view"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the planner a question and render the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		sid, _ := cmd.Flags().GetString("session")
		resp, err := newPlanner().Ask(cmd.Context(), question, sid)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if resp.Destination != "" {
			fmt.Fprintf(out, "📍 %s\n", resp.Destination)
		}
		if resp.Weather != nil {
			fmt.Fprintf(out, "🌡️ %s\n", resp.Weather.Line())
		}
		if resp.Aux != nil && resp.Aux.ExchangeRate != nil {
			fmt.Fprintf(out, "💱 %s\n", resp.Aux.ExchangeRate.Line())
		}
		width, _ := cmd.Flags().GetInt("width")
		turn := view.BuildTurn(view.FirstTurnKey(resp.AnswerText), question, answer.Parse(resp.AnswerText))
		if err := view.RenderTerminal(out, []*view.Element{turn}, width); err != nil {
			return err
		}
		if resp.SessionID != "" {
			fmt.Fprintf(out, "\nsession: %s\n", resp.SessionID)
		}
		if st, err := openStore(cmd.Context()); err == nil {
			defer st.Close()
			key := resp.SessionID
			if key == "" {
				key = "local"
			}
			_ = st.AppendExchange(cmd.Context(), key, domain.Exchange{Question: question, Answer: resp.AnswerText})
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().String("session", "", "Continue an existing planner session")
	askCmd.Flags().Int("width", 80, "Wrap width")
}
