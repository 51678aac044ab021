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
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// historySession is the key the app persists under before the planner
// hands out a session id.
const historySession = "local"

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect persisted conversation history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored exchanges of a session, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		sid, _ := cmd.Flags().GetString("session")
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()
		hist, err := st.History(cmd.Context(), sid)
		if err != nil {
			return err
		}
		if len(hist) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No history for session %s.\n", sid)
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tQUESTION\tANSWER")
		for i, ex := range hist {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, summary(ex.Question), summary(ex.Answer))
		}
		return tw.Flush()
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the stored exchanges of a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sid, _ := cmd.Flags().GetString("session")
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.ClearHistory(cmd.Context(), sid); err != nil {
			return fmt.Errorf("clear history %s: %w", sid, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared history for session %s\n", sid)
		return nil
	},
}

// summary is the first line of s, cut to 60 runes.
func summary(s string) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	if r := []rune(s); len(r) > 60 {
		return string(r[:59]) + "…"
	}
	return s
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyClearCmd} {
		c.Flags().String("session", historySession, "Session id the history is stored under")
	}
	historyCmd.AddCommand(historyListCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
