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
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage saved destinations",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved destinations",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()
		favs, err := st.Favorites(cmd.Context())
		if err != nil {
			return err
		}
		if len(favs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No favorites saved.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDESTINATION\tWEATHER\tSAVED")
		for _, f := range favs {
			weather := "-"
			if f.Weather != nil {
				weather = f.Weather.Line()
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", f.ID, f.Destination, weather, f.SavedAt)
		}
		return tw.Flush()
	},
}

var favoritesDeleteCmd = &cobra.Command{
	Use:   "delete <destination>",
	Short: "Delete a saved destination (exact name)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.DeleteFavorite(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete %q: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd, favoritesDeleteCmd)
	rootCmd.AddCommand(favoritesCmd)
}
