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

	"viajeia/internal/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the planner API token kept in the OS keychain",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Store the planner token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(env.cfg, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token saved.")
		return nil
	},
}

var tokenForgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove the stored planner token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ForgetToken(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token removed.")
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenForgetCmd)
	rootCmd.AddCommand(tokenCmd)
}
