// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/quarterdeck/quarterdeck/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Quarterdeck CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quarterdeck",
		Short: "Quarterdeck - an admin dashboard service",
		Long: `Quarterdeck is an admin dashboard service: account management with
role-gated authorization, link shortcuts, and container status display.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}

// loadConfig builds the configuration for a subcommand from the shared
// config file flag and the subcommand's own flag set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(configFile, cmd.Flags())
}
