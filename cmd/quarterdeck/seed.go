// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/quarterdeck/quarterdeck/internal/auth"
	authpg "github.com/quarterdeck/quarterdeck/internal/auth/postgres"
	"github.com/quarterdeck/quarterdeck/internal/config"
	"github.com/quarterdeck/quarterdeck/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	username string
	password string
	timeout  time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	seedCfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the bootstrap admin account",
		Long: `Creates the initial admin account so the dashboard can be logged into.
The credentials must satisfy the password policy. This command is idempotent -
it will not create a duplicate if the username already exists.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runSeed(cmd, cfg, seedCfg)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVar(&seedCfg.username, "username", "", "admin username (required)")
	cmd.Flags().StringVar(&seedCfg.password, "password", "", "admin password (required)")
	cmd.Flags().DurationVar(&seedCfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, cfg *config.Config, seedCfg *seedConfig) error {
	if seedCfg.username == "" || seedCfg.password == "" {
		return oops.Code("CONFIG_INVALID").Errorf("--username and --password are required")
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required")
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals.
	ctx, cancel := context.WithTimeout(cmd.Context(), seedCfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	sessions, err := auth.NewSessionManager(cfg.SessionSecret)
	if err != nil {
		return err
	}
	svc, err := auth.NewService(authpg.NewAccountRepository(pool), sessions, auth.NewBcryptHasher())
	if err != nil {
		return err
	}

	account, err := svc.Register(ctx, seedCfg.username, seedCfg.password, seedCfg.password, auth.RoleAdmin.String())
	if err != nil {
		if errors.Is(err, auth.ErrDuplicate) {
			cmd.Println("Admin account already exists, skipping seed")
			slog.Info("already seeded", "username", seedCfg.username)
			return nil
		}
		return err
	}

	cmd.Printf("Created admin account %q\n", account.Username)
	slog.Info("bootstrap admin created",
		"account_id", account.ID.String(),
		"username", account.Username,
	)
	return nil
}
