package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/grocery/config"
	"github.com/shashiranjanraj/grocery/database/seeders"
	"github.com/shashiranjanraj/grocery/pkg/app"
)

// boot loads config and connects the application.
func boot(cmd *cobra.Command) (*app.Application, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	return app.New(cmd.Context(), cfg)
}

// grocery migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
		return a.Migrate(cmd.Context(), cmd.OutOrStdout())
	},
}

// grocery migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
		return a.Rollback(cmd.Context(), cmd.OutOrStdout())
	},
}

// grocery migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.MigrateStatus(cmd.Context(), cmd.OutOrStdout())
	},
}

// grocery seed
var seedCmd = &cobra.Command{
	Use:       "seed [name...]",
	Short:     "Run the database seeders, or only the named ones",
	ValidArgs: seeders.Names(),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return seeders.Run(a.DB, cmd.OutOrStdout(), args...)
	},
}
