// cmd/martyrctl/db_cmd.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WAJoseph/christian-martyrs-honor/internal/db"
)

type dbFlags struct {
	url string
}

func (f *dbFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "database-url", envDefault("", "DATABASE_URL"), "Postgres connection URL (env DATABASE_URL)")
}

func (f *dbFlags) open(ctx context.Context) (*sql.DB, error) {
	if f.url == "" {
		return nil, errors.New("--database-url or DATABASE_URL is required")
	}
	return db.Open(ctx, f.url, db.Options{MaxOpenConns: 2, MaxIdleConns: 1})
}

func newMigrateCmd() *cobra.Command {
	var f dbFlags
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := f.open(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := db.Migrate(cmd.Context(), conn); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newSeedCmd() *cobra.Command {
	var (
		f       dbFlags
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the archive contents with the seed data",
		Long:  "Deletes every martyr, testimony and timeline row, then loads the seed data in one transaction.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := f.open(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()
			if migrate {
				if err := db.Migrate(cmd.Context(), conn); err != nil {
					return err
				}
			}
			if err := db.Seed(cmd.Context(), conn); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "database seeded")
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply migrations before seeding")
	return cmd
}
