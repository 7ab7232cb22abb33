package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageza/linkbio/backend/config"
	"github.com/pageza/linkbio/backend/internal/database"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply or roll back the embedded database migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "database DSN (defaults to the configured database)")

	withMigrator := func(fn func(m *database.Migrator, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			target := dsn
			if target == "" {
				cfg, err := config.Load(config.GetEnvironment())
				if err != nil {
					return err
				}
				target = cfg.DatabaseDSN()
			}
			if database.IsSQLite(target) {
				return fmt.Errorf("sqlite databases are migrated by the api at startup")
			}

			m, err := database.NewMigrator(target)
			if err != nil {
				return err
			}
			defer m.Close()
			return fn(m, cmd)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *database.Migrator, cmd *cobra.Command) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printVersion(m, cmd)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(m *database.Migrator, cmd *cobra.Command) error {
				if err := m.Down(); err != nil {
					return err
				}
				return printVersion(m, cmd)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE:  withMigrator(printVersion),
		},
	)
	return root
}

func printVersion(m *database.Migrator, cmd *cobra.Command) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	cmd.Printf("version %d (dirty: %t)\n", version, dirty)
	return nil
}
