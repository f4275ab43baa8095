package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ledgerdesk/backend/internal/infrastructure/migration"
	"github.com/ledgerdesk/backend/migrations"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

type migrateOptions struct {
	*rootOptions
	path string
}

func newMigrateCommand(root *rootOptions) *cobra.Command {
	opts := &migrateOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long: `Apply or roll back schema migrations.

Without --path the migrations compiled into this binary are used. With --path
the SQL files are read from that directory instead.`,
	}
	cmd.PersistentFlags().StringVar(&opts.path, "path", "", "Read migrations from this directory instead of the embedded set")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return opts.withMigrator(func(m *migration.Migrator, _ *zap.Logger) error {
					return m.Up()
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return opts.withMigrator(func(m *migration.Migrator, _ *zap.Logger) error {
					return m.Down()
				})
			},
		},
		&cobra.Command{
			Use:   "step <n>",
			Short: "Apply n migrations (positive=up, negative=down)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return opts.withMigrator(func(m *migration.Migrator, _ *zap.Logger) error {
					return m.Steps(n)
				})
			},
		},
		&cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate to a specific version",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return opts.withMigrator(func(m *migration.Migrator, _ *zap.Logger) error {
					return m.GoTo(uint(v))
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show the current migration version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return opts.withMigrator(func(m *migration.Migrator, log *zap.Logger) error {
					v, dirty, err := m.Version()
					if err != nil {
						return err
					}
					if v == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
						return nil
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Force set the migration version without running it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return opts.withMigrator(func(m *migration.Migrator, _ *zap.Logger) error {
					return m.Force(v)
				})
			},
		},
		newDropCommand(opts),
		newCreateCommand(opts),
		newListCommand(opts),
	)
	return cmd
}

func newDropCommand(opts *migrateOptions) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop every database object (destroys all data)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return fmt.Errorf("drop cancelled: pass --confirm to drop all database objects")
			}
			return opts.withMigrator(func(m *migration.Migrator, _ *zap.Logger) error {
				return m.Drop()
			})
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm dropping all database objects")
	return cmd
}

func newCreateCommand(opts *migrateOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create a new migration file pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := ""
			if len(args) > 1 {
				description = args[1]
			}
			dir, err := opts.directory()
			if err != nil {
				return err
			}
			mf, err := migration.CreateMigration(dir, args[0], description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n        %s\n", mf.UpPath, mf.DownPath)
			return nil
		},
	}
}

func newListCommand(opts *migrateOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var list []migration.MigrationEntry
			var err error
			if opts.path == "" {
				list, err = migration.ListMigrations(migrations.FS)
			} else {
				list, err = migration.ListMigrations(os.DirFS(opts.path))
			}
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations found")
				return nil
			}
			for _, m := range list {
				suffix := ""
				if !m.HasDown {
					suffix = " (no down script)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s%s\n", m.BaseName(), suffix)
			}
			return nil
		},
	}
}

// directory resolves where new migration files are written.
func (o *migrateOptions) directory() (string, error) {
	dir := o.path
	if dir == "" {
		dir = defaultMigrationsPath
	}
	return filepath.Abs(dir)
}

func (o *migrateOptions) withMigrator(fn func(*migration.Migrator, *zap.Logger) error) error {
	log, err := o.newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := o.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	var m *migration.Migrator
	if o.path == "" {
		log.Info("Using embedded migrations")
		m, err = migration.NewEmbedded(db, log)
	} else {
		dir, absErr := filepath.Abs(o.path)
		if absErr != nil {
			return absErr
		}
		log.Info("Using migrations directory", zap.String("path", dir))
		m, err = migration.New(db, dir, log)
	}
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m, log)
}
