package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	importapp "github.com/ledgerdesk/backend/internal/application/import"
	"github.com/ledgerdesk/backend/internal/domain/bulk"
	"github.com/ledgerdesk/backend/internal/infrastructure/persistence"
	"github.com/ledgerdesk/backend/internal/infrastructure/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type importAccountsOptions struct {
	tenant       string
	file         string
	strictness   string
	conflictMode string
}

func newImportCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk import chart-of-accounts data",
	}
	cmd.AddCommand(newImportAccountsCommand(root))
	return cmd
}

func newImportAccountsCommand(root *rootOptions) *cobra.Command {
	opts := &importAccountsOptions{}
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Import accounts for one tenant from a CSV file",
		Long: `Import accounts from a CSV file with the columns
Account Name, Element Group, Sub Element Group, Detailed Group,
Description and Opening Balance.

Rows are stored independently; the command prints the import result as JSON
and exits non-zero only when the file as a whole is rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenantID, err := uuid.Parse(opts.tenant)
			if err != nil {
				return fmt.Errorf("invalid --tenant %q: %w", opts.tenant, err)
			}
			data, err := os.ReadFile(opts.file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", opts.file, err)
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			log, err := root.newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := persistence.NewDatabase(&cfg.Database)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			importOpts, err := importapp.OptionsFromConfig(cfg.Import, cfg.Storage, cfg.HTTP.MaxBodySize)
			if err != nil {
				return err
			}
			serviceOpts := []importapp.ServiceOption{importapp.WithLogger(log)}
			if cfg.Storage.Enabled() {
				s3, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
				if err != nil {
					return err
				}
				serviceOpts = append(serviceOpts, importapp.WithArchive(s3))
			}

			svc := importapp.NewAccountImportService(
				persistence.NewGormGroupRepository(db.DB),
				persistence.NewGormAccountRepository(db.DB),
				persistence.NewGormImportHistoryRepository(db.DB),
				importOpts,
				serviceOpts...,
			)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := svc.ImportFile(ctx, tenantID, nil, filepath.Base(opts.file), data, importapp.Overrides{
				Strictness:   bulk.Strictness(opts.strictness),
				ConflictMode: bulk.ConflictMode(opts.conflictMode),
			})
			if result != nil {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(result); encErr != nil {
					return encErr
				}
			}
			if err != nil {
				log.Error("Account import failed", zap.String("file", opts.file), zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.tenant, "tenant", "", "Tenant ID that owns the imported accounts")
	cmd.Flags().StringVar(&opts.file, "file", "", "Path of the CSV file")
	cmd.Flags().StringVar(&opts.strictness, "strictness", "", "strict or lenient (default from config)")
	cmd.Flags().StringVar(&opts.conflictMode, "conflict-mode", "", "insert, skip or update (default from config)")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
