package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TheCarlosRamos/projeto-portos/pkg/apperrors"
	"github.com/TheCarlosRamos/projeto-portos/pkg/config"
	"github.com/TheCarlosRamos/projeto-portos/pkg/database"
	"github.com/TheCarlosRamos/projeto-portos/pkg/logging"
	"github.com/TheCarlosRamos/projeto-portos/pkg/models"
	"github.com/TheCarlosRamos/projeto-portos/pkg/repositories"
	"github.com/TheCarlosRamos/projeto-portos/pkg/services"
	"github.com/TheCarlosRamos/projeto-portos/pkg/sheet"
)

// Version is set at build time via ldflags
var Version = "dev"

// Shared command state, filled by the root PersistentPreRunE before any
// subcommand runs.
var (
	cfg     *config.Config
	logger  *zap.Logger
	connStr string
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		if logger != nil {
			logger.Error("Command failed", zap.String("error", logging.SanitizeError(err)))
			logger.Sync() //nolint:errcheck
		} else {
			fmt.Fprintln(os.Stderr, "Error:", logging.SanitizeError(err))
		}
		os.Exit(1)
	}
	if logger != nil {
		logger.Sync() //nolint:errcheck
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "portos",
		Short: "Reconcile port-concession workbooks against the registry store",
		Long: `portos ingests the three-sheet concession workbooks (registrations,
services, execution updates), validates them, and keeps the Postgres
store in sync with them.

sync replaces the whole store atomically, import loads row by row and
skips bad rows, validate only reports violations, and export writes the
store back out as a workbook.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logger, err = newLogger(cfg.Env)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			connStr = cfg.Database.ConnectionString()
			logger.Info("Starting",
				zap.String("command", cmd.Name()),
				zap.String("version", Version),
				zap.String("database", logging.SanitizeConnectionString(connStr)))
			return nil
		},
	}

	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <workbook.xlsx>",
		Short: "Validate and atomically replace the store contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := sheet.ReadWorkbook(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, db *database.DB) error {
				sync := services.NewSyncService(db,
					repositories.NewRegistrationRepository(),
					repositories.NewServiceRepository(),
					repositories.NewUpdateRepository(),
					services.NewValidator(cfg.Ingest.StrictBudgetCheck), logger)
				violations, err := sync.Replace(ctx, ds)
				printViolations(violations)
				return err
			})
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <workbook.xlsx>",
		Short: "Additive row-by-row load, skipping bad rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := sheet.ReadWorkbook(args[0])
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, db *database.DB) error {
				etl := services.NewETLService(db,
					repositories.NewRegistrationRepository(),
					repositories.NewServiceRepository(),
					repositories.NewUpdateRepository(),
					services.DuplicatePolicy(cfg.Ingest.OnDuplicate), logger)
				summary, err := etl.Import(ctx, ds)
				if err != nil {
					return err
				}
				printSummary(summary)
				return nil
			})
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <workbook.xlsx>",
		Short: "Report violations without touching the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := sheet.ReadWorkbook(args[0])
			if err != nil {
				return err
			}
			violations := services.NewValidator(cfg.Ingest.StrictBudgetCheck).ValidateDataset(ds)
			printViolations(violations)
			if models.HasErrors(violations) {
				return apperrors.ErrValidationFailed
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <out.xlsx>",
		Short: "Write the store back out as a three-sheet workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, db *database.DB) error {
				exp := services.NewExportService(db,
					repositories.NewRegistrationRepository(),
					repositories.NewServiceRepository(),
					repositories.NewUpdateRepository(), logger)
				ds, err := exp.Export(ctx)
				if err != nil {
					return err
				}
				return sheet.WriteWorkbook(args[0], ds)
			})
		},
	}
}

// withStore runs migrations, opens the pool, and hands it to fn.
func withStore(ctx context.Context, fn func(ctx context.Context, db *database.DB) error) error {
	if err := migrateUp(); err != nil {
		return err
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            connStr,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db)
}

func migrateUp() error {
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer sqlDB.Close()
	return database.RunMigrations(sqlDB, cfg.MigrationsPath, logger)
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func printViolations(violations []models.Violation) {
	for _, v := range violations {
		fmt.Fprintln(os.Stderr, v.String())
	}
}

func printSummary(s *models.ImportSummary) {
	fmt.Printf("run %s\n", s.RunID)
	fmt.Printf("  registrations: %d processed, %d skipped, %d errored\n",
		s.Registrations.Processed, s.Registrations.Skipped, s.Registrations.Errored)
	fmt.Printf("  services:      %d processed, %d skipped, %d errored\n",
		s.Services.Processed, s.Services.Skipped, s.Services.Errored)
	fmt.Printf("  updates:       %d processed, %d skipped, %d errored\n",
		s.Updates.Processed, s.Updates.Skipped, s.Updates.Errored)
	total := s.Total()
	fmt.Printf("  total:         %d processed, %d skipped, %d errored\n",
		total.Processed, total.Skipped, total.Errored)
}
