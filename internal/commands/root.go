// Package commands wires the CLI surface: every subcommand opens the
// database, runs pending migrations and hands repositories to the service
// layer.
package commands

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jsykora/kasa/internal/config"
	"github.com/jsykora/kasa/internal/database"
	"github.com/jsykora/kasa/internal/database/repository"
	"github.com/jsykora/kasa/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kasa",
		Short: "Keyword-driven personal finance tracker",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newInitCommand(),
		newImportCommand(),
		newRecategorizeCommand(),
		newAuditCommand(),
		newKeywordsCommand(),
		newAccountsCommand(),
		newCategoriesCommand(),
		newTagsCommand(),
	)

	return rootCmd
}

// app bundles everything a subcommand needs. Closed by the caller.
type app struct {
	cfg  config.Config
	log  zerolog.Logger
	db   *sql.DB
	txns *repository.TransactionRepo
	kws  *repository.KeywordRepo
	accs *repository.BankAccountRepo
	maps *repository.CSVMappingRepo
	cats *repository.CategoryRepo
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Log.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &app{
		cfg:  cfg,
		log:  log,
		db:   db,
		txns: repository.NewTransactionRepo(db),
		kws:  repository.NewKeywordRepo(db),
		accs: repository.NewBankAccountRepo(db),
		maps: repository.NewCSVMappingRepo(db),
		cats: repository.NewCategoryRepo(db),
	}, nil
}

func (a *app) close() {
	_ = a.db.Close()
}
