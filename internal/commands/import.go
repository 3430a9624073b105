package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jsykora/kasa/internal/csvfile"
	"github.com/jsykora/kasa/internal/database/repository"
	"github.com/jsykora/kasa/internal/service"
)

func newImportCommand() *cobra.Command {
	var accountRef string

	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Import a bank CSV export, or every CSV in the configured import directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			paths := args
			if len(paths) == 0 {
				paths, err = filepath.Glob(filepath.Join(a.cfg.Import.Dir, "*.csv"))
				if err != nil {
					return err
				}
				if len(paths) == 0 {
					return fmt.Errorf("no csv files in %s", a.cfg.Import.Dir)
				}
			}
			for _, path := range paths {
				fmt.Printf("== %s\n", path)
				if err := runImport(cmd.Context(), a, path, accountRef); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountRef, "account", "", "bank account name or account number (required)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runImport(ctx context.Context, a *app, path, accountRef string) error {
	account, err := findAccount(ctx, a, accountRef)
	if err != nil {
		return err
	}
	if account.CSVMappingID == nil {
		return fmt.Errorf("bank account %q has no csv mapping configured", account.AccountName)
	}
	mapping, err := a.maps.Get(ctx, *account.CSVMappingID)
	if err != nil {
		return fmt.Errorf("load csv mapping: %w", err)
	}
	if mapping == nil {
		return fmt.Errorf("csv mapping %s not found", *account.CSVMappingID)
	}

	rows, err := csvfile.Load(path, *mapping)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	importer := service.NewImporter(a.log, a.txns, a.kws, a.accs, a.maps)
	importer.FallbackCurrency = a.cfg.Import.DefaultCurrency
	report, err := importer.Import(ctx, account.ID, rows)
	if report != nil {
		printImportReport(report)
	}
	if err != nil {
		return err
	}
	if !report.Reconciles() {
		return fmt.Errorf("import report does not reconcile: %d rows unaccounted for",
			report.TotalRows-report.Created-report.AlreadyImported-len(report.PossibleDuplicates)-len(report.RowErrors))
	}
	return nil
}

func findAccount(ctx context.Context, a *app, ref string) (*repository.BankAccount, error) {
	accounts, err := a.accs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank accounts: %w", err)
	}
	for i := range accounts {
		if accounts[i].AccountName == ref || accounts[i].AccountNumber == ref {
			return &accounts[i], nil
		}
	}
	return nil, fmt.Errorf("no bank account matches %q", ref)
}

func printImportReport(r *service.ImportReport) {
	fmt.Printf("rows:               %d\n", r.TotalRows)
	fmt.Printf("created:            %d (categorized %d, uncategorized %d, overlap %d, self-transfers %d)\n",
		r.Created, r.Categorized, r.Uncategorized, r.Overlap, r.SelfTransfers)
	fmt.Printf("already imported:   %d\n", r.AlreadyImported)
	fmt.Printf("possible duplicates: %d\n", len(r.PossibleDuplicates))
	for _, d := range r.PossibleDuplicates {
		fmt.Printf("  row %d matches %s (note similarity %.2f)\n", d.Row, d.ExistingID, d.NoteSimilarity)
	}
	fmt.Printf("errors:             %d\n", len(r.RowErrors))
	for _, e := range r.RowErrors {
		fmt.Printf("  row %d: %s\n", e.Row, e.Err)
	}
}
