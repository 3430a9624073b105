package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsykora/kasa/internal/database/repository"
)

func newAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage bank accounts",
	}
	cmd.AddCommand(newAccountsListCommand(), newAccountsAddCommand())
	return cmd
}

func newAccountsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bank accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			accounts, err := a.accs.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, acc := range accounts {
				mapping := "-"
				if acc.CSVMappingID != nil {
					if m, err := a.maps.Get(cmd.Context(), *acc.CSVMappingID); err == nil && m != nil {
						mapping = m.Name
					}
				}
				fmt.Printf("%s  %s  %s  mapping=%s\n", acc.ID, acc.AccountName, acc.AccountNumber, mapping)
			}
			return nil
		},
	}
}

func newAccountsAddCommand() *cobra.Command {
	var (
		name       string
		number     string
		mapping    string
		ownerCount int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bank account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			acc := repository.BankAccount{
				ID:            uuid.NewString(),
				AccountName:   name,
				AccountNumber: number,
				OwnerCount:    ownerCount,
			}
			if mapping != "" {
				m, err := a.maps.GetByName(cmd.Context(), mapping)
				if err != nil {
					return fmt.Errorf("resolve csv mapping %q: %w", mapping, err)
				}
				if m == nil {
					return fmt.Errorf("no csv mapping named %q", mapping)
				}
				acc.CSVMappingID = &m.ID
			}

			if err := a.accs.Upsert(cmd.Context(), acc); err != nil {
				return err
			}
			fmt.Println(acc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&number, "number", "", "account number including bank code (required)")
	_ = cmd.MarkFlagRequired("number")
	cmd.Flags().StringVar(&mapping, "mapping", "", "csv mapping name")
	cmd.Flags().IntVar(&ownerCount, "owners", 1, "number of account owners")

	return cmd
}
