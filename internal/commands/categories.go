package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}
	cmd.AddCommand(newCategoriesListCommand())
	return cmd
}

func newCategoriesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories and their subcategories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			categories, err := a.cats.List(cmd.Context())
			if err != nil {
				return err
			}
			subcategories, err := a.cats.ListSubcategories(cmd.Context())
			if err != nil {
				return err
			}

			byCategory := make(map[string][]string)
			for _, s := range subcategories {
				byCategory[s.CategoryID] = append(byCategory[s.CategoryID], s.Name)
			}
			for _, c := range categories {
				fmt.Println(c.Name)
				for _, sub := range byCategory[c.ID] {
					fmt.Printf("  %s\n", sub)
				}
			}
			return nil
		},
	}
}
