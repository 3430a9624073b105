package commands

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsykora/kasa/internal/database/repository"
)

func newKeywordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Manage categorization keywords",
	}
	cmd.AddCommand(newKeywordsListCommand(), newKeywordsAddCommand(), newKeywordsDeleteCommand())
	return cmd
}

func newKeywordsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			keywords, err := a.kws.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, k := range keywords {
				flags := ""
				if k.Ignore {
					flags = " [ignore]"
				}
				fmt.Printf("%s  %s%s\n", k.ID, k.Description, flags)
				fmt.Printf("    include: %s\n", strings.Join(k.Rules.Include, ", "))
				if len(k.Rules.Exclude) > 0 {
					fmt.Printf("    exclude: %s\n", strings.Join(k.Rules.Exclude, ", "))
				}
			}
			return nil
		},
	}
}

func newKeywordsAddCommand() *cobra.Command {
	var (
		description string
		include     []string
		exclude     []string
		subcategory string
		wni         string
		ignore      bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a categorization keyword",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateWNI(wni); err != nil {
				return err
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			k := repository.Keyword{
				ID:                 uuid.NewString(),
				Description:        description,
				Rules:              repository.KeywordRules{Include: include, Exclude: exclude},
				WantNeedInvestment: wni,
				Ignore:             ignore,
			}
			if subcategory != "" {
				sub, err := a.cats.GetSubcategoryByName(cmd.Context(), subcategory)
				if err != nil {
					return fmt.Errorf("resolve subcategory %q: %w", subcategory, err)
				}
				if sub == nil {
					return fmt.Errorf("no subcategory named %q", subcategory)
				}
				k.SubcategoryID = &sub.ID
			}

			if err := a.kws.Upsert(cmd.Context(), k); err != nil {
				return err
			}
			fmt.Println(k.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "keyword description (required)")
	_ = cmd.MarkFlagRequired("description")
	cmd.Flags().StringSliceVar(&include, "include", nil, "include term, all must match (repeatable)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "exclude term, any vetoes the match (repeatable)")
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "target subcategory name")
	cmd.Flags().StringVar(&wni, "wni", "", "want/need/investment classification")
	cmd.Flags().BoolVar(&ignore, "ignore", false, "mark matching transactions ignored")

	return cmd
}

func newKeywordsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			return a.kws.Delete(cmd.Context(), args[0])
		},
	}
}

func validateWNI(wni string) error {
	switch wni {
	case "", repository.WNIWant, repository.WNINeed, repository.WNIInvestment, repository.WNIOther:
		return nil
	}
	return fmt.Errorf("invalid want/need/investment value %q", wni)
}
